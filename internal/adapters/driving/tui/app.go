package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/views/outline"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	outlineView *outline.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	return NewAppWithContext(context.Background(), ports)
}

// NewAppWithContext creates an app whose panel calls use ctx.
func NewAppWithContext(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	title := ""
	if ports.Document != nil {
		title = ports.Document.Name
	}

	return &App{
		ports:       ports,
		ctx:         ctx,
		styles:      s,
		keymap:      km,
		outlineView: outline.NewView(ctx, s, km, ports.Panel, title, ports.Settings),
		currentView: messages.ViewOutline,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("outline"),
		a.outlineView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Panel results and bus signals always reach the outline view.
	a.outlineView, cmd = a.outlineView.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
			a.currentView = messages.ViewOutline
		}
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	// Typed names must not trigger global bindings.
	if !a.outlineView.Capturing() {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.currentView = messages.ViewHelp
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.outlineView, cmd = a.outlineView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.outlineView.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			b.WriteString(helpLine(binding))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc)
}

// Run starts the TUI and blocks until it exits. Signals from the bus are
// forwarded to the program for as long as it runs.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	defer a.forward(p)()
	_, err := p.Run()
	return err
}

// forward subscribes to panel signals and returns the unsubscribe.
func (a *App) forward(p *tea.Program) func() {
	sig := a.ports.Signals
	if sig == nil {
		return func() {}
	}
	send := func(event string) func() {
		return func() { p.Send(messages.SignalReceived{Event: event}) }
	}
	unsubs := []driven.Unsubscribe{
		sig.OnDocumentLoaded(send("document-loaded")),
		sig.OnForceUpdateOutlines(send("force-update")),
		sig.OnOutlinesChanged(send("outlines-changed")),
		sig.OnDestinationPicked(func(domain.DestinationPick) {
			p.Send(messages.SignalReceived{Event: "destination-picked"})
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported to the app.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// OutlineView returns the outline view.
func (a *App) OutlineView() *outline.View {
	return a.outlineView
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.outlineView.SetDimensions(width, height)
}

// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/styles"
)

// State represents the current panel state for display.
type State string

const (
	StateReady       State = "ready"
	StateBusy        State = "busy"
	StateEditing     State = "editing"
	StateMultiSelect State = "multi-select"
	StateMoving      State = "moving"
	StateConfirm     State = "confirm"
	StateError       State = "error"
	StateHelp        State = "help"
)

// Bar displays panel status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	count   int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateBusy:
		return s.styles.Muted.Render("Working...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateConfirm:
		return s.styles.Warning.Render(s.messageOr("Delete?"))
	case StateEditing, StateMultiSelect, StateMoving:
		return s.styles.Normal.Render(s.messageOr(string(s.state)))
	case StateHelp:
		return s.styles.Normal.Render("Help")
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	if s.count > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("%d outlines", s.count))
	}
	return s.styles.Muted.Render("No outlines")
}

func (s *Bar) messageOr(fallback string) string {
	if s.message != "" {
		return s.message
	}
	return fallback
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateEditing:
		bindings = s.keymap.EditHelp()
	case StateMultiSelect:
		bindings = s.keymap.MultiSelectHelp()
	case StateMoving:
		bindings = s.keymap.MoveHelp()
	case StateConfirm:
		bindings = s.keymap.ConfirmHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCount sets the number of outlines shown when idle.
func (s *Bar) SetCount(count int) {
	s.count = count
}

// Count returns the outline count.
func (s *Bar) Count() int {
	return s.count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the bar to ready, keeping the count.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}

// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/styles"
)

// MaxNameLength caps outline names typed in the panel.
const MaxNameLength = 256

// NameInput wraps a bubbles textinput for typing outline names.
type NameInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewNameInput creates a blurred name input.
func NewNameInput(s *styles.Styles) *NameInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Outline name"
	ti.CharLimit = MaxNameLength
	ti.Width = 40

	return &NameInput{
		textinput: ti,
		styles:    s,
		label:     "Name",
		width:     40,
	}
}

// Init initialises the input.
func (n *NameInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (n *NameInput) Update(msg tea.Msg) (*NameInput, tea.Cmd) {
	var cmd tea.Cmd
	n.textinput, cmd = n.textinput.Update(msg)
	return n, cmd
}

// View renders the label and the input.
func (n *NameInput) View() string {
	label := n.styles.Title.Render(n.label + ": ")
	field := n.styles.InputField.Render(n.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Start focuses the input with a label, a placeholder and an initial value.
func (n *NameInput) Start(label, placeholder, value string) tea.Cmd {
	n.label = label
	n.textinput.Placeholder = placeholder
	n.textinput.SetValue(value)
	n.textinput.CursorEnd()
	return n.textinput.Focus()
}

// Value returns the current input value.
func (n *NameInput) Value() string {
	return n.textinput.Value()
}

// Label returns the current label.
func (n *NameInput) Label() string {
	return n.label
}

// Focused returns whether the input is focused.
func (n *NameInput) Focused() bool {
	return n.textinput.Focused()
}

// Stop blurs and clears the input.
func (n *NameInput) Stop() {
	n.textinput.Blur()
	n.textinput.Reset()
}

// SetWidth sets the width of the input.
func (n *NameInput) SetWidth(width int) {
	n.width = width
	inputWidth := width - len(n.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	n.textinput.Width = inputWidth
}

// Width returns the current width.
func (n *NameInput) Width() int {
	return n.width
}

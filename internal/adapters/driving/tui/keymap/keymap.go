// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the outline panel.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Cancel leaves the current mode or clears a pending move.
	Cancel key.Binding

	Up   key.Binding
	Down key.Binding

	// Expand and Collapse show or hide an outline's children.
	Expand   key.Binding
	Collapse key.Binding

	// Navigate jumps to the outline under the cursor.
	Navigate key.Binding

	Add    key.Binding
	Rename key.Binding
	Delete key.Binding

	// MultiSelect toggles multi-select mode; Toggle flips the cursor
	// outline's selection while in it.
	MultiSelect key.Binding
	Toggle      key.Binding

	// Cut marks the cursor outline to be moved. The Move bindings drop
	// it relative to the cursor outline.
	Cut        key.Binding
	MoveBefore key.Binding
	MoveAfter  key.Binding
	MoveInward key.Binding

	// Refresh reloads outlines and bookmarks.
	Refresh key.Binding

	// Confirm and Deny answer a delete confirmation.
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Navigate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go to"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		MultiSelect: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "multi-select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		Cut: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cut"),
		),
		MoveBefore: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "drop before"),
		),
		MoveAfter: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "drop after"),
		),
		MoveInward: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "drop inside"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "ctrl+r"),
			key.WithHelp("R", "refresh"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// ShortHelp returns the hints shown in the status bar while browsing.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Rename, k.Delete, k.Cut, k.Help, k.Quit}
}

// EditHelp returns the hints shown while a name is being typed.
func (k *KeyMap) EditHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		k.Cancel,
	}
}

// MultiSelectHelp returns the hints shown in multi-select mode.
func (k *KeyMap) MultiSelectHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.MultiSelect, k.Quit}
}

// MoveHelp returns the hints shown while an outline is cut.
func (k *KeyMap) MoveHelp() []key.Binding {
	return []key.Binding{k.MoveBefore, k.MoveAfter, k.MoveInward, k.Cancel}
}

// ConfirmHelp returns the hints shown while a delete awaits confirmation.
func (k *KeyMap) ConfirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Deny}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse, k.Navigate},
		{k.Add, k.Rename, k.Delete, k.MultiSelect, k.Toggle},
		{k.Cut, k.MoveBefore, k.MoveAfter, k.MoveInward},
		{k.Refresh, k.Cancel, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

// Action names the panel operation a PanelUpdated reports on.
type Action string

const (
	ActionActivate Action = "activate"
	ActionRefresh  Action = "refresh"
	ActionAdd      Action = "add"
	ActionCancel   Action = "cancel"
	ActionRename   Action = "rename"
	ActionMove     Action = "move"
	ActionDelete   Action = "delete"
	ActionNavigate Action = "navigate"
)

// PanelUpdated is sent when an asynchronous panel operation finishes.
// Path is the outline the operation produced or touched, if any.
type PanelUpdated struct {
	Action Action
	Path   domain.Path
	Err    error
}

// SignalReceived is forwarded from the event bus when the panel state may
// have changed outside the TUI.
type SignalReceived struct {
	Event string
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewOutline is the outline panel.
	ViewOutline ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewOutline:
		return "outline"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

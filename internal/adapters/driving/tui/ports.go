// Package tui provides an interactive terminal user interface for the
// outline panel. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the core.
type Ports struct {
	// Panel is an activated outline panel.
	Panel driving.OutlinePanel

	// Signals, when set, is watched so outside changes redraw the panel.
	Signals driven.Signals

	// Document is shown in the title. Optional.
	Document *domain.Document

	// Settings controls expansion of the tree.
	Settings domain.PanelSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Panel == nil {
		return ErrMissingOutlinePanel
	}
	return nil
}

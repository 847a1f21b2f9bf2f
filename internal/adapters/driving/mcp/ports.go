package mcp

import (
	"context"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
)

// PanelOpener activates an outline panel over the document with the given
// ID or name. The caller must Deactivate the panel.
type PanelOpener func(ctx context.Context, document string) (*domain.Document, driving.OutlinePanel, error)

// Ports aggregates everything the MCP server needs from the core.
type Ports struct {
	// Documents lists the known documents.
	Documents driven.DocumentStore

	// OpenPanel opens a panel per tool call.
	OpenPanel PanelOpener
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentStore
	}
	if p.OpenPanel == nil {
		return ErrMissingPanelOpener
	}
	return nil
}

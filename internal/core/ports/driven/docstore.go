package driven

import (
	"context"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

// DocumentStore persists documents and opens engines over them.
// Backed by SQLite for the CLI.
type DocumentStore interface {
	// CreateDocument registers a new document and returns it with its ID set.
	CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error)

	// GetDocument retrieves a document by ID or, failing that, by name.
	GetDocument(ctx context.Context, idOrName string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by name.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its outlines.
	DeleteDocument(ctx context.Context, id string) error

	// ReplaceOutlines discards a document's outline tree and writes seeds.
	ReplaceOutlines(ctx context.Context, id string, seeds []domain.OutlineSeed) error

	// Engine opens the document engine for a document.
	Engine(ctx context.Context, id string) (DocumentEngine, error)
}

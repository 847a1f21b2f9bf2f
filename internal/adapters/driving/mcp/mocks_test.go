package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/engine/memory"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
	"github.com/custodia-labs/outline-cli/internal/core/services"
)

// mockDocumentStore serves one document backed by a memory engine.
type mockDocumentStore struct {
	docs   []domain.Document
	engine *memory.Engine
	err    error
}

func (m *mockDocumentStore) CreateDocument(_ context.Context, doc domain.Document) (*domain.Document, error) {
	return &doc, m.err
}

func (m *mockDocumentStore) GetDocument(_ context.Context, idOrName string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == idOrName || m.docs[i].Name == idOrName {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentStore) ReplaceOutlines(_ context.Context, _ string, _ []domain.OutlineSeed) error {
	return m.err
}

func (m *mockDocumentStore) Engine(_ context.Context, _ string) (driven.DocumentEngine, error) {
	return m.engine, m.err
}

func guideSeeds() []domain.OutlineSeed {
	return []domain.OutlineSeed{
		{
			Name:        "Install",
			Destination: domain.FullPageDestination(1),
			Style:       domain.BookmarkStyle{Flag: domain.FlagBold, Color: domain.Color{B: 1}},
			Children: []domain.OutlineSeed{
				{Name: "Linux", Destination: domain.Destination{Page: 2, X: 10, Y: 20}},
			},
		},
		{Name: "Usage", Destination: domain.FullPageDestination(3)},
	}
}

// newTestServer returns a server over a two-outline guide document.
func newTestServer(t *testing.T, mutate ...func(*domain.PanelSettings)) (*Server, *mockDocumentStore) {
	t.Helper()
	store := &mockDocumentStore{
		docs: []domain.Document{
			{ID: "doc-1", Name: "guide", SourcePath: "/tmp/guide.pdf", PageCount: 12},
		},
		engine: memory.NewEngine(memory.WithSeeds(guideSeeds())),
	}
	settings := domain.DefaultAppSettings().Panel
	for _, m := range mutate {
		m(&settings)
	}

	opener := func(ctx context.Context, ref string) (*domain.Document, driving.OutlinePanel, error) {
		doc, err := store.GetDocument(ctx, ref)
		if err != nil {
			return nil, nil, err
		}
		engine, err := store.Engine(ctx, doc.ID)
		if err != nil {
			return nil, nil, err
		}
		panel := services.NewOutlinePanelService(engine, nil, services.NewBookmarkService(), settings)
		if err := panel.Activate(ctx); err != nil {
			panel.Deactivate()
			return nil, nil, err
		}
		return doc, panel, nil
	}

	server, err := NewServer(&Ports{Documents: store, OpenPanel: opener})
	require.NoError(t, err)
	return server, store
}

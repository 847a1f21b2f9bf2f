package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

// createTestDocument registers a document and returns it.
func createTestDocument(t *testing.T, store *Store, name string, seeds ...domain.OutlineSeed) *domain.Document {
	t.Helper()
	ctx := context.Background()
	docs := store.DocumentStore()

	doc, err := docs.CreateDocument(ctx, domain.Document{Name: name, PageCount: 10})
	require.NoError(t, err)
	if len(seeds) > 0 {
		require.NoError(t, docs.ReplaceOutlines(ctx, doc.ID, seeds))
	}
	return doc
}

// ==================== Store Creation Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(dir, DBName)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), filepath.Join(".outline", "data", DBName))
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "path")

	store, err := NewStore(nested)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nested)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	for _, table := range []string{"documents", "outlines"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	createTestDocument(t, first, "kept")
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	doc, err := second.DocumentStore().GetDocument(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", doc.Name)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var enabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== DocumentStore Tests ====================

func TestDocumentStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	docs := store.DocumentStore()

	created, err := docs.CreateDocument(ctx, domain.Document{
		Name:       "  Manual ",
		SourcePath: "/tmp/manual.pdf",
		PageCount:  12,
		PageHeight: 842,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Manual", created.Name)

	byID, err := docs.GetDocument(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manual", byID.Name)
	assert.Equal(t, "/tmp/manual.pdf", byID.SourcePath)
	assert.Equal(t, 12, byID.PageCount)
	assert.InDelta(t, 842, byID.PageHeight, 0.001)
	assert.True(t, byID.LastOutline.IsZero())

	byName, err := docs.GetDocument(ctx, "Manual")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestDocumentStore_CreateDefaults(t *testing.T) {
	store := setupTestStore(t)

	doc, err := store.DocumentStore().CreateDocument(context.Background(), domain.Document{Name: "a"})
	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultPageHeight, doc.PageHeight, 0.001)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentStore_CreateValidation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	docs := store.DocumentStore()

	_, err := docs.CreateDocument(ctx, domain.Document{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = docs.CreateDocument(ctx, domain.Document{Name: "dup"})
	require.NoError(t, err)
	_, err = docs.CreateDocument(ctx, domain.Document{Name: "dup"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	docs, err := store.DocumentStore().ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	createTestDocument(t, store, "zeta")
	createTestDocument(t, store, "alpha")

	docs, err = store.DocumentStore().ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha", docs[0].Name)
	assert.Equal(t, "zeta", docs[1].Name)
}

func TestDocumentStore_DeleteDocument_CascadesOutlines(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "doc",
		domain.OutlineSeed{Name: "A", Children: []domain.OutlineSeed{{Name: "A1"}}})

	require.NoError(t, store.DocumentStore().DeleteDocument(ctx, doc.ID))

	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM outlines").Scan(&n))
	assert.Zero(t, n)

	err := store.DocumentStore().DeleteDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ReplaceOutlines(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "doc", domain.OutlineSeed{Name: "old"})

	err := store.DocumentStore().ReplaceOutlines(ctx, doc.ID, []domain.OutlineSeed{
		{Name: "A", Destination: domain.Destination{Page: 2, X: 10, Y: 20}},
		{Name: "B", Children: []domain.OutlineSeed{{Name: "B1"}}},
	})
	require.NoError(t, err)

	engine, err := store.DocumentStore().Engine(ctx, doc.ID)
	require.NoError(t, err)
	nodes, err := engine.ListOutlines(ctx)
	require.NoError(t, err)

	require.Len(t, nodes, 2)
	assert.Equal(t, "A", nodes[0].Name)
	assert.Equal(t, domain.Destination{Page: 2, X: 10, Y: 20}, nodes[0].Destination)
	assert.Equal(t, "B", nodes[1].Name)
	require.Len(t, nodes[1].Children, 1)
	assert.Equal(t, domain.Path("1-0"), nodes[1].Children[0].Path)
	// Pages below 1 are stored as page 1.
	assert.Equal(t, 1, nodes[1].Destination.Page)
}

func TestDocumentStore_ReplaceOutlines_UnknownDocument(t *testing.T) {
	store := setupTestStore(t)

	err := store.DocumentStore().ReplaceOutlines(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Engine_ByName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, "by-name")

	engine, err := store.DocumentStore().Engine(ctx, "by-name")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, engine.(*Engine).DocumentID())

	_, err = store.DocumentStore().Engine(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ContextCancellation(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.DocumentStore().ListDocuments(ctx)
	assert.Error(t, err)
}

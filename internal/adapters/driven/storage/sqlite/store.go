package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

// DBName is the database file name inside the data directory.
const DBName = "outlines.db"

// Store is the SQLite-backed document catalogue. Each document's outline
// tree is served through an Engine.
type Store struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewStore opens (creating if needed) the database in dataDir.
// If dataDir is empty, defaults to ~/.outline/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".outline", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBName)

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		log:  logger.Component("sqlite"),
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending up migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		err = s.inTx(context.Background(), func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return err
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version)
			return err
		})
		if err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		s.log.Debug().Int("version", version).Str("file", name).Msg("migration applied")
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, name, source_path, page_count, page_height, last_outline, created_at, updated_at`

// CreateDocument registers a new document with a generated ID.
func (s *documentStore) CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	doc.Name = strings.TrimSpace(doc.Name)
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.PageHeight <= 0 {
		doc.PageHeight = domain.DefaultPageHeight
	}
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now

	var exists bool
	err := s.store.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM documents WHERE name = ?)`, doc.Name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking document name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: document %q", domain.ErrAlreadyExists, doc.Name)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, source_path, page_count, page_height, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Name, doc.SourcePath, doc.PageCount, doc.PageHeight, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return &doc, nil
}

// GetDocument retrieves a document by ID, falling back to name.
func (s *documentStore) GetDocument(ctx context.Context, idOrName string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = ? OR name = ?
		ORDER BY id = ? DESC LIMIT 1
	`, idOrName, idOrName, idOrName)
	return scanDocument(row)
}

// ListDocuments returns all documents ordered by name.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and, by cascade, its outlines.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return nil
}

// ReplaceOutlines discards the document's outline tree and writes seeds.
func (s *documentStore) ReplaceOutlines(ctx context.Context, id string, seeds []domain.OutlineSeed) error {
	return s.store.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireDocument(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM outlines WHERE document_id = ?`, id); err != nil {
			return fmt.Errorf("clearing outlines: %w", err)
		}
		if err := insertSeeds(ctx, tx, id, sql.NullInt64{}, seeds); err != nil {
			return err
		}
		return touchDocument(ctx, tx, id)
	})
}

func insertSeeds(ctx context.Context, q querier, docID string, parent sql.NullInt64, seeds []domain.OutlineSeed) error {
	for i, seed := range seeds {
		id, err := insertOutline(ctx, q, docID, parent, i, seed.Name, seed.Destination, seed.Style)
		if err != nil {
			return err
		}
		if err := insertSeeds(ctx, q, docID, sql.NullInt64{Int64: id, Valid: true}, seed.Children); err != nil {
			return err
		}
	}
	return nil
}

// Engine opens the document engine for a document.
func (s *documentStore) Engine(ctx context.Context, id string) (driven.DocumentEngine, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Engine{store: s.store, docID: doc.ID}, nil
}

func requireDocument(ctx context.Context, q querier, id string) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM documents WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return nil
}

func touchDocument(ctx context.Context, q querier, id string) error {
	_, err := q.ExecContext(ctx, `UPDATE documents SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touching document: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var (
		doc         domain.Document
		lastOutline string
	)
	err := row.Scan(&doc.ID, &doc.Name, &doc.SourcePath, &doc.PageCount, &doc.PageHeight,
		&lastOutline, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.LastOutline = domain.Path(lastOutline)
	return &doc, nil
}

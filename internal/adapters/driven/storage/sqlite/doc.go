// Package sqlite persists documents and their outline trees in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database holds two things:
//
//   - DocumentStore: the catalogue of imported documents
//   - Engine: a DocumentEngine over one document's outline tree
//
// # Schema
//
// Outlines are rows with a parent_id (NULL at the root) and a position that
// is contiguous from 0 among siblings. Paths are resolved by walking
// positions from the root, so every structural change renumbers siblings
// inside one transaction.
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.outline/data/outlines.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode with
// a busy timeout, and each mutation runs in its own transaction.
package sqlite

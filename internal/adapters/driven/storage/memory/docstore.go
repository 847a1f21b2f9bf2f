// Package memory provides an in-memory DocumentStore whose documents are
// served by memory engines. Nothing survives the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	enginemem "github.com/custodia-labs/outline-cli/internal/adapters/driven/engine/memory"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	engines   map[string]*enginemem.Engine
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		engines:   make(map[string]*enginemem.Engine),
	}
}

// CreateDocument registers a document with an empty outline tree.
func (s *DocumentStore) CreateDocument(_ context.Context, doc domain.Document) (*domain.Document, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.documents {
		if s.documents[id].Name == doc.Name {
			return nil, fmt.Errorf("%w: document %q", domain.ErrAlreadyExists, doc.Name)
		}
	}
	s.documents[doc.ID] = doc
	s.engines[doc.ID] = enginemem.NewEngine(enginemem.WithPageHeight(doc.PageHeight))
	return &doc, nil
}

// GetDocument retrieves a document by ID, falling back to name.
func (s *DocumentStore) GetDocument(_ context.Context, idOrName string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.documents[idOrName]; ok {
		return &doc, nil
	}
	for id := range s.documents {
		if doc := s.documents[id]; doc.Name == idOrName {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all documents ordered by name.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// DeleteDocument removes a document and its engine.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	delete(s.documents, id)
	delete(s.engines, id)
	return nil
}

// ReplaceOutlines swaps the document's engine for one holding seeds.
// Engines opened earlier keep the old tree.
func (s *DocumentStore) ReplaceOutlines(_ context.Context, id string, seeds []domain.OutlineSeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	s.engines[id] = enginemem.NewEngine(
		enginemem.WithPageHeight(doc.PageHeight),
		enginemem.WithSeeds(seeds),
	)
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// Engine returns the document's engine. Every call for the same document
// returns the same engine until ReplaceOutlines.
func (s *DocumentStore) Engine(ctx context.Context, id string) (driven.DocumentEngine, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engines[doc.ID], nil
}

// MemoryEngine is Engine without the interface, for inspection.
func (s *DocumentStore) MemoryEngine(id string) (*enginemem.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[id]
	return e, ok
}

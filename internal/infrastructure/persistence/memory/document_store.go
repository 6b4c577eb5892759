// Package memory provides an in-memory document store for tests and
// single-process deployments without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bookkeep/backend/internal/domain/accounting"
)

// Interface check
var _ accounting.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps documents in a process-local map. Safe for
// concurrent use.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*accounting.Document
}

// NewDocumentStore creates an empty in-memory document store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[uuid.UUID]*accounting.Document),
	}
}

// Put inserts or replaces a document
func (s *DocumentStore) Put(doc *accounting.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.docs[doc.ID] = &copied
}

// Get returns a copy of the document with the given id
func (s *DocumentStore) Get(id uuid.UUID) (*accounting.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, false
	}
	copied := *doc
	return &copied, true
}

// FindProcessed returns the documents among ids that belong to tenantID and
// are in the processed state, preserving the order of ids
func (s *DocumentStore) FindProcessed(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*accounting.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*accounting.Document
	for _, id := range ids {
		doc, ok := s.docs[id]
		if !ok || doc.TenantID != tenantID || doc.Status != accounting.DocumentStatusProcessed {
			continue
		}
		copied := *doc
		out = append(out, &copied)
	}
	return out, nil
}

// Update commits a document's current state
func (s *DocumentStore) Update(ctx context.Context, doc *accounting.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s not found", doc.ID)
	}
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore is an in-memory implementation of driven.SummaryStore.
type SummaryStore struct {
	mu      sync.RWMutex
	records map[string]domain.SummaryRecord
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{
		records: make(map[string]domain.SummaryRecord),
	}
}

// Save stores a summary record.
func (s *SummaryStore) Save(_ context.Context, rec domain.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// List returns the most recent records, newest first.
func (s *SummaryStore) List(_ context.Context, limit int) ([]domain.SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.SummaryRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get retrieves a record by ID. Returns (nil, nil) when absent.
func (s *SummaryStore) Get(_ context.Context, id string) (*domain.SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Close releases resources.
func (s *SummaryStore) Close() error {
	return nil
}

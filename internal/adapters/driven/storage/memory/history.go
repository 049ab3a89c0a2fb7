package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.IngestionHistory = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.IngestionHistory.
type HistoryStore struct {
	mu      sync.RWMutex
	batches []domain.IngestionBatch
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record stores a completed batch. Re-recording an ID replaces it.
func (s *HistoryStore) Record(_ context.Context, batch domain.IngestionBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch.Outcomes = slices.Clone(batch.Outcomes)
	for i := range s.batches {
		if s.batches[i].ID == batch.ID {
			s.batches[i] = batch
			return nil
		}
	}
	s.batches = append(s.batches, batch)
	return nil
}

// List returns up to limit batches, newest first.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.IngestionBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.IngestionBatch, 0, len(s.batches))
	for i := len(s.batches) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		batch := s.batches[i]
		batch.Outcomes = slices.Clone(batch.Outcomes)
		result = append(result, batch)
	}
	return result, nil
}

package driven

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// IngestionHistory records completed ingestion batches for later review.
type IngestionHistory interface {
	// Record stores a completed batch.
	Record(ctx context.Context, batch domain.IngestionBatch) error

	// List returns up to limit batches, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]domain.IngestionBatch, error)
}

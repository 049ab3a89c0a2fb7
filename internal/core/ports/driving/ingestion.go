package driving

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// ProgressFunc observes per-file outcomes in submission order.
type ProgressFunc func(outcome domain.IngestionOutcome)

// IngestionCoordinator submits document batches to a collection.
type IngestionCoordinator interface {
	// Ingest validates the batch and submits each supported file in order.
	// The only error returned is a validation error, in which case nothing
	// was submitted. Per-file failures are reported in the outcomes.
	Ingest(ctx context.Context, req domain.IngestionRequest, progress ProgressFunc) ([]domain.IngestionOutcome, error)

	// Upload sends a raw file as a multipart upload.
	Upload(ctx context.Context, fileName string, data []byte) (map[string]any, error)

	// SupportedFileTypes returns the accepted file extensions.
	SupportedFileTypes() []string

	// History lists recorded batches, newest first.
	History(ctx context.Context, limit int) ([]domain.IngestionBatch, error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// DocumentService reads and deletes stored documents and chunks.
// Results may be served from a transient view cache that is cleared on
// every refresh, delete and re-list.
type DocumentService interface {
	// ListDocuments lists stored documents. Always fetches.
	ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error)

	// DeleteDocument deletes a document by ID.
	DeleteDocument(ctx context.Context, id string) error

	// DocumentChunks returns the chunks of a document.
	DocumentChunks(ctx context.Context, documentID string) ([]domain.ChunkRecord, error)

	// CollectionDocuments returns the stored entries of a collection.
	CollectionDocuments(ctx context.Context, collection string) ([]domain.ChunkRecord, error)

	// DeleteChunk deletes a chunk by ID. A missing ID is a remote error.
	DeleteChunk(ctx context.Context, chunkID string) error

	// Refresh clears the view cache.
	Refresh()
}

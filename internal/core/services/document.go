package services

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultViewCacheSize is the number of chunk views kept between refreshes.
const DefaultViewCacheSize = 64

const (
	pathDocuments = "/rag-pipeline/documents"
	pathChunks    = "/rag-pipeline/chunks"
)

type chunkResponse struct {
	ChunkID string `json:"chunkId"`
	Content string `json:"content"`
}

type collectionEntry struct {
	ID        string         `json:"id"`
	Embedding any            `json:"embedding"`
	Document  string         `json:"document"`
	Metadata  map[string]any `json:"metadata"`
}

type collectionRequest struct {
	Collection string `json:"collection"`
}

// DocumentService reads and deletes remote documents and chunks.
type DocumentService struct {
	transport driven.Transport
	views     *lru.Cache[string, []domain.ChunkRecord]
}

// NewDocumentService creates a new document service.
// A non-positive cacheSize uses DefaultViewCacheSize.
func NewDocumentService(transport driven.Transport, cacheSize int) (*DocumentService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultViewCacheSize
	}
	views, err := lru.New[string, []domain.ChunkRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}
	return &DocumentService{
		transport: transport,
		views:     views,
	}, nil
}

// ListDocuments lists stored documents. A re-list clears the view cache.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	s.views.Purge()

	var docs []domain.DocumentRecord
	if err := s.transport.Do(ctx, http.MethodGet, pathDocuments, nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.DocumentRecord{}
	}
	return docs, nil
}

// DeleteDocument deletes a document by ID.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NewValidationError("document id", "is required")
	}
	defer s.views.Purge()
	return s.transport.Do(ctx, http.MethodDelete, pathDocuments+"/"+url.PathEscape(id), nil, nil)
}

// DocumentChunks returns the chunks of a document.
func (s *DocumentService) DocumentChunks(ctx context.Context, documentID string) ([]domain.ChunkRecord, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domain.NewValidationError("document id", "is required")
	}

	key := "doc:" + documentID
	if cached, ok := s.views.Get(key); ok {
		logger.Debug("Chunk view cache hit: %s", key)
		return cloneChunks(cached), nil
	}

	var raw []chunkResponse
	path := pathDocuments + "/" + url.PathEscape(documentID) + "/chunks"
	if err := s.transport.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	chunks := make([]domain.ChunkRecord, 0, len(raw))
	for _, c := range raw {
		chunks = append(chunks, domain.ChunkRecord{ID: c.ChunkID, Content: c.Content})
	}
	s.views.Add(key, chunks)
	return cloneChunks(chunks), nil
}

// CollectionDocuments returns the stored entries of a collection.
func (s *DocumentService) CollectionDocuments(ctx context.Context, collection string) ([]domain.ChunkRecord, error) {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, domain.NewValidationError("collection", "is required")
	}

	key := "collection:" + collection
	if cached, ok := s.views.Get(key); ok {
		logger.Debug("Chunk view cache hit: %s", key)
		return cloneChunks(cached), nil
	}

	var raw []collectionEntry
	if err := s.transport.Do(ctx, http.MethodPost, pathDocuments, collectionRequest{Collection: collection}, &raw); err != nil {
		return nil, err
	}

	chunks := make([]domain.ChunkRecord, 0, len(raw))
	for _, e := range raw {
		chunks = append(chunks, domain.ChunkRecord{ID: e.ID, Content: e.Document, Metadata: e.Metadata})
	}
	s.views.Add(key, chunks)
	return cloneChunks(chunks), nil
}

// DeleteChunk deletes a chunk by ID.
func (s *DocumentService) DeleteChunk(ctx context.Context, chunkID string) error {
	chunkID = strings.TrimSpace(chunkID)
	if chunkID == "" {
		return domain.NewValidationError("chunk id", "is required")
	}
	defer s.views.Purge()
	return s.transport.Do(ctx, http.MethodDelete, pathChunks+"/"+url.PathEscape(chunkID), nil, nil)
}

// Refresh clears the view cache.
func (s *DocumentService) Refresh() {
	s.views.Purge()
}

// cloneChunks copies a cached view so callers cannot change the cache.
func cloneChunks(chunks []domain.ChunkRecord) []domain.ChunkRecord {
	out := slices.Clone(chunks)
	for i := range out {
		out[i].Metadata = maps.Clone(out[i].Metadata)
	}
	return out
}

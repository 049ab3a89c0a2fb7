package mcp

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
)

// mockRefinement is a mock implementation of driving.RefinementCoordinator.
type mockRefinement struct {
	session   domain.RefinementSession
	result    domain.OptimizedPrompt
	err       error
	responses []string
}

func (m *mockRefinement) Submit(_ context.Context, prompt string) (domain.RefinementSession, error) {
	if m.err != nil {
		return domain.RefinementSession{}, m.err
	}
	s := m.session
	s.OriginalPrompt = prompt
	return s, nil
}

func (m *mockRefinement) Answer(_ context.Context, responses []string) (domain.OptimizedPrompt, error) {
	m.responses = responses
	return m.result, m.err
}

func (m *mockRefinement) AdoptAsTemplate() (string, error) { return m.result.OptimizedPrompt, m.err }

func (m *mockRefinement) State() domain.RefinementState { return domain.RefinementIdle }

func (m *mockRefinement) Session() (domain.RefinementSession, bool) { return m.session, true }

func (m *mockRefinement) Result() (domain.OptimizedPrompt, bool) { return m.result, true }

func (m *mockRefinement) LastError() error { return m.err }

// mockIngestion is a mock implementation of driving.IngestionCoordinator.
type mockIngestion struct {
	outcomes []domain.IngestionOutcome
	err      error
	got      domain.IngestionRequest
}

func (m *mockIngestion) Ingest(
	_ context.Context,
	req domain.IngestionRequest,
	_ driving.ProgressFunc,
) ([]domain.IngestionOutcome, error) {
	m.got = req
	return m.outcomes, m.err
}

func (m *mockIngestion) Upload(_ context.Context, _ string, _ []byte) (map[string]any, error) {
	return nil, m.err
}

func (m *mockIngestion) SupportedFileTypes() []string { return domain.DefaultSupportedFileTypes }

func (m *mockIngestion) History(_ context.Context, _ int) ([]domain.IngestionBatch, error) {
	return nil, m.err
}

// mockDocuments is a mock implementation of driving.DocumentService.
type mockDocuments struct {
	documents []domain.DocumentRecord
	chunks    []domain.ChunkRecord
	err       error
	gotID     string
}

func (m *mockDocuments) ListDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.documents, m.err
}

func (m *mockDocuments) DeleteDocument(_ context.Context, id string) error {
	m.gotID = id
	return m.err
}

func (m *mockDocuments) DocumentChunks(_ context.Context, id string) ([]domain.ChunkRecord, error) {
	m.gotID = id
	return m.chunks, m.err
}

func (m *mockDocuments) CollectionDocuments(_ context.Context, collection string) ([]domain.ChunkRecord, error) {
	m.gotID = collection
	return m.chunks, m.err
}

func (m *mockDocuments) DeleteChunk(_ context.Context, id string) error {
	m.gotID = id
	return m.err
}

func (m *mockDocuments) Refresh() {}

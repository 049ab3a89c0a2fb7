package cli

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
)

// mockEndpointResolver implements driving.EndpointResolver for testing.
type mockEndpointResolver struct {
	endpoint     domain.Endpoint
	unavailable  bool
	candidates   []domain.ConnectionCandidate
	setErr       error
	saved        []string
	reconfigured int
}

func (m *mockEndpointResolver) Resolve(_ context.Context) (domain.Endpoint, bool) {
	if m.unavailable {
		return domain.Endpoint{}, false
	}
	return m.endpoint, true
}

func (m *mockEndpointResolver) Reconfigure(ctx context.Context) (domain.Endpoint, bool) {
	m.reconfigured++
	return m.Resolve(ctx)
}

func (m *mockEndpointResolver) Invalidate() {}

func (m *mockEndpointResolver) SetBaseURL(baseURL string) (domain.Endpoint, error) {
	if m.setErr != nil {
		return domain.Endpoint{}, m.setErr
	}
	m.saved = append(m.saved, baseURL)
	return domain.Endpoint{BaseURL: baseURL, Source: domain.SourceToolSetting}, nil
}

func (m *mockEndpointResolver) Candidates() []domain.ConnectionCandidate {
	return m.candidates
}

// mockRefinement implements driving.RefinementCoordinator for testing.
type mockRefinement struct {
	questions []string
	result    domain.OptimizedPrompt
	submitErr error
	answerErr error

	prompts   []string
	responses [][]string
}

func (m *mockRefinement) Submit(_ context.Context, prompt string) (domain.RefinementSession, error) {
	m.prompts = append(m.prompts, prompt)
	if m.submitErr != nil {
		return domain.RefinementSession{}, m.submitErr
	}
	return domain.RefinementSession{OriginalPrompt: prompt, ClarifyingQuestions: m.questions}, nil
}

func (m *mockRefinement) Answer(_ context.Context, responses []string) (domain.OptimizedPrompt, error) {
	m.responses = append(m.responses, responses)
	if m.answerErr != nil {
		return domain.OptimizedPrompt{}, m.answerErr
	}
	return m.result, nil
}

func (m *mockRefinement) AdoptAsTemplate() (string, error) {
	if m.result.OptimizedPrompt == "" {
		return "", domain.PreconditionError(domain.ErrNothingToAdopt)
	}
	return m.result.OptimizedPrompt, nil
}

func (m *mockRefinement) State() domain.RefinementState { return domain.RefinementIdle }

func (m *mockRefinement) Session() (domain.RefinementSession, bool) {
	return domain.RefinementSession{}, false
}

func (m *mockRefinement) Result() (domain.OptimizedPrompt, bool) {
	return m.result, m.result.OptimizedPrompt != ""
}

func (m *mockRefinement) LastError() error { return m.submitErr }

// mockIngestion implements driving.IngestionCoordinator for testing.
type mockIngestion struct {
	outcomes  []domain.IngestionOutcome
	ingestErr error
	uploadErr error
	batches   []domain.IngestionBatch

	requests []domain.IngestionRequest
	uploads  []string
	limits   []int
}

func (m *mockIngestion) Ingest(
	_ context.Context, req domain.IngestionRequest, progress driving.ProgressFunc,
) ([]domain.IngestionOutcome, error) {
	m.requests = append(m.requests, req)
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	for _, o := range m.outcomes {
		if progress != nil {
			progress(o)
		}
	}
	return m.outcomes, nil
}

func (m *mockIngestion) Upload(_ context.Context, fileName string, _ []byte) (map[string]any, error) {
	m.uploads = append(m.uploads, fileName)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return map[string]any{"status": "ok", "fileName": fileName}, nil
}

func (m *mockIngestion) SupportedFileTypes() []string {
	return domain.DefaultSupportedFileTypes
}

func (m *mockIngestion) History(_ context.Context, limit int) ([]domain.IngestionBatch, error) {
	m.limits = append(m.limits, limit)
	return m.batches, nil
}

// mockDocuments implements driving.DocumentService for testing.
type mockDocuments struct {
	docs   []domain.DocumentRecord
	chunks map[string][]domain.ChunkRecord
	err    error

	deletedDocs   []string
	deletedChunks []string
	refreshed     int
}

func (m *mockDocuments) ListDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.docs, m.err
}

func (m *mockDocuments) DeleteDocument(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deletedDocs = append(m.deletedDocs, id)
	return nil
}

func (m *mockDocuments) DocumentChunks(_ context.Context, documentID string) ([]domain.ChunkRecord, error) {
	return m.chunks[documentID], m.err
}

func (m *mockDocuments) CollectionDocuments(_ context.Context, collection string) ([]domain.ChunkRecord, error) {
	return m.chunks[collection], m.err
}

func (m *mockDocuments) DeleteChunk(_ context.Context, chunkID string) error {
	if m.err != nil {
		return m.err
	}
	m.deletedChunks = append(m.deletedChunks, chunkID)
	return nil
}

func (m *mockDocuments) Refresh() { m.refreshed++ }

// testMocks holds the mocks installed by setupTestServices.
type testMocks struct {
	endpoint   *mockEndpointResolver
	refinement *mockRefinement
	ingestion  *mockIngestion
	documents  *mockDocuments
}

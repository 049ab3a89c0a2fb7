package boundary

import (
	"context"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
)

// mockRefinement is a mock implementation of driving.RefinementCoordinator.
type mockRefinement struct {
	session domain.RefinementSession
	result  domain.OptimizedPrompt
	err     error

	// block, when set, holds Submit until it is closed.
	block   chan struct{}
	entered chan struct{}

	mu        sync.Mutex
	prompts   []string
	responses [][]string
}

func (m *mockRefinement) Submit(_ context.Context, prompt string) (domain.RefinementSession, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return domain.RefinementSession{}, m.err
	}
	s := m.session
	if s.OriginalPrompt == "" {
		s.OriginalPrompt = prompt
	}
	return s, nil
}

func (m *mockRefinement) Answer(_ context.Context, responses []string) (domain.OptimizedPrompt, error) {
	m.mu.Lock()
	m.responses = append(m.responses, responses)
	m.mu.Unlock()
	return m.result, m.err
}

func (m *mockRefinement) AdoptAsTemplate() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.result.OptimizedPrompt, nil
}

func (m *mockRefinement) State() domain.RefinementState { return domain.RefinementIdle }

func (m *mockRefinement) Session() (domain.RefinementSession, bool) { return m.session, true }

func (m *mockRefinement) Result() (domain.OptimizedPrompt, bool) { return m.result, true }

func (m *mockRefinement) LastError() error { return m.err }

func (m *mockRefinement) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// mockIngestion is a mock implementation of driving.IngestionCoordinator.
type mockIngestion struct {
	outcomes []domain.IngestionOutcome
	err      error
	got      domain.IngestionRequest
}

func (m *mockIngestion) Ingest(
	_ context.Context,
	req domain.IngestionRequest,
	progress driving.ProgressFunc,
) ([]domain.IngestionOutcome, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.outcomes {
		if progress != nil {
			progress(o)
		}
	}
	return m.outcomes, nil
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

	deletedDocs   []string
	deletedChunks []string
	refreshed     int
	listed        int
}

func (m *mockDocuments) ListDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	m.listed++
	return m.documents, m.err
}

func (m *mockDocuments) DeleteDocument(_ context.Context, id string) error {
	m.deletedDocs = append(m.deletedDocs, id)
	return m.err
}

func (m *mockDocuments) DocumentChunks(_ context.Context, _ string) ([]domain.ChunkRecord, error) {
	return m.chunks, m.err
}

func (m *mockDocuments) CollectionDocuments(_ context.Context, _ string) ([]domain.ChunkRecord, error) {
	return m.chunks, m.err
}

func (m *mockDocuments) DeleteChunk(_ context.Context, id string) error {
	m.deletedChunks = append(m.deletedChunks, id)
	return m.err
}

func (m *mockDocuments) Refresh() { m.refreshed++ }

// recorder collects outbound messages.
type recorder struct {
	mu  sync.Mutex
	out []Outbound
}

func (r *recorder) Send(out Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, out)
}

func (r *recorder) Messages() []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outbound(nil), r.out...)
}

package tui

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// MockRefinement is a mock implementation of driving.RefinementCoordinator.
type MockRefinement struct {
	Questions []string
	Optimized domain.OptimizedPrompt
	Err       error

	Prompts   []string
	Responses [][]string
}

func (m *MockRefinement) Submit(_ context.Context, prompt string) (domain.RefinementSession, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return domain.RefinementSession{}, m.Err
	}
	return domain.RefinementSession{OriginalPrompt: prompt, ClarifyingQuestions: m.Questions}, nil
}

func (m *MockRefinement) Answer(_ context.Context, responses []string) (domain.OptimizedPrompt, error) {
	m.Responses = append(m.Responses, responses)
	return m.Optimized, m.Err
}

func (m *MockRefinement) AdoptAsTemplate() (string, error) {
	if m.Optimized.OptimizedPrompt == "" {
		return "", domain.PreconditionError(domain.ErrNothingToAdopt)
	}
	return m.Optimized.OptimizedPrompt, nil
}

func (m *MockRefinement) State() domain.RefinementState { return domain.RefinementIdle }

func (m *MockRefinement) Session() (domain.RefinementSession, bool) {
	return domain.RefinementSession{}, false
}

func (m *MockRefinement) Result() (domain.OptimizedPrompt, bool) { return m.Optimized, false }

func (m *MockRefinement) LastError() error { return m.Err }

// MockDocuments is a mock implementation of driving.DocumentService.
type MockDocuments struct {
	Docs   []domain.DocumentRecord
	Chunks []domain.ChunkRecord
	Err    error

	DeletedDocs   []string
	DeletedChunks []string
	Refreshed     int
}

func (m *MockDocuments) ListDocuments(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.Docs, m.Err
}

func (m *MockDocuments) DeleteDocument(_ context.Context, id string) error {
	m.DeletedDocs = append(m.DeletedDocs, id)
	return m.Err
}

func (m *MockDocuments) DocumentChunks(_ context.Context, _ string) ([]domain.ChunkRecord, error) {
	return m.Chunks, m.Err
}

func (m *MockDocuments) CollectionDocuments(_ context.Context, _ string) ([]domain.ChunkRecord, error) {
	return m.Chunks, m.Err
}

func (m *MockDocuments) DeleteChunk(_ context.Context, id string) error {
	m.DeletedChunks = append(m.DeletedChunks, id)
	return m.Err
}

func (m *MockDocuments) Refresh() { m.Refreshed++ }

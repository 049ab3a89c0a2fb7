package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// Ensure RefinementService implements the interface.
var _ driving.RefinementCoordinator = (*RefinementService)(nil)

// Prompt optimiser paths.
const (
	pathOptimize = "/prompt-optimizer/optimize"
	pathAnswer   = "/prompt-optimizer/answer"
)

type optimizeRequest struct {
	OriginalPrompt string `json:"originalPrompt"`
}

type optimizeResponse struct {
	OriginalPrompt      string   `json:"originalPrompt"`
	ClarifyingQuestions []string `json:"clarifyingQuestions"`
}

type answerRequest struct {
	OriginalPrompt      string   `json:"originalPrompt"`
	ClarifyingQuestions []string `json:"clarifyingQuestions"`
	UserResponses       []string `json:"user_responses"`
}

// answerResponse is the server's naming; it is mapped to
// domain.OptimizedPrompt before leaving this file.
type answerResponse struct {
	ImprovedPrompt  string          `json:"improved_prompt"`
	KeyImprovements improvementText `json:"key_improvements"`
}

// improvementText accepts either a string or a list of strings.
type improvementText string

func (t *improvementText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = improvementText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = improvementText(strings.Join(list, "\n"))
	return nil
}

// RefinementService drives one prompt refinement cycle at a time.
//
// Every request takes a sequence number. A response is applied only if its
// number is still the latest; otherwise it is dropped with ErrSuperseded.
type RefinementService struct {
	transport driven.Transport
	endpoints driving.EndpointResolver

	mu      sync.Mutex
	seq     uint64
	state   domain.RefinementState
	session *domain.RefinementSession
	result  *domain.OptimizedPrompt
	lastErr error
}

// NewRefinementService creates a new refinement service.
// The endpoint resolver is optional; when set it is asked to reconfigure
// after failures that point at a stale endpoint.
func NewRefinementService(transport driven.Transport, endpoints driving.EndpointResolver) *RefinementService {
	return &RefinementService{
		transport: transport,
		endpoints: endpoints,
	}
}

// Submit starts a new cycle for prompt.
func (s *RefinementService) Submit(ctx context.Context, prompt string) (domain.RefinementSession, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.RefinementSession{}, domain.NewValidationError("prompt", "is required")
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = domain.RefinementAwaitingQuestions
	s.session = nil
	s.result = nil
	s.lastErr = nil
	s.mu.Unlock()

	logger.Debug("Submitting prompt for optimisation (request %d)", seq)

	var resp optimizeResponse
	err := s.transport.Do(ctx, http.MethodPost, pathOptimize, optimizeRequest{OriginalPrompt: prompt}, &resp)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		logger.Debug("Dropping optimise response %d, superseded by %d", seq, s.seq)
		return domain.RefinementSession{}, domain.ErrSuperseded
	}
	if err != nil {
		s.state = domain.RefinementError
		s.lastErr = err
		s.mu.Unlock()
		s.reconfigureOn(ctx, err)
		return domain.RefinementSession{}, err
	}

	original := resp.OriginalPrompt
	if original == "" {
		original = prompt
	}
	s.session = &domain.RefinementSession{
		OriginalPrompt:      original,
		ClarifyingQuestions: resp.ClarifyingQuestions,
	}
	s.state = domain.RefinementAwaitingAnswers
	session := s.session.Clone()
	s.mu.Unlock()

	logger.Debug("Received %d clarifying questions", len(session.ClarifyingQuestions))
	return session, nil
}

// Answer submits responses for the current session.
func (s *RefinementService) Answer(ctx context.Context, responses []string) (domain.OptimizedPrompt, error) {
	s.mu.Lock()
	if !s.session.IsComplete() {
		s.mu.Unlock()
		return domain.OptimizedPrompt{}, domain.PreconditionError(domain.ErrNoSession)
	}
	session := s.session.Clone()
	s.seq++
	seq := s.seq
	s.lastErr = nil
	s.mu.Unlock()

	if responses == nil {
		responses = []string{}
	}
	req := answerRequest{
		OriginalPrompt:      session.OriginalPrompt,
		ClarifyingQuestions: session.ClarifyingQuestions,
		UserResponses:       responses,
	}

	logger.Debug("Submitting %d answers (request %d)", len(responses), seq)

	var resp answerResponse
	err := s.transport.Do(ctx, http.MethodPost, pathAnswer, req, &resp)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		logger.Debug("Dropping answer response %d, superseded by %d", seq, s.seq)
		return domain.OptimizedPrompt{}, domain.ErrSuperseded
	}
	if err != nil {
		// Keep the session so the answers can be resubmitted.
		s.state = domain.RefinementAwaitingAnswers
		s.lastErr = err
		s.mu.Unlock()
		s.reconfigureOn(ctx, err)
		return domain.OptimizedPrompt{}, err
	}

	result := domain.OptimizedPrompt{
		OptimizedPrompt: resp.ImprovedPrompt,
		KeyImprovements: string(resp.KeyImprovements),
	}
	s.result = &result
	s.state = domain.RefinementOptimized
	s.mu.Unlock()

	return result, nil
}

// AdoptAsTemplate returns the optimised text and resets to Idle.
func (s *RefinementService) AdoptAsTemplate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.RefinementOptimized || s.result == nil {
		return "", domain.PreconditionError(domain.ErrNothingToAdopt)
	}

	text := s.result.OptimizedPrompt
	s.seq++
	s.state = domain.RefinementIdle
	s.session = nil
	s.result = nil
	s.lastErr = nil
	return text, nil
}

// State returns the current state.
func (s *RefinementService) State() domain.RefinementState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns a copy of the current session.
func (s *RefinementService) Session() (domain.RefinementSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.RefinementSession{}, false
	}
	return s.session.Clone(), true
}

// Result returns the optimised prompt while in the Optimized state.
func (s *RefinementService) Result() (domain.OptimizedPrompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.OptimizedPrompt{}, false
	}
	return *s.result, true
}

// LastError returns the error of the most recent failed request.
func (s *RefinementService) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// reconfigureOn re-runs endpoint resolution after failures that usually
// mean the endpoint is stale. Must not be called with mu held.
func (s *RefinementService) reconfigureOn(ctx context.Context, err error) {
	if s.endpoints == nil || !domain.NeedsReconfiguration(err) {
		return
	}
	logger.Warn("API unreachable or misconfigured, resolving endpoint again: %v", err)
	if ep, ok := s.endpoints.Reconfigure(ctx); ok {
		logger.Info("Endpoint now %s (%s)", ep.BaseURL, ep.Source)
	}
}

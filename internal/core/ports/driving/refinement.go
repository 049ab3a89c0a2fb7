package driving

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// RefinementCoordinator drives the optimise → clarify → answer cycle.
// One instance holds at most one session.
type RefinementCoordinator interface {
	// Submit starts a new cycle for prompt, discarding any previous session,
	// and returns the session holding the clarifying questions.
	Submit(ctx context.Context, prompt string) (domain.RefinementSession, error)

	// Answer submits responses to the current session's questions.
	// Fails with a validation error, without a request, if no session exists.
	Answer(ctx context.Context, responses []string) (domain.OptimizedPrompt, error)

	// AdoptAsTemplate returns the optimised prompt and resets the cycle so
	// the text can be submitted afresh.
	AdoptAsTemplate() (string, error)

	// State returns the current state.
	State() domain.RefinementState

	// Session returns the current session, if any.
	Session() (domain.RefinementSession, bool)

	// Result returns the optimised prompt while in the Optimized state.
	Result() (domain.OptimizedPrompt, bool)

	// LastError returns the error of the most recent failed request.
	LastError() error
}

package driving

import (
	"context"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// EndpointResolver produces the base address of the remote service.
type EndpointResolver interface {
	// Resolve returns the current endpoint, resolving it first if needed.
	// The boolean is false when no endpoint is available; callers must not
	// attempt a request in that case.
	Resolve(ctx context.Context) (domain.Endpoint, bool)

	// Reconfigure discards the current endpoint and resolves again,
	// skipping any source that still produces the discarded address.
	Reconfigure(ctx context.Context) (domain.Endpoint, bool)

	// Invalidate discards the current endpoint. The next Resolve re-runs
	// the source chain.
	Invalidate()

	// SetBaseURL validates and persists an explicit base URL.
	SetBaseURL(baseURL string) (domain.Endpoint, error)

	// Candidates lists what each configured source would produce, in
	// precedence order. Interactive input is never triggered.
	Candidates() []domain.ConnectionCandidate
}

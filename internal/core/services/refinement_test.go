package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/api"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// optimiserHandler answers optimise requests with numbered questions and
// answer requests with a fixed result.
func optimiserHandler(_ context.Context, call transportCall) (any, error) {
	switch call.Path {
	case pathOptimize:
		prompt, _ := call.Body["originalPrompt"].(string)
		return map[string]any{
			"originalPrompt":      prompt,
			"clarifyingQuestions": []string{"Q1 for " + prompt, "Q2 for " + prompt},
		}, nil
	case pathAnswer:
		return map[string]any{
			"improved_prompt":  "X",
			"key_improvements": "Y",
		}, nil
	}
	return nil, &domain.RemoteError{Method: call.Method, Path: call.Path, StatusCode: 404}
}

func TestRefinementService_SubmitStoresSession(t *testing.T) {
	transport := newFakeTransport(optimiserHandler)
	svc := NewRefinementService(transport, nil)
	assert.Equal(t, domain.RefinementIdle, svc.State())

	session, err := svc.Submit(context.Background(), "  write a parser ")
	require.NoError(t, err)

	assert.Equal(t, "write a parser", session.OriginalPrompt)
	assert.Equal(t, []string{"Q1 for write a parser", "Q2 for write a parser"}, session.ClarifyingQuestions)
	assert.Equal(t, domain.RefinementAwaitingAnswers, svc.State())

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/prompt-optimizer/optimize", calls[0].Path)
	assert.Equal(t, map[string]any{"originalPrompt": "write a parser"}, calls[0].Body)
}

func TestRefinementService_SubmitFallsBackToSubmittedPrompt(t *testing.T) {
	transport := newFakeTransport(func(context.Context, transportCall) (any, error) {
		return map[string]any{"clarifyingQuestions": []string{"Which language?"}}, nil
	})
	svc := NewRefinementService(transport, nil)

	session, err := svc.Submit(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "p", session.OriginalPrompt)
}

func TestRefinementService_SubmitEmptyPrompt(t *testing.T) {
	transport := newFakeTransport(optimiserHandler)
	svc := NewRefinementService(transport, nil)

	_, err := svc.Submit(context.Background(), "   ")

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, transport.Calls())
	assert.Equal(t, domain.RefinementIdle, svc.State())
}

func TestRefinementService_SubmitFailure(t *testing.T) {
	remoteErr := &domain.RemoteError{Method: "POST", Path: pathOptimize, StatusCode: 500, Body: "boom"}
	transport := newFakeTransport(func(context.Context, transportCall) (any, error) {
		return nil, remoteErr
	})
	resolver := &fakeResolver{}
	svc := NewRefinementService(transport, resolver)

	_, err := svc.Submit(context.Background(), "p")

	assert.ErrorIs(t, err, remoteErr)
	assert.Equal(t, domain.RefinementError, svc.State())
	_, ok := svc.Session()
	assert.False(t, ok)
	assert.Equal(t, remoteErr, svc.LastError())
	assert.Zero(t, resolver.Reconfigured(), "remote errors do not reconfigure")
}

func TestRefinementService_AnswerWithoutSession(t *testing.T) {
	transport := newFakeTransport(optimiserHandler)
	svc := NewRefinementService(transport, nil)

	_, err := svc.Answer(context.Background(), []string{"a"})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Empty(t, transport.Calls())
}

func TestRefinementService_AnswerWithoutQuestions(t *testing.T) {
	transport := newFakeTransport(func(_ context.Context, call transportCall) (any, error) {
		return map[string]any{"originalPrompt": "p", "clarifyingQuestions": []string{}}, nil
	})
	svc := NewRefinementService(transport, nil)
	_, err := svc.Submit(context.Background(), "p")
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Len(t, transport.Calls(), 1)
}

func TestRefinementService_AnswerUsesMostRecentSession(t *testing.T) {
	transport := newFakeTransport(optimiserHandler)
	svc := NewRefinementService(transport, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "first")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "second")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, []string{"r1", "r2"})
	require.NoError(t, err)

	calls := transport.Calls()
	require.Len(t, calls, 3)
	answer := calls[2]
	assert.Equal(t, "/prompt-optimizer/answer", answer.Path)
	assert.Equal(t, "second", answer.Body["originalPrompt"])
	assert.Equal(t, []any{"Q1 for second", "Q2 for second"}, answer.Body["clarifyingQuestions"])
	assert.Equal(t, []any{"r1", "r2"}, answer.Body["user_responses"])
}

func TestRefinementService_AnswerMapsResponseExactly(t *testing.T) {
	svc := NewRefinementService(newFakeTransport(optimiserHandler), nil)
	ctx := context.Background()
	_, _ = svc.Submit(ctx, "p")

	result, err := svc.Answer(ctx, []string{"r"})
	require.NoError(t, err)

	assert.Equal(t, domain.OptimizedPrompt{OptimizedPrompt: "X", KeyImprovements: "Y"}, result)
	assert.Equal(t, domain.RefinementOptimized, svc.State())
	stored, ok := svc.Result()
	require.True(t, ok)
	assert.Equal(t, result, stored)
}

func TestRefinementService_KeyImprovementsList(t *testing.T) {
	transport := newFakeTransport(func(_ context.Context, call transportCall) (any, error) {
		if call.Path == pathOptimize {
			return optimiserHandler(context.Background(), call)
		}
		return map[string]any{
			"improved_prompt":  "better",
			"key_improvements": []string{"clearer scope", "explicit format"},
		}, nil
	})
	svc := NewRefinementService(transport, nil)
	_, _ = svc.Submit(context.Background(), "p")

	result, err := svc.Answer(context.Background(), []string{"r"})
	require.NoError(t, err)

	assert.Equal(t, "clearer scope\nexplicit format", result.KeyImprovements)
}

func TestRefinementService_AnswerFailureKeepsSession(t *testing.T) {
	fail := true
	transport := newFakeTransport(func(ctx context.Context, call transportCall) (any, error) {
		if call.Path == pathAnswer && fail {
			return nil, &domain.RemoteError{Method: call.Method, Path: call.Path, StatusCode: 502}
		}
		return optimiserHandler(ctx, call)
	})
	svc := NewRefinementService(transport, nil)
	ctx := context.Background()
	_, _ = svc.Submit(ctx, "p")

	_, err := svc.Answer(ctx, []string{"r"})
	require.Error(t, err)
	assert.Equal(t, domain.RefinementAwaitingAnswers, svc.State())
	session, ok := svc.Session()
	require.True(t, ok)
	assert.Equal(t, "p", session.OriginalPrompt)

	fail = false
	result, err := svc.Answer(ctx, []string{"r"})
	require.NoError(t, err)
	assert.Equal(t, "X", result.OptimizedPrompt)
	assert.Nil(t, svc.LastError())
}

func TestRefinementService_AdoptAsTemplate(t *testing.T) {
	svc := NewRefinementService(newFakeTransport(optimiserHandler), nil)
	ctx := context.Background()

	_, err := svc.AdoptAsTemplate()
	assert.ErrorIs(t, err, domain.ErrNothingToAdopt)

	_, _ = svc.Submit(ctx, "p")
	_, err = svc.AdoptAsTemplate()
	assert.ErrorIs(t, err, domain.ErrNothingToAdopt, "not yet optimised")

	_, _ = svc.Answer(ctx, []string{"r"})
	text, err := svc.AdoptAsTemplate()
	require.NoError(t, err)

	assert.Equal(t, "X", text)
	assert.Equal(t, domain.RefinementIdle, svc.State())
	_, ok := svc.Session()
	assert.False(t, ok)
	_, ok = svc.Result()
	assert.False(t, ok)

	session, err := svc.Submit(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, "X", session.OriginalPrompt)
}

func TestRefinementService_StaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	transport := newFakeTransport(func(ctx context.Context, call transportCall) (any, error) {
		if call.Body["originalPrompt"] == "slow" {
			close(entered)
			<-release
		}
		return optimiserHandler(ctx, call)
	})
	svc := NewRefinementService(transport, nil)
	ctx := context.Background()

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, "slow")
		errCh <- err
	}()
	<-entered

	session, err := svc.Submit(ctx, "fast")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errCh, domain.ErrSuperseded)
	current, ok := svc.Session()
	require.True(t, ok)
	assert.Equal(t, session, current)
	assert.Equal(t, "fast", current.OriginalPrompt)
	assert.Equal(t, domain.RefinementAwaitingAnswers, svc.State())
}

func TestRefinementService_ReconfiguresOnStaleEndpoint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unreachable",
			err:  &domain.UnreachableError{Method: "POST", URL: "http://gone/artisan/api", Err: errors.New("connection refused")},
			want: 1,
		},
		{
			name: "malformed url",
			err:  &domain.SetupError{Op: "build request", Err: &url.Error{Op: "parse", URL: "::", Err: errors.New("missing scheme")}},
			want: 1,
		},
		{
			name: "remote",
			err:  &domain.RemoteError{Method: "POST", Path: pathOptimize, StatusCode: 400},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{}
			transport := newFakeTransport(func(context.Context, transportCall) (any, error) {
				return nil, tt.err
			})
			svc := NewRefinementService(transport, resolver)

			_, err := svc.Submit(context.Background(), "p")

			require.Error(t, err)
			assert.Equal(t, tt.want, resolver.Reconfigured())
		})
	}
}

func TestRefinementService_UnreachableEndpointAsksForNewAddress(t *testing.T) {
	ctx := context.Background()

	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"originalPrompt":"p","clarifyingQuestions":["Which language?"]}`))
	}))
	defer live.Close()
	liveURL, err := url.Parse(live.URL)
	require.NoError(t, err)

	gone := httptest.NewServer(http.NotFoundHandler())
	staleURL := gone.URL + domain.APISuffix
	gone.Close()

	config := memory.NewConfigStore()
	require.NoError(t, config.Set(keyAPIURL, staleURL))
	prompter := &fakePrompter{answers: []string{liveURL.Hostname(), liveURL.Port()}}
	endpoints := NewEndpointService(config, prompter)
	svc := NewRefinementService(api.NewClient(endpoints, api.Config{}), endpoints)

	_, err = svc.Submit(ctx, "p")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnreachable, domain.KindOf(err))
	assert.Len(t, prompter.Asked(), 2)

	want := "http://" + liveURL.Host + domain.APISuffix
	ep, ok := endpoints.Resolve(ctx)
	require.True(t, ok)
	assert.Equal(t, want, ep.BaseURL)
	assert.Equal(t, domain.SourcePrompt, ep.Source)
	assert.Equal(t, want, config.GetString(keyAPIURL))

	session, err := svc.Submit(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"Which language?"}, session.ClarifyingQuestions)
}

package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

// transportCall is one recorded request.
type transportCall struct {
	Method   string
	Path     string
	Body     map[string]any
	FileName string
}

// fakeTransport records requests and answers them with a handler.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []transportCall
	handler func(ctx context.Context, call transportCall) (any, error)
}

func newFakeTransport(handler func(ctx context.Context, call transportCall) (any, error)) *fakeTransport {
	return &fakeTransport{handler: handler}
}

func (f *fakeTransport) Do(ctx context.Context, method, path string, body, out any) error {
	call := transportCall{Method: method, Path: path}
	if body != nil {
		raw, _ := json.Marshal(body)
		_ = json.Unmarshal(raw, &call.Body)
	}
	return f.serve(ctx, call, out)
}

func (f *fakeTransport) Upload(ctx context.Context, path string, _ []byte, fileName string, out any) error {
	return f.serve(ctx, transportCall{Method: "POST", Path: path, FileName: fileName}, out)
}

func (f *fakeTransport) serve(ctx context.Context, call transportCall, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.handler == nil {
		return nil
	}
	resp, err := f.handler(ctx, call)
	if err != nil {
		return err
	}
	return respond(out, resp)
}

func (f *fakeTransport) Calls() []transportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transportCall(nil), f.calls...)
}

// respond round-trips v through JSON into out, the way a real response is decoded.
func respond(out, v any) error {
	if out == nil || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// fakePrompter answers prompts from a script.
type fakePrompter struct {
	mu      sync.Mutex
	answers []string
	asked   []driven.PromptRequest
	err     error
}

func (p *fakePrompter) Prompt(_ context.Context, req driven.PromptRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, req)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return "", nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *fakePrompter) Asked() []driven.PromptRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]driven.PromptRequest(nil), p.asked...)
}

// fakeResolver counts reconfiguration requests.
type fakeResolver struct {
	mu           sync.Mutex
	reconfigured int
}

func (r *fakeResolver) Resolve(context.Context) (domain.Endpoint, bool) {
	return domain.Endpoint{BaseURL: "http://localhost:52773/artisan/api"}, true
}

func (r *fakeResolver) Reconfigure(ctx context.Context) (domain.Endpoint, bool) {
	r.mu.Lock()
	r.reconfigured++
	r.mu.Unlock()
	return r.Resolve(ctx)
}

func (r *fakeResolver) Invalidate() {}

func (r *fakeResolver) SetBaseURL(baseURL string) (domain.Endpoint, error) {
	return domain.Endpoint{BaseURL: baseURL}, nil
}

func (r *fakeResolver) Candidates() []domain.ConnectionCandidate { return nil }

func (r *fakeResolver) Reconfigured() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reconfigured
}

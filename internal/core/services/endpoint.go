package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// Ensure EndpointService implements the interface.
var _ driving.EndpointResolver = (*EndpointService)(nil)

// Config keys read by the endpoint sources.
const (
	keyAPIURL       = "artisan.api_url"
	keyServers      = "intersystems.servers"
	keyConnHost     = "objectscript.conn.host"
	keyConnPort     = "objectscript.conn.port"
	keyConnProtocol = "objectscript.conn.protocol"
)

// Interactive prompts for the last resolution step.
var (
	hostPrompt = driven.PromptRequest{Label: "Enter IRIS host", Placeholder: "localhost"}
	portPrompt = driven.PromptRequest{Label: "Enter IRIS port", Placeholder: "52773"}
)

// endpointSource is one step of the resolution chain.
type endpointSource struct {
	name   string
	lookup func() (domain.Endpoint, bool)
}

// EndpointService resolves the service base URL from configuration.
// It is the single writer of the resolved endpoint.
type EndpointService struct {
	config   driven.ConfigStore
	prompter driven.Prompter
	sources  []endpointSource

	mu      sync.Mutex
	current domain.Endpoint
}

// NewEndpointService creates a new endpoint service.
// The prompter is optional; without it resolution never asks the user.
func NewEndpointService(config driven.ConfigStore, prompter driven.Prompter) *EndpointService {
	s := &EndpointService{
		config:   config,
		prompter: prompter,
	}
	s.sources = []endpointSource{
		{name: domain.SourceToolSetting, lookup: s.fromToolSetting},
		{name: domain.SourceServers, lookup: s.fromServers},
		{name: domain.SourceConnection, lookup: s.fromConnection},
	}
	return s
}

// Resolve returns the cached endpoint or runs the source chain.
func (s *EndpointService) Resolve(ctx context.Context) (domain.Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.IsZero() {
		return s.current, true
	}
	return s.resolveLocked(ctx, "")
}

// Reconfigure discards the endpoint in use and resolves again. Sources that
// still produce the discarded address are skipped, so a stale persisted URL
// falls through to the next source or to the prompt.
func (s *EndpointService) Reconfigure(ctx context.Context) (domain.Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := s.current.BaseURL
	if stale == "" {
		if ep, ok := s.firstConfigured(""); ok {
			stale = ep.BaseURL
		}
	}
	s.current = domain.Endpoint{}
	return s.resolveLocked(ctx, stale)
}

// Invalidate discards the cached endpoint.
func (s *EndpointService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = domain.Endpoint{}
}

// SetBaseURL validates and persists an explicit base URL.
func (s *EndpointService) SetBaseURL(baseURL string) (domain.Endpoint, error) {
	baseURL = strings.TrimSpace(baseURL)
	if err := domain.ValidateBaseURL(baseURL); err != nil {
		return domain.Endpoint{}, &domain.ValidationError{Field: "api_url", Reason: err.Error(), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.config.Set(keyAPIURL, baseURL); err != nil {
		return domain.Endpoint{}, fmt.Errorf("save %s: %w", keyAPIURL, err)
	}
	s.current = domain.Endpoint{BaseURL: baseURL, Source: domain.SourceToolSetting}
	return s.current, nil
}

// Candidates lists what each configured source would produce.
func (s *EndpointService) Candidates() []domain.ConnectionCandidate {
	var candidates []domain.ConnectionCandidate
	for _, src := range s.sources {
		if ep, ok := src.lookup(); ok {
			candidates = append(candidates, domain.ConnectionCandidate{Label: src.name, URL: ep.BaseURL})
		}
	}
	return candidates
}

// resolveLocked runs the chain, ignoring sources that produce skip.
// First match wins. Caller must hold mu.
func (s *EndpointService) resolveLocked(ctx context.Context, skip string) (domain.Endpoint, bool) {
	logger.Section("Endpoint Resolution")

	if ep, ok := s.firstConfigured(skip); ok {
		logger.Info("Using API URL from %s: %s", ep.Source, ep.BaseURL)
		s.current = ep
		return ep, true
	}

	ep, ok := s.fromPrompt(ctx)
	if !ok {
		logger.Warn("No API URL configured")
		return domain.Endpoint{}, false
	}
	s.current = ep
	return ep, true
}

func (s *EndpointService) firstConfigured(skip string) (domain.Endpoint, bool) {
	for _, src := range s.sources {
		ep, ok := src.lookup()
		switch {
		case !ok:
			logger.Debug("No API URL from %s", src.name)
		case skip != "" && ep.BaseURL == skip:
			logger.Debug("Skipping stale API URL from %s: %s", src.name, ep.BaseURL)
		default:
			return ep, true
		}
	}
	return domain.Endpoint{}, false
}

func (s *EndpointService) fromToolSetting() (domain.Endpoint, bool) {
	url := strings.TrimSpace(s.config.GetString(keyAPIURL))
	if url == "" {
		return domain.Endpoint{}, false
	}
	return domain.Endpoint{BaseURL: url, Source: domain.SourceToolSetting}, true
}

// fromServers uses the first declared server. Later entries are never
// consulted, even when the first one is incomplete.
func (s *EndpointService) fromServers() (domain.Endpoint, bool) {
	names := s.config.Children(keyServers)
	if len(names) == 0 {
		return domain.Endpoint{}, false
	}

	prefix := keyServers + "." + names[0] + ".webServer."
	desc := domain.ServerDescriptor{
		Name:   names[0],
		Scheme: s.configValue(prefix + "scheme"),
		Host:   s.configValue(prefix + "host"),
		Port:   s.configValue(prefix + "port"),
	}
	if desc.Host == "" || desc.Port == "" {
		return domain.Endpoint{}, false
	}
	return domain.Endpoint{BaseURL: desc.URL(), Source: domain.SourceServers + "." + desc.Name}, true
}

func (s *EndpointService) fromConnection() (domain.Endpoint, bool) {
	host := s.configValue(keyConnHost)
	port := s.configValue(keyConnPort)
	if host == "" || port == "" {
		return domain.Endpoint{}, false
	}
	url := domain.BuildAPIURL(s.configValue(keyConnProtocol), host, port)
	return domain.Endpoint{BaseURL: url, Source: domain.SourceConnection}, true
}

// fromPrompt asks for host then port and persists the result so later
// resolutions stop at the tool setting.
func (s *EndpointService) fromPrompt(ctx context.Context) (domain.Endpoint, bool) {
	if s.prompter == nil {
		return domain.Endpoint{}, false
	}

	host, ok := s.ask(ctx, hostPrompt)
	if !ok {
		return domain.Endpoint{}, false
	}
	port, ok := s.ask(ctx, portPrompt)
	if !ok {
		return domain.Endpoint{}, false
	}

	candidate := domain.ConnectionCandidate{
		Label: host + ":" + port,
		URL:   domain.BuildAPIURL("http", host, port),
	}
	if err := domain.ValidateBaseURL(candidate.URL); err != nil {
		logger.Warn("Rejected API URL %s: %v", candidate.URL, err)
		return domain.Endpoint{}, false
	}

	if err := s.config.Set(keyAPIURL, candidate.URL); err != nil {
		logger.Warn("Failed to save %s: %v", keyAPIURL, err)
	}
	logger.Info("Using API URL from %s: %s", domain.SourcePrompt, candidate.URL)
	return domain.Endpoint{BaseURL: candidate.URL, Source: domain.SourcePrompt}, true
}

func (s *EndpointService) ask(ctx context.Context, req driven.PromptRequest) (string, bool) {
	value, err := s.prompter.Prompt(ctx, req)
	if err != nil {
		logger.Warn("Prompt %q failed: %v", req.Label, err)
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// configValue reads a scalar as a string. TOML ports are usually integers.
func (s *EndpointService) configValue(key string) string {
	val, ok := s.config.Get(key)
	if !ok {
		return ""
	}
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// APISuffix is the fixed path under which the service exposes its API.
const APISuffix = "/artisan/api"

// Endpoint sources, recorded on the Endpoint that each one produced.
const (
	SourceToolSetting = "artisan.api_url"
	SourceServers     = "intersystems.servers"
	SourceConnection  = "objectscript.conn"
	SourcePrompt      = "prompt"
)

// Endpoint is the resolved base address of the remote service.
// All request paths are relative to BaseURL.
type Endpoint struct {
	// BaseURL is used verbatim as the request prefix.
	BaseURL string

	// Source names the configuration source that produced BaseURL.
	Source string
}

// IsZero returns true if no base URL is set.
func (e Endpoint) IsZero() bool {
	return e.BaseURL == ""
}

// Validate checks that the base URL is an absolute http(s) URL.
func (e Endpoint) Validate() error {
	return ValidateBaseURL(e.BaseURL)
}

// ValidateBaseURL checks that raw parses as an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return ErrNoEndpoint
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedEndpoint, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s: scheme must be http or https", ErrMalformedEndpoint, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s: missing host", ErrMalformedEndpoint, raw)
	}
	return nil
}

// ConnectionCandidate is a possible endpoint offered during resolution.
// Candidates are never persisted; only the chosen URL is.
type ConnectionCandidate struct {
	Label string
	URL   string
}

// ServerDescriptor describes a named remote server's web address.
type ServerDescriptor struct {
	Name   string
	Scheme string
	Host   string
	Port   string
}

// URL derives the API base URL for the descriptor.
func (d ServerDescriptor) URL() string {
	return BuildAPIURL(d.Scheme, d.Host, d.Port)
}

// BuildAPIURL composes scheme://host:port/artisan/api.
// An empty scheme defaults to http.
func BuildAPIURL(scheme, host, port string) string {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%s%s", scheme, strings.TrimSpace(host), strings.TrimSpace(port), APISuffix)
}

// Package env loads process-level settings from the environment, after
// merging an optional .env file.
package env

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalid indicates an environment setting is out of range.
var ErrInvalid = errors.New("invalid environment configuration")

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds settings that apply to the process rather than to a user's
// config file.
type Config struct {
	// Home overrides the config directory (default ~/.artisan).
	Home string `envconfig:"ARTISAN_HOME"`

	Verbose bool `envconfig:"ARTISAN_VERBOSE" default:"false"`

	// ServeAddr is the listen address of the websocket boundary.
	ServeAddr string `envconfig:"ARTISAN_SERVE_ADDR" default:"127.0.0.1:7420"`

	// CacheSize bounds the document chunk view cache.
	CacheSize int `envconfig:"ARTISAN_CACHE_SIZE" default:"64"`

	// History enables the SQLite ingestion history.
	History bool `envconfig:"ARTISAN_HISTORY" default:"true"`
}

// Load merges the given .env files (DefaultEnvFile if none) into the
// environment and decodes Config. Variables already set in the shell win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		// Missing files are fine; the shell may set everything.
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: ARTISAN_CACHE_SIZE must be positive, got %d", ErrInvalid, c.CacheSize)
	}
	if strings.TrimSpace(c.ServeAddr) == "" {
		return fmt.Errorf("%w: ARTISAN_SERVE_ADDR is empty", ErrInvalid)
	}
	return nil
}

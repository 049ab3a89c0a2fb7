package memory

import (
	"strings"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/config/configval"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings in memory for tests and ephemeral runs.
// The order keys were first set stands in for file declaration order.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	order  []string
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: make(map[string]any)}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) lookup(key string) any {
	v, _ := s.Get(key)
	return v
}

func (s *ConfigStore) GetString(key string) string { return configval.String(s.lookup(key)) }
func (s *ConfigStore) GetInt(key string) int { return configval.Int(s.lookup(key)) }
func (s *ConfigStore) GetFloat(key string) float64 { return configval.Float(s.lookup(key)) }
func (s *ConfigStore) GetBool(key string) bool { return configval.Bool(s.lookup(key)) }
func (s *ConfigStore) GetStringSlice(key string) []string { return configval.Strings(s.lookup(key)) }

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.values[key]; !seen {
		s.order = append(s.order, key)
	}
	s.values[key] = value
	return nil
}

// Children lists the segments directly under prefix that have keys of
// their own below them, in first-set order.
func (s *ConfigStore) Children(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	seen := make(map[string]bool)
	for _, key := range s.order {
		rest, ok := strings.CutPrefix(key, prefix+".")
		if !ok {
			continue
		}
		name, _, nested := strings.Cut(rest, ".")
		if nested && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Save and Load have nothing to persist.
func (s *ConfigStore) Save() error { return nil }
func (s *ConfigStore) Load() error { return nil }

func (s *ConfigStore) Path() string { return ":memory:" }

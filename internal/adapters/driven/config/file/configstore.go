package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/config/configval"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFileName is the settings file kept in the artisan home directory.
const ConfigFileName = "config.toml"

// ConfigStore keeps artisan settings in a TOML file. Tables are exposed as
// dot-separated keys ("intersystems.servers.iris.webServer.host"), and the
// declaration order of tables and keys survives a load/save cycle.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
	order  *layout
}

// NewConfigStore opens dir/config.toml, creating dir if needed. An empty
// dir means ~/.artisan. A missing file is not an error.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".artisan")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &ConfigStore{path: filepath.Join(dir, ConfigFileName)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value at key.
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

// Children lists the tables directly below prefix in declaration order.
func (s *ConfigStore) Children(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.children(splitKey(prefix))
}

// Set updates key and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.values[key]; !seen {
		s.order.add(splitKey(key), false)
	}
	s.values[key] = value
	return s.write()
}

// Save rewrites the file from memory.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// write must be called with mu held.
func (s *ConfigStore) write() error {
	out, err := encodeOrdered(s.values, s.order)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, out, 0o600)
}

// Load replaces the in-memory settings with the file contents. A missing
// file leaves the store empty.
func (s *ConfigStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		raw, err = nil, nil
	}
	if err != nil {
		return err
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return err
	}
	order, err := parseLayout(raw)
	if err != nil {
		return err
	}

	values := make(map[string]any)
	flatten(values, "", tree)

	s.mu.Lock()
	s.values, s.order = values, order
	s.mu.Unlock()
	return nil
}

// Path returns the settings file location.
func (s *ConfigStore) Path() string {
	return s.path
}

// flatten copies tree into dst, joining nested table names with dots.
func flatten(dst map[string]any, prefix string, tree map[string]any) {
	for name, v := range tree {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(dst, key, sub)
			continue
		}
		dst[key] = v
	}
}

func splitKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}

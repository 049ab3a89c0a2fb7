package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

// DatabaseFileName is the history database inside the data directory.
const DatabaseFileName = "history.db"

// dsnPragmas are applied by the driver to every pooled connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Store owns the history database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens dataDir/history.db and brings its schema up to date. An
// empty dataDir means ~/.artisan/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".artisan", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dataDir, err)
	}

	path := filepath.Join(dataDir, DatabaseFileName)
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(context.Background(), migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Path is the database file location.
func (s *Store) Path() string { return s.path }

// History exposes the store as the ingestion history port.
func (s *Store) History() driven.IngestionHistory {
	return &historyStore{db: s.db}
}

package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a ConfigStore whenever its file changes on disk.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration
}

// NewWatcher creates a watcher for store.
func NewWatcher(store *ConfigStore) *Watcher {
	return &Watcher{store: store, debounce: DefaultDebounce}
}

// Watch starts watching until ctx is cancelled. A value is sent on the
// returned channel after each successful reload; the channel is closed when
// watching stops.
//
// The parent directory is watched rather than the file, since editors often
// replace the file instead of writing to it.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}

	dir := filepath.Dir(w.store.Path())
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	changes := make(chan struct{}, 1)
	go w.run(ctx, fw, changes)
	return changes, nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, changes chan<- struct{}) {
	defer close(changes)
	defer fw.Close()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if w.handleFsEvent(event) {
				fire = time.After(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher error: %v", err)

		case <-fire:
			fire = nil
			if err := w.store.Load(); err != nil {
				logger.Warn("Failed to reload %s: %v", w.store.Path(), err)
				continue
			}
			logger.Debug("Reloaded %s", w.store.Path())
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}
}

// handleFsEvent reports whether event should trigger a reload.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) ||
		event.Has(fsnotify.Remove)
}

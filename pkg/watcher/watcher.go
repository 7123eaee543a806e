package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/timeclock/pkg/logger"
)

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	events chan Event
	errors chan error

	mu       sync.Mutex
	watching bool
	closed   bool
	stopChan chan struct{}

	// Debouncing state.
	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	pending       Event
}

// New creates a new data file watcher.
//
// Parameters:
//   - cfg: Watcher configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Watcher
//   - Error if the underlying fsnotify watcher cannot be created
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:      fsw,
		logger:   log,
		config:   cfg,
		events:   make(chan Event, 16),
		errors:   make(chan error, 4),
		stopChan: make(chan struct{}),
	}

	log.Debug("file watcher created",
		"debounce_interval", cfg.DebounceInterval)

	return w, nil
}

// Watch implements Watcher.Watch.
func (w *watcher) Watch(ctx context.Context, file string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.watching {
		w.mu.Unlock()
		return ErrAlreadyWatching
	}
	w.watching = true
	w.mu.Unlock()

	file = expandHome(file)
	dir := filepath.Dir(file)

	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInvalidPath, dir)
		}
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("watching data file", "file", file, "dir", dir)

	go w.processEvents(ctx, file)

	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Event {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	close(w.stopChan)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	close(w.events)
	close(w.errors)

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Debug("watcher closed")
	return nil
}

// processEvents filters and forwards events for the watched file.
func (w *watcher) processEvents(ctx context.Context, file string) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("event processing stopped", "reason", "context cancelled")
			return

		case <-w.stopChan:
			w.logger.Debug("event processing stopped", "reason", "watcher closed")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			w.handleEvent(event, file)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			w.logger.Error("fsnotify error", "error", err)
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("error channel full, dropping error")
			}
		}
	}
}

// handleEvent converts an fsnotify event for the watched file into a
// debounced Event. Events for other files in the directory are ignored.
func (w *watcher) handleEvent(event fsnotify.Event, file string) {
	if filepath.Clean(event.Name) != filepath.Clean(file) {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OpCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OpWrite
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		op = OpRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		op = OpRename
	default:
		return
	}

	w.debounce(Event{
		Path:      file,
		Op:        op,
		Timestamp: time.Now(),
	})
}

// debounce coalesces rapid events into one, keeping the latest.
func (w *watcher) debounce(event Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	w.pending = event

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.config.DebounceInterval, func() {
		w.debounceMu.Lock()
		pending := w.pending
		w.debounceMu.Unlock()

		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()

		if closed {
			return
		}

		select {
		case w.events <- pending:
		default:
			w.logger.Warn("event channel full, dropping event")
		}
	})
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}

// Package watcher provides change notification for the sessions data file.
//
// It uses fsnotify and watches the file's parent directory rather than
// the file itself: atomic saves replace the file by rename, which would
// silently detach a watch on the old inode. Events are filtered to the
// data file and debounced.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 100 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Watch(ctx, "~/.timeclock/sessions.json"); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("data file %s\n", event.Op)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Event represents a data file change.
type Event struct {
	// Path is the absolute path of the watched file.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher provides data file change notification.
type Watcher interface {
	// Watch begins watching the given file until the context is
	// cancelled or the watcher is closed.
	//
	// Returns error if the file's directory cannot be watched.
	Watch(ctx context.Context, file string) error

	// Events returns the channel for receiving debounced change events.
	Events() <-chan Event

	// Errors returns the channel for receiving non-fatal watcher errors.
	Errors() <-chan error

	// Close closes the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// Multiple events within this interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration
}

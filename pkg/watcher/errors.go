package watcher

import "errors"

// Common errors returned by the watcher.
var (
	// ErrWatcherClosed is returned when operating on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyWatching is returned when Watch is called twice.
	ErrAlreadyWatching = errors.New("watcher already started")

	// ErrInvalidPath is returned when the watched file's directory does not exist.
	ErrInvalidPath = errors.New("watch path does not exist")
)

package session

import "errors"

// Common errors returned by the session store.
var (
	// ErrAlreadyRunning is returned by Start while a session is running.
	ErrAlreadyRunning = errors.New("a session is already running")

	// ErrNotRunning is returned by Stop when no session is running.
	ErrNotRunning = errors.New("no session is running")

	// ErrNotFound is returned when a session ID does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrCorrupt is returned when the data file exists but does not parse
	// as the expected structure. The caller decides whether this is fatal
	// or grounds for archive-and-reinitialize; the store never guesses.
	ErrCorrupt = errors.New("data file corrupt")

	// ErrStorage is returned on file system read/write/rename failures.
	ErrStorage = errors.New("storage failure")
)

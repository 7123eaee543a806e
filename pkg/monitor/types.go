// Package monitor drives the live watch view.
//
// A single run loop owns all engine access while the monitor runs: the
// refresh ticker, data file change events, and toggle requests are
// multiplexed onto it. Background callers never touch the store
// directly; they send a request through Toggle and the loop performs
// the mutation, so display reads and mutations cannot interleave.
package monitor

import (
	"context"
	"time"

	"github.com/0xmhha/timeclock/pkg/session"
)

// Config holds the configuration for the monitor.
type Config struct {
	// RefreshInterval is the interval between updates. Default: 1s.
	RefreshInterval time.Duration
}

// Update is a point-in-time view of the engine state.
type Update struct {
	// Timestamp of the update.
	Timestamp time.Time

	// Running reports whether a session is open.
	Running bool

	// Current is the running session, nil while idle.
	Current *session.Session

	// TodaySeconds is the overlap of all sessions with today's window.
	TodaySeconds int

	// TotalSeconds is the all-time total.
	TotalSeconds int

	// SessionCount is the number of sessions in the store.
	SessionCount int
}

// Monitor provides a live view over the session store.
type Monitor interface {
	// Start begins the run loop. Non-blocking; updates arrive on Updates.
	Start(ctx context.Context) error

	// Stop stops the run loop gracefully.
	Stop() error

	// Toggle requests a start-or-stop mutation from the run loop and
	// waits for the result. Safe to call from any goroutine.
	//
	// Starting uses the given note; stopping ignores it.
	Toggle(note string) error

	// Updates returns the channel carrying periodic updates.
	Updates() <-chan Update

	// Close stops the monitor and releases resources.
	Close() error
}

// Package display renders session lists and status summaries.
//
// It owns presentation only: the engine supplies sessions and totals,
// and formatters here turn them into table, simple, or JSON output.
package display

import (
	"io"
	"time"

	"github.com/0xmhha/timeclock/pkg/session"
)

// Format identifies an output format.
type Format string

const (
	// FormatTable renders aligned columns.
	FormatTable Format = "table"

	// FormatSimple renders plain line-oriented text.
	FormatSimple Format = "simple"

	// FormatJSON renders machine-readable JSON.
	FormatJSON Format = "json"
)

// Status is a point-in-time summary of the engine state.
type Status struct {
	// Now is the reference instant the totals were computed at.
	Now time.Time `json:"now"`

	// Running reports whether a session is currently open.
	Running bool `json:"running"`

	// Current is the running session, nil while idle.
	Current *session.Session `json:"-"`

	// TodaySeconds is the overlap of all sessions with today's window.
	TodaySeconds int `json:"today_seconds"`

	// TotalSeconds is the all-time total.
	TotalSeconds int `json:"total_seconds"`
}

// Formatter renders engine data to a writer.
type Formatter interface {
	// FormatStatus renders a status summary.
	FormatStatus(w io.Writer, st Status) error

	// FormatSessions renders the session list in insertion order.
	//
	// Parameters:
	//   - w: Destination writer
	//   - sessions: Sessions to render
	//   - now: Reference instant for running-session durations
	FormatSessions(w io.Writer, sessions []session.Session, now time.Time) error
}

// Config contains formatter configuration.
type Config struct {
	// Format selects the output format. Default: table.
	Format Format

	// Compact reduces spacing and omits separators.
	Compact bool

	// MaxWidth caps table width in columns. Zero means autodetect from
	// the terminal when the writer is a TTY, otherwise unlimited.
	MaxWidth int
}

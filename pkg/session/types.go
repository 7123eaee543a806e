// Package session provides the work session store with durable file persistence.
//
// A session is a half-open time interval with an optional note. The store
// owns the ordered collection of sessions, enforces the single-running-session
// invariant, and persists every mutation atomically to a JSON file before
// reporting success.
//
// Example usage:
//
//	st, err := session.New(session.Config{
//	    DataFile: "~/.timeclock/sessions.json",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := st.Start("refactor parser")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("started session %d at %s\n", s.ID, s.Start)
package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is the persisted timestamp format: RFC 3339 at second
// precision with a mandatory UTC offset.
const timeLayout = "2006-01-02T15:04:05Z07:00"

// Session represents one start/stop work interval.
type Session struct {
	// ID is the stable in-process identity, assigned at load or creation.
	// It is never persisted; the file format carries only start, end, note.
	ID uint64 `json:"-"`

	// Start is the session start instant. Required, offset-aware,
	// immutable after creation.
	Start time.Time `json:"-"`

	// End is the session end instant, or nil while the session is running.
	End *time.Time `json:"-"`

	// Note is free-text, set at creation time.
	Note string `json:"-"`
}

// Running reports whether the session has no end yet.
func (s Session) Running() bool {
	return s.End == nil
}

// record is the on-disk shape of a session.
type record struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
	Note  string  `json:"note"`
}

// fileFormat is the on-disk shape of the data file.
type fileFormat struct {
	Sessions []record `json:"sessions"`
}

// toRecord converts a session to its persisted form.
func (s Session) toRecord() record {
	r := record{
		Start: s.Start.Format(timeLayout),
		Note:  s.Note,
	}
	if s.End != nil {
		end := s.End.Format(timeLayout)
		r.End = &end
	}
	return r
}

// toSession parses a persisted record.
//
// The start timestamp must carry a UTC offset; time.Parse with an RFC 3339
// layout rejects bare local timestamps, which keeps all duration math
// offset-aware.
func (r record) toSession(id uint64) (Session, error) {
	start, err := time.Parse(timeLayout, r.Start)
	if err != nil {
		return Session{}, fmt.Errorf("invalid start timestamp %q: %w", r.Start, err)
	}

	s := Session{
		ID:    id,
		Start: start,
		Note:  r.Note,
	}

	if r.End != nil {
		end, parseErr := time.Parse(timeLayout, *r.End)
		if parseErr != nil {
			return Session{}, fmt.Errorf("invalid end timestamp %q: %w", *r.End, parseErr)
		}
		s.End = &end
	}

	return s, nil
}

// marshalSessions serializes the collection into the data file format.
func marshalSessions(sessions []Session) ([]byte, error) {
	f := fileFormat{
		Sessions: make([]record, len(sessions)),
	}
	for i, s := range sessions {
		f.Sessions[i] = s.toRecord()
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sessions: %w", err)
	}

	return append(data, '\n'), nil
}

// Config contains session store configuration.
type Config struct {
	// DataFile is the JSON data file path. Supports ~ expansion.
	DataFile string
}

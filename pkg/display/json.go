package display

import (
	"encoding/json"
	"io"
	"time"

	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/session"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// sessionJSON is the machine-readable projection of one session.
type sessionJSON struct {
	ID              uint64  `json:"id"`
	Start           string  `json:"start"`
	End             *string `json:"end"`
	DurationSeconds int     `json:"duration_seconds"`
	Running         bool    `json:"running"`
	Note            string  `json:"note"`
}

// statusJSON is the machine-readable status summary.
type statusJSON struct {
	Now           string       `json:"now"`
	Running       bool         `json:"running"`
	Current       *sessionJSON `json:"current,omitempty"`
	TodaySeconds  int          `json:"today_seconds"`
	TotalSeconds  int          `json:"total_seconds"`
	TodayDuration string       `json:"today_duration"`
	TotalDuration string       `json:"total_duration"`
}

// FormatStatus implements Formatter.FormatStatus.
func (f *jsonFormatter) FormatStatus(w io.Writer, st Status) error {
	now := referenceNow(st.Now)

	out := statusJSON{
		Now:           now.Format(time.RFC3339),
		Running:       st.Running,
		TodaySeconds:  st.TodaySeconds,
		TotalSeconds:  st.TotalSeconds,
		TodayDuration: clock.FormatDuration(st.TodaySeconds),
		TotalDuration: clock.FormatDuration(st.TotalSeconds),
	}

	if st.Running && st.Current != nil {
		s := toSessionJSON(*st.Current, now)
		out.Current = &s
	}

	return f.encode(w, out)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *jsonFormatter) FormatSessions(w io.Writer, sessions []session.Session, now time.Time) error {
	now = referenceNow(now)

	out := make([]sessionJSON, len(sessions))
	for i, s := range sessions {
		out[i] = toSessionJSON(s, now)
	}

	return f.encode(w, out)
}

// toSessionJSON converts a session to its JSON projection.
func toSessionJSON(s session.Session, now time.Time) sessionJSON {
	out := sessionJSON{
		ID:              s.ID,
		Start:           s.Start.Format(time.RFC3339),
		DurationSeconds: clock.Duration(s, now),
		Running:         s.Running(),
		Note:            s.Note,
	}

	if s.End != nil {
		end := s.End.Format(time.RFC3339)
		out.End = &end
	}

	return out
}

// encode writes v as JSON, indented unless compact.
func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}

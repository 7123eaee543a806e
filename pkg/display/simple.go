package display

import (
	"fmt"
	"io"
	"time"

	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/session"
)

// simpleFormatter formats output as plain lines.
type simpleFormatter struct {
	config Config
}

// FormatStatus implements Formatter.FormatStatus.
func (f *simpleFormatter) FormatStatus(w io.Writer, st Status) error {
	if _, err := fmt.Fprintln(w, statusLine(st)); err != nil {
		return err
	}

	if st.Running && st.Current != nil {
		elapsed := clock.Duration(*st.Current, referenceNow(st.Now))
		if _, err := fmt.Fprintf(w, "Elapsed:        %s\n", clock.FormatDuration(elapsed)); err != nil {
			return err
		}
		if st.Current.Note != "" {
			if _, err := fmt.Fprintf(w, "Note:           %s\n", st.Current.Note); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "Today total:    %s\n", clock.FormatDuration(st.TodaySeconds)); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "All-time total: %s\n", clock.FormatDuration(st.TotalSeconds))
	return err
}

// FormatSessions implements Formatter.FormatSessions.
func (f *simpleFormatter) FormatSessions(w io.Writer, sessions []session.Session, now time.Time) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions")
		return err
	}

	now = referenceNow(now)

	for _, s := range sessions {
		line := fmt.Sprintf("#%d  %s  %s  %s",
			s.ID,
			s.Start.Format(timestampLayout),
			formatEnd(s),
			clock.FormatDuration(clock.Duration(s, now)))

		if s.Note != "" {
			line += "  " + s.Note
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

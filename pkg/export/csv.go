// Package export produces the CSV projection of the session list.
//
// Each row is (start, end, duration_seconds, note); end and duration are
// left empty for a running session. The engine supplies the data via the
// store's List and the clock's Duration; all formatting decisions live
// here with the caller.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/session"
)

// header is the first CSV row.
var header = []string{"start", "end", "duration_seconds", "note"}

// WriteCSV writes the sessions as CSV rows.
//
// Timestamps are the persisted RFC 3339 second-precision form. A running
// session's end and duration columns are empty; a closed session's
// duration is its whole-second length at now (always computed from its
// own end, so now only matters for running sessions, which emit blank).
func WriteCSV(w io.Writer, sessions []session.Session, now time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range sessions {
		row := []string{
			s.Start.Format(time.RFC3339),
			"",
			"",
			s.Note,
		}

		if s.End != nil {
			row[1] = s.End.Format(time.RFC3339)
			row[2] = strconv.Itoa(clock.Duration(s, now))
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// DefaultFilename returns a timestamped export file name,
// e.g. timeclock_20240102_150405.csv.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("timeclock_%s.csv", now.Format("20060102_150405"))
}

package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/session"
)

// tableFormatter formats output as aligned tables.
type tableFormatter struct {
	config Config
}

// FormatStatus implements Formatter.FormatStatus.
func (f *tableFormatter) FormatStatus(w io.Writer, st Status) error {
	if _, err := fmt.Fprintln(w, statusLine(st)); err != nil {
		return err
	}

	rows := [][]string{
		{"Today total", clock.FormatDuration(st.TodaySeconds)},
		{"All-time total", clock.FormatDuration(st.TotalSeconds)},
	}

	if st.Running && st.Current != nil {
		elapsed := clock.Duration(*st.Current, referenceNow(st.Now))
		rows = append([][]string{
			{"Elapsed", clock.FormatDuration(elapsed)},
			{"Note", st.Current.Note},
		}, rows...)
	}

	return f.writeTable(w, []string{"Metric", "Value"}, rows)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *tableFormatter) FormatSessions(w io.Writer, sessions []session.Session, now time.Time) error {
	now = referenceNow(now)

	header := []string{"ID", "Start", "End", "Duration", "Note"}

	rows := make([][]string, len(sessions))
	for i, s := range sessions {
		rows[i] = []string{
			strconv.FormatUint(s.ID, 10),
			s.Start.Format(timestampLayout),
			formatEnd(s),
			clock.FormatDuration(clock.Duration(s, now)),
			s.Note,
		}
	}

	// Truncate the note column so rows fit the terminal.
	if width := widthFor(w, f.config); width > 0 {
		fixed := 0
		for i := 0; i < len(header)-1; i++ {
			col := len(header[i])
			for _, row := range rows {
				if len(row[i]) > col {
					col = len(row[i])
				}
			}
			fixed += col + 2
		}

		noteWidth := width - fixed
		for i := range rows {
			rows[i][len(rows[i])-1] = truncate(rows[i][len(rows[i])-1], noteWidth)
		}
	}

	return f.writeTable(w, header, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No sessions")
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	for i, cell := range cells {
		if i > 0 {
			pad := "  "
			if f.config.Compact {
				pad = " "
			}
			if _, err := fmt.Fprint(w, pad); err != nil {
				return err
			}
		}

		format := fmt.Sprintf("%%-%ds", widths[i])
		if _, err := fmt.Fprintf(w, format, cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

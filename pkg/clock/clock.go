// Package clock provides the pure time arithmetic for session totals.
//
// All functions are deterministic computations over a session list and a
// reference "now" instant: no I/O, no mutation. Durations are whole
// seconds, truncated (not rounded), and clamped at zero so clock skew or
// malformed data can never cancel positive totals elsewhere.
package clock

import (
	"fmt"
	"time"

	"github.com/0xmhha/timeclock/pkg/session"
)

// Duration returns the session's elapsed seconds at the given instant.
//
// A running session is measured against now. The result is floored at
// zero even if the end precedes the start.
func Duration(s session.Session, now time.Time) int {
	end := now
	if s.End != nil {
		end = *s.End
	}

	d := int(end.Sub(s.Start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// DayStart returns midnight of the instant's local wall-clock day, in
// the same location the instant carries. "Today" is therefore defined
// per offset, not as a fixed UTC day, so sessions recorded while
// traveling bucket into the day their own clock showed.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TotalSeconds returns the sum of all positive session durations.
func TotalSeconds(sessions []session.Session, now time.Time) int {
	total := 0
	for _, s := range sessions {
		total += Duration(s, now)
	}
	return total
}

// TodaySeconds returns the seconds of work that fall within today's
// window, [DayStart(now), DayStart(now)+24h).
//
// This is an interval-overlap computation, not a calendar-date check:
// a session from 23:00 yesterday to 01:00 today contributes exactly the
// one hour inside the window. Each session's overlap is clamped at zero
// before summation.
func TodaySeconds(sessions []session.Session, now time.Time) int {
	todayStart := DayStart(now)
	tomorrowStart := todayStart.Add(24 * time.Hour)

	total := 0
	for _, s := range sessions {
		end := now
		if s.End != nil {
			end = *s.End
		}

		total += overlapSeconds(s.Start, end, todayStart, tomorrowStart)
	}
	return total
}

// overlapSeconds returns the length in whole seconds of the intersection
// of [aStart, aEnd) and [bStart, bEnd), floored at zero.
func overlapSeconds(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}

	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}

	d := int(end.Sub(start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders seconds as h:mm:ss. Negative input renders as
// zero.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

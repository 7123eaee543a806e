package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/0xmhha/timeclock/pkg/session"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("time.Parse(%q) error = %v", value, err)
	}
	return ts
}

func sampleSessions(t *testing.T) []session.Session {
	t.Helper()

	end := mustParse(t, "2024-03-10T10:30:00-05:00")
	return []session.Session{
		{
			ID:    1,
			Start: mustParse(t, "2024-03-10T09:00:00-05:00"),
			End:   &end,
			Note:  "morning block",
		},
		{
			ID:    2,
			Start: mustParse(t, "2024-03-10T11:00:00-05:00"),
			Note:  "open task",
		},
	}
}

func TestNew_FormatSelection(t *testing.T) {
	t.Parallel()

	if _, ok := New(Config{Format: FormatTable}).(*tableFormatter); !ok {
		t.Error("New(table) did not return a tableFormatter")
	}
	if _, ok := New(Config{Format: FormatSimple}).(*simpleFormatter); !ok {
		t.Error("New(simple) did not return a simpleFormatter")
	}
	if _, ok := New(Config{Format: FormatJSON}).(*jsonFormatter); !ok {
		t.Error("New(json) did not return a jsonFormatter")
	}
	if _, ok := New(Config{}).(*tableFormatter); !ok {
		t.Error("New() default is not the table formatter")
	}
}

func TestTableFormatter_FormatSessions(t *testing.T) {
	t.Parallel()

	f := New(Config{Format: FormatTable})
	now := mustParse(t, "2024-03-10T11:30:00-05:00")

	var buf bytes.Buffer
	if err := f.FormatSessions(&buf, sampleSessions(t), now); err != nil {
		t.Fatalf("FormatSessions() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"ID", "Start", "End", "Duration", "Note",
		"2024-03-10 09:00:00",
		"1:30:00", // closed session
		"0:30:00", // running session measured at now
		"morning block",
		"open task",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("FormatSessions() output missing %q:\n%s", want, output)
		}
	}
}

func TestTableFormatter_FormatSessions_Empty(t *testing.T) {
	t.Parallel()

	f := New(Config{Format: FormatTable})

	var buf bytes.Buffer
	if err := f.FormatSessions(&buf, nil, time.Now()); err != nil {
		t.Fatalf("FormatSessions() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No sessions") {
		t.Errorf("FormatSessions() output = %q, want %q", buf.String(), "No sessions")
	}
}

func TestTableFormatter_FormatStatus_Running(t *testing.T) {
	t.Parallel()

	sessions := sampleSessions(t)
	now := mustParse(t, "2024-03-10T11:30:00-05:00")

	f := New(Config{Format: FormatTable})

	var buf bytes.Buffer
	err := f.FormatStatus(&buf, Status{
		Now:          now,
		Running:      true,
		Current:      &sessions[1],
		TodaySeconds: 7200,
		TotalSeconds: 7200,
	})
	if err != nil {
		t.Fatalf("FormatStatus() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Running since 2024-03-10 11:00:00",
		"Elapsed",
		"0:30:00",
		"open task",
		"Today total",
		"2:00:00",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("FormatStatus() output missing %q:\n%s", want, output)
		}
	}
}

func TestSimpleFormatter_FormatStatus_Idle(t *testing.T) {
	t.Parallel()

	f := New(Config{Format: FormatSimple})

	var buf bytes.Buffer
	err := f.FormatStatus(&buf, Status{
		Now:          mustParse(t, "2024-03-10T12:00:00-05:00"),
		TodaySeconds: 1800,
		TotalSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("FormatStatus() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Not running") {
		t.Errorf("FormatStatus() output missing %q:\n%s", "Not running", output)
	}
	if !strings.Contains(output, "0:30:00") {
		t.Errorf("FormatStatus() output missing today total:\n%s", output)
	}
	if !strings.Contains(output, "1:00:00") {
		t.Errorf("FormatStatus() output missing all-time total:\n%s", output)
	}
}

func TestSimpleFormatter_FormatSessions(t *testing.T) {
	t.Parallel()

	f := New(Config{Format: FormatSimple})
	now := mustParse(t, "2024-03-10T11:30:00-05:00")

	var buf bytes.Buffer
	if err := f.FormatSessions(&buf, sampleSessions(t), now); err != nil {
		t.Fatalf("FormatSessions() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("FormatSessions() wrote %d lines, want 2", len(lines))
	}

	if !strings.HasPrefix(lines[0], "#1") {
		t.Errorf("first line = %q, want #1 prefix", lines[0])
	}
	if !strings.Contains(lines[1], "—") {
		t.Errorf("running session line = %q, want open-end marker", lines[1])
	}
}

func TestJSONFormatter_FormatSessions(t *testing.T) {
	t.Parallel()

	f := New(Config{Format: FormatJSON, Compact: true})
	now := mustParse(t, "2024-03-10T11:30:00-05:00")

	var buf bytes.Buffer
	if err := f.FormatSessions(&buf, sampleSessions(t), now); err != nil {
		t.Fatalf("FormatSessions() error = %v", err)
	}

	var out []sessionJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output does not parse as JSON: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("got %d sessions, want 2", len(out))
	}

	if out[0].Running {
		t.Error("closed session marked running")
	}
	if out[0].DurationSeconds != 5400 {
		t.Errorf("closed duration = %d, want 5400", out[0].DurationSeconds)
	}
	if out[0].End == nil {
		t.Error("closed session has nil end")
	}

	if !out[1].Running {
		t.Error("running session not marked running")
	}
	if out[1].End != nil {
		t.Errorf("running session end = %v, want null", *out[1].End)
	}
	if out[1].DurationSeconds != 1800 {
		t.Errorf("running duration = %d, want 1800", out[1].DurationSeconds)
	}
}

func TestJSONFormatter_FormatStatus(t *testing.T) {
	t.Parallel()

	sessions := sampleSessions(t)
	now := mustParse(t, "2024-03-10T11:30:00-05:00")

	f := New(Config{Format: FormatJSON})

	var buf bytes.Buffer
	err := f.FormatStatus(&buf, Status{
		Now:          now,
		Running:      true,
		Current:      &sessions[1],
		TodaySeconds: 7200,
		TotalSeconds: 9000,
	})
	if err != nil {
		t.Fatalf("FormatStatus() error = %v", err)
	}

	var out statusJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output does not parse as JSON: %v", err)
	}

	if !out.Running {
		t.Error("status not marked running")
	}
	if out.Current == nil {
		t.Fatal("status has no current session")
	}
	if out.Current.ID != 2 {
		t.Errorf("current ID = %d, want 2", out.Current.ID)
	}
	if out.TodayDuration != "2:00:00" {
		t.Errorf("today duration = %q, want 2:00:00", out.TodayDuration)
	}
	if out.TotalDuration != "2:30:00" {
		t.Errorf("total duration = %q, want 2:30:00", out.TotalDuration)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 0, "exactly ten chars!"},
		{"a long note that overflows", 10, "a long no…"},
		{"x", 1, "x"},
		{"xy", 1, "…"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestWidthFor_ExplicitMaxWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if got := widthFor(&buf, Config{MaxWidth: 72}); got != 72 {
		t.Errorf("widthFor() = %d, want 72", got)
	}

	// A plain buffer is not a terminal, so autodetect yields unlimited.
	if got := widthFor(&buf, Config{}); got != 0 {
		t.Errorf("widthFor() = %d, want 0 for non-TTY writer", got)
	}
}

package display

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/0xmhha/timeclock/pkg/session"
)

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// timestampLayout is the human-readable timestamp form used by the
// table and simple formatters.
const timestampLayout = "2006-01-02 15:04:05"

// formatEnd renders a session end, or an em dash while running.
func formatEnd(s session.Session) string {
	if s.End == nil {
		return "—"
	}
	return s.End.Format(timestampLayout)
}

// widthFor returns the usable output width.
//
// An explicit MaxWidth wins; otherwise the terminal width is detected
// when the writer is a TTY. Zero means unlimited.
func widthFor(w io.Writer, cfg Config) int {
	if cfg.MaxWidth > 0 {
		return cfg.MaxWidth
	}

	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}

	return width
}

// truncate shortens s to max runes with an ellipsis. Zero max means no
// limit.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// statusLine renders the one-line running state used by the simple and
// table formatters.
func statusLine(st Status) string {
	if !st.Running || st.Current == nil {
		return "Not running"
	}
	return "Running since " + st.Current.Start.Format(timestampLayout)
}

// referenceNow normalizes a zero reference instant to the wall clock.
func referenceNow(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now()
	}
	return now
}

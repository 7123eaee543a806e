package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xmhha/timeclock/pkg/logger"
)

func newTestWatcher(t *testing.T) Watcher {
	t.Helper()

	w, err := New(Config{DebounceInterval: 20 * time.Millisecond}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func TestNew(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t)
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "sessions.json"))
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Watch() error = %v, want ErrInvalidPath", err)
	}
}

func TestWatch_AfterClose(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "sessions.json"))
	if !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() error = %v, want ErrWatcherClosed", err)
	}
}

func TestWatch_Twice(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	file := filepath.Join(t.TempDir(), "sessions.json")
	if err := w.Watch(context.Background(), file); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := w.Watch(context.Background(), file); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Watch() error = %v, want ErrAlreadyWatching", err)
	}
}

func TestWatch_DeliversWriteEvent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "sessions.json")

	w := newTestWatcher(t)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Watch(ctx, file); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(file, []byte(`{"sessions": []}`), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != file {
			t.Errorf("event.Path = %q, want %q", event.Path, file)
		}
		if event.Op != OpCreate && event.Op != OpWrite {
			t.Errorf("event.Op = %v, want create or write", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event within 2s")
	}
}

func TestWatch_DeliversRenameReplacement(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "sessions.json")
	if err := os.WriteFile(file, []byte(`{"sessions": []}`), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	w := newTestWatcher(t)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Watch(ctx, file); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// The store's atomic save pattern: write a temp file, rename over
	// the canonical path. The watch must survive the inode swap.
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, []byte(`{"sessions": []}`), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		t.Fatalf("os.Rename() error = %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != file {
			t.Errorf("event.Path = %q, want %q", event.Path, file)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event within 2s after atomic replace")
	}
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "sessions.json")

	w := newTestWatcher(t)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Watch(ctx, file); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	sibling := filepath.Join(dir, "other.json")
	if err := os.WriteFile(sibling, []byte("{}"), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("got event %v for sibling file, want none", event)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{Op(0), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/timeclock/pkg/logger"
)

// Store maintains the authoritative, persisted list of sessions and the
// single-running-session invariant. All operations are serialized by a
// single mutex, so a read for display never observes a half-updated
// collection during a mutation.
type Store struct {
	path   string
	logger logger.Logger

	mu       sync.Mutex
	sessions []Session
	nextID   uint64
}

// New creates a session store backed by the configured data file.
//
// If the file does not exist it is initialized to an empty collection.
// If it exists but does not parse as the expected structure, New fails
// with an error wrapping ErrCorrupt; the caller chooses the recovery
// policy (see Recover).
//
// Parameters:
//   - cfg: Store configuration
//   - log: Logger instance
//
// Returns:
//   - Loaded Store
//   - Error if the file cannot be read or is corrupt
func New(cfg Config, log logger.Logger) (*Store, error) {
	path := expandHome(cfg.DataFile)

	st := &Store{
		path:   path,
		logger: log,
	}

	if err := st.load(); err != nil {
		return nil, err
	}

	log.Info("session store loaded",
		"path", path,
		"sessions", len(st.sessions))

	return st, nil
}

// Path returns the canonical data file path.
func (st *Store) Path() string {
	return st.path
}

// List returns a copy of the session collection in insertion order.
func (st *Store) List() []Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]Session, len(st.sessions))
	copy(out, st.sessions)
	return out
}

// Len returns the number of sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	return len(st.sessions)
}

// Get returns the session with the given ID.
//
// Returns ErrNotFound if no session has that ID.
func (st *Store) Get(id uint64) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, s := range st.sessions {
		if s.ID == id {
			return s, nil
		}
	}

	return Session{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Running returns the currently running session, if any.
//
// The running state is derived by scanning for an open session rather
// than stored separately, so it cannot drift from the session list.
func (st *Store) Running() (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	return runningSession(st.sessions)
}

// Start begins a new session with the given note.
//
// Fails with ErrAlreadyRunning if a session is running; the collection
// is left unchanged. The new session is persisted before it becomes
// visible, so in-memory and on-disk state never diverge.
func (st *Store) Start(note string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := runningSession(st.sessions); ok {
		return Session{}, fmt.Errorf("%w: session %d started at %s",
			ErrAlreadyRunning, s.ID, s.Start.Format(timeLayout))
	}

	s := Session{
		ID:    st.nextID,
		Start: time.Now().Truncate(time.Second),
		Note:  note,
	}

	next := make([]Session, len(st.sessions), len(st.sessions)+1)
	copy(next, st.sessions)
	next = append(next, s)

	if err := st.persist(next); err != nil {
		return Session{}, err
	}

	st.sessions = next
	st.nextID++

	st.logger.Info("session started", "id", s.ID, "note", s.Note)
	return s, nil
}

// Stop closes the running session at the current instant.
//
// Fails with ErrNotRunning if no session is running; no write is
// performed in that case.
func (st *Store) Stop() (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	running, ok := runningSession(st.sessions)
	if !ok {
		return Session{}, ErrNotRunning
	}

	end := time.Now().Truncate(time.Second)

	next := make([]Session, len(st.sessions))
	copy(next, st.sessions)
	for i := range next {
		if next[i].ID == running.ID {
			next[i].End = &end
			running = next[i]
			break
		}
	}

	if err := st.persist(next); err != nil {
		return Session{}, err
	}

	st.sessions = next

	st.logger.Info("session stopped",
		"id", running.ID,
		"start", running.Start.Format(timeLayout),
		"end", end.Format(timeLayout))
	return running, nil
}

// Delete removes the sessions with the given IDs in one persisted write.
//
// Deletion is by stable identity, not list position, so deleting several
// sessions in one call cannot hit shifting-index bugs. Deleting the
// running session simply returns the store to the idle state.
//
// Returns the removed sessions, or ErrNotFound if any ID does not exist
// (in which case nothing is deleted).
func (st *Store) Delete(ids ...uint64) ([]Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	removed := make([]Session, 0, len(ids))
	next := make([]Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		if want[s.ID] {
			removed = append(removed, s)
			delete(want, s.ID)
			continue
		}
		next = append(next, s)
	}

	if len(want) > 0 {
		for id := range want {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
	}

	if len(removed) == 0 {
		return nil, nil
	}

	if err := st.persist(next); err != nil {
		return nil, err
	}

	st.sessions = next

	st.logger.Info("sessions deleted", "count", len(removed))
	return removed, nil
}

// Reload re-reads the data file, replacing the in-memory collection.
//
// Used by watch mode when the file changes underneath the process.
// Session IDs are reassigned in file order.
func (st *Store) Reload() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.load()
}

// load reads the data file into memory, initializing it if absent.
// Caller must hold the mutex (or be the constructor).
func (st *Store) load() error {
	data, err := os.ReadFile(st.path) // nolint:gosec
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: failed to read %s: %v", ErrStorage, st.path, err)
		}

		// First run: initialize an empty collection on disk.
		if initErr := st.persist(nil); initErr != nil {
			return initErr
		}
		st.sessions = nil
		st.nextID = 1
		return nil
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, st.path, err)
	}

	sessions := make([]Session, 0, len(f.Sessions))
	for i, r := range f.Sessions {
		s, convErr := r.toSession(uint64(i) + 1)
		if convErr != nil {
			return fmt.Errorf("%w: session %d: %v", ErrCorrupt, i, convErr)
		}

		if s.End != nil && s.End.Before(s.Start) {
			// Tolerated on load; duration math clamps to zero.
			st.logger.Warn("session end precedes start",
				"id", s.ID,
				"start", s.Start.Format(timeLayout),
				"end", s.End.Format(timeLayout))
		}

		sessions = append(sessions, s)
	}

	st.sessions = sessions
	st.nextID = uint64(len(sessions)) + 1
	return nil
}

// persist writes the collection durably: serialize to a temporary file
// in the same directory, then rename over the canonical path in a single
// filesystem operation. A crash mid-write never leaves a truncated file,
// and a failed write leaves the previous durable state intact.
func (st *Store) persist(sessions []Session) error {
	data, err := marshalSessions(sessions)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %v", ErrStorage, err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrStorage, tmp, err)
	}

	if err := os.Rename(tmp, st.path); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			st.logger.Warn("failed to remove temporary file",
				"path", tmp,
				"error", rmErr)
		}
		return fmt.Errorf("%w: failed to replace %s: %v", ErrStorage, st.path, err)
	}

	return nil
}

// runningSession scans for the open session, newest first.
func runningSession(sessions []Session) (Session, bool) {
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Running() {
			return sessions[i], true
		}
	}
	return Session{}, false
}

// Recover reinitializes a corrupt data file to an empty collection,
// returning the corrupt content so the caller can archive it first.
//
// Only meaningful after New failed with ErrCorrupt; it refuses to touch
// a file that parses cleanly.
func Recover(cfg Config, log logger.Logger) ([]byte, *Store, error) {
	path := expandHome(cfg.DataFile)

	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w: failed to read %s: %v", ErrStorage, path, err)
	}

	if data != nil {
		var f fileFormat
		if json.Unmarshal(data, &f) == nil {
			if _, convErr := recordsValid(f.Sessions); convErr == nil {
				return nil, nil, fmt.Errorf("refusing to recover: %s parses cleanly", path)
			}
		}

		if err := os.Remove(path); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to remove %s: %v", ErrStorage, path, err)
		}
	}

	st, err := New(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	log.Warn("data file reinitialized after corruption", "path", path)
	return data, st, nil
}

// recordsValid parses all records, returning the first conversion error.
func recordsValid(records []record) ([]Session, error) {
	sessions := make([]Session, 0, len(records))
	for i, r := range records {
		s, err := r.toSession(uint64(i) + 1)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}

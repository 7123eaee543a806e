// Package archive provides a BoltDB archive for destructive operations.
//
// Two kinds of records are kept: sessions removed by delete, and raw
// snapshots of a corrupt data file taken before the file is
// reinitialized. The archive is a safety net, not canonical state; the
// sessions JSON file remains the only authoritative format.
//
// Example usage:
//
//	arc, err := archive.New(archive.Config{
//	    DBPath: "~/.timeclock/archive.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer arc.Close()
//
//	if err := arc.ArchiveSessions(removed); err != nil {
//	    log.Fatal(err)
//	}
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/timeclock/pkg/logger"
	"github.com/0xmhha/timeclock/pkg/session"
)

// Bucket names.
var (
	bucketDeleted = []byte("deleted_sessions") // seq -> Record
	bucketCorrupt = []byte("corrupt_files")    // timestamp -> raw bytes
)

// Record is an archived session entry.
type Record struct {
	// ArchivedAt is when the session was archived.
	ArchivedAt time.Time `json:"archived_at"`

	// Start is the session start in RFC 3339 form.
	Start string `json:"start"`

	// End is the session end, empty if it was still running.
	End string `json:"end,omitempty"`

	// Note is the session note.
	Note string `json:"note"`
}

// RecordOf converts a session to its archive form.
func RecordOf(s session.Session) Record {
	r := Record{
		Start: s.Start.Format(time.RFC3339),
		Note:  s.Note,
	}
	if s.End != nil {
		r.End = s.End.Format(time.RFC3339)
	}
	return r
}

// Archiver stores deleted sessions and corrupt file snapshots.
type Archiver interface {
	// ArchiveSessions appends the given records in one transaction.
	ArchiveSessions(records []Record) error

	// ArchiveCorruptFile stores a raw snapshot of a corrupt data file.
	//
	// Parameters:
	//   - path: The data file's path, kept for provenance
	//   - data: The file's bytes as found
	ArchiveCorruptFile(path string, data []byte) error

	// ListDeleted returns all archived session records, oldest first.
	ListDeleted() ([]Record, error)

	// Close closes the database and releases resources.
	Close() error
}

// Config contains archive configuration.
type Config struct {
	// DBPath is the BoltDB file path. Supports ~ expansion.
	DBPath string

	// Timeout is the database open timeout (default: 1 second).
	Timeout time.Duration
}

// archiver implements the Archiver interface using BoltDB.
type archiver struct {
	db     *bolt.DB
	logger logger.Logger
}

// New opens the archive database, creating it and its buckets if needed.
//
// Parameters:
//   - cfg: Archive configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Archiver
//   - Error if the database cannot be opened
func New(cfg Config, log logger.Logger) (Archiver, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	dbPath := expandHome(cfg.DBPath)

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, createErr := tx.CreateBucketIfNotExists(bucketDeleted); createErr != nil {
			return fmt.Errorf("failed to create deleted bucket: %w", createErr)
		}
		if _, createErr := tx.CreateBucketIfNotExists(bucketCorrupt); createErr != nil {
			return fmt.Errorf("failed to create corrupt bucket: %w", createErr)
		}
		return nil
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close archive after initialization error",
				"error", closeErr)
		}
		return nil, err
	}

	log.Debug("archive opened", "db_path", dbPath)

	return &archiver{
		db:     db,
		logger: log,
	}, nil
}

// ArchiveSessions implements Archiver.ArchiveSessions.
func (a *archiver) ArchiveSessions(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()

	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDeleted)

		for i := range records {
			records[i].ArchivedAt = now

			data, err := json.Marshal(records[i])
			if err != nil {
				return fmt.Errorf("failed to marshal archive record: %w", err)
			}

			seq, err := b.NextSequence()
			if err != nil {
				return fmt.Errorf("failed to allocate sequence: %w", err)
			}

			key := fmt.Sprintf("%016d", seq)
			if err := b.Put([]byte(key), data); err != nil {
				return fmt.Errorf("failed to store archive record: %w", err)
			}
		}

		a.logger.Info("sessions archived", "count", len(records))
		return nil
	})
}

// ArchiveCorruptFile implements Archiver.ArchiveCorruptFile.
func (a *archiver) ArchiveCorruptFile(path string, data []byte) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCorrupt)

		key := fmt.Sprintf("%s|%s", time.Now().Format(time.RFC3339), path)
		if err := b.Put([]byte(key), data); err != nil {
			return fmt.Errorf("failed to store corrupt file snapshot: %w", err)
		}

		a.logger.Warn("corrupt data file archived",
			"path", path,
			"bytes", len(data))
		return nil
	})
}

// ListDeleted implements Archiver.ListDeleted.
func (a *archiver) ListDeleted() ([]Record, error) {
	records := make([]Record, 0, 16)

	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDeleted)

		return b.ForEach(func(k, v []byte) error {
			var r Record
			if unmarshalErr := json.Unmarshal(v, &r); unmarshalErr != nil {
				a.logger.Warn("failed to unmarshal archive record",
					"key", string(k),
					"error", unmarshalErr)
				return nil // Skip invalid entries.
			}

			records = append(records, r)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	return records, nil
}

// Close implements Archiver.Close.
func (a *archiver) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close archive database: %w", err)
	}

	a.logger.Debug("archive closed")
	return nil
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

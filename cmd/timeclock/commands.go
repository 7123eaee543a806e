package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/0xmhha/timeclock/pkg/archive"
	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/config"
	"github.com/0xmhha/timeclock/pkg/display"
	"github.com/0xmhha/timeclock/pkg/export"
	"github.com/0xmhha/timeclock/pkg/logger"
	"github.com/0xmhha/timeclock/pkg/session"
)

// app bundles the pieces every command needs: configuration, logger,
// and the loaded session store.
type app struct {
	cfg    *config.Config
	logger logger.Logger
	store  *session.Store
}

// newApp loads configuration and opens the session store.
//
// A corrupt data file fails the open unless -recover was given, in
// which case the corrupt content is archived and the file is
// reinitialized to an empty collection.
func newApp(g globalOptions) (*app, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})

	st, err := openStore(g, cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: log,
		store:  st,
	}, nil
}

// loadConfig loads configuration and applies the -data override.
//
// The config file is chosen by the -config flag, then the
// TIMECLOCK_CONFIG environment variable, then the standard search
// paths.
func loadConfig(g globalOptions) (*config.Config, error) {
	configPath := g.configPath
	if configPath == "" {
		configPath = os.Getenv("TIMECLOCK_CONFIG")
	}

	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if g.dataFile != "" {
		cfg.Storage.DataFile = g.dataFile
	}

	return cfg, nil
}

// openStore opens the session store, applying the recovery policy when
// the data file is corrupt.
func openStore(g globalOptions, cfg *config.Config, log logger.Logger) (*session.Store, error) {
	storeCfg := session.Config{DataFile: cfg.Storage.DataFile}

	st, err := session.New(storeCfg, log)
	if err == nil {
		return st, nil
	}

	if !errors.Is(err, session.ErrCorrupt) {
		return nil, err
	}

	if !g.recoverData {
		return nil, fmt.Errorf("%w\n(re-run with -recover to archive the corrupt file and start fresh)", err)
	}

	// Open the archive before touching the file, so the snapshot has a
	// destination before anything is removed.
	arc, err := archive.New(archive.Config{DBPath: cfg.Storage.ArchivePath}, log)
	if err != nil {
		return nil, fmt.Errorf("cannot recover without archive: %w", err)
	}
	defer func() {
		if closeErr := arc.Close(); closeErr != nil {
			log.Error("failed to close archive", "error", closeErr)
		}
	}()

	data, st, err := session.Recover(storeCfg, log)
	if err != nil {
		return nil, fmt.Errorf("recovery failed: %w", err)
	}

	if err := arc.ArchiveCorruptFile(st.Path(), data); err != nil {
		return nil, fmt.Errorf("data file reinitialized but snapshot not archived: %w", err)
	}

	fmt.Printf("Corrupt data file archived; starting with an empty session list.\n")
	return st, nil
}

// openArchive opens the archive database from configuration.
func (a *app) openArchive() (archive.Archiver, error) {
	return archive.New(archive.Config{
		DBPath: a.cfg.Storage.ArchivePath,
	}, a.logger)
}

// formatter builds a display formatter, letting a -format flag override
// the configured default.
func (a *app) formatter(override string) (display.Formatter, error) {
	name := override
	if name == "" {
		name = a.cfg.Display.DefaultFormat
	}

	switch display.Format(name) {
	case display.FormatTable, display.FormatSimple, display.FormatJSON:
		return display.New(display.Config{Format: display.Format(name)}), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (valid: table, simple, json)", name)
	}
}

// status computes the current engine summary.
func (a *app) status(now time.Time) display.Status {
	sessions := a.store.List()

	st := display.Status{
		Now:          now,
		TodaySeconds: clock.TodaySeconds(sessions, now),
		TotalSeconds: clock.TotalSeconds(sessions, now),
	}

	if current, ok := a.store.Running(); ok {
		st.Running = true
		st.Current = &current
	}

	return st
}

// startCommand starts a new session.
type startCommand struct {
	global globalOptions
	note   string
}

// Execute runs the start command.
func (c *startCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	s, err := a.store.Start(c.note)
	if err != nil {
		return err
	}

	fmt.Printf("Started session %d at %s\n", s.ID, s.Start.Format("15:04:05"))
	if s.Note != "" {
		fmt.Printf("Note: %s\n", s.Note)
	}
	return nil
}

// stopCommand stops the running session.
type stopCommand struct {
	global globalOptions
}

// Execute runs the stop command.
func (c *stopCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	s, err := a.store.Stop()
	if err != nil {
		return err
	}

	elapsed := clock.Duration(s, time.Now())
	fmt.Printf("Stopped session %d after %s\n", s.ID, clock.FormatDuration(elapsed))
	return nil
}

// toggleCommand starts a session if idle, stops the running one otherwise.
type toggleCommand struct {
	global globalOptions
	note   string
}

// Execute runs the toggle command.
func (c *toggleCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	if _, ok := a.store.Running(); ok {
		s, err := a.store.Stop()
		if err != nil {
			return err
		}

		elapsed := clock.Duration(s, time.Now())
		fmt.Printf("Stopped session %d after %s\n", s.ID, clock.FormatDuration(elapsed))
		return nil
	}

	s, err := a.store.Start(c.note)
	if err != nil {
		return err
	}

	fmt.Printf("Started session %d at %s\n", s.ID, s.Start.Format("15:04:05"))
	return nil
}

// statusCommand shows the running state and totals.
type statusCommand struct {
	global globalOptions
	format string
}

// Execute runs the status command.
func (c *statusCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	f, err := a.formatter(c.format)
	if err != nil {
		return err
	}

	return f.FormatStatus(os.Stdout, a.status(time.Now()))
}

// listCommand lists all sessions.
type listCommand struct {
	global globalOptions
	format string
}

// Execute runs the list command.
func (c *listCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	f, err := a.formatter(c.format)
	if err != nil {
		return err
	}

	return f.FormatSessions(os.Stdout, a.store.List(), time.Now())
}

// deleteCommand deletes sessions by ID, archiving them first.
type deleteCommand struct {
	global globalOptions
	ids    []string
	force  bool
}

// Execute runs the delete command.
func (c *deleteCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	ids := make([]uint64, 0, len(c.ids))
	for _, raw := range c.ids {
		id, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid session ID: %s", raw)
		}
		ids = append(ids, id)
	}

	// Resolve every ID up front so a typo aborts before anything is
	// archived or deleted.
	doomed := make([]session.Session, 0, len(ids))
	for _, id := range ids {
		s, getErr := a.store.Get(id)
		if getErr != nil {
			return getErr
		}
		doomed = append(doomed, s)
	}

	if !c.force {
		now := time.Now()
		for _, s := range doomed {
			fmt.Printf("  #%d  %s  %s  %s\n",
				s.ID,
				s.Start.Format("2006-01-02 15:04:05"),
				clock.FormatDuration(clock.Duration(s, now)),
				s.Note)
		}

		if !confirm(fmt.Sprintf("Delete %d session(s)?", len(doomed))) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	arc, err := a.openArchive()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := arc.Close(); closeErr != nil {
			a.logger.Error("failed to close archive", "error", closeErr)
		}
	}()

	records := make([]archive.Record, len(doomed))
	for i, s := range doomed {
		records[i] = archive.RecordOf(s)
	}

	if err := arc.ArchiveSessions(records); err != nil {
		return fmt.Errorf("refusing to delete unarchived sessions: %w", err)
	}

	removed, err := a.store.Delete(ids...)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d session(s) (archived).\n", len(removed))
	return nil
}

// exportCommand exports all sessions to CSV.
type exportCommand struct {
	global globalOptions
	output string
}

// Execute runs the export command.
func (c *exportCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	sessions := a.store.List()
	now := time.Now()

	if c.output == "-" {
		return export.WriteCSV(os.Stdout, sessions, now)
	}

	path := c.output
	if path == "" {
		path = export.DefaultFilename(now)
	}

	f, err := os.Create(path) // nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := export.WriteCSV(f, sessions, now); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			a.logger.Error("failed to close export file", "error", closeErr)
		}
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	fmt.Printf("Exported %d session(s) to %s\n", len(sessions), path)
	return nil
}

// confirm asks a yes/no question on stdin, defaulting to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

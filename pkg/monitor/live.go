package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/logger"
	"github.com/0xmhha/timeclock/pkg/session"
	"github.com/0xmhha/timeclock/pkg/watcher"
)

// toggleRequest asks the run loop to start or stop a session.
type toggleRequest struct {
	note  string
	reply chan error
}

// liveMonitor implements the Monitor interface.
type liveMonitor struct {
	config  Config
	logger  logger.Logger
	store   *session.Store
	watcher watcher.Watcher

	mu       sync.Mutex
	running  bool
	closed   bool
	stopChan chan struct{}

	updates chan Update
	toggles chan toggleRequest
}

// New creates a new monitor over the given store.
//
// Parameters:
//   - cfg: Monitor configuration
//   - st: Session store (exclusively owned by the monitor while running)
//   - w: Data file watcher
//   - log: Logger instance
//
// Returns a configured Monitor.
func New(cfg Config, st *session.Store, w watcher.Watcher, log logger.Logger) Monitor {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Second
	}

	return &liveMonitor{
		config:   cfg,
		logger:   log,
		store:    st,
		watcher:  w,
		stopChan: make(chan struct{}),
		updates:  make(chan Update, 8),
		toggles:  make(chan toggleRequest),
	}
}

// Start implements Monitor.Start.
func (m *liveMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.running = true
	m.stopChan = make(chan struct{})
	stopChan := m.stopChan
	m.mu.Unlock()

	if err := m.watcher.Watch(ctx, m.store.Path()); err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("failed to watch data file: %w", err)
	}

	go m.run(ctx, stopChan)

	m.logger.Info("monitor started",
		"refresh_interval", m.config.RefreshInterval)
	return nil
}

// Stop implements Monitor.Stop.
func (m *liveMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMonitorClosed
	}
	if !m.running {
		return ErrMonitorNotRunning
	}

	close(m.stopChan)
	m.running = false

	m.logger.Info("monitor stopped")
	return nil
}

// Toggle implements Monitor.Toggle.
func (m *liveMonitor) Toggle(note string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if !m.running {
		m.mu.Unlock()
		return ErrMonitorNotRunning
	}
	stopChan := m.stopChan
	m.mu.Unlock()

	req := toggleRequest{
		note:  note,
		reply: make(chan error, 1),
	}

	select {
	case m.toggles <- req:
		return <-req.reply
	case <-stopChan:
		return ErrMonitorNotRunning
	}
}

// Updates implements Monitor.Updates.
func (m *liveMonitor) Updates() <-chan Update {
	return m.updates
}

// Close implements Monitor.Close.
func (m *liveMonitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true

	if m.running {
		close(m.stopChan)
		m.running = false
	}

	close(m.updates)

	m.logger.Debug("monitor closed")
	return nil
}

// run is the single loop that owns engine access while monitoring.
func (m *liveMonitor) run(ctx context.Context, stopChan <-chan struct{}) {
	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	// Immediate first update so the view is not blank for a tick.
	m.sendUpdate()

	for {
		select {
		case <-ctx.Done():
			return

		case <-stopChan:
			return

		case <-ticker.C:
			m.sendUpdate()

		case event, ok := <-m.watcher.Events():
			if !ok {
				return
			}

			m.handleFileChange(event)

		case err, ok := <-m.watcher.Errors():
			if !ok {
				return
			}

			m.logger.Error("watcher error", "error", err)

		case req := <-m.toggles:
			req.reply <- m.toggle(req.note)
			m.sendUpdate()
		}
	}
}

// toggle starts a session if idle, stops the running one otherwise.
func (m *liveMonitor) toggle(note string) error {
	if _, ok := m.store.Running(); ok {
		_, err := m.store.Stop()
		return err
	}

	_, err := m.store.Start(note)
	return err
}

// handleFileChange reloads the store after an external edit.
func (m *liveMonitor) handleFileChange(event watcher.Event) {
	m.logger.Debug("data file changed", "op", event.Op)

	if err := m.store.Reload(); err != nil {
		// An external writer may have left the file mid-edit; keep the
		// last good in-memory state and report.
		if errors.Is(err, session.ErrCorrupt) {
			m.logger.Warn("data file unreadable after change", "error", err)
			return
		}
		m.logger.Error("failed to reload data file", "error", err)
		return
	}

	m.sendUpdate()
}

// sendUpdate computes totals and sends a non-blocking update.
func (m *liveMonitor) sendUpdate() {
	now := time.Now()
	sessions := m.store.List()

	update := Update{
		Timestamp:    now,
		TodaySeconds: clock.TodaySeconds(sessions, now),
		TotalSeconds: clock.TotalSeconds(sessions, now),
		SessionCount: len(sessions),
	}

	if current, ok := m.store.Running(); ok {
		update.Running = true
		update.Current = &current
	}

	select {
	case m.updates <- update:
	default:
		m.logger.Warn("updates channel full, dropping update")
	}
}

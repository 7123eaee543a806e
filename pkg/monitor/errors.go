package monitor

import "errors"

// Common errors returned by the monitor.
var (
	// ErrMonitorClosed is returned when operating on a closed monitor.
	ErrMonitorClosed = errors.New("monitor is closed")

	// ErrMonitorRunning is returned when Start is called twice.
	ErrMonitorRunning = errors.New("monitor already running")

	// ErrMonitorNotRunning is returned when the monitor is not running.
	ErrMonitorNotRunning = errors.New("monitor not running")
)

package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoDataFile is returned when no data file path is configured.
	ErrNoDataFile = errors.New("no data file path specified")

	// ErrNoArchivePath is returned when no archive path is configured.
	ErrNoArchivePath = errors.New("no archive path specified")

	// ErrInvalidRefreshInterval is returned when refresh interval is <= 0.
	ErrInvalidRefreshInterval = errors.New("invalid refresh interval: must be > 0")

	// ErrInvalidDebounceInterval is returned when debounce interval is <= 0.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval: must be > 0")

	// ErrInvalidDisplayFormat is returned when display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, simple, or json")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when the config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)

// Package config provides configuration management for timeclock.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Environment variables
// 2. Configuration file
// 3. Default values
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("data file: %s\n", cfg.Storage.DataFile)
package config

import (
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - DataFile must be non-empty
// - RefreshInterval must be > 0
// - DebounceInterval must be > 0.
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Watch mode settings
	Watch WatchConfig `yaml:"watch"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to the sessions JSON data file
	DataFile string `yaml:"data_file"`

	// Path to the BoltDB archive of deleted sessions and corrupt files
	ArchivePath string `yaml:"archive_path"`
}

// WatchConfig contains live watch mode settings.
type WatchConfig struct {
	// How often the live view refreshes while a session runs
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Debounce window for data file change events
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default output format (table, simple, json)
	DefaultFormat string `yaml:"default_format"`

	// Enable colored output
	ColorEnabled bool `yaml:"color_enabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns a sentinel error for the first violated invariant.
func (c *Config) Validate() error {
	if c.Storage.DataFile == "" {
		return ErrNoDataFile
	}
	if c.Storage.ArchivePath == "" {
		return ErrNoArchivePath
	}

	if c.Watch.RefreshInterval <= 0 {
		return ErrInvalidRefreshInterval
	}
	if c.Watch.DebounceInterval <= 0 {
		return ErrInvalidDebounceInterval
	}

	validFormats := map[string]bool{
		"table":  true,
		"simple": true,
		"json":   true,
	}
	if !validFormats[c.Display.DefaultFormat] {
		return ErrInvalidDisplayFormat
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataFile:    defaultDataFile(),
			ArchivePath: defaultArchivePath(),
		},
		Watch: WatchConfig{
			RefreshInterval:  1 * time.Second,
			DebounceInterval: 100 * time.Millisecond,
		},
		Display: DisplayConfig{
			DefaultFormat: "table",
			ColorEnabled:  true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}

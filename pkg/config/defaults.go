package config

import (
	"os"
	"path/filepath"
)

// defaultDataFile returns the default sessions data file path.
//
// Returns: ~/.timeclock/sessions.json.
func defaultDataFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./sessions.json"
	}

	return filepath.Join(homeDir, ".timeclock", "sessions.json")
}

// defaultArchivePath returns the default archive database path.
//
// Returns: ~/.timeclock/archive.db.
func defaultArchivePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./archive.db"
	}

	return filepath.Join(homeDir, ".timeclock", "archive.db")
}

// DefaultPath returns the default configuration file path.
//
// Returns: ~/.config/timeclock/config.yaml.
func DefaultPath() string {
	return defaultConfigPath()
}

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/timeclock/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "timeclock", "config.yaml")
}

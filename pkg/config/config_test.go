package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	if cfg.Watch.RefreshInterval != time.Second {
		t.Errorf("RefreshInterval = %v, want 1s", cfg.Watch.RefreshInterval)
	}
	if cfg.Display.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", cfg.Display.DefaultFormat)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing data file",
			mutate:  func(c *Config) { c.Storage.DataFile = "" },
			wantErr: ErrNoDataFile,
		},
		{
			name:    "missing archive path",
			mutate:  func(c *Config) { c.Storage.ArchivePath = "" },
			wantErr: ErrNoArchivePath,
		},
		{
			name:    "zero refresh interval",
			mutate:  func(c *Config) { c.Watch.RefreshInterval = 0 },
			wantErr: ErrInvalidRefreshInterval,
		},
		{
			name:    "negative debounce interval",
			mutate:  func(c *Config) { c.Watch.DebounceInterval = -time.Second },
			wantErr: ErrInvalidDebounceInterval,
		},
		{
			name:    "unknown display format",
			mutate:  func(c *Config) { c.Display.DefaultFormat = "xml" },
			wantErr: ErrInvalidDisplayFormat,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "yaml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `storage:
  data_file: /tmp/test-sessions.json
  archive_path: /tmp/test-archive.db
watch:
  refresh_interval: 2s
  debounce_interval: 250ms
display:
  default_format: simple
  color_enabled: true
logging:
  level: debug
  output: stderr
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Storage.DataFile != "/tmp/test-sessions.json" {
		t.Errorf("DataFile = %q", cfg.Storage.DataFile)
	}
	if cfg.Watch.RefreshInterval != 2*time.Second {
		t.Errorf("RefreshInterval = %v, want 2s", cfg.Watch.RefreshInterval)
	}
	if cfg.Watch.DebounceInterval != 250*time.Millisecond {
		t.Errorf("DebounceInterval = %v, want 250ms", cfg.Watch.DebounceInterval)
	}
	if cfg.Display.DefaultFormat != "simple" {
		t.Errorf("DefaultFormat = %q, want simple", cfg.Display.DefaultFormat)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromFile_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `storage:
  data_file: /tmp/only-this.json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Storage.DataFile != "/tmp/only-this.json" {
		t.Errorf("DataFile = %q", cfg.Storage.DataFile)
	}
	// Unset values keep their defaults.
	if cfg.Watch.RefreshInterval != time.Second {
		t.Errorf("RefreshInterval = %v, want default 1s", cfg.Watch.RefreshInterval)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want default warn", cfg.Logging.Level)
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFromFile() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [not: a: mapping"), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	l := &loader{}
	_, err := l.LoadFromFile(path)
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("LoadFromFile() error = %v, want ErrInvalidYAML", err)
	}
}

func TestApplyEnvVars(t *testing.T) {
	t.Setenv("TIMECLOCK_DATA_FILE", "/env/sessions.json")
	t.Setenv("TIMECLOCK_ARCHIVE", "/env/archive.db")
	t.Setenv("TIMECLOCK_LOG_LEVEL", "DEBUG")

	l := &loader{}
	cfg := l.applyEnvVars(Default())

	if cfg.Storage.DataFile != "/env/sessions.json" {
		t.Errorf("DataFile = %q, want env override", cfg.Storage.DataFile)
	}
	if cfg.Storage.ArchivePath != "/env/archive.db" {
		t.Errorf("ArchivePath = %q, want env override", cfg.Storage.ArchivePath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want lowercased debug", cfg.Logging.Level)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Storage.DataFile = "/tmp/round-trip.json"
	cfg.Watch.RefreshInterval = 3 * time.Second

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loaded.Storage.DataFile != cfg.Storage.DataFile {
		t.Errorf("DataFile = %q, want %q", loaded.Storage.DataFile, cfg.Storage.DataFile)
	}
	if loaded.Watch.RefreshInterval != cfg.Watch.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", loaded.Watch.RefreshInterval, cfg.Watch.RefreshInterval)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Storage.DataFile = ""

	err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	if !errors.Is(err, ErrNoDataFile) {
		t.Errorf("Save() error = %v, want ErrNoDataFile", err)
	}
}

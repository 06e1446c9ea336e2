// Package config loads runtime settings from the environment, an optional
// YAML file, and finally command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/doomcrawl/storage"
	"github.com/nathoo/doomcrawl/storage/file"
	"github.com/nathoo/doomcrawl/storage/sqlite"
)

// FileEnv names the variable holding the optional YAML config path.
const FileEnv = "DOOMCRAWL_CONFIG"

// Save backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned for a save backend other than file or sqlite.
var ErrUnknownBackend = errors.New("unknown save backend")

// Config holds every runtime setting.
type Config struct {
	Seed        int64  `env:"DOOMCRAWL_SEED" yaml:"seed"`
	SaveDir     string `env:"DOOMCRAWL_SAVE_DIR" yaml:"save_dir"`
	SaveBackend string `env:"DOOMCRAWL_SAVE_BACKEND" envDefault:"file" yaml:"save_backend"`
	SQLitePath  string `env:"DOOMCRAWL_SQLITE_PATH" yaml:"sqlite_path"`
	Ruleset     string `env:"DOOMCRAWL_RULESET" yaml:"ruleset"`
	Debug       bool   `env:"DOOMCRAWL_DEBUG" yaml:"debug"`
	Plain       bool   `env:"DOOMCRAWL_PLAIN" yaml:"plain"`
	LogFile     string `env:"DOOMCRAWL_LOG_FILE" yaml:"log_file"`
	Telemetry   bool   `env:"DOOMCRAWL_TELEMETRY" yaml:"telemetry"`
}

// Load parses the environment, then overlays the YAML file named by
// DOOMCRAWL_CONFIG when set. Empty paths fall back to ~/.doomcrawl.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) fillDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if c.SaveDir == "" {
		c.SaveDir = filepath.Join(home, ".doomcrawl", "saves")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(home, ".doomcrawl", "saves.db")
	}
	if c.SaveBackend == "" {
		c.SaveBackend = BackendFile
	}
}

// Validate checks the settings that have a closed set of values.
func (c Config) Validate() error {
	switch c.SaveBackend {
	case BackendFile, BackendSQLite:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownBackend, c.SaveBackend)
}

// OpenStore opens the configured save backend.
func (c Config) OpenStore() (storage.Store, error) {
	switch c.SaveBackend {
	case BackendFile:
		return file.Open(c.SaveDir)
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(c.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return sqlite.Open(c.SQLitePath)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.SaveBackend)
}

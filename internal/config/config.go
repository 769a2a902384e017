// Package config loads the CLI's configuration: a TOML file in the config
// directory, overridden by environment variables, overridden by flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Well-known names.
const (
	AppName       = "taskcli"
	ConfigFile    = "config.toml"
	CredentialsDB = "credentials.db"

	DefaultBaseURL = "http://localhost:8080"
)

// Credential store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// File is the on-disk TOML schema.
type File struct {
	API         APIConfig         `toml:"api"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// APIConfig configures the remote API connection.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CredentialsConfig configures credential persistence.
type CredentialsConfig struct {
	Backend string `toml:"backend"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// Dir is the config directory holding the TOML file and credentials.
	Dir string

	BaseURL     string
	Timeout     time.Duration
	CredBackend string

	// Quiet and Debug come from flags only.
	Quiet bool
	Debug bool
}

// New resolves the configuration for dir. An empty dir means the default
// config directory. A missing config file is fine; a malformed one is not.
func New(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = DefaultConfigDir()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Dir:         dir,
		BaseURL:     DefaultBaseURL,
		CredBackend: BackendFile,
	}

	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		var f File
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if f.API.BaseURL != "" {
			cfg.BaseURL = f.API.BaseURL
		}
		if f.API.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(f.API.TimeoutSeconds) * time.Second
		}
		if f.Credentials.Backend != "" {
			cfg.CredBackend = f.Credentials.Backend
		}
	}

	// Environment overrides the file.
	if v := os.Getenv("TASKAPI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TASKAPI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TASKAPI_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("TASKAPI_CRED_BACKEND"); v != "" {
		cfg.CredBackend = v
	}

	return cfg, nil
}

// DefaultConfigDir returns the per-user config directory for the app.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// CredentialsDBPath is the SQLite credential database location.
func (c *Config) CredentialsDBPath() string {
	return filepath.Join(c.Dir, CredentialsDB)
}

// EnsureDir creates the config directory, user-only.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Package config loads trail's settings from a YAML or TOML file with
// ${VAR} expansion, then applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/trail/internal/api"
	"github.com/Makepad-fr/trail/internal/search"
)

// Environment overrides.
const (
	EnvAPIURL = "TRAIL_API_URL"
	EnvStore  = "TRAIL_STORE"
)

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	API     APIConfig     `yaml:"api" toml:"api"`
	Store   StoreConfig   `yaml:"store" toml:"store"`
	Search  SearchConfig  `yaml:"search" toml:"search"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url" toml:"base_url"`
	Timeout     time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw  string        `yaml:"timeout" toml:"timeout"`
	Offline     bool          `yaml:"offline" toml:"offline"`
	Concurrency int           `yaml:"concurrency" toml:"concurrency"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	// Path is a directory for the json backend and a database file for
	// sqlite.
	Path string `yaml:"path" toml:"path"`
}

type SearchConfig struct {
	Debounce    time.Duration `yaml:"-" toml:"-"`
	DebounceRaw string        `yaml:"debounce" toml:"debounce"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

type UIConfig struct {
	Theme string `yaml:"theme" toml:"theme"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     api.DefaultBaseURL,
			Timeout:     10 * time.Second,
			Concurrency: 4,
		},
		Store:   StoreConfig{Backend: BackendJSON},
		Search:  SearchConfig{Debounce: search.DefaultQuiet},
		Logging: LoggingConfig{Level: "info", File: filepath.Join(StateDir(), "trail.log")},
		UI:      UIConfig{Theme: "classic"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/trail/config.yaml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "trail", "config.yaml")
}

// DataDir is ~/.trail, where the store and credentials live.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trail"
	}
	return filepath.Join(home, ".trail")
}

func defaultStorePath(backend string) string {
	switch backend {
	case BackendSQLite:
		return filepath.Join(DataDir(), "trail.db")
	case BackendJSON:
		return filepath.Join(DataDir(), "store")
	}
	return ""
}

// StateDir is $XDG_STATE_HOME/trail, or DataDir when unset.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "trail")
	}
	return DataDir()
}

// Load reads path on top of the defaults. A missing file is only an error
// when required is set. The format follows the extension: .toml is TOML,
// anything else YAML.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		expanded := expandEnvVars(string(data))
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if _, err := toml.Decode(expanded, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	applyEnv(cfg)
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath(cfg.Store.Backend)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value, or "" when unset.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envRef.FindStringSubmatch(match)[1])
	})
}

func parseDurations(cfg *Config) error {
	var err error
	if cfg.API.TimeoutRaw != "" {
		cfg.API.Timeout, err = time.ParseDuration(cfg.API.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing api.timeout %q: %w", cfg.API.TimeoutRaw, err)
		}
	}
	if cfg.Search.DebounceRaw != "" {
		cfg.Search.Debounce, err = time.ParseDuration(cfg.Search.DebounceRaw)
		if err != nil {
			return fmt.Errorf("parsing search.debounce %q: %w", cfg.Search.DebounceRaw, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		cfg.Store.Backend = v
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if !c.API.Offline {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil {
			return fmt.Errorf("api.base_url is not a valid URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("api.base_url must use http or https scheme")
		}
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.Concurrency < 1 {
		return fmt.Errorf("api.concurrency must be at least 1")
	}
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("store.backend %q is not one of json, sqlite, memory", c.Store.Backend)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	return nil
}

// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Tracking TrackingConfig `toml:"tracking"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// TrackingConfig holds block creation and editing settings.
type TrackingConfig struct {
	StepMinutes  int `toml:"step_minutes"`  // grow/shrink granularity
	BlockMinutes int `toml:"block_minutes"` // length of a new block
	RoundMinutes int `toml:"round_minutes"` // new blocks start on this boundary
	PageSize     int `toml:"page_size"`     // max blocks loaded per day
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "text", "json"
	File   string `toml:"file"`   // empty means stderr
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tracking: TrackingConfig{
			StepMinutes:  5,
			BlockMinutes: 30,
			RoundMinutes: 5,
			PageSize:     100,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tock.db"
	}
	return filepath.Join(home, ".local", "share", "tock", "tock.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tock", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
// Malformed numbers are ignored.
func applyEnvOverrides(cfg *Config) {
	intOverride := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	intOverride("TOCK_STEP_MINUTES", &cfg.Tracking.StepMinutes)
	intOverride("TOCK_BLOCK_MINUTES", &cfg.Tracking.BlockMinutes)
	intOverride("TOCK_ROUND_MINUTES", &cfg.Tracking.RoundMinutes)
	intOverride("TOCK_PAGE_SIZE", &cfg.Tracking.PageSize)

	if v := os.Getenv("TOCK_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TOCK_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TOCK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TOCK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TOCK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	t := c.Tracking
	if t.StepMinutes <= 0 {
		return errors.New("step_minutes must be positive")
	}
	if t.BlockMinutes < t.StepMinutes {
		return fmt.Errorf("block_minutes must be at least step_minutes (%d)", t.StepMinutes)
	}
	if t.RoundMinutes <= 0 || t.RoundMinutes > 60 {
		return errors.New("round_minutes must be between 1 and 60")
	}
	if t.PageSize <= 0 {
		return errors.New("page_size must be positive")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// Step returns the grow/shrink granularity.
func (c *Config) Step() time.Duration {
	return time.Duration(c.Tracking.StepMinutes) * time.Minute
}

// BlockLength returns the length of a newly created block.
func (c *Config) BlockLength() time.Duration {
	return time.Duration(c.Tracking.BlockMinutes) * time.Minute
}

// Rounding returns the boundary new blocks are rounded to.
func (c *Config) Rounding() time.Duration {
	return time.Duration(c.Tracking.RoundMinutes) * time.Minute
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

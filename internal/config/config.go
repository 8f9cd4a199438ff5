// Package config loads and saves the debtgauge TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all debtgauge configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Gauge      GaugeConfig      `toml:"gauge"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// GaugeConfig holds gauge rendering defaults.
type GaugeConfig struct {
	Padding      float64 `toml:"padding"`
	DebounceMS   int     `toml:"debounce_ms"`
	DefaultWidth int     `toml:"default_width"`
	Currency     string  `toml:"currency"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds HTTP daemon settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LogConfig holds structured logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file,omitempty"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Gauge: GaugeConfig{
			Padding:      20,
			DebounceMS:   300,
			DefaultWidth: 80,
			Currency:     "GBP",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8788",
			IntervalSec:  5,
			EventsBuffer: 200,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  20,
			MaxBackups: 5,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "debtgauge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "debtgauge")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads a config file at an explicit path. Environment overrides
// are applied and invalid values are reset to defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to an explicit path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Normalize resets out-of-range values to their defaults and returns the
// names of the fields it fixed.
func (c *Config) Normalize() []string {
	def := DefaultConfig()
	var fixed []string

	if c.Gauge.Padding < 0 {
		c.Gauge.Padding = def.Gauge.Padding
		fixed = append(fixed, "gauge.padding")
	}
	if c.Gauge.DebounceMS <= 0 {
		c.Gauge.DebounceMS = def.Gauge.DebounceMS
		fixed = append(fixed, "gauge.debounce_ms")
	}
	if c.Gauge.DefaultWidth <= int(c.Gauge.Padding*2) {
		c.Gauge.DefaultWidth = def.Gauge.DefaultWidth
		fixed = append(fixed, "gauge.default_width")
	}
	if strings.TrimSpace(c.Gauge.Currency) == "" {
		c.Gauge.Currency = def.Gauge.Currency
		fixed = append(fixed, "gauge.currency")
	}
	if c.Appearance.Theme == "" {
		c.Appearance.Theme = def.Appearance.Theme
		fixed = append(fixed, "appearance.theme")
	}
	if c.Daemon.Addr == "" {
		c.Daemon.Addr = def.Daemon.Addr
		fixed = append(fixed, "daemon.addr")
	}
	if c.Daemon.IntervalSec < 1 {
		c.Daemon.IntervalSec = def.Daemon.IntervalSec
		fixed = append(fixed, "daemon.interval_sec")
	}
	if c.Daemon.EventsBuffer < 1 {
		c.Daemon.EventsBuffer = def.Daemon.EventsBuffer
		fixed = append(fixed, "daemon.events_buffer")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		c.Log.Format = def.Log.Format
		fixed = append(fixed, "log.format")
	}
	return fixed
}

// DBPath returns the accounts database path from env var or config, or
// fallback when neither is set.
func DBPath(cfg Config, fallback string) string {
	if p := os.Getenv("DEBTGAUGE_DB"); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return fallback
}

func (c *Config) applyEnv() {
	if lvl := os.Getenv("DEBTGAUGE_LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
}

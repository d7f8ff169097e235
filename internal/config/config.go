// Package config loads and saves welth's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all welth configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Guardian   GuardianConfig   `toml:"guardian"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Redis      RedisConfig      `toml:"redis"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultDays int    `toml:"default_days"`
	User        string `toml:"user"`
	DBPath      string `toml:"db_path,omitempty"`
	Currency    string `toml:"currency"`
	LogLevel    string `toml:"log_level,omitempty"`
}

// GuardianConfig controls the Safety Guardian.
type GuardianConfig struct {
	Enabled     bool     `toml:"enabled"`
	LockPercent int      `toml:"lock_percent"`
	Interval    Duration `toml:"interval"`
}

// DaemonConfig controls the HTTP daemon.
type DaemonConfig struct {
	Addr         string   `toml:"addr"`
	EventsBuffer int      `toml:"events_buffer"`
	RateLimit    int      `toml:"rate_limit"`
	RateWindow   Duration `toml:"rate_window"`
}

// RedisConfig points at the Redis used for cross-process guardian locks.
// An empty Addr keeps locks in memory.
type RedisConfig struct {
	Addr     string `toml:"addr,omitempty"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Duration is a time.Duration written as a string such as "15m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
			User:        "default",
			Currency:    "₹",
			LogLevel:    "info",
		},
		Guardian: GuardianConfig{
			Enabled:     true,
			LockPercent: 80,
			Interval:    Duration{15 * time.Minute},
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
			RateLimit:    60,
			RateWindow:   Duration{time.Minute},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "welth")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "welth")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path over the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetRedisPassword returns the Redis password from env var or config, in
// that order.
func GetRedisPassword(cfg Config) string {
	if pw := os.Getenv("WELTH_REDIS_PASSWORD"); pw != "" {
		return pw
	}
	return cfg.Redis.Password
}

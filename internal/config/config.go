package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration.
type Config struct {
	// Source is loaded at startup: "bundled:<name>", a URL or a file path.
	Source string `json:"source"`

	UI     UIConfig     `json:"ui"`
	Fetch  FetchConfig  `json:"fetch"`
	Log    LogConfig    `json:"log"`
	Server ServerConfig `json:"server"`
}

// UIConfig holds TUI preferences.
type UIConfig struct {
	SportsOnly bool `json:"sports_only"` // initial state of the category toggle
	ShowLogos  bool `json:"show_logos"`  // show logo URL of the selected channel in the status line
}

// FetchConfig controls remote playlist retrieval.
type FetchConfig struct {
	TimeoutSeconds  int    `json:"timeout_seconds"`
	UserAgent       string `json:"user_agent"`
	MinReloadMillis int    `json:"min_reload_ms"` // throttle between remote reloads
}

// LogConfig controls the text log and the JSONL event log.
type LogConfig struct {
	Level  string `json:"level"` // debug, info, warn, error
	Dir    string `json:"dir"`   // empty means <data dir>/logs
	Events bool   `json:"events"`
}

// ServerConfig holds settings for the HTTP command surface.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: "bundled:sample",
		UI: UIConfig{
			SportsOnly: false,
			ShowLogos:  false,
		},
		Fetch: FetchConfig{
			TimeoutSeconds:  30,
			UserAgent:       "lineup/0.1 (+https://github.com/abelbrown/lineup)",
			MinReloadMillis: 2000,
		},
		Log: LogConfig{
			Level:  "info",
			Events: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8089",
		},
	}
}

// DataDir returns ~/.lineup, or LINEUP_HOME when set.
func DataDir() string {
	if dir := os.Getenv("LINEUP_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lineup")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// EventLogPath returns the path of the JSONL event log.
func EventLogPath() string {
	return filepath.Join(DataDir(), "lineup.events.jsonl")
}

// Load reads the config at ConfigPath, falling back to defaults.
// A .env file in the working directory is loaded first so that its
// variables take part in ApplyEnv.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes config to ConfigPath.
func (c *Config) Save() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides fields from LINEUP_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("LINEUP_SOURCE")); v != "" {
		c.Source = v
	}
	if v := strings.TrimSpace(os.Getenv("LINEUP_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LINEUP_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LINEUP_FETCH_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Fetch.TimeoutSeconds = int(d.Round(time.Second) / time.Second)
		}
	}
}

// FetchTimeout returns the remote fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// MinReload returns the minimum spacing between remote reloads.
func (c *Config) MinReload() time.Duration {
	return time.Duration(c.Fetch.MinReloadMillis) * time.Millisecond
}

// LogDir returns the resolved log directory.
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return c.Log.Dir
	}
	return filepath.Join(DataDir(), "logs")
}

func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaults.Fetch.TimeoutSeconds
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaults.Fetch.UserAgent
	}
	if c.Fetch.MinReloadMillis < 0 {
		c.Fetch.MinReloadMillis = 0
	}
	if c.Source == "" {
		c.Source = defaults.Source
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

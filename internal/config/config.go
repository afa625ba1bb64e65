// Package config loads kcal configuration: defaults first, then an optional
// YAML file, then KCAL_* environment overrides. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all kcal configuration.
type Config struct {
	// Prediction service
	ServiceURL     string `yaml:"service_url"`
	RequestTimeout string `yaml:"request_timeout"` // Go duration string; empty means no timeout

	// Presentation
	Theme string `yaml:"theme"` // auto, light, dark

	// Recent-predictions list size
	HistorySize int `yaml:"history_size"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // empty resolves to DefaultLogFile at startup
}

// DefaultConfig returns the default configuration. The service URL matches
// the model server's default local bind.
func DefaultConfig() *Config {
	return &Config{
		ServiceURL:     "http://127.0.0.1:8000",
		RequestTimeout: "",
		Theme:          "auto",
		HistorySize:    3,
		LogLevel:       "info",
		LogFile:        "",
	}
}

// Load loads configuration from a YAML file. A missing file is not an
// error; defaults are used. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies KCAL_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KCAL_SERVICE_URL"); v != "" {
		c.ServiceURL = v
	}
	if v := os.Getenv("KCAL_REQUEST_TIMEOUT"); v != "" {
		c.RequestTimeout = v
	}
	if v := os.Getenv("KCAL_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("KCAL_HISTORY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HistorySize = n
		}
	}
	if v := os.Getenv("KCAL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("KCAL_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}

// GetRequestTimeout returns the request timeout as a duration. Empty or
// malformed values mean no client-side timeout, so a slow service is waited
// on until the transport itself gives up.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// ValidThemes lists the accepted theme names.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate checks for configuration values that cannot be applied.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.ServiceURL); err != nil {
		return fmt.Errorf("invalid service_url %q: %w", c.ServiceURL, err)
	}

	validTheme := false
	for _, th := range ValidThemes {
		if c.Theme == th {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid theme: %s (valid: %v)", c.Theme, ValidThemes)
	}

	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be at least 1, got %d", c.HistorySize)
	}

	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
	}

	return nil
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kcal.yaml"
	}
	return filepath.Join(dir, "kcal", "config.yaml")
}

// DefaultLogFile returns the log file path under the user cache directory.
// The TUI owns the terminal, so logs never go to stdout or stderr there.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "kcal.log"
	}
	return filepath.Join(dir, "kcal", "kcal.log")
}

// Package config loads ortu's runtime settings.
//
// Precedence is defaults < YAML file < environment. The YAML file is
// optional; a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultMaxContentBytes = 50 * 1024 * 1024 // 50 MiB
	DefaultRetentionWindow = 24 * time.Hour
	DefaultSweepInterval   = time.Hour
	DefaultHistoryLimit    = 100
	DefaultLogLevel        = "info"

	// ConfigFile is the file name looked up inside the data directory
	// when ORTU_CONFIG is not set.
	ConfigFile = "config.yaml"
)

type Config struct {
	DataDir         string        `yaml:"data_dir"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxContentBytes int64         `yaml:"max_content_bytes"`
	RetentionWindow time.Duration `yaml:"retention_window"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
	HistoryLimit    int           `yaml:"history_limit"`

	LogLevel  string `yaml:"log_level"` // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"`

	// RulesFile optionally replaces the built-in classifier rules and
	// virtual buckets. Empty means defaults.
	RulesFile string `yaml:"rules_file"`

	// IgnorePatterns are glob patterns; matching clipboard text is never
	// stored.
	IgnorePatterns []string `yaml:"ignore_patterns"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir:         filepath.Join(home, ".ortu"),
		PollInterval:    DefaultPollInterval,
		MaxContentBytes: DefaultMaxContentBytes,
		RetentionWindow: DefaultRetentionWindow,
		SweepInterval:   DefaultSweepInterval,
		HistoryLimit:    DefaultHistoryLimit,
		LogLevel:        DefaultLogLevel,
	}
}

// Load builds the effective configuration. The YAML path comes from
// ORTU_CONFIG, falling back to <data dir>/config.yaml.
func Load() (*Config, error) {
	cfg := Default()
	if dir := os.Getenv("ORTU_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	path := getenv("ORTU_CONFIG", filepath.Join(cfg.DataDir, ConfigFile))
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.Validate()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataDir = getenv("ORTU_DATA_DIR", c.DataDir)
	c.PollInterval = mustDuration("ORTU_POLL_INTERVAL", c.PollInterval)
	c.MaxContentBytes = getenvInt64("ORTU_MAX_CONTENT_BYTES", c.MaxContentBytes)
	c.RetentionWindow = mustDuration("ORTU_RETENTION_WINDOW", c.RetentionWindow)
	c.SweepInterval = mustDuration("ORTU_SWEEP_INTERVAL", c.SweepInterval)
	c.HistoryLimit = int(getenvInt64("ORTU_HISTORY_LIMIT", int64(c.HistoryLimit)))
	c.LogLevel = getenv("ORTU_LOG_LEVEL", c.LogLevel)
	c.PrettyLog = mustBool("ORTU_PRETTY_LOG", c.PrettyLog)
	c.RulesFile = getenv("ORTU_RULES_FILE", c.RulesFile)
	c.IgnorePatterns = getenvList("ORTU_IGNORE_PATTERNS", c.IgnorePatterns)
}

// Validate resets non-positive values to their defaults.
func (c *Config) Validate() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxContentBytes <= 0 {
		c.MaxContentBytes = DefaultMaxContentBytes
	}
	if c.RetentionWindow <= 0 {
		c.RetentionWindow = DefaultRetentionWindow
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DataDir == "" {
		c.DataDir = Default().DataDir
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

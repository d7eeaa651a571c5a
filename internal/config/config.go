// Package config loads riskscan configuration from a YAML file with
// environment variable overrides. Precedence is flags over env over
// file over built-in defaults; flag handling lives in cmd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all user-tunable settings.
type Config struct {
	// CatalogPath and BandsPath override the embedded question catalog
	// and risk band table. Empty means use the built-in data.
	CatalogPath string `yaml:"catalog_path"`
	BandsPath   string `yaml:"bands_path"`

	// DBPath overrides the default assessment history database location.
	DBPath string `yaml:"db_path"`

	Server ServerConfig `yaml:"server"`
	Advice AdviceConfig `yaml:"advice"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Listen is the address the server binds to.
	Listen string `yaml:"listen"`

	// RedisAddr enables the Redis-backed session registry when set.
	// Empty means sessions are held in memory.
	RedisAddr string `yaml:"redis_addr"`

	// SessionTTL is how long an idle API session survives.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// AdviceConfig selects the LLM backend for advice generation.
// API keys come from the environment only, never from the file.
type AdviceConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:     ":8080",
			SessionTTL: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the standard config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "riskscan", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "riskscan", "config.yaml"), nil
}

// Load reads and parses the config file at path, layered over defaults
// and with env overrides applied on top.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the config from the standard location. A missing
// file is not an error; defaults plus env overrides are returned.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		cfg := Default()
		cfg.applyEnv()
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	return Load(path)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RISKSCAN_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("RISKSCAN_BANDS"); v != "" {
		c.BandsPath = v
	}
	if v := os.Getenv("RISKSCAN_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("RISKSCAN_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("RISKSCAN_REDIS_ADDR"); v != "" {
		c.Server.RedisAddr = v
	}
	if v := os.Getenv("RISKSCAN_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.SessionTTL = d
		}
	}
	if v := os.Getenv("RISKSCAN_ADVICE_PROVIDER"); v != "" {
		c.Advice.Provider = v
	}
	if v := os.Getenv("RISKSCAN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks settings that would otherwise fail at first use.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative")
	}
	return nil
}

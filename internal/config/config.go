// Package config provides configuration management for ucsboard.
//
// Config file locations (priority order):
//  1. $UCSBOARD_CONFIG
//  2. ./ucsboard.yaml
//  3. ./ucsboard.toml
//  4. $XDG_CONFIG_HOME/ucsboard/config.{yaml,toml}
//  5. ~/.config/ucsboard/config.{yaml,toml}
//  6. /etc/ucsboard/config.{yaml,toml}
//
// Files ending in .toml are parsed as TOML, anything else as YAML. Environment
// variables override the file; command line flags override both.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvAddr      = "UCSBOARD_ADDR"
	EnvDB        = "UCSBOARD_DB"
	EnvSearchURL = "UCSBOARD_SEARCH_URL"
	EnvLogLevel  = "UCSBOARD_LOG_LEVEL"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, "", nil
	}

	cfg, path, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	cfg.ApplyEnv()
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path in the format its extension implies
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3001"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Database.Path == "" {
		c.Database.Path = "./ucsboard.db"
	}
	if c.Search.URL == "" {
		c.Search.URL = "http://localhost:8000"
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = Duration(30 * time.Second)
	}
	if c.Search.Breaker.MaxFailures == 0 {
		c.Search.Breaker.MaxFailures = 5
	}
	if c.Search.Breaker.OpenTimeout == 0 {
		c.Search.Breaker.OpenTimeout = Duration(60 * time.Second)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// ApplyEnv overrides fields from UCSBOARD_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvSearchURL); v != "" {
		c.Search.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	u, err := url.Parse(c.Search.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("search.url must be an http(s) URL, got %q", c.Search.URL)
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive")
	}
	if c.Search.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("search.breaker.open_timeout must be positive")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Origins: %s\n", c.Server.Addr, strings.Join(c.Server.AllowedOrigins, ","))
	summary += fmt.Sprintf("Database: %s\n", c.Database.Path)
	summary += fmt.Sprintf("Search: %s (timeout %s, breaker %d/%s)",
		c.Search.URL, c.Search.Timeout.Duration(), c.Search.Breaker.MaxFailures, c.Search.Breaker.OpenTimeout.Duration())
	if c.Watch.File != "" {
		summary += fmt.Sprintf("\nWatching: %s", c.Watch.File)
	}
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

package config

import (
	"time"
)

// Config is the complete ucsboard configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Search   SearchConfig   `yaml:"search" toml:"search"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr" toml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
}

// DatabaseConfig locates the saved-tree database
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// SearchConfig configures the external search service client
type SearchConfig struct {
	URL     string        `yaml:"url" toml:"url"`
	Timeout Duration      `yaml:"timeout" toml:"timeout"`
	Breaker BreakerConfig `yaml:"breaker" toml:"breaker"`
}

// BreakerConfig tunes the circuit breaker around search calls
type BreakerConfig struct {
	MaxFailures uint32   `yaml:"max_failures" toml:"max_failures"`
	OpenTimeout Duration `yaml:"open_timeout" toml:"open_timeout"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// WatchConfig names a record file to re-import whenever it changes
type WatchConfig struct {
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Output formats understood by the renderer
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// History drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Output contains result rendering defaults.
type Output struct {
	Format string `toml:"format"`
	Top    int    `toml:"top"`
}

// Input contains input handling defaults.
type Input struct {
	HTML     bool   `toml:"html"`
	WordBank string `toml:"wordbank"`
}

// Fetch contains configuration for reading input from a URL.
type Fetch struct {
	RateLimit      float64 `toml:"rate_limit"` // requests per second, 0 = no limit unless robots.txt sets Crawl-delay
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxRetries     int     `toml:"max_retries"`
	RespectRobots  bool    `toml:"respect_robots"`
}

// Server contains configuration for the HTTP API.
type Server struct {
	Addr         string  `toml:"addr"`
	RateLimit    float64 `toml:"rate_limit"` // requests per second across all clients, 0 = unlimited
	Burst        int     `toml:"burst"`
	MaxBodyBytes int64   `toml:"max_body_bytes"`
}

// History contains configuration for the run history store.
type History struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config holds all configuration for textproc
type Config struct {
	Output  Output  `toml:"output"`
	Input   Input   `toml:"input"`
	Fetch   Fetch   `toml:"fetch"`
	Server  Server  `toml:"server"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	return "~/.config/textproc/config.toml"
}

// Load reads the TOML file at path on top of Default. An empty path falls
// back to DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}

	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no user config
	default:
		return nil, fmt.Errorf("reading config %s: %w", resolved, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if !validFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be one of text, json, table (got %q)", c.Output.Format)
	}
	if c.Output.Top < 0 {
		return fmt.Errorf("output.top must be non-negative")
	}
	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("fetch.rate_limit must be non-negative (0 = no limit)")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.MaxRetries <= 0 {
		return fmt.Errorf("fetch.max_retries must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be non-negative (0 = no limit)")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
		return fmt.Errorf("server.burst must be positive when server.rate_limit is set")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if c.History.Enabled {
		if c.History.Driver != DriverSQLite && c.History.Driver != DriverMySQL {
			return fmt.Errorf("history.driver must be sqlite or mysql (got %q)", c.History.Driver)
		}
		if c.History.DSN == "" {
			return fmt.Errorf("history.dsn is required when history is enabled")
		}
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console or json (got %q)", c.Logging.Format)
	}
	return nil
}

func (c *Config) normalize() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	c.History.Driver = strings.ToLower(strings.TrimSpace(c.History.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

func validFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatTable:
		return true
	}
	return false
}

// ExpandPath resolves a leading "~" to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

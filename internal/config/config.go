package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teemow/fathom-mcp/internal/fathom"
)

// Environment variables read by Load.
const (
	EnvConfigFile     = "FATHOM_MCP_CONFIG"
	EnvAPIKey         = "FATHOM_API_KEY"
	EnvBaseURL        = "FATHOM_API_BASE_URL"
	EnvSummaryTimeout = "FATHOM_SUMMARY_TIMEOUT"
	EnvHTTPTimeout    = "FATHOM_HTTP_TIMEOUT"
	EnvTimezone       = "FATHOM_TIMEZONE"
	EnvElicitation    = "FATHOM_ELICITATION"
)

// DefaultSummaryTimeout bounds a single summary lookup.
const DefaultSummaryTimeout = 15 * time.Second

// Config holds the settings shared by the MCP server and the terminal commands.
type Config struct {
	APIKey             string
	BaseURL            string
	HTTPTimeout        time.Duration
	SummaryTimeout     time.Duration
	Timezone           string
	IncludeElicitation bool

	location *time.Location
}

type fileConfig struct {
	APIKey         string `yaml:"api_key" toml:"api_key"`
	BaseURL        string `yaml:"base_url" toml:"base_url"`
	HTTPTimeout    string `yaml:"http_timeout" toml:"http_timeout"`
	SummaryTimeout string `yaml:"summary_timeout" toml:"summary_timeout"`
	Timezone       string `yaml:"timezone" toml:"timezone"`
	Elicitation    *bool  `yaml:"elicitation" toml:"elicitation"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:            fathom.DefaultBaseURL,
		SummaryTimeout:     DefaultSummaryTimeout,
		Timezone:           "UTC",
		IncludeElicitation: true,
		location:           time.UTC,
	}
}

// Load resolves the configuration from defaults, the config file and the
// environment. A missing config file is not an error; an unreadable or
// malformed one is.
func Load() (Config, error) {
	cfg := Default()

	if path := FilePath(); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile resolves the configuration from defaults, the given file and the
// environment.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FilePath returns the config file to read, or "" when none exists.
func FilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return expandTilde(p)
	}

	var dir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, "fathom-mcp")
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "fathom-mcp")
	} else {
		return ""
	}

	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Timezone != "" {
		c.Timezone = fc.Timezone
	}
	if fc.Elicitation != nil {
		c.IncludeElicitation = *fc.Elicitation
	}
	if fc.HTTPTimeout != "" {
		if c.HTTPTimeout, err = parseDuration("http_timeout", fc.HTTPTimeout); err != nil {
			return err
		}
	}
	if fc.SummaryTimeout != "" {
		if c.SummaryTimeout, err = parseDuration("summary_timeout", fc.SummaryTimeout); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	var err error
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvSummaryTimeout); v != "" {
		if c.SummaryTimeout, err = parseDuration(EnvSummaryTimeout, v); err != nil {
			return err
		}
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		if c.HTTPTimeout, err = parseDuration(EnvHTTPTimeout, v); err != nil {
			return err
		}
	}
	if v := os.Getenv(EnvElicitation); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvElicitation, v, err)
		}
		c.IncludeElicitation = b
	}
	return nil
}

// Validate checks the durations and resolves the timezone. It does not
// require an API key; requests fail with an authorization error instead.
func (c *Config) Validate() error {
	if c.SummaryTimeout <= 0 {
		return fmt.Errorf("summary timeout must be positive, got %s", c.SummaryTimeout)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.HTTPTimeout)
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location returns the timezone used for date filters and display. It
// falls back to UTC when the config was not validated.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		// bare numbers are seconds
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		d = time.Duration(secs) * time.Second
	}
	return d, nil
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-assistant/internal/types"
)

// Defaults applied when neither flags, the config file nor the environment set a value.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultEnvironment    = "development"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Backend
	BaseURL        string   `json:"base_url,omitempty"`        // Base address of the job assistant backend
	UserID         *int64   `json:"user_id,omitempty"`         // Sent as user_id and X-User-Id when set
	RequestTimeout Duration `json:"request_timeout,omitempty"` // Deadline applied to every request
	PageSize       int      `json:"page_size,omitempty"`       // Answers fetched per answer list refresh

	// Logging
	LogLevel    string `json:"log_level,omitempty"`   // debug, info, warn, error
	LogFile     string `json:"log_file,omitempty"`    // Optional rotating log file
	Environment string `json:"environment,omitempty"` // development or production
	Verbose     bool   `json:"verbose,omitempty"`     // Print detailed debug information
}

// Duration is a time.Duration that decodes from either a Go duration string ("30s")
// or a number of seconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		d.Duration = time.Duration(v * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		d.Duration = parsed
	case nil:
		d.Duration = 0
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: Duration{DefaultRequestTimeout},
		PageSize:       types.DefaultPageSize,
		LogLevel:       DefaultLogLevel,
		Environment:    DefaultEnvironment,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables.
// Unset or unparsable variables leave the field empty so defaults can fill it.
func FromEnv() Config {
	cfg := Config{
		BaseURL:     os.Getenv("JOB_ASSISTANT_BASE_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFile:     os.Getenv("LOG_FILE"),
		Environment: normalizeEnv(os.Getenv("APP_ENV")),
	}

	if raw := strings.TrimSpace(os.Getenv("JOB_ASSISTANT_USER_ID")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.UserID = types.OptionalID(id)
		}
	}
	if raw := strings.TrimSpace(os.Getenv("JOB_ASSISTANT_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.RequestTimeout = Duration{d}
		}
	}
	if raw := strings.TrimSpace(os.Getenv("JOB_ASSISTANT_PAGE_SIZE")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.PageSize = n
		}
	}

	return cfg
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		parsed, err := url.Parse(c.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config error: 'base_url' must be an absolute URL, got %q", c.BaseURL)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("config error: 'base_url' must use http or https")
		}
	}

	if c.UserID != nil && *c.UserID <= 0 {
		return fmt.Errorf("config error: 'user_id' must be positive")
	}
	if c.RequestTimeout.Duration < 0 {
		return fmt.Errorf("config error: 'request_timeout' must be non-negative")
	}
	if c.PageSize < 0 || c.PageSize > types.MaxPageSize {
		return fmt.Errorf("config error: 'page_size' must be between 1 and %d", types.MaxPageSize)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config file values over environment values and built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.Environment == "" {
		result.Environment = defaults.Environment
	}

	// Pointer and numeric fields: use default if unset
	if result.UserID == nil {
		result.UserID = defaults.UserID
	}
	if result.RequestTimeout.Duration == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "development", "dev", "local":
		return "development"
	default:
		return ""
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"base_url": "http://localhost:9000",
		"user_id": 3,
		"request_timeout": "5s",
		"page_size": 20,
		"log_level": "debug",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	require.NotNil(t, cfg.UserID)
	assert.Equal(t, int64(3), *cfg.UserID)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout.Duration)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_NumericTimeout(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"request_timeout": 2.5}`), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout.Duration)
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"request_timeout": "soon"}`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("JOB_ASSISTANT_BASE_URL", "https://assistant.example.com")
	t.Setenv("JOB_ASSISTANT_USER_ID", "12")
	t.Setenv("JOB_ASSISTANT_TIMEOUT", "45s")
	t.Setenv("JOB_ASSISTANT_PAGE_SIZE", "25")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("APP_ENV", "prod")

	cfg := FromEnv()
	assert.Equal(t, "https://assistant.example.com", cfg.BaseURL)
	require.NotNil(t, cfg.UserID)
	assert.Equal(t, int64(12), *cfg.UserID)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout.Duration)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("JOB_ASSISTANT_USER_ID", "abc")
	t.Setenv("JOB_ASSISTANT_TIMEOUT", "later")
	t.Setenv("JOB_ASSISTANT_PAGE_SIZE", "ten")
	t.Setenv("APP_ENV", "moon")

	cfg := FromEnv()
	assert.Nil(t, cfg.UserID)
	assert.Zero(t, cfg.RequestTimeout.Duration)
	assert.Zero(t, cfg.PageSize)
	assert.Empty(t, cfg.Environment)
}

func TestConfig_Validate(t *testing.T) {
	negative := int64(-1)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Defaults()},
		{name: "empty", cfg: Config{}},
		{name: "relative base url", cfg: Config{BaseURL: "localhost:8000"}, wantErr: "base_url"},
		{name: "unsupported scheme", cfg: Config{BaseURL: "ftp://example.com"}, wantErr: "http or https"},
		{name: "negative user", cfg: Config{UserID: &negative}, wantErr: "user_id"},
		{name: "negative timeout", cfg: Config{RequestTimeout: Duration{-time.Second}}, wantErr: "request_timeout"},
		{name: "page size too large", cfg: Config{PageSize: 1000}, wantErr: "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_MergeWithDefaults(t *testing.T) {
	userID := int64(5)
	cfg := Config{BaseURL: "http://backend:8000", PageSize: 3}

	merged := cfg.MergeWithDefaults(Config{
		BaseURL:        "http://ignored",
		UserID:         &userID,
		RequestTimeout: Duration{10 * time.Second},
		PageSize:       10,
		LogLevel:       "info",
	})

	assert.Equal(t, "http://backend:8000", merged.BaseURL)
	assert.Equal(t, 3, merged.PageSize)
	assert.Equal(t, &userID, merged.UserID)
	assert.Equal(t, 10*time.Second, merged.RequestTimeout.Duration)
	assert.Equal(t, "info", merged.LogLevel)

	// Original is untouched
	assert.Nil(t, cfg.UserID)
}

func TestConfig_MergeLayers(t *testing.T) {
	env := Config{BaseURL: "http://from-env:8000", LogLevel: "warn"}
	file := Config{LogLevel: "debug"}

	merged := file.MergeWithDefaults(env)
	merged = merged.MergeWithDefaults(Defaults())

	assert.Equal(t, "http://from-env:8000", merged.BaseURL)
	assert.Equal(t, "debug", merged.LogLevel)
	assert.Equal(t, DefaultRequestTimeout, merged.RequestTimeout.Duration)
	assert.Equal(t, DefaultEnvironment, merged.Environment)
	assert.Equal(t, 10, merged.PageSize)
}

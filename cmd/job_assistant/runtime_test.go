package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

// flagCommand returns a command with fresh root flags parsed from args.
func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	bindRootFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := resolveConfig(flagCommand(t))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, config.DefaultRequestTimeout, cfg.RequestTimeout.Duration)
	assert.Equal(t, types.DefaultPageSize, cfg.PageSize)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Nil(t, cfg.UserID)
	assert.False(t, cfg.Verbose)
}

func TestResolveConfig_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOB_ASSISTANT_BASE_URL", "http://env.example:1")
	t.Setenv("JOB_ASSISTANT_PAGE_SIZE", "7")
	t.Setenv("JOB_ASSISTANT_USER_ID", "4")
	t.Setenv("LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_url": "http://file.example:9000",
		"page_size": 5,
		"request_timeout": "5s"
	}`), 0o644))

	cfg, err := resolveConfig(flagCommand(t, "--config", path, "--page-size", "3", "-v"))
	require.NoError(t, err)

	assert.Equal(t, "http://file.example:9000", cfg.BaseURL, "file wins over env")
	assert.Equal(t, 3, cfg.PageSize, "flag wins over file")
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout.Duration)
	assert.Equal(t, "debug", cfg.LogLevel, "env fills what file and flags leave empty")
	require.NotNil(t, cfg.UserID)
	assert.Equal(t, int64(4), *cfg.UserID)
	assert.True(t, cfg.Verbose)
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	clearEnv(t)

	cfg, err := resolveConfig(flagCommand(t,
		"--base-url", "https://api.example.com",
		"--user-id", "12",
		"--timeout", "2s",
		"--log-level", "warn",
	))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	require.NotNil(t, cfg.UserID)
	assert.Equal(t, int64(12), *cfg.UserID)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout.Duration)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestResolveConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad timeout", args: []string{"--timeout", "soon"}, want: "invalid --timeout"},
		{name: "relative base url", args: []string{"--base-url", "localhost:8000"}, want: "base_url"},
		{name: "non-positive user", args: []string{"--user-id", "0"}, want: "user_id"},
		{name: "page size too large", args: []string{"--page-size", "1000"}, want: "page_size"},
		{name: "missing config file", args: []string{"--config", "/nonexistent/config.json"}, want: "failed to load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := resolveConfig(flagCommand(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestResolveConfig_VerboseFromConfigFileReachesErrorReport(t *testing.T) {
	clearEnv(t)
	t.Cleanup(func() { verboseErrors = false })

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"verbose": true}`), 0o644))

	cfg, err := resolveConfig(flagCommand(t, "--config", path))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.True(t, verboseErrors)

	failure := &translate.Failure{
		Op:        apiclient.OpStatus,
		Kind:      translate.KindTransport,
		Condition: translate.StatusUnreachable,
		Cause:     errors.New("connection refused"),
	}

	var verbose bytes.Buffer
	reportError(&verbose, failure, verboseErrors)
	assert.Contains(t, verbose.String(), "Backend is unreachable. (connection refused)")

	var quiet bytes.Buffer
	reportError(&quiet, failure, false)
	assert.Contains(t, quiet.String(), "Backend is unreachable.")
	assert.NotContains(t, quiet.String(), "connection refused")
}

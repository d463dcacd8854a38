package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/job-assistant/internal/stubserver"
)

// clearEnv keeps the developer's environment out of config resolution.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JOB_ASSISTANT_BASE_URL",
		"JOB_ASSISTANT_USER_ID",
		"JOB_ASSISTANT_TIMEOUT",
		"JOB_ASSISTANT_PAGE_SIZE",
		"LOG_LEVEL",
		"LOG_FILE",
		"APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

// startStub runs an in-memory backend for the duration of the test.
func startStub(t *testing.T) (*stubserver.Server, string) {
	t.Helper()
	srv := stubserver.New(stubserver.Config{Version: "test"})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

// executeCommand runs the root command in-process and returns what it printed.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

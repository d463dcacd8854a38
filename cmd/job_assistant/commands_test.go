package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

// Root command flags keep their values between executions, so each test passes
// every flag it relies on.

func TestCommands_StatusAgainstStub(t *testing.T) {
	clearEnv(t)
	_, baseURL := startStub(t)

	out, err := executeCommand(t, "", "status", "--base-url", baseURL)
	require.NoError(t, err)
	assert.Contains(t, out, "BACKEND STATUS")
	assert.Contains(t, out, "LLM provider: stub")
}

func TestCommands_StatusUnreachable(t *testing.T) {
	clearEnv(t)

	_, err := executeCommand(t, "", "status", "--base-url", "http://127.0.0.1:1", "--timeout", "2s")
	require.Error(t, err)
	assert.True(t, translate.Is(err, translate.StatusUnreachable))
}

func TestCommands_AnalyzeGenerateAnswersDelete(t *testing.T) {
	clearEnv(t)
	srv, baseURL := startStub(t)

	resume := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(resume, []byte("Go engineer with ten years of experience\n"), 0o644))

	out, err := executeCommand(t, "", "analyze", "--base-url", baseURL, "--text-file", resume)
	require.NoError(t, err)
	assert.Contains(t, out, "RESUME ANALYSIS")
	assert.Contains(t, out, "SAVED ANSWERS (analysis 1)")
	assert.Contains(t, out, "No saved answers.")

	out, err = executeCommand(t, "", "generate", "--base-url", baseURL,
		"--question", "What is your biggest strength?", "--analysis-id", "1",
		"--job-title", "", "--company", "")
	require.NoError(t, err)
	assert.Contains(t, out, "GENERATED ANSWER")
	assert.Contains(t, out, "#2  What is your biggest strength?")

	out, err = executeCommand(t, "", "answers", "--base-url", baseURL, "--analysis-id", "1", "--limit", "5", "--offset", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "#2  What is your biggest strength?")

	out, err = executeCommand(t, "", "delete-answer", "--base-url", baseURL, "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted answer 2")

	out, err = executeCommand(t, "", "delete-analysis", "--base-url", baseURL, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted resume analysis 1")

	_, err = executeCommand(t, "", "delete-analysis", "--base-url", baseURL, "1")
	var f *translate.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, translate.NotFound, f.Condition)
	assert.Equal(t, "Resume analysis not found. It may have already been deleted.", f.Message())

	metrics := srv.Store().Metrics(nil)
	assert.Equal(t, 0, metrics.TotalResumeAnalyses)
	assert.Equal(t, 0, metrics.TotalAnswers)
}

func TestCommands_AnalyzeFromStdin(t *testing.T) {
	clearEnv(t)
	_, baseURL := startStub(t)
	analyzeTextFile = ""

	out, err := executeCommand(t, "short", "analyze", "--base-url", baseURL)
	require.Error(t, err)
	assert.True(t, translate.Is(err, translate.ResumeTooShort))
	assert.Empty(t, out)
}

func TestCommands_UsersAndMetrics(t *testing.T) {
	clearEnv(t)
	srv, baseURL := startStub(t)

	out, err := executeCommand(t, "", "users", "create", "--base-url", baseURL,
		"--email", "dev@example.com", "--name", "Dev User")
	require.NoError(t, err)
	assert.Contains(t, out, "dev@example.com")

	_, err = executeCommand(t, "", "users", "create", "--base-url", baseURL,
		"--email", "dev@example.com", "--name", "Dev User")
	assert.True(t, translate.Is(err, translate.EmailTaken))

	out, err = executeCommand(t, "", "users", "get", "--base-url", baseURL, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Dev User")

	_, err = srv.Store().AnalyzeResume(types.AnalyzeResumeRequest{
		UserID:     types.OptionalID(1),
		ResumeText: "a resume that is long enough",
	})
	require.NoError(t, err)

	out, err = executeCommand(t, "", "metrics", "--base-url", baseURL, "--user=false")
	require.NoError(t, err)
	assert.Contains(t, out, "METRICS")

	out, err = executeCommand(t, "", "metrics", "--base-url", baseURL, "--user", "--user-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "METRICS (user 1)")

	_, err = executeCommand(t, "", "metrics", "--base-url", baseURL, "--user", "--user-id", "42")
	assert.True(t, translate.Is(err, translate.Unauthenticated))
}

func TestCommands_ArgumentErrors(t *testing.T) {
	clearEnv(t)

	_, err := executeCommand(t, "", "delete-answer", "--base-url", "http://127.0.0.1:1", "zero")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")

	_, err = executeCommand(t, "", "analyze", "--base-url", "http://127.0.0.1:1", "--text", "x", "--text-file", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

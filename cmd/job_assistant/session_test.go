package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/assistant"
	"github.com/jonathan/job-assistant/internal/observability"
)

func newTestREPL(t *testing.T, script string) (*repl, *assistant.Session, *bytes.Buffer) {
	t.Helper()
	_, baseURL := startStub(t)
	client, err := apiclient.New(apiclient.Options{BaseURL: baseURL})
	require.NoError(t, err)

	session := assistant.NewSession(client, assistant.Options{})
	var out bytes.Buffer
	r := newREPL(session, observability.NewPrinter(&out), strings.NewReader(script), &out)
	t.Cleanup(session.Wait)
	return r, session, &out
}

func TestREPL_AnalyzeAskSelect(t *testing.T) {
	script := strings.Join([]string{
		"analyze",
		"Senior Go engineer",
		"Built payment systems at scale",
		".",
		"job Backend Engineer",
		"company Acme",
		"ask Why do you want this role?",
		"answers",
		"select 2",
		"quit",
		"status",
	}, "\n")
	r, session, out := newTestREPL(t, script)

	require.NoError(t, r.run(context.Background()))

	snap := session.Snapshot()
	require.NotNil(t, snap.Active)
	assert.Equal(t, int64(1), *snap.Active)
	assert.Equal(t, "Senior Go engineer\nBuilt payment systems at scale", snap.Resume.Text)
	assert.Equal(t, "Basic analysis only. Approximate word count: 8. Non-empty line count: 2.", snap.Resume.Summary)
	require.Len(t, snap.Cache.Items, 1)
	assert.Equal(t, int64(2), snap.Cache.Items[0].ID)
	assert.Equal(t, "Why do you want this role?", snap.Answer.Question)
	assert.True(t, strings.HasPrefix(snap.Answer.Answer,
		"Question: Why do you want this role? | Target role: Backend Engineer | Company: Acme |"))

	output := out.String()
	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "GENERATED ANSWER")
	assert.Contains(t, output, "SAVED ANSWERS (analysis 1)")
	assert.Contains(t, output, "SESSION")
	assert.NotContains(t, output, "BACKEND STATUS", "commands after quit are not run")
}

func TestREPL_DeleteFlow(t *testing.T) {
	script := strings.Join([]string{
		"analyze Experienced backend developer with Go",
		"ask Tell me about yourself",
		"delete-answer 2",
		"delete-answer 2",
		"delete-analysis",
		"delete-analysis",
		"ask Hi",
		"quit",
	}, "\n")
	r, session, out := newTestREPL(t, script)

	require.NoError(t, r.run(context.Background()))

	snap := session.Snapshot()
	assert.Nil(t, snap.Active)
	assert.Empty(t, snap.Cache.Items)
	assert.Equal(t, "Experienced backend developer with Go", snap.Resume.Text, "text survives deletion")
	assert.Empty(t, snap.Resume.Summary)

	output := out.String()
	assert.Contains(t, output, "✓ Deleted answer 2")
	assert.Contains(t, output, "✗ Answer not found. It may have already been deleted.")
	assert.Contains(t, output, "✓ Deleted resume analysis 1")
	assert.Contains(t, output, "✗ No resume analysis is selected.")
	assert.Contains(t, output, "✗ Question is too short. Please provide at least 5 characters.")
}

func TestREPL_LocalFailuresAndUnknownCommands(t *testing.T) {
	script := strings.Join([]string{
		"",
		"ask   ",
		"select nope",
		"select 99",
		"refresh",
		"dance",
		"help",
		"exit",
	}, "\n")
	r, _, out := newTestREPL(t, script)

	require.NoError(t, r.run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "✗ Please enter an interview question.")
	assert.Contains(t, output, `invalid id "nope"`)
	assert.Contains(t, output, "Answer 99 is not among the saved answers.")
	assert.Contains(t, output, "No active resume analysis.")
	assert.Contains(t, output, `Unknown command "dance"`)
	assert.Contains(t, output, "delete-analysis      delete the active analysis")
}

func TestREPL_FocusAndClear(t *testing.T) {
	srv, baseURL := startStub(t)
	client, err := apiclient.New(apiclient.Options{BaseURL: baseURL})
	require.NoError(t, err)
	ctx := context.Background()

	// Seed an analysis with two answers through a separate session.
	seed := assistant.NewSession(client, assistant.Options{})
	analysis, err := seed.Analyze(ctx, "An existing resume for focus testing")
	require.NoError(t, err)
	for _, q := range []string{"First question", "Second question"} {
		_, err := seed.Generate(ctx, assistant.GenerateInput{Question: q})
		require.NoError(t, err)
	}
	seed.Wait()
	require.Equal(t, 2, srv.Store().Metrics(nil).TotalAnswers)

	session := assistant.NewSession(client, assistant.Options{})
	var out bytes.Buffer
	r := newREPL(session, observability.NewPrinter(&out), strings.NewReader("focus 1\nclear\nquit\n"), &out)

	require.NoError(t, r.run(ctx))

	assert.Contains(t, out.String(), "#3  Second question")
	assert.Contains(t, out.String(), "#2  First question")
	assert.Contains(t, out.String(), "✓ Cleared resume workflow")
	assert.Equal(t, int64(1), analysis.ID)
	assert.Nil(t, session.Active())
	assert.Empty(t, session.Answers())
}

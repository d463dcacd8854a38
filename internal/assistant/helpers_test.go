package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/types"
)

type reply struct {
	status int
	body   string
}

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     map[string]any
}

// backendRecorder serves canned replies keyed by "METHOD /path" and records every request.
// Replies for a key are consumed in order; the last one repeats.
type backendRecorder struct {
	mu       sync.Mutex
	replies  map[string][]reply
	requests []recordedRequest
}

func newRecorder() *backendRecorder {
	return &backendRecorder{replies: make(map[string][]reply)}
}

func (b *backendRecorder) on(method, path string, status int, body string) *backendRecorder {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	b.replies[key] = append(b.replies[key], reply{status: status, body: body})
	return b
}

// set replaces every queued reply for the route.
func (b *backendRecorder) set(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[method+" "+path] = []reply{{status: status, body: body}}
}

func (b *backendRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	key := r.Method + " " + r.URL.Path
	queue := b.replies[key]
	var rep reply
	switch {
	case len(queue) == 0:
		rep = reply{status: http.StatusNotFound, body: `{"detail":"no reply configured"}`}
	case len(queue) == 1:
		rep = queue[0]
	default:
		rep = queue[0]
		b.replies[key] = queue[1:]
	}
	b.mu.Unlock()

	if rep.body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rep.status)
	if rep.body != "" {
		_, _ = w.Write([]byte(rep.body))
	}
}

func (b *backendRecorder) all() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func (b *backendRecorder) matching(method, path string) []recordedRequest {
	var out []recordedRequest
	for _, r := range b.all() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (b *backendRecorder) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func newTestSession(t *testing.T, rec *backendRecorder, opts Options) *Session {
	t.Helper()
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return NewSession(client, opts)
}

// unreachableSession points at a server that has already been shut down.
func unreachableSession(t *testing.T) *Session {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := apiclient.New(apiclient.Options{BaseURL: url, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return NewSession(client, Options{})
}

// fakeBackend lets tests control timing. Nil funcs return zero values.
type fakeBackend struct {
	status   func(ctx context.Context) (*types.StatusReport, error)
	analyze  func(ctx context.Context, req *types.AnalyzeResumeRequest) (*types.ResumeAnalysis, error)
	generate func(ctx context.Context, req *types.GenerateAnswerRequest) (*types.InterviewAnswer, error)
	list     func(ctx context.Context, id int64, opts types.ListOptions) ([]types.AnswerSummary, error)
}

func (f *fakeBackend) Status(ctx context.Context) (*types.StatusReport, error) {
	if f.status == nil {
		return &types.StatusReport{Status: "ok"}, nil
	}
	return f.status(ctx)
}

func (f *fakeBackend) AnalyzeResume(ctx context.Context, req *types.AnalyzeResumeRequest) (*types.ResumeAnalysis, error) {
	if f.analyze == nil {
		return &types.ResumeAnalysis{}, nil
	}
	return f.analyze(ctx, req)
}

func (f *fakeBackend) GenerateAnswer(ctx context.Context, req *types.GenerateAnswerRequest) (*types.InterviewAnswer, error) {
	if f.generate == nil {
		return &types.InterviewAnswer{}, nil
	}
	return f.generate(ctx, req)
}

func (f *fakeBackend) ListAnswers(ctx context.Context, id int64, opts types.ListOptions) ([]types.AnswerSummary, error) {
	if f.list == nil {
		return []types.AnswerSummary{}, nil
	}
	return f.list(ctx, id, opts)
}

func (f *fakeBackend) DeleteAnalysis(context.Context, int64) error { return nil }

func (f *fakeBackend) DeleteAnswer(context.Context, int64) error { return nil }

func ptr[T any](v T) *T {
	return &v
}

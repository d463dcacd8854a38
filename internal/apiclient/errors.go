package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Op names a backend operation. Failures are translated per operation.
type Op string

// Backend operations.
const (
	OpStatus         Op = "status"
	OpAnalyzeResume  Op = "analyze_resume"
	OpGenerateAnswer Op = "generate_answer"
	OpListAnswers    Op = "list_answers"
	OpDeleteAnalysis Op = "delete_analysis"
	OpDeleteAnswer   Op = "delete_answer"
	OpCreateUser     Op = "create_user"
	OpGetUser        Op = "get_user"
	OpMetricsSummary Op = "metrics_summary"
	OpUserMetrics    Op = "user_metrics"
)

// Error represents a failed backend request.
// StatusCode is zero when no response was received.
type Error struct {
	Op         Op
	Method     string
	Path       string
	StatusCode int
	Detail     string
	Message    string
	Cause      error

	// Unsent marks requests that failed while being built and never reached the network.
	Unsent bool
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s %s: %s", e.Op, e.Method, e.Path, e.Message))
	if e.Detail != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Detail))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Transport reports whether a sent request failed before any response was obtained.
func (e *Error) Transport() bool {
	return e.StatusCode == 0 && !e.Unsent
}

// Success reports whether a response arrived with a 2xx status.
// Such errors come from undecodable or schema-invalid payloads.
func (e *Error) Success() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// errorBody is the error envelope returned by the backend.
// detail is a string for domain errors and a list for request validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// parseDetail extracts a human readable detail from an error response body.
func parseDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return truncate(strings.TrimSpace(string(body)), 200)
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return truncate(string(envelope.Detail), 200)
}

func statusError(op Op, req *http.Request, status int, body []byte) *Error {
	return &Error{
		Op:         op,
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: status,
		Detail:     parseDetail(body),
		Message:    fmt.Sprintf("HTTP status %d", status),
	}
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

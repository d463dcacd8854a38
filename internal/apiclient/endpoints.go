package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

// Status fetches the backend health report.
func (c *Client) Status(ctx context.Context) (*types.StatusReport, error) {
	var report types.StatusReport
	err := c.do(ctx, call{
		op:     OpStatus,
		method: http.MethodGet,
		path:   "/status",
		schema: schemas.Status,
		out:    &report,
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// AnalyzeResume submits resume text for analysis.
func (c *Client) AnalyzeResume(ctx context.Context, req *types.AnalyzeResumeRequest) (*types.ResumeAnalysis, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyze request: %w", err)
	}

	var analysis types.ResumeAnalysis
	err := c.do(ctx, call{
		op:     OpAnalyzeResume,
		method: http.MethodPost,
		path:   "/api/resume/analyze",
		body:   req,
		schema: schemas.ResumeAnalysis,
		out:    &analysis,
	})
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// GenerateAnswer requests an interview answer.
func (c *Client) GenerateAnswer(ctx context.Context, req *types.GenerateAnswerRequest) (*types.InterviewAnswer, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generate request: %w", err)
	}

	var answer types.InterviewAnswer
	err := c.do(ctx, call{
		op:     OpGenerateAnswer,
		method: http.MethodPost,
		path:   "/api/generate/answer",
		body:   req,
		schema: schemas.InterviewAnswer,
		out:    &answer,
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// ListAnswers fetches one page of the answers generated for an analysis.
func (c *Client) ListAnswers(ctx context.Context, analysisID int64, opts types.ListOptions) ([]types.AnswerSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid list options: %w", err)
	}

	answers := []types.AnswerSummary{}
	err := c.do(ctx, call{
		op:     OpListAnswers,
		method: http.MethodGet,
		path:   idPath("/api/resume/%s/answers", analysisID),
		query:  opts.Query(),
		schema: schemas.AnswerList,
		out:    &answers,
	})
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// DeleteAnalysis deletes a resume analysis.
func (c *Client) DeleteAnalysis(ctx context.Context, analysisID int64) error {
	return c.do(ctx, call{
		op:     OpDeleteAnalysis,
		method: http.MethodDelete,
		path:   idPath("/api/resume/%s", analysisID),
	})
}

// DeleteAnswer deletes a generated answer.
func (c *Client) DeleteAnswer(ctx context.Context, answerID int64) error {
	return c.do(ctx, call{
		op:     OpDeleteAnswer,
		method: http.MethodDelete,
		path:   idPath("/api/answers/%s", answerID),
	})
}

// CreateUser registers a user.
func (c *Client) CreateUser(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user request: %w", err)
	}

	var user types.User
	err := c.do(ctx, call{
		op:     OpCreateUser,
		method: http.MethodPost,
		path:   "/api/users",
		body:   req,
		schema: schemas.User,
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, userID int64) (*types.User, error) {
	var user types.User
	err := c.do(ctx, call{
		op:     OpGetUser,
		method: http.MethodGet,
		path:   idPath("/api/users/%s", userID),
		schema: schemas.User,
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MetricsSummary fetches global counts, plus per-user counts when the client has a user.
func (c *Client) MetricsSummary(ctx context.Context) (*types.MetricsSummary, error) {
	var summary types.MetricsSummary
	err := c.do(ctx, call{
		op:     OpMetricsSummary,
		method: http.MethodGet,
		path:   "/api/metrics/summary",
		schema: schemas.MetricsSummary,
		out:    &summary,
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// UserMetrics fetches counts for the client's user. The backend rejects it without one.
func (c *Client) UserMetrics(ctx context.Context) (*types.UserMetrics, error) {
	var metrics types.UserMetrics
	err := c.do(ctx, call{
		op:     OpUserMetrics,
		method: http.MethodGet,
		path:   "/api/metrics/user",
		schema: schemas.UserMetrics,
		out:    &metrics,
	})
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

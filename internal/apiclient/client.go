// Package apiclient provides a typed HTTP client for the job assistant backend.
// This package centralizes request construction, deadlines and response checking.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/schemas"
)

// DefaultTimeout is the default request deadline.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "JobAssistant/1.0"

// Header names understood by the backend.
const (
	HeaderUserID    = "X-User-Id"
	HeaderRequestID = "X-Request-Id"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Options configures the client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	UserID     *int64
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the job assistant backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	userID     *int64
	logger     *zap.Logger
}

// New creates a client for the backend at opts.BaseURL.
func New(opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		userAgent:  opts.UserAgent,
		userID:     opts.UserID,
		logger:     logging.OrNop(opts.Logger),
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	return c, nil
}

// UserID returns the user the client acts for, or nil.
func (c *Client) UserID() *int64 {
	return c.userID
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// call describes one backend request.
type call struct {
	op     Op
	method string
	path   string
	query  url.Values
	body   any
	schema schemas.Name
	out    any
}

// do executes a call. A caller that set no deadline gets the client timeout, so a
// hung backend surfaces as a transport failure instead of blocking the caller.
func (c *Client) do(ctx context.Context, cl call) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL.JoinPath(cl.path)
	if len(cl.query) > 0 {
		endpoint.RawQuery = cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Op: cl.op, Method: cl.method, Path: cl.path, Message: "failed to encode request", Unsent: true, Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint.String(), reader)
	if err != nil {
		return &Error{Op: cl.op, Method: cl.method, Path: cl.path, Message: "failed to create request", Unsent: true, Cause: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != nil {
		req.Header.Set(HeaderUserID, strconv.FormatInt(*c.userID, 10))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("op", string(cl.op)),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return &Error{Op: cl.op, Method: cl.method, Path: req.URL.Path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Op: cl.op, Method: cl.method, Path: req.URL.Path, Message: "failed to read response body", Cause: err}
	}

	c.logger.Debug("backend request completed",
		zap.String("op", string(cl.op)),
		zap.String("method", cl.method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(cl.op, req, resp.StatusCode, body)
	}

	if cl.out == nil {
		return nil
	}

	if cl.schema != "" {
		if err := schemas.ValidateResponse(cl.schema, body); err != nil {
			return &Error{
				Op:         cl.op,
				Method:     cl.method,
				Path:       req.URL.Path,
				StatusCode: resp.StatusCode,
				Message:    "unexpected response payload",
				Cause:      err,
			}
		}
	}

	if err := json.Unmarshal(body, cl.out); err != nil {
		return &Error{
			Op:         cl.op,
			Method:     cl.method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Message:    "failed to decode response",
			Cause:      err,
		}
	}

	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}

// Package types provides the records exchanged with the job assistant backend.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ResumeAnalysis is a stored resume analysis as returned by the backend.
// An ID of zero means the backend did not return one.
type ResumeAnalysis struct {
	ID         int64  `json:"id"`
	UserID     *int64 `json:"user_id"`
	ResumeText string `json:"resume_text"`
	Summary    string `json:"summary"`
	CreatedAt  string `json:"created_at"`
	Provider   string `json:"provider"`
}

// AnalyzeResumeRequest is the body of POST /api/resume/analyze.
// The 20 character minimum is enforced by the backend, not here.
type AnalyzeResumeRequest struct {
	UserID     *int64 `json:"user_id"`
	ResumeText string `json:"resume_text" validate:"required"`
}

// Validate validates the AnalyzeResumeRequest using the validator.
func (r *AnalyzeResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// OptionalString returns nil for blank input and a pointer to the trimmed value otherwise.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptionalID returns nil for non-positive ids.
func OptionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

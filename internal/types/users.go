package types

import "github.com/go-playground/validator/v10"

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=1"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// User represents a backend user.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
}

// MetricsSummary is the payload of GET /api/metrics/summary.
// The per-user counts are null unless the request identified a user.
type MetricsSummary struct {
	TotalUsers          int  `json:"total_users"`
	TotalResumeAnalyses int  `json:"total_resume_analyses"`
	TotalAnswers        int  `json:"total_answers"`
	UserResumeAnalyses  *int `json:"user_resume_analyses"`
	UserAnswers         *int `json:"user_answers"`
}

// UserMetrics is the payload of GET /api/metrics/user.
type UserMetrics struct {
	UserID         int64 `json:"user_id"`
	ResumeAnalyses int   `json:"resume_analyses"`
	Answers        int   `json:"answers"`
}

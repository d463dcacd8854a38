package types

import (
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// DefaultPageSize is the number of answers fetched per answer list request.
const DefaultPageSize = 10

// MaxPageSize bounds the limit accepted for answer list requests.
const MaxPageSize = 100

// InterviewAnswer is a generated interview answer as returned by the backend.
type InterviewAnswer struct {
	ID               int64   `json:"id"`
	UserID           *int64  `json:"user_id"`
	ResumeAnalysisID *int64  `json:"resume_analysis_id"`
	Question         string  `json:"question"`
	JobTitle         *string `json:"job_title"`
	CompanyName      *string `json:"company_name"`
	Answer           string  `json:"answer"`
	CreatedAt        string  `json:"created_at"`
	Provider         string  `json:"provider"`
}

// Summary returns the cached projection of the answer.
func (a *InterviewAnswer) Summary() AnswerSummary {
	return AnswerSummary{
		ID:        a.ID,
		Question:  a.Question,
		Answer:    a.Answer,
		Provider:  a.Provider,
		CreatedAt: a.CreatedAt,
	}
}

// AnswerSummary is the reduced answer record returned by the answer list endpoint.
type AnswerSummary struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"created_at"`
}

// GenerateAnswerRequest is the body of POST /api/generate/answer.
// Nil pointers are sent as JSON null.
type GenerateAnswerRequest struct {
	UserID           *int64  `json:"user_id"`
	ResumeAnalysisID *int64  `json:"resume_analysis_id"`
	Question         string  `json:"question" validate:"required"`
	JobTitle         *string `json:"job_title"`
	CompanyName      *string `json:"company_name"`
}

// Validate validates the GenerateAnswerRequest using the validator.
func (r *GenerateAnswerRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ListOptions pages through the answers of one resume analysis.
type ListOptions struct {
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`
}

// DefaultListOptions returns the first page with the default page size.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: DefaultPageSize}
}

// Validate validates the ListOptions using the validator.
func (o ListOptions) Validate() error {
	validate := validator.New()
	return validate.Struct(o)
}

// Query encodes the options as limit/offset query parameters.
func (o ListOptions) Query() url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(o.Limit))
	q.Set("offset", strconv.Itoa(o.Offset))
	return q
}

// Package translate maps request outcomes to the conditions shown to the user.
//
// Every outcome falls in one of four kinds: a local validation failure that never
// reached the network, a domain rejection the client understands (422, 404, 403, 401),
// an unclassified server failure, or a transport failure with no response at all.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-assistant/internal/apiclient"
)

// Kind classifies a failure.
type Kind string

// Failure kinds.
const (
	KindLocal     Kind = "local"
	KindRejected  Kind = "rejected"
	KindServer    Kind = "server"
	KindTransport Kind = "transport"
)

// Condition is a domain-level outcome with a fixed user-facing message.
type Condition string

// Conditions.
const (
	TextRequired      Condition = "text_required"
	QuestionRequired  Condition = "question_required"
	NoActiveAnalysis  Condition = "no_active_analysis"
	InvalidInput      Condition = "invalid_input"
	ResumeTooShort    Condition = "resume_too_short"
	QuestionTooShort  Condition = "question_too_short"
	UserNotFound      Condition = "user_not_found"
	RelatedNotFound   Condition = "related_not_found"
	NotFound          Condition = "not_found"
	Forbidden         Condition = "forbidden"
	Unauthenticated   Condition = "unauthenticated"
	EmailTaken        Condition = "email_taken"
	AnalysisFailed    Condition = "analysis_failed"
	GenerationFailed  Condition = "generation_failed"
	DeleteFailed      Condition = "delete_failed"
	RefreshFailed     Condition = "refresh_failed"
	RequestFailed     Condition = "request_failed"
	StatusUnavailable Condition = "status_unavailable"
	StatusUnreachable Condition = "status_unreachable"
	NetworkError      Condition = "network_error"
)

var messages = map[Condition]string{
	TextRequired:      "Please paste resume text before analyzing.",
	QuestionRequired:  "Please enter an interview question.",
	NoActiveAnalysis:  "No resume analysis is selected.",
	InvalidInput:      "Some fields are missing or invalid.",
	ResumeTooShort:    "Resume text is too short. Please provide at least 20 characters.",
	QuestionTooShort:  "Question is too short. Please provide at least 5 characters.",
	UserNotFound:      "User not found.",
	RelatedNotFound:   "Related user or resume analysis not found.",
	NotFound:          "Item not found. It may have already been deleted.",
	Forbidden:         "You are not allowed to perform this action.",
	Unauthenticated:   "Authentication required.",
	EmailTaken:        "A user with this email already exists.",
	AnalysisFailed:    "Resume analysis failed. Please try again.",
	GenerationFailed:  "Answer generation failed. Please try again.",
	DeleteFailed:      "Delete failed. Please try again.",
	RefreshFailed:     "Could not load saved answers.",
	RequestFailed:     "Request failed. Please try again.",
	StatusUnavailable: "Backend is reachable but reported an error.",
	StatusUnreachable: "Backend is unreachable.",
	NetworkError:      "Network error. Check that the backend is running and reachable.",
}

// opMessages override the default message where the operation names the entity.
var opMessages = map[apiclient.Op]map[Condition]string{
	apiclient.OpDeleteAnalysis: {
		NotFound:     "Resume analysis not found. It may have already been deleted.",
		Forbidden:    "You are not allowed to delete this resume analysis.",
		DeleteFailed: "Failed to delete resume analysis. Please try again.",
	},
	apiclient.OpDeleteAnswer: {
		NotFound:     "Answer not found. It may have already been deleted.",
		Forbidden:    "You are not allowed to delete this answer.",
		DeleteFailed: "Failed to delete answer. Please try again.",
	},
	apiclient.OpListAnswers: {
		NotFound: "Resume analysis not found.",
	},
}

// rule maps the statuses an operation understands; anything else is the fallback.
type rule struct {
	statuses map[int]Condition
	fallback Condition
	local    Condition
}

var deleteStatuses = map[int]Condition{
	http.StatusNotFound:     NotFound,
	http.StatusForbidden:    Forbidden,
	http.StatusUnauthorized: Unauthenticated,
}

var rules = map[apiclient.Op]rule{
	apiclient.OpStatus: {
		fallback: StatusUnavailable,
		local:    InvalidInput,
	},
	apiclient.OpAnalyzeResume: {
		statuses: map[int]Condition{
			http.StatusUnprocessableEntity: ResumeTooShort,
			http.StatusNotFound:            UserNotFound,
		},
		fallback: AnalysisFailed,
		local:    TextRequired,
	},
	apiclient.OpGenerateAnswer: {
		statuses: map[int]Condition{
			http.StatusUnprocessableEntity: QuestionTooShort,
			http.StatusNotFound:            RelatedNotFound,
		},
		fallback: GenerationFailed,
		local:    QuestionRequired,
	},
	apiclient.OpListAnswers: {
		statuses: map[int]Condition{
			http.StatusNotFound: NotFound,
		},
		fallback: RefreshFailed,
		local:    InvalidInput,
	},
	apiclient.OpDeleteAnalysis: {
		statuses: deleteStatuses,
		fallback: DeleteFailed,
		local:    NoActiveAnalysis,
	},
	apiclient.OpDeleteAnswer: {
		statuses: deleteStatuses,
		fallback: DeleteFailed,
		local:    InvalidInput,
	},
	apiclient.OpCreateUser: {
		statuses: map[int]Condition{
			http.StatusBadRequest:          EmailTaken,
			http.StatusUnprocessableEntity: InvalidInput,
		},
		fallback: RequestFailed,
		local:    InvalidInput,
	},
	apiclient.OpGetUser: {
		statuses: map[int]Condition{
			http.StatusNotFound: UserNotFound,
		},
		fallback: RequestFailed,
		local:    InvalidInput,
	},
	apiclient.OpMetricsSummary: {
		statuses: map[int]Condition{
			http.StatusUnauthorized: Unauthenticated,
		},
		fallback: RequestFailed,
		local:    InvalidInput,
	},
	apiclient.OpUserMetrics: {
		statuses: map[int]Condition{
			http.StatusUnauthorized: Unauthenticated,
		},
		fallback: RequestFailed,
		local:    InvalidInput,
	},
}

// Failure is a translated outcome of one operation.
type Failure struct {
	Op         apiclient.Op
	Kind       Kind
	Condition  Condition
	StatusCode int
	Cause      error
}

func (f *Failure) Error() string {
	return f.Message()
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Message returns the user-facing message for the failure.
func (f *Failure) Message() string {
	return MessageFor(f.Op, f.Condition)
}

// Describe returns the message followed by the underlying cause, for logs and verbose output.
func (f *Failure) Describe() string {
	if f.Cause == nil {
		return f.Message()
	}
	return fmt.Sprintf("%s (%v)", f.Message(), f.Cause)
}

// MessageFor returns the message shown for a condition raised by op.
func MessageFor(op apiclient.Op, c Condition) string {
	if byOp, ok := opMessages[op]; ok {
		if msg, ok := byOp[c]; ok {
			return msg
		}
	}
	if msg, ok := messages[c]; ok {
		return msg
	}
	return string(c)
}

// Local returns a validation failure that never reached the network.
func Local(op apiclient.Op, c Condition) *Failure {
	return &Failure{Op: op, Kind: KindLocal, Condition: c}
}

// Translate classifies err as returned by the API client for op.
// It returns nil for a nil error.
func Translate(op apiclient.Op, err error) *Failure {
	if err == nil {
		return nil
	}

	var existing *Failure
	if errors.As(err, &existing) {
		return existing
	}

	r, ok := rules[op]
	if !ok {
		r = rule{fallback: RequestFailed, local: InvalidInput}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &Failure{Op: op, Kind: KindLocal, Condition: r.local, Cause: err}
	}

	transportCondition := NetworkError
	if op == apiclient.OpStatus {
		transportCondition = StatusUnreachable
	}

	// An exceeded deadline is a transport failure whoever reported it.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Op: op, Kind: KindTransport, Condition: transportCondition, Cause: err}
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		// Not a request outcome (e.g. a request that could not be encoded).
		return &Failure{Op: op, Kind: KindServer, Condition: r.fallback, Cause: err}
	}

	if apiErr.Unsent {
		return &Failure{Op: op, Kind: KindLocal, Condition: r.fallback, Cause: err}
	}

	if apiErr.Transport() {
		return &Failure{Op: op, Kind: KindTransport, Condition: transportCondition, Cause: err}
	}

	if condition, ok := r.statuses[apiErr.StatusCode]; ok {
		return &Failure{Op: op, Kind: KindRejected, Condition: condition, StatusCode: apiErr.StatusCode, Cause: err}
	}

	return &Failure{Op: op, Kind: KindServer, Condition: r.fallback, StatusCode: apiErr.StatusCode, Cause: err}
}

// Is reports whether err is a Failure with the given condition.
func Is(err error, c Condition) bool {
	var f *Failure
	return errors.As(err, &f) && f.Condition == c
}

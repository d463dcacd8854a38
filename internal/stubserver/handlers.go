package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/job-assistant/internal/types"
)

// handleStatus returns server health status
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.StatusReport{
		Status:      "ok",
		Version:     s.version,
		Environment: s.environment,
		LLMProvider: Provider,
		Checks:      types.StatusChecks{Database: "ok"},
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	user, err := s.store.CreateUser(req)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, err)
		return
	}
	user, err := s.store.GetUser(id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	analysis, err := s.store.AnalyzeResume(req)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.logger.Debug("created resume analysis", zap.Int64("id", analysis.ID))
	s.jsonResponse(w, http.StatusCreated, analysis)
}

func (s *Server) handleGenerateAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	answer, err := s.store.GenerateAnswer(req)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.logger.Debug("created interview answer", zap.Int64("id", answer.ID))
	s.jsonResponse(w, http.StatusCreated, answer)
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		s.storeError(w, err)
		return
	}

	answers, err := s.store.ListAnswers(id, opts)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, answers)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, err)
		return
	}
	caller, err := s.currentUser(r)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if err := s.store.DeleteAnalysis(id, caller); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, err)
		return
	}
	caller, err := s.currentUser(r)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if err := s.store.DeleteAnswer(id, caller); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Metrics(user))
}

func (s *Server) handleUserMetrics(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if user == nil {
		s.storeError(w, &ErrUnauthenticated{Message: "Authentication required to fetch user metrics."})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.UserMetrics(*user))
}

// listOptions reads limit and offset, defaulting to the first page.
func listOptions(r *http.Request) (types.ListOptions, error) {
	opts := types.DefaultListOptions()
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, &ErrValidation{Field: "limit", Message: "Invalid limit."}
		}
		opts.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, &ErrValidation{Field: "offset", Message: "Invalid offset."}
		}
		opts.Offset = n
	}
	if err := opts.Validate(); err != nil {
		return opts, &ErrValidation{Field: "limit", Message: validationDetail(err)}
	}
	return opts, nil
}

// validationDetail renders validator errors as a short message.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return "Invalid value for " + fe.Field() + " (" + fe.Tag() + ")."
}

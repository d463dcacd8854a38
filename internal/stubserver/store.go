package stubserver

import (
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonathan/job-assistant/internal/types"
)

// Minimum lengths enforced on submitted text.
const (
	MinResumeLength   = 20
	MinQuestionLength = 5
)

// Provider is the label attached to everything the stub produces.
const Provider = "stub"

// Store keeps users, analyses and answers in memory.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	nextID   int64
	users    map[int64]*types.User
	analyses map[int64]*types.ResumeAnalysis
	answers  map[int64]*types.InterviewAnswer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[int64]*types.User),
		analyses: make(map[int64]*types.ResumeAnalysis),
		answers:  make(map[int64]*types.InterviewAnswer),
	}
}

// ids are shared across tables so an answer id never collides with an analysis id
func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// CreateUser registers a user. Emails are unique, case-insensitively.
func (s *Store) CreateUser(req types.CreateUserRequest) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, &ErrEmailAlreadyExists{Email: req.Email}
		}
	}
	user := &types.User{
		ID:        s.allocID(),
		Email:     req.Email,
		FullName:  req.FullName,
		CreatedAt: s.timestamp(),
	}
	s.users[user.ID] = user
	cp := *user
	return &cp, nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(id int64) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, &ErrNotFound{Entity: "User", ID: id}
	}
	cp := *user
	return &cp, nil
}

// AnalyzeResume stores a new analysis of the given text.
func (s *Store) AnalyzeResume(req types.AnalyzeResumeRequest) (*types.ResumeAnalysis, error) {
	if utf8.RuneCountInString(strings.TrimSpace(req.ResumeText)) < MinResumeLength {
		return nil, &ErrValidation{
			Field:   "resume_text",
			Message: "Resume text must be at least 20 characters long.",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUserLocked(req.UserID); err != nil {
		return nil, err
	}
	analysis := &types.ResumeAnalysis{
		ID:         s.allocID(),
		UserID:     cloneID(req.UserID),
		ResumeText: req.ResumeText,
		Summary:    Summarize(req.ResumeText),
		CreatedAt:  s.timestamp(),
		Provider:   Provider,
	}
	s.analyses[analysis.ID] = analysis
	cp := *analysis
	return &cp, nil
}

// GenerateAnswer stores a placeholder answer to the question.
func (s *Store) GenerateAnswer(req types.GenerateAnswerRequest) (*types.InterviewAnswer, error) {
	if utf8.RuneCountInString(strings.TrimSpace(req.Question)) < MinQuestionLength {
		return nil, &ErrValidation{
			Field:   "question",
			Message: "Question must be at least 5 characters long.",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUserLocked(req.UserID); err != nil {
		return nil, err
	}
	if req.ResumeAnalysisID != nil {
		if _, ok := s.analyses[*req.ResumeAnalysisID]; !ok {
			return nil, &ErrNotFound{Entity: "Resume analysis", ID: *req.ResumeAnalysisID}
		}
	}

	answer := &types.InterviewAnswer{
		ID:               s.allocID(),
		UserID:           cloneID(req.UserID),
		ResumeAnalysisID: cloneID(req.ResumeAnalysisID),
		Question:         req.Question,
		JobTitle:         cloneString(req.JobTitle),
		CompanyName:      cloneString(req.CompanyName),
		Answer:           PlaceholderAnswer(req.Question, deref(req.JobTitle), deref(req.CompanyName)),
		CreatedAt:        s.timestamp(),
		Provider:         Provider,
	}
	s.answers[answer.ID] = answer
	return cloneAnswer(answer), nil
}

// ListAnswers returns one page of the answers for an analysis, newest first.
func (s *Store) ListAnswers(analysisID int64, opts types.ListOptions) ([]types.AnswerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[analysisID]; !ok {
		return nil, &ErrNotFound{Entity: "Resume analysis", ID: analysisID}
	}

	var matched []*types.InterviewAnswer
	for _, a := range s.answers {
		if a.ResumeAnalysisID != nil && *a.ResumeAnalysisID == analysisID {
			matched = append(matched, a)
		}
	}
	// ids grow with creation time
	slices.SortFunc(matched, func(a, b *types.InterviewAnswer) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})

	out := []types.AnswerSummary{}
	for i := opts.Offset; i < len(matched) && len(out) < opts.Limit; i++ {
		out = append(out, matched[i].Summary())
	}
	return out, nil
}

// DeleteAnalysis removes an analysis. Its answers are kept but detached.
func (s *Store) DeleteAnalysis(id int64, caller *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	analysis, ok := s.analyses[id]
	if !ok {
		return &ErrNotFound{Entity: "Resume analysis", ID: id}
	}
	if err := checkOwner(analysis.UserID, caller, "resume analysis", id); err != nil {
		return err
	}

	delete(s.analyses, id)
	for _, a := range s.answers {
		if a.ResumeAnalysisID != nil && *a.ResumeAnalysisID == id {
			a.ResumeAnalysisID = nil
		}
	}
	return nil
}

// DeleteAnswer removes an answer.
func (s *Store) DeleteAnswer(id int64, caller *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	answer, ok := s.answers[id]
	if !ok {
		return &ErrNotFound{Entity: "Answer", ID: id}
	}
	if err := checkOwner(answer.UserID, caller, "answer", id); err != nil {
		return err
	}
	delete(s.answers, id)
	return nil
}

// Metrics returns global counts and, when user is set, that user's counts.
func (s *Store) Metrics(user *int64) types.MetricsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := types.MetricsSummary{
		TotalUsers:          len(s.users),
		TotalResumeAnalyses: len(s.analyses),
		TotalAnswers:        len(s.answers),
	}
	if user != nil {
		analyses, answers := s.countForLocked(*user)
		summary.UserResumeAnalyses = &analyses
		summary.UserAnswers = &answers
	}
	return summary
}

// UserMetrics returns the counts for one user.
func (s *Store) UserMetrics(user int64) types.UserMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyses, answers := s.countForLocked(user)
	return types.UserMetrics{UserID: user, ResumeAnalyses: analyses, Answers: answers}
}

// ResolveUser checks an X-User-Id value. A nil id resolves to nil.
func (s *Store) ResolveUser(id *int64) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[*id]; !ok {
		return nil, &ErrUnauthenticated{Message: "Invalid user header."}
	}
	return cloneID(id), nil
}

func (s *Store) checkUserLocked(id *int64) error {
	if id == nil {
		return nil
	}
	if _, ok := s.users[*id]; !ok {
		return &ErrNotFound{Entity: "User", ID: *id}
	}
	return nil
}

func (s *Store) countForLocked(user int64) (analyses, answers int) {
	for _, a := range s.analyses {
		if a.UserID != nil && *a.UserID == user {
			analyses++
		}
	}
	for _, a := range s.answers {
		if a.UserID != nil && *a.UserID == user {
			answers++
		}
	}
	return analyses, answers
}

// checkOwner allows anyone to delete unowned records. Owned records need the owner's header.
func checkOwner(owner, caller *int64, entity string, id int64) error {
	if owner == nil {
		return nil
	}
	if caller == nil {
		return &ErrUnauthenticated{Message: "Authentication required."}
	}
	if *owner != *caller {
		return &ErrForbidden{Entity: entity, ID: id}
	}
	return nil
}

func cloneAnswer(a *types.InterviewAnswer) *types.InterviewAnswer {
	cp := *a
	cp.UserID = cloneID(a.UserID)
	cp.ResumeAnalysisID = cloneID(a.ResumeAnalysisID)
	cp.JobTitle = cloneString(a.JobTitle)
	cp.CompanyName = cloneString(a.CompanyName)
	return &cp
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

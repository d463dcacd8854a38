// Package assistant keeps the client-side state of the job assistant in step with the backend.
//
// A Session owns two workflows that share one identity, the active resume analysis:
// resume analysis and interview answer generation. Successful mutations of either
// workflow trigger a background refresh of the answers cached for the active analysis.
// State is only changed after the backend confirms a mutation.
package assistant

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

// ErrBusy is returned when an action is started while the same action is still in flight.
var ErrBusy = errors.New("request already in progress")

// DefaultRequestTimeout bounds every backend request issued by a session.
const DefaultRequestTimeout = 30 * time.Second

// Backend is the remote analysis and generation service.
// *apiclient.Client implements it.
type Backend interface {
	Status(ctx context.Context) (*types.StatusReport, error)
	AnalyzeResume(ctx context.Context, req *types.AnalyzeResumeRequest) (*types.ResumeAnalysis, error)
	GenerateAnswer(ctx context.Context, req *types.GenerateAnswerRequest) (*types.InterviewAnswer, error)
	ListAnswers(ctx context.Context, analysisID int64, opts types.ListOptions) ([]types.AnswerSummary, error)
	DeleteAnalysis(ctx context.Context, analysisID int64) error
	DeleteAnswer(ctx context.Context, answerID int64) error
}

// Slot names an action that allows one request in flight at a time.
type Slot string

// Busy slots.
const (
	SlotAnalyze        Slot = "analyze"
	SlotGenerate       Slot = "generate"
	SlotDeleteAnalysis Slot = "delete_analysis"
	SlotDeleteAnswer   Slot = "delete_answer"
)

// Options configures a Session.
type Options struct {
	// PageSize is the number of answers fetched per refresh.
	PageSize int
	// RequestTimeout bounds each request. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
	// UserID is sent as user_id on analyze and generate requests.
	UserID *int64
	Logger *zap.Logger
}

// GenerateInput is the answer workflow form.
type GenerateInput struct {
	Question    string
	JobTitle    string
	CompanyName string
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	Status StatusState
	Resume ResumeState
	Answer AnswerState
	Active *int64
	Cache  AnswerCache
	Busy   map[Slot]bool
}

// Session coordinates the workflows against one backend.
type Session struct {
	backend  Backend
	logger   *zap.Logger
	pageSize int
	timeout  time.Duration
	userID   *int64

	startOnce sync.Once

	mu     sync.Mutex
	tasks  *errgroup.Group   // accepts new background tasks
	sealed []*errgroup.Group // closed to new tasks, awaited by Wait
	busy   map[Slot]bool
	active *int64
	status StatusState
	resume ResumeState
	answer AnswerState
	cache  AnswerCache
}

// NewSession creates a session. Nothing is fetched until Start or an action is called.
func NewSession(backend Backend, opts Options) *Session {
	s := &Session{
		backend:  backend,
		logger:   logging.OrNop(opts.Logger).Named("assistant"),
		pageSize: opts.PageSize,
		timeout:  opts.RequestTimeout,
		userID:   cloneID(opts.UserID),
		busy:     make(map[Slot]bool),
		status:   StatusState{Phase: PhasePending},
	}
	if s.pageSize <= 0 || s.pageSize > types.MaxPageSize {
		s.pageSize = types.DefaultPageSize
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	return s
}

// Start dispatches the one-shot status check. Later calls do nothing.
// The check never gates other actions; use Wait to observe its result.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx := context.WithoutCancel(ctx)
		s.goTask(func() { s.checkStatus(ctx) })
	})
}

func (s *Session) checkStatus(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.backend.Status(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		f := translate.Translate(apiclient.OpStatus, err)
		s.status.fail(f)
		s.logger.Info("status check failed", zap.String("condition", string(f.Condition)), zap.Error(err))
		return
	}
	s.status.succeed(report)
}

// Wait blocks until every background task dispatched before the call has settled.
// It is safe to call while actions are running.
func (s *Session) Wait() {
	s.mu.Lock()
	if s.tasks != nil {
		s.sealed = append(s.sealed, s.tasks)
		s.tasks = nil
	}
	groups := append([]*errgroup.Group(nil), s.sealed...)
	s.mu.Unlock()

	for _, g := range groups {
		_ = g.Wait()
	}

	s.mu.Lock()
	s.sealed = slices.DeleteFunc(s.sealed, func(g *errgroup.Group) bool {
		return slices.Contains(groups, g)
	})
	s.mu.Unlock()
}

// goTask runs fn in the background. Tasks are only added to the open group, under
// the lock, so a group is never added to once Wait has sealed it.
func (s *Session) goTask(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks == nil {
		s.tasks = new(errgroup.Group)
	}
	s.tasks.Go(func() error {
		fn()
		return nil
	})
}

// Analyze submits resume text. On success the returned analysis becomes the active one
// and its answers are refreshed in the background.
func (s *Session) Analyze(ctx context.Context, text string) (*types.ResumeAnalysis, error) {
	if !s.acquire(SlotAnalyze) {
		return nil, ErrBusy
	}
	defer s.release(SlotAnalyze)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		f := translate.Local(apiclient.OpAnalyzeResume, translate.TextRequired)
		s.mu.Lock()
		s.resume.Text = text
		s.resume.fail(f)
		s.mu.Unlock()
		return nil, f
	}

	s.mu.Lock()
	s.resume.begin(text)
	s.setActiveLocked(nil)
	s.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	analysis, err := s.backend.AnalyzeResume(reqCtx, &types.AnalyzeResumeRequest{
		UserID:     cloneID(s.userID),
		ResumeText: trimmed,
	})
	if err != nil {
		f := translate.Translate(apiclient.OpAnalyzeResume, err)
		s.mu.Lock()
		s.resume.fail(f)
		s.mu.Unlock()
		s.logger.Info("resume analysis failed", zap.String("condition", string(f.Condition)), zap.Error(err))
		return nil, f
	}

	s.mu.Lock()
	s.resume.succeed(analysis)
	var scope *int64
	if analysis.ID > 0 {
		scope = &analysis.ID
		s.setActiveLocked(scope)
	}
	s.mu.Unlock()

	s.logger.Debug("resume analyzed", zap.Int64("analysis_id", analysis.ID), zap.String("provider", analysis.Provider))
	if scope != nil {
		s.dispatchRefresh(ctx, *scope)
	}
	return analysis, nil
}

// Generate submits an interview question scoped to the active analysis, if any.
// The analysis returned by the backend becomes the active one.
func (s *Session) Generate(ctx context.Context, in GenerateInput) (*types.InterviewAnswer, error) {
	if !s.acquire(SlotGenerate) {
		return nil, ErrBusy
	}
	defer s.release(SlotGenerate)

	question := strings.TrimSpace(in.Question)
	if question == "" {
		f := translate.Local(apiclient.OpGenerateAnswer, translate.QuestionRequired)
		s.mu.Lock()
		s.answer.Question = in.Question
		s.answer.fail(f)
		s.mu.Unlock()
		return nil, f
	}

	s.mu.Lock()
	s.answer.begin(in)
	scope := cloneID(s.active)
	s.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.backend.GenerateAnswer(reqCtx, &types.GenerateAnswerRequest{
		UserID:           cloneID(s.userID),
		ResumeAnalysisID: scope,
		Question:         question,
		JobTitle:         types.OptionalString(in.JobTitle),
		CompanyName:      types.OptionalString(in.CompanyName),
	})
	if err != nil {
		f := translate.Translate(apiclient.OpGenerateAnswer, err)
		s.mu.Lock()
		s.answer.fail(f)
		s.mu.Unlock()
		s.logger.Info("answer generation failed", zap.String("condition", string(f.Condition)), zap.Error(err))
		return nil, f
	}

	s.mu.Lock()
	s.answer.succeed(answer)
	if answer.ResumeAnalysisID != nil && *answer.ResumeAnalysisID > 0 {
		s.setActiveLocked(answer.ResumeAnalysisID)
	}
	refresh := cloneID(s.active)
	s.mu.Unlock()

	s.logger.Debug("answer generated", zap.Int64("answer_id", answer.ID), zap.String("provider", answer.Provider))
	if refresh != nil {
		s.dispatchRefresh(ctx, *refresh)
	}
	return answer, nil
}

// Clear resets the resume workflow, the active analysis and the cache. No request is made.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume.reset()
	s.active = nil
	s.cache.reset(nil)
}

// DeleteAnalysis deletes the active analysis. State is only cleared once the backend confirms.
func (s *Session) DeleteAnalysis(ctx context.Context) error {
	if !s.acquire(SlotDeleteAnalysis) {
		return ErrBusy
	}
	defer s.release(SlotDeleteAnalysis)

	s.mu.Lock()
	target := cloneID(s.active)
	s.mu.Unlock()

	if target == nil {
		f := translate.Local(apiclient.OpDeleteAnalysis, translate.NoActiveAnalysis)
		s.mu.Lock()
		s.resume.fail(f)
		s.mu.Unlock()
		return f
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.DeleteAnalysis(reqCtx, *target); err != nil {
		f := translate.Translate(apiclient.OpDeleteAnalysis, err)
		s.mu.Lock()
		s.resume.fail(f)
		s.mu.Unlock()
		s.logger.Info("delete analysis failed", zap.Int64("analysis_id", *target), zap.String("condition", string(f.Condition)), zap.Error(err))
		return f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume.detach()
	// A generate that settled meanwhile may have moved focus elsewhere.
	if sameID(s.active, target) {
		s.setActiveLocked(nil)
	}
	s.logger.Debug("analysis deleted", zap.Int64("analysis_id", *target))
	return nil
}

// DeleteAnswer deletes one answer and removes it from the cache without refetching.
func (s *Session) DeleteAnswer(ctx context.Context, answerID int64) error {
	if !s.acquire(SlotDeleteAnswer) {
		return ErrBusy
	}
	defer s.release(SlotDeleteAnswer)

	if answerID <= 0 {
		f := translate.Local(apiclient.OpDeleteAnswer, translate.InvalidInput)
		s.mu.Lock()
		s.answer.fail(f)
		s.mu.Unlock()
		return f
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.DeleteAnswer(reqCtx, answerID); err != nil {
		f := translate.Translate(apiclient.OpDeleteAnswer, err)
		s.mu.Lock()
		s.answer.fail(f)
		s.mu.Unlock()
		s.logger.Info("delete answer failed", zap.Int64("answer_id", answerID), zap.String("condition", string(f.Condition)), zap.Error(err))
		return f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer.Err = nil
	if !s.cache.remove(answerID) {
		s.logger.Debug("deleted answer was not cached", zap.Int64("answer_id", answerID))
	}
	return nil
}

// SelectHistorical shows a cached answer as the current answer. No request is made.
func (s *Session) SelectHistorical(item types.AnswerSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer.recall(item)
}

// SelectAnswer recalls the cached answer with the given id.
// It reports false when the answer is not in the cache.
func (s *Session) SelectAnswer(answerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cache.find(answerID)
	if ok {
		s.answer.recall(item)
	}
	return ok
}

// Focus makes analysisID the active analysis and refreshes its answers before returning.
func (s *Session) Focus(ctx context.Context, analysisID int64) []types.AnswerSummary {
	s.Adopt(analysisID)
	return s.Refresh(ctx, analysisID)
}

// Adopt makes analysisID the active analysis without fetching anything.
func (s *Session) Adopt(analysisID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setActiveLocked(types.OptionalID(analysisID))
}

// Active returns the active analysis id, or nil.
func (s *Session) Active() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneID(s.active)
}

// Answers returns a copy of the cached answers.
func (s *Session) Answers() []types.AnswerSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.AnswerSummary(nil), s.cache.Items...)
}

// Busy reports whether the slot has a request in flight.
func (s *Session) Busy(slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[slot]
}

// Snapshot returns a copy of the full session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	busy := make(map[Slot]bool, len(s.busy))
	for slot, v := range s.busy {
		if v {
			busy[slot] = true
		}
	}
	status := s.status
	if s.status.Report != nil {
		report := *s.status.Report
		status.Report = &report
	}
	return Snapshot{
		Status: status,
		Resume: s.resume,
		Answer: s.answer,
		Active: cloneID(s.active),
		Cache:  s.cache.clone(),
		Busy:   busy,
	}
}

func (s *Session) acquire(slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[slot] {
		return false
	}
	s.busy[slot] = true
	return true
}

func (s *Session) release(slot Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, slot)
}

// setActiveLocked changes the active analysis. The cache belongs to the old
// reference and is discarded whenever the reference changes.
func (s *Session) setActiveLocked(id *int64) {
	if sameID(s.active, id) {
		return
	}
	s.active = cloneID(id)
	s.cache.reset(s.active)
}

package assistant

import (
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

// Phase is the state of the one-shot status check.
type Phase string

// Status phases.
const (
	PhasePending     Phase = "pending"
	PhaseOK          Phase = "ok"
	PhaseUnreachable Phase = "unreachable"
	PhaseUnavailable Phase = "unavailable"
)

// StatusState holds the result of the status check.
type StatusState struct {
	Phase  Phase
	Report *types.StatusReport
	Err    *translate.Failure
}

func (s *StatusState) succeed(report *types.StatusReport) {
	s.Phase = PhaseOK
	s.Report = report
	s.Err = nil
}

func (s *StatusState) fail(f *translate.Failure) {
	s.Phase = PhaseUnavailable
	if f.Condition == translate.StatusUnreachable {
		s.Phase = PhaseUnreachable
	}
	s.Report = nil
	s.Err = f
}

// ResumeState is the resume analysis workflow.
type ResumeState struct {
	Text     string
	Summary  string
	Provider string
	Err      *translate.Failure
}

// begin records the submitted text and drops the previous result.
func (r *ResumeState) begin(text string) {
	r.Text = text
	r.Summary = ""
	r.Provider = ""
	r.Err = nil
}

func (r *ResumeState) succeed(analysis *types.ResumeAnalysis) {
	r.Summary = analysis.Summary
	r.Provider = analysis.Provider
	r.Err = nil
}

func (r *ResumeState) fail(f *translate.Failure) {
	r.Err = f
}

// detach drops the result of a deleted analysis. The text input is kept.
func (r *ResumeState) detach() {
	r.Summary = ""
	r.Provider = ""
	r.Err = nil
}

func (r *ResumeState) reset() {
	*r = ResumeState{}
}

// AnswerState is the answer generation workflow.
type AnswerState struct {
	Question    string
	JobTitle    string
	CompanyName string
	Answer      string
	Provider    string
	CreatedAt   string
	Err         *translate.Failure
}

// begin records the submitted fields and drops the previous answer.
func (a *AnswerState) begin(in GenerateInput) {
	a.Question = in.Question
	a.JobTitle = in.JobTitle
	a.CompanyName = in.CompanyName
	a.Answer = ""
	a.Provider = ""
	a.CreatedAt = ""
	a.Err = nil
}

func (a *AnswerState) succeed(answer *types.InterviewAnswer) {
	a.Answer = answer.Answer
	a.Provider = answer.Provider
	a.CreatedAt = answer.CreatedAt
	a.Err = nil
}

func (a *AnswerState) fail(f *translate.Failure) {
	a.Err = f
}

// recall shows a cached answer as the current one and puts its question back
// in the editable field.
func (a *AnswerState) recall(item types.AnswerSummary) {
	a.Question = item.Question
	a.Answer = item.Answer
	a.Provider = item.Provider
	a.CreatedAt = item.CreatedAt
	a.Err = nil
}

// AnswerCache holds the most recent page of answers for one analysis.
// Scope is the analysis the items belong to.
type AnswerCache struct {
	Scope *int64
	Items []types.AnswerSummary
}

// reset discards all items and rescopes the cache.
func (c *AnswerCache) reset(scope *int64) {
	c.Scope = cloneID(scope)
	c.Items = nil
}

func (c *AnswerCache) replace(scope int64, items []types.AnswerSummary) {
	c.Scope = &scope
	c.Items = append([]types.AnswerSummary(nil), items...)
}

// remove drops the item with the given id, keeping the order of the rest.
func (c *AnswerCache) remove(id int64) bool {
	for i, item := range c.Items {
		if item.ID == id {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *AnswerCache) find(id int64) (types.AnswerSummary, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return types.AnswerSummary{}, false
}

func (c AnswerCache) clone() AnswerCache {
	return AnswerCache{
		Scope: cloneID(c.Scope),
		Items: append([]types.AnswerSummary(nil), c.Items...),
	}
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

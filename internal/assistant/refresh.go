package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

// Refresh fetches the newest page of answers for analysisID and returns the cache.
//
// Failures are logged and leave the cache as it was. A response that arrives after
// the active analysis moved away from analysisID is discarded.
func (s *Session) Refresh(ctx context.Context, analysisID int64) []types.AnswerSummary {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := types.ListOptions{Limit: s.pageSize, Offset: 0}
	items, err := s.backend.ListAnswers(ctx, analysisID, opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		f := translate.Translate(apiclient.OpListAnswers, err)
		s.logger.Warn("answer list refresh failed",
			zap.Int64("analysis_id", analysisID),
			zap.String("condition", string(f.Condition)),
			zap.Error(err))
		return append([]types.AnswerSummary(nil), s.cache.Items...)
	}

	if s.active == nil || *s.active != analysisID {
		s.logger.Debug("discarding stale answer list",
			zap.Int64("analysis_id", analysisID),
			zap.Int("items", len(items)))
		return append([]types.AnswerSummary(nil), s.cache.Items...)
	}

	s.cache.replace(analysisID, items)
	return append([]types.AnswerSummary(nil), s.cache.Items...)
}

// dispatchRefresh refreshes in the background. The refresh outlives the caller's
// cancellation but still carries its own deadline.
func (s *Session) dispatchRefresh(ctx context.Context, analysisID int64) {
	ctx = context.WithoutCancel(ctx)
	s.goTask(func() { s.Refresh(ctx, analysisID) })
}

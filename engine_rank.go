package authrank

import (
	"context"
)

// UpdateScore writes a subject's new score to the authoritative record store
// and then to the derived ordered index. Every writer that changes the
// authoritative score must go through this path; the index is never updated
// independently. The two writes are not transactionally coupled — a crash
// between them leaves the index stale until the next update.
func (e *Engine) UpdateScore(ctx context.Context, subjectID string, score int64) error {
	if e == nil || e.subjects == nil {
		return ErrEngineNotReady
	}

	if err := e.subjects.UpdateSubjectScore(ctx, subjectID, score); err != nil {
		return err
	}

	if err := e.store.ZAdd(ctx, e.config.Store.RankIndex, float64(score), subjectID); err != nil {
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditRankIndexWriteFailed,
			SubjectID: subjectID,
			Error:     err.Error(),
		})
		return err
	}

	return nil
}

// Rank returns the subject's 1-based descending-score rank. The ordered
// index answers when reachable; on store unavailability the authoritative
// record store answers instead as 1 + count(score strictly greater than
// mine). The two paths may disagree on ties: the index breaks them by
// member order, the fallback gives equal scores equal rank. That divergence
// is deliberate and documented, not unified.
func (e *Engine) Rank(ctx context.Context, subjectID string) (int64, error) {
	if e == nil || e.store == nil {
		return 0, ErrEngineNotReady
	}

	rank, found, err := e.store.ZRevRank(ctx, e.config.Store.RankIndex, subjectID)
	if err != nil {
		e.metricInc(MetricRankFallback)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditRankFallback,
			SubjectID: subjectID,
			Error:     err.Error(),
		})
		return e.rankFromRecordStore(ctx, subjectID)
	}
	if !found {
		return 0, ErrNotRanked
	}

	e.metricInc(MetricRankIndexHit)
	return rank, nil
}

func (e *Engine) rankFromRecordStore(ctx context.Context, subjectID string) (int64, error) {
	subject, err := e.Subject(ctx, subjectID)
	if err != nil {
		return 0, err
	}

	greater, err := e.subjects.CountSubjectsWithScoreGreaterThan(ctx, subject.Score)
	if err != nil {
		return 0, err
	}

	return greater + 1, nil
}

// RankRange returns subject IDs in descending score order for the zero-based
// inclusive offset window [start, stop]. Range queries are index-only: there
// is no authoritative fallback, so [ErrStoreUnavailable] surfaces when the
// index is unreachable.
func (e *Engine) RankRange(ctx context.Context, start, stop int64) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	return e.store.ZRevRange(ctx, e.config.Store.RankIndex, start, stop)
}

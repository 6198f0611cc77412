package authrank

import "context"

// Subject resolves a subject record through the cache-aside layer: a cached
// entry is served without touching the record store, a miss populates the
// cache for Config.Cache.SubjectTTL, and a store outage degrades to a direct
// record-store read. The auth gate uses this to resolve the verified
// subject; hosts can call it for any read-mostly lookup.
func (e *Engine) Subject(ctx context.Context, subjectID string) (Subject, error) {
	if e == nil || e.getSubject == nil {
		return Subject{}, ErrEngineNotReady
	}
	return e.getSubject(ctx, subjectID)
}

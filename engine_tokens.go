package authrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moinlabs/authrank/jwt"
)

func (e *Engine) refreshKey(subjectID string) string {
	return e.config.Store.RefreshPrefix + subjectID
}

func (e *Engine) blacklistKey(token string) string {
	return e.config.Store.BlacklistPrefix + token
}

// IssuePair mints a fresh access/refresh credential pair for subjectID and
// persists the refresh credential as the subject's sole refresh record. Any
// prior refresh credential for the subject no longer matches the stored
// record after this call and is therefore unusable, even though it is not
// cryptographically revoked — rotation relies on exactly that property.
func (e *Engine) IssuePair(ctx context.Context, subjectID string) (TokenPair, error) {
	if e == nil || e.jwtManager == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	accessToken, err := e.jwtManager.CreateAccess(subjectID)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := e.jwtManager.CreateRefresh(subjectID)
	if err != nil {
		return TokenPair{}, err
	}

	// Overwrite, not append: at most one refresh credential is valid per
	// subject at any time.
	if err := e.store.Set(ctx, e.refreshKey(subjectID), refreshToken, e.jwtManager.RefreshTTL()); err != nil {
		return TokenPair{}, err
	}

	e.metricInc(MetricPairIssued)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditTokenPairIssued,
		SubjectID: subjectID,
		Success:   true,
	})

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess statelessly validates signature and expiry of an access
// credential. An expired-but-authentic token yields a decoded result with
// Expired set rather than an error, so callers can distinguish "expired"
// from "garbage". Wrong-kind tokens fail with [ErrInvalidTokenType], all
// other defects with [ErrTokenInvalid].
func (e *Engine) VerifyAccess(ctx context.Context, token string) (*DecodedToken, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}
	_ = ctx

	start := time.Now()
	decoded, err := e.jwtManager.ParseAccess(token)
	e.metricObserve(MetricVerifyLatency, time.Since(start))

	if err != nil {
		e.metricInc(MetricVerifyFailure)
		return nil, translateTokenError(err)
	}

	return decoded, nil
}

// VerifyRefresh validates a refresh credential cryptographically and then
// checks it against the subject's stored refresh record. A superseded token
// fails with [ErrTokenInvalid] even though its signature is still valid. An
// expired-but-authentic token skips the record check and yields a decoded
// result with Expired set.
func (e *Engine) VerifyRefresh(ctx context.Context, token string) (*DecodedToken, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	decoded, err := e.jwtManager.ParseRefresh(token)
	if err != nil {
		return nil, translateTokenError(err)
	}
	if decoded.Expired {
		return decoded, nil
	}

	var stored string
	found, err := e.store.Get(ctx, e.refreshKey(decoded.SubjectID), &stored)
	if err != nil {
		return nil, err
	}
	if !found || stored != token {
		return nil, fmt.Errorf("%w: refresh record mismatch", ErrTokenInvalid)
	}

	return decoded, nil
}

// Refresh rotates a credential pair: a verified, unexpired refresh
// credential is exchanged for a brand-new pair, which supersedes the
// presented one via the overwrite in IssuePair. Two concurrent calls for
// the same subject both succeed; the later write wins and the earlier
// caller's new refresh credential is immediately unusable. That race is
// accepted, not guarded.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	decoded, err := e.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditTokenRefreshRejected,
			Error:     err.Error(),
		})
		return TokenPair{}, err
	}
	if decoded.Expired {
		e.metricInc(MetricRefreshFailure)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditTokenRefreshRejected,
			SubjectID: decoded.SubjectID,
			Error:     ErrTokenExpired.Error(),
		})
		return TokenPair{}, ErrTokenExpired
	}

	pair, err := e.IssuePair(ctx, decoded.SubjectID)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return TokenPair{}, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditTokenRefreshed,
		SubjectID: decoded.SubjectID,
		Success:   true,
	})

	return pair, nil
}

// RevokeAll signs the subject out: the refresh record is deleted and the
// presented access token is blacklisted for its remaining lifetime. Other
// access tokens issued to the same subject before expiry are NOT
// individually blacklisted — only the one presented here. Narrow-revocation
// policy: access tokens are not tracked individually, so the rest simply
// age out.
func (e *Engine) RevokeAll(ctx context.Context, subjectID, presentedAccessToken string) error {
	if e == nil || e.jwtManager == nil {
		return ErrEngineNotReady
	}

	if err := e.store.Delete(ctx, e.refreshKey(subjectID)); err != nil {
		return err
	}

	if ttl := e.blacklistTTL(presentedAccessToken); ttl > 0 {
		if err := e.store.Set(ctx, e.blacklistKey(presentedAccessToken), true, ttl); err != nil {
			return err
		}
	}

	e.metricInc(MetricRevoked)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditTokenRevoked,
		SubjectID: subjectID,
		Success:   true,
	})

	return nil
}

// IsBlacklisted reports whether the presented token was revoked before its
// natural expiry. Store failures are returned to the caller: the auth gate
// treats them as a hard request failure, since failing open here would
// silently defeat revocation.
func (e *Engine) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	revoked, err := e.store.Exists(ctx, e.blacklistKey(token))
	if err != nil {
		return false, err
	}
	if revoked {
		e.metricInc(MetricBlacklistHit)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditGateDenied,
			Error:     "token has been revoked",
		})
	}

	return revoked, nil
}

// blacklistTTL bounds a blacklist entry to the presented credential's
// remaining lifetime. An undecodable token gets the full configured access
// lifetime; an already-expired token needs no entry at all.
func (e *Engine) blacklistTTL(presentedAccessToken string) time.Duration {
	decoded, err := e.jwtManager.ParseAccess(presentedAccessToken)
	if err != nil || decoded.ExpiresAt.IsZero() {
		return e.jwtManager.AccessTTL()
	}
	if decoded.Expired {
		return 0
	}

	remaining := time.Until(decoded.ExpiresAt)
	if remaining <= 0 {
		return 0
	}
	if limit := e.jwtManager.AccessTTL(); remaining > limit {
		remaining = limit
	}
	return remaining
}

func translateTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrWrongKind):
		return fmt.Errorf("%w: %v", ErrInvalidTokenType, err)
	case errors.Is(err, jwt.ErrInvalidToken):
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	default:
		return err
	}
}

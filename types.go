package authrank

import (
	"context"

	"github.com/moinlabs/authrank/jwt"
)

// TokenPair is the atomic unit of credential issuance: both tokens are
// minted together on authentication and on every rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenKind discriminates access and refresh credentials.
type TokenKind = jwt.Kind

const (
	// KindAccess is re-exported from the jwt subpackage for callers that
	// never import it directly.
	KindAccess = jwt.KindAccess
	// KindRefresh is re-exported from the jwt subpackage for callers that
	// never import it directly.
	KindRefresh = jwt.KindRefresh
)

// DecodedToken is the result of verifying a credential. Expired is true when
// only the exp claim rejected the token; see the jwt subpackage for the full
// contract.
type DecodedToken = jwt.Decoded

// Subject is the minimal record the engine needs from the authoritative
// record store: identity plus the rank-determining score. The record store's
// score column is the source of truth; the ordered index is derived from it.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Score int64  `json:"score"`
}

// SubjectProvider is the interface callers implement to connect authrank to
// their authoritative record store. It is assumed strongly consistent and
// transactional per call.
type SubjectProvider interface {
	// GetSubjectByID returns the subject or ErrSubjectNotFound.
	GetSubjectByID(ctx context.Context, id string) (Subject, error)
	// CountSubjectsWithScoreGreaterThan returns the number of subjects whose
	// score is strictly greater than score.
	CountSubjectsWithScoreGreaterThan(ctx context.Context, score int64) (int64, error)
	// UpdateSubjectScore persists a new authoritative score for the subject.
	UpdateSubjectScore(ctx context.Context, id string, score int64) error
}

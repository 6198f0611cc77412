package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the two credential kinds carried in the "typ" claim.
type Kind string

const (
	// KindAccess marks short-lived credentials presented on every request.
	KindAccess Kind = "access"
	// KindRefresh marks long-lived credentials exchanged for new pairs.
	KindRefresh Kind = "refresh"
)

var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures, and
	// any structural defect other than expiry.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongKind is returned when a structurally valid token carries the
	// wrong kind discriminator for the requested operation.
	ErrWrongKind = errors.New("invalid token type")
)

// Config defines a public type used by authrank APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Manager signs and parses credential pairs. It is stateless and safe for
// concurrent use after construction.
type Manager struct {
	config Config
}

// Claims is the signed payload of every authrank credential.
type Claims struct {
	Kind Kind `json:"typ"`
	jwt.RegisteredClaims
}

// Decoded is the result of parsing a credential. Expired is true when the
// signature and structure were acceptable but the token is past its exp;
// all other fields remain populated in that case.
type Decoded struct {
	SubjectID string
	Kind      Kind
	Expired   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("both access and refresh secrets are required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.RefreshTTL < cfg.AccessTTL {
		return nil, errors.New("refresh TTL must not be shorter than access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// CreateAccess signs a fresh access credential for subjectID.
func (m *Manager) CreateAccess(subjectID string) (string, error) {
	return m.create(subjectID, KindAccess, m.config.AccessSecret, m.config.AccessTTL)
}

// CreateRefresh signs a fresh refresh credential for subjectID.
func (m *Manager) CreateRefresh(subjectID string) (string, error) {
	return m.create(subjectID, KindRefresh, m.config.RefreshSecret, m.config.RefreshTTL)
}

// ParseAccess verifies tokenStr against the access secret. See [Decoded] for
// the expired-token contract.
func (m *Manager) ParseAccess(tokenStr string) (*Decoded, error) {
	return m.parse(tokenStr, KindAccess, m.config.AccessSecret)
}

// ParseRefresh verifies tokenStr against the refresh secret. See [Decoded]
// for the expired-token contract.
func (m *Manager) ParseRefresh(tokenStr string) (*Decoded, error) {
	return m.parse(tokenStr, KindRefresh, m.config.RefreshSecret)
}

// AccessTTL reports the configured access credential lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.config.AccessTTL
}

// RefreshTTL reports the configured refresh credential lifetime.
func (m *Manager) RefreshTTL() time.Duration {
	return m.config.RefreshTTL
}

func (m *Manager) create(subjectID string, kind Kind, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *Manager) parse(tokenStr string, kind Kind, secret []byte) (*Decoded, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return m.decodeExpired(tokenStr, kind)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}

	return decodedFromClaims(claims, false), nil
}

// decodeExpired re-decodes an expired token without signature verification.
// The signature was already checked by the failed strict parse; only the exp
// claim rejected it, so the payload is trustworthy.
func (m *Manager) decodeExpired(tokenStr string, kind Kind) (*Decoded, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}

	return decodedFromClaims(claims, true), nil
}

func decodedFromClaims(claims *Claims, expired bool) *Decoded {
	decoded := &Decoded{
		SubjectID: claims.Subject,
		Kind:      claims.Kind,
		Expired:   expired,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}
	return decoded
}

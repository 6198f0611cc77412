package authrank

import (
	"errors"

	"github.com/moinlabs/authrank/store"
)

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures, wrong-kind
	// tokens presented to the refresh path, and refresh tokens superseded by
	// rotation. Never retried; surfaced to callers as unauthorized.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired marks a credential with a valid signature past its
	// expiry, surfaced distinctly so refresh flows can react.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidTokenType marks a structurally valid credential whose kind
	// discriminator does not match the requested operation.
	ErrInvalidTokenType = errors.New("invalid token type")
	// ErrSubjectNotFound is returned when the record store has no subject
	// for the given ID.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrNotRanked is returned when a subject is absent from the rank index.
	ErrNotRanked = errors.New("subject not ranked")
	// ErrEngineNotReady is returned by Engine methods called on a nil or
	// unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// ErrStoreUnavailable reports a network or timeout failure against the
// key-value store. It aliases the store package sentinel so errors.Is works
// across package boundaries. Read paths never surface it to end callers;
// the blacklist check does, deliberately.
var ErrStoreUnavailable = store.ErrUnavailable

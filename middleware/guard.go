package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	authrank "github.com/moinlabs/authrank"
)

type subjectContextKey struct{}
type publicRouteContextKey struct{}

// SubjectFromContext returns the subject resolved by the gate for the
// current request.
func SubjectFromContext(ctx context.Context) (authrank.Subject, bool) {
	subject, ok := ctx.Value(subjectContextKey{}).(authrank.Subject)
	return subject, ok
}

// Public marks the wrapped handler as exempt from the gate. Both the
// blacklist check and credential verification are skipped. Public must wrap
// outside [Gate] so the marker is in the context before the gate reads it.
func Public(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), publicRouteContextKey{}, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Gate returns middleware enforcing the two-stage admission check:
// blacklist rejection, then credential verification with subject
// resolution. On success the resolved subject is attached to the request
// context for downstream handlers.
func Gate(engine *authrank.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			if engine == nil {
				unauthorized(w, "unauthorized")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "Token not found")
				return
			}

			// Stage 1: blacklist. Fail-closed on store unavailability —
			// admitting the request here would silently defeat revocation.
			revoked, err := engine.IsBlacklisted(r.Context(), token)
			if err != nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			if revoked {
				unauthorized(w, "Token has been revoked")
				return
			}

			// Stage 2: stateless verification, then subject resolution.
			decoded, err := engine.VerifyAccess(r.Context(), token)
			if err != nil || decoded.Expired {
				unauthorized(w, "unauthorized")
				return
			}

			subject, err := engine.Subject(r.Context(), decoded.SubjectID)
			if err != nil {
				if errors.Is(err, authrank.ErrSubjectNotFound) {
					unauthorized(w, "unauthorized")
					return
				}
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublic(ctx context.Context) bool {
	public, _ := ctx.Value(publicRouteContextKey{}).(bool)
	return public
}

func unauthorized(w http.ResponseWriter, message string) {
	http.Error(w, message, http.StatusUnauthorized)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

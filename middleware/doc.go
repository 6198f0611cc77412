// Package middleware exposes the HTTP auth gate built on top of
// authrank.Engine: two ordered admission checks ahead of any business logic.
//
// # Gate order
//
//  1. Blacklist rejection — the bearer token is checked against the
//     revocation blacklist. This runs first so a structurally valid but
//     revoked token is rejected without a redundant subject lookup.
//  2. Credential verification — stateless signature/expiry check, then
//     subject resolution through the engine's cached lookup.
//
// Routes wrapped with [Public] skip both checks.
//
// # Failure policy
//
// The blacklist check is fail-closed: if the store cannot be reached the
// request fails with 503 rather than admitting a possibly revoked token.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from the Engine.
package middleware

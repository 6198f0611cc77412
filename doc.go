// Package authrank provides the session/token lifecycle layer for services
// that keep hot auth and leaderboard state in a shared Redis instance:
// issuance and rotation of paired JWT credentials, revocation with a
// time-bounded blacklist, a generic cache-aside decorator for read
// operations, and a sorted-index rank service with an authoritative fallback.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authrank is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (TokenPair, Subject, MetricsSnapshot, AuditEvent). The
// store client, JWT manager, cache decorator, and HTTP gate live in leaf
// subpackages that never import authrank back.
//
// HTTP routing, request validation, persistence-entity mapping, and log
// shipping stay with the host application. The record store is consumed only
// through [SubjectProvider].
//
// # Failure policy
//
// Store failures are fail-open on read paths (cache degrades to direct
// invocation, rank degrades to the authoritative count) and fail-closed on
// the blacklist check, where fail-open would silently defeat revocation.
package authrank

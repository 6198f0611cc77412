// Package store wraps a shared Redis instance behind the narrow key-value and
// ordered-set surface the authrank engine needs: get / set-with-TTL / delete /
// exists, ZADD, 1-based reverse rank, and reverse range.
//
// # Conventions
//
// Values are JSON-serialized on write and deserialized on read. A missing key
// is "absent", never an error. Every network or protocol failure is wrapped in
// [ErrUnavailable] so callers can select their fallback policy with
// [errors.Is].
//
// # Architecture boundaries
//
// This package owns Redis command invocation and value (de)serialization.
// Fallback policy — fail-open for cache and rank reads, fail-closed for the
// blacklist check — is decided by callers, never here.
//
// # What this package must NOT do
//
//   - Interpret key layouts or TTL policy (the engine owns both).
//   - Import authrank or any sibling package.
//   - Retry failed commands.
package store

// Package cache applies the cache-aside pattern to arbitrary read operations
// as an explicit, construction-time decorator: compose a plain function with
// [Wrap] (or [Wrap2]) and the returned function checks the store before
// executing, then populates the store after executing.
//
// # Contract
//
// The cache key is a pure function of the operation's key prefix and its
// designated argument: prefix + (the argument when it is a string, otherwise
// the empty string). A cache hit returns the stored value without invoking
// the wrapped operation. Concurrent misses are NOT de-duplicated; both
// callers execute the operation and the last store write wins.
//
// # Failure policy
//
// Caching is best-effort and fail-open on both sides. A store read failure
// degrades to direct invocation and skips the write-back; a store write
// failure still returns the computed result. Store failures are reported
// through [Hooks.OnStoreError] and never surface to the caller.
//
// # What this package must NOT do
//
//   - Fail or block a business result because of the store.
//   - Invalidate or update entries in place (entries only expire or get
//     overwritten wholesale).
//   - Import authrank or any sibling package other than store.
package cache

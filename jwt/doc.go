// Package jwt manages issuance and verification of paired access/refresh
// credentials using kind-specific signing secrets and strict validation
// semantics suitable for low-latency authentication paths.
//
// Parsing a token whose only defect is expiry returns a decoded-but-expired
// [Decoded] instead of an error, so callers can distinguish "expired" from
// "garbage". The stored-refresh-record consistency check is out of scope
// here; it belongs to the engine, which owns store access.
package jwt

package internaldefs

import (
	authrank "github.com/moinlabs/authrank"
)

// CounterDef defines a public type used by authrank APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authrank.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authrank APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authrank.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the token engine.
var CounterDefs = []CounterDef{
	{ID: authrank.MetricPairIssued, Name: "authrank_pair_issued_total", Help: "Issued access/refresh credential pairs."},
	{ID: authrank.MetricRefreshSuccess, Name: "authrank_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: authrank.MetricRefreshFailure, Name: "authrank_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: authrank.MetricRevoked, Name: "authrank_revoked_total", Help: "Revoke-all operations."},
	{ID: authrank.MetricBlacklistHit, Name: "authrank_blacklist_hit_total", Help: "Requests rejected by the revocation blacklist."},
	{ID: authrank.MetricVerifyFailure, Name: "authrank_verify_failure_total", Help: "Failed access token verifications."},
	{ID: authrank.MetricCacheHit, Name: "authrank_cache_hit_total", Help: "Cache-aside lookups served from the cache."},
	{ID: authrank.MetricCacheMiss, Name: "authrank_cache_miss_total", Help: "Cache-aside lookups that fell through to the source."},
	{ID: authrank.MetricCacheBypass, Name: "authrank_cache_bypass_total", Help: "Cache-aside lookups that bypassed an unavailable cache."},
	{ID: authrank.MetricRankIndexHit, Name: "authrank_rank_index_hit_total", Help: "Rank queries answered by the ordered index."},
	{ID: authrank.MetricRankFallback, Name: "authrank_rank_fallback_total", Help: "Rank queries answered by the record-store fallback."},
}

// HistogramDefs is an exported constant or variable used by the token engine.
var HistogramDefs = []HistogramDef{
	{ID: authrank.MetricVerifyLatency, Name: "authrank_verify_latency_seconds", Help: "Access verification latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the token engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the token engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a raw bucket slice into the fixed 8-bucket shape.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// Package prometheus provides Prometheus collectors for authrank metrics.
//
// [NewPrometheusExporter] accepts an [authrank.Engine] and exposes an [http.Handler]
// that renders all authrank counters and histograms in Prometheus text exposition format.
// Counter names are prefixed authrank_*_total; the single histogram is
// authrank_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus

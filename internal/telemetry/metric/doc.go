// Package metric provides Prometheus metrics for kvwire clients.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, client.Observer and HTTP handler
//   - collector.go: connection health collector
//
// Metrics include:
//
//   - Commands by name and outcome (ok, server_error, error)
//   - Round-trip latency histograms
//   - Bytes written and read
//   - Build information
//
// Metrics are exposed at /metrics in Prometheus format.
package metric

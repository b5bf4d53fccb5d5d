// Package source supplies instrument records and detail series.
//
// Source is the fixed data interface the dashboard consumes. Three
// implementations are provided:
//   - Generator: deterministic mock data, so the dashboard runs without a feed
//   - Delayed: wraps any Source with a fixed simulated latency
//   - Remote: the REST feed client from package api
package source

// Package metrics holds the in-process counters reported by /health.
//
// Counters are plain atomics; every method tolerates a nil *Metrics so
// components can run without instrumentation.
package metrics

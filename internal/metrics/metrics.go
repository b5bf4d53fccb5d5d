package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics aggregates dashboard counters.
type Metrics struct {
	start time.Time

	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	fetches      atomic.Int64
	fetchErrors  atomic.Int64
	staleDropped atomic.Int64
	lastFetchMs  atomic.Int64

	detailLookups atomic.Int64
	detailNoData  atomic.Int64

	streamClients atomic.Int64
	streamSent    atomic.Int64

	archivedRows   atomic.Int64
	archiveErrors  atomic.Int64
	archiveDropped atomic.Int64
	published      atomic.Int64
	publishErrors  atomic.Int64
}

// New creates a Metrics whose uptime counts from start.
func New(start time.Time) *Metrics {
	return &Metrics{start: start}
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheHits.Add(1)
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheMisses.Add(1)
	}
}

// Fetched records a completed source call.
func (m *Metrics) Fetched(latency time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetches.Add(1)
	m.lastFetchMs.Store(latency.Milliseconds())
	if err != nil {
		m.fetchErrors.Add(1)
	}
}

// StaleDropped counts a fetch discarded because its tag was deselected.
func (m *Metrics) StaleDropped() {
	if m != nil {
		m.staleDropped.Add(1)
	}
}

// DetailLookup records one detail request and whether it produced data.
func (m *Metrics) DetailLookup(found bool) {
	if m == nil {
		return
	}
	m.detailLookups.Add(1)
	if !found {
		m.detailNoData.Add(1)
	}
}

func (m *Metrics) StreamConnected() {
	if m != nil {
		m.streamClients.Add(1)
	}
}

func (m *Metrics) StreamDisconnected() {
	if m != nil {
		m.streamClients.Add(-1)
	}
}

func (m *Metrics) StreamSent() {
	if m != nil {
		m.streamSent.Add(1)
	}
}

// Archived records rows written to the snapshot archive.
func (m *Metrics) Archived(n int64) {
	if m != nil {
		m.archivedRows.Add(n)
	}
}

func (m *Metrics) ArchiveError() {
	if m != nil {
		m.archiveErrors.Add(1)
	}
}

func (m *Metrics) ArchiveDropped(n int64) {
	if m != nil {
		m.archiveDropped.Add(n)
	}
}

// Published records one batch message handed to Kafka.
func (m *Metrics) Published(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.publishErrors.Add(1)
		return
	}
	m.published.Add(1)
}

// Snapshot returns the counters as a JSON-friendly map.
func (m *Metrics) Snapshot() map[string]any {
	if m == nil {
		return map[string]any{}
	}
	uptime := time.Since(m.start)

	return map[string]any{
		"uptime_ms": uptime.Milliseconds(),
		"uptime":    uptime.String(),

		"source": map[string]any{
			"cache_hits":         m.cacheHits.Load(),
			"cache_misses":       m.cacheMisses.Load(),
			"fetches_total":      m.fetches.Load(),
			"fetch_errors_total": m.fetchErrors.Load(),
			"stale_dropped":      m.staleDropped.Load(),
			"last_fetch_ms":      m.lastFetchMs.Load(),
		},

		"detail": map[string]any{
			"lookups_total": m.detailLookups.Load(),
			"no_data_total": m.detailNoData.Load(),
		},

		"stream": map[string]any{
			"clients":        m.streamClients.Load(),
			"messages_total": m.streamSent.Load(),
		},

		"archive": map[string]any{
			"rows_total":    m.archivedRows.Load(),
			"errors_total":  m.archiveErrors.Load(),
			"dropped_total": m.archiveDropped.Load(),
		},

		"kafka": map[string]any{
			"published_total": m.published.Load(),
			"errors_total":    m.publishErrors.Load(),
		},
	}
}

package writer

import (
	"time"
)

// WriterConfig contains configuration for the snapshot writer.
type WriterConfig struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the number of batches queued before new ones are dropped.
	BufferSize int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     500,
		FlushInterval: 2 * time.Second,
		BufferSize:    64,
	}
}

// snapshotRow is one row of the instrument_snapshots table.
type snapshotRow struct {
	BatchID            string
	RecordID           string
	Tag                string
	CategoryCode       string
	Name               string
	IconType           string
	LatestPrice        float64
	PriceChangePercent float64
	RemainingTime      string
	CurrentVol         float64
	VolChange          float64
	VolChangeSpeed     float64
	RealVol            float64
	Premium            float64
	CurrentSkew        float64
	VolPercentile      float64
	SkewPercentile     float64
	FetchedAt          time.Time
}

// WriterMetrics holds counters for the writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
	Dropped   int64 // Batches rejected because the buffer was full
}

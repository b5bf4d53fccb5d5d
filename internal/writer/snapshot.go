package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
)

const insertSnapshot = `
	INSERT INTO instrument_snapshots (
		batch_id, record_id, tag, category_code, name, icon_type,
		latest_price, price_change_percent, remaining_time,
		current_vol, vol_change, vol_change_speed, real_vol, premium,
		current_skew, vol_percentile, skew_percentile, fetched_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	ON CONFLICT (batch_id, record_id) DO NOTHING
`

// BatchSender sends a queued pgx batch. *pgxpool.Pool satisfies it.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// SnapshotWriter consumes fetched batches and writes them to the
// instrument_snapshots table.
type SnapshotWriter struct {
	cfg     WriterConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Input from the view-state controller
	input chan *model.Batch

	// Database
	db BatchSender

	// Batching
	batch       []snapshotRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stats WriterMetrics
}

// NewSnapshotWriter creates a new SnapshotWriter. A nil metrics is allowed.
func NewSnapshotWriter(
	cfg WriterConfig,
	db BatchSender,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultWriterConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	return &SnapshotWriter{
		cfg:     cfg,
		db:      db,
		metrics: m,
		logger:  logger,
		input:   make(chan *model.Batch, cfg.BufferSize),
		batch:   make([]snapshotRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming batches and writing to the database.
func (w *SnapshotWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
		"buffer_size", w.cfg.BufferSize,
	)
	return nil
}

// Stop shuts down the writer, draining queued batches into a final flush
// bounded by ctx.
func (w *SnapshotWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("snapshot writer stop timed out")
		return ctx.Err()
	}

drain:
	for {
		select {
		case b := <-w.input:
			w.appendBatch(b)
		default:
			break drain
		}
	}
	w.flush(ctx)

	w.logger.Info("snapshot writer stopped")
	return nil
}

// HandleBatch queues a batch for archiving without blocking. Nil and failed
// batches are ignored.
func (w *SnapshotWriter) HandleBatch(b *model.Batch) {
	if b == nil || b.Failed {
		return
	}
	select {
	case w.input <- b:
	default:
		w.batchMu.Lock()
		w.stats.Dropped++
		w.batchMu.Unlock()
		w.metrics.ArchiveDropped(int64(b.Len()))
		w.logger.Warn("archive buffer full, dropping batch", "batch_id", b.ID, "tag", b.Tag)
	}
}

// Stats returns current counters.
func (w *SnapshotWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.stats
}

func (w *SnapshotWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case b := <-w.input:
			if w.appendBatch(b) {
				w.flush(w.ctx)
			}
		}
	}
}

func (w *SnapshotWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// appendBatch flattens b into pending rows and reports whether the pending
// set reached BatchSize.
func (w *SnapshotWriter) appendBatch(b *model.Batch) bool {
	rows := transform(b)

	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	w.batch = append(w.batch, rows...)
	return len(w.batch) >= w.cfg.BatchSize
}

func transform(b *model.Batch) []snapshotRow {
	rows := make([]snapshotRow, 0, len(b.Records))
	for _, r := range b.Records {
		rows = append(rows, snapshotRow{
			BatchID:            b.ID,
			RecordID:           r.ID,
			Tag:                string(b.Tag),
			CategoryCode:       r.CategoryCode,
			Name:               r.Name,
			IconType:           string(r.IconType),
			LatestPrice:        r.LatestPrice,
			PriceChangePercent: r.PriceChangePercent,
			RemainingTime:      r.RemainingTime,
			CurrentVol:         r.CurrentVol,
			VolChange:          r.VolChange,
			VolChangeSpeed:     r.VolChangeSpeed,
			RealVol:            r.RealVol,
			Premium:            r.Premium,
			CurrentSkew:        r.CurrentSkew,
			VolPercentile:      r.VolPercentile,
			SkewPercentile:     r.SkewPercentile,
			FetchedAt:          b.FetchedAt.UTC(),
		})
	}
	return rows
}

// flush writes the pending rows to the database.
func (w *SnapshotWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]snapshotRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.stats.Errors++
		w.batchMu.Unlock()
		w.metrics.ArchiveError()
		return
	}

	inserted := int64(len(batch) - conflicts)
	w.batchMu.Lock()
	w.stats.Inserts += inserted
	w.stats.Conflicts += int64(conflicts)
	w.stats.Flushes++
	w.batchMu.Unlock()
	w.metrics.Archived(inserted)

	w.logger.Debug("flushed snapshots",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *SnapshotWriter) batchInsert(ctx context.Context, rows []snapshotRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSnapshot,
			r.BatchID, r.RecordID, r.Tag, r.CategoryCode, r.Name, r.IconType,
			r.LatestPrice, r.PriceChangePercent, r.RemainingTime,
			r.CurrentVol, r.VolChange, r.VolChangeSpeed, r.RealVol, r.Premium,
			r.CurrentSkew, r.VolPercentile, r.SkewPercentile, r.FetchedAt,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}

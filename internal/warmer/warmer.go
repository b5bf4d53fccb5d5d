package warmer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/voldash/internal/model"
)

// Fetcher resolves a tag to a batch, populating the cache on a miss.
type Fetcher interface {
	Records(ctx context.Context, tag model.Tag) (*model.Batch, error)
}

// Config holds warmer configuration.
type Config struct {
	Concurrency int           // Max concurrent fetches (default: 4)
	Timeout     time.Duration // Per-tag timeout, 0 means none
	Tags        []model.Tag   // Tags to warm (default: model.AllTags)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency: 4,
		Timeout:     10 * time.Second,
	}
}

// Result summarizes one warm pass.
type Result struct {
	Fetched  int64
	Failed   int64
	Duration time.Duration
}

// Warmer runs a single background warm pass.
type Warmer struct {
	cfg     Config
	fetcher Fetcher
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Warmer.
func New(cfg Config, fetcher Fetcher, logger *slog.Logger) *Warmer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = model.AllTags
	}
	return &Warmer{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Start launches the warm pass in the background.
func (w *Warmer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Warm(w.ctx)
	}()

	w.logger.Info("cache warmer started",
		"tags", len(w.cfg.Tags),
		"concurrency", w.cfg.Concurrency,
	)
	return nil
}

// Stop cancels an in-flight pass and waits for it to exit.
func (w *Warmer) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("cache warmer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Warm fetches every configured tag with bounded concurrency. Source
// failures are counted, not returned; only cancellation stops the pass.
func (w *Warmer) Warm(ctx context.Context) Result {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)

	var fetched, failed atomic.Int64

	for _, tag := range w.cfg.Tags {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ok, err := w.warmTag(gctx, tag)
			if err != nil {
				return err
			}
			if ok {
				fetched.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		w.logger.Warn("warm pass cancelled", "err", err)
	}

	res := Result{
		Fetched:  fetched.Load(),
		Failed:   failed.Load(),
		Duration: time.Since(start),
	}
	w.logger.Info("warm pass complete",
		"tags", len(w.cfg.Tags),
		"fetched", res.Fetched,
		"failed", res.Failed,
		"duration", res.Duration,
	)
	return res
}

// warmTag reports whether tag now has a usable batch. An error means the
// pass was cancelled.
func (w *Warmer) warmTag(ctx context.Context, tag model.Tag) (bool, error) {
	tctx := ctx
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	b, err := w.fetcher.Records(tctx, tag)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		w.logger.Warn("failed to warm tag", "tag", tag, "err", err)
		return false, nil
	}
	if b.Failed {
		w.logger.Warn("failed to warm tag", "tag", tag, "err", "source error")
		return false, nil
	}
	return true, nil
}

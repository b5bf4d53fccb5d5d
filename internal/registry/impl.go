package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/source"
)

// Config holds registry configuration.
type Config struct {
	// ReconcileInterval re-reads the "all" tag from the source. Zero disables
	// reconciliation.
	ReconcileInterval  time.Duration
	InitialLoadTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval:  0,
		InitialLoadTimeout: 30 * time.Second,
	}
}

// registryImpl implements the Registry interface.
type registryImpl struct {
	cfg    Config
	src    source.Source
	logger *slog.Logger
	now    func() time.Time

	state *registryState

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a registry that syncs from src.
func New(cfg Config, src source.Source, logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &registryImpl{
		cfg:    cfg,
		src:    src,
		logger: logger,
		now:    time.Now,
		state:  newState(),
	}
}

// Start runs the initial sync, then begins background reconciliation. A failed
// initial sync is returned, but the registry stays usable: it starts empty,
// learns from batches, and reconciliation keeps retrying the source.
func (r *registryImpl) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)

	syncErr := r.initialSync(ctx)

	if r.cfg.ReconcileInterval > 0 {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.reconciliationLoop(ctx)
		}()
	}

	if syncErr != nil {
		return syncErr
	}
	r.logger.Info("instrument registry started", "instruments", r.state.size())
	return nil
}

// Stop gracefully shuts down.
func (r *registryImpl) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("instrument registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Known reports whether code has been seen.
func (r *registryImpl) Known(code string) bool {
	_, ok := r.state.get(code)
	return ok
}

// Get returns the entry for code.
func (r *registryImpl) Get(code string) (Entry, bool) {
	return r.state.get(code)
}

// Codes returns every known code, sorted.
func (r *registryImpl) Codes() []string {
	return r.state.codes()
}

// HandleBatch records the instruments in a fresh batch.
func (r *registryImpl) HandleBatch(b *model.Batch) {
	if b == nil || b.Failed {
		return
	}
	at := b.FetchedAt
	if at.IsZero() {
		at = r.now()
	}
	if added := r.state.observe(b.Tag, b.Records, at); added > 0 {
		r.logger.Debug("registry learned instruments", "tag", b.Tag, "added", added)
	}
}

// SubscribeChanges returns a channel of registry changes.
func (r *registryImpl) SubscribeChanges() <-chan Change {
	return r.state.changes
}

// initialSync loads the "all" tag from the source.
func (r *registryImpl) initialSync(ctx context.Context) error {
	start := r.now()

	loadCtx := ctx
	if r.cfg.InitialLoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, r.cfg.InitialLoadTimeout)
		defer cancel()
	}

	records, err := r.src.RecordsForTag(loadCtx, model.TagAll)
	if err != nil {
		return fmt.Errorf("initial instrument sync: %w", err)
	}

	r.state.observe(model.TagAll, records, start)

	r.state.mu.Lock()
	r.state.lastSyncAt = r.now()
	r.state.mu.Unlock()

	r.logger.Info("initial instrument sync complete",
		"instruments", r.state.size(),
		"duration", time.Since(start),
	)
	return nil
}

// reconciliationLoop periodically re-reads the source.
func (r *registryImpl) reconciliationLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *registryImpl) reconcile(ctx context.Context) {
	start := r.now()

	records, err := r.src.RecordsForTag(ctx, model.TagAll)
	if err != nil {
		r.logger.Error("instrument reconciliation failed", "err", err)
		return
	}

	added := r.state.observe(model.TagAll, records, start)

	r.state.mu.Lock()
	r.state.lastSyncAt = r.now()
	r.state.mu.Unlock()

	if added > 0 {
		r.logger.Info("reconciliation found instruments", "added", added, "duration", time.Since(start))
	} else {
		r.logger.Debug("reconciliation complete", "instruments", r.state.size(), "duration", time.Since(start))
	}
}

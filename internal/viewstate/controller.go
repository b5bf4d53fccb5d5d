package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/rickgao/voldash/internal/cache"
	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/sections"
	"github.com/rickgao/voldash/internal/source"
)

// State is one snapshot of the dashboard view.
type State struct {
	Tag         model.Tag
	Loading     bool
	Batch       *model.Batch // nil until the first fetch completes
	HotSections []model.HotSection
	Version     uint64 // Increments on every change
}

// BatchSink receives every freshly fetched, non-failed batch. HandleBatch is
// called on the fetch path and must not block.
type BatchSink interface {
	HandleBatch(b *model.Batch)
}

// Config holds controller configuration.
type Config struct {
	DefaultTag       model.Tag
	SubscriberBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTag:       model.TagAll,
		SubscriberBuffer: 16,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables metric counting.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithSinks registers batch sinks.
func WithSinks(sinks ...BatchSink) Option {
	return func(c *Controller) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// Controller is the observable view-state holder.
type Controller struct {
	cfg     Config
	src     source.Source
	cache   cache.TagCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	sinks   []BatchSink

	group singleflight.Group
	memo  sections.Memo

	mu      sync.Mutex
	tag     model.Tag
	loading bool
	batch   *model.Batch
	version uint64
	subs    map[string]chan State
	stopped bool

	// Lifetime of background fetches. Source calls are bound to it rather
	// than to a caller's request.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a controller. Records may be used right away; Start selects
// the default tag.
func New(cfg Config, src source.Source, tagCache cache.TagCache, opts ...Option) *Controller {
	if cfg.DefaultTag == "" {
		cfg.DefaultTag = model.TagAll
	}
	if cfg.SubscriberBuffer < 1 {
		cfg.SubscriberBuffer = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:    cfg,
		src:    src,
		cache:  tagCache,
		logger: slog.Default(),
		subs:   make(map[string]chan State),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start selects the default tag, which triggers the first fetch.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	if err := c.SetTag(c.cfg.DefaultTag); err != nil {
		return fmt.Errorf("select default tag: %w", err)
	}

	c.logger.Info("view-state controller started", "tag", c.cfg.DefaultTag)
	return nil
}

// Stop cancels pending fetches, waits for them and closes all subscriptions.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	c.stopped = true
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()

	c.logger.Info("view-state controller stopped")
	return nil
}

// SetTag selects tag. A cached tag commits before SetTag returns; otherwise
// the state turns loading and the fetch completes in the background.
func (c *Controller) SetTag(tag model.Tag) error {
	if _, err := model.ParseTag(string(tag)); err != nil {
		return fmt.Errorf("%w: %q", source.ErrUnknownTag, tag)
	}

	if b, ok := c.cache.Get(tag); ok {
		c.metrics.CacheHit()
		c.mu.Lock()
		c.tag = tag
		c.batch = b
		c.loading = false
		c.commitLocked()
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return errors.New("controller stopped")
	}
	c.tag = tag
	c.loading = true
	c.commitLocked()
	ctx := c.ctx
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		c.load(ctx, tag)
	}()
	return nil
}

// load fetches tag and commits it if tag is still selected.
func (c *Controller) load(ctx context.Context, tag model.Tag) {
	b, err := c.Records(ctx, tag)
	if err != nil {
		// Only cancellation reaches here; shutdown is in progress.
		c.logger.Debug("fetch abandoned", "tag", tag, "err", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tag != tag {
		c.metrics.StaleDropped()
		c.logger.Debug("discarding stale batch", "tag", tag, "selected", c.tag)
		return
	}
	c.batch = b
	c.loading = false
	c.commitLocked()
}

// Records returns the batch for tag from the cache, fetching it on a miss.
// It never changes the selected tag. Concurrent misses for one tag share a
// single source call. A failing source call is logged and yields an empty,
// uncached batch with Failed set; the returned error is non-nil only for an
// invalid tag or a cancelled ctx.
func (c *Controller) Records(ctx context.Context, tag model.Tag) (*model.Batch, error) {
	if _, err := model.ParseTag(string(tag)); err != nil {
		return nil, fmt.Errorf("%w: %q", source.ErrUnknownTag, tag)
	}

	if b, ok := c.cache.Get(tag); ok {
		c.metrics.CacheHit()
		return b, nil
	}
	c.metrics.CacheMiss()

	c.mu.Lock()
	fetchCtx := c.ctx
	c.mu.Unlock()

	ch := c.group.DoChan(string(tag), func() (any, error) {
		return c.fetch(fetchCtx, tag)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("failed to load records", "tag", tag, "err", res.Err)
			return &model.Batch{
				ID:        uuid.NewString(),
				Tag:       tag,
				Records:   []model.InstrumentRecord{},
				FetchedAt: time.Now(),
				Failed:    true,
			}, nil
		}
		return res.Val.(*model.Batch), nil
	}
}

func (c *Controller) fetch(ctx context.Context, tag model.Tag) (*model.Batch, error) {
	// A flight that started just after another one finished.
	if b, ok := c.cache.Get(tag); ok {
		return b, nil
	}

	start := time.Now()
	records, err := c.src.RecordsForTag(ctx, tag)
	c.metrics.Fetched(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.InstrumentRecord{}
	}

	b := &model.Batch{
		ID:        uuid.NewString(),
		Tag:       tag,
		Records:   records,
		FetchedAt: time.Now(),
	}
	c.cache.Put(tag, b)

	c.logger.Debug("fetched records", "tag", tag, "count", len(records), "duration", time.Since(start))

	for _, s := range c.sinks {
		s.HandleBatch(b)
	}
	return b, nil
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Tag returns the selected tag.
func (c *Controller) Tag() model.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tag
}

// Subscribe returns a subscription id and a channel that receives the
// current state immediately and then every change. Slow subscribers lose
// their oldest pending snapshots.
func (c *Controller) Subscribe() (string, <-chan State) {
	id := uuid.NewString()
	ch := make(chan State, c.cfg.SubscriberBuffer)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		close(ch)
		return id, ch
	}
	c.subs[id] = ch
	ch <- c.snapshotLocked()
	return id, ch
}

// Unsubscribe closes and forgets the subscription.
func (c *Controller) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.subs[id]; ok {
		close(ch)
		delete(c.subs, id)
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Controller) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *Controller) snapshotLocked() State {
	return State{
		Tag:         c.tag,
		Loading:     c.loading,
		Batch:       c.batch,
		HotSections: c.memo.Sections(c.batch),
		Version:     c.version,
	}
}

// commitLocked bumps the version and notifies subscribers (caller must hold
// c.mu).
func (c *Controller) commitLocked() {
	c.version++
	s := c.snapshotLocked()
	for _, ch := range c.subs {
		notify(ch, s)
	}
}

// notify sends without blocking, dropping the oldest pending state when the
// channel is full.
func notify(ch chan State, s State) {
	select {
	case ch <- s:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

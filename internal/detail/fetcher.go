package detail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/rickgao/voldash/internal/cache"
	"github.com/rickgao/voldash/internal/chart"
	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/source"
)

// KnownCodes reports whether an instrument code exists.
type KnownCodes interface {
	Known(code string) bool
}

// View is the result of a lookup. Found is false for the no-data state.
type View struct {
	Found  bool          `json:"found"`
	Code   string        `json:"code"`
	Detail *model.Detail `json:"detail,omitempty"`
}

type seriesKey struct {
	code string
	kind model.ChartKind
}

// Fetcher resolves detail views with per-code and per-series caching.
type Fetcher struct {
	src     source.Source
	known   KnownCodes
	logger  *slog.Logger
	metrics *metrics.Metrics

	scalars *cache.Map[string, model.InstrumentRecord]
	series  *cache.Map[seriesKey, []model.Candle]
	group   singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics enables metric counting.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// NewFetcher creates a Fetcher. A nil known accepts every code and leaves the
// decision to the source.
func NewFetcher(src source.Source, known KnownCodes, opts ...Option) *Fetcher {
	f := &Fetcher{
		src:     src,
		known:   known,
		logger:  slog.Default(),
		scalars: cache.NewMap[string, model.InstrumentRecord](),
		series:  cache.NewMap[seriesKey, []model.Candle](),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Lookup returns the detail view for code in the given chart mode. The error
// is non-nil only for an unknown mode or a cancelled ctx; every data problem
// is reported as a no-data view.
func (f *Fetcher) Lookup(ctx context.Context, code string, kind model.ChartKind) (View, error) {
	mode, ok := chart.Lookup(kind)
	if !ok {
		return View{}, fmt.Errorf("unknown chart mode %q", kind)
	}

	noData := View{Found: false, Code: code}
	if code == "" {
		f.metrics.DetailLookup(false)
		return noData, nil
	}
	if f.known != nil && !f.known.Known(code) {
		f.logger.Debug("detail requested for unknown code", "code", code)
		f.metrics.DetailLookup(false)
		return noData, nil
	}

	rec, err := f.scalarsFor(ctx, code)
	if err == nil {
		var series []model.Candle
		series, err = f.seriesFor(ctx, code, kind)
		if err == nil {
			f.metrics.DetailLookup(true)
			return View{
				Found: true,
				Code:  code,
				Detail: &model.Detail{
					Record:  rec,
					Mode:    kind,
					Series:  series,
					Markers: mode.Markers(series),
				},
			}, nil
		}
	}

	if ctx.Err() != nil {
		return View{}, ctx.Err()
	}
	if errors.Is(err, source.ErrUnknownCode) {
		f.logger.Debug("source has no instrument", "code", code)
	} else {
		f.logger.Error("failed to load instrument detail", "code", code, "mode", kind, "err", err)
	}
	f.metrics.DetailLookup(false)
	return noData, nil
}

// scalarsFor returns the cached metrics for code, fetching with the intraday
// mode on a miss. The intraday series from that call is cached too.
func (f *Fetcher) scalarsFor(ctx context.Context, code string) (model.InstrumentRecord, error) {
	if rec, ok := f.scalars.Get(code); ok {
		return rec, nil
	}

	v, err := f.shared(ctx, "scalars/"+code, func(ctx context.Context) (any, error) {
		d, err := f.src.Detail(ctx, code, model.ChartIntraday)
		if err != nil {
			return nil, err
		}
		f.scalars.Put(code, d.Record)
		f.series.Put(seriesKey{code, model.ChartIntraday}, d.Series)
		return d.Record, nil
	})
	if err != nil {
		return model.InstrumentRecord{}, err
	}
	return v.(model.InstrumentRecord), nil
}

func (f *Fetcher) seriesFor(ctx context.Context, code string, kind model.ChartKind) ([]model.Candle, error) {
	key := seriesKey{code, kind}
	if s, ok := f.series.Get(key); ok {
		return s, nil
	}

	v, err := f.shared(ctx, "series/"+code+"/"+string(kind), func(ctx context.Context) (any, error) {
		d, err := f.src.Detail(ctx, code, kind)
		if err != nil {
			return nil, err
		}
		f.series.Put(key, d.Series)
		return d.Series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Candle), nil
}

// shared runs fn once per key across concurrent callers. The flight ignores
// caller cancellation; each caller still returns when its own ctx ends.
func (f *Fetcher) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (any, error) {
		return fn(flightCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

package source

import (
	"context"
	"time"

	"github.com/rickgao/voldash/internal/model"
)

// DefaultLatency is the simulated round-trip time of the mock feed.
const DefaultLatency = 300 * time.Millisecond

// Delayed adds a fixed latency before every call to the wrapped Source.
// The wait ends early only when ctx is cancelled.
type Delayed struct {
	next    Source
	latency time.Duration
}

// NewDelayed wraps next. A negative latency uses DefaultLatency.
func NewDelayed(next Source, latency time.Duration) *Delayed {
	if latency < 0 {
		latency = DefaultLatency
	}
	return &Delayed{next: next, latency: latency}
}

func (d *Delayed) wait(ctx context.Context) error {
	if d.latency == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RecordsForTag waits the configured latency, then delegates.
func (d *Delayed) RecordsForTag(ctx context.Context, tag model.Tag) ([]model.InstrumentRecord, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.next.RecordsForTag(ctx, tag)
}

// Detail waits the configured latency, then delegates.
func (d *Delayed) Detail(ctx context.Context, code string, kind model.ChartKind) (model.Detail, error) {
	if err := d.wait(ctx); err != nil {
		return model.Detail{}, err
	}
	return d.next.Detail(ctx, code, kind)
}

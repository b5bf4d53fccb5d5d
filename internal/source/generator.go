package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rickgao/voldash/internal/chart"
	"github.com/rickgao/voldash/internal/model"
)

const (
	trendPoints   = 50
	trendInterval = 60 // seconds

	detailBase     = 4657.0
	detailFloor    = 4500.0
	detailCeiling  = 4800.0
	detailMaturity = "30d"
)

// Generator produces deterministic mock data. For a given seed, each tag
// always yields the same metrics; timestamps follow the clock.
type Generator struct {
	seed uint64
	now  func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithSeed sets the seed mixed into every tag's random stream.
func WithSeed(seed uint64) GeneratorOption {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithClock sets the time source for series timestamps.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a mock data generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RecordsForTag returns one record per universe instrument matching tag.
func (g *Generator) RecordsForTag(ctx context.Context, tag model.Tag) ([]model.InstrumentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := model.ParseTag(string(tag)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}

	rng := rand.New(rand.NewPCG(g.seed, tagHash(tag)))
	now := g.now().Unix()

	records := []model.InstrumentRecord{}
	for _, in := range universe {
		if !in.Matches(tag) {
			continue
		}
		records = append(records, g.record(rng, now, fmt.Sprintf("%s-%d", tag, len(records)), in))
	}
	return records, nil
}

func (g *Generator) record(rng *rand.Rand, now int64, id string, in Instrument) model.InstrumentRecord {
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	change := round(between(-5, 5), 2)
	return model.InstrumentRecord{
		ID:                 id,
		CategoryCode:       in.Code,
		Name:               in.Name,
		IconType:           in.Icon,
		LatestPrice:        round(between(100, 150), 2),
		PriceChangePercent: change,
		RemainingTime:      fmt.Sprintf("%dd", rng.IntN(30)+1),
		CurrentVol:         round(between(10, 40), 2),
		VolChange:          round(between(-2.5, 2.5), 2),
		VolChangeSpeed:     round(between(-1, 1), 2),
		RealVol:            round(between(8, 33), 2),
		Premium:            round(between(-10, 10), 2),
		CurrentSkew:        round(between(-0.25, 0.25), 3),
		VolPercentile:      round(between(0, 100), 1),
		SkewPercentile:     round(between(0, 100), 1),
		ChartData:          trend(rng, now),
	}
}

// trend is a one-minute random walk ending at now, floored at 50.
func trend(rng *rand.Rand, now int64) []model.SeriesPoint {
	points := make([]model.SeriesPoint, trendPoints)
	value := 100 + rng.Float64()*50
	for i := range points {
		value = math.Max(50, value+(rng.Float64()-0.5)*2)
		points[i] = model.SeriesPoint{
			Time:  now - int64(trendPoints-i)*trendInterval,
			Value: round(value, 2),
		}
	}
	return points
}

// Detail returns the instrument's metrics and a series shaped by kind's chart
// mode. The walk is seeded by the code, so repeated calls agree on values.
func (g *Generator) Detail(ctx context.Context, code string, kind model.ChartKind) (model.Detail, error) {
	if err := ctx.Err(); err != nil {
		return model.Detail{}, err
	}

	in, ok := lookupInstrument(code)
	if !ok {
		return model.Detail{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	mode, ok := chart.Lookup(kind)
	if !ok {
		return model.Detail{}, fmt.Errorf("unknown chart mode %q", kind)
	}

	w := newWalk(code)
	series := w.series(mode, g.now().Unix())
	last := detailBase
	if len(series) > 0 {
		last = series[len(series)-1].Close
	}

	rec := model.InstrumentRecord{
		ID:                 "market-" + code,
		CategoryCode:       code,
		Name:               in.Name,
		IconType:           in.Icon,
		LatestPrice:        round(last, 2),
		PriceChangePercent: round((last-detailBase)/detailBase*100, 2),
		RemainingTime:      detailMaturity,
		CurrentVol:         round(w.at(15, 18, 0), 2),
		VolChange:          round(w.at(-2, 2, 1), 2),
		VolChangeSpeed:     round(w.at(-1, 1, 2), 2),
		RealVol:            round(w.at(14, 17, 3), 2),
		Premium:            round(w.at(-2, 2, 4), 2),
		CurrentSkew:        round(w.at(-0.3, 0.3, 5), 3),
		VolPercentile:      round(w.at(20, 80, 6), 1),
		SkewPercentile:     round(w.at(20, 80, 7), 1),
		ChartData:          []model.SeriesPoint{},
	}

	return model.Detail{Record: rec, Mode: kind, Series: series}, nil
}

// walk is a deterministic pseudo-random sequence keyed by an instrument code.
type walk struct {
	seed float64
}

func newWalk(code string) walk {
	var sum int
	for _, r := range code {
		sum += int(r)
	}
	return walk{seed: float64(sum)}
}

// at maps index i to a value in [lo, hi).
func (w walk) at(lo, hi float64, i int) float64 {
	x := math.Sin((w.seed+float64(i))*0.01) * 10000
	return lo + (x-math.Floor(x))*(hi-lo)
}

// series builds mode.Points() candles spaced mode.Interval() apart, ending at
// now. Closes are clamped to [detailFloor, detailCeiling].
func (w walk) series(mode chart.Mode, now int64) []model.Candle {
	points := mode.Points()
	step := int64(mode.Interval() / time.Second)
	out := make([]model.Candle, 0, points)

	price := detailBase + w.at(-20, 20, 0)
	drift := 0.0
	vol := 0.5

	for i := 0; i < points; i++ {
		drift = drift*0.9 + (w.at(-0.3, 0.3, i)+drift*0.1)*0.1
		vol = vol*0.95 + math.Abs(w.at(-0.2, 0.2, i))*0.05

		open := price
		last := math.Max(detailFloor, math.Min(detailCeiling, open+drift+w.at(-vol*2, vol*2, i)))

		c := model.Candle{
			Time:               now - int64(points-i)*step,
			Close:              round(last, 2),
			PriceChangePercent: round((last-detailBase)/detailBase*100, 2),
		}
		if mode.OHLC() {
			span := math.Abs(last-open) + vol*3
			c.Open = round(open, 2)
			c.High = round(math.Max(open, last)+w.at(0, span*0.5, i), 2)
			c.Low = round(math.Min(open, last)-w.at(0, span*0.5, i), 2)
			c.Volume = int64(w.at(10000, 100000, i))
			c.OpenInterest = int64(w.at(35000, 45000, i))
			c.ImpliedVol = round(w.at(14, 18, i), 2)
		} else {
			c.Open = c.Close
			c.High = round(last+w.at(0, vol*2, i), 2)
			c.Low = round(last-w.at(0, vol*2, i), 2)
			c.Volume = int64(w.at(50000, 150000, i))
			c.OpenInterest = int64(w.at(38000, 42000, i))
			c.ImpliedVol = round(w.at(15, 17, i), 2)
		}

		out = append(out, c)
		price = last
	}
	return out
}

func tagHash(tag model.Tag) uint64 {
	h := fnv.New64a()
	h.Write([]byte(tag))
	return h.Sum64()
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// Package chart describes the detail chart modes.
//
// Each mode is a variant carrying its own series shape and marker rules, so
// callers never branch on the mode name.
package chart

import (
	"time"

	"github.com/rickgao/voldash/internal/model"
)

// Mode is one detail chart variant.
type Mode interface {
	// Kind returns the wire name of the mode.
	Kind() model.ChartKind

	// Points is the number of series points the mode displays.
	Points() int

	// Interval is the spacing between consecutive points.
	Interval() time.Duration

	// OHLC reports whether points are full candles rather than a close line.
	OHLC() bool

	// Markers computes the annotations drawn over the series.
	Markers(series []model.Candle) []model.Marker
}

type intraday struct{}

func (intraday) Kind() model.ChartKind                 { return model.ChartIntraday }
func (intraday) Points() int                           { return 240 }
func (intraday) Interval() time.Duration               { return time.Minute }
func (intraday) OHLC() bool                            { return false }
func (intraday) Markers([]model.Candle) []model.Marker { return nil }

type fiveDay struct{}

func (fiveDay) Kind() model.ChartKind   { return model.ChartFiveDay }
func (fiveDay) Points() int             { return 120 }
func (fiveDay) Interval() time.Duration { return time.Hour }
func (fiveDay) OHLC() bool              { return false }

// Markers returns the highest and lowest close. Ties resolve to the earliest
// index.
func (fiveDay) Markers(series []model.Candle) []model.Marker {
	if len(series) == 0 {
		return nil
	}

	maxIdx, minIdx := 0, 0
	for i, c := range series {
		if c.Close > series[maxIdx].Close {
			maxIdx = i
		}
		if c.Close < series[minIdx].Close {
			minIdx = i
		}
	}

	return []model.Marker{
		{Kind: model.MarkerMax, Time: series[maxIdx].Time, Value: series[maxIdx].Close, Index: maxIdx},
		{Kind: model.MarkerMin, Time: series[minIdx].Time, Value: series[minIdx].Close, Index: minIdx},
	}
}

type daily struct{}

func (daily) Kind() model.ChartKind                 { return model.ChartDaily }
func (daily) Points() int                           { return 100 }
func (daily) Interval() time.Duration               { return 24 * time.Hour }
func (daily) OHLC() bool                            { return true }
func (daily) Markers([]model.Candle) []model.Marker { return nil }

var modes = map[model.ChartKind]Mode{
	model.ChartIntraday: intraday{},
	model.ChartFiveDay:  fiveDay{},
	model.ChartDaily:    daily{},
}

// Lookup returns the mode for kind.
func Lookup(kind model.ChartKind) (Mode, bool) {
	m, ok := modes[kind]
	return m, ok
}

// MustLookup returns the mode for kind and panics on an unknown kind.
func MustLookup(kind model.ChartKind) Mode {
	m, ok := modes[kind]
	if !ok {
		panic("chart: unknown mode " + string(kind))
	}
	return m
}

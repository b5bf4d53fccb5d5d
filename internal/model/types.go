package model

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Filter tags
// -----------------------------------------------------------------------------

// Tag selects which instrument subset the dashboard displays.
type Tag string

const (
	TagAll Tag = "all"

	// Category tags (match IconType).
	TagIndex   Tag = "index"
	TagMetals  Tag = "metals"
	TagEnergy  Tag = "energy"
	TagAgri    Tag = "agri"
	TagOils    Tag = "oils"
	TagFerrous Tag = "ferrous"

	// Exchange tags.
	TagCFFEX Tag = "cffex"
	TagSSE   Tag = "sse"
	TagSZSE  Tag = "szse"
	TagSHFE  Tag = "shfe"
	TagDCE   Tag = "dce"
	TagCZCE  Tag = "czce"
	TagINE   Tag = "ine"
	TagGFEX  Tag = "gfex"
)

// AllTags lists every tag in display order.
var AllTags = []Tag{
	TagAll,
	TagIndex, TagMetals, TagEnergy, TagAgri, TagOils, TagFerrous,
	TagCFFEX, TagSSE, TagSZSE, TagSHFE, TagDCE, TagCZCE, TagINE, TagGFEX,
}

var tagLabels = map[Tag]string{
	TagAll:     "All",
	TagIndex:   "Equity Index",
	TagMetals:  "Metals",
	TagEnergy:  "Energy & Chemicals",
	TagAgri:    "Agriculture",
	TagOils:    "Oils & Fats",
	TagFerrous: "Ferrous",
	TagCFFEX:   "CFFEX",
	TagSSE:     "SSE",
	TagSZSE:    "SZSE",
	TagSHFE:    "SHFE",
	TagDCE:     "DCE",
	TagCZCE:    "CZCE",
	TagINE:     "INE",
	TagGFEX:    "GFEX",
}

// ParseTag validates a tag string.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if _, ok := tagLabels[t]; !ok {
		return "", fmt.Errorf("unknown tag %q", s)
	}
	return t, nil
}

// Label returns the display label for the tag.
func (t Tag) Label() string {
	if l, ok := tagLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsCategory reports whether the tag filters by instrument category.
func (t Tag) IsCategory() bool {
	switch t {
	case TagIndex, TagMetals, TagEnergy, TagAgri, TagOils, TagFerrous:
		return true
	}
	return false
}

// IsExchange reports whether the tag filters by listing exchange.
func (t Tag) IsExchange() bool {
	switch t {
	case TagCFFEX, TagSSE, TagSZSE, TagSHFE, TagDCE, TagCZCE, TagINE, TagGFEX:
		return true
	}
	return false
}

// IconType is an instrument's display category. Empty means absent.
type IconType string

const (
	IconNone    IconType = ""
	IconIndex   IconType = "index"
	IconMetals  IconType = "metals"
	IconEnergy  IconType = "energy"
	IconAgri    IconType = "agri"
	IconOils    IconType = "oils"
	IconFerrous IconType = "ferrous"
)

// -----------------------------------------------------------------------------
// Records
// -----------------------------------------------------------------------------

// SeriesPoint is one point of an inline trend preview.
type SeriesPoint struct {
	Time  int64   `json:"time"` // Unix seconds
	Value float64 `json:"value"`
}

// InstrumentRecord is one row of market data.
type InstrumentRecord struct {
	ID           string   `json:"id"`           // Unique within one batch
	CategoryCode string   `json:"categoryCode"` // Detail route key (e.g. "CU", "510050")
	Name         string   `json:"name"`
	IconType     IconType `json:"iconType,omitempty"`

	LatestPrice        float64 `json:"latestPrice"`
	PriceChangePercent float64 `json:"priceChangePercent"`
	RemainingTime      string  `json:"remainingTime"` // Display string, e.g. "12d"
	CurrentVol         float64 `json:"currentVol"`
	VolChange          float64 `json:"volChange"`
	VolChangeSpeed     float64 `json:"volChangeSpeed"`
	RealVol            float64 `json:"realVol"`
	Premium            float64 `json:"premium"`
	CurrentSkew        float64 `json:"currentSkew"`
	VolPercentile      float64 `json:"volPercentile"`  // 0-100
	SkewPercentile     float64 `json:"skewPercentile"` // 0-100

	ChartData []SeriesPoint `json:"chartData"` // Ascending by time, may be empty
}

// Batch is the record list returned for one tag. It is created once and
// replaced wholesale; callers must not mutate Records.
type Batch struct {
	ID        string
	Tag       Tag
	Records   []InstrumentRecord
	FetchedAt time.Time
	Failed    bool // Source call failed; Records is empty
}

// Len returns the number of records, tolerating a nil batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// ClampPercentile bounds a percentile to [0, 100].
func ClampPercentile(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// -----------------------------------------------------------------------------
// Hot sections
// -----------------------------------------------------------------------------

// HotSectionType identifies one of the four leaderboards.
type HotSectionType string

const (
	HotVolUp       HotSectionType = "volUp"
	HotVolDown     HotSectionType = "volDown"
	HotPremiumHigh HotSectionType = "premiumHigh"
	HotPremiumLow  HotSectionType = "premiumLow"
)

// HotSection is a derived, read-only top-N leaderboard.
type HotSection struct {
	Type  HotSectionType     `json:"type"`
	Title string             `json:"title"`
	Data  []InstrumentRecord `json:"data"`
}

// -----------------------------------------------------------------------------
// Detail series
// -----------------------------------------------------------------------------

// ChartKind selects the detail chart mode.
type ChartKind string

const (
	ChartIntraday ChartKind = "intraday"
	ChartFiveDay  ChartKind = "5d"
	ChartDaily    ChartKind = "daily"
)

// ChartKinds lists the chart modes in display order.
var ChartKinds = []ChartKind{ChartIntraday, ChartFiveDay, ChartDaily}

// ParseChartKind validates a chart mode string. Empty selects intraday.
func ParseChartKind(s string) (ChartKind, error) {
	if s == "" {
		return ChartIntraday, nil
	}
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart mode %q", s)
}

// Candle is one detail series point. Line modes set Open equal to Close.
type Candle struct {
	Time               int64   `json:"time"` // Unix seconds
	Open               float64 `json:"open"`
	High               float64 `json:"high"`
	Low                float64 `json:"low"`
	Close              float64 `json:"close"`
	Volume             int64   `json:"volume"`
	OpenInterest       int64   `json:"openInterest"`
	ImpliedVol         float64 `json:"impliedVol"`
	PriceChangePercent float64 `json:"priceChangePercent"`
}

// MarkerKind labels a chart annotation.
type MarkerKind string

const (
	MarkerMax MarkerKind = "max"
	MarkerMin MarkerKind = "min"
)

// Marker annotates one series point.
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Time  int64      `json:"time"`
	Value float64    `json:"value"`
	Index int        `json:"index"`
}

// Detail is one instrument's scalar metrics plus a mode-specific series.
type Detail struct {
	Record  InstrumentRecord `json:"record"`
	Mode    ChartKind        `json:"mode"`
	Series  []Candle         `json:"series"`
	Markers []Marker         `json:"markers,omitempty"`
}

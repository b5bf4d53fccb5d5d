package table

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/model"
)

// DefaultLocale is used for string collation when none is configured.
const DefaultLocale = "zh"

var stringFields = map[string]func(model.InstrumentRecord) string{
	"id":            func(r model.InstrumentRecord) string { return r.ID },
	"categoryCode":  func(r model.InstrumentRecord) string { return r.CategoryCode },
	"name":          func(r model.InstrumentRecord) string { return r.Name },
	"iconType":      func(r model.InstrumentRecord) string { return string(r.IconType) },
	"remainingTime": func(r model.InstrumentRecord) string { return r.RemainingTime },
}

var numericFields = map[string]func(model.InstrumentRecord) float64{
	"latestPrice":        func(r model.InstrumentRecord) float64 { return r.LatestPrice },
	"priceChangePercent": func(r model.InstrumentRecord) float64 { return r.PriceChangePercent },
	"currentVol":         func(r model.InstrumentRecord) float64 { return r.CurrentVol },
	"volChange":          func(r model.InstrumentRecord) float64 { return r.VolChange },
	"volChangeSpeed":     func(r model.InstrumentRecord) float64 { return r.VolChangeSpeed },
	"realVol":            func(r model.InstrumentRecord) float64 { return r.RealVol },
	"premium":            func(r model.InstrumentRecord) float64 { return r.Premium },
	"currentSkew":        func(r model.InstrumentRecord) float64 { return r.CurrentSkew },
	"volPercentile":      func(r model.InstrumentRecord) float64 { return r.VolPercentile },
	"skewPercentile":     func(r model.InstrumentRecord) float64 { return r.SkewPercentile },
}

// Sortable reports whether field has an ordering. Other fields, chartData
// included, compare equal.
func Sortable(field string) bool {
	_, s := stringFields[field]
	_, n := numericFields[field]
	return s || n
}

// Column reports whether field names a record column. Non-sortable columns
// may still be selected; they leave the order unchanged.
func Column(field string) bool {
	return Sortable(field) || field == "chartData"
}

// ParseLocale resolves a BCP 47 locale, falling back to DefaultLocale.
func ParseLocale(s string) language.Tag {
	if s == "" {
		s = DefaultLocale
	}
	t, err := language.Parse(s)
	if err != nil {
		return language.Make(DefaultLocale)
	}
	return t
}

// comparator returns an ascending comparison for field.
func comparator(field string, locale language.Tag) func(a, b model.InstrumentRecord) int {
	if get, ok := stringFields[field]; ok {
		// A Collator keeps scratch buffers and must not be shared.
		c := collate.New(locale)
		return func(a, b model.InstrumentRecord) int {
			return c.CompareString(get(a), get(b))
		}
	}
	if get, ok := numericFields[field]; ok {
		return func(a, b model.InstrumentRecord) int {
			return cmp.Compare(get(a), get(b))
		}
	}
	return func(model.InstrumentRecord, model.InstrumentRecord) int { return 0 }
}

// Sorted returns a stably sorted copy of records. An empty field or direction
// returns a copy in the original order.
func Sorted(records []model.InstrumentRecord, field string, dir Direction, locale language.Tag) []model.InstrumentRecord {
	out := slices.Clone(records)
	if field == "" || dir == "" {
		return out
	}

	asc := comparator(field, locale)
	if dir == Desc {
		slices.SortStableFunc(out, func(a, b model.InstrumentRecord) int { return asc(b, a) })
	} else {
		slices.SortStableFunc(out, asc)
	}
	return out
}

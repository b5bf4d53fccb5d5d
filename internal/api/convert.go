package api

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/rickgao/voldash/internal/model"
)

var iconTypes = map[string]model.IconType{
	"index":   model.IconIndex,
	"metals":  model.IconMetals,
	"energy":  model.IconEnergy,
	"agri":    model.IconAgri,
	"oils":    model.IconOils,
	"ferrous": model.IconFerrous,
}

// ParseIconType maps a feed icon string to a model icon. Unknown values map to
// IconNone.
func ParseIconType(s string) model.IconType {
	return iconTypes[s]
}

// RemainingTime formats a days-to-expiry count, e.g. 12 -> "12d".
// Negative input is treated as expired.
func RemainingTime(days int) string {
	if days < 0 {
		days = 0
	}
	return strconv.Itoa(days) + "d"
}

// ToRecord converts a feed instrument to a record.
func ToRecord(in APIInstrument) model.InstrumentRecord {
	r := model.InstrumentRecord{
		ID:                 in.ID,
		CategoryCode:       in.CategoryCode,
		Name:               in.Name,
		IconType:           ParseIconType(in.IconType),
		LatestPrice:        in.LatestPrice,
		PriceChangePercent: in.PriceChangePercent,
		RemainingTime:      RemainingTime(in.RemainingDays),
		CurrentVol:         in.CurrentVol,
		VolChange:          in.VolChange,
		VolChangeSpeed:     in.VolChangeSpeed,
		RealVol:            in.RealVol,
		Premium:            in.Premium,
		CurrentSkew:        in.CurrentSkew,
		VolPercentile:      in.VolPercentile,
		SkewPercentile:     in.SkewPercentile,
		ChartData:          make([]model.SeriesPoint, 0, len(in.Trend)),
	}
	for _, p := range in.Trend {
		r.ChartData = append(r.ChartData, model.SeriesPoint{Time: p.T, Value: p.V})
	}

	// The feed does not guarantee trend order.
	slices.SortStableFunc(r.ChartData, func(a, b model.SeriesPoint) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return r
}

// ToRecords converts a feed instrument list. Rows with a duplicate id keep
// only their first occurrence.
func ToRecords(in []APIInstrument) []model.InstrumentRecord {
	out := make([]model.InstrumentRecord, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, inst := range in {
		if _, dup := seen[inst.ID]; dup {
			continue
		}
		seen[inst.ID] = struct{}{}
		out = append(out, ToRecord(inst))
	}
	return out
}

// ToCandle converts a feed series point.
func ToCandle(in APICandle) model.Candle {
	return model.Candle{
		Time:               in.Time,
		Open:               in.Open,
		High:               in.High,
		Low:                in.Low,
		Close:              in.Close,
		Volume:             in.Volume,
		OpenInterest:       in.OpenInterest,
		ImpliedVol:         in.ImpliedVol,
		PriceChangePercent: in.PriceChangePercent,
	}
}

// ToDetail converts a detail response. kind is used when the feed omits the
// mode.
func ToDetail(in *InstrumentDetailResponse, kind model.ChartKind) model.Detail {
	mode := kind
	if parsed, err := model.ParseChartKind(in.Mode); err == nil && in.Mode != "" {
		mode = parsed
	}

	series := make([]model.Candle, len(in.Series))
	for i, c := range in.Series {
		series[i] = ToCandle(c)
	}

	return model.Detail{
		Record: ToRecord(in.Instrument),
		Mode:   mode,
		Series: series,
	}
}

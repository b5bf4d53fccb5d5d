package api

// InstrumentsResponse from GET /instruments
type InstrumentsResponse struct {
	Tag         string          `json:"tag"`
	Instruments []APIInstrument `json:"instruments"`
}

// APIInstrument is one instrument row as the feed sends it.
type APIInstrument struct {
	ID           string `json:"id"`
	CategoryCode string `json:"category_code"`
	Name         string `json:"name"`
	IconType     string `json:"icon_type"`

	LatestPrice        float64 `json:"latest_price"`
	PriceChangePercent float64 `json:"price_change_percent"`
	RemainingDays      int     `json:"remaining_days"`

	// Volatility metrics in percent
	CurrentVol     float64 `json:"current_vol"`
	VolChange      float64 `json:"vol_change"`
	VolChangeSpeed float64 `json:"vol_change_speed"`
	RealVol        float64 `json:"real_vol"`
	Premium        float64 `json:"premium"`
	CurrentSkew    float64 `json:"current_skew"`
	VolPercentile  float64 `json:"vol_percentile"`
	SkewPercentile float64 `json:"skew_percentile"`

	Trend []APIPoint `json:"trend"`
}

// APIPoint is one trend preview point.
type APIPoint struct {
	T int64   `json:"t"` // Unix seconds
	V float64 `json:"v"`
}

// InstrumentDetailResponse from GET /instruments/{code}
type InstrumentDetailResponse struct {
	Instrument APIInstrument `json:"instrument"`
	Mode       string        `json:"mode"`
	Series     []APICandle   `json:"series"`
}

// APICandle is one detail series point.
type APICandle struct {
	Time               int64   `json:"time"`
	Open               float64 `json:"open"`
	High               float64 `json:"high"`
	Low                float64 `json:"low"`
	Close              float64 `json:"close"`
	Volume             int64   `json:"volume"`
	OpenInterest       int64   `json:"open_interest"`
	ImpliedVol         float64 `json:"implied_vol"`
	PriceChangePercent float64 `json:"price_change_percent"`
}

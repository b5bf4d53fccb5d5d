package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/rickgao/voldash/internal/model"
)

func fmtPrice(v float64) string { return fmt.Sprintf("%.2f", v) }
func fmtPct(v float64) string   { return fmt.Sprintf("%+.2f%%", v) }
func fmtVol(v float64) string   { return fmt.Sprintf("%.2f", v) }

// fmtPercentile renders a percentile clamped to [0, 100].
func fmtPercentile(v float64) string {
	return fmt.Sprintf("%.0f", model.ClampPercentile(v))
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline draws values scaled into width cells, resampling by taking the
// last value of each bucket.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[(i+1)*len(values)/width-1]
		}
		values = sampled
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var sb strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

package tui

import (
	"math"
	"testing"
	"unicode/utf8"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 5, ""},
		{"zero width", []float64{1, 2}, 0, ""},
		{"flat", []float64{3, 3, 3}, 5, "▁▁▁"},
		{"ramp", []float64{0, 7}, 5, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("sparkline = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSparklineResamples(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = math.Sin(float64(i))
	}
	if n := utf8.RuneCountInString(sparkline(values, 10)); n != 10 {
		t.Errorf("width = %d, want 10", n)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"copper", 10, "copper"},
		{"copper", 4, "cop…"},
		{"沪铜主力", 3, "沪铜…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFmtPercentileClamps(t *testing.T) {
	if got := fmtPercentile(130); got != "100" {
		t.Errorf("fmtPercentile(130) = %q, want 100", got)
	}
	if got := fmtPercentile(-2); got != "0" {
		t.Errorf("fmtPercentile(-2) = %q, want 0", got)
	}
}

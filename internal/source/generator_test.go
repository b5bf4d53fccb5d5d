package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickgao/voldash/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestGenerator(seed uint64) *Generator {
	return NewGenerator(WithSeed(seed), WithClock(func() time.Time { return fixedNow }))
}

func TestRecordsForTagFiltering(t *testing.T) {
	g := newTestGenerator(1)
	ctx := context.Background()

	all, err := g.RecordsForTag(ctx, model.TagAll)
	if err != nil {
		t.Fatalf("RecordsForTag(all) error: %v", err)
	}
	if len(all) != len(universe) {
		t.Errorf("len(all) = %d, want %d", len(all), len(universe))
	}

	for _, tag := range model.AllTags {
		records, err := g.RecordsForTag(ctx, tag)
		if err != nil {
			t.Fatalf("RecordsForTag(%s) error: %v", tag, err)
		}

		ids := make(map[string]bool)
		for _, r := range records {
			if ids[r.ID] {
				t.Errorf("%s: duplicate id %s", tag, r.ID)
			}
			ids[r.ID] = true

			in, ok := lookupInstrument(r.CategoryCode)
			if !ok {
				t.Errorf("%s: record code %s not in universe", tag, r.CategoryCode)
				continue
			}
			if !in.Matches(tag) {
				t.Errorf("%s: record %s does not match tag", tag, r.CategoryCode)
			}
		}
	}

	metals, _ := g.RecordsForTag(ctx, model.TagMetals)
	if len(metals) != 5 {
		t.Errorf("len(metals) = %d, want 5", len(metals))
	}
	gfex, _ := g.RecordsForTag(ctx, model.TagGFEX)
	if gfex == nil || len(gfex) != 0 {
		t.Errorf("gfex = %v, want empty non-nil", gfex)
	}
}

func TestRecordsForTagUnknown(t *testing.T) {
	g := newTestGenerator(1)
	_, err := g.RecordsForTag(context.Background(), model.Tag("crypto"))
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("err = %v, want ErrUnknownTag", err)
	}
}

func TestRecordsForTagDeterministic(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestGenerator(7).RecordsForTag(ctx, model.TagEnergy)
	b, _ := newTestGenerator(7).RecordsForTag(ctx, model.TagEnergy)
	c, _ := newTestGenerator(8).RecordsForTag(ctx, model.TagEnergy)

	for i := range a {
		if a[i].VolChange != b[i].VolChange || a[i].Premium != b[i].Premium {
			t.Errorf("record %d differs between identical seeds", i)
		}
	}

	same := true
	for i := range a {
		if a[i].LatestPrice != c[i].LatestPrice {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical prices")
	}
}

func TestRecordRanges(t *testing.T) {
	records, _ := newTestGenerator(3).RecordsForTag(context.Background(), model.TagAll)

	for _, r := range records {
		if r.VolChange < -2.5 || r.VolChange > 2.5 {
			t.Errorf("%s VolChange = %v out of range", r.ID, r.VolChange)
		}
		if r.Premium < -10 || r.Premium > 10 {
			t.Errorf("%s Premium = %v out of range", r.ID, r.Premium)
		}
		if r.VolPercentile < 0 || r.VolPercentile > 100 {
			t.Errorf("%s VolPercentile = %v out of range", r.ID, r.VolPercentile)
		}
		if len(r.ChartData) != trendPoints {
			t.Fatalf("%s len(ChartData) = %d, want %d", r.ID, len(r.ChartData), trendPoints)
		}
		for i := 1; i < len(r.ChartData); i++ {
			if r.ChartData[i].Time <= r.ChartData[i-1].Time {
				t.Errorf("%s ChartData not ascending at %d", r.ID, i)
			}
			if r.ChartData[i].Value < 50 {
				t.Errorf("%s ChartData[%d] = %v below floor", r.ID, i, r.ChartData[i].Value)
			}
		}
		if last := r.ChartData[len(r.ChartData)-1].Time; last != fixedNow.Unix()-trendInterval {
			t.Errorf("%s last point time = %d, want %d", r.ID, last, fixedNow.Unix()-trendInterval)
		}
	}
}

func TestDetail(t *testing.T) {
	g := newTestGenerator(1)
	ctx := context.Background()

	tests := []struct {
		kind   model.ChartKind
		points int
		step   int64
	}{
		{model.ChartIntraday, 240, 60},
		{model.ChartFiveDay, 120, 3600},
		{model.ChartDaily, 100, 86400},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d, err := g.Detail(ctx, "CU", tt.kind)
			if err != nil {
				t.Fatalf("Detail error: %v", err)
			}
			if d.Mode != tt.kind {
				t.Errorf("Mode = %s, want %s", d.Mode, tt.kind)
			}
			if len(d.Series) != tt.points {
				t.Fatalf("len(Series) = %d, want %d", len(d.Series), tt.points)
			}
			if step := d.Series[1].Time - d.Series[0].Time; step != tt.step {
				t.Errorf("step = %d, want %d", step, tt.step)
			}
			for i, c := range d.Series {
				if c.Close < detailFloor || c.Close > detailCeiling {
					t.Errorf("Series[%d].Close = %v outside clamp", i, c.Close)
				}
				if c.Low > c.High {
					t.Errorf("Series[%d] low %v > high %v", i, c.Low, c.High)
				}
			}
			if d.Record.CategoryCode != "CU" || d.Record.Name != "铜" {
				t.Errorf("Record = %s/%s, want CU/铜", d.Record.CategoryCode, d.Record.Name)
			}
		})
	}
}

func TestDetailScalarsIndependentOfMode(t *testing.T) {
	g := newTestGenerator(1)
	ctx := context.Background()

	a, _ := g.Detail(ctx, "AU", model.ChartIntraday)
	b, _ := g.Detail(ctx, "AU", model.ChartDaily)
	if a.Record.CurrentVol != b.Record.CurrentVol || a.Record.SkewPercentile != b.Record.SkewPercentile {
		t.Error("scalar metrics should not depend on chart mode")
	}
	if a.Record.CurrentVol < 15 || a.Record.CurrentVol > 18 {
		t.Errorf("CurrentVol = %v, want within [15, 18]", a.Record.CurrentVol)
	}
}

func TestDetailErrors(t *testing.T) {
	g := newTestGenerator(1)
	ctx := context.Background()

	if _, err := g.Detail(ctx, "ZZZ", model.ChartIntraday); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("unknown code err = %v, want ErrUnknownCode", err)
	}
	if _, err := g.Detail(ctx, "CU", model.ChartKind("weekly")); err == nil {
		t.Error("unknown mode should fail")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := g.RecordsForTag(cancelled, model.TagAll); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v, want context.Canceled", err)
	}
}

func TestUniverseCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, in := range Universe() {
		if seen[in.Code] {
			t.Errorf("duplicate code %s", in.Code)
		}
		seen[in.Code] = true
		if !in.Exchange.IsExchange() {
			t.Errorf("%s exchange %q is not an exchange tag", in.Code, in.Exchange)
		}
	}
}

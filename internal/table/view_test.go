package table

import (
	"errors"
	"slices"
	"testing"

	"github.com/rickgao/voldash/internal/model"
)

func dir(d Direction) *Direction { return &d }
func intp(n int) *int            { return &n }

func priced(prices ...float64) []model.InstrumentRecord {
	out := make([]model.InstrumentRecord, len(prices))
	for i, p := range prices {
		out[i] = model.InstrumentRecord{ID: string(rune('a' + i)), LatestPrice: p}
	}
	return out
}

func prices(records []model.InstrumentRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.LatestPrice
	}
	return out
}

func TestSortThenClear(t *testing.T) {
	v := NewView(ParseLocale(""), 0)
	records := priced(2, 3, 1)

	v.Sort("latestPrice", dir(Asc))
	if got := prices(v.Rows(records).Items); !slices.Equal(got, []float64{1, 2, 3}) {
		t.Errorf("asc = %v, want [1 2 3]", got)
	}

	v.Sort("latestPrice", dir(Desc))
	if got := prices(v.Rows(records).Items); !slices.Equal(got, []float64{3, 2, 1}) {
		t.Errorf("desc = %v, want [3 2 1]", got)
	}

	v.Sort("latestPrice", nil)
	if field, d := v.SortField(); field != "" || d != "" {
		t.Errorf("SortField() = (%q, %q), want cleared", field, d)
	}
	if got := prices(v.Rows(records).Items); !slices.Equal(got, []float64{2, 3, 1}) {
		t.Errorf("cleared = %v, want batch order [2 3 1]", got)
	}

	// Batch never reordered.
	if got := prices(records); !slices.Equal(got, []float64{2, 3, 1}) {
		t.Errorf("records mutated to %v", got)
	}
}

func TestAscReversedIsDesc(t *testing.T) {
	records := []model.InstrumentRecord{
		{ID: "1", Name: "Copper", VolChange: 1.5},
		{ID: "2", Name: "Aluminium", VolChange: -0.3},
		{ID: "3", Name: "Zinc", VolChange: 2.2},
		{ID: "4", Name: "Gold", VolChange: 0.1},
	}
	loc := ParseLocale("en")

	for _, field := range []string{"volChange", "name"} {
		asc := Sorted(records, field, Asc, loc)
		desc := Sorted(records, field, Desc, loc)
		slices.Reverse(asc)
		for i := range asc {
			if asc[i].ID != desc[i].ID {
				t.Errorf("%s: reversed asc[%d] = %s, desc[%d] = %s", field, i, asc[i].ID, i, desc[i].ID)
			}
		}
	}
}

func TestSortedNameCollation(t *testing.T) {
	records := []model.InstrumentRecord{
		{ID: "1", Name: "beta"},
		{ID: "2", Name: "Alpha"},
		{ID: "3", Name: "alpha2"},
	}

	got := Sorted(records, "name", Asc, ParseLocale("en"))
	want := []string{"Alpha", "alpha2", "beta"}
	for i, r := range got {
		if r.Name != want[i] {
			t.Errorf("Sorted[%d] = %s, want %s", i, r.Name, want[i])
		}
	}
}

func TestSortedUnsortableField(t *testing.T) {
	records := priced(3, 1, 2)
	got := Sorted(records, "chartData", Asc, ParseLocale(""))
	if !slices.Equal(prices(got), []float64{3, 1, 2}) {
		t.Errorf("chartData sort = %v, want original order", prices(got))
	}
	if Sortable("chartData") {
		t.Error("Sortable(chartData) = true, want false")
	}
	if !Sortable("premium") || !Sortable("remainingTime") {
		t.Error("premium and remainingTime should be sortable")
	}
	if !Column("chartData") || Column("color") {
		t.Error("Column should accept chartData and reject color")
	}
}

func TestSortMany(t *testing.T) {
	v := NewView(ParseLocale(""), 0)
	v.Sort("premium", dir(Desc))

	err := v.SortMany([]SortRequest{
		{Field: "latestPrice", Dir: dir(Asc)},
		{Field: "name", Dir: dir(Desc)},
	})
	if !errors.Is(err, ErrMultiSort) {
		t.Fatalf("SortMany(2) err = %v, want ErrMultiSort", err)
	}
	if field, d := v.SortField(); field != "premium" || d != Desc {
		t.Errorf("state changed to (%q, %q) after rejected request", field, d)
	}

	if err := v.SortMany([]SortRequest{{Field: "name", Dir: dir(Asc)}}); err != nil {
		t.Fatalf("SortMany(1) unexpected error: %v", err)
	}
	if field, d := v.SortField(); field != "name" || d != Asc {
		t.Errorf("SortField() = (%q, %q), want (name, asc)", field, d)
	}
}

func TestPaginate(t *testing.T) {
	v := NewView(ParseLocale(""), 10)

	if err := v.Paginate(intp(3), nil); err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if v.Page() != 3 {
		t.Errorf("Page() = %d, want 3", v.Page())
	}

	// Size change without an explicit page returns to the first page.
	if err := v.Paginate(nil, intp(50)); err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if v.Page() != 1 || v.PageSize() != 50 {
		t.Errorf("after size change page=%d size=%d, want 1/50", v.Page(), v.PageSize())
	}

	// Size change with an explicit page keeps it.
	if err := v.Paginate(intp(2), intp(5)); err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if v.Page() != 2 || v.PageSize() != 5 {
		t.Errorf("page=%d size=%d, want 2/5", v.Page(), v.PageSize())
	}

	if err := v.Paginate(intp(0), nil); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("Paginate(0) err = %v, want ErrInvalidPage", err)
	}
}

func TestResetForTag(t *testing.T) {
	v := NewView(ParseLocale(""), 0)
	v.ResetForTag(model.TagAll)
	v.Sort("volChange", dir(Desc))
	_ = v.Paginate(intp(4), nil)

	if v.ResetForTag(model.TagAll) {
		t.Error("same tag should not reset")
	}
	if v.Page() != 4 {
		t.Errorf("Page() = %d, want 4", v.Page())
	}

	if !v.ResetForTag(model.TagMetals) {
		t.Error("new tag should reset")
	}
	if field, d := v.SortField(); field != "" || d != "" {
		t.Errorf("SortField() = (%q, %q) after tag change, want cleared", field, d)
	}
	if v.Page() != 1 {
		t.Errorf("Page() = %d after tag change, want 1", v.Page())
	}
}

func TestRows(t *testing.T) {
	records := make([]model.InstrumentRecord, 45)
	for i := range records {
		records[i] = model.InstrumentRecord{ID: string(rune('A' + i)), LatestPrice: float64(i)}
	}

	v := NewView(ParseLocale(""), 0)
	p := v.Rows(records)
	if p.PageSize != DefaultPageSize || len(p.Items) != 20 || p.Total != 45 || p.Pages != 3 {
		t.Errorf("page 1 = size %d items %d total %d pages %d", p.PageSize, len(p.Items), p.Total, p.Pages)
	}

	_ = v.Paginate(intp(3), nil)
	p = v.Rows(records)
	if len(p.Items) != 5 || p.Items[0].LatestPrice != 40 {
		t.Errorf("page 3 items = %d first %v, want 5 starting at 40", len(p.Items), p.Items[0].LatestPrice)
	}

	_ = v.Paginate(intp(9), nil)
	p = v.Rows(records)
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("past-end page items = %v, want empty", p.Items)
	}

	if p := v.Rows(nil); p.Total != 0 || p.Pages != 0 {
		t.Errorf("empty rows total=%d pages=%d", p.Total, p.Pages)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("desc"); err != nil || d != Desc {
		t.Errorf("ParseDirection(desc) = %q, %v", d, err)
	}
	if _, err := ParseDirection("down"); err == nil {
		t.Error("ParseDirection(down) expected error")
	}
}

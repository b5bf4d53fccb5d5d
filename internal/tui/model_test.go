package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/sections"
	"github.com/rickgao/voldash/internal/table"
	"github.com/rickgao/voldash/internal/viewstate"
)

type fakeController struct {
	state viewstate.State
	tags  []model.Tag
	ch    chan viewstate.State
	unsub []string
}

func (f *fakeController) State() viewstate.State { return f.state }

func (f *fakeController) SetTag(tag model.Tag) error {
	f.tags = append(f.tags, tag)
	return nil
}

func (f *fakeController) Subscribe() (string, <-chan viewstate.State) {
	f.ch = make(chan viewstate.State, 4)
	return "state-sub", f.ch
}

func (f *fakeController) Unsubscribe(id string) { f.unsub = append(f.unsub, id) }

type fakeSession struct {
	codes   []string
	modes   []model.ChartKind
	cur     detail.Update
	ch      chan detail.Update
	reloads int
	unsub   []string
}

func (f *fakeSession) SelectCode(code string) { f.codes = append(f.codes, code) }

func (f *fakeSession) SetMode(kind model.ChartKind) error {
	if _, err := model.ParseChartKind(string(kind)); err != nil {
		return err
	}
	f.modes = append(f.modes, kind)
	return nil
}

func (f *fakeSession) Reload()                { f.reloads++ }
func (f *fakeSession) Current() detail.Update { return f.cur }

func (f *fakeSession) Subscribe() (string, <-chan detail.Update) {
	f.ch = make(chan detail.Update, 4)
	return "detail-sub", f.ch
}

func (f *fakeSession) Unsubscribe(id string) { f.unsub = append(f.unsub, id) }

func records(n int) []model.InstrumentRecord {
	out := make([]model.InstrumentRecord, n)
	for i := range out {
		out[i] = model.InstrumentRecord{
			ID:           fmt.Sprintf("r-%d", i),
			CategoryCode: fmt.Sprintf("C%02d", i),
			Name:         fmt.Sprintf("Inst %02d", i),
			LatestPrice:  float64(100 - i),
			VolChange:    float64(i),
			Premium:      float64(i % 7),
		}
	}
	return out
}

func stateFor(tag model.Tag, recs []model.InstrumentRecord) viewstate.State {
	b := &model.Batch{ID: "b-" + string(tag), Tag: tag, Records: recs}
	return viewstate.State{Tag: tag, Batch: b, HotSections: sections.Compute(recs), Version: 1}
}

func newTestModel(t *testing.T, recs []model.InstrumentRecord) (Model, *fakeController, *fakeSession) {
	t.Helper()
	ctrl := &fakeController{state: stateFor(model.TagAll, recs)}
	sess := &fakeSession{}
	m := New(Config{Locale: language.English, PageSize: 10}, ctrl, sess, nil)
	return *m, ctrl, sess
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestNewAppliesInitialState(t *testing.T) {
	m, _, _ := newTestModel(t, records(25))

	if m.rows.Total != 25 {
		t.Errorf("Total = %d, want 25", m.rows.Total)
	}
	if m.rows.Pages != 3 {
		t.Errorf("Pages = %d, want 3", m.rows.Pages)
	}
	if len(m.rows.Items) != 10 {
		t.Errorf("len(Items) = %d, want 10", len(m.rows.Items))
	}
	if !strings.Contains(m.View(), "25 instruments") {
		t.Error("header should show the record count")
	}
}

func TestTagKeysWrap(t *testing.T) {
	m, ctrl, _ := newTestModel(t, records(3))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	want := []model.Tag{model.TagGFEX, model.TagIndex}
	if len(ctrl.tags) != len(want) {
		t.Fatalf("SetTag calls = %v, want %v", ctrl.tags, want)
	}
	for i := range want {
		if ctrl.tags[i] != want[i] {
			t.Errorf("SetTag[%d] = %q, want %q", i, ctrl.tags[i], want[i])
		}
	}
}

func TestSortCycle(t *testing.T) {
	m, _, _ := newTestModel(t, records(5))

	// Column 1 is price.
	m = press(t, m, runes("s"), runes("o"))
	if field, dir := m.view.SortField(); field != "latestPrice" || dir != table.Asc {
		t.Fatalf("after first o: %q %q, want latestPrice asc", field, dir)
	}
	if m.rows.Items[0].LatestPrice != 96 {
		t.Errorf("first price = %v, want 96", m.rows.Items[0].LatestPrice)
	}

	m = press(t, m, runes("o"))
	if _, dir := m.view.SortField(); dir != table.Desc {
		t.Errorf("after second o: dir = %q, want desc", dir)
	}

	m = press(t, m, runes("o"))
	if field, _ := m.view.SortField(); field != "" {
		t.Errorf("after third o: field = %q, want unsorted", field)
	}
	if m.rows.Items[0].ID != "r-0" {
		t.Errorf("unsorted first = %q, want source order", m.rows.Items[0].ID)
	}
}

func TestTrendColumnNotSortable(t *testing.T) {
	m, _, _ := newTestModel(t, records(5))

	for range len(columns) - 1 {
		m = press(t, m, runes("s"))
	}
	m = press(t, m, runes("o"))

	if field, _ := m.view.SortField(); field != "" {
		t.Errorf("field = %q, want unsorted", field)
	}
	if m.err == "" {
		t.Error("expected an error message for the trend column")
	}
}

func TestTagChangeResetsView(t *testing.T) {
	m, _, _ := newTestModel(t, records(25))
	m = press(t, m, runes("s"), runes("o"), tea.KeyMsg{Type: tea.KeyRight})
	if m.view.Page() != 2 {
		t.Fatalf("Page = %d, want 2", m.view.Page())
	}

	next, _ := m.Update(stateMsg(stateFor(model.TagMetals, records(4))))
	m = next.(Model)

	if m.view.Page() != 1 {
		t.Errorf("Page = %d, want 1 after tag change", m.view.Page())
	}
	if field, _ := m.view.SortField(); field != "" {
		t.Errorf("sort = %q, want cleared after tag change", field)
	}
	if m.rows.Total != 4 {
		t.Errorf("Total = %d, want 4", m.rows.Total)
	}
}

func TestPagingBounds(t *testing.T) {
	m, _, _ := newTestModel(t, records(25))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.view.Page() != 1 {
		t.Errorf("Page = %d, want 1", m.view.Page())
	}

	right := tea.KeyMsg{Type: tea.KeyRight}
	m = press(t, m, right, right, right, right)
	if m.view.Page() != 3 {
		t.Errorf("Page = %d, want 3", m.view.Page())
	}
	if len(m.rows.Items) != 5 {
		t.Errorf("len(Items) = %d, want 5", len(m.rows.Items))
	}
}

func TestOpenDetail(t *testing.T) {
	m, _, sess := newTestModel(t, records(5))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.page != pageDetail {
		t.Fatal("enter should open the detail page")
	}
	if len(sess.codes) != 1 || sess.codes[0] != "C01" {
		t.Errorf("SelectCode calls = %v, want [C01]", sess.codes)
	}

	m = press(t, m, runes("2"), runes("3"))
	if len(sess.modes) != 2 || sess.modes[0] != model.ChartFiveDay || sess.modes[1] != model.ChartDaily {
		t.Errorf("SetMode calls = %v", sess.modes)
	}

	m = press(t, m, runes("r"))
	if sess.reloads != 1 {
		t.Errorf("reloads = %d, want 1", sess.reloads)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.page != pageDashboard {
		t.Error("esc should return to the dashboard")
	}
}

func TestLeaderboardFocusOpensDetail(t *testing.T) {
	tests := []struct {
		name  string
		keys  []tea.KeyMsg
		focus int
		want  string
	}{
		// VolChange is the row index, so Vol Up is C07, C06, ... and Vol Down C00, C01, ...
		{"vol up second row", []tea.KeyMsg{runes("f"), {Type: tea.KeyDown}}, 1, "C06"},
		{"vol down third row", []tea.KeyMsg{runes("f"), runes("f"), {Type: tea.KeyDown}, {Type: tea.KeyDown}}, 2, "C02"},
		{"up stops at top", []tea.KeyMsg{runes("f"), {Type: tea.KeyUp}}, 1, "C07"},
		{"focus wraps to table", []tea.KeyMsg{runes("f"), runes("f"), runes("f"), runes("f"), runes("f"), {Type: tea.KeyDown}}, 0, "C01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, sess := newTestModel(t, records(8))

			m = press(t, m, tt.keys...)
			if m.focus != tt.focus {
				t.Errorf("focus = %d, want %d", m.focus, tt.focus)
			}
			m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			if m.page != pageDetail {
				t.Fatal("enter should open the detail page")
			}
			if len(sess.codes) != 1 || sess.codes[0] != tt.want {
				t.Errorf("SelectCode calls = %v, want [%s]", sess.codes, tt.want)
			}
		})
	}
}

func TestLeaderboardCursorRendersAndClamps(t *testing.T) {
	m, _, _ := newTestModel(t, records(8))

	down := tea.KeyMsg{Type: tea.KeyDown}
	m = press(t, m, runes("f"), down, down, down, down)
	if m.hotCursor != 4 {
		t.Fatalf("hotCursor = %d, want 4", m.hotCursor)
	}
	if !strings.Contains(m.View(), "> Inst 03") {
		t.Error("focused leaderboard should mark the selected row")
	}

	next, _ := m.Update(stateMsg(stateFor(model.TagAll, records(2))))
	m = next.(Model)
	if m.hotCursor != 1 {
		t.Errorf("hotCursor = %d, want 1 after the board shrank", m.hotCursor)
	}
}

func TestDetailViewStates(t *testing.T) {
	m, _, _ := newTestModel(t, records(3))
	m.page = pageDetail

	next, _ := m.Update(detailMsg(detail.Update{Code: "XX", Mode: model.ChartIntraday, View: detail.View{Code: "XX"}}))
	m = next.(Model)
	if !strings.Contains(m.View(), "no data for XX") {
		t.Error("unknown code should render the no-data state")
	}

	d := &model.Detail{
		Record: model.InstrumentRecord{CategoryCode: "CU", Name: "Copper"},
		Mode:   model.ChartDaily,
		Series: []model.Candle{{Time: 1, Open: 1, High: 3, Low: 1, Close: 2}},
	}
	next, _ = m.Update(detailMsg(detail.Update{Code: "CU", Mode: model.ChartDaily, View: detail.View{Found: true, Code: "CU", Detail: d}}))
	m = next.(Model)
	out := m.View()
	if !strings.Contains(out, "Copper") {
		t.Error("detail should show the instrument name")
	}
	if !strings.Contains(out, "H 3.00") {
		t.Error("daily mode should show the last candle")
	}
}

func TestHotSectionFailureIsolated(t *testing.T) {
	m, _, _ := newTestModel(t, records(8))
	m.renderHot = func(s model.HotSection, width, cursor int) (string, error) {
		if s.Type == model.HotVolUp {
			panic("boom")
		}
		return renderHotSection(s, width, cursor)
	}

	out := m.View()
	if !m.hot[model.HotVolUp].Failed() {
		t.Fatal("volUp boundary should have failed")
	}
	for _, typ := range []model.HotSectionType{model.HotVolDown, model.HotPremiumHigh, model.HotPremiumLow} {
		if m.hot[typ].Failed() {
			t.Errorf("%s boundary should not fail", typ)
		}
	}
	if !strings.Contains(out, "Vol Up failed") {
		t.Error("failed section should render an error box")
	}
	if !strings.Contains(out, "Premium Low") {
		t.Error("other sections should still render")
	}

	m.renderHot = renderHotSection
	m = press(t, m, runes("r"))
	if m.hot[model.HotVolUp].Failed() {
		t.Error("r should reset the boundary")
	}
}

func TestTableFailureIsolated(t *testing.T) {
	m, _, _ := newTestModel(t, records(3))
	m.renderTab = func(Model, table.Page) (string, error) { return "", errors.New("render broke") }

	out := m.View()
	if !strings.Contains(out, "Table failed: render broke") {
		t.Error("table failure should render an error box")
	}
	if !strings.Contains(out, "Vol Down") {
		t.Error("hot sections should still render")
	}
}

func TestClosedSubscriptionQuits(t *testing.T) {
	m, _, _ := newTestModel(t, records(1))

	_, cmd := m.Update(closedMsg{})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestWaitState(t *testing.T) {
	ch := make(chan viewstate.State, 1)
	ch <- viewstate.State{Tag: model.TagDCE}

	msg := waitState(ch)()
	if s, ok := msg.(stateMsg); !ok || s.Tag != model.TagDCE {
		t.Errorf("waitState = %#v, want stateMsg for dce", msg)
	}

	close(ch)
	if _, ok := waitState(ch)().(closedMsg); !ok {
		t.Error("closed channel should yield closedMsg")
	}
}

func TestClose(t *testing.T) {
	ctrl := &fakeController{state: stateFor(model.TagAll, nil)}
	sess := &fakeSession{}
	m := New(Config{}, ctrl, sess, nil)
	m.Close()

	if len(ctrl.unsub) != 1 || ctrl.unsub[0] != "state-sub" {
		t.Errorf("controller unsubscribes = %v", ctrl.unsub)
	}
	if len(sess.unsub) != 1 || sess.unsub[0] != "detail-sub" {
		t.Errorf("session unsubscribes = %v", sess.unsub)
	}
}

package tui

import (
	"fmt"
	"strings"
	"time"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rickgao/voldash/internal/chart"
	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/table"
)

type column struct {
	field string
	title string
	width int
	cell  func(model.InstrumentRecord) string
}

var columns = []column{
	{"name", "Name", 10, func(r model.InstrumentRecord) string { return r.Name }},
	{"latestPrice", "Price", 9, func(r model.InstrumentRecord) string { return fmtPrice(r.LatestPrice) }},
	{"priceChangePercent", "Chg%", 8, func(r model.InstrumentRecord) string { return fmtPct(r.PriceChangePercent) }},
	{"remainingTime", "Left", 5, func(r model.InstrumentRecord) string { return r.RemainingTime }},
	{"currentVol", "IV", 6, func(r model.InstrumentRecord) string { return fmtVol(r.CurrentVol) }},
	{"volChange", "IV Chg", 7, func(r model.InstrumentRecord) string { return fmtVol(r.VolChange) }},
	{"volChangeSpeed", "Speed", 6, func(r model.InstrumentRecord) string { return fmtVol(r.VolChangeSpeed) }},
	{"realVol", "RV", 6, func(r model.InstrumentRecord) string { return fmtVol(r.RealVol) }},
	{"premium", "Prem", 6, func(r model.InstrumentRecord) string { return fmtVol(r.Premium) }},
	{"currentSkew", "Skew", 6, func(r model.InstrumentRecord) string { return fmtVol(r.CurrentSkew) }},
	{"volPercentile", "IV%ile", 6, func(r model.InstrumentRecord) string { return fmtPercentile(r.VolPercentile) }},
	{"skewPercentile", "Sk%ile", 6, func(r model.InstrumentRecord) string { return fmtPercentile(r.SkewPercentile) }},
	{"chartData", "Trend", 12, func(r model.InstrumentRecord) string { return trend(r.ChartData, 12) }},
}

var hotOrder = []model.HotSectionType{
	model.HotVolUp, model.HotVolDown, model.HotPremiumHigh, model.HotPremiumLow,
}

func trend(points []model.SeriesPoint, width int) string {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return sparkline(values, width)
}

func gridColumns() []btable.Column {
	cols := make([]btable.Column, len(columns))
	for i, c := range columns {
		cols[i] = btable.Column{Title: c.title, Width: c.width}
	}
	return cols
}

func gridRows(records []model.InstrumentRecord) []btable.Row {
	rows := make([]btable.Row, len(records))
	for i, r := range records {
		row := make(btable.Row, len(columns))
		for j, c := range columns {
			row[j] = truncate(c.cell(r), c.width)
		}
		rows[i] = row
	}
	return rows
}

func (m Model) View() string {
	if m.page == pageDetail {
		return m.detailView()
	}
	return m.dashboardView()
}

func (m Model) dashboardView() string {
	parts := []string{m.header(), m.tagBar(), m.hotGrid(), m.tableSection()}
	if m.err != "" {
		parts = append(parts, errorStyle.Render(m.err))
	}
	parts = append(parts, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) header() string {
	title := titleStyle.Render("voldash")
	status := dimStyle.Render("no data")
	switch b := m.state.Batch; {
	case m.state.Loading:
		status = m.spinner.View() + " loading " + m.state.Tag.Label()
	case b != nil && b.Failed:
		status = errorStyle.Render("fetch failed " + b.FetchedAt.Format(time.TimeOnly))
	case b != nil:
		status = dimStyle.Render(fmt.Sprintf("%d instruments at %s", b.Len(), b.FetchedAt.Format(time.TimeOnly)))
	}
	return title + "  " + status
}

func (m Model) tagBar() string {
	tags := make([]string, len(model.AllTags))
	for i, t := range model.AllTags {
		if t == m.state.Tag {
			tags[i] = activeTagStyle.Render(t.Label())
		} else {
			tags[i] = tagStyle.Render(t.Label())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tags...)
}

// hotGrid lays the four leaderboards out 2x2, each inside its own boundary.
func (m Model) hotGrid() string {
	byType := make(map[model.HotSectionType]model.HotSection, len(m.state.HotSections))
	for _, s := range m.state.HotSections {
		byType[s.Type] = s
	}

	width := 36
	if m.width > 0 {
		width = max(m.width/2-4, 24)
	}

	cells := make([]string, len(hotOrder))
	for i, typ := range hotOrder {
		b := m.hot[typ]
		section, ok := byType[typ]
		if !ok {
			section = model.HotSection{Type: typ, Title: string(typ)}
		}

		cursor, box := -1, boxStyle
		if m.focus == i+1 {
			cursor, box = m.hotCursor, focusBoxStyle
		}

		var out string
		if b.Run(func() error {
			var err error
			out, err = m.renderHot(section, width, cursor)
			return err
		}) {
			cells[i] = box.Width(width).Render(out)
		} else {
			cells[i] = errorBoxStyle.Width(width).Render(sectionError(section.Title, b.Err()))
		}
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cells[0], cells[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cells[2], cells[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// renderHotSection draws one leaderboard; cursor marks the selected row, or
// none when negative.
func renderHotSection(s model.HotSection, width, cursor int) (string, error) {
	lines := []string{titleStyle.Render(s.Title)}
	if len(s.Data) == 0 {
		lines = append(lines, dimStyle.Render("no data"))
	}
	nameWidth := max(width-24, 6)
	for i, r := range s.Data {
		value := r.VolChange
		if s.Type == model.HotPremiumHigh || s.Type == model.HotPremiumLow {
			value = r.Premium
		}
		mark := "  "
		name := truncate(r.Name, nameWidth)
		line := fmt.Sprintf("%-*s %8s ", nameWidth, name, fmtVol(value))
		if i == cursor {
			mark = "> "
			line = cursorStyle.Render(line)
		}
		lines = append(lines, mark+line+signed(r.PriceChangePercent, fmtPct(r.PriceChangePercent)))
	}
	return strings.Join(lines, "\n"), nil
}

func (m Model) tableSection() string {
	var out string
	if !m.tableB.Run(func() error {
		var err error
		out, err = m.renderTab(m, m.rows)
		return err
	}) {
		return errorBoxStyle.Render(sectionError("Table", m.tableB.Err()))
	}
	return out
}

func (m Model) renderTable(p table.Page) (string, error) {
	field, dir := m.view.SortField()
	sortLabel := "unsorted"
	if field != "" {
		sortLabel = fmt.Sprintf("sorted by %s %s", field, dir)
	}

	pages := max(p.Pages, 1)
	footer := dimStyle.Render(fmt.Sprintf("page %d/%d  %d rows  %s  column: %s",
		p.Page, pages, p.Total, sortLabel, columns[m.sortCol].title))

	if p.Total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, dimStyle.Render("no instruments"), footer), nil
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.grid.View(), footer), nil
}

func (m Model) detailView() string {
	u := m.update
	parts := []string{titleStyle.Render("voldash") + "  " + m.modeBar(u.Mode)}

	var out string
	if m.detailB.Run(func() error {
		var err error
		out, err = m.renderDetail(u)
		return err
	}) {
		parts = append(parts, out)
	} else {
		parts = append(parts, errorBoxStyle.Render(sectionError("Detail", m.detailB.Err())))
	}

	if m.err != "" {
		parts = append(parts, errorStyle.Render(m.err))
	}
	parts = append(parts, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) modeBar(current model.ChartKind) string {
	modes := make([]string, len(model.ChartKinds))
	for i, k := range model.ChartKinds {
		label := fmt.Sprintf("%d %s", i+1, k)
		if k == current {
			modes[i] = activeMode.Render(label)
		} else {
			modes[i] = modeStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, modes...)
}

func (m Model) renderDetail(u detail.Update) (string, error) {
	if u.Loading {
		return m.spinner.View() + " loading " + u.Code, nil
	}
	if !u.View.Found || u.View.Detail == nil {
		return boxStyle.Render(dimStyle.Render("no data for " + codeLabel(u.Code))), nil
	}

	d := u.View.Detail
	r := d.Record
	metrics := []string{
		titleStyle.Render(r.Name + " " + r.CategoryCode),
		fmt.Sprintf("price   %s  %s", fmtPrice(r.LatestPrice), signed(r.PriceChangePercent, fmtPct(r.PriceChangePercent))),
		fmt.Sprintf("iv      %s  chg %s  speed %s", fmtVol(r.CurrentVol), fmtVol(r.VolChange), fmtVol(r.VolChangeSpeed)),
		fmt.Sprintf("rv      %s  premium %s", fmtVol(r.RealVol), fmtVol(r.Premium)),
		fmt.Sprintf("skew    %s", fmtVol(r.CurrentSkew)),
		fmt.Sprintf("%%ile    iv %s  skew %s", fmtPercentile(r.VolPercentile), fmtPercentile(r.SkewPercentile)),
		fmt.Sprintf("expiry  %s", r.RemainingTime),
	}

	width := 60
	if m.width > 0 {
		width = max(m.width-6, 20)
	}
	closes := make([]float64, len(d.Series))
	for i, c := range d.Series {
		closes[i] = c.Close
	}
	series := []string{sparkline(closes, width)}
	if mode, ok := chart.Lookup(d.Mode); ok && mode.OHLC() && len(d.Series) > 0 {
		last := d.Series[len(d.Series)-1]
		series = append(series, dimStyle.Render(fmt.Sprintf("O %s H %s L %s C %s",
			fmtPrice(last.Open), fmtPrice(last.High), fmtPrice(last.Low), fmtPrice(last.Close))))
	}
	for _, mk := range d.Markers {
		series = append(series, dimStyle.Render(fmt.Sprintf("%s %s at %s",
			mk.Kind, fmtPrice(mk.Value), time.Unix(mk.Time, 0).Format(time.DateTime))))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(strings.Join(metrics, "\n")),
		boxStyle.Render(strings.Join(series, "\n")),
	), nil
}

func sectionError(title string, err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return errorStyle.Render(title+" failed: "+msg) + "\n" + dimStyle.Render("press r to retry")
}

func codeLabel(code string) string {
	if code == "" {
		return "empty code"
	}
	return code
}

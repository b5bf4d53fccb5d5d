package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/boundary"
	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/table"
	"github.com/rickgao/voldash/internal/viewstate"
)

// Controller is the dashboard state the TUI renders.
type Controller interface {
	State() viewstate.State
	SetTag(tag model.Tag) error
	Subscribe() (string, <-chan viewstate.State)
	Unsubscribe(id string)
}

// DetailSession drives the detail page.
type DetailSession interface {
	SelectCode(code string)
	SetMode(kind model.ChartKind) error
	Reload()
	Current() detail.Update
	Subscribe() (string, <-chan detail.Update)
	Unsubscribe(id string)
}

type page int

const (
	pageDashboard page = iota
	pageDetail
)

type stateMsg viewstate.State

type detailMsg detail.Update

type closedMsg struct{}

// Config holds TUI configuration.
type Config struct {
	Locale   language.Tag
	PageSize int
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctrl    Controller
	details DetailSession
	logger  *slog.Logger

	stateSub  string
	stateCh   <-chan viewstate.State
	detailSub string
	detailCh  <-chan detail.Update

	state   viewstate.State
	update  detail.Update
	view    *table.View
	rows    table.Page
	grid    btable.Model
	sortCol int

	// focus is 0 for the table, or 1+i for hotOrder[i].
	focus     int
	hotCursor int

	page    page
	err     string
	width   int
	height  int
	spinner spinner.Model
	help    help.Model

	hot       map[model.HotSectionType]*boundary.Boundary
	tableB    *boundary.Boundary
	detailB   *boundary.Boundary
	renderHot func(s model.HotSection, width, cursor int) (string, error)
	renderTab func(Model, table.Page) (string, error)
}

// New creates the model and subscribes to both the controller and the detail
// session. Call Close when the program exits.
func New(cfg Config, ctrl Controller, details DetailSession, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Model{
		ctrl:    ctrl,
		details: details,
		logger:  logger,
		view:    table.NewView(cfg.Locale, cfg.PageSize),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		hot:     make(map[model.HotSectionType]*boundary.Boundary),
		tableB:  boundary.New("table", logger),
		detailB: boundary.New("detail", logger),
	}
	for _, typ := range hotOrder {
		m.hot[typ] = boundary.New(string(typ), logger)
	}
	m.renderHot = renderHotSection
	m.renderTab = Model.renderTable

	m.grid = btable.New(
		btable.WithColumns(gridColumns()),
		btable.WithFocused(true),
		btable.WithHeight(m.view.PageSize()),
	)

	m.stateSub, m.stateCh = ctrl.Subscribe()
	m.detailSub, m.detailCh = details.Subscribe()
	m.applyState(ctrl.State())
	m.update = details.Current()
	return m
}

// Close releases the subscriptions.
func (m *Model) Close() {
	m.ctrl.Unsubscribe(m.stateSub)
	m.details.Unsubscribe(m.detailSub)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitState(m.stateCh), waitDetail(m.detailCh))
}

func waitState(ch <-chan viewstate.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return stateMsg(s)
	}
}

func waitDetail(ch <-chan detail.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return detailMsg(u)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.applyState(viewstate.State(msg))
		return m, waitState(m.stateCh)

	case detailMsg:
		m.update = detail.Update(msg)
		return m, waitDetail(m.detailCh)

	case closedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Retry):
		m.resetBoundaries()
		if m.page == pageDetail {
			m.details.Reload()
		}
		return m, nil
	}

	if m.page == pageDetail {
		m.handleDetailKey(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.NextTag):
		m.shiftTag(1)
	case key.Matches(msg, keys.PrevTag):
		m.shiftTag(-1)
	case key.Matches(msg, keys.Focus):
		m.cycleFocus()
	case key.Matches(msg, keys.NextPage):
		m.turnPage(1)
	case key.Matches(msg, keys.PrevPage):
		m.turnPage(-1)
	case key.Matches(msg, keys.Column):
		m.sortCol = (m.sortCol + 1) % len(columns)
	case key.Matches(msg, keys.Order):
		m.cycleOrder()
	case key.Matches(msg, keys.Open):
		if m.focus > 0 {
			m.openHot()
		} else {
			m.openSelected()
		}
	case m.focus > 0 && key.Matches(msg, keys.Up):
		m.moveHotCursor(-1)
	case m.focus > 0 && key.Matches(msg, keys.Down):
		m.moveHotCursor(1)
	case key.Matches(msg, keys.Up, keys.Down):
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) {
	var kind model.ChartKind
	switch {
	case key.Matches(msg, keys.Back):
		m.page = pageDashboard
		return
	case key.Matches(msg, keys.Intraday):
		kind = model.ChartIntraday
	case key.Matches(msg, keys.FiveDay):
		kind = model.ChartFiveDay
	case key.Matches(msg, keys.Daily):
		kind = model.ChartDaily
	default:
		return
	}
	if err := m.details.SetMode(kind); err != nil {
		m.err = err.Error()
	}
}

// applyState adopts a controller snapshot. A tag change clears the sort and
// returns to page 1.
func (m *Model) applyState(s viewstate.State) {
	m.state = s
	if m.view.ResetForTag(s.Tag) {
		m.grid.SetCursor(0)
	}
	m.refresh()
	m.clampHotCursor()
}

// refresh recomputes the visible page and feeds the grid.
func (m *Model) refresh() {
	var records []model.InstrumentRecord
	if m.state.Batch != nil {
		records = m.state.Batch.Records
	}
	m.rows = m.view.Rows(records)
	m.grid.SetRows(gridRows(m.rows.Items))
	if c := m.grid.Cursor(); c >= len(m.rows.Items) {
		m.grid.SetCursor(max(len(m.rows.Items)-1, 0))
	}
}

func (m *Model) shiftTag(delta int) {
	idx := 0
	for i, t := range model.AllTags {
		if t == m.state.Tag {
			idx = i
			break
		}
	}
	n := len(model.AllTags)
	next := model.AllTags[((idx+delta)%n+n)%n]
	if err := m.ctrl.SetTag(next); err != nil {
		m.err = err.Error()
		m.logger.Warn("set tag failed", "tag", next, "error", err)
	}
}

func (m *Model) turnPage(delta int) {
	p := m.view.Page() + delta
	if p < 1 || (delta > 0 && p > m.rows.Pages) {
		return
	}
	if err := m.view.Paginate(&p, nil); err != nil {
		m.err = err.Error()
		return
	}
	m.grid.SetCursor(0)
	m.refresh()
}

// cycleOrder steps the selected column through asc, desc and unsorted.
// Selecting a different column starts at asc.
func (m *Model) cycleOrder() {
	field := columns[m.sortCol].field
	if !table.Sortable(field) {
		m.err = "column " + columns[m.sortCol].title + " is not sortable"
		return
	}

	active, dir := m.view.SortField()
	var next *table.Direction
	switch {
	case active != field:
		d := table.Asc
		next = &d
	case dir == table.Asc:
		d := table.Desc
		next = &d
	}
	m.view.Sort(field, next)
	m.refresh()
}

func (m *Model) openSelected() {
	c := m.grid.Cursor()
	if c < 0 || c >= len(m.rows.Items) {
		return
	}
	m.details.SelectCode(m.rows.Items[c].CategoryCode)
	m.detailB.Reset()
	m.page = pageDetail
}

// cycleFocus moves between the table and the four leaderboards.
func (m *Model) cycleFocus() {
	m.focus = (m.focus + 1) % (len(hotOrder) + 1)
	m.hotCursor = 0
	if m.focus == 0 {
		m.grid.Focus()
	} else {
		m.grid.Blur()
	}
}

// focusedSection returns the leaderboard holding focus.
func (m *Model) focusedSection() (model.HotSection, bool) {
	if m.focus == 0 {
		return model.HotSection{}, false
	}
	typ := hotOrder[m.focus-1]
	for _, s := range m.state.HotSections {
		if s.Type == typ {
			return s, true
		}
	}
	return model.HotSection{}, false
}

func (m *Model) moveHotCursor(delta int) {
	s, ok := m.focusedSection()
	if !ok {
		return
	}
	m.hotCursor = min(max(m.hotCursor+delta, 0), max(len(s.Data)-1, 0))
}

func (m *Model) clampHotCursor() {
	s, _ := m.focusedSection()
	m.hotCursor = min(m.hotCursor, max(len(s.Data)-1, 0))
}

func (m *Model) openHot() {
	s, ok := m.focusedSection()
	if !ok || m.hotCursor >= len(s.Data) {
		return
	}
	m.details.SelectCode(s.Data[m.hotCursor].CategoryCode)
	m.detailB.Reset()
	m.page = pageDetail
}

func (m *Model) resetBoundaries() {
	for _, b := range m.hot {
		b.Reset()
	}
	m.tableB.Reset()
	m.detailB.Reset()
}

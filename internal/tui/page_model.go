package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cache"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/tui/list"
)

// DeleteFunc builds the mutation that deletes rec.
type DeleteFunc func(rec listview.Record) (pages.Mutation, error)

// pageLoadedMsg carries the outcome of one fetch generation.
type pageLoadedMsg struct {
	generation uint64
	records    []listview.Record
	err        error
}

// mutationDoneMsg reports a finished mutation.
type mutationDoneMsg struct {
	name string
	err  error
}

// PageModel is the interactive hosting page. All list state lives in the
// page controller; the model translates keys into state changes and fetch
// results into controller completions.
type PageModel struct {
	ctx  context.Context
	ctrl *pages.Controller
	def  pages.Definition

	state   ViewState
	loading *LoadingState

	table table.Model
	feed  *list.Model[listview.Record]

	input       textinput.Model
	filtering   bool
	filterField int

	onDelete DeleteFunc
	pending  listview.Record

	notice string
	err    error

	width  int
	height int
}

// NewPageModel creates the view for ctrl. ctx bounds every fetch and is
// usually the command context.
func NewPageModel(ctx context.Context, ctrl *pages.Controller) *PageModel {
	ti := textinput.New()
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth

	m := &PageModel{
		ctx:     ctx,
		ctrl:    ctrl,
		def:     ctrl.Definition(),
		state:   ViewStateLoading,
		loading: NewLoadingState().WithMessage("Loading " + ctrl.Definition().Title + "..."),
		input:   ti,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.rebuild()
	return m
}

// WithDelete enables the delete key.
func (m *PageModel) WithDelete(fn DeleteFunc) *PageModel {
	m.onDelete = fn
	return m
}

// Init starts the spinner and the first fetch.
func (m *PageModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetch())
}

func (m *PageModel) fetch() tea.Cmd {
	gen, ctx := m.ctrl.Begin(m.ctx)
	return m.fetchCmd(gen, ctx)
}

func (m *PageModel) refetchAfterMutation() tea.Cmd {
	gen, ctx := m.ctrl.BeginRefresh(m.ctx)
	return m.fetchCmd(gen, ctx)
}

func (m *PageModel) fetchCmd(gen uint64, ctx context.Context) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		records, err := ctrl.Fetch(ctx)
		return pageLoadedMsg{generation: gen, records: records, err: err}
	}
}

// Update handles messages.
func (m *PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuild()
		return m, nil
	case pageLoadedMsg:
		return m.handleLoaded(msg)
	case mutationDoneMsg:
		return m.handleMutationDone(msg)
	}

	if m.filtering {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateConfirm:
		return m.handleConfirmUpdate(msg)
	case ViewStateError, ViewStateQuitting:
		return m.handleQuitUpdate(msg)
	default:
		return m, nil
	}
}

func (m *PageModel) handleLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	res, err := m.ctrl.Complete(m.ctx, msg.generation, msg.records, msg.err)
	if !res.Applied && err == nil {
		return m, nil
	}
	m.notice = ""
	switch {
	case err != nil && errors.Is(err, api.ErrUnauthorized):
		m.notice = "Not authorized: run `taskdeck login`"
	case err != nil:
		m.notice = "Refresh failed: " + err.Error()
	case res.FromCache:
		m.notice = fmt.Sprintf("Offline: showing cached data from %s ago", cache.FormatAge(res.Age))
	}
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}
	m.rebuild()
	return m, nil
}

func (m *PageModel) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notice = msg.name + " failed: " + msg.err.Error()
		return m, nil
	}
	m.notice = msg.name + " done"
	return m, m.refetchAfterMutation()
}

func (m *PageModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == keyQuit || key.String() == keyCtrlC) {
		return m.quit()
	}
	return m, m.loading.Update(msg)
}

func (m *PageModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyEnter:
			m.filtering = false
			m.input.Blur()
			m.setFilter(m.textFilterFields()[m.filterField], m.input.Value())
			return m, nil
		case keyEsc:
			m.filtering = false
			m.input.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

//nolint:gocyclo // One branch per key binding.
func (m *PageModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	state := m.ctrl.State()

	switch key.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keySlash:
		fields := m.textFilterFields()
		if len(fields) == 0 {
			return m, nil
		}
		m.filtering = true
		m.input.Placeholder = "filter " + fields[m.filterField]
		m.input.SetValue(state.Filter().Value(fields[m.filterField]))
		return m, m.input.Focus()
	case keyField:
		if n := len(m.textFilterFields()); n > 0 {
			m.filterField = (m.filterField + 1) % n
		}
	case keyTab:
		m.cycleChoice()
	case keyClear:
		state.ClearFilters()
	case keyS:
		m.cycleSort()
	case keyShiftS:
		if f := state.Sort().Field; f != "" {
			m.report(state.SetSort(f))
		}
	case keyNext, keyRight:
		state.NextPage()
	case keyPrev, keyLeft:
		state.PrevPage()
	case keyPlus:
		m.stepPageSize(1)
	case keyMinus:
		m.stepPageSize(-1)
	case keyRefresh:
		m.notice = ""
		m.rebuild()
		return m, m.fetch()
	case keyDelete:
		if rec, ok := m.selected(); ok && m.onDelete != nil {
			m.pending = rec
			m.state = ViewStateConfirm
		}
		return m, nil
	case keyEnter:
		if _, ok := m.selected(); ok {
			m.state = ViewStateDetail
		}
		return m, nil
	default:
		return m.forwardNavigation(msg)
	}
	m.rebuild()
	return m, nil
}

func (m *PageModel) forwardNavigation(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.def.Layout == pages.LayoutFeed {
		m.feed.Update(msg)
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *PageModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyQuit, keyCtrlC:
			return m.quit()
		case keyEsc, keyEnter:
			m.state = ViewStateList
		}
	}
	return m, nil
}

func (m *PageModel) handleConfirmUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case keyCtrlC:
		return m.quit()
	case keyYes:
		m.state = ViewStateList
		mutation, err := m.onDelete(m.pending)
		m.pending = nil
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		ctrl, ctx := m.ctrl, m.ctx
		return m, func() tea.Msg {
			return mutationDoneMsg{name: mutation.Name, err: ctrl.Apply(ctx, mutation)}
		}
	case keyNo, keyEsc:
		m.state = ViewStateList
		m.pending = nil
	}
	return m, nil
}

func (m *PageModel) handleQuitUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == keyQuit || key.String() == keyCtrlC) {
		return m.quit()
	}
	return m, nil
}

// quit detaches the page so late fetch results are dropped.
func (m *PageModel) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Detach()
	m.state = ViewStateQuitting
	return m, tea.Quit
}

func (m *PageModel) report(err error) {
	if err != nil {
		m.notice = err.Error()
	}
}

func (m *PageModel) setFilter(field, value string) {
	m.report(m.ctrl.State().SetFilter(field, value))
	m.rebuild()
}

// textFilterFields returns the substring filter fields in declaration order.
func (m *PageModel) textFilterFields() []string {
	var out []string
	for _, f := range m.def.Filters {
		if f.Kind == listview.MatchSubstring {
			out = append(out, f.Name)
		}
	}
	return out
}

// cycleChoice advances the first enum filter through ALL and its choices.
func (m *PageModel) cycleChoice() {
	for _, f := range m.def.Filters {
		if f.Kind != listview.MatchEqual || len(f.Choices) == 0 {
			continue
		}
		options := append([]string{listview.Wildcard}, f.Choices...)
		current := max(slices.Index(options, m.ctrl.State().Filter().Value(f.Name)), 0)
		next := options[(current+1)%len(options)]
		m.report(m.ctrl.State().SetFilter(f.Name, next))
		return
	}
}

// cycleSort moves to the next sortable field, ascending.
func (m *PageModel) cycleSort() {
	fields := m.ctrl.State().SortFields()
	if len(fields) == 0 {
		return
	}
	current := slices.Index(fields, m.ctrl.State().Sort().Field)
	next := fields[(current+1)%len(fields)]
	m.report(m.ctrl.State().SetSortSpec(listview.SortSpec{Field: next, Direction: listview.Ascending}))
}

// stepPageSize moves through the page's offered sizes.
func (m *PageModel) stepPageSize(step int) {
	sizes := m.def.PageSizes
	if len(sizes) == 0 {
		return
	}
	current := slices.Index(sizes, m.ctrl.State().Page().PageSize)
	next := current + step
	if current < 0 {
		next = 0
	}
	if next < 0 || next >= len(sizes) {
		return
	}
	m.report(m.ctrl.State().SetPageSize(sizes[next]))
}

// selected returns the record under the cursor.
func (m *PageModel) selected() (listview.Record, bool) {
	visible := m.ctrl.State().View().Visible
	if len(visible) == 0 {
		return nil, false
	}
	if m.def.Layout == pages.LayoutFeed {
		return m.feed.SelectedItem()
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(visible) {
		return nil, false
	}
	return visible[i], true
}

// rebuild refreshes the table or feed from the current derived view.
func (m *PageModel) rebuild() {
	view := m.ctrl.State().View()
	bodyHeight := max(m.height-chromeHeight, minHeight)

	if m.def.Layout == pages.LayoutFeed {
		// Feed entries take two lines each.
		rows := max(bodyHeight/2, 1)
		if m.feed == nil {
			m.feed = list.New(view.Visible, rows, m.width, m.renderFeedItem)
			return
		}
		m.feed.SetItems(view.Visible)
		m.feed.SetHeight(rows)
		return
	}

	cursor := m.table.Cursor()
	m.table = newRecordTable(m.def, m.ctrl.State().Sort(), view.Visible, bodyHeight)
	if cursor > 0 && cursor < len(view.Visible) {
		m.table.SetCursor(cursor)
	}
}

// State returns the current screen.
func (m *PageModel) State() ViewState { return m.state }

// Notice returns the transient message shown under the list.
func (m *PageModel) Notice() string { return m.notice }

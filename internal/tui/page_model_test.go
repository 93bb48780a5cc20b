package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
)

func taskRecords(n int) []listview.Record {
	statuses := api.TaskStatuses()
	out := make([]listview.Record, n)
	for i := range n {
		out[i] = listview.Record{
			"id":     int64(i + 1),
			"title":  fmt.Sprintf("Task %d", i+1),
			"status": statuses[i%len(statuses)],
		}
	}
	return out
}

func newTestPage(t *testing.T, name string) *PageModel {
	t.Helper()
	def, err := pages.Lookup(name)
	require.NoError(t, err)
	def.Fetch = func(context.Context, pages.Env) ([]listview.Record, error) {
		return nil, errors.New("not used")
	}
	ctrl, err := pages.NewController(def, pages.Env{TaskID: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(ctrl.Detach)

	m := NewPageModel(context.Background(), ctrl)
	require.NotNil(t, m.Init())
	return m
}

// deliver completes the current fetch generation.
func deliver(m *PageModel, records []listview.Record, err error) {
	gen := m.ctrl.State().Generation()
	m.Update(pageLoadedMsg{generation: gen, records: records, err: err})
}

func press(m *PageModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case keyEnter:
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case keyEsc:
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case keyTab:
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case keyCtrlC:
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestPageModel_Load(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading "+m.ctrl.Definition().Title)
	assert.Contains(t, m.View(), "Loading All Tasks")

	deliver(m, taskRecords(7), nil)

	assert.Equal(t, ViewStateList, m.State())
	out := m.View()
	assert.Contains(t, out, "Page 1/2")
	assert.Contains(t, out, "7 of 7 records")
	assert.Contains(t, out, "sort: title:asc")
	assert.Contains(t, out, "Title"+sortAscIndicator)
}

func TestPageModel_IgnoresSupersededResults(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	stale := m.ctrl.State().Generation()
	m.fetch()

	m.Update(pageLoadedMsg{generation: stale, records: taskRecords(3)})
	assert.Equal(t, ViewStateLoading, m.State())
	assert.False(t, m.ctrl.State().Loaded())
}

func TestPageModel_Keys(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		check func(t *testing.T, s *listview.State)
	}{
		{
			name: "next stops at the last page",
			keys: []string{keyNext, keyNext},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, 2, s.View().CurrentPage)
			},
		},
		{
			name: "previous stops at the first page",
			keys: []string{keyNext, keyPrev, keyPrev},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, 1, s.View().CurrentPage)
			},
		},
		{
			name: "sort moves to the next field",
			keys: []string{keyS},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, listview.SortSpec{Field: "status"}, s.Sort())
			},
		},
		{
			name: "shift-s reverses",
			keys: []string{keyShiftS},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, listview.SortSpec{Field: "title", Direction: listview.Descending}, s.Sort())
			},
		},
		{
			name: "tab cycles the status filter",
			keys: []string{keyTab, keyTab},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, api.StatusInProgress, s.Filter().Value("status"))
				assert.Equal(t, 2, s.View().TotalFiltered)
			},
		},
		{
			name: "tab wraps back to all",
			keys: []string{keyTab, keyTab, keyTab, keyTab},
			check: func(t *testing.T, s *listview.State) {
				assert.True(t, s.Filter().IsIdentity())
			},
		},
		{
			name: "typed filter",
			keys: []string{keySlash, "5", keyEnter},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, "5", s.Filter().Value("title"))
				assert.Equal(t, 1, s.View().TotalFiltered)
			},
		},
		{
			name: "escape abandons the filter",
			keys: []string{keySlash, "5", keyEsc},
			check: func(t *testing.T, s *listview.State) {
				assert.True(t, s.Filter().IsIdentity())
			},
		},
		{
			name: "clear resets filters and page",
			keys: []string{keyTab, keyNext, keyClear},
			check: func(t *testing.T, s *listview.State) {
				assert.True(t, s.Filter().IsIdentity())
				assert.Equal(t, 1, s.View().CurrentPage)
			},
		},
		{
			name: "page size steps through the offered sizes",
			keys: []string{keyPlus, keyPlus, keyPlus},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, 20, s.Page().PageSize)
				assert.Equal(t, 1, s.View().TotalPages)
			},
		},
		{
			name: "page size stops at the smallest",
			keys: []string{keyMinus, keyMinus, keyMinus},
			check: func(t *testing.T, s *listview.State) {
				assert.Equal(t, 5, s.Page().PageSize)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestPage(t, pages.PageTasks)
			deliver(m, taskRecords(7), nil)
			press(m, tt.keys...)
			tt.check(t, m.ctrl.State())
		})
	}
}

func TestPageModel_FieldKeyChangesFilterField(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	deliver(m, taskRecords(7), nil)

	press(m, keyField)
	assert.Contains(t, m.View(), "field: categoryName")
	press(m, keyField)
	assert.Contains(t, m.View(), "field: title")
}

func TestPageModel_FetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		notice string
	}{
		{
			name:   "fetch error keeps records",
			err:    &api.FetchError{Op: "list tasks", Status: 502},
			notice: "Refresh failed",
		},
		{
			name:   "unauthorized suggests login",
			err:    &api.AuthorizationError{Op: "list tasks", Status: 401},
			notice: "taskdeck login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestPage(t, pages.PageTasks)
			deliver(m, taskRecords(7), nil)

			press(m, keyRefresh)
			deliver(m, nil, tt.err)

			assert.Contains(t, m.Notice(), tt.notice)
			assert.Len(t, m.ctrl.State().Records(), 7)
			assert.Contains(t, m.View(), tt.notice)
		})
	}
}

func TestPageModel_Detail(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	deliver(m, taskRecords(7), nil)

	press(m, "down", keyEnter)
	assert.Equal(t, ViewStateDetail, m.State())
	assert.Contains(t, m.View(), "Tasks #2")
	assert.Contains(t, m.View(), "Task 2")

	press(m, keyEsc)
	assert.Equal(t, ViewStateList, m.State())
}

func TestPageModel_DeleteConfirm(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	var deleted []string
	m.WithDelete(func(rec listview.Record) (pages.Mutation, error) {
		id := rec.ID()
		return pages.Mutation{
			Name: "tasks delete",
			Run: func(context.Context, *api.Client) error {
				deleted = append(deleted, id)
				return nil
			},
		}, nil
	})
	deliver(m, taskRecords(7), nil)

	press(m, keyDelete)
	assert.Equal(t, ViewStateConfirm, m.State())
	assert.Contains(t, m.View(), `Delete "Task 1" (#1)?`)

	press(m, keyNo)
	assert.Equal(t, ViewStateList, m.State())
	assert.Empty(t, deleted)

	press(m, keyDelete)
	cmd := press(m, keyYes)
	require.NotNil(t, cmd)
	done, ok := cmd().(mutationDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, []string{"1"}, deleted)

	before := m.ctrl.State().Generation()
	_, refetch := m.Update(done)
	assert.NotNil(t, refetch)
	assert.Equal(t, before+1, m.ctrl.State().Generation())
	assert.Equal(t, "tasks delete done", m.Notice())
}

func TestPageModel_FailedMutationKeepsPage(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	deliver(m, taskRecords(7), nil)
	before := m.ctrl.State().Generation()

	_, cmd := m.Update(mutationDoneMsg{name: "tasks delete", err: api.ErrValidation})
	assert.Nil(t, cmd)
	assert.Equal(t, before, m.ctrl.State().Generation())
	assert.Contains(t, m.Notice(), "tasks delete failed")
}

func TestPageModel_QuitDetaches(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	deliver(m, taskRecords(3), nil)

	cmd := press(m, keyQuit)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.True(t, m.ctrl.State().Detached())
	assert.Empty(t, m.View())

	deliver(m, taskRecords(7), nil)
	assert.Len(t, m.ctrl.State().Records(), 3, "results after quit are dropped")
}

func TestPageModel_FeedLayout(t *testing.T) {
	m := newTestPage(t, pages.PageNotifications)
	deliver(m, []listview.Record{
		{"id": 1, "message": "older note", "seen": true, "createdAt": "2024-01-01T10:00:00"},
		{"id": 2, "message": "newer note", "seen": false, "createdAt": "2024-02-01T10:00:00"},
	}, nil)

	out := m.View()
	assert.Contains(t, out, "> ")
	assert.Contains(t, out, "newer note")
	assert.Contains(t, out, "older note")

	rec, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "2", rec.ID(), "newest first")
}

func TestPageModel_EmptyStates(t *testing.T) {
	m := newTestPage(t, pages.PageTasks)
	deliver(m, nil, nil)
	assert.Contains(t, m.View(), "Nothing to show.")

	m = newTestPage(t, pages.PageTasks)
	deliver(m, taskRecords(2), nil)
	press(m, keySlash, "zzz", keyEnter)
	assert.Contains(t, m.View(), "No records match")
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/tui/detail"
)

const (
	sortAscIndicator  = " ▲"
	sortDescIndicator = " ▼"

	listHelp   = "/ filter • f field • tab status • c clear • s sort • S reverse • n/p page • +/- size • r refresh • enter open • q quit"
	detailHelp = "esc back • q quit"
)

// View renders the current screen.
func (m *PageModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateConfirm:
		return m.renderConfirmView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m *PageModel) renderListView() string {
	sections := []string{HeaderStyle.Render(m.def.Title)}

	view := m.ctrl.State().View()
	switch {
	case view.TotalFiltered == 0 && len(m.ctrl.State().Records()) > 0:
		sections = append(sections, SubtleStyle.Render("No records match the current filters."))
	case view.TotalFiltered == 0:
		sections = append(sections, SubtleStyle.Render("Nothing to show."))
	case m.def.Layout == pages.LayoutFeed:
		sections = append(sections, m.feed.View())
	default:
		sections = append(sections, m.table.View())
	}

	sections = append(sections, m.renderStatusBar(view))
	if m.filtering {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.input.View())
	}
	if m.notice != "" {
		sections = append(sections, WarningStyle.Render(m.notice))
	}
	sections = append(sections, SubtleStyle.Render(listHelp))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar shows the page position, counts, sort and active filters.
func (m *PageModel) renderStatusBar(view listview.DerivedView) string {
	parts := []string{
		fmt.Sprintf("Page %d/%d", view.CurrentPage, view.TotalPages),
		fmt.Sprintf("%d of %d records", view.TotalFiltered, len(m.ctrl.State().Records())),
		fmt.Sprintf("%d per page", view.PageSize),
	}
	if s := m.ctrl.State().Sort(); s.Field != "" {
		parts = append(parts, "sort: "+s.String())
	}

	var filters []string
	for _, p := range m.ctrl.State().Filter().Active() {
		filters = append(filters, p.Name+"="+p.Value)
	}
	if len(filters) > 0 {
		parts = append(parts, "filter: "+strings.Join(filters, ", "))
	}
	if fields := m.textFilterFields(); len(fields) > 0 {
		parts = append(parts, "field: "+fields[m.filterField])
	}

	return LabelStyle.Render(strings.Join(parts, " | "))
}

func (m *PageModel) renderDetailView() string {
	rec, ok := m.selected()
	if !ok {
		return SubtleStyle.Render("Nothing selected.")
	}
	fields := make([]detail.Field, 0, len(m.def.Columns))
	for _, c := range m.def.Columns {
		fields = append(fields, detail.Field{Name: c.Field, Label: c.Title})
	}
	title := m.def.Title + " #" + rec.ID()
	body := detail.Render(title, rec, fields, m.width-borderPadding)
	return lipgloss.JoinVertical(lipgloss.Left,
		BoxStyle.Width(m.width-borderPadding).Render(body),
		SubtleStyle.Render(detailHelp),
	)
}

func (m *PageModel) renderConfirmView() string {
	label := m.pending.String(m.def.Columns[0].Field)
	if len(m.def.Columns) > 1 {
		label = m.pending.String(m.def.Columns[1].Field)
	}
	prompt := fmt.Sprintf("Delete %q (#%s)? [y/n]", label, m.pending.ID())
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(m.def.Title),
		WarningStyle.Render(prompt),
	)
}

// borderPadding is the horizontal space taken by a box border.
const borderPadding = 2

// newRecordTable builds the table of the current page, marking the sorted
// column in its header.
func newRecordTable(def pages.Definition, sort listview.SortSpec, records []listview.Record, height int) table.Model {
	columns := make([]table.Column, len(def.Columns))
	for i, c := range def.Columns {
		title := c.Title
		if c.Field == sort.Field {
			if sort.Direction == listview.Descending {
				title += sortDescIndicator
			} else {
				title += sortAscIndicator
			}
		}
		columns[i] = table.Column{Title: title, Width: c.Width}
	}

	rows := make([]table.Row, len(records))
	for i, r := range records {
		row := make(table.Row, len(def.Columns))
		for j, c := range def.Columns {
			value := r.String(c.Field)
			if c.Field == "status" {
				value = statusStyle(value).Render(value)
			}
			row[j] = value
		}
		rows[i] = row
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// renderFeedItem renders one feed entry: a header line with the leading
// columns and the last column as body.
func (m *PageModel) renderFeedItem(rec listview.Record, selected bool) string {
	cols := m.def.Columns
	if len(cols) == 0 {
		return rec.ID()
	}

	var meta []string
	last := cols[len(cols)-1]
	for _, c := range cols[:len(cols)-1] {
		if v := rec.String(c.Field); v != "" {
			meta = append(meta, c.Title+": "+v)
		}
	}
	header := LabelStyle.Render(strings.Join(meta, "  "))
	body := rec.String(last.Field)

	marker := "  "
	if selected {
		marker = "> "
		body = TableSelectedStyle.Render(body)
	}
	return marker + header + "\n  " + body
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rshade/taskdeck/internal/cli/pagination"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/tui"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

//nolint:gochecknoglobals // Lookup table.
var outputFormats = []string{FormatTable, FormatJSON, FormatNDJSON}

// resolveFormat returns flagValue, or the configured default when empty.
func resolveFormat(flagValue string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flagValue))
	if f == "" {
		f = config.GetDefaultOutputFormat()
	}
	if !slices.Contains(outputFormats, f) {
		return "", fmt.Errorf("%w: unsupported output format %q (use %s)", ErrUsage, f, strings.Join(outputFormats, ", "))
	}
	return f, nil
}

// pageOutput is the JSON document written for a page.
type pageOutput struct {
	Page       string                    `json:"page"`
	Sort       string                    `json:"sort,omitempty"`
	Filters    map[string]string         `json:"filters,omitempty"`
	Records    []listview.Record         `json:"records"`
	Pagination pagination.PaginationMeta `json:"pagination"`
}

// renderPage writes the current view of a page in format.
func renderPage(w io.Writer, format string, def pages.Definition, state *listview.State) error {
	view := state.View()
	var err error
	switch format {
	case FormatJSON:
		err = renderPageJSON(w, def, state, view)
	case FormatNDJSON:
		err = renderPageNDJSON(w, view)
	default:
		err = renderPageTable(w, def, state, view)
	}
	if isBrokenPipe(err) {
		return nil
	}
	return err
}

func renderPageJSON(w io.Writer, def pages.Definition, state *listview.State, view listview.DerivedView) error {
	out := pageOutput{
		Page:       def.Name,
		Sort:       state.Sort().String(),
		Records:    view.Visible,
		Pagination: pagination.NewPaginationMeta(view),
	}
	if out.Records == nil {
		out.Records = []listview.Record{}
	}
	if active := state.Filter().Active(); len(active) > 0 {
		out.Filters = make(map[string]string, len(active))
		for _, p := range active {
			out.Filters[p.Name] = p.Value
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderPageNDJSON writes one record per line and no pagination metadata.
func renderPageNDJSON(w io.Writer, view listview.DerivedView) error {
	enc := json.NewEncoder(w)
	for _, r := range view.Visible {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func renderPageTable(w io.Writer, def pages.Definition, state *listview.State, view listview.DerivedView) error {
	if tui.StyledWriter(w) {
		fmt.Fprintln(w, tui.HeaderStyle.Render(def.Title))
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	titles := make([]string, len(def.Columns))
	rules := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		titles[i] = strings.ToUpper(c.Title)
		rules[i] = strings.Repeat("-", len(c.Title))
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))

	for _, r := range view.Visible {
		cells := make([]string, len(def.Columns))
		for i, c := range def.Columns {
			cells[i] = cell(r.String(c.Field), c.Width)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("\nPage %d of %d (%d of %d records)",
		view.CurrentPage, view.TotalPages, view.TotalFiltered, len(state.Records()))
	if s := state.Sort().String(); s != "" {
		footer += ", sorted by " + s
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

// cell truncates v to width runes, marking the cut with an ellipsis.
func cell(v string, width int) string {
	if v == "" {
		return "-"
	}
	v = strings.ReplaceAll(v, "\n", " ")
	runes := []rune(v)
	if width <= 1 || len(runes) <= width {
		return v
	}
	return string(runes[:width-1]) + "…"
}

// isBrokenPipe reports whether err is EPIPE, which happens when output is
// piped to a command like `head` that exits early.
func isBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE
	}
	return strings.Contains(err.Error(), "broken pipe")
}

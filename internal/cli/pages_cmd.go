package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/session"
)

// NewPagesCmd creates the pages command, which lists the pages the current
// session may open.
func NewPagesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List the pages available to your role",
		Long: `Lists the list pages your role may open with 'taskdeck list'.
When nobody is logged in, every page is shown with the roles it needs.`,
		Example: `  taskdeck pages
  taskdeck pages --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPages(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show filters, sorts and page sizes")

	return cmd
}

func runPages(cmd *cobra.Command, verbose bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defs := pages.All()
	sess, err := a.sessions.Load()
	switch {
	case err == nil:
		defs = pages.VisibleTo(sess)
	case !errors.Is(err, session.ErrNoSession):
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
	if verbose {
		fmt.Fprintln(w, "Page\tFilters\tSorts\tDefault sort\tPage sizes")
		fmt.Fprintln(w, "----\t-------\t-----\t------------\t----------")
		for _, d := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				d.Name, describeFilters(d.Filters), describeSorts(d.Sorts), d.DefaultSort, describeSizes(d))
		}
		return w.Flush()
	}

	fmt.Fprintln(w, "Page\tRoles\tDescription")
	fmt.Fprintln(w, "----\t-----\t-----------")
	for _, d := range defs {
		roles := "all"
		if len(d.Roles) > 0 {
			roles = strings.Join(d.Roles, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, roles, d.Description)
	}
	return w.Flush()
}

func describeFilters(fields []listview.FilterField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f.Choices) > 0 {
			parts = append(parts, fmt.Sprintf("%s(%s)", f.Name, strings.Join(f.Choices, "|")))
			continue
		}
		parts = append(parts, f.Name)
	}
	return strings.Join(parts, ", ")
}

func describeSorts(fields []listview.SortField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Name)
	}
	return strings.Join(parts, ", ")
}

func describeSizes(d pages.Definition) string {
	parts := make([]string, 0, len(d.PageSizes))
	for _, n := range d.PageSizes {
		s := fmt.Sprint(n)
		if n == d.PageSize {
			s += "*"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/tui"
)

// NewDashboardCmd creates the dashboard command, the admin overview of task
// and user counts.
func NewDashboardCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show task and user counts (admin)",
		Example: `  taskdeck dashboard
  taskdeck dashboard --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(output)
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			if !a.sess.IsAdmin() {
				return fmt.Errorf("%w: dashboard requires role ADMIN", pages.ErrPageForbidden)
			}

			d, err := pages.LoadDashboard(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != FormatTable {
				enc := json.NewEncoder(out)
				if format == FormatJSON {
					enc.SetIndent("", "  ")
				}
				return enc.Encode(d)
			}
			if tui.StyledWriter(out) {
				fmt.Fprintln(out, tui.HeaderStyle.Render("taskdeck"))
			}
			return d.Render(out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson")
	return cmd
}

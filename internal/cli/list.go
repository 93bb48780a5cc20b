package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/cli/pagination"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/tui"
)

// NewListCmd creates the list command, which shows one page of a list.
func NewListCmd() *cobra.Command {
	var (
		params      = pagination.NewPaginationParams()
		output      string
		taskID      int64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "list <page>",
		Short: "Show a filtered, sorted page of a list",
		Long: `Fetches a list from the backend and shows one page of it.

Filters, sort and page size start from the page defaults, overlaid with the
views section of the configuration and finally with the flags. Run
'taskdeck pages' for the pages your role can open and their fields.`,
		Example: `  # Pending tasks, newest due date first
  taskdeck list tasks --filter status=PENDING --sort dueDate:desc

  # Second page of users as JSON
  taskdeck list users --page 2 --output json

  # Comments on task 12, browsed interactively
  taskdeck list comments --task 12 --interactive`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: pages.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return runInteractiveList(cmd, args[0], taskID, params)
			}
			return runList(cmd, args[0], taskID, params, output)
		},
	}

	params.AddFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson")
	cmd.Flags().Int64Var(&taskID, "task", 0, "task id for task-scoped pages (comments)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the page in the terminal UI")

	return cmd
}

func runList(cmd *cobra.Command, page string, taskID int64, params *pagination.PaginationParams, output string) error {
	ctx := cmd.Context()
	format, err := resolveFormat(output)
	if err != nil {
		return err
	}
	ctrl, err := openListPage(ctx, page, taskID, params)
	if err != nil {
		return err
	}

	res, err := ctrl.Load(ctx)
	if err != nil {
		return err
	}
	reportCacheFallback(cmd, res)
	params.SelectPage(ctrl.State())
	warnIfFilteredOut(ctx, ctrl.State())

	return renderPage(cmd.OutOrStdout(), format, ctrl.Definition(), ctrl.State())
}

// runInteractiveList hosts the page in the terminal UI. The page flag is
// ignored; the view opens on page 1.
func runInteractiveList(cmd *cobra.Command, page string, taskID int64, params *pagination.PaginationParams) error {
	ctx := cmd.Context()
	ctrl, err := openListPage(ctx, page, taskID, params)
	if err != nil {
		return err
	}
	defer ctrl.Detach()

	model := tui.NewPageModel(ctx, ctrl).WithDelete(deleteAction(ctrl.Definition().Name))
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive list: %w", err)
	}
	return nil
}

func openListPage(ctx context.Context, page string, taskID int64, params *pagination.PaginationParams) (*pages.Controller, error) {
	a, err := newSignedInApp()
	if err != nil {
		return nil, err
	}
	ctrl, err := a.openPage(ctx, page, taskID)
	if err != nil {
		return nil, err
	}
	if err = applyListFlags(ctx, ctrl.State(), params); err != nil {
		ctrl.Detach()
		return nil, err
	}
	return ctrl, nil
}

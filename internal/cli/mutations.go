package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/bulk"
	"github.com/rshade/taskdeck/internal/cache"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/session"
)

// mutationFlags are shared by every mutating command.
type mutationFlags struct {
	quiet  bool
	output string
}

func (f *mutationFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "print a one-line summary instead of the refreshed page")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output format for the refreshed page: table, json or ndjson")
}

// target names the page a mutation refreshes.
type target struct {
	page   string
	taskID int64
}

// taskPage is the task list the session works from.
func taskPage(sess *session.Session) target {
	if sess.IsAdmin() {
		return target{page: pages.PageTasks}
	}
	return target{page: pages.PageMyTasks}
}

// runMutation applies m, re-fetches the target page and prints it.
func runMutation(cmd *cobra.Command, a *app, t target, flags *mutationFlags, m pages.Mutation) error {
	format, err := resolveFormat(flags.output)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ctrl, err := a.openPage(ctx, t.page, t.taskID)
	if err != nil {
		return err
	}
	res, err := ctrl.Mutate(ctx, m)
	if err != nil {
		return err
	}
	return printRefreshed(cmd, ctrl, res, format, flags.quiet, m.Name+": done")
}

// runBulkMutation applies one mutation per id, at most
// bulk.DefaultConcurrency at a time, then re-fetches once. Failures are
// reported together after the refresh.
func runBulkMutation(
	cmd *cobra.Command,
	a *app,
	t target,
	flags *mutationFlags,
	ids []int64,
	build func(id int64) pages.Mutation,
) error {
	format, err := resolveFormat(flags.output)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ctrl, err := a.openPage(ctx, t.page, t.taskID)
	if err != nil {
		return err
	}

	runner := bulk.NewRunnerWithDefaults[int64]()
	report, err := runner.Run(ctx, ids, func(ctx context.Context, id int64) error {
		return ctrl.Apply(ctx, build(id))
	})
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%s: %d succeeded, %d failed", build(0).Name, report.Succeeded, len(report.Failures))
	if report.Succeeded > 0 {
		res, refreshErr := ctrl.Refresh(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		if err = printRefreshed(cmd, ctrl, res, format, flags.quiet, summary); err != nil {
			return err
		}
	} else if flags.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), summary)
	}
	return report.Err()
}

func printRefreshed(cmd *cobra.Command, ctrl *pages.Controller, res pages.LoadResult, format string, quiet bool, summary string) error {
	reportCacheFallback(cmd, res)
	if quiet {
		view := ctrl.State().View()
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s: %d records)\n", summary, ctrl.Definition().Name, view.TotalFiltered)
		return nil
	}
	return renderPage(cmd.OutOrStdout(), format, ctrl.Definition(), ctrl.State())
}

// reportCacheFallback warns on stderr when a page shows cached records.
func reportCacheFallback(cmd *cobra.Command, res pages.LoadResult) {
	if res.FromCache {
		cmd.PrintErrf("Warning: backend unreachable, showing cached data from %s ago\n", cache.FormatAge(res.Age))
	}
}

// parseIDs parses positional ids.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not an id", ErrUsage, arg)
	}
	return id, nil
}

// deleteAction returns the delete mutation of the interactive view of page,
// or nil when the page has none.
func deleteAction(page string) func(rec listview.Record) (pages.Mutation, error) {
	var (
		name string
		run  func(ctx context.Context, c *api.Client, id int64) error
	)
	switch page {
	case pages.PageTasks, pages.PageUnassigned:
		name = "tasks delete"
		run = func(ctx context.Context, c *api.Client, id int64) error { return c.DeleteTask(ctx, id) }
	case pages.PageComments:
		name = "comments delete"
		run = func(ctx context.Context, c *api.Client, id int64) error { return c.DeleteComment(ctx, id) }
	default:
		return nil
	}
	return func(rec listview.Record) (pages.Mutation, error) {
		id, err := parseID(rec.ID())
		if err != nil {
			return pages.Mutation{}, err
		}
		return pages.Mutation{
			Name:   name,
			Target: id,
			Run: func(ctx context.Context, c *api.Client) error {
				return run(ctx, c, id)
			},
		}, nil
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/pages"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted")

// NewTasksCmd creates the tasks command group.
func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Create, change and assign tasks"}
	cmd.AddCommand(
		newTasksCreateCmd(), newTasksUpdateCmd(), newTasksDeleteCmd(),
		newTasksStatusCmd(), newTasksAssignCmd(),
	)
	return cmd
}

// taskInputFlags are the editable task fields.
type taskInputFlags struct {
	title       string
	description string
	dueDate     string
	categoryID  int64
}

func (f *taskInputFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&f.description, "description", "", "task description")
	cmd.Flags().StringVar(&f.dueDate, "due", "", "due date, e.g. 2024-06-30T17:00:00")
	cmd.Flags().Int64Var(&f.categoryID, "category", 0, "category id")
}

func (f *taskInputFlags) input() api.TaskInput {
	return api.TaskInput{
		Title:       f.title,
		Description: f.description,
		DueDate:     f.dueDate,
		CategoryID:  f.categoryID,
	}
}

func (f *taskInputFlags) params() map[string]string {
	p := map[string]string{"title": f.title}
	if f.categoryID != 0 {
		p["category"] = strconv.FormatInt(f.categoryID, 10)
	}
	return p
}

func newTasksCreateCmd() *cobra.Command {
	var (
		in    taskInputFlags
		flags mutationFlags
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a task",
		Example: `  taskdeck tasks create --title "Book venue" --due 2024-06-30T17:00:00 --category 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, taskPage(a.sess), &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Params: in.params(),
				Run: func(ctx context.Context, c *api.Client) error {
					_, err := c.CreateTask(ctx, in.input())
					return err
				},
			})
		},
	}
	in.addFlags(cmd)
	flags.addFlags(cmd)
	return cmd
}

func newTasksUpdateCmd() *cobra.Command {
	var (
		in    taskInputFlags
		flags mutationFlags
	)
	cmd := &cobra.Command{
		Use:     "update <task-id>",
		Short:   "Replace the editable fields of a task",
		Example: `  taskdeck tasks update 12 --title "Book bigger venue" --due 2024-07-15T17:00:00`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, taskPage(a.sess), &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Params: in.params(),
				Run: func(ctx context.Context, c *api.Client) error {
					_, err := c.UpdateTask(ctx, id, in.input())
					return err
				},
			})
		},
	}
	in.addFlags(cmd)
	flags.addFlags(cmd)
	return cmd
}

func newTasksDeleteCmd() *cobra.Command {
	var (
		yes   bool
		flags mutationFlags
	)
	cmd := &cobra.Command{
		Use:   "delete <task-id>...",
		Short: "Delete one or more tasks",
		Long: `Deletes tasks, several at a time. A failed delete does not stop the
others; every failure is reported once the page has been refreshed.`,
		Example: `  taskdeck tasks delete 12 13 14 --yes`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if !yes {
				q := fmt.Sprintf("Delete %d task(s)?", len(ids))
				if !Confirm(cmd.ErrOrStderr(), cmd.InOrStdin(), q).Accepted {
					return fmt.Errorf("%w: confirm with --yes", ErrAborted)
				}
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			name := commandPath(cmd)
			return runBulkMutation(cmd, a, taskPage(a.sess), &flags, ids, func(id int64) pages.Mutation {
				return pages.Mutation{
					Name:   name,
					Target: id,
					Run: func(ctx context.Context, c *api.Client) error {
						return c.DeleteTask(ctx, id)
					},
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	flags.addFlags(cmd)
	return cmd
}

func newTasksStatusCmd() *cobra.Command {
	var flags mutationFlags
	cmd := &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Move a task to PENDING, IN_PROGRESS or COMPLETED",
		Example: `  taskdeck tasks status 12 in-progress
  taskdeck tasks status 12 COMPLETED`,
		Args: cobra.ExactArgs(2), //nolint:mnd // task id and status.
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := api.NormalizeStatus(args[1])
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, taskPage(a.sess), &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Params: map[string]string{"status": status},
				Run: func(ctx context.Context, c *api.Client) error {
					return c.UpdateTaskStatus(ctx, id, status)
				},
			})
		},
	}
	flags.addFlags(cmd)
	return cmd
}

func newTasksAssignCmd() *cobra.Command {
	var flags mutationFlags
	cmd := &cobra.Command{
		Use:   "assign <task-id> <user>",
		Short: "Assign a task to a user, by id or username",
		Long: `Assigns a task to an active user. The user may be given by id or by
username (case-insensitive). The unassigned-tasks page is shown afterwards.`,
		Example: `  taskdeck tasks assign 12 alice`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // task id and user.
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			assignment, err := pages.LoadAssignment(ctx, a.client)
			if err != nil {
				return err
			}
			req, err := assignment.Request(id, args[1])
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageUnassigned}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Params: map[string]string{"user_id": strconv.FormatInt(req.UserID, 10)},
				Run: func(ctx context.Context, c *api.Client) error {
					return c.AssignTask(ctx, req)
				},
			})
		},
	}
	flags.addFlags(cmd)
	return cmd
}

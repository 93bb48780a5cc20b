package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/pages"
)

// NewCommentsCmd creates the comments command group. Comment commands refresh
// the comment page of the task they belong to, so those that take a comment
// id also need --task.
func NewCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "comments", Short: "Discuss tasks"}
	cmd.AddCommand(
		newCommentsAddCmd(), newCommentsUpdateCmd(),
		newCommentsDeleteCmd(), newCommentsMarkReadCmd(),
	)
	return cmd
}

func requireTask(taskID int64) error {
	if taskID <= 0 {
		return fmt.Errorf("%w: --task is required", ErrUsage)
	}
	return nil
}

func newCommentsAddCmd() *cobra.Command {
	var (
		in    api.CommentInput
		flags mutationFlags
	)
	cmd := &cobra.Command{
		Use:     "add <task-id>",
		Short:   "Comment on a task",
		Example: `  taskdeck comments add 12 --content "Venue confirmed"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageComments, taskID: taskID}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: taskID,
				Run: func(ctx context.Context, c *api.Client) error {
					_, err := c.AddComment(ctx, taskID, in)
					return err
				},
			})
		},
	}
	cmd.Flags().StringVar(&in.Content, "content", "", "comment text (required)")
	flags.addFlags(cmd)
	return cmd
}

func newCommentsUpdateCmd() *cobra.Command {
	var (
		in     api.CommentInput
		taskID int64
		flags  mutationFlags
	)
	cmd := &cobra.Command{
		Use:     "update <comment-id>",
		Short:   "Edit a comment",
		Example: `  taskdeck comments update 40 --task 12 --content "Venue confirmed for Friday"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err = requireTask(taskID); err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageComments, taskID: taskID}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Run: func(ctx context.Context, c *api.Client) error {
					_, err := c.UpdateComment(ctx, id, in)
					return err
				},
			})
		},
	}
	cmd.Flags().StringVar(&in.Content, "content", "", "new comment text (required)")
	cmd.Flags().Int64Var(&taskID, "task", 0, "task the comment belongs to (required)")
	flags.addFlags(cmd)
	return cmd
}

func newCommentsDeleteCmd() *cobra.Command {
	var (
		taskID int64
		yes    bool
		flags  mutationFlags
	)
	cmd := &cobra.Command{
		Use:     "delete <comment-id>...",
		Short:   "Delete one or more comments",
		Example: `  taskdeck comments delete 40 41 --task 12 --yes`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err = requireTask(taskID); err != nil {
				return err
			}
			if !yes {
				q := fmt.Sprintf("Delete %d comment(s)?", len(ids))
				if !Confirm(cmd.ErrOrStderr(), cmd.InOrStdin(), q).Accepted {
					return fmt.Errorf("%w: confirm with --yes", ErrAborted)
				}
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			name := commandPath(cmd)
			t := target{page: pages.PageComments, taskID: taskID}
			return runBulkMutation(cmd, a, t, &flags, ids, func(id int64) pages.Mutation {
				return pages.Mutation{
					Name:   name,
					Target: id,
					Run: func(ctx context.Context, c *api.Client) error {
						return c.DeleteComment(ctx, id)
					},
				}
			})
		},
	}
	cmd.Flags().Int64Var(&taskID, "task", 0, "task the comments belong to (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	flags.addFlags(cmd)
	return cmd
}

func newCommentsMarkReadCmd() *cobra.Command {
	var (
		taskID int64
		flags  mutationFlags
	)
	cmd := &cobra.Command{
		Use:   "mark-read <comment-id>",
		Short: "Mark a comment as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err = requireTask(taskID); err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageComments, taskID: taskID}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Run: func(ctx context.Context, c *api.Client) error {
					return c.MarkCommentRead(ctx, id)
				},
			})
		},
	}
	cmd.Flags().Int64Var(&taskID, "task", 0, "task the comment belongs to (required)")
	flags.addFlags(cmd)
	return cmd
}

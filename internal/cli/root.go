package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the taskdeck CLI.
// It resolves the project directory, loads the configuration, wires up
// logging, tracing and audit logging, and adds every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Browse and manage tasks from the terminal",
		Long:          "taskdeck: filter, sort and page through the task lists of a task-management backend",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			startDir, _ := os.Getwd()
			dir := config.ResolveProjectDir(ctx, projectDir, startDir)
			config.SetResolvedProjectDir(dir)
			config.SetGlobalConfig(config.NewWithProjectDir(ctx, dir))

			logResult = setupLogging(cmd)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .taskdeck/config.yaml (default: search upwards from the working directory)")

	cmd.AddGroup(
		&cobra.Group{ID: groupBrowse, Title: "Browsing:"},
		&cobra.Group{ID: groupManage, Title: "Managing:"},
		&cobra.Group{ID: groupAccount, Title: "Account:"},
	)
	addToGroup(cmd, groupBrowse, NewListCmd(), NewPagesCmd(), NewDashboardCmd())
	addToGroup(cmd, groupManage, NewTasksCmd(), NewCategoriesCmd(), NewCommentsCmd(), NewUsersCmd())
	addToGroup(cmd, groupAccount, NewLoginCmd(), NewLogoutCmd(), NewRegisterCmd(), NewWhoamiCmd())
	cmd.AddCommand(newConfigCmd(), NewSetupCmd(), NewCacheCmd(), NewVersionCmd())

	return cmd
}

const (
	groupBrowse  = "browse"
	groupManage  = "manage"
	groupAccount = "account"
)

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

const rootCmdExample = `  # Sign in
  taskdeck login --username alice

  # Pending tasks, soonest due first, 20 per page
  taskdeck list tasks --filter status=PENDING --sort dueDate:asc --page-size 20

  # Browse your tasks interactively
  taskdeck list my-tasks --interactive

  # Move a task along and show the refreshed list
  taskdeck tasks status 12 in-progress

  # Assign an unassigned task
  taskdeck tasks assign 12 bob

  # Set the backend URL
  taskdeck config set api.base_url https://tasks.example.com/api`

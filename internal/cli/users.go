package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/pages"
)

// NewUsersCmd creates the users command group. Every subcommand needs the
// ADMIN role; the backend enforces it.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Administer user accounts"}
	cmd.AddCommand(
		newUsersRoleCmd("assign-role", "Grant a role to a user", (*api.Client).AssignRole),
		newUsersRoleCmd("revoke-role", "Take a role away from a user", (*api.Client).RevokeRole),
		newUsersToggleCmd(),
		newUsersResetPasswordCmd(),
	)
	return cmd
}

type roleFunc func(c *api.Client, ctx context.Context, req api.RoleRequest) error

func newUsersRoleCmd(use, short string, apply roleFunc) *cobra.Command {
	var flags mutationFlags
	cmd := &cobra.Command{
		Use:     use + " <user-id> <role>",
		Short:   short,
		Example: "  taskdeck users " + use + " 7 admin",
		Args:    cobra.ExactArgs(2), //nolint:mnd // user id and role.
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req := api.RoleRequest{UserID: id, Role: args[1]}
			if err = req.Validate(); err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageUsers}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Params: map[string]string{"role": req.Role},
				Run: func(ctx context.Context, c *api.Client) error {
					return apply(c, ctx, req)
				},
			})
		},
	}
	flags.addFlags(cmd)
	return cmd
}

func newUsersToggleCmd() *cobra.Command {
	var flags mutationFlags
	cmd := &cobra.Command{
		Use:   "toggle-activation <user-id>",
		Short: "Activate a deactivated user, or deactivate an active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageUsers}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Run: func(ctx context.Context, c *api.Client) error {
					return c.ToggleActivation(ctx, id)
				},
			})
		},
	}
	flags.addFlags(cmd)
	return cmd
}

func newUsersResetPasswordCmd() *cobra.Command {
	var (
		passwordStdin bool
		flags         mutationFlags
	)
	cmd := &cobra.Command{
		Use:   "reset-password <user-id>",
		Short: "Set a new password for a user",
		Example: `  taskdeck users reset-password 7
  echo "$NEW_PASSWORD" | taskdeck users reset-password 7 --password-stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd.ErrOrStderr(), cmd.InOrStdin(), passwordStdin, "New password")
			if err != nil {
				return err
			}
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageUsers}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Target: id,
				Params: map[string]string{"user_id": strconv.FormatInt(id, 10)},
				Run: func(ctx context.Context, c *api.Client) error {
					return c.ResetPassword(ctx, id, api.PasswordReset{NewPassword: pw})
				},
			})
		},
	}
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the new password from the first line of stdin")
	flags.addFlags(cmd)
	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/logging"
	"github.com/rshade/taskdeck/internal/session"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	username      string
	passwordStdin bool
}

func (f *credentialFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account name (prompted when omitted)")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
}

func (f *credentialFlags) credentials(cmd *cobra.Command) (api.Credentials, error) {
	username := f.username
	if username == "" {
		var err error
		if username, err = readLine(cmd.ErrOrStderr(), cmd.InOrStdin(), "Username"); err != nil {
			return api.Credentials{}, err
		}
	}
	password, err := readPassword(cmd.ErrOrStderr(), cmd.InOrStdin(), f.passwordStdin, "Password")
	if err != nil {
		return api.Credentials{}, err
	}
	return api.Credentials{Username: username, Password: password}, nil
}

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Example: `  taskdeck login --username alice
  echo "$PASSWORD" | taskdeck login --username alice --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := flags.credentials(cmd)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			start := time.Now()
			sess, err := session.Login(ctx, a.client, a.sessions, creds)
			logging.AuditLoggerFromContext(ctx).Log(ctx,
				logging.NewAuditEntry("login", creds.Username).WithResult(err, time.Since(start)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Username, sess.Role)
			return nil
		},
	}
	flags.addFlags(cmd)
	return cmd
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err = session.Logout(cmd.Context(), a.sessions); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Creates an account on the backend. Usernames need at least 2 characters
and passwords at least 6. Run 'taskdeck login' afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := flags.credentials(cmd)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			start := time.Now()
			err = a.client.Register(ctx, creds)
			logging.AuditLoggerFromContext(ctx).Log(ctx,
				logging.NewAuditEntry("register", creds.Username).WithResult(err, time.Since(start)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run 'taskdeck login' to sign in.\n", creds.Username)
			return nil
		},
	}
	flags.addFlags(cmd)
	return cmd
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sess, err := a.sessions.Load()
			if errors.Is(err, session.ErrNoSession) {
				return fmt.Errorf("%w: run `taskdeck login`", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", sess.Username)
			fmt.Fprintf(out, "Role:     %s\n", sess.Role)
			fmt.Fprintf(out, "Backend:  %s\n", a.client.BaseURL())
			switch {
			case sess.ExpiresAt.IsZero():
				fmt.Fprintln(out, "Expires:  never")
			case sess.Expired():
				fmt.Fprintf(out, "Expires:  expired at %s\n", sess.ExpiresAt.Local().Format(time.RFC3339))
			default:
				fmt.Fprintf(out, "Expires:  %s\n", sess.ExpiresAt.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/logging"
	"github.com/rshade/taskdeck/internal/session"
	"github.com/rshade/taskdeck/internal/tui"
	"github.com/rshade/taskdeck/pkg/version"
)

// StepStatus represents the outcome of a single setup step.
type StepStatus int

const (
	// StepSuccess indicates the step completed successfully.
	StepSuccess StepStatus = iota
	// StepWarning indicates the step completed with a non-fatal issue.
	StepWarning
	// StepSkipped indicates the step was intentionally skipped via flag.
	StepSkipped
	// StepError indicates the step failed.
	StepError
)

// StepResult describes the outcome of executing a single setup step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Message  string
	Critical bool
	Err      error
}

// SetupOptions holds the configuration for the setup command, derived from CLI flags.
type SetupOptions struct {
	SkipBackendCheck bool
	NonInteractive   bool
}

// SetupResult is the aggregate outcome of all setup steps.
type SetupResult struct {
	Steps       []StepResult
	HasErrors   bool
	HasWarnings bool
}

const (
	dirPerm          = 0o700
	pingTimeout      = 5 * time.Second
	errSetupCritical = "setup failed: one or more critical steps failed"
)

// formatStatus returns a status marker appropriate for the output mode.
func formatStatus(status StepStatus, nonInteractive bool) string {
	if nonInteractive {
		switch status {
		case StepSuccess:
			return "[OK]"
		case StepWarning:
			return "[WARN]"
		case StepSkipped:
			return "[SKIP]"
		case StepError:
			return "[ERR]"
		default:
			return "[??]"
		}
	}

	switch status {
	case StepSuccess:
		return "✓"
	case StepWarning:
		return "!"
	case StepSkipped:
		return "-"
	case StepError:
		return "✗"
	default:
		return "?"
	}
}

// NewSetupCmd creates the setup command that prepares a workstation for taskdeck.
func NewSetupCmd() *cobra.Command {
	var opts SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Prepare directories, configuration and backend access",
		Long: `Creates the taskdeck home, cache and log directories, writes a default
configuration when none exists, checks that the backend answers and
reports whether a session is saved.

Running it again is safe. Existing configuration is left alone.`,
		Example: `  # Full setup
  taskdeck setup

  # CI setup without status symbols
  taskdeck setup --non-interactive

  # Offline setup
  taskdeck setup --skip-backend-check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false,
		"Disable TTY-dependent output (status symbols)")
	cmd.Flags().BoolVar(&opts.SkipBackendCheck, "skip-backend-check", false,
		"Do not contact the backend")

	return cmd
}

// runSetup runs every step in order and keeps going past failures. Only a
// failed critical step makes it return an error.
func runSetup(cmd *cobra.Command, opts *SetupOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.FromContext(ctx)

	if !opts.NonInteractive && !tui.IsInputTTY() {
		opts.NonInteractive = true
	}

	cfg := config.New()
	result := &SetupResult{}
	record := func(steps ...StepResult) {
		for _, s := range steps {
			printStep(cmd, s, opts.NonInteractive)
			result.Steps = append(result.Steps, s)
		}
	}

	record(stepDisplayVersion())
	record(stepCreateDirectories(cfg)...)
	record(stepInitConfig(cfg))
	if opts.SkipBackendCheck {
		record(StepResult{
			Name:    "Backend check",
			Status:  StepSkipped,
			Message: "Skipped backend check",
		})
	} else {
		record(stepCheckBackend(ctx, cfg))
	}
	record(stepCheckSession())

	for _, s := range result.Steps {
		if s.Status == StepError && s.Critical {
			result.HasErrors = true
		}
		if s.Status == StepWarning {
			result.HasWarnings = true
		}
	}

	printSummary(cmd, result)

	if result.HasErrors {
		log.Error().
			Ctx(ctx).
			Str("component", "setup").
			Msg("setup completed with critical errors")
		return errors.New(errSetupCritical)
	}
	return nil
}

func printStep(cmd *cobra.Command, step StepResult, nonInteractive bool) {
	cmd.Printf("%s %s\n", formatStatus(step.Status, nonInteractive), step.Message)
}

func printSummary(cmd *cobra.Command, result *SetupResult) {
	cmd.Println()
	if result.HasErrors {
		cmd.Println("Setup completed with errors. Review the messages above for remediation steps.")
		return
	}
	cmd.Println("Setup complete! Run 'taskdeck pages' to see what you can open.")
}

func stepDisplayVersion() StepResult {
	return StepResult{
		Name:    "Version display",
		Status:  StepSuccess,
		Message: fmt.Sprintf("taskdeck %s (%s)", version.GetVersion(), runtime.Version()),
	}
}

// stepCreateDirectories creates the home directory plus the cache and log
// directories the configuration points at. Only the home directory is
// critical.
func stepCreateDirectories(cfg *config.Config) []StepResult {
	home, err := config.GetConfigDir()
	if err != nil {
		return []StepResult{{
			Name:     "Directory creation",
			Status:   StepError,
			Message:  fmt.Sprintf("Cannot locate the taskdeck home: %v", err),
			Critical: true,
			Err:      err,
		}}
	}

	type dir struct {
		path     string
		critical bool
	}
	dirs := []dir{{home, true}}
	if cfg.Cache.Enabled && cfg.Cache.Directory != "" {
		dirs = append(dirs, dir{cfg.Cache.Directory, false})
	}
	if cfg.Logging.File != "" {
		dirs = append(dirs, dir{filepath.Dir(cfg.Logging.File), false})
	}

	results := make([]StepResult, 0, len(dirs))
	for _, d := range dirs {
		results = append(results, ensureDir(d.path, d.critical))
	}
	return results
}

func ensureDir(path string, critical bool) StepResult {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return StepResult{
			Name:    "Directory creation",
			Status:  StepSuccess,
			Message: fmt.Sprintf("Directory exists: %s", path),
		}
	}
	if err := os.MkdirAll(path, dirPerm); err != nil {
		status := StepWarning
		if critical {
			status = StepError
		}
		return StepResult{
			Name:     "Directory creation",
			Status:   status,
			Message:  fmt.Sprintf("Failed to create %s: %v", path, err),
			Critical: critical,
			Err:      err,
		}
	}
	return StepResult{
		Name:    "Directory creation",
		Status:  StepSuccess,
		Message: fmt.Sprintf("Created %s", path),
	}
}

// stepInitConfig writes the default configuration unless a file already
// exists.
func stepInitConfig(cfg *config.Config) StepResult {
	path := cfg.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		return StepResult{
			Name:    "Config initialization",
			Status:  StepSuccess,
			Message: fmt.Sprintf("Configuration exists: %s", path),
		}
	}
	if err := cfg.Save(); err != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to write configuration: %v", err),
			Critical: true,
			Err:      err,
		}
	}
	return StepResult{
		Name:    "Config initialization",
		Status:  StepSuccess,
		Message: fmt.Sprintf("Created configuration: %s", path),
	}
}

// stepCheckBackend pings the configured backend. An unreachable backend is
// a warning since the cache still serves earlier pages.
func stepCheckBackend(ctx context.Context, cfg *config.Config) StepResult {
	client, err := api.NewClient(api.Options{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            pingTimeout,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
	}, nil)
	if err != nil {
		return StepResult{
			Name:    "Backend check",
			Status:  StepWarning,
			Message: fmt.Sprintf("Invalid api.base_url: %v\n  Fix with: taskdeck config set api.base_url <url>", err),
			Err:     err,
		}
	}

	if err = client.Ping(ctx); err != nil {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "setup").
			Err(err).
			Msg("backend ping failed")
		return StepResult{
			Name:    "Backend check",
			Status:  StepWarning,
			Message: fmt.Sprintf("Backend %s is not reachable: %v", client.BaseURL(), err),
			Err:     err,
		}
	}
	return StepResult{
		Name:    "Backend check",
		Status:  StepSuccess,
		Message: fmt.Sprintf("Backend reachable: %s", client.BaseURL()),
	}
}

func stepCheckSession() StepResult {
	path, err := config.GetSessionPath()
	if err != nil {
		return StepResult{Name: "Session check", Status: StepWarning, Message: err.Error(), Err: err}
	}
	sess, err := session.NewStore(path).Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		return StepResult{
			Name:    "Session check",
			Status:  StepWarning,
			Message: "Not logged in. Run 'taskdeck login' to sign in.",
		}
	case err != nil:
		return StepResult{
			Name:    "Session check",
			Status:  StepWarning,
			Message: fmt.Sprintf("Saved session is unreadable: %v", err),
			Err:     err,
		}
	case sess.Expired():
		return StepResult{
			Name:    "Session check",
			Status:  StepWarning,
			Message: fmt.Sprintf("Session for %s has expired. Run 'taskdeck login'.", sess.Username),
		}
	}
	return StepResult{
		Name:    "Session check",
		Status:  StepSuccess,
		Message: fmt.Sprintf("Logged in as %s (%s)", sess.Username, sess.Role),
	}
}

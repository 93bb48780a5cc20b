package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/config"
)

// NewConfigInitCmd creates the config init command. Inside a project (a
// directory tree holding .taskdeck/) it writes the project overlay with a
// .gitignore; otherwise it writes the global ~/.taskdeck/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates $PROJECT/.taskdeck/config.yaml with a .gitignore
that keeps the session and cache out of version control. Use --global to
initialize the global configuration even inside a project.`,
		Example: `  # Create project-local configuration
  taskdeck --project-dir . config init

  # Create global configuration
  taskdeck config init --global

  # Create configuration, overwriting existing
  taskdeck config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "initialize the global configuration even inside a project")

	return cmd
}

// errConfigExists is returned by init without --force.
var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

func checkConfigAbsent(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return errConfigExists
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// initProjectConfig writes projectDir/config.yaml and its .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	if !force {
		if err := checkConfigAbsent(configPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.New()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// An existing .gitignore is left alone.
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration initialized at %s\n", configPath)
	if created {
		fmt.Fprintln(out, "Created .gitignore to keep sessions and cache out of version control")
	}
	return nil
}

// initGlobalConfig writes the global configuration file.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.New()

	if !force {
		if err := checkConfigAbsent(cfg.ConfigPath()); err != nil {
			return err
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration initialized successfully")
	fmt.Fprintf(out, "Configuration file: %s\n", cfg.ConfigPath())
	return nil
}

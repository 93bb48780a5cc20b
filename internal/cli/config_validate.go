package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the active configuration: the global file, the project overlay
and the TASKDECK_* environment overrides.

This includes:
- api.base_url is an absolute URL and api.timeout is positive
- output.default_format is table, json or ndjson
- every views entry names a known page with a positive page size
- every views sort parses as field or field:direction, on a sortable field`,
		Example: `  # Validate current configuration
  taskdeck config validate

  # Validate and show detailed information
  taskdeck config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(pages.Names()...); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := validateViewSorts(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration is valid")
	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// validateViewSorts checks each configured sort against the fields its page
// can sort on.
func validateViewSorts(cfg *config.Config) error {
	for name, view := range cfg.Views {
		if view.Sort == "" {
			continue
		}
		def, err := pages.Lookup(name)
		if err != nil {
			return err
		}
		spec, err := view.SortSpec()
		if err != nil {
			return err
		}
		if !slices.ContainsFunc(def.Sorts, func(f listview.SortField) bool { return f.Name == spec.Field }) {
			return fmt.Errorf("%w: views.%s.sort: %q is not sortable", config.ErrInvalidConfig, name, spec.Field)
		}
	}
	return nil
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration details:")
	fmt.Fprintf(out, "  Config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		fmt.Fprintf(out, "  Project directory: %s\n", dir)
	}
	fmt.Fprintf(out, "  Backend: %s (timeout %ds)\n", cfg.API.BaseURL, cfg.API.Timeout)
	fmt.Fprintf(out, "  Output format: %s\n", cfg.Output.DefaultFormat)
	fmt.Fprintf(out, "  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		fmt.Fprintf(out, "  Log file: %s\n", cfg.Logging.File)
	}
	if cfg.Cache.Enabled {
		fmt.Fprintf(out, "  Cache: %s (ttl %ds, max %d MB)\n", cfg.Cache.Directory, cfg.Cache.TTLSeconds, cfg.Cache.MaxSizeMB)
	} else {
		fmt.Fprintln(out, "  Cache: disabled")
	}

	if len(cfg.Views) == 0 {
		fmt.Fprintln(out, "  No view overrides configured")
		return
	}
	names := make([]string, 0, len(cfg.Views))
	for name := range cfg.Views {
		names = append(names, name)
	}
	slices.Sort(names)
	fmt.Fprintf(out, "  View overrides: %d\n", len(names))
	for _, name := range names {
		v := cfg.Views[name]
		fmt.Fprintf(out, "    - %s (page size: %d, sort: %q)\n", name, v.PageSize, v.Sort)
	}
}

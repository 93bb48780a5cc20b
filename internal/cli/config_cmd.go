package cli

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/pages"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Example: `  taskdeck config get api.base_url
  taskdeck config get views.tasks`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			switch v.(type) {
			case map[string]any, map[string]config.ViewConfig:
				data, marshalErr := yaml.Marshal(v)
				if marshalErr != nil {
					return marshalErr
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

// NewConfigSetCmd creates the config set command. It edits the global
// configuration file; project overlays are edited by hand.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a value in the global configuration file",
		Example: `  taskdeck config set api.base_url https://tasks.example.com/api
  taskdeck config set output.default_format json
  taskdeck config set views.tasks.sort dueDate:desc`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value.
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			cfg := config.New()
			if err := cfg.Set(key, value); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			if err := cfg.Validate(pages.Names()...); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := config.GetGlobalConfig().List()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(w, "Key\tValue")
			fmt.Fprintln(w, "---\t-----")
			for _, key := range slices.Sorted(maps.Keys(settings)) {
				fmt.Fprintf(w, "%s\t%v\n", key, settings[key])
			}
			return w.Flush()
		},
	}
}

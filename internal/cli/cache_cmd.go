package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/cache"
	"github.com/rshade/taskdeck/internal/config"
)

// NewCacheCmd creates the cache command group for the offline snapshots.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the offline page cache",
		Long: `Every page load saves its records in the cache. When the backend is
unreachable, list falls back to the saved records and says how old they are.`,
	}
	cmd.AddCommand(newCacheStatusCmd(), newCacheClearCmd(), newCachePruneCmd())
	return cmd
}

func openCache() (*cache.FileStore, error) {
	c := config.GetGlobalConfig().Cache
	store, err := cache.NewFileStore(c.Directory, c.Enabled, c.TTLSeconds, c.MaxSizeMB)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", c.Directory, err)
	}
	return store, nil
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !store.IsEnabled() {
				fmt.Fprintln(out, "Cache: disabled")
				return nil
			}
			count, err := store.Count()
			if err != nil {
				return err
			}
			size, err := store.Size()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Directory: %s\n", store.GetDirectory())
			fmt.Fprintf(out, "Entries:   %d\n", count)
			fmt.Fprintf(out, "Size:      %d bytes\n", size)
			fmt.Fprintf(out, "TTL:       %ds\n", store.GetTTL())
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			if !store.IsEnabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache: disabled")
				return nil
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached page(s)\n", n)
			return nil
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove cached pages older than the TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			if !store.IsEnabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache: disabled")
				return nil
			}
			n, err := store.CleanupExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired page(s)\n", n)
			return nil
		},
	}
}

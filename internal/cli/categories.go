package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/pages"
)

// NewCategoriesCmd creates the categories command group.
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Manage task categories"}
	cmd.AddCommand(newCategoriesCreateCmd())
	return cmd
}

func newCategoriesCreateCmd() *cobra.Command {
	var (
		in    api.CategoryInput
		flags mutationFlags
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a category (admin)",
		Example: `  taskdeck categories create --name Events --description "Venue and catering"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newSignedInApp()
			if err != nil {
				return err
			}
			return runMutation(cmd, a, target{page: pages.PageCategories}, &flags, pages.Mutation{
				Name:   commandPath(cmd),
				Params: map[string]string{"name": in.Name},
				Run: func(ctx context.Context, c *api.Client) error {
					_, err := c.CreateCategory(ctx, in)
					return err
				},
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "category name (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "category description")
	flags.addFlags(cmd)
	return cmd
}

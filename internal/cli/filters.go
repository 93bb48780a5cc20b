package cli

import (
	"context"
	"fmt"

	"github.com/rshade/taskdeck/internal/cli/pagination"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/logging"
)

// applyListFlags validates the list flags and applies them to state before
// any record is fetched. Malformed flags are ErrUsage; flags naming unknown
// fields are listview ConfigurationErrors.
func applyListFlags(ctx context.Context, state *listview.State, params *pagination.PaginationParams) error {
	log := logging.FromContext(ctx)

	if err := params.Validate(); err != nil {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Err(err).
			Msg("invalid list flags")
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if err := params.Apply(state); err != nil {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Strs("filters", params.Filters).
			Str("sort", params.Sort).
			Err(err).
			Msg("list flags rejected by page")
		return err
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "apply_filters").
		Int("active_filters", len(state.Filter().Active())).
		Str("sort", state.Sort().String()).
		Int("page_size", state.Page().PageSize).
		Msg("applied list flags")
	return nil
}

// warnIfFilteredOut logs when filters hide every loaded record.
func warnIfFilteredOut(ctx context.Context, state *listview.State) {
	if state.View().TotalFiltered == 0 && len(state.Records()) > 0 {
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Int("original_count", len(state.Records())).
			Msg("no records match filter criteria")
	}
}

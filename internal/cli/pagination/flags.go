package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/listview"
)

// Flag defaults.
const (
	DefaultPage      = 1
	MinPage          = 1
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = errors.New("page-size must be >= 1")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'dueDate:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidFilter     = errors.New("invalid filter: use 'field=value' (e.g., 'status=PENDING')")
)

// PaginationParams holds the list flags of one command invocation.
// Zero Page and PageSize leave the page defaults in place.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page to show.
	Page int

	// PageSize overrides the page's default size.
	PageSize int

	// Sort is "field" or "field:order".
	Sort string

	// Filters are "field=value" expressions.
	Filters []string
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{Page: DefaultPage}
}

// AddFlags registers the list flags on cmd.
func (p *PaginationParams) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&p.Filters, "filter", nil, "filter as field=value (repeatable)")
	cmd.Flags().StringVar(&p.Sort, "sort", "", "sort as field or field:asc|desc")
	cmd.Flags().IntVar(&p.Page, "page", DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "records per page (0 = page default)")
}

// Validate checks the flag values without knowing the page.
func (p PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if _, err := ParseSort(p.Sort); err != nil {
		return err
	}
	for _, f := range p.Filters {
		if _, _, err := ParseFilter(f); err != nil {
			return err
		}
	}
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses "field" or "field:order". An empty string yields the zero
// spec, which keeps the page default.
func ParseSort(sortStr string) (listview.SortSpec, error) {
	if strings.TrimSpace(sortStr) == "" {
		return listview.SortSpec{}, nil
	}

	parts := strings.Split(sortStr, ":")
	var field, order string
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return listview.SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return listview.SortSpec{}, ErrEmptySortField
	}

	dir, err := listview.ParseDirection(order)
	if err != nil {
		return listview.SortSpec{}, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return listview.SortSpec{Field: field, Direction: dir}, nil
}

// ParseFilter splits "field=value". The value may be empty and may itself
// contain '='.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseFilter(expr string) (field, value string, err error) {
	field, value, ok := strings.Cut(expr, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}
	return field, strings.TrimSpace(value), nil
}

// Apply sets the filters, sort and page size on state. It needs no records,
// so bad flags fail before anything is fetched. Unknown fields and sizes
// surface as listview ConfigurationErrors. The page is selected with
// SelectPage once the records are loaded.
func (p PaginationParams) Apply(state *listview.State) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, f := range p.Filters {
		field, value, _ := ParseFilter(f)
		if err := state.SetFilter(field, value); err != nil {
			return err
		}
	}
	if spec, _ := ParseSort(p.Sort); spec.Field != "" {
		if err := state.SetSortSpec(spec); err != nil {
			return err
		}
	}
	if p.PageSize > 0 {
		if err := state.SetPageSize(p.PageSize); err != nil {
			return err
		}
	}
	return nil
}

// SelectPage moves state to the requested page, clamped to the pages the
// loaded records fill.
func (p PaginationParams) SelectPage(state *listview.State) {
	state.SetPage(max(p.Page, MinPage))
}

package pagination

import "github.com/rshade/taskdeck/internal/listview"

// PaginationMeta contains metadata about paginated results.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewPaginationMeta describes the page a derived view shows.
func NewPaginationMeta(view listview.DerivedView) PaginationMeta {
	return PaginationMeta{
		CurrentPage: view.CurrentPage,
		PageSize:    view.PageSize,
		TotalPages:  view.TotalPages,
		TotalItems:  view.TotalFiltered,
		HasPrevious: view.HasPrevious(),
		HasNext:     view.HasNext(),
	}
}

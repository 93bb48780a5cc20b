package listview

// DerivedView is the filtered, sorted and paginated result of a list page.
type DerivedView struct {
	// Visible holds the records of the current page, in display order.
	Visible []Record `json:"records"`
	// TotalFiltered counts the records that passed the filter across all pages.
	TotalFiltered int `json:"total_filtered"`
	// TotalPages is max(1, ceil(TotalFiltered/PageSize)).
	TotalPages int `json:"total_pages"`
	// CurrentPage is the clamped 1-based page that Visible shows.
	CurrentPage int `json:"current_page"`
	// PageSize is the page size the view was derived with.
	PageSize int `json:"page_size"`
}

// HasPrevious reports whether a page precedes the current one.
func (v DerivedView) HasPrevious() bool {
	return v.CurrentPage > 1
}

// HasNext reports whether a page follows the current one.
func (v DerivedView) HasNext() bool {
	return v.CurrentPage < v.TotalPages
}

// Engine composes filtering, sorting and pagination. It keeps no state
// besides its comparator registry, which is read-only after construction.
type Engine struct {
	registry *Registry
}

// NewEngine returns an engine sorting with registry. A nil registry sorts
// every field lexically.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry returns the comparator registry of the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Derive filters source with filter, stably sorts the survivors by sortSpec
// and returns the page selected by page. Identical inputs always produce
// identical views, and source is never reordered.
func (e *Engine) Derive(source []Record, filter FilterSpec, sortSpec SortSpec, page PageSpec) DerivedView {
	filtered := Filter(source, filter)
	ordered := e.registry.Sort(filtered, sortSpec)
	pg := Paginate(ordered, page)

	return DerivedView{
		Visible:       pg.Records,
		TotalFiltered: len(filtered),
		TotalPages:    pg.TotalPages,
		CurrentPage:   pg.CurrentPage,
		PageSize:      page.PageSize,
	}
}

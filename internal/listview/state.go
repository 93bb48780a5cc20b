package listview

import (
	"slices"
	"sync"
)

// Options configures a State.
type Options struct {
	// Filters declares the filterable fields.
	Filters []FilterField
	// Sorts declares the sortable fields and their comparators.
	Sorts []SortField
	// DefaultSort is the initial sort. Its field must be sortable or empty.
	DefaultSort SortSpec
	// PageSize is the initial page size and must be positive.
	PageSize int
}

// State is the state machine of a hosting page. It owns the source records,
// the filter, the sort and the page position, and keeps a DerivedView in step
// with them.
//
// User-driven changes (filter, sort, page size) reset the view to page 1.
// Data reloads keep the current page and only clamp it, so removing the last
// record of the last page moves the view back one page.
//
// Fetches are tagged with the generation returned by BeginFetch. Results of a
// superseded generation, and every result after Detach, are discarded.
type State struct {
	mu sync.Mutex

	engine   *Engine
	registry *Registry

	source []Record
	filter FilterSpec
	sort   SortSpec
	page   PageSpec
	view   DerivedView

	generation uint64
	loaded     bool
	detached   bool
}

// NewState validates opts and returns a State with no records, the identity
// filter, the default sort and page 1.
func NewState(opts Options) (*State, error) {
	filter, err := NewFilterSpec(opts.Filters...)
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(opts.Sorts...)
	if err != nil {
		return nil, err
	}
	if err = registry.Validate(opts.DefaultSort); err != nil {
		return nil, err
	}
	page, err := NewPageSpec(opts.PageSize)
	if err != nil {
		return nil, err
	}

	s := &State{
		engine:   NewEngine(registry),
		registry: registry,
		filter:   filter,
		sort:     opts.DefaultSort,
		page:     page,
	}
	s.rederive()
	return s, nil
}

// BeginFetch starts a new fetch generation and returns its number. Any
// result carrying an older number will be discarded.
func (s *State) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Generation returns the most recently issued fetch generation.
func (s *State) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// OnDataLoaded replaces the source records with the result of fetch
// generation. It returns false, leaving the state untouched, when the
// generation is stale or the page was detached.
func (s *State) OnDataLoaded(generation uint64, records []Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(generation) {
		return false
	}
	s.source = slices.Clone(records)
	s.loaded = true
	s.rederive()
	return true
}

// OnFetchFailed reports whether the failure of fetch generation still
// concerns the page (and so deserves a notice). Prior records are kept
// either way.
func (s *State) OnFetchFailed(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(generation)
}

// OnMutationCompleted starts the re-fetch that follows a successful
// mutation and returns its generation.
func (s *State) OnMutationCompleted() uint64 {
	return s.BeginFetch()
}

// Detach marks the page as gone. Every later completion is a no-op.
func (s *State) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
}

// Detached reports whether Detach was called.
func (s *State) Detached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}

// SetFilter sets the input of one filter field and returns to page 1.
func (s *State) SetFilter(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.filter.With(field, value)
	if err != nil {
		return err
	}
	s.filter = next
	s.page.CurrentPage = 1
	s.rederive()
	return nil
}

// ClearFilters restores every filter input and returns to page 1.
func (s *State) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = s.filter.Reset()
	s.page.CurrentPage = 1
	s.rederive()
}

// SetSort selects field for sorting. Reselecting the active field toggles
// the direction; any other field starts ascending. Returns to page 1.
func (s *State) SetSort(field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := SortSpec{Field: field, Direction: Ascending}
	if field == s.sort.Field {
		next.Direction = s.sort.Direction.Toggle()
	}
	if err := s.registry.Validate(next); err != nil {
		return err
	}
	s.sort = next
	s.page.CurrentPage = 1
	s.rederive()
	return nil
}

// SetSortSpec replaces the sort with spec and returns to page 1.
func (s *State) SetSortSpec(spec SortSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registry.Validate(spec); err != nil {
		return err
	}
	s.sort = spec
	s.page.CurrentPage = 1
	s.rederive()
	return nil
}

// SetPageSize changes the page size and returns to page 1. A non-positive
// size is a ConfigurationError and leaves the state unchanged.
func (s *State) SetPageSize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ValidatePageSize(n); err != nil {
		return err
	}
	s.page = PageSpec{PageSize: n, CurrentPage: 1}
	s.rederive()
	return nil
}

// SetPage moves to page n, clamped into the valid range.
func (s *State) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.CurrentPage = n
	s.rederive()
}

// NextPage moves forward one page if possible.
func (s *State) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.CurrentPage++
	s.rederive()
}

// PrevPage moves back one page if possible.
func (s *State) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.CurrentPage--
	s.rederive()
}

// View returns the current derived view.
func (s *State) View() DerivedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.Visible = slices.Clone(s.view.Visible)
	return v
}

// Records returns a copy of the source records.
func (s *State) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.source)
}

// Loaded reports whether any fetch has delivered records.
func (s *State) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Filter returns the current filter.
func (s *State) Filter() FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Sort returns the current sort.
func (s *State) Sort() SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Page returns the current (clamped) page spec.
func (s *State) Page() PageSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SortFields returns the sortable fields in registration order.
func (s *State) SortFields() []string {
	return s.registry.Fields()
}

func (s *State) currentLocked(generation uint64) bool {
	return !s.detached && generation == s.generation
}

// rederive recomputes the view and stores the clamped page back. Callers
// hold s.mu.
func (s *State) rederive() {
	s.view = s.engine.Derive(s.source, s.filter, s.sort, s.page)
	s.page.CurrentPage = s.view.CurrentPage
}

package listview

import (
	"slices"
	"strconv"
)

// PageSpec is the active page size and the 1-based current page.
type PageSpec struct {
	PageSize    int
	CurrentPage int
}

// NewPageSpec returns page 1 of pageSize records per page.
// A non-positive pageSize is a ConfigurationError.
func NewPageSpec(pageSize int) (PageSpec, error) {
	if err := ValidatePageSize(pageSize); err != nil {
		return PageSpec{}, err
	}
	return PageSpec{PageSize: pageSize, CurrentPage: 1}, nil
}

// ValidatePageSize returns a ConfigurationError unless n is positive.
func ValidatePageSize(n int) error {
	if n <= 0 {
		return configError("page size", strconv.Itoa(n), "must be a positive integer")
	}
	return nil
}

// TotalPages returns max(1, ceil(count/pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// Clamp returns p with CurrentPage moved into [1, TotalPages(count, PageSize)].
func (p PageSpec) Clamp(count int) PageSpec {
	p.CurrentPage = min(max(p.CurrentPage, 1), TotalPages(count, p.PageSize))
	return p
}

// Page is one slice of an ordered sequence plus its position.
type Page struct {
	Records     []Record
	CurrentPage int
	TotalPages  int
}

// Paginate returns the page of ordered selected by p after clamping.
// A PageSpec without a positive size yields everything on one page.
func Paginate(ordered []Record, p PageSpec) Page {
	if p.PageSize <= 0 {
		return Page{Records: cloneRecords(ordered), CurrentPage: 1, TotalPages: 1}
	}

	p = p.Clamp(len(ordered))
	start := (p.CurrentPage - 1) * p.PageSize
	end := min(start+p.PageSize, len(ordered))

	return Page{
		Records:     cloneRecords(ordered[start:end]),
		CurrentPage: p.CurrentPage,
		TotalPages:  TotalPages(len(ordered), p.PageSize),
	}
}

// cloneRecords copies the slice header contents and never returns nil.
func cloneRecords(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return slices.Clone(records)
}

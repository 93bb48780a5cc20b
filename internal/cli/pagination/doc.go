// Package pagination parses the list flags shared by CLI commands
// (--filter, --sort, --page, --page-size) and applies them to a page's
// list view state.
//
// It also builds PaginationMeta, the page metadata attached to JSON output.
package pagination

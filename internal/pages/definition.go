package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cache"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/session"
)

// Layout selects how a page is rendered interactively.
type Layout int

const (
	// LayoutTable renders one row per record with fixed columns.
	LayoutTable Layout = iota
	// LayoutFeed renders records as a scrolling feed (comments, notifications).
	LayoutFeed
)

// String returns the layout name.
func (l Layout) String() string {
	if l == LayoutFeed {
		return "feed"
	}
	return "table"
}

// Column is one rendered column of a page.
type Column struct {
	Field string
	Title string
	Width int
}

// Env carries what a page fetch needs.
type Env struct {
	Client  *api.Client
	Session *session.Session
	// TaskID scopes pages that list the children of one task.
	TaskID int64
}

// FetchFunc loads the source records of a page.
type FetchFunc func(ctx context.Context, env Env) ([]listview.Record, error)

// Definition declares one list page over the list view engine.
type Definition struct {
	Name        string
	Title       string
	Description string
	// Roles that may open the page. Empty means every signed-in user.
	Roles []string

	Filters     []listview.FilterField
	Sorts       []listview.SortField
	DefaultSort listview.SortSpec
	PageSize    int
	// PageSizes are the sizes offered by the interactive view.
	PageSizes []int

	Columns []Column
	Layout  Layout

	// NeedsTask marks pages scoped to Env.TaskID.
	NeedsTask bool
	Fetch     FetchFunc
}

// Options returns the engine options for the page.
func (d Definition) Options() listview.Options {
	return listview.Options{
		Filters:     d.Filters,
		Sorts:       d.Sorts,
		DefaultSort: d.DefaultSort,
		PageSize:    d.PageSize,
	}
}

// Visible reports whether sess may open the page.
func (d Definition) Visible(sess *session.Session) bool {
	return sess.HasRole(d.Roles...)
}

// WithView applies a per-page configuration override. Values are checked
// when the page state is built.
func (d Definition) WithView(v config.ViewConfig) (Definition, error) {
	if v.PageSize != 0 {
		d.PageSize = v.PageSize
	}
	if v.Sort != "" {
		spec, err := v.SortSpec()
		if err != nil {
			return d, fmt.Errorf("views.%s.sort: %w", d.Name, err)
		}
		d.DefaultSort = spec
	}
	return d, nil
}

// CheckEnv verifies that env satisfies the page's requirements.
func (d Definition) CheckEnv(env Env) error {
	if d.NeedsTask && env.TaskID <= 0 {
		return fmt.Errorf("%w: %s", ErrTaskRequired, d.Name)
	}
	return nil
}

// CacheKey returns the response cache key of the page for env.
func (d Definition) CacheKey(env Env) string {
	p := cache.KeyParams{Collection: d.Name}
	if env.Client != nil {
		p.BaseURL = env.Client.BaseURL()
	}
	if env.Session != nil {
		p.Username = env.Session.Username
	}
	if d.NeedsTask {
		p.Scope = strconv.FormatInt(env.TaskID, 10)
	}
	return cache.GenerateKey(p)
}

// ColumnFields returns the fields of d's columns in order.
func (d Definition) ColumnFields() []string {
	out := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		out = append(out, c.Field)
	}
	return out
}

package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/session"
)

// Page names.
const (
	PageTasks         = "tasks"
	PageMyTasks       = "my-tasks"
	PageUnassigned    = "unassigned"
	PageUsers         = "users"
	PageCategories    = "categories"
	PageNotifications = "notifications"
	PageComments      = "comments"
)

// standardPageSizes are offered by every page unless it declares its own.
var standardPageSizes = []int{5, 10, 20}

var taskColumns = []Column{
	{Field: "id", Title: "ID", Width: 5},
	{Field: "title", Title: "Title", Width: 28},
	{Field: "status", Title: "Status", Width: 12},
	{Field: "categoryName", Title: "Category", Width: 14},
	{Field: "assignedToUsername", Title: "Assignee", Width: 14},
	{Field: "dueDate", Title: "Due", Width: 20},
}

var taskSorts = []listview.SortField{
	{Name: "title"},
	{Name: "status"},
	{Name: "categoryName"},
	{Name: "dueDate", Compare: listview.Chronological},
	{Name: "id", Compare: listview.Numeric},
}

func taskFilters() []listview.FilterField {
	return []listview.FilterField{
		{Name: "title", Kind: listview.MatchSubstring},
		{Name: "categoryName", Kind: listview.MatchSubstring},
		{Name: "status", Kind: listview.MatchEqual, Choices: api.TaskStatuses()},
	}
}

// catalog lists every page in display order.
var catalog = []Definition{
	{
		Name:        PageTasks,
		Title:       "All Tasks",
		Description: "every task in the system",
		Roles:       []string{api.RoleAdmin},
		Filters:     taskFilters(),
		Sorts:       taskSorts,
		DefaultSort: listview.SortSpec{Field: "title"},
		PageSize:    5,
		PageSizes:   standardPageSizes,
		Columns:     taskColumns,
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			tasks, err := env.Client.ListTasks(ctx)
			return api.Records(tasks), err
		},
	},
	{
		Name:        PageMyTasks,
		Title:       "My Tasks",
		Description: "tasks assigned to you",
		Filters:     taskFilters(),
		Sorts:       taskSorts,
		DefaultSort: listview.SortSpec{Field: "dueDate"},
		PageSize:    10,
		PageSizes:   standardPageSizes,
		Columns:     taskColumns,
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			tasks, err := env.Client.MyTasks(ctx)
			return api.Records(tasks), err
		},
	},
	{
		Name:        PageUnassigned,
		Title:       "Unassigned Tasks",
		Description: "tasks waiting for an assignee",
		Roles:       []string{api.RoleAdmin},
		Filters:     taskFilters(),
		Sorts:       taskSorts,
		DefaultSort: listview.SortSpec{Field: "title"},
		PageSize:    10,
		PageSizes:   standardPageSizes,
		Columns:     taskColumns[:5],
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			tasks, err := env.Client.UnassignedTasks(ctx)
			return api.Records(tasks), err
		},
	},
	{
		Name:        PageUsers,
		Title:       "Users",
		Description: "accounts, roles and activation",
		Roles:       []string{api.RoleAdmin},
		Filters: []listview.FilterField{
			{Name: "username", Kind: listview.MatchSubstring},
			{Name: "role", Kind: listview.MatchEqual, Choices: api.Roles()},
			{Name: "active", Kind: listview.MatchEqual, Choices: []string{"true", "false"}},
		},
		Sorts: []listview.SortField{
			{Name: "username"},
			{Name: "role"},
			{Name: "active", Compare: listview.BoolPriority},
			{Name: "id", Compare: listview.Numeric},
		},
		DefaultSort: listview.SortSpec{Field: "username"},
		PageSize:    10,
		PageSizes:   standardPageSizes,
		Columns: []Column{
			{Field: "id", Title: "ID", Width: 5},
			{Field: "username", Title: "Username", Width: 24},
			{Field: "role", Title: "Role", Width: 8},
			{Field: "active", Title: "Active", Width: 8},
		},
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			users, err := env.Client.ListUsers(ctx)
			return api.Records(users), err
		},
	},
	{
		Name:        PageCategories,
		Title:       "Categories",
		Description: "task categories",
		Roles:       []string{api.RoleAdmin},
		Filters: []listview.FilterField{
			{Name: "name", Kind: listview.MatchSubstring},
		},
		Sorts: []listview.SortField{
			{Name: "name"},
			{Name: "id", Compare: listview.Numeric},
		},
		DefaultSort: listview.SortSpec{Field: "name"},
		PageSize:    10,
		PageSizes:   standardPageSizes,
		Columns: []Column{
			{Field: "id", Title: "ID", Width: 5},
			{Field: "name", Title: "Name", Width: 20},
			{Field: "description", Title: "Description", Width: 40},
		},
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			categories, err := env.Client.ListCategories(ctx)
			return api.Records(categories), err
		},
	},
	{
		Name:        PageNotifications,
		Title:       "Notifications",
		Description: "messages for you, newest first",
		Filters: []listview.FilterField{
			{Name: "message", Kind: listview.MatchSubstring},
			{Name: "seen", Kind: listview.MatchEqual, Choices: []string{"true", "false"}},
		},
		Sorts: []listview.SortField{
			{Name: "createdAt", Compare: listview.Chronological},
			{Name: "seen", Compare: listview.BoolPriority},
		},
		DefaultSort: listview.SortSpec{Field: "createdAt", Direction: listview.Descending},
		PageSize:    5,
		PageSizes:   standardPageSizes,
		Columns: []Column{
			{Field: "createdAt", Title: "When", Width: 20},
			{Field: "seen", Title: "Seen", Width: 6},
			{Field: "message", Title: "Message", Width: 50},
		},
		Layout: LayoutFeed,
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			notes, err := env.Client.MyNotifications(ctx)
			return api.Records(notes), err
		},
	},
	{
		Name:        PageComments,
		Title:       "Comments",
		Description: "discussion on one task (--task ID)",
		Filters: []listview.FilterField{
			{Name: "content", Kind: listview.MatchSubstring},
			{Name: "username", Kind: listview.MatchSubstring},
		},
		Sorts: []listview.SortField{
			{Name: "createdAt", Compare: listview.Chronological},
			{Name: "username"},
			{Name: "read", Compare: listview.BoolPriority},
		},
		DefaultSort: listview.SortSpec{Field: "createdAt", Direction: listview.Descending},
		PageSize:    5,
		PageSizes:   standardPageSizes,
		Columns: []Column{
			{Field: "id", Title: "ID", Width: 5},
			{Field: "username", Title: "Author", Width: 14},
			{Field: "createdAt", Title: "When", Width: 20},
			{Field: "content", Title: "Comment", Width: 48},
		},
		Layout:    LayoutFeed,
		NeedsTask: true,
		Fetch: func(ctx context.Context, env Env) ([]listview.Record, error) {
			comments, err := env.Client.ListComments(ctx, env.TaskID)
			return api.Records(comments), err
		},
	},
}

// Lookup returns the page called name.
func Lookup(name string) (Definition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, d := range catalog {
		if d.Name == key {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPage, name, strings.Join(Names(), ", "))
}

// Names returns every page name in display order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.Name)
	}
	return out
}

// All returns every page definition in display order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// VisibleTo returns the pages the session may open, in display order.
func VisibleTo(sess *session.Session) []Definition {
	var out []Definition
	for _, d := range catalog {
		if d.Visible(sess) {
			out = append(out, d)
		}
	}
	return out
}

package cli_test

import (
	"bufio"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/cli"
)

// listOutput mirrors the JSON document of `list -o json`.
type listOutput struct {
	Page       string            `json:"page"`
	Sort       string            `json:"sort"`
	Filters    map[string]string `json:"filters"`
	Records    []map[string]any  `json:"records"`
	Pagination struct {
		CurrentPage int  `json:"current_page"`
		PageSize    int  `json:"page_size"`
		TotalPages  int  `json:"total_pages"`
		TotalItems  int  `json:"total_items"`
		HasPrevious bool `json:"has_previous"`
		HasNext     bool `json:"has_next"`
	} `json:"pagination"`
}

func decodeList(t *testing.T, stdout string) listOutput {
	t.Helper()
	var out listOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), "stdout: %s", stdout)
	return out
}

func titles(records []map[string]any) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		s, _ := r["title"].(string)
		out = append(out, s)
	}
	return out
}

func TestList_JSONWithFlags(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(12)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "list", "tasks", "-o", "json",
		"--filter", "status=PENDING", "--sort", "title:desc")
	require.NoError(t, err, stderr)

	out := decodeList(t, stdout)
	assert.Equal(t, "tasks", out.Page)
	assert.Equal(t, "title:desc", out.Sort)
	assert.Equal(t, map[string]string{"status": "PENDING"}, out.Filters)
	assert.Equal(t, []string{"Task 10", "Task 07", "Task 04", "Task 01"}, titles(out.Records))
	assert.Equal(t, 1, out.Pagination.CurrentPage)
	assert.Equal(t, 1, out.Pagination.TotalPages)
	assert.Equal(t, 4, out.Pagination.TotalItems)
	assert.False(t, out.Pagination.HasNext)
}

func TestList_Paging(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(12)
	env.login(t, "alice")

	tests := []struct {
		name       string
		args       []string
		wantTitles []string
		wantPage   int
		wantPages  int
	}{
		{
			name:       "default page size",
			args:       nil,
			wantTitles: []string{"Task 01", "Task 02", "Task 03", "Task 04", "Task 05"},
			wantPage:   1,
			wantPages:  3,
		},
		{
			name:       "second page",
			args:       []string{"--page", "2"},
			wantTitles: []string{"Task 06", "Task 07", "Task 08", "Task 09", "Task 10"},
			wantPage:   2,
			wantPages:  3,
		},
		{
			name:       "page past the end clamps to the last page",
			args:       []string{"--page", "9"},
			wantTitles: []string{"Task 11", "Task 12"},
			wantPage:   3,
			wantPages:  3,
		},
		{
			name:       "larger page size",
			args:       []string{"--page-size", "10", "--page", "2"},
			wantTitles: []string{"Task 11", "Task 12"},
			wantPage:   2,
			wantPages:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"list", "tasks", "-o", "json"}, tt.args...)
			stdout, stderr, err := env.run(t, "", args...)
			require.NoError(t, err, stderr)

			out := decodeList(t, stdout)
			assert.Equal(t, tt.wantTitles, titles(out.Records))
			assert.Equal(t, tt.wantPage, out.Pagination.CurrentPage)
			assert.Equal(t, tt.wantPages, out.Pagination.TotalPages)
		})
	}
}

func TestList_NDJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(7)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "list", "tasks", "-o", "ndjson", "--page-size", "10")
	require.NoError(t, err, stderr)

	lines := 0
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		assert.Contains(t, rec, "title")
		lines++
	}
	assert.Equal(t, 7, lines)
}

func TestList_Table(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(3)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "list", "tasks", "-o", "table", "--sort", "dueDate:desc")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "TITLE")
	assert.Contains(t, stdout, "ASSIGNEE")
	assert.Contains(t, stdout, "Task 03")
	assert.Contains(t, stdout, "Page 1 of 1 (3 of 3 records), sorted by dueDate:desc")
	assert.Less(t, strings.Index(stdout, "Task 03"), strings.Index(stdout, "Task 01"))
}

func TestList_TableToBufferIsUnstyled(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(2)
	env.login(t, "alice")
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	stdout, stderr, err := env.run(t, "", "list", "tasks", "-o", "table")
	require.NoError(t, err, stderr)

	assert.NotContains(t, stdout, "\x1b[")
	assert.NotContains(t, stdout, "All Tasks", "the styled title is only written to terminals")
	assert.True(t, strings.HasPrefix(stdout, "TITLE"), stdout)
}

func TestList_EmptyResultIsNotAnError(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(3)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "list", "tasks", "-o", "json", "--filter", "title=nothing like this")
	require.NoError(t, err, stderr)

	out := decodeList(t, stdout)
	assert.Empty(t, out.Records)
	assert.Equal(t, 0, out.Pagination.TotalItems)
	assert.Equal(t, 1, out.Pagination.CurrentPage)
}

func TestList_RejectedBeforeFetching(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "unknown filter field",
			args:     []string{"--filter", "owner=bob"},
			wantCode: cli.ExitUsage,
			wantErr:  "owner",
		},
		{
			name:     "status outside its choices",
			args:     []string{"--filter", "status=DONE"},
			wantCode: cli.ExitUsage,
			wantErr:  "DONE",
		},
		{
			name:     "unknown sort field",
			args:     []string{"--sort", "priority"},
			wantCode: cli.ExitUsage,
			wantErr:  "priority",
		},
		{
			name:     "malformed filter",
			args:     []string{"--filter", "status"},
			wantCode: cli.ExitUsage,
			wantErr:  "field=value",
		},
		{
			name:     "bad sort order",
			args:     []string{"--sort", "title:sideways"},
			wantCode: cli.ExitUsage,
			wantErr:  "asc",
		},
		{
			name:     "unknown output format",
			args:     []string{"-o", "yaml"},
			wantCode: cli.ExitUsage,
			wantErr:  "yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			env.login(t, "alice")

			args := append([]string{"list", "tasks"}, tt.args...)
			_, _, err := env.run(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.wantCode, cli.ExitCode(err))
			assert.Zero(t, env.backend.Hits("GET /api/tasks/get-all"))
		})
	}
}

func TestList_RoleVisibility(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(6)
	env.login(t, "bob")

	_, _, err := env.run(t, "", "list", "users")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(err))
	assert.Zero(t, env.backend.Hits("GET /api/user/getAllUsers"))

	stdout, stderr, err := env.run(t, "", "list", "my-tasks", "-o", "json")
	require.NoError(t, err, stderr)
	out := decodeList(t, stdout)
	assert.Equal(t, 3, out.Pagination.TotalItems)
	for _, r := range out.Records {
		assert.Equal(t, "bob", r["assignedToUsername"])
	}
}

func TestList_RequiresSession(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "", "list", "tasks")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "taskdeck login")
}

func TestList_CommentsNeedTask(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")

	_, _, err := env.run(t, "", "list", "comments")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestList_FallsBackToCache(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(4)
	env.login(t, "alice")

	_, stderr, err := env.run(t, "", "list", "tasks", "-o", "json")
	require.NoError(t, err, stderr)

	env.backend.FailNext("GET /api/tasks/get-all", 503, 1)
	stdout, stderr, err := env.run(t, "", "list", "tasks", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "showing cached data")
	assert.Len(t, decodeList(t, stdout).Records, 4)
}

func TestList_FetchFailureWithoutCache(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(4)
	env.login(t, "alice")
	t.Setenv("TASKDECK_CACHE_ENABLED", "false")

	env.backend.FailNext("GET /api/tasks/get-all", 500, 1)
	_, _, err := env.run(t, "", "list", "tasks", "-o", "json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(err))
}

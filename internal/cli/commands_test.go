package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cli"
)

func TestPages(t *testing.T) {
	tests := []struct {
		name        string
		user        string
		args        []string
		wantPresent []string
		wantAbsent  []string
	}{
		{
			name:        "signed out shows every page",
			wantPresent: []string{"tasks", "users", "my-tasks", "ADMIN"},
		},
		{
			name:        "user sees their pages",
			user:        "bob",
			wantPresent: []string{"my-tasks", "notifications", "comments"},
			wantAbsent:  []string{"unassigned", "categories"},
		},
		{
			name:        "verbose lists fields and sizes",
			user:        "alice",
			args:        []string{"--verbose"},
			wantPresent: []string{"status(PENDING|IN_PROGRESS|COMPLETED)", "dueDate", "5* 10 20", "title:asc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			if tt.user != "" {
				env.login(t, tt.user)
			}

			args := append([]string{"pages"}, tt.args...)
			stdout, stderr, err := env.run(t, "", args...)
			require.NoError(t, err, stderr)
			for _, s := range tt.wantPresent {
				assert.Contains(t, stdout, s)
			}
			for _, s := range tt.wantAbsent {
				assert.NotContains(t, stdout, s)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(6)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "dashboard", "-o", "json")
	require.NoError(t, err, stderr)

	var d struct {
		TasksByStatus map[string]int `json:"tasks_by_status"`
		TotalTasks    int            `json:"total_tasks"`
		Unassigned    int            `json:"unassigned_tasks"`
		TotalUsers    int            `json:"total_users"`
		Admins        int            `json:"admins"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &d))
	assert.Equal(t, 6, d.TotalTasks)
	assert.Equal(t, 3, d.Unassigned)
	assert.Equal(t, 2, d.TasksByStatus[api.StatusPending])
	assert.Equal(t, 2, d.TotalUsers)
	assert.Equal(t, 1, d.Admins)

	stdout, stderr, err = env.run(t, "", "dashboard")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Admin Dashboard")
	assert.Contains(t, stdout, "Completion")
}

func TestDashboard_RequiresAdmin(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "bob")

	_, _, err := env.run(t, "", "dashboard")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(err))
	assert.Zero(t, env.backend.Hits("GET /api/user/getAllUsers"))
}

func TestCacheCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(2)
	env.login(t, "alice")

	_, stderr, err := env.run(t, "", "list", "tasks", "-o", "json")
	require.NoError(t, err, stderr)
	_, stderr, err = env.run(t, "", "list", "users", "-o", "json")
	require.NoError(t, err, stderr)

	stdout, _, err := env.run(t, "", "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Entries:   2")

	stdout, _, err = env.run(t, "", "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 0 expired page(s)")

	stdout, _, err = env.run(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 2 cached page(s)")

	t.Setenv("TASKDECK_CACHE_ENABLED", "false")
	stdout, _, err = env.run(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cache: disabled")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "taskdeck ")

	stdout, _, err = env.run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "test")
}

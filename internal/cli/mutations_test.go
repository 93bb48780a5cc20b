package cli_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cli"
)

func taskByTitle(tasks []api.Task, title string) (api.Task, bool) {
	i := slices.IndexFunc(tasks, func(t api.Task) bool { return t.Title == title })
	if i < 0 {
		return api.Task{}, false
	}
	return tasks[i], true
}

func TestTasksCreate(t *testing.T) {
	env := newCLIEnv(t)
	env.seedTasks(3)
	cat := env.backend.AddCategory(api.Category{Name: "Events"})
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "tasks", "create", "-q",
		"--title", "Book venue", "--due", "2024-06-30T17:00:00", "--category", fmt.Sprint(cat.ID))
	require.NoError(t, err, stderr)
	assert.Equal(t, "tasks create: done (tasks: 4 records)\n", stdout)

	created, ok := taskByTitle(env.backend.Tasks(), "Book venue")
	require.True(t, ok)
	assert.Equal(t, api.StatusPending, created.Status)
	assert.Equal(t, "Events", created.CategoryName)
}

func TestTasksCreate_PrintsRefreshedPage(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "tasks", "create", "--title", "Book venue", "-o", "json")
	require.NoError(t, err, stderr)

	out := decodeList(t, stdout)
	assert.Equal(t, "tasks", out.Page)
	assert.Equal(t, []string{"Book venue"}, titles(out.Records))
}

func TestTasksCreate_MissingTitle(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")

	_, _, err := env.run(t, "", "tasks", "create", "--description", "no title")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	assert.Zero(t, env.backend.Hits("POST /api/tasks/create"))
}

func TestTasksUpdate(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(2)
	env.login(t, "alice")

	_, stderr, err := env.run(t, "", "tasks", "update", fmt.Sprint(tasks[0].ID), "-q",
		"--title", "Renamed", "--due", "2024-07-15T17:00:00")
	require.NoError(t, err, stderr)

	updated, ok := taskByTitle(env.backend.Tasks(), "Renamed")
	require.True(t, ok)
	assert.Equal(t, tasks[0].ID, updated.ID)
	assert.Equal(t, "2024-07-15T17:00:00", updated.DueDate)
}

func TestTasksStatus(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(4)
	env.login(t, "bob")

	stdout, stderr, err := env.run(t, "", "tasks", "status", fmt.Sprint(tasks[0].ID), "in-progress", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "tasks status: done (my-tasks: 2 records)\n", stdout)

	got, ok := taskByTitle(env.backend.Tasks(), tasks[0].Title)
	require.True(t, ok)
	assert.Equal(t, api.StatusInProgress, got.Status)
}

func TestTasksStatus_Rejected(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(2)
	env.login(t, "bob")

	_, _, err := env.run(t, "", "tasks", "status", fmt.Sprint(tasks[0].ID), "done")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))

	// Task 02 is not bob's.
	_, _, err = env.run(t, "", "tasks", "status", fmt.Sprint(tasks[1].ID), "completed")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(err))

	got, _ := taskByTitle(env.backend.Tasks(), tasks[1].Title)
	assert.Equal(t, tasks[1].Status, got.Status)
}

func TestTasksAssign(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(4)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "tasks", "assign", fmt.Sprint(tasks[1].ID), "BOB", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "tasks assign: done (unassigned: 1 records)\n", stdout)

	got, _ := taskByTitle(env.backend.Tasks(), tasks[1].Title)
	assert.Equal(t, "bob", got.AssignedToUsername)
}

func TestTasksAssign_UnknownUser(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(2)
	env.login(t, "alice")

	_, _, err := env.run(t, "", "tasks", "assign", fmt.Sprint(tasks[1].ID), "mallory")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	assert.Zero(t, env.backend.Hits("PUT /api/tasks/assign"))
}

func TestTasksDelete_Bulk(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(3)
	env.login(t, "alice")

	stdout, _, err := env.run(t, "", "tasks", "delete",
		fmt.Sprint(tasks[0].ID), fmt.Sprint(tasks[1].ID), "999999", "--yes", "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "999999")
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(err))
	assert.Equal(t, "tasks delete: 2 succeeded, 1 failed (tasks: 1 records)\n", stdout)

	remaining := env.backend.Tasks()
	require.Len(t, remaining, 1)
	assert.Equal(t, tasks[2].ID, remaining[0].ID)
	assert.Equal(t, 1, env.backend.Hits("GET /api/tasks/get-all"), "one refresh after the batch")
}

func TestTasksDelete_NeedsConfirmation(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(1)
	env.login(t, "alice")

	_, _, err := env.run(t, "y\n", "tasks", "delete", fmt.Sprint(tasks[0].ID))
	require.ErrorIs(t, err, cli.ErrAborted)
	assert.Len(t, env.backend.Tasks(), 1)
}

func TestTasks_BadID(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")

	_, _, err := env.run(t, "", "tasks", "delete", "abc", "--yes")
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestCategoriesCreate(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")

	stdout, stderr, err := env.run(t, "", "categories", "create", "--name", "Events", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "categories create: done (categories: 1 records)\n", stdout)
}

func TestUsersCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")
	bob := env.backend.Users()[1]
	require.Equal(t, "bob", bob.Username)
	id := fmt.Sprint(bob.ID)

	_, stderr, err := env.run(t, "", "users", "assign-role", id, "admin", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "ROLE_ADMIN", env.backend.Users()[1].Role)

	_, stderr, err = env.run(t, "", "users", "revoke-role", id, "admin", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "ROLE_USER", env.backend.Users()[1].Role)

	_, stderr, err = env.run(t, "", "users", "toggle-activation", id, "-q")
	require.NoError(t, err, stderr)
	assert.False(t, env.backend.Users()[1].IsActive())

	_, _, err = env.run(t, "", "users", "assign-role", id, "superuser")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestUsersResetPassword(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "alice")
	bob := env.backend.Users()[1]

	_, stderr, err := env.run(t, "new-secret\n", "users", "reset-password", fmt.Sprint(bob.ID), "--password-stdin", "-q")
	require.NoError(t, err, stderr)

	_, _, err = env.run(t, "new-secret\n", "login", "-u", "bob", "--password-stdin")
	require.NoError(t, err)
}

func TestUsersCommands_RequireAdmin(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "bob")

	_, _, err := env.run(t, "", "users", "toggle-activation", "101", "-q")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(err))
	assert.True(t, env.backend.Users()[0].IsActive())
}

func TestCommentsCommands(t *testing.T) {
	env := newCLIEnv(t)
	tasks := env.seedTasks(1)
	taskID := fmt.Sprint(tasks[0].ID)
	env.login(t, "bob")

	stdout, stderr, err := env.run(t, "", "comments", "add", taskID, "--content", "Venue confirmed", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "comments add: done (comments: 1 records)\n", stdout)

	comments := env.backend.Comments(tasks[0].ID)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].Username)
	commentID := fmt.Sprint(comments[0].ID)

	_, stderr, err = env.run(t, "", "comments", "update", commentID, "--task", taskID, "--content", "Venue moved", "-q")
	require.NoError(t, err, stderr)
	_, stderr, err = env.run(t, "", "comments", "mark-read", commentID, "--task", taskID, "-q")
	require.NoError(t, err, stderr)

	comments = env.backend.Comments(tasks[0].ID)
	require.Len(t, comments, 1)
	assert.Equal(t, "Venue moved", comments[0].Content)
	assert.True(t, comments[0].Read)

	stdout, stderr, err = env.run(t, "", "comments", "delete", commentID, "--task", taskID, "--yes", "-q")
	require.NoError(t, err, stderr)
	assert.Equal(t, "comments delete: 1 succeeded, 0 failed (comments: 0 records)\n", stdout)
	assert.Empty(t, env.backend.Comments(tasks[0].ID))
}

func TestCommentsCommands_NeedTask(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "bob")

	_, _, err := env.run(t, "", "comments", "mark-read", "5")
	require.ErrorIs(t, err, cli.ErrUsage)
}

package cli_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/api/apitest"
	"github.com/rshade/taskdeck/internal/cli"
	"github.com/rshade/taskdeck/internal/config"
)

// cliEnv is an isolated taskdeck home pointed at a fake backend.
type cliEnv struct {
	backend *apitest.Backend
	home    string
}

// newCLIEnv isolates global state and serves a backend with an admin
// (alice) and a user (bob). Tests using it must not run in parallel.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	b := apitest.New()
	b.AddUser("alice", "alice-secret", "ROLE_ADMIN")
	b.AddUser("bob", "bob-secret", "ROLE_USER")

	home := t.TempDir()
	t.Setenv("TASKDECK_HOME", home)
	t.Setenv("TASKDECK_API_URL", b.Start(t))
	t.Setenv("TASKDECK_LOG_LEVEL", "error")
	t.Setenv("TASKDECK_PROJECT_DIR", "")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})

	return &cliEnv{backend: b, home: home}
}

// run executes taskdeck with args, feeding stdin.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// login signs in as username, whose password is "<username>-secret".
func (e *cliEnv) login(t *testing.T, username string) {
	t.Helper()
	_, stderr, err := e.run(t, username+"-secret\n", "login", "--username", username, "--password-stdin")
	require.NoError(t, err, "login failed: %s", stderr)
}

// seedTasks adds tasks named "Task 01" upwards, cycling through the
// statuses and assigning every other task to bob.
func (e *cliEnv) seedTasks(n int) []api.Task {
	statuses := api.TaskStatuses()
	out := make([]api.Task, 0, n)
	for i := range n {
		t := api.Task{
			Title:        fmt.Sprintf("Task %02d", i+1),
			Status:       statuses[i%len(statuses)],
			CategoryName: "Ops",
			DueDate:      fmt.Sprintf("2024-06-%02dT17:00:00", i%28+1),
		}
		if i%2 == 0 {
			t.AssignedToUsername = "bob"
		}
		out = append(out, e.backend.AddTask(t))
	}
	return out
}

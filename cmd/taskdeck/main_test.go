package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/cli"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/pkg/version"
)

func setupMainTest(t *testing.T) {
	t.Helper()
	t.Setenv("TASKDECK_HOME", t.TempDir())
	t.Setenv("TASKDECK_LOG_LEVEL", "error")
	t.Setenv("TASKDECK_PROJECT_DIR", "")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
}

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "taskdeck", root.Use)
	})
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "version",
			args:       []string{"version"},
			wantCode:   cli.ExitOK,
			wantStdout: "taskdeck ",
		},
		{
			name:       "unknown flag is a usage error",
			args:       []string{"pages", "--bogus"},
			wantCode:   cli.ExitUsage,
			wantStderr: "unknown flag",
		},
		{
			name:       "list without a session",
			args:       []string{"list", "tasks"},
			wantCode:   cli.ExitUnauthorized,
			wantStderr: "taskdeck login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupMainTest(t)
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

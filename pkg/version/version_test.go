package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.NotEmpty(t, GetGitCommit())
}

func TestLinkerOverrides(t *testing.T) {
	origVersion, origCommit, origDate := version, gitCommit, buildDate
	t.Cleanup(func() { version, gitCommit, buildDate = origVersion, origCommit, origDate })

	version, gitCommit, buildDate = "v1.2.0", "abc123", "2024-06-30"

	assert.Equal(t, "v1.2.0", GetVersion())
	assert.Equal(t, "abc123", GetGitCommit())
	assert.Equal(t, "2024-06-30", GetBuildDate())
	assert.Contains(t, String(), "taskdeck v1.2.0 (commit abc123, built 2024-06-30, "+runtime.Version())
}

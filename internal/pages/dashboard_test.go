package pages_test

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/pages"
)

func TestLoadDashboard(t *testing.T) {
	e := newEnv(t)
	e.backend.AddNotification("root", api.Notification{Message: "new task", Seen: false})
	e.backend.AddNotification("root", api.Notification{Message: "old task", Seen: true})
	e.backend.AddNotification("alice", api.Notification{Message: "not mine"})

	d, err := pages.LoadDashboard(context.Background(), e.admin.Client)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		api.StatusPending:    2,
		api.StatusInProgress: 2,
		api.StatusCompleted:  3,
	}, d.TasksByStatus)
	assert.Equal(t, 7, d.TotalTasks)
	assert.Equal(t, 3, d.Unassigned)
	assert.Equal(t, 3, d.TotalUsers)
	assert.Equal(t, 3, d.ActiveUsers)
	assert.Equal(t, 1, d.Admins)
	assert.Equal(t, 1, d.UnreadNotifications)
	assert.InDelta(t, 3.0/7.0, d.CompletionRate(), 1e-9)

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "Admin Dashboard")
	assert.Contains(t, out, "Unread notifications")
	assert.Contains(t, out, "42.9%")
}

func TestLoadDashboard_OneFailureFailsAll(t *testing.T) {
	e := newEnv(t)
	e.backend.FailNext("GET /api/user/getAllUsers", http.StatusInternalServerError, 1)

	_, err := pages.LoadDashboard(context.Background(), e.admin.Client)
	require.ErrorIs(t, err, api.ErrFetch)
	assert.Contains(t, err.Error(), "loading dashboard")
}

func TestDashboard_RenderGroupsThousands(t *testing.T) {
	d := pages.Dashboard{TasksByStatus: map[string]int{api.StatusCompleted: 1200}, TotalTasks: 2400}

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	assert.Contains(t, buf.String(), "2,400")
	assert.Contains(t, buf.String(), "50.0%")
}

func TestAssignment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := pages.LoadAssignment(ctx, e.admin.Client)
	require.NoError(t, err)
	assert.Len(t, a.Tasks, 3)
	assert.Len(t, a.Users, 3)

	bob, err := a.ResolveUser("BOB")
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.Username)

	byID, err := a.ResolveUser(" " + strconv.FormatInt(bob.ID, 10) + " ")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, byID.ID)

	_, err = a.ResolveUser("mallory")
	require.ErrorIs(t, err, pages.ErrUnknownUser)

	req, err := a.Request(a.Tasks[0].ID, "bob")
	require.NoError(t, err)
	require.NoError(t, e.admin.Client.AssignTask(ctx, req))

	_, err = a.Request(0, "bob")
	require.ErrorIs(t, err, api.ErrValidation)

	after, err := pages.LoadAssignment(ctx, e.admin.Client)
	require.NoError(t, err)
	assert.Len(t, after.Tasks, 2)
}

func TestAssignment_SkipsDeactivatedUsers(t *testing.T) {
	inactive := false
	a := &pages.Assignment{Users: []api.User{{ID: 9, Username: "gone", Active: &inactive}}}

	_, err := a.ResolveUser("gone")
	require.ErrorIs(t, err, pages.ErrUnknownUser)
	assert.Contains(t, err.Error(), "deactivated")
}

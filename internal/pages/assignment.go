package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/taskdeck/internal/api"
)

// Assignment is the data behind the task assignment screen: tasks waiting
// for an assignee and the users they may go to.
type Assignment struct {
	Tasks []api.Task
	Users []api.User
}

// LoadAssignment fetches unassigned tasks and users concurrently.
func LoadAssignment(ctx context.Context, client *api.Client) (*Assignment, error) {
	a := &Assignment{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a.Tasks, err = client.UnassignedTasks(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		a.Users, err = client.ListUsers(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading assignment data: %w", err)
	}
	return a, nil
}

// ResolveUser finds a user by numeric id or by case-insensitive username.
// Inactive accounts are not assignable.
func (a *Assignment) ResolveUser(ref string) (api.User, error) {
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.ParseInt(ref, 10, 64)
	for _, u := range a.Users {
		if (idErr == nil && u.ID == id) || strings.EqualFold(u.Username, ref) {
			if !u.IsActive() {
				return api.User{}, fmt.Errorf("%w: %s is deactivated", ErrUnknownUser, u.Username)
			}
			return u, nil
		}
	}
	return api.User{}, fmt.Errorf("%w: %q", ErrUnknownUser, ref)
}

// Request builds the assignment of taskID to the user named by ref.
func (a *Assignment) Request(taskID int64, ref string) (api.AssignRequest, error) {
	u, err := a.ResolveUser(ref)
	if err != nil {
		return api.AssignRequest{}, err
	}
	req := api.AssignRequest{TaskID: taskID, UserID: u.ID}
	return req, req.Validate()
}

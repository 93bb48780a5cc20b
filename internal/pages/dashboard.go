package pages

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/taskdeck/internal/api"
)

// Dashboard holds the admin overview counts.
type Dashboard struct {
	TasksByStatus       map[string]int `json:"tasks_by_status"`
	TotalTasks          int            `json:"total_tasks"`
	Unassigned          int            `json:"unassigned_tasks"`
	TotalUsers          int            `json:"total_users"`
	ActiveUsers         int            `json:"active_users"`
	Admins              int            `json:"admins"`
	UnreadNotifications int            `json:"unread_notifications"`
}

// CompletionRate returns the completed share of all tasks in [0,1].
func (d Dashboard) CompletionRate() float64 {
	if d.TotalTasks == 0 {
		return 0
	}
	return float64(d.TasksByStatus[api.StatusCompleted]) / float64(d.TotalTasks)
}

// LoadDashboard fetches tasks, users and notifications concurrently and
// counts them. The first failure cancels the other fetches.
func LoadDashboard(ctx context.Context, client *api.Client) (Dashboard, error) {
	var (
		tasks []api.Task
		users []api.User
		notes []api.Notification
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = client.ListTasks(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = client.ListUsers(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = client.MyNotifications(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("loading dashboard: %w", err)
	}

	return summarize(tasks, users, notes), nil
}

func summarize(tasks []api.Task, users []api.User, notes []api.Notification) Dashboard {
	d := Dashboard{
		TasksByStatus: make(map[string]int, len(api.TaskStatuses())),
		TotalTasks:    len(tasks),
		TotalUsers:    len(users),
	}
	for _, s := range api.TaskStatuses() {
		d.TasksByStatus[s] = 0
	}
	for _, t := range tasks {
		d.TasksByStatus[t.Status]++
		if t.AssignedToUsername == "" {
			d.Unassigned++
		}
	}
	for _, u := range users {
		if u.IsActive() {
			d.ActiveUsers++
		}
		if api.NormalizeRole(u.Role) == api.RoleAdmin {
			d.Admins++
		}
	}
	for _, n := range notes {
		if !n.Seen {
			d.UnreadNotifications++
		}
	}
	return d
}

// Render writes d as aligned text.
func (d Dashboard) Render(w io.Writer) error {
	p := message.NewPrinter(language.English)

	rows := []struct {
		label string
		value int
	}{
		{"Pending", d.TasksByStatus[api.StatusPending]},
		{"In progress", d.TasksByStatus[api.StatusInProgress]},
		{"Completed", d.TasksByStatus[api.StatusCompleted]},
		{"Total tasks", d.TotalTasks},
		{"Unassigned", d.Unassigned},
		{"Users", d.TotalUsers},
		{"Active users", d.ActiveUsers},
		{"Admins", d.Admins},
		{"Unread notifications", d.UnreadNotifications},
	}

	if _, err := p.Fprintf(w, "Admin Dashboard\n\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := p.Fprintf(w, "  %-22s %8d\n", r.label, r.value); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "\n  %-22s %7.1f%%\n", "Completion", d.CompletionRate()*100)
	return err
}

package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListTasks returns every task. Admin only.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.do(ctx, request{op: "list tasks", method: http.MethodGet, path: "tasks/get-all"}, &out)
	return out, err
}

// MyTasks returns the tasks assigned to the signed-in user.
func (c *Client) MyTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.do(ctx, request{op: "list my tasks", method: http.MethodGet, path: "tasks/my-tasks"}, &out)
	return out, err
}

// UnassignedTasks returns tasks nobody owns.
func (c *Client) UnassignedTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.do(ctx, request{op: "list unassigned tasks", method: http.MethodGet, path: "tasks/unassigned"}, &out)
	return out, err
}

// TasksByCategory returns the tasks of one category.
func (c *Client) TasksByCategory(ctx context.Context, categoryID int64) ([]Task, error) {
	var out []Task
	err := c.do(ctx, request{
		op:     "list tasks by category",
		method: http.MethodGet,
		path:   "tasks/category/" + idPath(categoryID),
	}, &out)
	return out, err
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (Task, error) {
	if err := in.Validate(); err != nil {
		return Task{}, err
	}
	var out Task
	err := c.do(ctx, request{op: "create task", method: http.MethodPost, path: "tasks/create", body: in}, &out)
	return out, err
}

// UpdateTask replaces the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskInput) (Task, error) {
	if err := in.Validate(); err != nil {
		return Task{}, err
	}
	var out Task
	err := c.do(ctx, request{op: "update task", method: http.MethodPut, path: "tasks/update/" + idPath(id), body: in}, &out)
	return out, err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "delete task", method: http.MethodDelete, path: "tasks/delete/" + idPath(id)}, nil)
}

// UpdateTaskStatus moves a task to status.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status string) error {
	s, err := NormalizeStatus(status)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "update task status",
		method: http.MethodPut,
		path:   "tasks/status/" + idPath(id),
		query:  url.Values{"status": {s}},
	}, nil)
}

// AssignTask assigns a task to a user.
func (c *Client) AssignTask(ctx context.Context, req AssignRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, request{op: "assign task", method: http.MethodPut, path: "tasks/assign", body: req}, nil)
}

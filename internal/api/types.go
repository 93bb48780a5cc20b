package api

import (
	"strings"

	"github.com/rshade/taskdeck/internal/listview"
)

// Task statuses.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// TaskStatuses lists the statuses in workflow order.
func TaskStatuses() []string {
	return []string{StatusPending, StatusInProgress, StatusCompleted}
}

// Roles lists the assignable roles.
func Roles() []string {
	return []string{RoleUser, RoleAdmin}
}

// NormalizeRole drops the "ROLE_" prefix and upper-cases. An empty role is
// USER.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	role = strings.TrimPrefix(role, "ROLE_")
	if role == "" {
		return RoleUser
	}
	return role
}

// Task is a task as returned by the backend. Dates are kept as sent.
type Task struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Status             string `json:"status"`
	AssignedToUsername string `json:"assignedToUsername,omitempty"`
	CategoryName       string `json:"categoryName,omitempty"`
	CategoryID         int64  `json:"categoryId,omitempty"`
	DueDate            string `json:"dueDate,omitempty"`
}

// ToRecord converts t for the list view engine. Absent optional fields are
// nil.
func (t Task) ToRecord() listview.Record {
	return listview.Record{
		"id":                 t.ID,
		"title":              t.Title,
		"description":        t.Description,
		"status":             t.Status,
		"assignedToUsername": optional(t.AssignedToUsername),
		"categoryName":       optional(t.CategoryName),
		"categoryId":         optionalID(t.CategoryID),
		"dueDate":            optional(t.DueDate),
	}
}

// User is an account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Active   *bool  `json:"active,omitempty"`
}

// IsActive reports the activation flag. Accounts are active unless the
// backend says otherwise.
func (u User) IsActive() bool {
	return u.Active == nil || *u.Active
}

// ToRecord converts u with its role normalised.
func (u User) ToRecord() listview.Record {
	return listview.Record{
		"id":       u.ID,
		"username": u.Username,
		"role":     NormalizeRole(u.Role),
		"active":   u.IsActive(),
	}
}

// Category groups tasks.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToRecord converts c.
func (c Category) ToRecord() listview.Record {
	return listview.Record{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
	}
}

// Comment is a comment on a task.
type Comment struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"taskId,omitempty"`
	Content   string `json:"content"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt,omitempty"`
	Read      bool   `json:"read"`
}

// ToRecord converts c. The task id is filled in from the request when the
// backend omits it.
func (c Comment) ToRecord() listview.Record {
	return listview.Record{
		"id":        c.ID,
		"taskId":    optionalID(c.TaskID),
		"content":   c.Content,
		"username":  c.Username,
		"createdAt": optional(c.CreatedAt),
		"read":      c.Read,
	}
}

// Notification is a message for the signed-in user.
type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ToRecord converts n.
func (n Notification) ToRecord() listview.Record {
	return listview.Record{
		"id":        n.ID,
		"message":   n.Message,
		"seen":      n.Seen,
		"createdAt": optional(n.CreatedAt),
	}
}

// Records converts a slice of DTOs.
func Records[T interface{ ToRecord() listview.Record }](items []T) []listview.Record {
	out := make([]listview.Record, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToRecord())
	}
	return out
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

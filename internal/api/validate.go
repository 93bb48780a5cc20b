package api

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Input limits.
const (
	MinUsernameLength = 2
	MinPasswordLength = 6
)

// Credentials is a username and password pair.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidateRegistration checks new-account credentials.
func ValidateRegistration(c Credentials) error {
	if utf8.RuneCountInString(strings.TrimSpace(c.Username)) < MinUsernameLength {
		return invalid("username", "must be at least 2 characters")
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength {
		return invalid("password", "must be at least 6 characters")
	}
	return nil
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(c Credentials) error {
	if strings.TrimSpace(c.Username) == "" {
		return invalid("username", "is required")
	}
	if c.Password == "" {
		return invalid("password", "is required")
	}
	return nil
}

// TaskInput is the body of task create and update.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	CategoryID  int64  `json:"categoryId,omitempty"`
}

// Validate requires a title.
func (t TaskInput) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "is required")
	}
	return nil
}

// CategoryInput is the body of category create.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate requires a name.
func (c CategoryInput) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "is required")
	}
	return nil
}

// CommentInput is the body of comment add and update.
type CommentInput struct {
	Content string `json:"content"`
}

// Validate requires content.
func (c CommentInput) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return invalid("content", "is required")
	}
	return nil
}

// AssignRequest assigns a task to a user.
type AssignRequest struct {
	TaskID int64 `json:"taskId"`
	UserID int64 `json:"userId"`
}

// Validate requires both ids.
func (a AssignRequest) Validate() error {
	if a.TaskID <= 0 {
		return invalid("taskId", "select a task")
	}
	if a.UserID <= 0 {
		return invalid("userId", "select a user")
	}
	return nil
}

// RoleRequest grants or revokes a role.
type RoleRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// Validate requires a user and a known role. Role is normalised first.
func (r *RoleRequest) Validate() error {
	if r.UserID <= 0 {
		return invalid("userId", "select a user")
	}
	r.Role = NormalizeRole(r.Role)
	if !slices.Contains(Roles(), r.Role) {
		return invalid("role", "must be one of "+strings.Join(Roles(), ", "))
	}
	return nil
}

// PasswordReset is the body of a password reset.
type PasswordReset struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Validate requires a new password of the minimum length.
func (p PasswordReset) Validate() error {
	if utf8.RuneCountInString(p.NewPassword) < MinPasswordLength {
		return invalid("newPassword", "must be at least 6 characters")
	}
	return nil
}

// NormalizeStatus upper-cases status and checks it is a task status.
func NormalizeStatus(status string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(status))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if !slices.Contains(TaskStatuses(), s) {
		return "", invalid("status", "must be one of "+strings.Join(TaskStatuses(), ", "))
	}
	return s, nil
}

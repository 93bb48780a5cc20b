package api

import (
	"context"
	"net/http"
)

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, request{op: "list users", method: http.MethodGet, path: "user/getAllUsers"}, &out)
	return out, err
}

// AssignRole grants a role.
func (c *Client) AssignRole(ctx context.Context, req RoleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, request{op: "assign role", method: http.MethodPut, path: "user/assign-role", body: req}, nil)
}

// RevokeRole removes a role.
func (c *Client) RevokeRole(ctx context.Context, req RoleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, request{op: "revoke role", method: http.MethodPut, path: "user/revoke-role", body: req}, nil)
}

// ToggleActivation flips the active flag of a user.
func (c *Client) ToggleActivation(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return invalid("userId", "select a user")
	}
	return c.do(ctx, request{
		op:     "toggle activation",
		method: http.MethodPut,
		path:   "user/toggle-activation/" + idPath(userID),
	}, nil)
}

// ResetPassword sets a new password for a user.
func (c *Client) ResetPassword(ctx context.Context, userID int64, req PasswordReset) error {
	if userID <= 0 {
		return invalid("userId", "select a user")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "reset password",
		method: http.MethodPut,
		path:   "user/reset-password/" + idPath(userID),
		body:   req,
	}, nil)
}

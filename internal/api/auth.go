package api

import (
	"context"
	"errors"
	"net/http"
)

// AuthResponse is the login response. Backends disagree on the token key
// and on where the user is nested, so every known shape is accepted.
type AuthResponse struct {
	Token    string `json:"token"`
	JWT      string `json:"jwt"`
	Username string `json:"username"`
	Role     string `json:"role"`
	User     *User  `json:"user"`
	Data     *User  `json:"data"`
}

// LoginResult is the normalised outcome of Login. Role and Username may be
// empty when the backend only returns a token.
type LoginResult struct {
	Token    string
	Username string
	Role     string
}

func (r AuthResponse) result() LoginResult {
	out := LoginResult{Token: r.Token, Username: r.Username, Role: r.Role}
	if out.Token == "" {
		out.Token = r.JWT
	}
	for _, u := range []*User{r.User, r.Data} {
		if u == nil {
			continue
		}
		if out.Username == "" {
			out.Username = u.Username
		}
		if out.Role == "" {
			out.Role = u.Role
		}
	}
	if out.Role != "" {
		out.Role = NormalizeRole(out.Role)
	}
	return out
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := ValidateLogin(creds); err != nil {
		return LoginResult{}, err
	}

	var resp AuthResponse
	err := c.do(ctx, request{op: "login", method: http.MethodPost, path: "auth/login", body: creds, anon: true}, &resp)
	if err != nil {
		var authErr *AuthorizationError
		if errors.As(err, &authErr) {
			authErr.Message = "invalid username/password"
		}
		return LoginResult{}, err
	}

	result := resp.result()
	if result.Token == "" {
		return LoginResult{}, &AuthorizationError{Op: "login", Message: "invalid username/password"}
	}
	if result.Username == "" {
		result.Username = creds.Username
	}
	return result, nil
}

// Register creates an account. A 403 means the username is taken.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	if err := ValidateRegistration(creds); err != nil {
		return err
	}

	err := c.do(ctx, request{op: "register", method: http.MethodPost, path: "user/register", body: creds, anon: true}, nil)
	var authErr *AuthorizationError
	if errors.As(err, &authErr) && authErr.Status == http.StatusForbidden {
		return invalid("username", "username already exists")
	}
	return err
}

package session

import (
	"errors"
	"time"

	"github.com/rshade/taskdeck/internal/api"
)

// Sentinel errors.
var (
	ErrNoSession = errors.New("not logged in")
	ErrExpired   = errors.New("session expired")
)

// Session is the signed-in identity. It is passed explicitly to the API
// client, as its TokenSource, and to pages for role visibility.
type Session struct {
	AccessToken string    `json:"token"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`

	now func() time.Time
}

// New builds a session from a login result. Username, role and expiry
// missing from the result are read from the token claims; a token that is
// not a JWT is kept as an opaque bearer token.
func New(result api.LoginResult) *Session {
	s := &Session{
		AccessToken: result.Token,
		Username:    result.Username,
		Role:        result.Role,
	}
	if claims, err := ParseClaims(result.Token); err == nil {
		if s.Username == "" {
			s.Username = claims.User()
		}
		if s.Role == "" {
			s.Role = claims.PrimaryRole()
		}
		if claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	s.Role = api.NormalizeRole(s.Role)
	return s
}

// Token implements api.TokenSource.
func (s *Session) Token() (string, error) {
	if s == nil || s.AccessToken == "" {
		return "", ErrNoSession
	}
	if s.Expired() {
		return "", ErrExpired
	}
	return s.AccessToken, nil
}

// Expired reports whether the token expiry has passed. Sessions without
// an expiry never expire client-side.
func (s *Session) Expired() bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return !now().Before(s.ExpiresAt)
}

// IsAdmin reports whether the session holds the ADMIN role.
func (s *Session) IsAdmin() bool {
	return s != nil && api.NormalizeRole(s.Role) == api.RoleAdmin
}

// HasRole reports whether the session may see something restricted to
// roles. An empty roles list means everyone; ADMIN sees everything.
func (s *Session) HasRole(roles ...string) bool {
	if len(roles) == 0 || s.IsAdmin() {
		return true
	}
	if s == nil {
		return false
	}
	mine := api.NormalizeRole(s.Role)
	for _, r := range roles {
		if api.NormalizeRole(r) == mine {
			return true
		}
	}
	return false
}

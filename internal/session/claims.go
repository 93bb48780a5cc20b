package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the part of the backend token taskdeck reads. The signature is
// not checked client-side.
type Claims struct {
	jwt.RegisteredClaims
	Username    string   `json:"username,omitempty"`
	Role        string   `json:"role,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
}

// ParseClaims decodes token without verifying it.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding token claims: %w", err)
	}
	return claims, nil
}

// User returns the username carried by the claims.
func (c *Claims) User() string {
	if c.Username != "" {
		return c.Username
	}
	return c.RegisteredClaims.Subject
}

// PrimaryRole returns the most privileged role named anywhere in the
// claims, or "".
func (c *Claims) PrimaryRole() string {
	all := append([]string{c.Role}, c.Roles...)
	all = append(all, c.Authorities...)
	for i, r := range all {
		all[i] = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(r)), "ROLE_")
	}
	if slices.Contains(all, "ADMIN") {
		return "ADMIN"
	}
	if slices.Contains(all, "USER") {
		return "USER"
	}
	return ""
}

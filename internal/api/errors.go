package api

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrFetch        = errors.New("fetch failed")
	ErrUnauthorized = errors.New("not authorized")
	ErrValidation   = errors.New("invalid input")
)

// FetchError reports a transport failure or a non-2xx response other than
// 401/403. Status is zero for transport failures.
type FetchError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

// Is matches ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Unwrap returns the transport error, if any.
func (e *FetchError) Unwrap() error { return e.Err }

// AuthorizationError reports a 401 or 403 response, or a missing session.
type AuthorizationError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *AuthorizationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: not authorized (HTTP %d): %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s: not authorized: %s", e.Op, msg)
}

// Is matches ErrUnauthorized.
func (e *AuthorizationError) Is(target error) bool { return target == ErrUnauthorized }

// Unwrap returns the underlying cause, if any.
func (e *AuthorizationError) Unwrap() error { return e.Err }

// ValidationError reports input rejected before any request is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

package listview

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched (via errors.Is) by every ConfigurationError.
var ErrConfiguration = errors.New("invalid list configuration")

// ConfigurationError reports a list setup problem: a non-positive page size, a
// field that cannot be sorted, or a malformed filter field name. It is raised
// while a view is being configured and never while records are processed.
type ConfigurationError struct {
	// Setting names what was being configured (e.g. "page size", "sort field").
	Setting string
	// Value is the rejected input.
	Value string
	// Reason explains the rejection.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Setting, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q: %s", ErrConfiguration, e.Setting, e.Value, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(setting, value, reason string) error {
	return &ConfigurationError{Setting: setting, Value: value, Reason: reason}
}

package cli

import (
	"errors"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/session"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitUnauthorized = 3
)

// ErrUsage marks malformed flags and arguments.
var ErrUsage = errors.New("invalid usage")

// ExitCode maps a command error to the process exit code. Authorization
// problems exit 3, configuration and input errors exit 2, everything else 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, pages.ErrPageForbidden):
		return ExitUnauthorized
	case errors.Is(err, listview.ErrConfiguration),
		errors.Is(err, api.ErrValidation),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, pages.ErrUnknownPage),
		errors.Is(err, pages.ErrTaskRequired),
		errors.Is(err, pages.ErrUnknownUser),
		errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

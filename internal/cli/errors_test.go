package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cli"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/session"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitOK},
		{"generic", errors.New("boom"), cli.ExitFailure},
		{"fetch failure", &api.FetchError{Op: "list tasks", Status: 500}, cli.ExitFailure},
		{"unauthorized", &api.AuthorizationError{Op: "list users", Status: 403}, cli.ExitUnauthorized},
		{"no session", fmt.Errorf("%w: run `taskdeck login`", session.ErrNoSession), cli.ExitUnauthorized},
		{"expired session", session.ErrExpired, cli.ExitUnauthorized},
		{"forbidden page", fmt.Errorf("%w: users", pages.ErrPageForbidden), cli.ExitUnauthorized},
		{"configuration", fmt.Errorf("wrapped: %w", listview.ErrConfiguration), cli.ExitUsage},
		{"validation", &api.ValidationError{Field: "title", Reason: "is required"}, cli.ExitUsage},
		{"invalid config", config.ErrInvalidConfig, cli.ExitUsage},
		{"unknown page", pages.ErrUnknownPage, cli.ExitUsage},
		{"task required", pages.ErrTaskRequired, cli.ExitUsage},
		{"unknown user", pages.ErrUnknownUser, cli.ExitUsage},
		{"usage", fmt.Errorf("%w: bad id", cli.ErrUsage), cli.ExitUsage},
		{"aborted", cli.ErrAborted, cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

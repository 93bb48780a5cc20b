package pages

import "errors"

var (
	// ErrUnknownPage is returned when a page name is not in the catalog.
	ErrUnknownPage = errors.New("unknown page")

	// ErrPageForbidden is returned when the session's role may not open a page.
	ErrPageForbidden = errors.New("page not available for this role")

	// ErrTaskRequired is returned when a task-scoped page has no task id.
	ErrTaskRequired = errors.New("page requires a task id")

	// ErrUnknownUser is returned when an assignment names a user that does
	// not exist.
	ErrUnknownUser = errors.New("unknown user")
)

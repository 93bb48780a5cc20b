// Package api is the HTTP client for the task-management backend.
//
// Every call takes a context and returns either decoded DTOs or one of the
// typed errors in errors.go: AuthorizationError for 401/403, FetchError for
// transport and other HTTP failures, and ValidationError for requests
// rejected before they are sent. The client never retries.
//
// DTOs convert to listview.Record values with their ToRecord methods.
package api

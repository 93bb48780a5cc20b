// Package logging builds the zerolog loggers used across taskdeck.
//
// A logger is created once per command invocation from Config, tagged with a
// component name, and stored in the context together with a ULID trace id.
// Code downstream retrieves it with FromContext and attaches the context to
// each event (.Ctx(ctx)) so the trace hook can stamp the trace id.
//
// The package also provides the mutation audit trail (AuditLogger) and helpers
// that keep credentials out of log output.
package logging

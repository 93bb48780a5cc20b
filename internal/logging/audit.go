package logging

import (
	"context"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AuditLoggerConfig enables the mutation audit trail.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
}

// AuditEntry records one mutation attempt.
type AuditEntry struct {
	Command  string
	Username string
	Target   string
	Params   map[string]string
	Success  bool
	Error    string
	Duration time.Duration
}

// NewAuditEntry starts an entry for command issued by username.
func NewAuditEntry(command, username string) *AuditEntry {
	return &AuditEntry{Command: command, Username: username, Params: map[string]string{}}
}

// WithTarget sets the id of the record being changed.
func (e *AuditEntry) WithTarget(id string) *AuditEntry {
	e.Target = id
	return e
}

// WithParams merges params into the entry.
func (e *AuditEntry) WithParams(params map[string]string) *AuditEntry {
	maps.Copy(e.Params, params)
	return e
}

// WithResult records the outcome.
func (e *AuditEntry) WithResult(err error, d time.Duration) *AuditEntry {
	e.Success = err == nil
	if err != nil {
		e.Error = err.Error()
	}
	e.Duration = d
	return e
}

// AuditLogger appends AuditEntry values as JSON lines. A disabled logger
// drops everything.
type AuditLogger struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	file    *os.File
	enabled bool
}

// NewAuditLogger opens the audit file when cfg enables it. If the file
// cannot be opened the returned logger is disabled.
func NewAuditLogger(cfg AuditLoggerConfig) *AuditLogger {
	if !cfg.Enabled || cfg.File == "" {
		return &AuditLogger{}
	}
	f, err := openLogFile(cfg.File)
	if err != nil {
		return &AuditLogger{}
	}
	return &AuditLogger{
		logger:  zerolog.New(f).Hook(TraceHook{}).With().Timestamp().Logger(),
		file:    f,
		enabled: true,
	}
}

// Enabled reports whether entries are written.
func (a *AuditLogger) Enabled() bool {
	return a != nil && a.enabled
}

// Log writes entry.
func (a *AuditLogger) Log(ctx context.Context, entry *AuditEntry) {
	if !a.Enabled() || entry == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	params := zerolog.Dict()
	for k, v := range entry.Params {
		params = params.Str(k, v)
	}
	ev := a.logger.Info().Ctx(ctx).
		Str("command", entry.Command).
		Str("username", entry.Username).
		Str("target", entry.Target).
		Dict("params", params).
		Bool("success", entry.Success).
		Dur("duration_ms", entry.Duration)
	if entry.Error != "" {
		ev = ev.Str("error", entry.Error)
	}
	ev.Msg("audit")
}

// Close closes the audit file.
func (a *AuditLogger) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.file.Close()
	a.file = nil
	a.enabled = false
	return err
}

type auditLoggerKey struct{}

// ContextWithAuditLogger stores a in ctx.
func ContextWithAuditLogger(ctx context.Context, a *AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, a)
}

// AuditLoggerFromContext returns the audit logger of ctx, or a disabled one.
func AuditLoggerFromContext(ctx context.Context) *AuditLogger {
	if ctx != nil {
		if a, ok := ctx.Value(auditLoggerKey{}).(*AuditLogger); ok && a != nil {
			return a
		}
	}
	return &AuditLogger{}
}

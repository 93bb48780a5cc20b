package config

import (
	"os"

	"github.com/rshade/taskdeck/internal/logging"
)

// ToLoggingConfig converts the logging section for internal/logging.
// A configured file selects file output; otherwise logs go to stderr.
// TASKDECK_LOG_LEVEL and TASKDECK_LOG_FORMAT override the file values.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	out := logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: logging.OutputStderr,
		File:   lc.File,
	}
	if lc.File != "" {
		out.Output = outputTypeFile
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		out.Level = v
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		out.Format = v
	}
	return out
}

// ToAuditConfig converts the audit subsection for internal/logging.
func (lc *LoggingConfig) ToAuditConfig() logging.AuditLoggerConfig {
	return logging.AuditLoggerConfig{Enabled: lc.Audit.Enabled, File: lc.Audit.File}
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}

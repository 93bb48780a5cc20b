package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

const redactedKeep = 4

//nolint:gochecknoglobals // Lookup table.
var sensitiveKeys = []string{"token", "password", "secret", "authorization"}

// RedactToken keeps the last few characters of a credential for correlation.
func RedactToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if len(token) <= redactedKeep*2 {
		return "***"
	}
	return "***" + token[len(token)-redactedKeep:]
}

// SafeStr adds key to e, redacting value when key names a credential.
func SafeStr(e *zerolog.Event, key, value string) *zerolog.Event {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return e.Str(key, RedactToken(value))
		}
	}
	return e.Str(key, value)
}

package log

import (
	"context"
	"strings"
)

// ContextWithCorrelationID stores id for later loggers built from ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelatedIDKey, id)
}

// ContextWithLogger stores a request-scoped logger.
func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerKeyForContext, logger)
}

// MaskEmail keeps the first three characters of the local part and the domain:
// "jane.doe@example.com" becomes "jan***@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "***"
	}

	local := []rune(email[:at])
	if len(local) > 3 {
		local = local[:3]
	}
	return string(local) + "***" + email[at:]
}

package logging

import (
	"context"

	"github.com/ternarybob/arbor"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger arbor.ILogger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx, or fallback.
func FromContext(ctx context.Context, fallback arbor.ILogger) arbor.ILogger {
	if logger, ok := ctx.Value(contextKey{}).(arbor.ILogger); ok && logger != nil {
		return logger
	}
	return fallback
}

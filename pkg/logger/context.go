package logger

import (
	"context"
	"log/slog"
)

type ctxKeyType struct{}

var ctxKey ctxKeyType

// With attaches a child logger carrying the given fields to the context.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey, From(ctx).With(fields...))
}

// From returns the context-scoped logger, falling back to the shared one.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}

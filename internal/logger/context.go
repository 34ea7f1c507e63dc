package logger

import (
	"context"
	"log/slog"
)

type contextKey string

// Context keys whose values are copied onto every record logged with that
// context.
const (
	CommandKey contextKey = "nullslot.command"
	FlowKey    contextKey = "nullslot.flow"
)

// WithCommand tags ctx with the CLI command being run.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, CommandKey, name)
}

// WithFlow tags ctx with the login flow being run.
func WithFlow(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, FlowKey, name)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range []contextKey{CommandKey, FlowKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}

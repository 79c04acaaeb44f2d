package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/graphql2js/internal/logfields"
)

type ctxKey int

const runIDKey ctxKey = iota

// WithRunID returns a context carrying the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier, or "" outside a run.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if id := RunIDFromContext(ctx); id != "" {
		return []slog.Attr{logfields.RunID(id)}
	}
	return nil
}

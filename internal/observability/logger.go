package observability

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const (
	ctxKeyUpdateID ctxKey = "update_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithUpdateID stores the chat platform's update id in the context so every
// log line of a turn can be correlated with the inbound event.
func WithUpdateID(ctx context.Context, updateID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUpdateID, updateID)
}

// LoggerFromContext adds update_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	id, ok := ctx.Value(ctxKeyUpdateID).(int64)
	if !ok {
		return logger
	}
	return logger.With("update_id", id)
}

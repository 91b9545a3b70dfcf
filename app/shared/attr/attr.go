// Package attr provides slog attribute helpers shared across modules so log
// fields stay consistently named.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type contextKey string

// CorrelationIDKey is the context key under which a request or message
// correlation ID travels.
const CorrelationIDKey contextKey = "correlation_id"

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// UUID renders a uuid.UUID attribute.
func UUID(key string, id uuid.UUID) slog.Attr { return slog.String(key, id.String()) }

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// NewCorrelationID generates a fresh correlation ID.
func NewCorrelationID() string { return uuid.NewString() }

// ExtractCorrelationID pulls the correlation ID from the context, or an empty
// attribute if none is set.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}

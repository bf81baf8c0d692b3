package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const (
	requestIDKey ctxKey = ContextKeyRequestID
	ownerIDKey   ctxKey = ContextKeyOwnerID
)

// Init installs the process-wide logger writing to stdout
func Init(cfg Config) *slog.Logger {
	return InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter installs the process-wide logger writing to w
func InitWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	handler = handler.WithAttrs(cfg.BaseAttributes())

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// GenerateRequestID creates a new UUID for tracing requests and background runs.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context containing the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithOwner returns a new context tagged with the owning account of the character being handled.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// RequestIDFromContext extracts the request ID from the context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// GetRequestID returns the request ID or an empty string
func GetRequestID(ctx context.Context) string {
	id, _ := RequestIDFromContext(ctx)
	return id
}

// FromContext returns a logger that includes request_id and owner_id when present.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if id, ok := RequestIDFromContext(ctx); ok {
		l = l.With(AttrKeyRequestID, id)
	}
	if owner, ok := ctx.Value(ownerIDKey).(string); ok && owner != "" {
		l = l.With(AttrKeyOwnerID, owner)
	}
	return l
}

// Debug logs at debug level on the default logger
func Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }

// Info logs at info level on the default logger
func Info(msg string, args ...any) { slog.Default().Info(msg, args...) }

// Warn logs at warn level on the default logger
func Warn(msg string, args ...any) { slog.Default().Warn(msg, args...) }

// Error logs at error level on the default logger
func Error(msg string, args ...any) { slog.Default().Error(msg, args...) }

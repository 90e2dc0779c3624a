package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/reqctx"
	"github.com/lmittmann/tint"
)

// ContextHandler decorates every record with the request id and, once the
// caller is authenticated, the user id found in the record's context.
type ContextHandler struct {
	inner slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := reqctx.RequestID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if uid := reqctx.UserID(ctx); uid != "" {
			r.AddAttrs(slog.String("user_id", uid))
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

const redacted = "[REDACTED]"

// sensitiveKeys never reach the log sink with their value.
var sensitiveKeys = map[string]struct{}{
	"password":          {},
	"password_hash":     {},
	"token":             {},
	"authorization":     {},
	"two_factor_secret": {},
	"jwt_secret":        {},
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

// New builds the process logger: tint for local development, JSON elsewhere.
// Both sinks redact credential-bearing attributes.
func New(env string, level slog.Level, w io.Writer) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen, ReplaceAttr: redact})
	} else {
		inner = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: redact})
	}
	return slog.New(NewContextHandler(inner))
}

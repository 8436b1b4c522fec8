package redact

import (
	"context"
	"log/slog"
)

// Handler is an slog.Handler that redacts the record message and every
// string-typed attribute value before delegating to the wrapped handler.
// Installed in front of shared handlers it acts as a pre-dispatch filter:
// no downstream sink ever sees an unredacted record.
//
// Non-string attribute kinds pass through unchanged. LogValuer attributes
// are resolved first, so lazily-produced strings are redacted too.
type Handler struct {
	inner slog.Handler
}

// NewHandler wraps inner with redaction. Wrapping an already-wrapped handler
// is harmless: redaction is idempotent.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

// Enabled delegates level filtering to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the record and delegates.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, Apply(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs redacts the pre-bound attributes before storing them downstream.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &Handler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup delegates grouping; records still pass through Handle.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Apply(v.String()))
	case slog.KindGroup:
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	default:
		return slog.Attr{Key: a.Key, Value: v}
	}
}

// Compile-time interface satisfaction check.
var _ slog.Handler = (*Handler)(nil)

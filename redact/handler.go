package redact

import (
	"context"
	"log/slog"
)

// Handler is a slog.Handler decorator that redacts sensitive attribute
// values and key=value pairs inside log messages before delegating to
// the wrapped handler.
type Handler struct {
	inner     slog.Handler
	fields    map[string]struct{}
	list      []string
	redaction string
	separator string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps inner so that attributes named after any of the given
// fields, and matching key=value pairs inside record messages, are
// replaced with DefaultRedaction.
func NewHandler(inner slog.Handler, fields []string) *Handler {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return &Handler{
		inner:     inner,
		fields:    set,
		list:      fields,
		redaction: DefaultRedaction,
		separator: ";",
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(
		record.Time,
		record.Level,
		Filter(h.list, h.redaction, record.Message, h.separator),
		record.PC,
	)
	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.redactAttr(a)
	}
	return &Handler{
		inner:     h.inner.WithAttrs(clean),
		fields:    h.fields,
		list:      h.list,
		redaction: h.redaction,
		separator: h.separator,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		inner:     h.inner.WithGroup(name),
		fields:    h.fields,
		list:      h.list,
		redaction: h.redaction,
		separator: h.separator,
	}
}

func (h *Handler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		clean := make([]slog.Attr, len(members))
		for i, m := range members {
			clean[i] = h.redactAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}
	if _, ok := h.fields[a.Key]; ok {
		return slog.String(a.Key, h.redaction)
	}
	return a
}

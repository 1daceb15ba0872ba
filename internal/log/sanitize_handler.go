package log

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// MaxAttrLen caps the length of logged string attribute values. Carved
// runs can reach the preview limit and beyond; a log line is not the
// place for them in full.
const MaxAttrLen = 256

// truncationMarker is appended to values cut at MaxAttrLen.
const truncationMarker = "...(truncated)"

// SanitizeHandler wraps an slog.Handler and sanitizes string attribute
// values: control characters are replaced and over-long values truncated
// before the record reaches the underlying handler.
//
// Design decision: A handler wrapper rather than call-site discipline,
// because carved bytes flow through many logging call sites and a single
// missed one is enough to mangle a terminal.
type SanitizeHandler struct {
	handler slog.Handler
}

// NewSanitizeHandler creates a SanitizeHandler wrapping the given handler.
// If handler is nil, slog.Default()'s handler is used.
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added,
// sanitized first.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, SanitizeValue(a.Value.String()))
	}
	return a
}

// SanitizeValue replaces control characters with U+FFFD and truncates
// over-long values.
func SanitizeValue(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return unicode.ReplacementChar
		}
		return r
	}, s)

	runes := []rune(cleaned)
	if len(runes) > MaxAttrLen {
		return string(runes[:MaxAttrLen]) + truncationMarker
	}
	return cleaned
}

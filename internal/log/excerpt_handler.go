package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// MaxExcerpt is the rune limit for values of content keys.
	MaxExcerpt = 80

	// MaxValue is the rune limit for any other string value.
	MaxValue = 240

	// Ellipsis marks a shortened value.
	Ellipsis = "…"
)

// contentKeys are attribute keys whose values are page content.
var contentKeys = map[string]bool{
	"text":      true,
	"body":      true,
	"excerpt":   true,
	"match":     true,
	"signature": true,
	"title":     true,
	"snippet":   true,
}

// ExcerptHandler wraps an slog.Handler and shortens string attributes
// before passing records on.
type ExcerptHandler struct {
	handler slog.Handler
}

// NewExcerptHandler creates a new ExcerptHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewExcerptHandler(handler slog.Handler) *ExcerptHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ExcerptHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *ExcerptHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shortens the record's attributes and passes it to the underlying handler.
func (h *ExcerptHandler) Handle(ctx context.Context, r slog.Record) error {
	shortened := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		shortened.AddAttrs(shortenAttr(a))
		return true
	})

	return h.handler.Handle(ctx, shortened)
}

// WithAttrs returns a new handler with the given attributes shortened and added.
func (h *ExcerptHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = shortenAttr(a)
	}
	return &ExcerptHandler{handler: h.handler.WithAttrs(out)}
}

// WithGroup returns a new handler with the given group name.
func (h *ExcerptHandler) WithGroup(name string) slog.Handler {
	return &ExcerptHandler{handler: h.handler.WithGroup(name)}
}

// shortenAttr shortens a single attribute, recursing into groups.
func shortenAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() { //nolint:exhaustive // only strings and groups carry content
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = shortenAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindString:
		if contentKeys[strings.ToLower(a.Key)] {
			return slog.String(a.Key, Excerpt(a.Value.String(), MaxExcerpt))
		}
		return slog.String(a.Key, truncate(a.Value.String(), MaxValue))
	default:
		return a
	}
}

// Excerpt collapses whitespace in s to single spaces and cuts the result to
// at most limit runes, appending Ellipsis when it was cut.
func Excerpt(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + Ellipsis
}

// truncate cuts s to at most limit runes, appending Ellipsis when it was
// cut. Whitespace is left as is.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + Ellipsis
}

// NewLogger creates a text logger writing to w. Verbose selects Debug level,
// otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewExcerptHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a JSON logger writing to w. Useful for log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewExcerptHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

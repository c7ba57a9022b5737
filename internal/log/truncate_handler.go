package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultMaxAttrLen is the default cap on logged string attribute values.
// Long enough for URLs, selectors, and error chains; far too short for a
// page of markup, which is the point.
const DefaultMaxAttrLen = 256

// TruncateHandler wraps an slog.Handler to cap string attribute lengths.
// It intercepts log records and truncates oversized string values before
// passing them to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay free of defensive truncation boilerplate
type TruncateHandler struct {
	// handler is the underlying slog handler that receives capped records.
	handler slog.Handler

	// maxAttrLen is the maximum string attribute length in bytes.
	maxAttrLen int
}

// TruncateHandlerOption configures a TruncateHandler.
type TruncateHandlerOption func(*TruncateHandler)

// WithMaxAttrLen overrides the attribute length cap.
func WithMaxAttrLen(n int) TruncateHandlerOption {
	return func(h *TruncateHandler) {
		if n > 0 {
			h.maxAttrLen = n
		}
	}
}

// NewTruncateHandler creates a TruncateHandler wrapping the given handler.
// If handler is nil, the returned TruncateHandler uses slog.Default().Handler().
func NewTruncateHandler(handler slog.Handler, opts ...TruncateHandlerOption) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &TruncateHandler{
		handler:    handler,
		maxAttrLen: DefaultMaxAttrLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle caps the record's attributes and passes it to the underlying
// handler.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are capped before being added.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	capped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		capped[i] = h.truncateAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(capped), maxAttrLen: h.maxAttrLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxAttrLen: h.maxAttrLen}
}

// truncateAttr caps a single attribute, recursively handling groups.
func (h *TruncateHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		capped := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			capped[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(capped...)}
	}

	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if len(s) > h.maxAttrLen {
			dropped := len(s) - h.maxAttrLen
			return slog.String(a.Key, fmt.Sprintf("%s...(+%d bytes)", s[:h.maxAttrLen], dropped))
		}
	}

	return a
}

// NewLogger creates a new slog.Logger with markup-safe handling.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTruncateHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with markup-safe handling that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewTruncateHandler(jsonHandler))
}

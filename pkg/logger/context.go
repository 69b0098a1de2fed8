package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type (
	collectionKey struct{}
	requestIDKey  struct{}
)

// WithCollection tags ctx with the record collection being slugged.
func WithCollection(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, collectionKey{}, name)
}

// WithRequestID tags ctx with a request identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// CollectionExtractor adds a "collection" attribute set by WithCollection.
func CollectionExtractor() ContextExtractor {
	return stringExtractor(collectionKey{}, "collection")
}

// RequestIDExtractor adds a "request_id" attribute set by WithRequestID.
func RequestIDExtractor() ContextExtractor {
	return stringExtractor(requestIDKey{}, "request_id")
}

func stringExtractor(key any, attr string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			return slog.String(attr, v), true
		}
		return slog.Attr{}, false
	}
}

// decorator injects context-extracted attributes on every Handle call.
type decorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// Decorate wraps next so each record gets the extractors' attributes.
// Nil extractors are ignored.
func Decorate(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	if len(clean) == 0 {
		return next
	}
	return &decorator{next: next, extractors: clean}
}

func (h *decorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *decorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *decorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &decorator{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *decorator) WithGroup(name string) slog.Handler {
	return &decorator{next: h.next.WithGroup(name), extractors: h.extractors}
}

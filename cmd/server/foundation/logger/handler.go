package logger

import (
	"context"
	"log/slog"
)

// logHandler provides a wrapper around the slog handler to capture which
// log level is being logged for event handling.
type logHandler struct {
	handler slog.Handler
	events  Events
}

func newLogHandler(handler slog.Handler, events Events) *logHandler {
	return &logHandler{
		handler: handler,
		events:  events,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler whose attributes consist of both the
// receiver's attributes and the arguments.
func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{
		handler: h.handler.WithAttrs(attrs),
		events:  h.events,
	}
}

// WithGroup returns a new handler with the given group appended to the
// receiver's existing groups.
func (h *logHandler) WithGroup(name string) slog.Handler {
	return &logHandler{
		handler: h.handler.WithGroup(name),
		events:  h.events,
	}
}

// Handle looks for an event function associated with the log level and
// executes it before handing the record to the underlying handler.
func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	f := func(eventFn EventFn) {
		if eventFn == nil {
			return
		}

		attrs := make(map[string]any, r.NumAttrs())
		r.Attrs(func(attr slog.Attr) bool {
			attrs[attr.Key] = attr.Value.Any()
			return true
		})

		eventFn(ctx, Record{
			Time:       r.Time,
			Message:    r.Message,
			Level:      Level(r.Level),
			Attributes: attrs,
		})
	}

	switch r.Level {
	case slog.LevelDebug:
		f(h.events.Debug)
	case slog.LevelInfo:
		f(h.events.Info)
	case slog.LevelWarn:
		f(h.events.Warn)
	case slog.LevelError:
		f(h.events.Error)
	}

	return h.handler.Handle(ctx, r)
}

// Package logging provides a custom slog handler that retains recent
// warnings and errors in memory so they can be surfaced on the health
// endpoint without a log aggregation backend.
package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// defaultCapacity is the number of records retained when none is given.
const defaultCapacity = 50

// Entry is a retained log record.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// RecentHandler is a slog.Handler that wraps another handler and also keeps
// the most recent records at WARN level and above in a ring buffer.
type RecentHandler struct {
	inner slog.Handler
	level slog.Level

	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewRecentHandler creates a RecentHandler that wraps the given handler and
// retains up to capacity records at WARN level and above.
func NewRecentHandler(inner slog.Handler, capacity int) *RecentHandler {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &RecentHandler{
		inner:   inner,
		level:   slog.LevelWarn,
		entries: make([]Entry, capacity),
	}
}

// Enabled implements slog.Handler.
func (h *RecentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RecentHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.retain(r)
	}
	return nil
}

// WithAttrs implements slog.Handler. The ring buffer is shared with the
// derived handler so retained records end up in one place.
func (h *RecentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derivedHandler{inner: h.inner.WithAttrs(attrs), parent: h}
}

// WithGroup implements slog.Handler.
func (h *RecentHandler) WithGroup(name string) slog.Handler {
	return &derivedHandler{inner: h.inner.WithGroup(name), parent: h}
}

// Recent returns the retained records, oldest first.
func (h *RecentHandler) Recent() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		out := make([]Entry, h.next)
		copy(out, h.entries[:h.next])
		return out
	}

	out := make([]Entry, 0, len(h.entries))
	out = append(out, h.entries[h.next:]...)
	out = append(out, h.entries[:h.next]...)
	return out
}

func (h *RecentHandler) retain(r slog.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	h.next++
	if h.next == len(h.entries) {
		h.next = 0
		h.full = true
	}
}

// derivedHandler forwards to a handler derived via WithAttrs/WithGroup while
// retaining records in the parent's ring buffer.
type derivedHandler struct {
	inner  slog.Handler
	parent *RecentHandler
}

func (h *derivedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *derivedHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.parent.level {
		h.parent.retain(r)
	}
	return nil
}

func (h *derivedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derivedHandler{inner: h.inner.WithAttrs(attrs), parent: h.parent}
}

func (h *derivedHandler) WithGroup(name string) slog.Handler {
	return &derivedHandler{inner: h.inner.WithGroup(name), parent: h.parent}
}

// ParseLevel converts a config log level string to a slog.Level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

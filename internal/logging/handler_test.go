package logging

import (
	"io"
	"log/slog"
	"testing"
)

func newTestHandler(capacity int) (*RecentHandler, *slog.Logger) {
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	h := NewRecentHandler(inner, capacity)
	return h, slog.New(h)
}

func TestRecentHandler_RetainsWarnAndAbove(t *testing.T) {
	h, logger := newTestHandler(10)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(recent))
	}
	if recent[0].Message != "warn message" || recent[0].Level != "WARN" {
		t.Errorf("first entry = %+v, want warn message", recent[0])
	}
	if recent[1].Message != "error message" || recent[1].Level != "ERROR" {
		t.Errorf("second entry = %+v, want error message", recent[1])
	}
}

func TestRecentHandler_RingBufferWrapsAround(t *testing.T) {
	h, logger := newTestHandler(3)

	logger.Warn("one")
	logger.Warn("two")
	logger.Warn("three")
	logger.Warn("four")

	recent := h.Recent()
	if len(recent) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(recent))
	}

	want := []string{"two", "three", "four"}
	for i, msg := range want {
		if recent[i].Message != msg {
			t.Errorf("entry %d = %q, want %q", i, recent[i].Message, msg)
		}
	}
}

func TestRecentHandler_DerivedHandlersShareBuffer(t *testing.T) {
	h, logger := newTestHandler(10)

	logger.With("component", "content").Warn("derived warning")
	logger.WithGroup("views").Error("grouped error")

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(recent))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestInfraHandler_Handle(t *testing.T) {
	ts := time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			runID:   "a1b2c3d4",
			level:   slog.LevelInfo,
			message: "server created",
			want:    "2025-06-15T14:30:45Z\tINFO\ta1b2c3d4\tserver created\n",
		},
		{
			name:    "debug level",
			runID:   "e5f6a7b8",
			level:   slog.LevelDebug,
			message: "SSH not ready",
			want:    "2025-06-15T14:30:45Z\tDEBUG\te5f6a7b8\tSSH not ready\n",
		},
		{
			name:    "with record attrs",
			runID:   "c9d0e1f2",
			level:   slog.LevelInfo,
			message: "creating server",
			attrs:   []slog.Attr{slog.String("name", "node1"), slog.Int("id", 42)},
			want:    "2025-06-15T14:30:45Z\tINFO\tc9d0e1f2\tcreating server\tname=node1\tid=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &infraHandler{w: &buf, runID: tt.runID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestInfraHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &infraHandler{w: &buf, runID: "run-1"}

	// Add pre-set attrs
	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "hetzner")}).(*infraHandler)

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "provision", 0)
	r.AddAttrs(slog.String("name", "node1"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=hetzner") {
		t.Errorf("expected pre-set attr component=hetzner, got: %q", got)
	}
	if !strings.Contains(got, "name=node1") {
		t.Errorf("expected record attr name=node1, got: %q", got)
	}
}

func TestInfraHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &infraHandler{w: &buf, runID: "run-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*infraHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestInfraHandler_Enabled(t *testing.T) {
	h := &infraHandler{}
	// All levels should be enabled
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "test-run")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(&consoleHandler{writer: &buf, level: levelVar})

	logger.With(String(FieldComponent, "scan")).Info("pose advanced", String(FieldPose, "left"))

	line := buf.String()
	if !strings.Contains(line, "INFO scan: pose advanced") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "pose=left") {
		t.Fatalf("expected pose attribute in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be lifted into prefix: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(&consoleHandler{writer: &buf, level: levelVar})

	logger.Warn("import rejected", String("reason", "missing settings key"))

	if !strings.Contains(buf.String(), `reason="missing settings key"`) {
		t.Fatalf("expected quoted value, got: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNoopHandlerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should not be enabled")
	}
}

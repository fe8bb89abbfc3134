package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger = NewComponentLogger(logger, "mix")
	logger.Info("appended clip", Int("order", 2), String("title", "Night Drive"))

	line := buf.String()
	if !strings.Contains(line, "[mix]") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "order=2") {
		t.Fatalf("expected order attr in %q", line)
	}
	if !strings.Contains(line, `title="Night Drive"`) {
		t.Fatalf("expected quoted title attr in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as a field: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.WithGroup("loop").Info("selected", Float64("score", 0.42))
	if !strings.Contains(buf.String(), "loop.score=0.42") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestWithContextAddsSessionFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	ctx := services.WithSessionID(context.Background(), "sess-42")
	WithContext(ctx, logger).Info("working")
	if !strings.Contains(buf.String(), "session_id=sess-42") {
		t.Fatalf("expected session field, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatal("unknown level should fall back to info")
	}
	if parseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug level not parsed")
	}
}

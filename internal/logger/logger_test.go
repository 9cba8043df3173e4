package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithWriter(&buf))
	l.Info("hello", "key", "value")
	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNew_DebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf)).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered, got %q", buf.String())
	}
	New(WithWriter(&buf), WithDebug(true)).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug should be emitted, got %q", buf.String())
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf), WithJSON(true)).Info("structured", "count", 42)
	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if parsed["msg"] != "structured" || parsed["count"] != float64(42) {
		t.Fatalf("unexpected record: %v", parsed)
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf), WithPretty(true)).Info("pretty output")
	if !strings.Contains(buf.String(), "pretty output") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	if Nop().Handler().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("Nop handler should be disabled")
	}
}

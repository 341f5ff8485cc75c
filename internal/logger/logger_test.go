package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Level: "info", Format: "json", Writer: &buf}).With("run_id", "r1")
	log.Info("file processed", "file", "a.json", "rows", 3)
	log.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}

	if entry["msg"] != "file processed" || entry["file"] != "a.json" || entry["run_id"] != "r1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Level: "error", Writer: &buf})
	child := log.With("component", "reader")

	child.Warn("dropped")

	if buf.Len() != 0 {
		t.Fatalf("warn should be filtered at error level: %q", buf.String())
	}

	log.SetLevel("debug")
	child.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("child logger should follow the parent level, got %q", buf.String())
	}
}

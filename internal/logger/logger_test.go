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
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Output: &buf, Level: "info", Format: "json"}).With("run_id", "abc")
	log.Info("stage complete", "rows", 3)
	log.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}

	if entry["run_id"] != "abc" {
		t.Errorf("Expected run_id attribute, got %v", entry["run_id"])
	}

	if entry["rows"] != float64(3) {
		t.Errorf("Expected rows=3, got %v", entry["rows"])
	}
}

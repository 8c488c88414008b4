package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/crank/internal/config"
)

// TestLevel covers level names, including unknown ones.
func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelInfo,
	}
	for name, want := range tests {
		if got := Level(name); got != want {
			t.Errorf("Level(%q) = %v, want %v", name, got, want)
		}
	}
}

// TestNewFiltersByLevel verifies records below the configured level are dropped.
func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	defer closer.Close()

	log.Info("hidden")
	log.Warn("shown", "exercise", "Squat")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "exercise=Squat") {
		t.Errorf("warn record missing: %s", out)
	}
}

// TestNewJSON verifies the json format writes one object per record.
func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	defer closer.Close()

	log.Info("imported", "workouts", 3)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding %q: %v", buf.String(), err)
	}
	if rec["msg"] != "imported" || rec["workouts"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

// TestNewWritesFile verifies records also reach the configured log file.
func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crank.log")
	var buf bytes.Buffer
	log, closer := New(config.LogConfig{Level: "info", Format: "text", File: path, MaxSizeMB: 1}, &buf)
	log.Info("to both")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") || !strings.Contains(buf.String(), "to both") {
		t.Errorf("file = %q, writer = %q", data, buf.String())
	}
}

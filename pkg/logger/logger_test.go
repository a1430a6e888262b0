package logger

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expect    slog.Level
		expectErr bool
	}{
		{"debug", "debug", slog.LevelDebug, false},
		{"default-info", "", slog.LevelInfo, false},
		{"warn", "warn", slog.LevelWarn, false},
		{"warning-alias", "warning", slog.LevelWarn, false},
		{"error", "error", slog.LevelError, false},
		{"invalid", "verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := levelFromString(tt.input)
			if tt.expectErr && err == nil {
				t.Fatalf("expected error for input %q", tt.input)
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lvl != tt.expect {
				t.Errorf("expected level %v, got %v", tt.expect, lvl)
			}
		})
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewWithFileSink(t *testing.T) {
	file := filepath.Join(t.TempDir(), "server.log")
	log, err := New(Config{Level: "info", File: file, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("hello", "k", "v")
}

func TestLogDetection(t *testing.T) {
	log, err := New(Config{Level: "debug"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Both paths: scored selection (no combination) and combination hit.
	LogDetection(log, "acme", "high", "", true, 3, 12)
	LogDetection(log, "acme", "high", "external-renewal", true, 2, 8)
}

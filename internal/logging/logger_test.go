package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := New(Config{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closeLog()

	log.Debug().Str("direction", "right").Msg("swipe")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["direction"] != "right" || entry["message"] != "swipe" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, _ := New(Config{Level: "warn", Output: &buf})
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	log.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn to be written, got %q", buf.String())
	}
}

func TestNewWithoutFileDiscards(t *testing.T) {
	log, closeLog, err := New(Config{Level: "debug"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if log.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got %v", log.GetLevel())
	}
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelswipe.log")
	log, closeLog, err := New(Config{Level: "info", Format: "console", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Info().Msg("deck loaded")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "deck loaded") {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"WARNING":  zerolog.WarnLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupJSON(t *testing.T) {
	restoreLevel(t)

	var buf bytes.Buffer
	log := Setup("warn", "json", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("exam_id", "go").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1:\n%s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["message"] != "shown" {
		t.Errorf("message = %v, want shown", entry["message"])
	}
	if entry["exam_id"] != "go" {
		t.Errorf("exam_id = %v, want go", entry["exam_id"])
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no time field")
	}
}

func TestSetupUnknownLevelDefaultsToInfo(t *testing.T) {
	restoreLevel(t)

	var buf bytes.Buffer
	log := Setup("loud", "json", &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("got %d lines, want 1", n)
	}
}

func TestSetupPretty(t *testing.T) {
	restoreLevel(t)

	var buf bytes.Buffer
	log := Setup("info", "pretty", &buf)
	log.Info().Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output %q missing message", out)
	}
	if strings.HasPrefix(out, "{") {
		t.Errorf("pretty output looks like JSON: %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	restoreLevel(t)
	path := filepath.Join(t.TempDir(), "logs", "examiner.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	log := Setup("info", "json", f)
	log.Info().Msg("to file")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func restoreLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

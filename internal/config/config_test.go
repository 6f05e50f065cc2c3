package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"EXAMINER_DB", "EXAMINER_EXAMS_DIR", "EXAMINER_PARTICIPANT", "EXAMINER_REDIS_URL",
	"EXAMINER_TICK_MS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
	t.Setenv("USER", "tester")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	checks := []struct {
		name      string
		got, want any
	}{
		{"DBPath", cfg.DBPath, ""},
		{"ExamsDir", cfg.ExamsDir, filepath.Join("/cfg", "examiner", "exams")},
		{"Participant", cfg.Participant, "tester"},
		{"RedisURL", cfg.RedisURL, ""},
		{"TickInterval", cfg.TickInterval, time.Second},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "pretty"},
		{"LogFile", cfg.LogFile, filepath.Join("/state", "examiner", "examiner.log")},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range keys {
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	err := os.WriteFile(path, []byte(
		"EXAMINER_PARTICIPANT=ada\nEXAMINER_TICK_MS=250\nEXAMINER_REDIS_URL=redis://localhost:6379/1\nLOG_LEVEL=debug\n",
	), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "warn")

	cfg := Load(path)
	if cfg.Participant != "ada" {
		t.Errorf("Participant = %q, want ada", cfg.Participant)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("TickInterval = %v, want 250ms", cfg.TickInterval)
	}
	if cfg.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn: environment wins over file", cfg.LogLevel)
	}
}

func TestInvalidTickFallsBack(t *testing.T) {
	clearEnv(t)
	for _, v := range []string{"fast", "-5"} {
		t.Setenv("EXAMINER_TICK_MS", v)
		if got := Load(filepath.Join(t.TempDir(), "none.env")).TickInterval; got != time.Second {
			t.Errorf("EXAMINER_TICK_MS=%s: TickInterval = %v, want 1s", v, got)
		}
	}
}

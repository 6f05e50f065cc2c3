package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	DBPath       string // empty means store.DefaultDBPath
	ExamsDir     string
	Participant  string
	RedisURL     string // empty disables the redis sink
	TickInterval time.Duration
	LogLevel     string
	LogFormat    string
	LogFile      string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads the given env files, or .env when none are given, if present but
// does not fail if they are missing. Variables already set in the
// environment win over file values.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...) // env files are optional

	return &Config{
		DBPath:       getEnv("EXAMINER_DB", ""),
		ExamsDir:     getEnv("EXAMINER_EXAMS_DIR", defaultExamsDir()),
		Participant:  getEnv("EXAMINER_PARTICIPANT", getEnv("USER", "")),
		RedisURL:     getEnv("EXAMINER_REDIS_URL", ""),
		TickInterval: time.Duration(getEnvInt("EXAMINER_TICK_MS", 1000)) * time.Millisecond,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "pretty"),
		LogFile:      getEnv("LOG_FILE", defaultLogFile()),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// defaultExamsDir is $XDG_CONFIG_HOME/examiner/exams.
func defaultExamsDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "examiner", "exams")
}

// defaultLogFile is $XDG_STATE_HOME/examiner/examiner.log.
func defaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "examiner", "examiner.log")
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment (and .env).
type Config struct {
	DatabaseURL    string
	OpenAIAPIKey   string
	OpenAIModel    string
	ServerPort     string
	AllowedOrigins string
	LogMode        string

	ScanInterval  time.Duration
	ScanJitterMin time.Duration
	ScanJitterMax time.Duration
}

// Load reads .env if present and then the process environment.
// An empty DATABASE_URL selects the in-memory demo store.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an arbitrary lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DatabaseURL:    getenv("DATABASE_URL"),
		OpenAIAPIKey:   getenv("OPENAI_API_KEY"),
		OpenAIModel:    getenv("OPENAI_MODEL"),
		ServerPort:     orDefault(getenv("SERVER_PORT"), "8080"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS"),
		LogMode:        orDefault(getenv("LOG_MODE"), "development"),
	}

	var err error
	if cfg.ScanInterval, err = millis(getenv, "SCAN_INTERVAL_MS", 4000); err != nil {
		return Config{}, err
	}
	if cfg.ScanJitterMin, err = millis(getenv, "SCAN_JITTER_MIN_MS", 100); err != nil {
		return Config{}, err
	}
	if cfg.ScanJitterMax, err = millis(getenv, "SCAN_JITTER_MAX_MS", 400); err != nil {
		return Config{}, err
	}
	if cfg.ScanInterval <= 0 {
		return Config{}, fmt.Errorf("SCAN_INTERVAL_MS must be positive")
	}
	if cfg.ScanJitterMax < cfg.ScanJitterMin {
		return Config{}, fmt.Errorf("SCAN_JITTER_MAX_MS (%s) is below SCAN_JITTER_MIN_MS (%s)", cfg.ScanJitterMax, cfg.ScanJitterMin)
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func millis(getenv func(string) string, key string, def int) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return time.Duration(def) * time.Millisecond, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, raw)
	}
	return time.Duration(n) * time.Millisecond, nil
}

package config_test

import (
	"testing"
	"time"

	"stockin-agent/internal/config"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ServerPort != "8080" || cfg.LogMode != "development" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ScanInterval != 4*time.Second || cfg.ScanJitterMin != 100*time.Millisecond || cfg.ScanJitterMax != 400*time.Millisecond {
		t.Errorf("unexpected scan timing: %+v", cfg)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		"SERVER_PORT":        "9090",
		"SCAN_INTERVAL_MS":   "250",
		"SCAN_JITTER_MIN_MS": "0",
		"SCAN_JITTER_MAX_MS": "50",
		"LOG_MODE":           "production",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ServerPort != "9090" || cfg.LogMode != "production" || cfg.ScanInterval != 250*time.Millisecond || cfg.ScanJitterMax != 50*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"non-numeric interval", map[string]string{"SCAN_INTERVAL_MS": "fast"}},
		{"zero interval", map[string]string{"SCAN_INTERVAL_MS": "0"}},
		{"negative jitter", map[string]string{"SCAN_JITTER_MIN_MS": "-1"}},
		{"inverted jitter", map[string]string{"SCAN_JITTER_MIN_MS": "500", "SCAN_JITTER_MAX_MS": "100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.FromEnv(env(tt.vars)); err == nil {
				t.Errorf("expected error for %v", tt.vars)
			}
		})
	}
}

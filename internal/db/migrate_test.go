package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"stockin-agent/internal/db"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDiscoverMigrations(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"002_receipts.sql": "SELECT 2;",
		"001_base.sql":     "SELECT 1;",
		"README.md":        "ignored",
	})

	got, err := db.DiscoverMigrations(dir)
	if err != nil {
		t.Fatalf("DiscoverMigrations: %v", err)
	}
	if len(got) != 2 || got[0].Version != "001" || got[1].Filename != "002_receipts.sql" {
		t.Fatalf("unexpected migrations: %+v", got)
	}
	if got[0].SQL != "SELECT 1;" || len(got[0].Checksum) != 64 {
		t.Errorf("bad content/checksum: %+v", got[0])
	}
}

func TestDiscoverMigrations_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"duplicate version", map[string]string{"001_a.sql": "", "001_b.sql": ""}},
		{"missing version", map[string]string{"schema.sql": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.DiscoverMigrations(writeFiles(t, tt.files)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDiscoverMigrations_RepositorySchema(t *testing.T) {
	got, err := db.DiscoverMigrations("../../migrations")
	if err != nil {
		t.Fatalf("DiscoverMigrations: %v", err)
	}
	if len(got) == 0 || got[0].Filename != "001_stock_in.sql" {
		t.Errorf("unexpected repository migrations: %+v", got)
	}
}

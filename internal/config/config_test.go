package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BriefCountCap != 0 {
		t.Fatalf("default cap=%d, want 0 (uncapped)", cfg.BriefCountCap)
	}
	if cfg.HashAlgorithm != "blake3" {
		t.Fatalf("default hash=%q, want blake3", cfg.HashAlgorithm)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database_path: /tmp/x.db\nbrief_count_cap: 25\nhash_algorithm: sha256\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabasePath != "/tmp/x.db" || cfg.BriefCountCap != 25 || cfg.HashAlgorithm != "sha256" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"negative cap", "brief_count_cap: -1\n"},
		{"unknown hash", "hash_algorithm: md5\n"},
		{"malformed yaml", "brief_count_cap: [\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load should reject %q", tt.content)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Config{DatabasePath: "plans.db", BriefCountCap: 12, HashAlgorithm: "sha256"}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip: got %+v, want %+v", got, want)
	}
}

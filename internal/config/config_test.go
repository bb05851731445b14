package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NoteMaxChars != DefaultConfig().NoteMaxChars {
		t.Fatalf("NoteMaxChars = %d, want %d", cfg.NoteMaxChars, DefaultConfig().NoteMaxChars)
	}
	if cfg.RateLimitPerSec != 10.0 {
		t.Fatalf("RateLimitPerSec = %v, want 10", cfg.RateLimitPerSec)
	}
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("RateLimitBurst = %d, want 20", cfg.RateLimitBurst)
	}
	if cfg.DefaultAPIKey != "dev-key" {
		t.Fatalf("DefaultAPIKey = %q, want %q", cfg.DefaultAPIKey, "dev-key")
	}
	if cfg.MetricsWindow != 1000 {
		t.Fatalf("MetricsWindow = %d, want 1000", cfg.MetricsWindow)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"note_max_chars": 500, "rate_limit_burst": 5}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NoteMaxChars != 500 {
		t.Fatalf("NoteMaxChars = %d, want %d", cfg.NoteMaxChars, 500)
	}
	if cfg.RateLimitBurst != 5 {
		t.Fatalf("RateLimitBurst = %d, want 5", cfg.RateLimitBurst)
	}
	// Unset fields keep defaults
	if cfg.DefaultAPIKey != "dev-key" {
		t.Fatalf("DefaultAPIKey = %q, want %q", cfg.DefaultAPIKey, "dev-key")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["note_create"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 1 {
		t.Fatalf("DisabledTools length = %d, want 1", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "note_create" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "note_create")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{RateLimitPerSec: 2.5, DisabledTools: []string{"note_list", " note_list "}}

	merged := Merge(base, overlay)

	if merged.RateLimitPerSec != 2.5 {
		t.Errorf("RateLimitPerSec = %v, want 2.5", merged.RateLimitPerSec)
	}
	if merged.RateLimitBurst != base.RateLimitBurst {
		t.Errorf("RateLimitBurst = %d, want %d", merged.RateLimitBurst, base.RateLimitBurst)
	}
	if len(merged.DisabledTools) != 1 {
		t.Errorf("DisabledTools = %v, want deduplicated single entry", merged.DisabledTools)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxTokens != 128000 {
		t.Errorf("MaxTokens = %d, want 128000", cfg.MaxTokens)
	}
	if cfg.TokensPerWord != 1.2 {
		t.Errorf("TokensPerWord = %v, want 1.2", cfg.TokensPerWord)
	}
	if len(cfg.Extensions) != len(DefaultExtensions) {
		t.Errorf("Extensions = %d entries, want %d", len(cfg.Extensions), len(DefaultExtensions))
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	data := `{"schema": 1, "max_tokens": 64000, "presets_dir": "~/my-presets"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxTokens != 64000 {
		t.Errorf("MaxTokens = %d, want 64000", cfg.MaxTokens)
	}
	// Unset fields keep defaults.
	if cfg.TokensPerWord != 1.2 {
		t.Errorf("TokensPerWord = %v, want default 1.2", cfg.TokensPerWord)
	}
	// Tilde expansion applied.
	home, _ := os.UserHomeDir()
	if cfg.PresetsDir != filepath.Join(home, "my-presets") {
		t.Errorf("PresetsDir = %s, want expanded", cfg.PresetsDir)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLastDirRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if got := LoadLastDir(); got != "" {
		t.Fatalf("expected no prior directory, got %q", got)
	}

	dir := t.TempDir()
	if err := SaveLastDir(dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := LoadLastDir(); got != dir {
		t.Fatalf("LoadLastDir = %q, want %q", got, dir)
	}
}

func TestLastDirVanishedPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	gone := filepath.Join(t.TempDir(), "was-here")
	if err := SaveLastDir(gone); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Path was never created; a stale entry reads as "no prior directory".
	if got := LoadLastDir(); got != "" {
		t.Fatalf("expected empty for vanished dir, got %q", got)
	}
}

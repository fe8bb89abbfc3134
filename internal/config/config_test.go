package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Mix.CrossfadeMS != 5000 {
		t.Fatalf("expected default crossfade, got %d", cfg.Mix.CrossfadeMS)
	}
	if !cfg.Mix.Normalize || !cfg.Mix.TrimLeadingSilence {
		t.Fatal("expected normalize and trim defaults to be enabled")
	}
	if cfg.Loop.FPS != 15 || cfg.Loop.MinSeconds != 8.0 || cfg.Loop.MaxSeconds != 10.0 {
		t.Fatalf("unexpected loop defaults: %+v", cfg.Loop)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
staging_dir = "` + dir + `/staging"
library_dir = "` + dir + `/library"
log_dir = "` + dir + `/logs"
scratch_dir = "` + dir + `/scratch"

[mix]
crossfade_ms = 2000
normalize = false

[loop]
min_seconds = 4.0
max_seconds = 9.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Mix.CrossfadeMS != 2000 {
		t.Fatalf("override not applied: %d", cfg.Mix.CrossfadeMS)
	}
	if cfg.Mix.Normalize {
		t.Fatal("normalize override not applied")
	}
	if cfg.Loop.MinSeconds != 4.0 || cfg.Loop.MaxSeconds != 9.0 {
		t.Fatalf("loop overrides not applied: %+v", cfg.Loop)
	}
	if !filepath.IsAbs(cfg.Paths.StagingDir) {
		t.Fatalf("paths not normalized: %q", cfg.Paths.StagingDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[loop]
min_seconds = 9.0
max_seconds = 4.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for inverted loop window")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := config.ExpandPath("~/music")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, home) {
		t.Fatalf("expected %q under %q", got, home)
	}
}

func TestCreateSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("sample config should be found")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

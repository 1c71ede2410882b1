package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.MaxTokens != 4096 || cfg.Temperature != 0.7 || cfg.TopP != 0.9 {
		t.Errorf("sampling defaults = %d/%g/%g", cfg.MaxTokens, cfg.Temperature, cfg.TopP)
	}
	if cfg.Language != "Korean" {
		t.Errorf("Language = %q, want Korean", cfg.Language)
	}
	if cfg.ChunkSize != 3 {
		t.Errorf("ChunkSize = %d, want 3", cfg.ChunkSize)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := Merge(base, Config{Model: "m2", Language: "English", RedactOff: true})

	if merged.Model != "m2" || merged.Language != "English" || !merged.RedactOff {
		t.Errorf("overrides not applied: %+v", merged)
	}
	if merged.MaxTokens != base.MaxTokens || merged.Temperature != base.Temperature {
		t.Errorf("unset fields must keep base values: %+v", merged)
	}

	// Zero values never override.
	merged = Merge(base, Config{})
	if merged != base {
		t.Errorf("empty overlay must leave base untouched: %+v", merged)
	}
}

func TestSetField(t *testing.T) {
	var cfg Config
	sets := map[string]string{
		"model":         "m",
		"max_tokens":    "512",
		"temperature":   "0.2",
		"top_p":         "0.5",
		"aws_region":    "ap-northeast-2",
		"language":      "English",
		"redact_off":    "true",
		"patterns_file": "/tmp/p.json",
		"chunk_size":    "5",
	}
	for k, v := range sets {
		if err := SetField(&cfg, k, v); err != nil {
			t.Errorf("SetField(%s, %s): %v", k, v, err)
		}
	}
	if cfg.MaxTokens != 512 || cfg.Temperature != 0.2 || cfg.ChunkSize != 5 || !cfg.RedactOff {
		t.Errorf("cfg = %+v", cfg)
	}

	if err := SetField(&cfg, "max_tokens", "lots"); err == nil {
		t.Errorf("non-integer max_tokens must fail")
	}
	if err := SetField(&cfg, "nope", "x"); err == nil {
		t.Errorf("unknown keys must fail")
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("PRFLOW_LANGUAGE", "Japanese")
	t.Setenv("PRFLOW_MODEL", "")

	if err := os.MkdirAll(filepath.Join(dir, "prflow"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := []byte(`{"model": "file-model", "language": "English", "max_tokens": 2048}`)
	if err := os.WriteFile(filepath.Join(dir, "prflow", "config.json"), file, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(map[string]string{"max_tokens": "1024"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Model != "file-model" {
		t.Errorf("file must override defaults, got %q", cfg.Model)
	}
	if cfg.Language != "Japanese" {
		t.Errorf("env must override file, got %q", cfg.Language)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("flags must override env and file, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("untouched fields keep defaults, got %g", cfg.Temperature)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "prflow"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prflow", "config.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(nil); err == nil {
		t.Errorf("a present but corrupt config file must be fatal")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("a missing config file is not an error: %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("defaults expected, got %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Default()
	want.Language = "English"
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: %+v vs %+v", got, want)
	}
}

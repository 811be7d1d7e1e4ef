package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lens.yaml")
	data := []byte("window:\n  resolution: 640\nengine:\n  workers: 2\n  palette: three\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHESSLENS_WORKERS", "1")
	t.Setenv("CHESSLENS_STORAGE", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Resolution != 640 {
		t.Errorf("resolution = %d, want 640 from file", cfg.Window.Resolution)
	}
	if cfg.Engine.Workers != 1 {
		t.Errorf("workers = %d, want env override 1", cfg.Engine.Workers)
	}
	if cfg.Engine.Palette != "three" || cfg.Log.Level != "debug" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Storage.Enabled {
		t.Error("CHESSLENS_STORAGE=false should disable storage")
	}
	if cfg.Engine.CacheEntries != Default().Engine.CacheEntries {
		t.Errorf("cache entries = %d, want default", cfg.Engine.CacheEntries)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("an explicit path that does not exist should fail")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad number", map[string]string{"CHESSLENS_WORKERS": "many"}},
		{"zero workers", map[string]string{"CHESSLENS_WORKERS": "0"}},
		{"tiny window", map[string]string{"CHESSLENS_RESOLUTION": "20"}},
		{"unknown palette", map[string]string{"CHESSLENS_PALETTE": "rainbow"}},
		{"bad bool", map[string]string{"CHESSLENS_STORAGE": "maybe"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

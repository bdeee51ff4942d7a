package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(missing) = %+v, want Default() = %+v", cfg, Default())
	}
}

func TestLoadValidBgColor(t *testing.T) {
	path := writeTemp(t, `bg_color = [0.1, 0.2, 0.3]`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := [3]float64{0.1, 0.2, 0.3}
	if cfg.BgColor != want {
		t.Fatalf("BgColor = %v, want %v", cfg.BgColor, want)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeTemp(t, "bg_color = [0, 0, 0]\nfoo = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key, got nil")
	}
}

func TestLoadRejectsOutOfRangeColor(t *testing.T) {
	path := writeTemp(t, `bg_color = [1.5, 0, 0]`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for bg_color component > 1")
	}
}

func TestPathPrefersXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgconf")
	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := filepath.Join("/tmp/xdgconf", "ewc", "config.toml")
	if got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}

func TestPathFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/tmp/home")
	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := filepath.Join("/tmp/home", ".config", "ewc", "config.toml")
	if got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rebasic/internal/hotreload"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "rebasic.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write rebasic.toml: %v", err)
	}
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `# test manifest
[package]
name = "demo"
main = "src/main.bas"

[reload]
debounce_ms = 150
preserve_state = false
max_history = 10
`)
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Package.Name != "demo" {
		t.Fatalf("name = %q, want demo", cfg.Package.Name)
	}
	if cfg.Package.Main != "src/main.bas" {
		t.Fatalf("main = %q", cfg.Package.Main)
	}
	if cfg.Reload.DebounceMS == nil || *cfg.Reload.DebounceMS != 150 {
		t.Fatalf("debounce_ms not decoded: %v", cfg.Reload.DebounceMS)
	}
	if cfg.Reload.Incremental != nil {
		t.Fatalf("incremental should stay unset")
	}
}

func TestLoadProjectConfigRequiresName(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package]\n")
	if _, err := loadProjectConfig(path); err == nil {
		t.Fatal("expected error for missing [package].name")
	}
}

func TestFindRebasicTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, ok, err := findRebasicToml(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found from nested dir")
	}
	if filepath.Dir(found) != root {
		t.Fatalf("found %s, want manifest in %s", found, root)
	}
}

func TestApplyReloadConfigOverlaysOnlySetFields(t *testing.T) {
	base := hotreload.DefaultConfig()
	ms := 42
	off := false
	got := applyReloadConfig(base, reloadConfig{
		DebounceMS:    &ms,
		PreserveState: &off,
	})
	if got.Debounce != 42*time.Millisecond {
		t.Fatalf("Debounce = %v", got.Debounce)
	}
	if got.PreserveState {
		t.Fatal("PreserveState should be overridden to false")
	}
	if got.MaxHistory != base.MaxHistory {
		t.Fatalf("MaxHistory changed: %d", got.MaxHistory)
	}
	if !got.Incremental {
		t.Fatal("Incremental default lost")
	}
}

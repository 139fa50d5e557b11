package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if cfg.Settings.MouseMode == nil || !*cfg.Settings.MouseMode {
		t.Fatalf("expected default mouse_mode=true")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
[settings]
mouse_mode = false

[db.local]
driver = "postgres"
host = "localhost"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Settings.MouseMode == nil || *cfg.Settings.MouseMode {
		t.Fatalf("expected mouse_mode=false from TOML override")
	}
	if cfg.DB["local"].Driver != "postgres" {
		t.Fatalf("db.local.driver = %q, want postgres", cfg.DB["local"].Driver)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := "settings:\n  data_row_spacer: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Settings.DataRowSpacer == nil || !*cfg.Settings.DataRowSpacer {
		t.Fatalf("expected data_row_spacer=true from YAML")
	}
}

func TestApplyFlagsOverlayOnlyNonEmpty(t *testing.T) {
	cfg := Config{DB: map[string]DBConn{"local": {Driver: "postgres", Host: "localhost"}}}
	conn := ApplyFlags(cfg, "local", "", "", "otherhost", "", "", "")
	if conn.Driver != "postgres" {
		t.Fatalf("driver should be unchanged when flag is empty, got %q", conn.Driver)
	}
	if conn.Host != "otherhost" {
		t.Fatalf("host should be overridden by flag, got %q", conn.Host)
	}
}

func TestBuildKeymapRejectsUnknownAction(t *testing.T) {
	_, err := BuildKeymap(map[string]map[string]string{
		"editor": {"ctrl+x": "not_a_real_action"},
	})
	if err == nil {
		t.Fatalf("expected an error for an unknown action name")
	}
}

func TestKeymapMergeOverridesOnlyNamedSequences(t *testing.T) {
	base := DefaultKeymap()
	override := Keymap{"data": {"y": "yank_override_placeholder"}}
	// Merge accepts any action.Name value, including ones not produced by
	// BuildKeymap directly, since Merge operates purely on Keymap values.
	merged := base.Merge(override)
	if _, ok := merged["data"]["h"]; !ok {
		t.Fatalf("expected unrelated base binding 'h' to survive the merge")
	}
}

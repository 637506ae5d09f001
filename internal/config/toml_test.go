package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Wrap != nil || cfg.Practice.Margin != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[practice]
wrap = true
margin = 12
texts-dir = "/tmp/texts"

[stats]
curve-window = 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Wrap == nil || !*cfg.Practice.Wrap {
		t.Fatalf("expected wrap=true")
	}
	if cfg.Practice.Margin == nil || *cfg.Practice.Margin != 12 {
		t.Fatalf("expected margin=12")
	}
	if cfg.Practice.TextsDir == nil || *cfg.Practice.TextsDir != "/tmp/texts" {
		t.Fatalf("expected texts-dir to be set")
	}
	if cfg.Practice.Debug != nil {
		t.Fatalf("expected debug to be unset")
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 7 {
		t.Fatalf("expected curve-window=7")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwarp = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/config")
	if got := DefaultScoresPath(); got != filepath.Join("/state", "typetrain", "scores.csv") {
		t.Fatalf("unexpected scores path %q", got)
	}
	if got := DefaultTextsDir(); got != filepath.Join("/data", "typetrain", "texts") {
		t.Fatalf("unexpected texts dir %q", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/config", "typetrain", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
}

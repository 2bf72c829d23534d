package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadArgs(nil, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Limit != DefaultLimit || cfg.Theme != ThemeDark || cfg.UseStdin {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestFileOverridesDefaultsButNotFlags(t *testing.T) {
	p := writeConfig(t, `
limit: 500
theme: light
filter: level=ERROR
openai:
  model: local-model
  timeout_sec: 5
`)
	cfg, err := LoadArgs([]string{"--config", p, "--limit", "42", "app.log"}, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Limit != 42 {
		t.Errorf("Limit: got %d, want 42", cfg.Limit)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("Theme: got %q", cfg.Theme)
	}
	if cfg.Filter != "level=ERROR" {
		t.Errorf("Filter: got %q", cfg.Filter)
	}
	if cfg.OpenAIModel != "local-model" || cfg.OpenAITimeoutSec != 5 {
		t.Errorf("OpenAI: got %q %d", cfg.OpenAIModel, cfg.OpenAITimeoutSec)
	}
	if cfg.FilePath != "app.log" {
		t.Errorf("FilePath: got %q", cfg.FilePath)
	}
}

func TestMissingExplicitConfigFails(t *testing.T) {
	if _, err := LoadArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInvalidYAML(t *testing.T) {
	p := writeConfig(t, "limit: [")
	if _, err := LoadArgs([]string{"--config", p}, false); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := LoadArgs([]string{"--export", "csv"}, false); err == nil {
		t.Errorf("export without out should fail")
	}
	if _, err := LoadArgs([]string{"--follow"}, false); err == nil {
		t.Errorf("follow without file should fail")
	}
	if _, err := LoadArgs([]string{"--theme", "neon"}, false); err == nil {
		t.Errorf("unknown theme should fail")
	}
	cfg, err := LoadArgs([]string{"--limit=-5"}, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Limit != 0 || !cfg.UseStdin {
		t.Errorf("got limit=%d stdin=%v", cfg.Limit, cfg.UseStdin)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LOGPANE_OPENAI_MODEL", "env-model")
	t.Setenv("LOGPANE_OPENAI_TIMEOUT_SEC", "9")
	cfg, err := LoadArgs(nil, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenAIModel != "env-model" || cfg.OpenAITimeoutSec != 9 {
		t.Fatalf("got %q %d", cfg.OpenAIModel, cfg.OpenAITimeoutSec)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Defaults.Executor != "echo" {
		t.Errorf("expected echo executor default, got %q", cfg.Defaults.Executor)
	}
	if cfg.Defaults.Investment != 10.0 {
		t.Errorf("expected investment 10.0, got %f", cfg.Defaults.Investment)
	}
	if cfg.Defaults.Rounds != 20 {
		t.Errorf("expected 20 rounds, got %d", cfg.Defaults.Rounds)
	}
	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected max_tokens 4096, got %d", cfg.Anthropic.MaxTokens)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
anthropic:
  api_key: test-key
  model: claude-opus-4-1
defaults:
  investment: 50.5
  rounds: 7
  executor: claude
state:
  path: /tmp/crew-test.db
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("api_key not loaded: %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-opus-4-1" {
		t.Errorf("model not loaded: %q", cfg.Anthropic.Model)
	}
	if cfg.Defaults.Investment != 50.5 || cfg.Defaults.Rounds != 7 {
		t.Errorf("defaults not loaded: %+v", cfg.Defaults)
	}
	if cfg.Defaults.Executor != "claude" {
		t.Errorf("executor not loaded: %q", cfg.Defaults.Executor)
	}
	if cfg.State.Path != "/tmp/crew-test.db" {
		t.Errorf("state path not loaded: %q", cfg.State.Path)
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic:\n  api_key: k\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Defaults.Rounds != 20 {
		t.Errorf("missing keys must fall back to defaults, got rounds %d", cfg.Defaults.Rounds)
	}
	if cfg.Defaults.Executor != "echo" {
		t.Errorf("expected default executor, got %q", cfg.Defaults.Executor)
	}
}

func TestLoadFromPathExpandsEnvInAPIKey(t *testing.T) {
	t.Setenv("CREW_TEST_KEY", "expanded-secret")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic:\n  api_key: ${CREW_TEST_KEY}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "expanded-secret" {
		t.Errorf("expected env expansion, got %q", cfg.Anthropic.APIKey)
	}
}

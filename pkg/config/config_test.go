package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

var keyEnvVars = []string{
	"OPENROUTER_API_KEY",
	"OPENROUTER_BASE_URL",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"GOOGLE_API_KEY",
	"DEEPSEEK_API_KEY",
}

func TestConfigReadsFileAPIKeys(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	writeConfigFile(t, home, "config.yaml", "api_keys:\n  openrouter: file-or\n  anthropic: file-ant\nopenrouter_base_url: http://localhost:8080/v1\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenRouterAPIKey != "file-or" || cfg.AnthropicAPIKey != "file-ant" {
		t.Fatalf("expected file API keys, got %+v", cfg)
	}
	if cfg.OpenRouterBaseURL != "http://localhost:8080/v1" {
		t.Fatalf("base url = %q", cfg.OpenRouterBaseURL)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Fatalf("expected empty openai key")
	}
}

func TestConfigEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	writeConfigFile(t, home, "config.yaml", "api_keys:\n  openrouter: file-or\n")
	t.Setenv("OPENROUTER_API_KEY", "env-or")
	t.Setenv("GOOGLE_API_KEY", "env-google")
	t.Setenv("DEEPSEEK_API_KEY", "env-deepseek")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenRouterAPIKey != "env-or" || cfg.GoogleAPIKey != "env-google" || cfg.DeepSeekAPIKey != "env-deepseek" {
		t.Fatalf("expected env API keys to be used")
	}
	if !cfg.HasAdapter(AdapterOpenRouter) || cfg.HasAdapter(AdapterOpenAI) || !cfg.HasAdapter(AdapterMock) {
		t.Fatalf("unexpected HasAdapter results")
	}
}

func TestConfigMalformedFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	writeConfigFile(t, home, "config.yaml", "api_keys: [not, a, map\n")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config.yaml")
	}
}

func TestConfigDefaultsAgents(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Agents == nil || cfg.Agents.Selector.Model != DefaultModel {
		t.Fatalf("expected default agents, got %+v", cfg.Agents)
	}
	if cfg.ConfigDir != filepath.Join(home, ".promptenhancer") {
		t.Fatalf("config dir = %q", cfg.ConfigDir)
	}
}

func TestLoadWithAgentsFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	path := filepath.Join(t.TempDir(), "agents.yaml")
	if err := os.WriteFile(path, []byte("selector:\n  adapter: mock\n"), 0600); err != nil {
		t.Fatalf("write agents: %v", err)
	}

	cfg, err := LoadWithAgentsFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Agents.Selector.Adapter != AdapterMock || cfg.Agents.Selector.Model != "mock-1" {
		t.Fatalf("selector = %+v", cfg.Agents.Selector)
	}

	if _, err := LoadWithAgentsFile(filepath.Join(home, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing agents file")
	}
}

func setHomeEnv(t *testing.T, home string) {
	t.Helper()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range keyEnvVars {
		t.Setenv(name, "")
	}
}

func writeConfigFile(t *testing.T, home, name, content string) {
	t.Helper()
	dir := filepath.Join(home, ".promptenhancer")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

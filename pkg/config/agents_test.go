package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultAgentsConfig(t *testing.T) {
	cfg := DefaultAgentsConfig()

	if cfg.Selector.Adapter != AdapterOpenRouter || cfg.Optimizer.Adapter != AdapterOpenRouter {
		t.Fatalf("expected openrouter adapters, got %q and %q", cfg.Selector.Adapter, cfg.Optimizer.Adapter)
	}
	if cfg.Selector.TemperatureOr(-1) != 0.2 || cfg.Optimizer.TemperatureOr(-1) != 0.3 {
		t.Fatalf("unexpected temperatures")
	}
	if cfg.Retry.Retries() != 2 || cfg.Retry.BaseBackoff() != 200*time.Millisecond || cfg.Retry.MaxBackoff() != 2*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if cfg.Timeout() != 0 {
		t.Fatalf("expected no timeout by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadAgentsConfig(t *testing.T) {
	content := `selector:
  adapter: anthropic
  temperature: 0
  max_tokens: 512
optimizer:
  adapter: deepseek
  model: deepseek-reasoner
retry:
  max_retries: 4
  base_backoff_ms: 500
  max_backoff_ms: 100
timeout_seconds: 30
`
	path := filepath.Join(t.TempDir(), "agents.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAgentsConfig(path)
	if err != nil {
		t.Fatalf("LoadAgentsConfig() error = %v", err)
	}

	if cfg.Selector.Model != "claude-sonnet-4-20250514" {
		t.Errorf("selector model = %q, want anthropic default", cfg.Selector.Model)
	}
	if cfg.Selector.TemperatureOr(-1) != 0 {
		t.Errorf("explicit zero temperature should be kept, got %v", cfg.Selector.TemperatureOr(-1))
	}
	if cfg.Selector.MaxTokens != 512 {
		t.Errorf("max_tokens = %d", cfg.Selector.MaxTokens)
	}
	if cfg.Optimizer.Model != "deepseek-reasoner" || cfg.Optimizer.TemperatureOr(-1) != 0.3 {
		t.Errorf("optimizer = %+v", cfg.Optimizer)
	}
	if cfg.Retry.Retries() != 4 || cfg.Retry.MaxBackoffMs != 500 {
		t.Errorf("retry = %+v, max backoff should be raised to base", cfg.Retry)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
}

func TestLoadAgentsConfigZeroRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	if err := os.WriteFile(path, []byte("retry:\n  max_retries: 0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAgentsConfig(path)
	if err != nil {
		t.Fatalf("LoadAgentsConfig() error = %v", err)
	}
	if cfg.Retry.Retries() != 0 {
		t.Errorf("explicit max_retries: 0 should disable retries, got %d", cfg.Retry.Retries())
	}
	if cfg.Retry.BaseBackoffMs != 200 {
		t.Errorf("base backoff default not applied: %+v", cfg.Retry)
	}
}

func TestLoadAgentsConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown adapter", "selector:\n  adapter: cohere\n"},
		{"temperature out of range", "optimizer:\n  temperature: 3.5\n"},
		{"negative max tokens", "selector:\n  max_tokens: -1\n"},
		{"negative timeout", "timeout_seconds: -5\n"},
		{"negative retries", "retry:\n  max_retries: -1\n"},
		{"not yaml", "selector: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "agents.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadAgentsConfig(path); err == nil {
				t.Errorf("expected error for %q", tt.content)
			}
		})
	}
}

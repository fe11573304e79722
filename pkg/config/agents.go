package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for both agents.
const (
	DefaultAdapter              = AdapterOpenRouter
	DefaultModel                = "x-ai/grok-4-fast:free"
	DefaultSelectorTemperature  = 0.2
	DefaultOptimizerTemperature = 0.3
	DefaultMaxRetries           = 2
)

// AgentsConfig configures the two model-backed stages.
type AgentsConfig struct {
	Selector       AgentConfig `yaml:"selector"`
	Optimizer      AgentConfig `yaml:"optimizer"`
	Retry          RetryConfig `yaml:"retry,omitempty"`
	TimeoutSeconds int         `yaml:"timeout_seconds,omitempty"`
}

// AgentConfig selects the adapter and model behind one stage.
type AgentConfig struct {
	Adapter     string   `yaml:"adapter"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty"`
}

// RetryConfig defines retry and backoff behavior.
type RetryConfig struct {
	MaxRetries    *int `yaml:"max_retries,omitempty"`
	BaseBackoffMs int  `yaml:"base_backoff_ms,omitempty"`
	MaxBackoffMs  int  `yaml:"max_backoff_ms,omitempty"`
}

// TemperatureOr returns the configured temperature, or def when unset.
func (a AgentConfig) TemperatureOr(def float64) float64 {
	if a.Temperature == nil {
		return def
	}
	return *a.Temperature
}

// Retries returns the retry budget. An explicit zero disables retries.
func (r RetryConfig) Retries() int {
	if r.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *r.MaxRetries
}

// BaseBackoff returns the first retry delay.
func (r RetryConfig) BaseBackoff() time.Duration {
	return time.Duration(r.BaseBackoffMs) * time.Millisecond
}

// MaxBackoff returns the retry delay cap.
func (r RetryConfig) MaxBackoff() time.Duration {
	return time.Duration(r.MaxBackoffMs) * time.Millisecond
}

// Timeout returns the per-call timeout, zero for none.
func (c *AgentsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the agents for unknown adapters and bad ranges.
func (c *AgentsConfig) Validate() error {
	for name, a := range map[string]AgentConfig{"selector": c.Selector, "optimizer": c.Optimizer} {
		if !knownAdapter(a.Adapter) {
			return fmt.Errorf("%s: unknown adapter %q", name, a.Adapter)
		}
		if a.Model == "" {
			return fmt.Errorf("%s: no model configured for adapter %q", name, a.Adapter)
		}
		if t := a.TemperatureOr(0); t < 0 || t > 2 {
			return fmt.Errorf("%s: temperature %v outside [0,2]", name, t)
		}
		if a.MaxTokens < 0 {
			return fmt.Errorf("%s: max_tokens must not be negative", name)
		}
	}
	if c.Retry.Retries() < 0 {
		return fmt.Errorf("retry: max_retries must not be negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// LoadAgentsConfig reads agent configuration from a YAML file.
func LoadAgentsConfig(path string) (*AgentsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AgentsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyAgentDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultAgentsConfig returns both agents on the free OpenRouter Grok model.
func DefaultAgentsConfig() *AgentsConfig {
	cfg := &AgentsConfig{}
	applyAgentDefaults(cfg)
	return cfg
}

func applyAgentDefaults(cfg *AgentsConfig) {
	if cfg == nil {
		return
	}
	applyAgentDefault(&cfg.Selector, DefaultSelectorTemperature)
	applyAgentDefault(&cfg.Optimizer, DefaultOptimizerTemperature)

	if cfg.Retry.MaxRetries == nil {
		retries := DefaultMaxRetries
		cfg.Retry.MaxRetries = &retries
	}
	if cfg.Retry.BaseBackoffMs == 0 {
		cfg.Retry.BaseBackoffMs = 200
	}
	if cfg.Retry.MaxBackoffMs == 0 {
		cfg.Retry.MaxBackoffMs = 2000
	}
	if cfg.Retry.MaxBackoffMs < cfg.Retry.BaseBackoffMs {
		cfg.Retry.MaxBackoffMs = cfg.Retry.BaseBackoffMs
	}
}

func applyAgentDefault(a *AgentConfig, temperature float64) {
	if a.Adapter == "" {
		a.Adapter = DefaultAdapter
	}
	if a.Model == "" {
		a.Model = DefaultAliases().DefaultModel(a.Adapter)
	}
	if a.Temperature == nil {
		a.Temperature = &temperature
	}
}

func knownAdapter(name string) bool {
	switch name {
	case AdapterOpenRouter, AdapterOpenAI, AdapterAnthropic, AdapterGoogle, AdapterDeepSeek, AdapterMock:
		return true
	}
	return false
}

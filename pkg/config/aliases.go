package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelAliases maps short model names to canonical ones and lists the
// models each provider offers.
type ModelAliases struct {
	Aliases   map[string]string   `yaml:"aliases"`
	Providers map[string][]string `yaml:"providers"`
}

// LoadAliases reads model aliases from a YAML file.
func LoadAliases(path string) (*ModelAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var aliases ModelAliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, err
	}

	if aliases.Aliases == nil {
		aliases.Aliases = make(map[string]string)
	}
	if aliases.Providers == nil {
		aliases.Providers = make(map[string][]string)
	}

	return &aliases, nil
}

// LoadAliasesWithFallback loads models.yaml from configDir, falling back to
// DefaultAliases when the file does not exist.
func LoadAliasesWithFallback(configDir string) (*ModelAliases, error) {
	path := filepath.Join(configDir, "models.yaml")
	if _, err := os.Stat(path); err != nil {
		return DefaultAliases(), nil
	}
	return LoadAliases(path)
}

// Resolve returns the canonical model name for an alias.
// If the input is not an alias, it returns the input unchanged.
func (a *ModelAliases) Resolve(modelOrAlias string) string {
	if a == nil || a.Aliases == nil {
		return modelOrAlias
	}
	if canonical, ok := a.Aliases[modelOrAlias]; ok {
		return canonical
	}
	return modelOrAlias
}

// ValidateModel checks if a model exists in the provider's list.
func (a *ModelAliases) ValidateModel(adapter, model string) error {
	if a == nil || a.Providers == nil {
		return nil
	}

	models, ok := a.Providers[adapter]
	if !ok {
		return fmt.Errorf("unknown adapter %q", adapter)
	}

	for _, m := range models {
		if m == model {
			return nil
		}
	}

	return fmt.Errorf("model %q not in %s provider list", model, adapter)
}

// ValidateAgentsConfig checks that both agents name a listed model.
// Returns a slice of validation errors (empty if all valid).
func (a *ModelAliases) ValidateAgentsConfig(cfg *AgentsConfig) []error {
	if a == nil || cfg == nil {
		return nil
	}

	var errs []error
	for _, agent := range []struct {
		name string
		cfg  AgentConfig
	}{
		{"selector", cfg.Selector},
		{"optimizer", cfg.Optimizer},
	} {
		model := a.Resolve(agent.cfg.Model)
		if err := a.ValidateModel(agent.cfg.Adapter, model); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", agent.name, err))
		}
	}
	return errs
}

// DefaultModel returns the first listed model of a provider.
func (a *ModelAliases) DefaultModel(provider string) string {
	models := a.GetProviderModels(provider)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// ListAliases returns a copy of the aliases map.
func (a *ModelAliases) ListAliases() map[string]string {
	if a == nil || a.Aliases == nil {
		return make(map[string]string)
	}
	result := make(map[string]string, len(a.Aliases))
	for k, v := range a.Aliases {
		result[k] = v
	}
	return result
}

// ListProviders returns a sorted list of provider names.
func (a *ModelAliases) ListProviders() []string {
	if a == nil || a.Providers == nil {
		return nil
	}
	providers := make([]string, 0, len(a.Providers))
	for p := range a.Providers {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// GetProviderModels returns the models for a given provider.
func (a *ModelAliases) GetProviderModels(provider string) []string {
	if a == nil || a.Providers == nil {
		return nil
	}
	return a.Providers[provider]
}

// GetProviderForModel returns the provider name for a canonical model.
func (a *ModelAliases) GetProviderForModel(model string) string {
	for _, provider := range a.ListProviders() {
		for _, m := range a.Providers[provider] {
			if m == model {
				return provider
			}
		}
	}
	return ""
}

// DefaultAliases returns the built-in provider model lists and aliases.
// The first model of each provider is its default.
func DefaultAliases() *ModelAliases {
	return &ModelAliases{
		Aliases: map[string]string{
			"grok-fast": DefaultModel,
			"fast":      "gpt-5.2-instant",
			"quality":   "claude-sonnet-4-20250514",
			"deep":      "claude-opus-4-20250514",
			"gemini":    "gemini-2.5-flash",
			"cheap":     "deepseek-chat",
			"reasoner":  "deepseek-reasoner",
		},
		Providers: map[string][]string{
			AdapterOpenRouter: {DefaultModel, "openai/gpt-4o-mini", "anthropic/claude-sonnet-4"},
			AdapterOpenAI:     {"gpt-5.2-instant", "gpt-5.2-thinking", "gpt-5.2-codex"},
			AdapterAnthropic:  {"claude-sonnet-4-20250514", "claude-opus-4-20250514"},
			AdapterGoogle:     {"gemini-2.5-flash", "gemini-2.0-pro"},
			AdapterDeepSeek:   {"deepseek-chat", "deepseek-coder", "deepseek-reasoner"},
			AdapterMock:       {"mock-1"},
		},
	}
}

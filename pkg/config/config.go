// Package config loads API keys and agent settings from ~/.promptenhancer
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Adapter names understood by the CLI.
const (
	AdapterOpenRouter = "openrouter"
	AdapterOpenAI     = "openai"
	AdapterAnthropic  = "anthropic"
	AdapterGoogle     = "google"
	AdapterDeepSeek   = "deepseek"
	AdapterMock       = "mock"
)

const dirName = ".promptenhancer"

// Config holds the application configuration.
type Config struct {
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	GoogleAPIKey      string
	DeepSeekAPIKey    string
	Agents            *AgentsConfig
	ConfigDir         string
}

// FileConfig represents the structure of ~/.promptenhancer/config.yaml
type FileConfig struct {
	APIKeys           APIKeysConfig `yaml:"api_keys"`
	OpenRouterBaseURL string        `yaml:"openrouter_base_url,omitempty"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	OpenRouter string `yaml:"openrouter"`
	OpenAI     string `yaml:"openai"`
	Anthropic  string `yaml:"anthropic"`
	Google     string `yaml:"google"`
	DeepSeek   string `yaml:"deepseek"`
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration. The agents
// file is optional; defaults are used when it does not exist.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg, err := loadKeys(configDir)
	if err != nil {
		return nil, err
	}

	agentsPath := filepath.Join(configDir, "agents.yaml")
	if _, err := os.Stat(agentsPath); err == nil {
		agents, err := LoadAgentsConfig(agentsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load agents config: %w", err)
		}
		cfg.Agents = agents
	} else {
		cfg.Agents = DefaultAgentsConfig()
	}

	return cfg, nil
}

// LoadWithAgentsFile loads config with a specific agents file, which must exist.
func LoadWithAgentsFile(agentsPath string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg, err := loadKeys(configDir)
	if err != nil {
		return nil, err
	}

	agents, err := LoadAgentsConfig(agentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load agents config from %s: %w", agentsPath, err)
	}
	cfg.Agents = agents

	return cfg, nil
}

// HasAdapter returns true if the API key for the given adapter is configured.
// The mock adapter needs no key.
func (c *Config) HasAdapter(name string) bool {
	if name == AdapterMock {
		return true
	}
	return c.APIKey(name) != ""
}

// APIKey returns the key configured for an adapter.
func (c *Config) APIKey(name string) string {
	switch name {
	case AdapterOpenRouter:
		return c.OpenRouterAPIKey
	case AdapterOpenAI:
		return c.OpenAIAPIKey
	case AdapterAnthropic:
		return c.AnthropicAPIKey
	case AdapterGoogle:
		return c.GoogleAPIKey
	case AdapterDeepSeek:
		return c.DeepSeekAPIKey
	default:
		return ""
	}
}

func loadKeys(configDir string) (*Config, error) {
	fileConfig, err := loadFileConfig(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		return nil, err
	}

	return &Config{
		OpenRouterAPIKey:  getEnvOrDefault("OPENROUTER_API_KEY", fileConfig.APIKeys.OpenRouter),
		OpenRouterBaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", fileConfig.OpenRouterBaseURL),
		OpenAIAPIKey:      getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		AnthropicAPIKey:   getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		GoogleAPIKey:      getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:    getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),
		ConfigDir:         configDir,
	}, nil
}

// loadFileConfig reads the config file. A missing file yields an empty
// config; a malformed one is an error.
func loadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

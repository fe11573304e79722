package main

import (
	"context"
	"fmt"

	"github.com/zen-systems/promptenhancer/pkg/adapter"
	"github.com/zen-systems/promptenhancer/pkg/agent"
	"github.com/zen-systems/promptenhancer/pkg/config"
	"github.com/zen-systems/promptenhancer/pkg/optimizer"
	"github.com/zen-systems/promptenhancer/pkg/pipeline"
	"github.com/zen-systems/promptenhancer/pkg/selector"
)

func (a *app) loadConfig() (*config.Config, *config.ModelAliases, error) {
	var cfg *config.Config
	var err error

	if a.configFile != "" {
		cfg, err = config.LoadWithAgentsFile(a.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	aliases, err := config.LoadAliasesWithFallback(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load model aliases: %w", err)
	}
	return cfg, aliases, nil
}

// stages builds both stages once. In offline mode neither has a collaborator
// and no configuration is read.
func (a *app) stages(ctx context.Context) (*selector.Selector, *optimizer.Optimizer, error) {
	if a.offline {
		return selector.New(nil, selector.WithLogger(a.logger)),
			optimizer.New(nil, optimizer.WithLogger(a.logger)), nil
	}

	cfg, aliases, err := a.loadConfig()
	if err != nil {
		return nil, nil, &setupError{err: err}
	}

	adapters := make(map[string]adapter.Adapter)
	selAgent, err := a.newAgent(ctx, "format-selector", cfg, aliases, cfg.Agents.Selector, selector.SystemPrompt, adapters)
	if err != nil {
		return nil, nil, &setupError{err: err}
	}
	optAgent, err := a.newAgent(ctx, "prompt-optimizer", cfg, aliases, cfg.Agents.Optimizer, optimizer.SystemPrompt, adapters)
	if err != nil {
		return nil, nil, &setupError{err: err}
	}

	return selector.New(selAgent, selector.WithLogger(a.logger)),
		optimizer.New(optAgent, optimizer.WithLogger(a.logger)), nil
}

func (a *app) pipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	sel, opt, err := a.stages(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.New(sel, opt, pipeline.WithLogger(a.logger)), nil
}

// newAgent builds the agent for one stage, creating its adapter on first use
// and caching it in adapters for the other stage.
func (a *app) newAgent(
	ctx context.Context,
	name string,
	cfg *config.Config,
	aliases *config.ModelAliases,
	ac config.AgentConfig,
	system string,
	adapters map[string]adapter.Adapter,
) (*agent.Agent, error) {
	ad, ok := adapters[ac.Adapter]
	if !ok {
		var err error
		ad, err = createAdapter(ctx, ac.Adapter, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		adapters[ac.Adapter] = ad
	}

	retry := cfg.Agents.Retry
	return agent.New(name, ad, aliases.Resolve(ac.Model), system,
		agent.WithTemperature(ac.TemperatureOr(0)),
		agent.WithMaxTokens(ac.MaxTokens),
		agent.WithRetry(agent.RetryPolicy{
			MaxRetries:  retry.Retries(),
			BaseBackoff: retry.BaseBackoff(),
			MaxBackoff:  retry.MaxBackoff(),
		}),
		agent.WithTimeout(cfg.Agents.Timeout()),
		agent.WithLogger(a.logger),
	)
}

func createAdapter(ctx context.Context, name string, cfg *config.Config) (adapter.Adapter, error) {
	if !cfg.HasAdapter(name) {
		return nil, fmt.Errorf("no API key configured for adapter %s", name)
	}

	var (
		a   adapter.Adapter
		err error
	)
	switch name {
	case config.AdapterOpenRouter:
		a, err = adapter.NewOpenRouterAdapter(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL)
	case config.AdapterOpenAI:
		a, err = adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
	case config.AdapterAnthropic:
		a, err = adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
	case config.AdapterGoogle:
		a, err = adapter.NewGoogleAdapter(ctx, cfg.GoogleAPIKey)
	case config.AdapterDeepSeek:
		a, err = adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
	case config.AdapterMock:
		a = adapter.NewMockAdapter()
	default:
		return nil, fmt.Errorf("unknown adapter %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s adapter: %w", name, err)
	}
	return a, nil
}

package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/zen-systems/promptenhancer/pkg/artifact"
)

// Base URLs of OpenAI-compatible providers.
const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DeepSeekBaseURL   = "https://api.deepseek.com/v1"
)

// OpenAIAdapter implements the Adapter interface for OpenAI models and for
// providers exposing the OpenAI chat completions API.
type OpenAIAdapter struct {
	client openai.Client
	name   string
	models []string
}

// NewOpenAIAdapter creates a new OpenAI adapter.
func NewOpenAIAdapter(apiKey string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAdapter{
		client: client,
		name:   "openai",
		models: []string{
			"gpt-5.2-instant",
			"gpt-5.2-thinking",
			"gpt-5.2-codex",
			"gpt-5.2-pro",
		},
	}, nil
}

// NewOpenRouterAdapter creates an adapter for OpenRouter. An empty baseURL
// selects the public endpoint.
func NewOpenRouterAdapter(apiKey, baseURL string) (*OpenAIAdapter, error) {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	return newCompatibleAdapter("openrouter", apiKey, baseURL, []string{
		"x-ai/grok-4-fast:free",
		"openai/gpt-4o-mini",
		"anthropic/claude-sonnet-4",
	})
}

// NewDeepSeekAdapter creates an adapter for DeepSeek.
func NewDeepSeekAdapter(apiKey string) (*OpenAIAdapter, error) {
	return newCompatibleAdapter("deepseek", apiKey, DeepSeekBaseURL, []string{
		"deepseek-chat",
		"deepseek-coder",
		"deepseek-reasoner",
	})
}

func newCompatibleAdapter(name, apiKey, baseURL string, models []string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &OpenAIAdapter{client: client, name: name, models: models}, nil
}

// Name returns the adapter identifier.
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Models returns the list of supported models.
func (a *OpenAIAdapter) Models() []string {
	return a.models
}

// Generate sends a request to the chat completions endpoint and returns the
// response as an artifact.
func (a *OpenAIAdapter) Generate(ctx context.Context, req Request) (*Response, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(req.Model),
		Messages:            messages,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(req.maxTokens()),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, wrapStatus(apiErr.StatusCode, fmt.Errorf("%s API error: %w", a.name, err))
		}
		return nil, fmt.Errorf("%s API error: %w", a.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", a.name)
	}

	content := resp.Choices[0].Message.Content
	usage := newUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	return &Response{
		Artifact: artifact.New(content, a.Name(), req.Model, req.Prompt),
		Usage:    usage,
	}, nil
}

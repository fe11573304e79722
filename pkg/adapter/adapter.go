package adapter

import (
	"context"
)

// DefaultMaxTokens bounds completions when a request does not set MaxTokens.
const DefaultMaxTokens = 4096

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends a request to the model and returns its reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Request is a single-turn chat request: an optional system message and
// one user message.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

func (r Request) maxTokens() int64 {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return int64(r.MaxTokens)
}

package adapter

import (
	"context"
	"fmt"

	"github.com/zen-systems/promptenhancer/pkg/artifact"
)

// MockAdapter returns deterministic responses for local runs and tests.
type MockAdapter struct {
	responses       map[string]string
	defaultResponse string
	Usage           *Usage

	// Err, when set, is returned by every call.
	Err error
	// Calls counts Generate invocations.
	Calls int
	// LastRequest is the most recent request received.
	LastRequest Request
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined responses
// keyed by user prompt.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	if responses == nil {
		responses = make(map[string]string)
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Generate returns a deterministic artifact for the prompt.
func (a *MockAdapter) Generate(_ context.Context, req Request) (*Response, error) {
	a.Calls++
	a.LastRequest = req
	if a.Err != nil {
		return nil, a.Err
	}

	model := req.Model
	if model == "" {
		model = "mock-1"
	}
	if response, ok := a.responses[req.Prompt]; ok {
		art := artifact.New(response, a.Name(), model, req.Prompt)
		return &Response{Artifact: art, Usage: a.Usage}, nil
	}
	content := fmt.Sprintf("%s\n%s", a.defaultResponse, req.Prompt)
	art := artifact.New(content, a.Name(), model, req.Prompt)
	return &Response{Artifact: art, Usage: a.Usage}, nil
}

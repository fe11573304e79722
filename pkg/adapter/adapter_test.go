package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("bad request"), want: false},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "net timeout", err: timeoutErr{}, want: true},
		{name: "rate limited", err: wrapStatus(429, errors.New("slow down")), want: true},
		{name: "server error", err: wrapStatus(503, errors.New("unavailable")), want: true},
		{name: "unauthorized", err: wrapStatus(401, errors.New("bad key")), want: false},
		{name: "temporary flag", err: &AdapterError{Temporary: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestAdapterErrorMessage(t *testing.T) {
	err := wrapStatus(500, errors.New("openrouter API error: upstream"))
	assert.Equal(t, "openrouter API error: upstream", err.Error())
	assert.Equal(t, "adapter error (status=502)", (&AdapterError{Status: 502}).Error())
	assert.Nil(t, wrapStatus(500, nil))
}

func TestMockAdapterResponses(t *testing.T) {
	mock := NewMockAdapterWithResponses(map[string]string{"hi": `{"ok":true}`}, "")

	resp, err := mock.Generate(context.Background(), Request{Prompt: "hi", System: "sys"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content())
	assert.Equal(t, "mock-1", resp.Artifact.Model)
	assert.Equal(t, "sys", mock.LastRequest.System)

	resp, err = mock.Generate(context.Background(), Request{Model: "m", Prompt: "other"})
	require.NoError(t, err)
	assert.Equal(t, "mock response:\nother", resp.Content())
	assert.Equal(t, 2, mock.Calls)

	mock.Err = errors.New("down")
	_, err = mock.Generate(context.Background(), Request{Prompt: "hi"})
	assert.EqualError(t, err, "down")
}

func TestResponseContentNil(t *testing.T) {
	var resp *Response
	assert.Empty(t, resp.Content())
	assert.Empty(t, (&Response{}).Content())
}

func TestRequestMaxTokens(t *testing.T) {
	assert.EqualValues(t, DefaultMaxTokens, Request{}.maxTokens())
	assert.EqualValues(t, 256, Request{MaxTokens: 256}.maxTokens())
}

func TestProviderConstructorsRequireKeys(t *testing.T) {
	_, err := NewAnthropicAdapter("")
	assert.Error(t, err)
	_, err = NewOpenAIAdapter("")
	assert.Error(t, err)
	_, err = NewOpenRouterAdapter("", "")
	assert.Error(t, err)
	_, err = NewDeepSeekAdapter("")
	assert.Error(t, err)
	_, err = NewGoogleAdapter(context.Background(), "")
	assert.Error(t, err)

	a, err := NewOpenRouterAdapter("key", "")
	require.NoError(t, err)
	assert.Equal(t, "openrouter", a.Name())
	assert.Contains(t, a.Models(), "x-ai/grok-4-fast:free")
}

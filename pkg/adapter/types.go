package adapter

import "github.com/zen-systems/promptenhancer/pkg/artifact"

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CallReport captures adapter call metadata.
type CallReport struct {
	Adapter string `json:"adapter"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
	Retries int    `json:"retries"`
	Error   string `json:"error,omitempty"`
}

// Response wraps an adapter output and optional usage data.
type Response struct {
	Artifact *artifact.Artifact
	Usage    *Usage
}

// Content returns the reply text, or "" for an empty response.
func (r *Response) Content() string {
	if r == nil || r.Artifact == nil {
		return ""
	}
	return r.Artifact.Content
}

func newUsage(prompt, completion, total int64) *Usage {
	u := &Usage{
		PromptTokens:     int(prompt),
		CompletionTokens: int(completion),
		TotalTokens:      int(total),
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

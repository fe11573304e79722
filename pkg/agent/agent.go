// Package agent binds an adapter, a model and a system message into the
// collaborator the pipeline stages talk to.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/zen-systems/promptenhancer/pkg/adapter"
	"go.uber.org/zap"
)

// Collaborator answers a single user message with free-form text.
type Collaborator interface {
	Reply(ctx context.Context, content string) (string, error)
}

// Func adapts a plain function to Collaborator.
type Func func(ctx context.Context, content string) (string, error)

// Reply calls f.
func (f Func) Reply(ctx context.Context, content string) (string, error) {
	return f(ctx, content)
}

// RetryPolicy bounds retries of transient adapter failures.
type RetryPolicy struct {
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultRetryPolicy allows two retries with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseBackoff: 200 * time.Millisecond, MaxBackoff: 2 * time.Second}
}

// Agent is a long-lived collaborator backed by an LLM adapter. It holds no
// per-call state and can be reused for every query.
type Agent struct {
	name        string
	adapter     adapter.Adapter
	model       string
	system      string
	temperature float64
	maxTokens   int
	retry       RetryPolicy
	timeout     time.Duration
	logger      *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(a *Agent) {
		a.temperature = t
	}
}

// WithMaxTokens bounds the reply length.
func WithMaxTokens(n int) Option {
	return func(a *Agent) {
		a.maxTokens = n
	}
}

// WithRetry sets the retry policy.
func WithRetry(p RetryPolicy) Option {
	return func(a *Agent) {
		a.retry = p
	}
}

// WithTimeout bounds each Reply, retries included. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) {
		a.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an agent.
func New(name string, a adapter.Adapter, model, system string, opts ...Option) (*Agent, error) {
	if a == nil {
		return nil, fmt.Errorf("agent %s: adapter is required", name)
	}
	if model == "" {
		return nil, fmt.Errorf("agent %s: model is required", name)
	}

	ag := &Agent{
		name:    name,
		adapter: a,
		model:   model,
		system:  system,
		retry:   DefaultRetryPolicy(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ag)
	}
	if ag.retry.MaxRetries < 0 {
		ag.retry.MaxRetries = 0
	}
	return ag, nil
}

// Name returns the agent name.
func (a *Agent) Name() string {
	return a.name
}

// Model returns the model the agent calls.
func (a *Agent) Model() string {
	return a.model
}

// Reply sends content as the user message and returns the model's text.
// Transient failures are retried per the agent's policy; the last error is
// returned once the budget is spent.
func (a *Agent) Reply(ctx context.Context, content string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req := adapter.Request{
		Model:       a.model,
		System:      a.system,
		Prompt:      content,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}
	log := a.logger.With(
		zap.String("agent", a.name),
		zap.String("adapter", a.adapter.Name()),
		zap.String("model", a.model),
	)

	var resp *adapter.Response
	attempts := 0
	err := retry.Do(
		func() error {
			attempts++
			r, err := a.adapter.Generate(ctx, req)
			if err != nil {
				return err
			}
			resp = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(a.retry.MaxRetries)+1),
		retry.RetryIf(adapter.IsTransient),
		retry.Delay(a.retry.BaseBackoff),
		retry.MaxDelay(a.retry.MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug("retrying adapter call", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)

	report := adapter.CallReport{
		Adapter: a.adapter.Name(),
		Model:   a.model,
		Retries: attempts - 1,
	}
	if err != nil {
		report.Error = err.Error()
		log.Warn("adapter call failed", zap.Any("report", report))
		return "", err
	}

	if resp.Usage != nil {
		report.Usage = *resp.Usage
	}
	fields := []zap.Field{zap.Any("report", report)}
	if resp.Artifact != nil {
		fields = append(fields, zap.String("artifact_id", resp.Artifact.ID), zap.String("hash", resp.Artifact.Hash))
	}
	log.Debug("adapter call complete", fields...)

	return resp.Content(), nil
}

// SafeReply calls c and converts a panic inside it into an error, so a
// misbehaving collaborator degrades like a failing one.
func SafeReply(ctx context.Context, c Collaborator, content string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = ""
			err = fmt.Errorf("collaborator panic: %v", r)
		}
	}()
	return c.Reply(ctx, content)
}

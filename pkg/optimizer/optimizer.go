// Package optimizer rewrites a classified query into an enhanced prompt and
// recommends a model class for it.
package optimizer

import (
	"context"
	"fmt"

	"github.com/tidwall/sjson"
	"github.com/zen-systems/promptenhancer/pkg/agent"
	"github.com/zen-systems/promptenhancer/pkg/extract"
	"github.com/zen-systems/promptenhancer/pkg/schema"
	"go.uber.org/zap"
)

// Optimizer asks a model to rewrite a query and falls back to the format
// templates whenever the model fails or answers out of schema.
type Optimizer struct {
	collaborator agent.Collaborator
	logger       *zap.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an optimizer. A nil collaborator makes every result
// template-based.
func New(c agent.Collaborator, opts ...Option) *Optimizer {
	o := &Optimizer{collaborator: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OptimizePrompt rewrites the query carried by decision. Like the selector it
// never fails; every error path yields a template-based result.
func (o *Optimizer) OptimizePrompt(ctx context.Context, decision schema.FormatDecision) schema.OptimizationResult {
	if o.collaborator == nil {
		return Rewrite(decision, nil)
	}

	payload, err := Payload(decision)
	if err != nil {
		o.logger.Warn("optimizer payload encoding failed, using templates", zap.Error(err))
		return Rewrite(decision, err)
	}

	reply, err := agent.SafeReply(ctx, o.collaborator, payload)
	if err != nil {
		o.logger.Warn("optimizer call failed, using templates", zap.Error(err))
		return Rewrite(decision, err)
	}

	result, err := parseReply(reply)
	if err != nil {
		o.logger.Info("optimizer reply rejected, using templates", zap.Error(err))
		return Rewrite(decision, nil)
	}

	o.logger.Debug("prompt optimized",
		zap.String("model_class", string(result.ModelClass)),
		zap.Int("prompt_len", len(result.OptimizedPrompt)))
	return result
}

// Payload encodes the collaborator input for decision. Keys are written in a
// fixed order: original_query, chosen_format, task_type, confidence.
func Payload(decision schema.FormatDecision) (string, error) {
	format := decision.ChosenFormat
	if format == "" {
		format = schema.DefaultFormat
	}

	doc := "{}"
	var err error
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"original_query", decision.OriginalQuery},
		{"chosen_format", string(format)},
		{"task_type", string(decision.TaskType)},
		{"confidence", decision.Confidence},
	} {
		doc, err = sjson.Set(doc, kv.key, kv.value)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", kv.key, err)
		}
	}
	return doc, nil
}

func parseReply(reply string) (schema.OptimizationResult, error) {
	doc, ok := extract.Object(reply)
	if !ok {
		return schema.OptimizationResult{}, extract.ErrNoObject
	}
	return schema.ParseOptimization(doc)
}

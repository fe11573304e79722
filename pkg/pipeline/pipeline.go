// Package pipeline chains the format selector and the prompt optimizer.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zen-systems/promptenhancer/pkg/schema"
	"go.uber.org/zap"
)

// ErrEmptyQuery is returned for a query that is empty after trimming.
var ErrEmptyQuery = errors.New("please enter a query first")

// FormatSelector is the first stage.
type FormatSelector interface {
	SelectFormat(ctx context.Context, query string) schema.FormatDecision
}

// PromptOptimizer is the second stage.
type PromptOptimizer interface {
	OptimizePrompt(ctx context.Context, decision schema.FormatDecision) schema.OptimizationResult
}

// Result holds both stage records for one query.
type Result struct {
	RunID        string                    `json:"run_id" yaml:"run_id"`
	Decision     schema.FormatDecision     `json:"decision" yaml:"decision"`
	Optimization schema.OptimizationResult `json:"optimization" yaml:"optimization"`
	Duration     time.Duration             `json:"-" yaml:"-"`
}

// Fallback reports whether either stage fell back to its rules.
func (r *Result) Fallback() bool {
	return r.Decision.IsFallback() || r.Optimization.IsFallback()
}

// Pipeline runs a query through both stages. It holds no per-query state and
// may be reused.
type Pipeline struct {
	selector  FormatSelector
	optimizer PromptOptimizer
	logger    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a pipeline from its two stages.
func New(selector FormatSelector, optimizer PromptOptimizer, opts ...Option) *Pipeline {
	p := &Pipeline{selector: selector, optimizer: optimizer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run classifies query and rewrites it. The only error is ErrEmptyQuery;
// collaborator failures surface as fallback reasons in the records.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := p.logger.With(zap.String("run_id", result.RunID))

	result.Decision = p.selector.SelectFormat(ctx, query)
	logger.Debug("stage complete",
		zap.String("stage", "select"),
		zap.String("task_type", string(result.Decision.TaskType)),
		zap.String("fallback_reason", result.Decision.FallbackReason))

	result.Optimization = p.optimizer.OptimizePrompt(ctx, result.Decision)
	logger.Debug("stage complete",
		zap.String("stage", "optimize"),
		zap.String("model_class", string(result.Optimization.ModelClass)),
		zap.String("fallback_reason", result.Optimization.FallbackReason))

	result.Duration = time.Since(start)
	logger.Info("query enhanced",
		zap.Bool("fallback", result.Fallback()),
		zap.Duration("duration", result.Duration))
	return result, nil
}

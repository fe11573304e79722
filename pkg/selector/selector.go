// Package selector classifies a query and picks the output format for it.
package selector

import (
	"context"

	"github.com/zen-systems/promptenhancer/pkg/agent"
	"github.com/zen-systems/promptenhancer/pkg/extract"
	"github.com/zen-systems/promptenhancer/pkg/schema"
	"go.uber.org/zap"
)

// Selector asks a model for a format decision and falls back to the keyword
// rules whenever the model fails or answers out of schema.
type Selector struct {
	collaborator agent.Collaborator
	logger       *zap.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a selector. A nil collaborator makes every decision rule-based.
func New(c agent.Collaborator, opts ...Option) *Selector {
	s := &Selector{collaborator: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectFormat classifies query. It never fails: every error path yields a
// rule-based decision carrying a fallback reason.
func (s *Selector) SelectFormat(ctx context.Context, query string) schema.FormatDecision {
	if s.collaborator == nil {
		return Classify(query, nil)
	}

	reply, err := agent.SafeReply(ctx, s.collaborator, query)
	if err != nil {
		s.logger.Warn("format selector call failed, using keyword rules", zap.Error(err))
		return Classify(query, err)
	}

	decision, err := parseReply(reply)
	if err != nil {
		s.logger.Info("format selector reply rejected, using keyword rules", zap.Error(err))
		return Classify(query, nil)
	}

	// The model is asked to echo the query; the caller's text is kept instead
	// so the record always carries the query verbatim.
	decision.OriginalQuery = query
	s.logger.Debug("format selected",
		zap.String("task_type", string(decision.TaskType)),
		zap.String("format", string(decision.ChosenFormat)),
		zap.Float64("confidence", decision.Confidence))
	return decision
}

func parseReply(reply string) (schema.FormatDecision, error) {
	doc, ok := extract.Object(reply)
	if !ok {
		return schema.FormatDecision{}, extract.ErrNoObject
	}
	return schema.ParseDecision(doc)
}

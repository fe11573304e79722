package selector

import (
	"strings"

	"github.com/zen-systems/promptenhancer/pkg/schema"
)

// Rule maps a keyword set to a fixed classification.
type Rule struct {
	Name       string
	Keywords   []string
	TaskType   schema.TaskType
	Format     schema.Format
	Confidence float64
}

// Matches reports whether any keyword occurs in the lower-cased query.
func (r Rule) Matches(queryLower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(queryLower, kw) {
			return true
		}
	}
	return false
}

// rules are checked in order; the first match wins. A query containing
// "api" and "summarize" is therefore coding, not research.
var rules = []Rule{
	{
		Name: "coding",
		Keywords: []string{
			"function", "code", "script", "program", "debug", "python", "javascript",
			"java", "c++", "html", "css", "sql", "algorithm", "class", "method",
			"write code", "programming", "syntax", "api", "database", "framework",
		},
		TaskType:   schema.TaskCoding,
		Format:     schema.FormatJSON,
		Confidence: 0.8,
	},
	{
		Name: "reasoning",
		Keywords: []string{
			"solve", "calculate", "math", "logic", "step by step", "analyze",
			"problem", "plan", "strategy", "optimize", "decision", "compare",
			"evaluate", "reasoning", "proof", "derive",
		},
		TaskType:   schema.TaskReasoning,
		Format:     schema.FormatYAML,
		Confidence: 0.75,
	},
	{
		Name: "research",
		Keywords: []string{
			"summarize", "summary", "research", "paper", "report", "analysis",
			"review", "literature", "study", "findings", "evidence", "data",
			"conclusion", "abstract", "overview", "survey",
		},
		TaskType:   schema.TaskResearch,
		Format:     schema.FormatMarkdown,
		Confidence: 0.85,
	},
	{
		Name: "multimodal",
		Keywords: []string{
			"image", "picture", "video", "audio", "generate", "create visual",
			"diagram", "chart", "graph", "illustration", "design", "photo",
		},
		TaskType:   schema.TaskMultimodal,
		Format:     schema.FormatJSON,
		Confidence: 0.7,
	},
}

// defaultRule applies when no keyword set matches.
var defaultRule = Rule{
	Name:       "chat",
	TaskType:   schema.TaskChat,
	Format:     schema.FormatPlainText,
	Confidence: 0.6,
}

// Rules returns a copy of the ordered keyword rules followed by the default.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules)+1)
	for _, r := range rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out = append(out, r)
	}
	return append(out, defaultRule)
}

// MatchRule returns the first rule matching query, or the default rule.
func MatchRule(query string) Rule {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, r := range rules {
		if r.Matches(lower) {
			return r
		}
	}
	return defaultRule
}

// Classify builds a decision from the keyword rules alone. err is the
// collaborator failure that led here, if any; it is reported in the
// fallback reason.
func Classify(query string, err error) schema.FormatDecision {
	r := MatchRule(query)
	return schema.FormatDecision{
		TaskType:       r.TaskType,
		ChosenFormat:   r.Format,
		Confidence:     r.Confidence,
		OriginalQuery:  query,
		FallbackReason: schema.FallbackReason(err, schema.ClassificationFallbackMarker),
	}
}

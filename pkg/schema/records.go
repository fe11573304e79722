package schema

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

var (
	// ErrMissingField reports a required key absent from a document.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidValue reports a value outside its enumeration or range.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNotObject reports a document that is not a JSON object.
	ErrNotObject = errors.New("document is not a JSON object")
)

// Fallback markers attached when the rule-based path produced a record
// without an underlying collaborator error.
const (
	ClassificationFallbackMarker = "Rule-based classification used"
	OptimizationFallbackMarker   = "Rule-based optimization used"
	llmErrorPrefix               = "LLM error: "
)

// Defaults applied to a decision handed to the optimizer.
const (
	DefaultFormat     = FormatPlainText
	DefaultConfidence = 0.5
)

// FormatDecision is the output of the format selector.
type FormatDecision struct {
	TaskType       TaskType `json:"task_type" yaml:"task_type"`
	ChosenFormat   Format   `json:"chosen_format" yaml:"chosen_format"`
	Confidence     float64  `json:"confidence" yaml:"confidence"`
	OriginalQuery  string   `json:"original_query" yaml:"original_query"`
	FallbackReason string   `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
}

// OptimizationResult is the output of the prompt optimizer.
type OptimizationResult struct {
	OptimizedPrompt string     `json:"optimized_prompt" yaml:"optimized_prompt"`
	ModelClass      ModelClass `json:"model_class" yaml:"model_class"`
	FallbackReason  string     `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
}

// Validate checks the enumeration and range invariants of a decision.
func (d *FormatDecision) Validate() error {
	if !d.TaskType.Valid() {
		return fmt.Errorf("%w: task_type %q", ErrInvalidValue, d.TaskType)
	}
	if !d.ChosenFormat.Valid() {
		return fmt.Errorf("%w: chosen_format %q", ErrInvalidValue, d.ChosenFormat)
	}
	if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidValue, d.Confidence)
	}
	return nil
}

// IsFallback reports whether the decision came from the rule-based path.
func (d *FormatDecision) IsFallback() bool {
	return d.FallbackReason != ""
}

// Validate checks the invariants of an optimization result.
func (r *OptimizationResult) Validate() error {
	if r.OptimizedPrompt == "" {
		return fmt.Errorf("%w: optimized_prompt is empty", ErrInvalidValue)
	}
	if !r.ModelClass.Valid() {
		return fmt.Errorf("%w: model_class %q", ErrInvalidValue, r.ModelClass)
	}
	return nil
}

// IsFallback reports whether the result came from the rule-based path.
func (r *OptimizationResult) IsFallback() bool {
	return r.FallbackReason != ""
}

// FallbackReason renders the reason attached to a fallback record: the
// collaborator error when there is one, the marker otherwise.
func FallbackReason(err error, marker string) string {
	if err != nil {
		return llmErrorPrefix + err.Error()
	}
	return marker
}

// ParseDecision parses and validates a model-produced decision document.
// All four keys must be present and confidence must be a JSON number.
func ParseDecision(doc string) (FormatDecision, error) {
	obj, err := parseObject(doc)
	if err != nil {
		return FormatDecision{}, err
	}
	fields, err := requireFields(obj, "task_type", "chosen_format", "confidence", "original_query")
	if err != nil {
		return FormatDecision{}, err
	}

	taskType, err := ParseTaskType(stringValue(fields[0]))
	if err != nil {
		return FormatDecision{}, err
	}
	format, err := ParseFormat(stringValue(fields[1]))
	if err != nil {
		return FormatDecision{}, err
	}
	if fields[2].Type != gjson.Number {
		return FormatDecision{}, fmt.Errorf("%w: confidence is not a number", ErrInvalidValue)
	}

	decision := FormatDecision{
		TaskType:      taskType,
		ChosenFormat:  format,
		Confidence:    fields[2].Num,
		OriginalQuery: fields[3].String(),
	}
	if err := decision.Validate(); err != nil {
		return FormatDecision{}, err
	}
	return decision, nil
}

// ParseOptimization parses and validates a model-produced optimization document.
func ParseOptimization(doc string) (OptimizationResult, error) {
	obj, err := parseObject(doc)
	if err != nil {
		return OptimizationResult{}, err
	}
	fields, err := requireFields(obj, "optimized_prompt", "model_class")
	if err != nil {
		return OptimizationResult{}, err
	}

	modelClass, err := ParseModelClass(stringValue(fields[1]))
	if err != nil {
		return OptimizationResult{}, err
	}
	if fields[0].Type != gjson.String {
		return OptimizationResult{}, fmt.Errorf("%w: optimized_prompt is not a string", ErrInvalidValue)
	}

	result := OptimizationResult{
		OptimizedPrompt: fields[0].Str,
		ModelClass:      modelClass,
	}
	if err := result.Validate(); err != nil {
		return OptimizationResult{}, err
	}
	return result, nil
}

// DecodeDecision reads a loosely typed decision, such as selector output
// saved to a file, applying the optimizer input defaults for absent keys.
// Task type and format are not validated; the optimizer falls back to its
// plain text template and chat class for unknown values. A confidence that
// is not a number in [0,1] takes the default.
func DecodeDecision(data []byte) (FormatDecision, error) {
	obj, err := parseObject(string(data))
	if err != nil {
		return FormatDecision{}, err
	}
	fields := lastValues(obj)

	decision := FormatDecision{
		TaskType:       TaskType(fields["task_type"].String()),
		ChosenFormat:   DefaultFormat,
		Confidence:     DefaultConfidence,
		OriginalQuery:  fields["original_query"].String(),
		FallbackReason: fields["fallback_reason"].String(),
	}
	if v, ok := fields["chosen_format"]; ok {
		decision.ChosenFormat = Format(v.String())
	}
	if v, ok := fields["confidence"]; ok && v.Type == gjson.Number && v.Num >= 0 && v.Num <= 1 {
		decision.Confidence = v.Num
	}
	return decision, nil
}

func parseObject(doc string) (gjson.Result, error) {
	if !gjson.Valid(doc) {
		return gjson.Result{}, fmt.Errorf("%w: not valid JSON", ErrNotObject)
	}
	obj := gjson.Parse(doc)
	if !obj.IsObject() {
		return gjson.Result{}, ErrNotObject
	}
	return obj, nil
}

// requireFields returns the values of keys in order, failing on the first
// absent one.
func requireFields(obj gjson.Result, keys ...string) ([]gjson.Result, error) {
	fields := lastValues(obj)
	values := make([]gjson.Result, len(keys))
	for i, key := range keys {
		v, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
		values[i] = v
	}
	return values, nil
}

// lastValues maps the top-level keys of obj to their values. A key that
// appears more than once takes its last value.
func lastValues(obj gjson.Result) map[string]gjson.Result {
	fields := make(map[string]gjson.Result)
	obj.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value
		return true
	})
	return fields
}

func stringValue(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

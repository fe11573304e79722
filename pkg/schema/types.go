package schema

import "fmt"

// TaskType is the category a query is classified into.
type TaskType string

const (
	TaskReasoning  TaskType = "Reasoning/Problem Solving"
	TaskCoding     TaskType = "Coding/Programming"
	TaskResearch   TaskType = "Research/Summarization"
	TaskChat       TaskType = "Open-Ended Chat/Conversation"
	TaskMultimodal TaskType = "Multimodal Request"
)

// Format is the structured output format selected for a task.
type Format string

const (
	FormatJSON      Format = "JSON"
	FormatYAML      Format = "YAML"
	FormatMarkdown  Format = "Markdown"
	FormatPlainText Format = "Plain Text"
)

// ModelClass is the kind of model recommended for an optimized prompt.
type ModelClass string

const (
	ModelReasoning  ModelClass = "Reasoning LLM"
	ModelCode       ModelClass = "Code-specialized LLM"
	ModelResearch   ModelClass = "Research/long-context LLM"
	ModelChat       ModelClass = "General chat LLM"
	ModelMultimodal ModelClass = "Multimodal generator"
)

// AllTaskTypes returns every task type in declaration order.
func AllTaskTypes() []TaskType {
	return []TaskType{TaskReasoning, TaskCoding, TaskResearch, TaskChat, TaskMultimodal}
}

// AllFormats returns every format in declaration order.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatPlainText}
}

// AllModelClasses returns every model class in declaration order.
func AllModelClasses() []ModelClass {
	return []ModelClass{ModelReasoning, ModelCode, ModelResearch, ModelChat, ModelMultimodal}
}

// Valid reports whether t is one of the five task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskReasoning, TaskCoding, TaskResearch, TaskChat, TaskMultimodal:
		return true
	}
	return false
}

// Valid reports whether f is one of the four formats.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatMarkdown, FormatPlainText:
		return true
	}
	return false
}

// Valid reports whether m is one of the five model classes.
func (m ModelClass) Valid() bool {
	switch m {
	case ModelReasoning, ModelCode, ModelResearch, ModelChat, ModelMultimodal:
		return true
	}
	return false
}

// ParseTaskType returns the task type named by s.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: task_type %q", ErrInvalidValue, s)
	}
	return t, nil
}

// ParseFormat returns the format named by s.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: chosen_format %q", ErrInvalidValue, s)
	}
	return f, nil
}

// ParseModelClass returns the model class named by s.
func ParseModelClass(s string) (ModelClass, error) {
	m := ModelClass(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: model_class %q", ErrInvalidValue, s)
	}
	return m, nil
}

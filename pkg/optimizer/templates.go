package optimizer

import (
	"strings"

	"github.com/zen-systems/promptenhancer/pkg/schema"
)

const queryPlaceholder = "{query}"

// The JSON preamble ends in a space before the newline.
const jsonTemplate = "Please respond in valid JSON format. \n" + `
Task: {query}

Requirements:
- Provide structured output
- Include all relevant fields
- Ensure JSON is properly formatted
- Be comprehensive and accurate`

const yamlTemplate = `Please respond in YAML format with clear structure.

Task: {query}

Requirements:
- Use step-by-step reasoning
- Show your workflow clearly
- Include intermediate steps
- Maintain proper YAML syntax`

const markdownTemplate = `Please respond in well-structured Markdown format.

## Task
{query}

## Requirements
- Use clear headings and sections
- Provide comprehensive explanations
- Include examples where relevant
- Maintain readability`

const plainTextTemplate = `Task: {query}

Please provide a clear, comprehensive response that:
- Addresses all aspects of the question
- Uses simple, understandable language
- Includes relevant examples or explanations
- Is well-organized and easy to follow`

// templateFor returns the prompt template for a format. Unknown formats get
// the plain text template.
func templateFor(f schema.Format) string {
	switch f {
	case schema.FormatJSON:
		return jsonTemplate
	case schema.FormatYAML:
		return yamlTemplate
	case schema.FormatMarkdown:
		return markdownTemplate
	default:
		return plainTextTemplate
	}
}

// classRoutes are tested in order against the task type by substring.
var classRoutes = []struct {
	taskType schema.TaskType
	class    schema.ModelClass
}{
	{schema.TaskCoding, schema.ModelCode},
	{schema.TaskReasoning, schema.ModelReasoning},
	{schema.TaskResearch, schema.ModelResearch},
	{schema.TaskMultimodal, schema.ModelMultimodal},
}

// ModelClassFor recommends a model class for a task type. Task types that
// do not contain a known category name get the general chat class.
func ModelClassFor(t schema.TaskType) schema.ModelClass {
	for _, route := range classRoutes {
		if strings.Contains(string(t), string(route.taskType)) {
			return route.class
		}
	}
	return schema.ModelChat
}

// Render wraps query in the template for format.
func Render(format schema.Format, query string) string {
	return strings.Replace(templateFor(format), queryPlaceholder, query, 1)
}

// Rewrite builds a result from the format templates alone. err is the
// collaborator failure that led here, if any.
func Rewrite(decision schema.FormatDecision, err error) schema.OptimizationResult {
	return schema.OptimizationResult{
		OptimizedPrompt: Render(decision.ChosenFormat, decision.OriginalQuery),
		ModelClass:      ModelClassFor(decision.TaskType),
		FallbackReason:  schema.FallbackReason(err, schema.OptimizationFallbackMarker),
	}
}

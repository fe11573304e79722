package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecision(t *testing.T) {
	doc := `{"task_type":"Coding/Programming","chosen_format":"JSON","confidence":0.9,"original_query":"write a parser","extra":true}`

	decision, err := ParseDecision(doc)
	require.NoError(t, err)
	assert.Equal(t, TaskCoding, decision.TaskType)
	assert.Equal(t, FormatJSON, decision.ChosenFormat)
	assert.InDelta(t, 0.9, decision.Confidence, 1e-9)
	assert.Equal(t, "write a parser", decision.OriginalQuery)
	assert.Empty(t, decision.FallbackReason)
}

func TestParseDecisionRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "not json",
			doc:  `{task_type: coding}`,
			want: ErrNotObject,
		},
		{
			name: "array",
			doc:  `[1,2]`,
			want: ErrNotObject,
		},
		{
			name: "missing original_query",
			doc:  `{"task_type":"Coding/Programming","chosen_format":"JSON","confidence":0.9}`,
			want: ErrMissingField,
		},
		{
			name: "unknown task type",
			doc:  `{"task_type":"Poetry","chosen_format":"JSON","confidence":0.9,"original_query":"q"}`,
			want: ErrInvalidValue,
		},
		{
			name: "unknown format",
			doc:  `{"task_type":"Coding/Programming","chosen_format":"XML","confidence":0.9,"original_query":"q"}`,
			want: ErrInvalidValue,
		},
		{
			name: "confidence as string",
			doc:  `{"task_type":"Coding/Programming","chosen_format":"JSON","confidence":"0.9","original_query":"q"}`,
			want: ErrInvalidValue,
		},
		{
			name: "confidence above range",
			doc:  `{"task_type":"Coding/Programming","chosen_format":"JSON","confidence":1.2,"original_query":"q"}`,
			want: ErrInvalidValue,
		},
		{
			name: "confidence below range",
			doc:  `{"task_type":"Coding/Programming","chosen_format":"JSON","confidence":-0.1,"original_query":"q"}`,
			want: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecision(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestParseDecisionDuplicateKeysLastWins(t *testing.T) {
	decision, err := ParseDecision(`{"task_type":"Bogus","task_type":"Coding/Programming","chosen_format":"JSON","confidence":0.9,"original_query":"q"}`)
	require.NoError(t, err)
	assert.Equal(t, TaskCoding, decision.TaskType)

	_, err = ParseDecision(`{"task_type":"Coding/Programming","chosen_format":"JSON","confidence":0.9,"confidence":"high","original_query":"q"}`)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidateRejectsNaNConfidence(t *testing.T) {
	d := FormatDecision{TaskType: TaskChat, ChosenFormat: FormatPlainText, Confidence: math.NaN()}
	assert.ErrorIs(t, d.Validate(), ErrInvalidValue)
}

func TestParseDecisionBoundaryConfidence(t *testing.T) {
	for _, doc := range []string{
		`{"task_type":"Multimodal Request","chosen_format":"Plain Text","confidence":0,"original_query":"q"}`,
		`{"task_type":"Multimodal Request","chosen_format":"Plain Text","confidence":1,"original_query":"q"}`,
	} {
		_, err := ParseDecision(doc)
		require.NoError(t, err, doc)
	}
}

func TestParseOptimization(t *testing.T) {
	result, err := ParseOptimization(`{"optimized_prompt":"Do the thing.","model_class":"General chat LLM"}`)
	require.NoError(t, err)
	assert.Equal(t, "Do the thing.", result.OptimizedPrompt)
	assert.Equal(t, ModelChat, result.ModelClass)

	_, err = ParseOptimization(`{"optimized_prompt":"","model_class":"General chat LLM"}`)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseOptimization(`{"optimized_prompt":42,"model_class":"General chat LLM"}`)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseOptimization(`{"optimized_prompt":"x","model_class":"GPT-4"}`)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseOptimization(`{"model_class":"General chat LLM"}`)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestDecodeDecisionDefaults(t *testing.T) {
	decision, err := DecodeDecision([]byte(`{"task_type":"Research/Summarization"}`))
	require.NoError(t, err)
	assert.Equal(t, TaskResearch, decision.TaskType)
	assert.Equal(t, FormatPlainText, decision.ChosenFormat)
	assert.InDelta(t, 0.5, decision.Confidence, 1e-9)
	assert.Empty(t, decision.OriginalQuery)

	decision, err = DecodeDecision([]byte(`{"chosen_format":"YAML","confidence":0,"original_query":"plan a trip"}`))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, decision.ChosenFormat)
	assert.Zero(t, decision.Confidence)
	assert.Equal(t, "plan a trip", decision.OriginalQuery)

	for _, doc := range []string{
		`{"original_query":"q","confidence":"NaN"}`,
		`{"original_query":"q","confidence":"0.9"}`,
		`{"original_query":"q","confidence":3}`,
		`{"original_query":"q","confidence":null}`,
	} {
		decision, err = DecodeDecision([]byte(doc))
		require.NoError(t, err, doc)
		assert.InDelta(t, 0.5, decision.Confidence, 1e-9, doc)
	}

	decision, err = DecodeDecision([]byte(`{"original_query":"first","original_query":"second"}`))
	require.NoError(t, err)
	assert.Equal(t, "second", decision.OriginalQuery)

	_, err = DecodeDecision([]byte(`not json`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, ClassificationFallbackMarker, FallbackReason(nil, ClassificationFallbackMarker))
	assert.Equal(t, "LLM error: boom", FallbackReason(errors.New("boom"), ClassificationFallbackMarker))
}

func TestEnumerations(t *testing.T) {
	for _, tt := range AllTaskTypes() {
		assert.True(t, tt.Valid(), tt)
	}
	for _, f := range AllFormats() {
		assert.True(t, f.Valid(), f)
	}
	for _, m := range AllModelClasses() {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, TaskType("coding").Valid())
	assert.False(t, Format("json").Valid())
	assert.False(t, ModelClass("GPT-4").Valid())

	_, err := ParseFormat("XML")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

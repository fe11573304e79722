package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "bare object",
			text:   `{"a":1}`,
			want:   `{"a":1}`,
			wantOK: true,
		},
		{
			name:   "prose around object",
			text:   "Sure! Here is the result:\n{\"a\": {\"b\": 2}}\nLet me know.",
			want:   "{\"a\": {\"b\": 2}}",
			wantOK: true,
		},
		{
			name:   "code fence",
			text:   "```json\n{\"a\":1}\n```",
			want:   "{\"a\":1}",
			wantOK: true,
		},
		{
			name:   "two objects falls back to balanced scan",
			text:   `first {"a":1} then {"b":2}`,
			want:   `{"a":1}`,
			wantOK: true,
		},
		{
			name:   "stray brace in prose before object",
			text:   `use {braces} like this: {"a":"}"}`,
			want:   `{"a":"}"}`,
			wantOK: true,
		},
		{
			name:   "no braces",
			text:   "I cannot help with that.",
			wantOK: false,
		},
		{
			name:   "closing before opening",
			text:   "} nothing {",
			wantOK: false,
		},
		{
			name:   "unparseable",
			text:   "{not json}",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Object(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

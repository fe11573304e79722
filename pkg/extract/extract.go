// Package extract pulls a JSON object out of free-form model replies.
package extract

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoObject reports a reply with no parseable JSON object.
var ErrNoObject = errors.New("reply contains no JSON object")

// Object returns the first JSON object embedded in text.
//
// The greedy span from the first '{' to the last '}' is tried first; models
// usually wrap a single object in prose or code fences and this handles
// nested objects. When that span does not parse (several objects, stray
// braces in the prose), each '{' is tried in turn with a balanced scan.
func Object(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", false
	}

	greedy := text[start : end+1]
	if gjson.Valid(greedy) {
		return greedy, true
	}

	for i := start; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		span, ok := balanced(text[i:])
		if ok && gjson.Valid(span) {
			return span, true
		}
	}
	return "", false
}

// balanced scans text, which starts with '{', to its matching '}'.
// Braces inside JSON strings are ignored.
func balanced(text string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}
	return "", false
}

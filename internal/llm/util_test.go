package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_MarkdownFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"format_type\": \"static_image\"}\n```",
			expected: `{"format_type": "static_image"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"format_type\": \"static_image\"}\n```",
			expected: `{"format_type": "static_image"}`,
		},
		{
			name:     "code block with language identifier",
			input:    "```javascript\n{\"format_type\": \"static_image\"}\n```",
			expected: `{"format_type": "static_image"}`,
		},
		{
			name:     "plain JSON passes through",
			input:    `{"format_type": "static_image"}`,
			expected: `{"format_type": "static_image"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_ConversationalWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "Here is the tag set for this creative:\n{\"hook_type_visual\": \"product_demo\"}",
			expected: `{"hook_type_visual": "product_demo"}`,
		},
		{
			name:     "multi-sentence preamble",
			input:    "I analyzed the ad image. The creative shows a product. Result: {\"product_visibility\": \"hero\"}",
			expected: `{"product_visibility": "hero"}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Detected shifts:\n[{\"frame\": 2}, {\"frame\": 5}]",
			expected: `[{"frame": 2}, {"frame": 5}]`,
		},
		{
			name:     "trailing text after object",
			input:    "{\"format_type\": \"ugc_style\"}\n\nLet me know if you need anything else!",
			expected: `{"format_type": "ugc_style"}`,
		},
		{
			name:     "braces inside string values",
			input:    "Output: {\"text_overlay\": \"Use code {SAVE20} today\"}",
			expected: `{"text_overlay": "Use code {SAVE20} today"}`,
		},
		{
			name:     "escaped quotes inside values",
			input:    "Result: {\"transcription\": \"She said \\\"try it free\\\"\"}",
			expected: `{"transcription": "She said \"try it free\""}`,
		},
		{
			name:     "nested objects",
			input:    "Here: {\"outer\": {\"inner\": {\"deep\": \"value\"}}}",
			expected: `{"outer": {"inner": {"deep": "value"}}}`,
		},
		{
			name:     "fence plus preamble inside",
			input:    "```json\nThe tags are: {\"format_type\": \"meme_style\"}\n```",
			expected: `{"format_type": "meme_style"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple object", input: `{"a": 1}`, expected: `{"a": 1}`},
		{name: "object with array value", input: `{"frames": [1, 2, 3]}`, expected: `{"frames": [1, 2, 3]}`},
		{name: "trailing text cut", input: `{"a": 1} and more`, expected: `{"a": 1}`},
		{name: "unbalanced object", input: `{"a": {"b": 1}`, expected: ""},
		{name: "empty input", input: "", expected: ""},
		{name: "not starting with brace", input: "not json", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple array", input: `["a", "b"]`, expected: `["a", "b"]`},
		{name: "nested arrays", input: `[[1, 2], [3, 4]]`, expected: `[[1, 2], [3, 4]]`},
		{name: "array of objects", input: `[{"frame": 1}, {"frame": 2}]`, expected: `[{"frame": 1}, {"frame": 2}]`},
		{name: "trailing text cut", input: `[1, 2] extra`, expected: `[1, 2]`},
		{name: "brackets inside strings", input: `["a [note]", "b"]`, expected: `["a [note]", "b"]`},
		{name: "empty input", input: "", expected: ""},
		{name: "not starting with bracket", input: "not an array", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONArray(tt.input))
		})
	}
}

// Package llm - util.go provides shared utilities for model response processing.
package llm

import "strings"

// CleanJSONBlock extracts the JSON payload from a model response. Models wrap
// JSON in ```json fences or surround it with conversational text even when
// instructed not to; this strips fences, then cuts the first balanced JSON
// object or array out of whatever remains.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		// Generic ``` ... ``` blocks
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Cut the first balanced object or array, whichever opens first
	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")
	switch {
	case objIdx >= 0 && (arrIdx < 0 || objIdx < arrIdx):
		if extracted := extractJSONObject(text[objIdx:]); extracted != "" {
			return extracted
		}
	case arrIdx >= 0:
		if extracted := extractJSONArray(text[arrIdx:]); extracted != "" {
			return extracted
		}
	}

	return text
}

// extractJSONObject returns the leading balanced JSON object of s, or ""
// when s does not start with one. Braces inside string values are ignored.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the leading balanced JSON array of s, or ""
// when s does not start with one.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, openCh, closeCh byte) string {
	if s == "" || s[0] != openCh {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == openCh:
			depth++
		case c == closeCh:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	// Unbalanced input
	return ""
}

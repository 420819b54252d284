package openai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a structured value out of a model response.
// It tries, in order: the response as-is after stripping markdown code
// fences, the fence-stripped response after common-defect repair, and
// finally the first balanced {...} or [...] span found in the text.
func ExtractJSON(text string) (any, error) {
	stripped := stripCodeFences(text)

	var value any
	if err := json.Unmarshal([]byte(stripped), &value); err == nil {
		return value, nil
	}

	repaired := repairJSON(stripped)
	if err := json.Unmarshal([]byte(repaired), &value); err == nil {
		return value, nil
	}

	// Model wrapped the payload in prose; pull out the first balanced span.
	if span := firstBalancedSpan(stripped); span != "" {
		if err := json.Unmarshal([]byte(span), &value); err == nil {
			return value, nil
		}
		if err := json.Unmarshal([]byte(repairJSON(span)), &value); err == nil {
			return value, nil
		}
	}

	return nil, fmt.Errorf("no parseable JSON in response")
}

// stripCodeFences removes markdown code fence markers around a response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstBalancedSpan returns the first balanced {...} or [...] span in s,
// or "" when none exists. String contents are skipped so braces inside
// values don't affect the depth count.
func firstBalancedSpan(s string) string {
	start := -1
	var open, close rune
	for i, ch := range s {
		if ch == '{' || ch == '[' {
			start = i
			open = ch
			close = '}'
			if ch == '[' {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := rune(s[i])
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON attempts to fix common JSON formatting issues from LLM
// responses. It specifically handles missing opening quotes before keys
// in JSON objects, e.g. `, type":` -> `, "type":`.
func repairJSON(s string) string {
	result := []rune(s)
	fixed := make([]rune, 0, len(result)+100)

	i := 0
	for i < len(result) {
		ch := result[i]

		// After { or , look for unquoted keys
		if ch == '{' || ch == ',' {
			fixed = append(fixed, ch)
			i++

			// Skip whitespace
			for i < len(result) && (result[i] == ' ' || result[i] == '\n' || result[i] == '\t') {
				fixed = append(fixed, result[i])
				i++
			}

			// Check if we have an unquoted key (starts with letter, not with quote)
			if i < len(result) && result[i] != '"' && isLetter(result[i]) {
				keyStart := i
				// Find the end of the key name
				for i < len(result) && (isLetter(result[i]) || result[i] == '_' || result[i] == ' ') {
					i++
				}
				keyEnd := i

				// Followed by ": means the opening quote is missing
				if i+1 < len(result) && result[i] == '"' && result[i+1] == ':' {
					fixed = append(fixed, '"')
					for j := keyStart; j < keyEnd; j++ {
						if result[j] != ' ' || (j > keyStart && j < keyEnd-1) {
							fixed = append(fixed, result[j])
						}
					}
					// Closing quote is already there at result[i]
					continue
				}

				// Not an unquoted key, just copy what we skipped
				for j := keyStart; j < i; j++ {
					fixed = append(fixed, result[j])
				}
			}
		} else {
			fixed = append(fixed, ch)
			i++
		}
	}

	return string(fixed)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

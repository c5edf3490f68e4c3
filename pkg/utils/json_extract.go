package utils

import "strings"

// CleanJSONResponse strips markdown fences and surrounding prose from an LLM
// response, returning the first complete JSON object or array it contains.
// Returns the trimmed input unchanged when no balanced structure is found.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if objEnd := findMatching(response, objStart, '{', '}'); objEnd != -1 {
			return strings.TrimSpace(response[objStart : objEnd+1])
		}
	} else if arrStart != -1 {
		if arrEnd := findMatching(response, arrStart, '[', ']'); arrEnd != -1 {
			return strings.TrimSpace(response[arrStart : arrEnd+1])
		}
	}

	return response
}

// findMatching returns the index of the closing delimiter matching the opener
// at start, tracking string literals and escapes so braces inside values do
// not miscount. Returns -1 when unbalanced.
func findMatching(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

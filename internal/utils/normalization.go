package utils

import "strings"

// NormalizeLanguage lowercases a language name. Whitespace is kept, so " python " stays unsupported.
func NormalizeLanguage(language string) string {
	return strings.ToLower(language)
}

// StripFences removes a surrounding markdown code fence (```lang ... ```) and trims the result.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// drop the opening fence line, including any language tag
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// Truncate shortens s to at most n bytes, marking the cut with "...".
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

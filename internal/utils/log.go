package utils

import "strings"

// DefaultMaxLogLength bounds prompt and response previews in debug logs.
const DefaultMaxLogLength = 200

// TruncateForLog folds every run of whitespace, newlines included, into a single
// space and cuts the result to limit runes, appending "..." when something was cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	flat := strings.Join(strings.Fields(s), " ")

	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "..."
}

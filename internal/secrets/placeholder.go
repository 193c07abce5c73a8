package secrets

import "strings"

var placeholders = map[string]struct{}{
	"changeme":    {},
	"change-me":   {},
	"replaceme":   {},
	"replace-me":  {},
	"placeholder": {},
	"todo":        {},
	"secret":      {},
	"api-key":     {},
	"apikey":      {},
}

// IsPlaceholder reports whether value looks like a sample credential copied
// from documentation rather than a real one.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}

	if _, ok := placeholders[v]; ok {
		return true
	}

	switch {
	case strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">"):
		return true
	case strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}"):
		return true
	case strings.HasPrefix(v, "your") && (strings.Contains(v, "key") || strings.Contains(v, "token")):
		return true
	}

	return strings.Trim(v, "x*.") == ""
}

// Package similarity provides the string similarity primitives used by the scorer.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLength drops short tokens ("the", "for", "ai") from Jaccard token sets.
const minTokenLength = 4

const tokenPunctuation = ".,!?;:'\"()[]{}<>`*_/\\|"

// Edit returns the normalized Levenshtein similarity of a and b in [0,1].
// Two empty strings are identical. Comparison is case-sensitive.
func Edit(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	if dist == 0 && a != b {
		// Invalid UTF-8 bytes all decode to U+FFFD.
		dist = 1
	}
	return 1 - float64(dist)/float64(longest)
}

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b.
// It is 0 when either side has no tokens.
func Jaccard(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// TokenSet splits text on whitespace, trims surrounding punctuation, lower-cases,
// and keeps distinct tokens of at least four runes.
func TokenSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		token := strings.ToLower(strings.Trim(field, tokenPunctuation))
		if utf8.RuneCountInString(token) < minTokenLength {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// Fold lower-cases s and strips diacritics ("Café" -> "cafe").
func Fold(s string) string {
	// transformer chains keep internal buffers, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Alnum folds s and removes everything that is not a letter or digit.
func Alnum(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Package keywords matches fixed vocabularies of business terms against free text.
package keywords

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/spigell/idea-screener/internal/similarity"
)

// Table is an immutable keyword vocabulary. It is safe for concurrent use.
type Table struct {
	name     string
	keywords []string
	matcher  *ahocorasick.Matcher
}

// Overlap describes how a vocabulary is shared between two texts.
type Overlap struct {
	// Matches counts keywords present in both texts.
	Matches int
	// Total counts keywords present in either text.
	Total int
	// Shared lists the matched keywords in table order.
	Shared []string
}

// NewTable builds the automaton for the given keywords. Keywords that normalize
// to the same phrase are kept once.
func NewTable(name string, keywords []string) *Table {
	t := &Table{name: name}

	patterns := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		normalized := strings.TrimSpace(Normalize(kw))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}

		t.keywords = append(t.keywords, strings.TrimSpace(kw))
		patterns = append(patterns, " "+normalized+" ")
	}

	if len(patterns) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(patterns)
	}

	return t
}

func (t *Table) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keywords)
}

// Find returns the keywords present in text, in table order.
func (t *Table) Find(text string) []string {
	hits := t.hits(text)
	found := make([]string, 0, len(hits))
	for _, idx := range sortedIndexes(hits) {
		found = append(found, t.keywords[idx])
	}
	return found
}

// Overlap counts the keywords present in either and in both texts.
func (t *Table) Overlap(a, b string) Overlap {
	hitsA := t.hits(a)
	hitsB := t.hits(b)

	union := make(map[int]struct{}, len(hitsA)+len(hitsB))
	for idx := range hitsA {
		union[idx] = struct{}{}
	}
	for idx := range hitsB {
		union[idx] = struct{}{}
	}

	overlap := Overlap{Total: len(union)}
	for _, idx := range sortedIndexes(union) {
		_, inA := hitsA[idx]
		_, inB := hitsB[idx]
		if inA && inB {
			overlap.Matches++
			overlap.Shared = append(overlap.Shared, t.keywords[idx])
		}
	}

	return overlap
}

// Similarity returns matches/total for the two texts, 0 when neither contains a keyword.
func (t *Table) Similarity(a, b string) float64 {
	o := t.Overlap(a, b)
	if o.Total == 0 {
		return 0
	}
	return float64(o.Matches) / float64(o.Total)
}

func (t *Table) hits(text string) map[int]struct{} {
	if t == nil || t.matcher == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	indexes := t.matcher.MatchThreadSafe([]byte(" " + Normalize(text) + " "))
	set := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < len(t.keywords) {
			set[idx] = struct{}{}
		}
	}
	return set
}

func sortedIndexes(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Normalize folds text into space separated word stems: diacritics and case are
// removed, every non letter/digit becomes a separator, and simple plurals lose
// their trailing "s" so "Payments" and "payment" compare equal.
func Normalize(text string) string {
	folded := similarity.Fold(text)
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = singular(w)
	}
	return strings.Join(words, " ")
}

func singular(word string) string {
	if utf8.RuneCountInString(word) <= 3 || !strings.HasSuffix(word, "s") {
		return word
	}
	for _, keep := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(word, keep) {
			return word
		}
	}
	return strings.TrimSuffix(word, "s")
}

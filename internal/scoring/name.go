package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/spigell/idea-screener/internal/similarity"
)

// NameMatch is the outcome of comparing a candidate title with an entry name.
type NameMatch struct {
	Matched bool
	// Strict is set for exact or near-exact names, including containment.
	Strict bool
	// Equal is set when both names reduce to the same letters and digits.
	Equal      bool
	Similarity float64
	// ConceptLimit is the concept score above which a matched name rejects.
	ConceptLimit float64
}

// Rejects reports whether the match together with the concept score trips the short-circuit.
func (m NameMatch) Rejects(concept float64) bool {
	return m.Matched && concept > m.ConceptLimit
}

// Score is the similarity reported when the short-circuit fires.
func (m NameMatch) Score(concept float64) float64 {
	if m.Equal {
		return 1
	}
	return clamp(max(m.Similarity, concept))
}

func (s *Scorer) MatchName(title, name string) NameMatch {
	lowerTitle := strings.ToLower(strings.TrimSpace(title))
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if lowerTitle == "" || lowerName == "" {
		return NameMatch{}
	}

	thresholds := s.policy.Name
	m := NameMatch{Similarity: similarity.Edit(lowerTitle, lowerName)}

	normTitle := similarity.Alnum(title)
	normName := similarity.Alnum(name)
	m.Equal = normTitle != "" && normTitle == normName
	contained := containsLong(normTitle, normName, thresholds.MinContained) ||
		containsLong(normName, normTitle, thresholds.MinContained)

	m.Matched = m.Similarity > thresholds.Similar || m.Equal || contained
	if !m.Matched {
		return m
	}

	m.Strict = m.Similarity > thresholds.Exact || m.Equal || contained
	if m.Strict {
		m.ConceptLimit = thresholds.StrictConcept
	} else {
		m.ConceptLimit = thresholds.LooseConcept
	}

	return m
}

// containsLong reports whether part, at least minLen runes long, occurs in whole.
func containsLong(whole, part string, minLen int) bool {
	return utf8.RuneCountInString(part) >= minLen && strings.Contains(whole, part)
}

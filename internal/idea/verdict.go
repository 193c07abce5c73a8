package idea

import (
	"fmt"
	"strings"
)

type Recommendation string

const (
	Approve              Recommendation = "APPROVE"
	Reject               Recommendation = "REJECT"
	NeedsDifferentiation Recommendation = "NEEDS_DIFFERENTIATION"
)

// ParseRecommendation accepts only the known enum values, spelled exactly.
// Surrounding whitespace is ignored; case is not.
func ParseRecommendation(s string) (Recommendation, error) {
	switch r := Recommendation(strings.TrimSpace(s)); r {
	case Approve, Reject, NeedsDifferentiation:
		return r, nil
	default:
		return "", fmt.Errorf("unknown recommendation %q", s)
	}
}

// Strategy names the engine that produced a verdict.
type Strategy string

const (
	StrategyAI            Strategy = "ai"
	StrategyDeterministic Strategy = "deterministic"
)

// SimilarityBreakdown holds per-channel similarities of one comparison.
type SimilarityBreakdown struct {
	ProblemSimilarity       float64 `json:"problemSimilarity"`
	SolutionSimilarity      float64 `json:"solutionSimilarity"`
	BusinessModelSimilarity float64 `json:"businessModelSimilarity"`
	IndustrySimilarity      float64 `json:"industrySimilarity"`
}

// Match points at the corpus entry closest to the candidate.
type Match struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// Verdict is the outcome of one analysis. It is never mutated after being returned.
type Verdict struct {
	IsSimilar        bool                 `json:"isSimilar"`
	SimilarityScore  float64              `json:"similarityScore"`
	Recommendation   Recommendation       `json:"recommendation"`
	MostSimilarEntry *Match               `json:"mostSimilarEntry"`
	Analysis         *SimilarityBreakdown `json:"analysis,omitempty"`
	Feedback         string               `json:"feedback"`
	Suggestions      []string             `json:"suggestions,omitempty"`
	Strategy         Strategy             `json:"strategy"`
}

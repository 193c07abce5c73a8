package scoring

import (
	"github.com/spigell/idea-screener/internal/idea"
	"github.com/spigell/idea-screener/internal/keywords"
	"github.com/spigell/idea-screener/internal/similarity"
)

// Scorer compares ideas using a Policy and two keyword tables.
// It holds no mutable state and may be shared between goroutines.
type Scorer struct {
	policy    Policy
	important *keywords.Table
	industry  *keywords.Table
}

// Concept is the business-concept similarity of a candidate and an entry.
type Concept struct {
	Score     float64
	Breakdown idea.SimilarityBreakdown
}

// NewScorer builds a scorer. Nil tables are replaced by the default vocabularies.
func NewScorer(policy Policy, important, industry *keywords.Table) *Scorer {
	if important == nil {
		important = keywords.DefaultImportant()
	}
	if industry == nil {
		industry = keywords.DefaultIndustry()
	}

	return &Scorer{
		policy:    policy,
		important: important,
		industry:  industry,
	}
}

func (s *Scorer) Policy() Policy {
	return s.policy
}

// Concept scores problem, industry, solution and business model overlap and
// combines them with the policy weights.
func (s *Scorer) Concept(candidate, entry *idea.Idea) Concept {
	if candidate == nil || entry == nil {
		return Concept{}
	}

	entryText := idea.Join(entry.OneLiner, entry.Description)

	var c Concept
	c.Breakdown.ProblemSimilarity = s.text(idea.Join(candidate.ProblemStatement, candidate.Description), entryText)
	c.Breakdown.IndustrySimilarity = s.industry.Similarity(candidate.ConceptText(), entry.ConceptText())
	if solution := candidate.SolutionText(); solution != "" {
		c.Breakdown.SolutionSimilarity = s.text(solution, entry.Description)
	}
	if candidate.BusinessModel != "" {
		c.Breakdown.BusinessModelSimilarity = s.text(candidate.BusinessModel, entry.Description)
	}

	w := s.policy.Weights
	c.Score = clamp(w.Problem*c.Breakdown.ProblemSimilarity +
		w.Industry*c.Breakdown.IndustrySimilarity +
		w.Solution*c.Breakdown.SolutionSimilarity +
		w.BusinessModel*c.Breakdown.BusinessModelSimilarity)

	return c
}

// Evidence lists the important and industry keywords both ideas mention.
func (s *Scorer) Evidence(candidate, entry *idea.Idea) []string {
	if candidate == nil || entry == nil {
		return nil
	}

	a, b := candidate.ConceptText(), entry.ConceptText()

	var shared []string
	seen := make(map[string]struct{})
	for _, table := range []*keywords.Table{s.important, s.industry} {
		for _, kw := range table.Overlap(a, b).Shared {
			key := keywords.Normalize(kw)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			shared = append(shared, kw)
		}
	}

	return shared
}

func (s *Scorer) text(a, b string) float64 {
	jaccard := similarity.Jaccard(a, b)

	overlap := s.important.Overlap(a, b)
	if overlap.Total == 0 {
		return jaccard
	}

	keyword := float64(overlap.Matches) / float64(overlap.Total)
	return clamp(s.policy.Blend.Jaccard*jaccard + s.policy.Blend.Keyword*keyword)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

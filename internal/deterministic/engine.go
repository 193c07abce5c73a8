// Package deterministic decides on a candidate idea without any external service.
package deterministic

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
	"github.com/spigell/idea-screener/internal/scoring"
)

// Engine produces verdicts from keyword and string similarity alone.
// Identical inputs always produce identical verdicts.
type Engine struct {
	scorer *scoring.Scorer
	logger *zap.Logger
}

// Ranked is a corpus entry together with its concept score against a candidate.
type Ranked struct {
	Entry   *idea.Idea
	Concept scoring.Concept
}

func New(scorer *scoring.Scorer, logger *zap.Logger) *Engine {
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.DefaultPolicy(), nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{scorer: scorer, logger: logger}
}

// Analyze compares the candidate with every corpus entry and returns a verdict.
// It never fails: an empty corpus yields an approval without a closest entry.
func (e *Engine) Analyze(candidate *idea.Idea, corpus idea.Corpus, opts idea.Options) *idea.Verdict {
	policy := e.scorer.Policy()

	var (
		best        *idea.Idea
		bestScore   = -1.0
		bestConcept scoring.Concept
	)

	for _, entry := range corpus {
		if entry == nil || candidate == nil {
			continue
		}

		concept := e.scorer.Concept(candidate, entry)

		nm := e.scorer.MatchName(candidate.Title, entry.Title)
		if nm.Rejects(concept.Score) {
			e.logger.Debug("name match short-circuit",
				zap.String("entry", entry.Label()),
				zap.Float64("name_similarity", nm.Similarity),
				zap.Float64("concept_score", concept.Score),
				zap.Bool("strict", nm.Strict),
			)
			return e.nameReject(candidate, entry, nm, concept, opts)
		}

		if concept.Score > bestScore {
			best, bestScore, bestConcept = entry, concept.Score, concept
		}
	}

	if best == nil {
		return &idea.Verdict{
			IsSimilar:       false,
			SimilarityScore: 0,
			Recommendation:  idea.Approve,
			Feedback:        "No existing ideas to compare against. The idea is considered unique.",
			Strategy:        idea.StrategyDeterministic,
		}
	}

	threshold := policy.Reject.External
	if opts.InternalCorpus {
		threshold = policy.Reject.Internal
	}

	recommendation := idea.Approve
	if bestScore > threshold {
		recommendation = idea.Reject
	}

	name := entryName(best)
	percent := bestScore * 100
	breakdown := bestConcept.Breakdown

	v := &idea.Verdict{
		IsSimilar:       recommendation == idea.Reject,
		SimilarityScore: bestScore,
		Recommendation:  recommendation,
		MostSimilarEntry: &idea.Match{
			Name:   name,
			Reason: e.reason(candidate, best, "closest business concept"),
		},
		Analysis: &breakdown,
		Strategy: idea.StrategyDeterministic,
	}

	if recommendation == idea.Reject {
		v.Feedback = fmt.Sprintf("The idea is %.0f%% similar to %s %q and needs clearer differentiation before it can be accepted.",
			percent, corpusNoun(opts), name)
		v.Suggestions = suggestions(name, false)
	} else {
		v.Feedback = fmt.Sprintf("The idea is sufficiently distinct. The closest %s is %q at %.0f%% similarity.",
			corpusNoun(opts), name, percent)
	}

	return v
}

// Rank orders the corpus by concept score against the candidate, highest first.
// Entries with equal scores keep their corpus order.
func (e *Engine) Rank(candidate *idea.Idea, corpus idea.Corpus) []Ranked {
	ranked := make([]Ranked, 0, len(corpus))
	for _, entry := range corpus {
		if entry == nil {
			continue
		}
		ranked = append(ranked, Ranked{Entry: entry, Concept: e.scorer.Concept(candidate, entry)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Concept.Score > ranked[j].Concept.Score
	})

	return ranked
}

// Top returns at most limit corpus entries in rank order. A non-positive limit keeps all of them.
func (e *Engine) Top(candidate *idea.Idea, corpus idea.Corpus, limit int) idea.Corpus {
	ranked := e.Rank(candidate, corpus)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make(idea.Corpus, 0, len(ranked))
	for _, r := range ranked {
		top = append(top, r.Entry)
	}
	return top
}

func (e *Engine) nameReject(candidate, entry *idea.Idea, nm scoring.NameMatch, concept scoring.Concept, opts idea.Options) *idea.Verdict {
	name := entryName(entry)
	score := nm.Score(concept.Score)
	breakdown := concept.Breakdown

	return &idea.Verdict{
		IsSimilar:       true,
		SimilarityScore: score,
		Recommendation:  idea.Reject,
		MostSimilarEntry: &idea.Match{
			Name:   name,
			Reason: e.reason(candidate, entry, "name matches an existing "+corpusNoun(opts)),
		},
		Analysis: &breakdown,
		Feedback: fmt.Sprintf("%q matches the name of existing %s %q and describes the same business (%.0f%% similar).",
			strings.TrimSpace(candidate.Title), corpusNoun(opts), name, score*100),
		Suggestions: suggestions(name, true),
		Strategy:    idea.StrategyDeterministic,
	}
}

func (e *Engine) reason(candidate, entry *idea.Idea, fallback string) string {
	evidence := e.scorer.Evidence(candidate, entry)
	if len(evidence) == 0 {
		return fallback
	}
	return fallback + "; shared focus: " + strings.Join(evidence, ", ")
}

func suggestions(name string, renamed bool) []string {
	out := make([]string, 0, 4)
	if renamed {
		out = append(out, "Choose a name that is clearly distinct from "+name+".")
	}
	return append(out,
		"Target a customer segment or geography that "+name+" does not serve.",
		"Differentiate the core technology or how the product is delivered.",
		"Explain what the idea does that "+name+" cannot.",
	)
}

func entryName(entry *idea.Idea) string {
	if title := strings.TrimSpace(entry.Title); title != "" {
		return title
	}
	return entry.Label()
}

func corpusNoun(opts idea.Options) string {
	if opts.InternalCorpus {
		return "application"
	}
	return "venture"
}

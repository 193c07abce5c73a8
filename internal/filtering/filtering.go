// Package filtering prepares a corpus before a candidate is compared against it.
package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
)

// Filter represents a single filtering step applied to the corpus.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(deps Deps, corpus idea.Corpus) (idea.Corpus, Step)
}

// Deps carries the request being screened.
type Deps struct {
	Logger    *zap.Logger
	Candidate *idea.Idea
	Options   idea.Options
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

// Default returns the standard pipeline: owner, self, inactive, blank.
func Default() []Filter {
	return []Filter{
		NewOwner(),
		NewSelf(),
		NewInactive(),
		NewBlank(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the remaining corpus.
// The input corpus is never modified.
func Run(deps Deps, steps []Filter, corpus idea.Corpus) idea.Corpus {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			log.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info := step.Apply(deps, corpus)
		log.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		corpus = next
	}

	return corpus
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		s := Status{Name: step.Name(), Enabled: step.IsEnabled()}
		if r, ok := step.(interface{ DisabledReason() string }); ok {
			s.Reason = r.DisabledReason()
		}
		statuses = append(statuses, s)
	}
	return statuses
}

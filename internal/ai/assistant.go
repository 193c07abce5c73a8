// Package ai asks a language model whether a candidate idea duplicates a corpus entry.
package ai

import (
	"context"

	"github.com/spigell/idea-screener/internal/idea"
)

// Generator sends one prompt to a model and returns its text answer.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
	// Ready returns a *ConfigError when the generator cannot be used.
	Ready() error
}

// Analyzer produces a verdict for a candidate against a corpus.
type Analyzer interface {
	Ready() error
	Analyze(ctx context.Context, candidate *idea.Idea, corpus idea.Corpus, opts idea.Options) (*idea.Verdict, error)
	// MaxCorpusEntries is the largest corpus slice the analyzer accepts, 0 when unbounded.
	MaxCorpusEntries() int
}

// Package scoring compares a candidate idea with a single corpus entry.
package scoring

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

var ErrInvalidPolicy = errors.New("invalid scoring policy")

// Weights set how much each business dimension contributes to the concept score.
type Weights struct {
	Problem       float64 `mapstructure:"problem" json:"problem"`
	Industry      float64 `mapstructure:"industry" json:"industry"`
	Solution      float64 `mapstructure:"solution" json:"solution"`
	BusinessModel float64 `mapstructure:"business-model" json:"businessModel"`
}

// Blend mixes plain word overlap with keyword overlap for a pair of text fields.
type Blend struct {
	Jaccard float64 `mapstructure:"jaccard" json:"jaccard"`
	Keyword float64 `mapstructure:"keyword" json:"keyword"`
}

// NameThresholds drive the name-match short-circuit.
type NameThresholds struct {
	Similar       float64 `mapstructure:"similar" json:"similar"`
	Exact         float64 `mapstructure:"exact" json:"exact"`
	StrictConcept float64 `mapstructure:"strict-concept" json:"strictConcept"`
	LooseConcept  float64 `mapstructure:"loose-concept" json:"looseConcept"`
	MinContained  int     `mapstructure:"min-contained" json:"minContained"`
}

// RejectThresholds are the composite scores above which a candidate is rejected.
type RejectThresholds struct {
	External float64 `mapstructure:"external" json:"external"`
	Internal float64 `mapstructure:"internal" json:"internal"`
}

type Policy struct {
	Weights Weights          `mapstructure:"weights" json:"weights"`
	Blend   Blend            `mapstructure:"blend" json:"blend"`
	Name    NameThresholds   `mapstructure:"name" json:"name"`
	Reject  RejectThresholds `mapstructure:"reject" json:"reject"`
}

func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Problem:       0.30,
			Industry:      0.30,
			Solution:      0.20,
			BusinessModel: 0.05,
		},
		Blend: Blend{
			Jaccard: 0.4,
			Keyword: 0.6,
		},
		Name: NameThresholds{
			Similar:       0.85,
			Exact:         0.95,
			StrictConcept: 0.10,
			LooseConcept:  0.30,
			MinContained:  4,
		},
		Reject: RejectThresholds{
			External: 0.40,
			Internal: 0.50,
		},
	}
}

// DecodePolicy overlays raw configuration values on top of the defaults and validates the result.
func DecodePolicy(raw map[string]any) (Policy, error) {
	policy := DefaultPolicy()
	if len(raw) == 0 {
		return policy, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &policy,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Policy{}, fmt.Errorf("failed to create policy decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}

	return policy, nil
}

// Validate checks that every weight and threshold is a probability and that
// each group of weights sums to at most one.
func (p Policy) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"weights.problem", p.Weights.Problem},
		{"weights.industry", p.Weights.Industry},
		{"weights.solution", p.Weights.Solution},
		{"weights.business-model", p.Weights.BusinessModel},
		{"blend.jaccard", p.Blend.Jaccard},
		{"blend.keyword", p.Blend.Keyword},
		{"name.similar", p.Name.Similar},
		{"name.exact", p.Name.Exact},
		{"name.strict-concept", p.Name.StrictConcept},
		{"name.loose-concept", p.Name.LooseConcept},
		{"reject.external", p.Reject.External},
		{"reject.internal", p.Reject.Internal},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidPolicy, f.name, f.value)
		}
	}

	const epsilon = 1e-9
	if sum := p.Weights.Problem + p.Weights.Industry + p.Weights.Solution + p.Weights.BusinessModel; sum > 1+epsilon {
		return fmt.Errorf("%w: weights sum to %v, must not exceed 1", ErrInvalidPolicy, sum)
	}
	if sum := p.Blend.Jaccard + p.Blend.Keyword; sum > 1+epsilon {
		return fmt.Errorf("%w: blend sums to %v, must not exceed 1", ErrInvalidPolicy, sum)
	}
	if p.Name.Exact < p.Name.Similar {
		return fmt.Errorf("%w: name.exact (%v) is below name.similar (%v)", ErrInvalidPolicy, p.Name.Exact, p.Name.Similar)
	}
	if p.Name.MinContained < 1 {
		return fmt.Errorf("%w: name.min-contained must be positive, got %d", ErrInvalidPolicy, p.Name.MinContained)
	}

	return nil
}

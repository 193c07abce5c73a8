package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/idea-screener/internal/idea"
)

var errNoJSONObject = errors.New("no JSON object found in response")

type responseMatch struct {
	Name   *string `json:"name"`
	Reason string  `json:"reason"`
}

type responseAnalysis struct {
	ProblemSimilarity       *float64 `json:"problemSimilarity"`
	SolutionSimilarity      *float64 `json:"solutionSimilarity"`
	BusinessModelSimilarity *float64 `json:"businessModelSimilarity"`
	IndustrySimilarity      *float64 `json:"industrySimilarity"`
}

// response mirrors the schema requested in prompt.md. Pointer fields tell a
// missing value from a zero value.
type response struct {
	IsSimilar          *bool             `json:"isSimilar"`
	SimilarityScore    *float64          `json:"similarityScore"`
	Recommendation     *string           `json:"recommendation"`
	MostSimilarCompany *responseMatch    `json:"mostSimilarCompany"`
	Analysis           *responseAnalysis `json:"analysis"`
	Feedback           *string           `json:"feedback"`
	Suggestions        []string          `json:"suggestions"`
}

// ExtractJSON returns the first well-formed JSON object embedded in text,
// skipping surrounding prose and markdown code fences.
func ExtractJSON(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '{')
		if idx < 0 {
			return "", false
		}
		start := offset + idx

		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		if err := dec.Decode(&raw); err == nil {
			return string(raw), true
		}

		offset = start + 1
	}
	return "", false
}

// ParseVerdict extracts and validates a model answer. Every failure is a *BackendError.
func ParseVerdict(raw string) (*idea.Verdict, error) {
	object, ok := ExtractJSON(raw)
	if !ok {
		return nil, &BackendError{Stage: StageExtract, Err: errNoJSONObject}
	}

	var resp response
	if err := json.Unmarshal([]byte(object), &resp); err != nil {
		return nil, &BackendError{Stage: StageValidate, Err: fmt.Errorf("decode response: %w", err)}
	}

	v, err := resp.verdict()
	if err != nil {
		return nil, &BackendError{Stage: StageValidate, Err: err}
	}
	return v, nil
}

func (r *response) verdict() (*idea.Verdict, error) {
	if r.IsSimilar == nil {
		return nil, errors.New("isSimilar is required")
	}
	if r.SimilarityScore == nil {
		return nil, errors.New("similarityScore is required")
	}
	if err := checkUnit("similarityScore", *r.SimilarityScore); err != nil {
		return nil, err
	}
	if r.Recommendation == nil {
		return nil, errors.New("recommendation is required")
	}
	recommendation, err := idea.ParseRecommendation(*r.Recommendation)
	if err != nil {
		return nil, err
	}
	if *r.IsSimilar && recommendation != idea.Reject {
		return nil, fmt.Errorf("isSimilar is true but recommendation is %s", recommendation)
	}
	if r.Feedback == nil {
		return nil, errors.New("feedback is required")
	}

	v := &idea.Verdict{
		IsSimilar:       *r.IsSimilar,
		SimilarityScore: *r.SimilarityScore,
		Recommendation:  recommendation,
		Feedback:        strings.TrimSpace(*r.Feedback),
		Strategy:        idea.StrategyAI,
	}

	if m := r.MostSimilarCompany; m != nil {
		if m.Name == nil || strings.TrimSpace(*m.Name) == "" {
			return nil, errors.New("mostSimilarCompany.name must not be empty")
		}
		v.MostSimilarEntry = &idea.Match{
			Name:   strings.TrimSpace(*m.Name),
			Reason: strings.TrimSpace(m.Reason),
		}
	}

	if a := r.Analysis; a != nil {
		breakdown, err := a.breakdown()
		if err != nil {
			return nil, err
		}
		v.Analysis = breakdown
	}

	for _, s := range r.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			v.Suggestions = append(v.Suggestions, s)
		}
	}

	return v, nil
}

func (a *responseAnalysis) breakdown() (*idea.SimilarityBreakdown, error) {
	out := &idea.SimilarityBreakdown{}
	fields := []struct {
		name  string
		value *float64
		dest  *float64
	}{
		{"analysis.problemSimilarity", a.ProblemSimilarity, &out.ProblemSimilarity},
		{"analysis.solutionSimilarity", a.SolutionSimilarity, &out.SolutionSimilarity},
		{"analysis.businessModelSimilarity", a.BusinessModelSimilarity, &out.BusinessModelSimilarity},
		{"analysis.industrySimilarity", a.IndustrySimilarity, &out.IndustrySimilarity},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := checkUnit(f.name, *f.value); err != nil {
			return nil, err
		}
		*f.dest = *f.value
	}
	return out, nil
}

func checkUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s must be within [0,1], got %v", name, v)
	}
	return nil
}

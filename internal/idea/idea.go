package idea

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is matched by every validation failure of a candidate idea.
var ErrInvalidInput = errors.New("invalid input")

// Idea describes a venture or project. Candidates and corpus entries share the shape.
type Idea struct {
	ID               string   `json:"id,omitempty" yaml:"id,omitempty"`
	OwnerID          string   `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	Title            string   `json:"title" yaml:"title"`
	OneLiner         string   `json:"oneLiner,omitempty" yaml:"oneLiner,omitempty"`
	Description      string   `json:"description" yaml:"description"`
	ProblemStatement string   `json:"problemStatement,omitempty" yaml:"problemStatement,omitempty"`
	Solution         string   `json:"solution,omitempty" yaml:"solution,omitempty"`
	ProposedSolution string   `json:"proposedSolution,omitempty" yaml:"proposedSolution,omitempty"`
	TargetMarket     string   `json:"targetMarket,omitempty" yaml:"targetMarket,omitempty"`
	BusinessModel    string   `json:"businessModel,omitempty" yaml:"businessModel,omitempty"`
	Industry         string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	TechStack        []string `json:"techStack,omitempty" yaml:"techStack,omitempty"`
	Tags             []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Inactive         bool     `json:"inactive,omitempty" yaml:"inactive,omitempty"`
}

// Options tune a single analysis request.
type Options struct {
	// ExcludeOwnerID drops corpus entries submitted by the same owner.
	ExcludeOwnerID string
	// InternalCorpus marks the corpus as other stored applications rather than reference ventures.
	InternalCorpus bool
}

// ValidationError reports a missing required field of a candidate idea.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid idea: %s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks the fields every candidate must carry.
func (i *Idea) Validate() error {
	if i == nil {
		return &ValidationError{Field: "idea"}
	}
	if strings.TrimSpace(i.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(i.Description) == "" {
		return &ValidationError{Field: "description"}
	}
	return nil
}

// SolutionText returns the solution, accepting both field spellings.
func (i *Idea) SolutionText() string {
	if i == nil {
		return ""
	}
	if s := strings.TrimSpace(i.Solution); s != "" {
		return s
	}
	return strings.TrimSpace(i.ProposedSolution)
}

// FullText joins every free-text field of the idea, including tags and tech stack.
func (i *Idea) FullText() string {
	if i == nil {
		return ""
	}
	return joinNonEmpty(i.Title, i.ConceptText())
}

// ConceptText is FullText without the title. Names are compared separately, so a
// shared word in two titles must not count as a shared business concept.
func (i *Idea) ConceptText() string {
	if i == nil {
		return ""
	}

	parts := []string{
		i.OneLiner,
		i.Description,
		i.ProblemStatement,
		i.SolutionText(),
		i.TargetMarket,
		i.BusinessModel,
		i.Industry,
	}
	parts = append(parts, i.Tags...)
	parts = append(parts, i.TechStack...)

	return joinNonEmpty(parts...)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Join concatenates text fields with single spaces, skipping empty ones.
func Join(parts ...string) string {
	return joinNonEmpty(parts...)
}

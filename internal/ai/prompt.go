package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/spigell/idea-screener/internal/idea"
)

//go:embed prompt.md
var promptTemplate string

type promptIdea struct {
	Name             string   `json:"name"`
	OneLiner         string   `json:"oneLiner,omitempty"`
	Description      string   `json:"description,omitempty"`
	ProblemStatement string   `json:"problemStatement,omitempty"`
	Solution         string   `json:"solution,omitempty"`
	TargetMarket     string   `json:"targetMarket,omitempty"`
	BusinessModel    string   `json:"businessModel,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

func toPromptIdea(i *idea.Idea) promptIdea {
	return promptIdea{
		Name:             strings.TrimSpace(i.Title),
		OneLiner:         strings.TrimSpace(i.OneLiner),
		Description:      strings.TrimSpace(i.Description),
		ProblemStatement: strings.TrimSpace(i.ProblemStatement),
		Solution:         i.SolutionText(),
		TargetMarket:     strings.TrimSpace(i.TargetMarket),
		BusinessModel:    strings.TrimSpace(i.BusinessModel),
		Industry:         strings.TrimSpace(i.Industry),
		Tags:             i.Tags,
	}
}

// BuildPrompt renders the judge prompt for a candidate and corpus slice.
func BuildPrompt(candidate *idea.Idea, corpus idea.Corpus, opts idea.Options) (string, error) {
	if candidate == nil {
		return "", fmt.Errorf("candidate is required")
	}

	candidateJSON, err := json.MarshalIndent(toPromptIdea(candidate), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}

	entries := make([]promptIdea, 0, len(corpus))
	for _, entry := range corpus {
		if entry == nil {
			continue
		}
		entries = append(entries, toPromptIdea(entry))
	}

	corpusJSON, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal corpus payload: %w", err)
	}

	kind := "Existing ventures"
	if opts.InternalCorpus {
		kind = "Other submitted applications"
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate idea:\n{{CANDIDATE_JSON}}\n\n{{CORPUS_KIND}}:\n{{CORPUS_JSON}}\n\nJSON Response:"
	}

	replacer := strings.NewReplacer(
		"{{CANDIDATE_JSON}}", string(candidateJSON),
		"{{CORPUS_JSON}}", string(corpusJSON),
		"{{CORPUS_KIND}}", kind,
		"{{ENTRY_COUNT}}", strconv.Itoa(len(entries)),
	)

	return replacer.Replace(template), nil
}

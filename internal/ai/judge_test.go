package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
)

type stubGenerator struct {
	mu         sync.Mutex
	response   string
	err        error
	readyErr   error
	block      bool
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.lastPrompt = prompt
	block := s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string { return "stub-model" }

func (s *stubGenerator) Ready() error { return s.readyErr }

const validResponse = `{
  "isSimilar": true,
  "similarityScore": 0.92,
  "recommendation": "REJECT",
  "mostSimilarCompany": {"name": "CircuitHub", "reason": "same product"},
  "analysis": {"problemSimilarity": 0.9, "solutionSimilarity": 0.8, "businessModelSimilarity": 0.7, "industrySimilarity": 1},
  "feedback": "Too close to CircuitHub.",
  "suggestions": ["Pick a niche", " "]
}`

var (
	testCandidate = &idea.Idea{Title: "CircuitHub", Description: "Rapid manufacturing platform for electronics hardware"}
	testCorpus    = idea.Corpus{
		{Title: "CircuitHub", OneLiner: "Rapid manufacturing platform for electronics hardware"},
		{Title: "FraudShield", OneLiner: "Fraud detection for online payments"},
	}
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "code fence", input: "```json\n{\"a\": {\"b\": 2}}\n```", want: `{"a": {"b": 2}}`, wantOK: true},
		{name: "prose around", input: `Sure! Here it is: {"a":"}"} Hope it helps {"b":2}`, want: `{"a":"}"}`, wantOK: true},
		{name: "malformed first", input: `{oops} then {"ok":true}`, want: `{"ok":true}`, wantOK: true},
		{name: "none", input: "I cannot answer that", wantOK: false},
		{name: "unterminated", input: `{"a": 1`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractJSON(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (%q)", tt.wantOK, ok, got)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseVerdict(t *testing.T) {
	v, err := ParseVerdict("```json\n" + validResponse + "\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !v.IsSimilar || v.SimilarityScore != 0.92 || v.Recommendation != idea.Reject {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.MostSimilarEntry == nil || v.MostSimilarEntry.Name != "CircuitHub" || v.MostSimilarEntry.Reason != "same product" {
		t.Fatalf("unexpected most similar entry: %+v", v.MostSimilarEntry)
	}
	if v.Analysis == nil || v.Analysis.IndustrySimilarity != 1 || v.Analysis.BusinessModelSimilarity != 0.7 {
		t.Fatalf("unexpected analysis: %+v", v.Analysis)
	}
	if len(v.Suggestions) != 1 || v.Suggestions[0] != "Pick a niche" {
		t.Fatalf("unexpected suggestions: %v", v.Suggestions)
	}
	if v.Strategy != idea.StrategyAI {
		t.Fatalf("expected ai strategy, got %q", v.Strategy)
	}
}

func TestParseVerdictOptionalFields(t *testing.T) {
	v, err := ParseVerdict(`{"isSimilar": false, "similarityScore": 0, "recommendation": " APPROVE ", "feedback": ""}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Recommendation != idea.Approve || v.MostSimilarEntry != nil || v.Analysis != nil {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestParseVerdictRejectsInvalidResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		stage Stage
	}{
		{name: "no json", input: "The idea looks fine.", stage: StageExtract},
		{name: "missing isSimilar", input: `{"similarityScore": 0.2, "recommendation": "APPROVE", "feedback": "ok"}`, stage: StageValidate},
		{name: "mistyped isSimilar", input: `{"isSimilar": "true", "similarityScore": 0.2, "recommendation": "APPROVE", "feedback": "ok"}`, stage: StageValidate},
		{name: "mistyped score", input: `{"isSimilar": false, "similarityScore": "0.2", "recommendation": "APPROVE", "feedback": "ok"}`, stage: StageValidate},
		{name: "score above one", input: `{"isSimilar": false, "similarityScore": 1.5, "recommendation": "APPROVE", "feedback": "ok"}`, stage: StageValidate},
		{name: "lower-case recommendation", input: `{"isSimilar": false, "similarityScore": 0.2, "recommendation": "approve", "feedback": "ok"}`, stage: StageValidate},
		{name: "similar but approved", input: `{"isSimilar": true, "similarityScore": 0.9, "recommendation": "APPROVE", "feedback": "ok"}`, stage: StageValidate},
		{name: "similar but needs differentiation", input: `{"isSimilar": true, "similarityScore": 0.7, "recommendation": "NEEDS_DIFFERENTIATION", "feedback": "ok"}`, stage: StageValidate},
		{name: "unknown recommendation", input: `{"isSimilar": false, "similarityScore": 0.2, "recommendation": "MAYBE", "feedback": "ok"}`, stage: StageValidate},
		{name: "missing feedback", input: `{"isSimilar": false, "similarityScore": 0.2, "recommendation": "APPROVE"}`, stage: StageValidate},
		{name: "empty company name", input: `{"isSimilar": false, "similarityScore": 0.2, "recommendation": "APPROVE", "feedback": "ok", "mostSimilarCompany": {"name": " "}}`, stage: StageValidate},
		{name: "analysis out of range", input: `{"isSimilar": false, "similarityScore": 0.2, "recommendation": "APPROVE", "feedback": "ok", "analysis": {"problemSimilarity": -0.1}}`, stage: StageValidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := ParseVerdict(tt.input)
			if err == nil {
				t.Fatalf("expected error, got verdict %+v", v)
			}
			if !errors.Is(err, ErrBackend) {
				t.Fatalf("expected ErrBackend, got %v", err)
			}
			if got := StageOf(err); got != tt.stage {
				t.Fatalf("expected stage %q, got %q (%v)", tt.stage, got, err)
			}
		})
	}
}

func TestJudgeAnalyze(t *testing.T) {
	stub := &stubGenerator{response: "Here is my answer:\n" + validResponse}
	judge := NewJudge(stub, JudgeConfig{Provider: "stub"}, zap.NewNop())

	v, err := judge.Analyze(context.Background(), testCandidate, testCorpus, idea.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Recommendation != idea.Reject || v.Strategy != idea.StrategyAI {
		t.Fatalf("unexpected verdict: %+v", v)
	}

	for _, want := range []string{`"name": "CircuitHub"`, `"name": "FraudShield"`, "Existing ventures", "(2 entries)"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q: %s", want, stub.lastPrompt)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("prompt has unresolved placeholders: %s", stub.lastPrompt)
	}
}

func TestJudgeBoundsCorpusAndLabelsInternalCorpus(t *testing.T) {
	stub := &stubGenerator{response: validResponse}
	judge := NewJudge(stub, JudgeConfig{MaxCorpusEntries: 1}, nil)

	if judge.MaxCorpusEntries() != 1 {
		t.Fatalf("expected max corpus entries 1, got %d", judge.MaxCorpusEntries())
	}

	if _, err := judge.Analyze(context.Background(), testCandidate, testCorpus, idea.Options{InternalCorpus: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(stub.lastPrompt, "FraudShield") {
		t.Fatalf("expected corpus to be truncated to one entry")
	}
	if !strings.Contains(stub.lastPrompt, "Other submitted applications") {
		t.Fatalf("expected internal corpus label in prompt")
	}
}

func TestJudgeGeneratorFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exhausted")}
	judge := NewJudge(stub, JudgeConfig{}, zap.NewNop())

	_, err := judge.Analyze(context.Background(), testCandidate, testCorpus, idea.Options{})
	if !errors.Is(err, ErrBackend) || StageOf(err) != StageGenerate {
		t.Fatalf("expected generate stage backend error, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected cause in error message, got %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected a single call without retries, got %d", stub.calls)
	}
}

func TestJudgeTimeout(t *testing.T) {
	stub := &stubGenerator{block: true}
	judge := NewJudge(stub, JudgeConfig{Timeout: 20 * time.Millisecond}, zap.NewNop())

	start := time.Now()
	_, err := judge.Analyze(context.Background(), testCandidate, testCorpus, idea.Options{})
	if !errors.Is(err, ErrBackend) || StageOf(err) != StageTimeout {
		t.Fatalf("expected timeout stage backend error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("judge ignored its deadline: %s", elapsed)
	}
}

func TestJudgeNotConfigured(t *testing.T) {
	var missing *Judge
	if err := missing.Ready(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	judge := NewJudge(nil, JudgeConfig{}, nil)
	if _, err := judge.Analyze(context.Background(), testCandidate, testCorpus, idea.Options{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	stub := &stubGenerator{readyErr: &ConfigError{Reason: "api key is a placeholder"}}
	judge = NewJudge(stub, JudgeConfig{}, nil)
	if _, err := judge.Analyze(context.Background(), testCandidate, testCorpus, idea.Options{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no generator calls, got %d", stub.calls)
	}
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("boom")
	err := error(&BackendError{Stage: StageGenerate, Err: cause})

	if !errors.Is(err, ErrBackend) || !errors.Is(err, cause) {
		t.Fatalf("expected backend error to match ErrBackend and its cause")
	}
	if errors.Is(err, ErrNotConfigured) {
		t.Fatalf("backend error must not match ErrNotConfigured")
	}
	if StageOf(cause) != "" {
		t.Fatalf("expected empty stage for foreign error")
	}

	cfgErr := error(&ConfigError{Reason: "missing key"})
	if !errors.Is(cfgErr, ErrNotConfigured) || errors.Is(cfgErr, ErrBackend) {
		t.Fatalf("unexpected config error matching")
	}
}

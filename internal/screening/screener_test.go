package screening

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/idea-screener/internal/ai"
	"github.com/spigell/idea-screener/internal/deterministic"
	"github.com/spigell/idea-screener/internal/idea"
	"github.com/spigell/idea-screener/internal/logger"
	"github.com/spigell/idea-screener/internal/metrics"
)

type stubAnalyzer struct {
	mu       sync.Mutex
	readyErr error
	verdict  *idea.Verdict
	err      error
	limit    int
	calls    int
	corpus   idea.Corpus
}

func (s *stubAnalyzer) Ready() error { return s.readyErr }

func (s *stubAnalyzer) MaxCorpusEntries() int { return s.limit }

func (s *stubAnalyzer) Analyze(_ context.Context, _ *idea.Idea, corpus idea.Corpus, _ idea.Options) (*idea.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.corpus = corpus
	return s.verdict, s.err
}

func referenceCorpus() idea.Corpus {
	return idea.Corpus{
		{
			ID:          "yc-1",
			Title:       "CircuitHub",
			OneLiner:    "Rapid manufacturing platform for electronics hardware",
			Description: "CircuitHub makes it easy for hardware companies to manufacture electronics on demand.",
			Industry:    "Industrials",
		},
		{
			ID:          "yc-2",
			Title:       "FraudShield",
			OneLiner:    "Fraud detection for online payments",
			Description: "Machine learning that blocks fraudulent card payments for online merchants",
			Industry:    "Fintech",
		},
		{
			ID:          "yc-3",
			Title:       "Stockly",
			OneLiner:    "Inventory management software for small businesses",
			Description: "Track inventory levels, orders and suppliers in one place with simple inventory management software.",
		},
	}
}

func plantCandidate() *idea.Idea {
	return &idea.Idea{
		ID:               "c-1",
		Title:            "PlantPulse",
		Description:      "Plant health monitoring for farmers using computer vision",
		ProblemStatement: "Farmers lose crops to disease they notice too late",
		Solution:         "Drone imagery and computer vision flag sick plants early",
		BusinessModel:    "Per-acre subscription",
		Industry:         "Agriculture",
	}
}

func aiVerdict() *idea.Verdict {
	return &idea.Verdict{
		SimilarityScore:  0.1,
		Recommendation:   idea.Approve,
		MostSimilarEntry: &idea.Match{Name: "Stockly", Reason: "different vertical"},
		Feedback:         "Distinct idea.",
		Strategy:         idea.StrategyAI,
	}
}

func TestAnalyzeWithoutAnalyzerMatchesDeterministicEngine(t *testing.T) {
	candidate := plantCandidate()
	corpus := referenceCorpus()

	want := deterministic.New(nil, nil).Analyze(candidate, corpus, idea.Options{})

	for name, analyzer := range map[string]ai.Analyzer{
		"nil analyzer":      nil,
		"missing key":       &stubAnalyzer{readyErr: &ai.ConfigError{Reason: "api key is empty"}},
		"nil judge":         (*ai.Judge)(nil),
		"judge no provider": ai.NewJudge(nil, ai.JudgeConfig{}, nil),
	} {
		t.Run(name, func(t *testing.T) {
			s := New(WithAnalyzer(analyzer))

			got, err := s.Analyze(context.Background(), candidate, corpus, idea.Options{})
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, idea.StrategyDeterministic, got.Strategy)
		})
	}
}

func TestAnalyzeUsesAnalyzerVerdict(t *testing.T) {
	stub := &stubAnalyzer{verdict: aiVerdict(), limit: 2}
	m := metrics.NewManager()
	s := New(WithAnalyzer(stub), WithMetrics(m))

	candidate := &idea.Idea{
		Title:            "StockSense",
		Description:      "AI inventory management for e-commerce stores",
		ProblemStatement: "Online sellers run out of stock because demand is hard to forecast",
		Solution:         "Computer vision and machine learning forecast demand and count shelf stock automatically",
		BusinessModel:    "Monthly subscription per store",
		Industry:         "E-commerce",
	}

	got, err := s.Analyze(context.Background(), candidate, referenceCorpus(), idea.Options{})
	require.NoError(t, err)
	assert.Equal(t, idea.StrategyAI, got.Strategy)
	assert.Equal(t, "Stockly", got.MostSimilarEntry.Name)

	require.Equal(t, 1, stub.calls)
	require.Len(t, stub.corpus, 2)
	assert.Equal(t, "Stockly", stub.corpus[0].Title)

	count, err := testutil.GatherAndCount(m.Registry(), "idea_screener_verdicts_total", "idea_screener_fallbacks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalyzeFallsBackOnBackendError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{name: "timeout", err: &ai.BackendError{Stage: ai.StageTimeout, Err: context.DeadlineExceeded}, reason: "timeout"},
		{name: "validate", err: &ai.BackendError{Stage: ai.StageValidate, Err: errors.New("bad score")}, reason: "validate"},
		{name: "foreign error", err: errors.New("boom"), reason: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			stub := &stubAnalyzer{err: tt.err}
			s := New(WithAnalyzer(stub), WithLogger(zap.New(core)))

			candidate := plantCandidate()
			got, err := s.Analyze(context.Background(), candidate, referenceCorpus(), idea.Options{})
			require.NoError(t, err)
			assert.Equal(t, idea.StrategyDeterministic, got.Strategy)
			assert.Equal(t, idea.Approve, got.Recommendation)
			assert.Equal(t, 1, stub.calls)

			warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.reason, warnings[0].ContextMap()[logger.FieldStage])
			assert.Equal(t, "PlantPulse", warnings[0].ContextMap()[logger.FieldCandidateTitle])
		})
	}
}

func TestAnalyzeFallsBackOnEmptyVerdict(t *testing.T) {
	s := New(WithAnalyzer(&stubAnalyzer{}))

	got, err := s.Analyze(context.Background(), plantCandidate(), referenceCorpus(), idea.Options{})
	require.NoError(t, err)
	assert.Equal(t, idea.StrategyDeterministic, got.Strategy)
}

func TestAnalyzeRejectsInvalidCandidate(t *testing.T) {
	stub := &stubAnalyzer{verdict: aiVerdict()}
	s := New(WithAnalyzer(stub))

	for _, candidate := range []*idea.Idea{nil, {Title: "NoDescription"}, {Description: "No title"}} {
		_, err := s.Analyze(context.Background(), candidate, referenceCorpus(), idea.Options{})
		assert.ErrorIs(t, err, idea.ErrInvalidInput)
	}
	assert.Equal(t, 0, stub.calls)
}

func TestAnalyzeEmptyCorpusSkipsAnalyzer(t *testing.T) {
	stub := &stubAnalyzer{verdict: aiVerdict()}
	s := New(WithAnalyzer(stub))

	got, err := s.Analyze(context.Background(), plantCandidate(), nil, idea.Options{})
	require.NoError(t, err)
	assert.Equal(t, idea.Approve, got.Recommendation)
	assert.Nil(t, got.MostSimilarEntry)
	assert.Equal(t, 0, stub.calls)
}

func TestAnalyzeFiltersCorpus(t *testing.T) {
	corpus := idea.Corpus{
		{ID: "a-1", OwnerID: "owner-1", Title: "PlantPulse", Description: "Crop sensors for plant health"},
		{ID: "c-1", Title: "PlantPulse", Description: "Crop sensors for plant health"},
		{ID: "a-2", Title: "PlantPulse", Description: "Crop sensors for plant health", Inactive: true},
	}
	s := New()

	got, err := s.Analyze(context.Background(), plantCandidate(), corpus, idea.Options{ExcludeOwnerID: "owner-1", InternalCorpus: true})
	require.NoError(t, err)
	assert.Equal(t, idea.Approve, got.Recommendation)
	assert.Nil(t, got.MostSimilarEntry)
}

func TestAnalyzeConcurrent(t *testing.T) {
	s := New()
	candidate := plantCandidate()
	corpus := referenceCorpus()
	want, err := s.Analyze(context.Background(), candidate, corpus, idea.Options{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Analyze(context.Background(), candidate, corpus, idea.Options{})
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestMode(t *testing.T) {
	mode, err := New().Mode()
	assert.Equal(t, ModeDeterministicOnly, mode)
	assert.ErrorIs(t, err, ai.ErrNotConfigured)

	mode, err = New(WithAnalyzer(&stubAnalyzer{readyErr: &ai.ConfigError{Reason: "api key is a placeholder"}})).Mode()
	assert.Equal(t, ModeDeterministicOnly, mode)
	assert.ErrorIs(t, err, ai.ErrNotConfigured)

	mode, err = New(WithAnalyzer(&stubAnalyzer{})).Mode()
	assert.Equal(t, ModeAIPreferred, mode)
	assert.NoError(t, err)
}

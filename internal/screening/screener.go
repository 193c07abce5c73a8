// Package screening picks the strategy that answers a screening request.
package screening

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/ai"
	"github.com/spigell/idea-screener/internal/deterministic"
	"github.com/spigell/idea-screener/internal/filtering"
	"github.com/spigell/idea-screener/internal/idea"
	"github.com/spigell/idea-screener/internal/logger"
	"github.com/spigell/idea-screener/internal/metrics"
)

const (
	fallbackNotConfigured = "not_configured"
	fallbackUnknown       = "error"
)

var errEmptyVerdict = errors.New("analyzer returned no verdict")

// Mode is the strategy a request starts with. It is decided on every call.
type Mode string

const (
	ModeAIPreferred       Mode = "ai_preferred"
	ModeDeterministicOnly Mode = "deterministic_only"
)

// Screener answers with the AI analyzer when it is usable and with the
// deterministic engine otherwise. The choice is made on every call.
type Screener struct {
	analyzer ai.Analyzer
	engine   *deterministic.Engine
	filters  []filtering.Filter
	metrics  *metrics.Manager
	logger   *zap.Logger
}

type Option func(*Screener)

// WithAnalyzer sets the AI analyzer. Without one every request is answered deterministically.
func WithAnalyzer(analyzer ai.Analyzer) Option {
	return func(s *Screener) {
		s.analyzer = analyzer
	}
}

func WithEngine(engine *deterministic.Engine) Option {
	return func(s *Screener) {
		s.engine = engine
	}
}

// WithFilters replaces the default corpus filtering pipeline.
func WithFilters(filters []filtering.Filter) Option {
	return func(s *Screener) {
		s.filters = filters
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Screener) {
		s.metrics = m
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Screener) {
		s.logger = log
	}
}

func New(opts ...Option) *Screener {
	s := &Screener{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.engine == nil {
		s.engine = deterministic.New(nil, s.logger)
	}
	if s.filters == nil {
		s.filters = filtering.Default()
	}

	return s
}

// Analyze screens the candidate against the corpus. The only error it returns
// matches idea.ErrInvalidInput; AI failures are logged and answered deterministically.
func (s *Screener) Analyze(ctx context.Context, candidate *idea.Idea, corpus idea.Corpus, opts idea.Options) (*idea.Verdict, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	log := logger.WithFields(s.logger, logger.Candidate(candidate.ID, candidate.Title)...)

	prepared := filtering.Run(filtering.Deps{
		Logger:    log,
		Candidate: candidate,
		Options:   opts,
	}, s.filters, corpus)

	if prepared.Len() == 0 {
		log.Debug("empty corpus, using deterministic engine")
		return s.deterministic(log, candidate, prepared, opts), nil
	}

	if mode, err := s.Mode(); mode == ModeDeterministicOnly {
		log.Info("ai analyzer is not available, using deterministic engine", zap.Error(err))
		s.metrics.RecordFallback(fallbackNotConfigured)
		return s.deterministic(log, candidate, prepared, opts), nil
	}

	slice := s.engine.Top(candidate, prepared, s.analyzer.MaxCorpusEntries())

	start := time.Now()
	verdict, err := s.analyzer.Analyze(ctx, candidate, slice, opts)
	s.metrics.ObserveAIRequest(time.Since(start))

	if err == nil && verdict == nil {
		err = errEmptyVerdict
	}
	if err != nil {
		reason := fallbackReason(err)
		log.Warn("ai analyzer failed, falling back to deterministic engine",
			zap.String(logger.FieldStage, reason),
			zap.Error(err),
		)
		s.metrics.RecordFallback(reason)
		return s.deterministic(log, candidate, prepared, opts), nil
	}

	return s.finish(log, verdict), nil
}

// Mode reports ModeAIPreferred when an analyzer is set and ready. Otherwise the
// returned error says why requests go to the deterministic engine.
func (s *Screener) Mode() (Mode, error) {
	if s.analyzer == nil {
		return ModeDeterministicOnly, &ai.ConfigError{Reason: "no ai analyzer configured"}
	}
	if err := s.analyzer.Ready(); err != nil {
		return ModeDeterministicOnly, err
	}
	return ModeAIPreferred, nil
}

func (s *Screener) deterministic(log *zap.Logger, candidate *idea.Idea, corpus idea.Corpus, opts idea.Options) *idea.Verdict {
	return s.finish(log, s.engine.Analyze(candidate, corpus, opts))
}

func (s *Screener) finish(log *zap.Logger, v *idea.Verdict) *idea.Verdict {
	s.metrics.RecordVerdict(string(v.Strategy), string(v.Recommendation), v.SimilarityScore)

	log.Info("verdict", logger.Verdict(v)...)

	return v
}

func fallbackReason(err error) string {
	if errors.Is(err, ai.ErrNotConfigured) {
		return fallbackNotConfigured
	}
	if stage := ai.StageOf(err); stage != "" {
		return string(stage)
	}
	return fallbackUnknown
}

package ai

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
	"github.com/spigell/idea-screener/internal/logger"
	"github.com/spigell/idea-screener/internal/utils"
)

const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxCorpusEntries = 50
)

type JudgeConfig struct {
	// Provider is only used to label log entries.
	Provider         string
	Timeout          time.Duration
	MaxCorpusEntries int
	MaxLogLength     int
}

// Judge asks a Generator for a verdict and accepts only answers that pass
// schema validation. It never invents a verdict on failure.
type Judge struct {
	generator Generator
	timeout   time.Duration
	maxCorpus int
	maxLogLen int
	logger    *zap.Logger
}

func NewJudge(generator Generator, cfg JudgeConfig, log *zap.Logger) *Judge {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxCorpusEntries <= 0 {
		cfg.MaxCorpusEntries = DefaultMaxCorpusEntries
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = utils.DefaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Judge{
		generator: generator,
		timeout:   cfg.Timeout,
		maxCorpus: cfg.MaxCorpusEntries,
		maxLogLen: cfg.MaxLogLength,
		logger:    logger.WithProvider(log, cfg.Provider, model),
	}
}

// Ready reports whether the judge has a usable generator.
func (j *Judge) Ready() error {
	if j == nil || j.generator == nil {
		return &ConfigError{Reason: "no ai provider configured"}
	}
	return j.generator.Ready()
}

func (j *Judge) MaxCorpusEntries() int {
	if j == nil {
		return 0
	}
	return j.maxCorpus
}

// Analyze sends a single bounded request. The corpus is cut to MaxCorpusEntries in the given order.
func (j *Judge) Analyze(ctx context.Context, candidate *idea.Idea, corpus idea.Corpus, opts idea.Options) (*idea.Verdict, error) {
	if err := j.Ready(); err != nil {
		return nil, err
	}

	if len(corpus) > j.maxCorpus {
		corpus = corpus[:j.maxCorpus]
	}

	prompt, err := BuildPrompt(candidate, corpus, opts)
	if err != nil {
		return nil, &BackendError{Stage: StagePrompt, Err: err}
	}

	j.logger.Debug("ai generate content request",
		zap.Int("corpus_entries", len(corpus)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	raw, err := utils.Await(ctx, func(ctx context.Context) (string, error) {
		return j.generator.GenerateContent(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &BackendError{Stage: StageTimeout, Err: err}
		}
		return nil, &BackendError{Stage: StageGenerate, Err: err}
	}

	j.logger.Debug("ai generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	return ParseVerdict(raw)
}

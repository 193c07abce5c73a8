package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/ai"
	"github.com/spigell/idea-screener/internal/ai/gemini"
	"github.com/spigell/idea-screener/internal/ai/openai"
	"github.com/spigell/idea-screener/internal/deterministic"
	"github.com/spigell/idea-screener/internal/filtering"
	"github.com/spigell/idea-screener/internal/idea"
	"github.com/spigell/idea-screener/internal/keywords"
	"github.com/spigell/idea-screener/internal/logger"
	"github.com/spigell/idea-screener/internal/metrics"
	"github.com/spigell/idea-screener/internal/scoring"
	"github.com/spigell/idea-screener/internal/screening"
	"github.com/spigell/idea-screener/internal/secrets"
	"github.com/spigell/idea-screener/internal/ventures"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a candidate idea duplicates a known venture or application",
	Run: func(cmd *cobra.Command, _ []string) {
		check(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("candidate", "c", "", "a JSON or YAML file with the candidate idea (required)")
	checkCmd.Flags().String("id", "", "id of the candidate when the file holds several ideas")
	checkCmd.Flags().String("corpus", "", "a JSON or YAML file with the corpus to compare against")
	checkCmd.Flags().String("corpus-url", "", "download the reference corpus from this url")
	checkCmd.Flags().Bool("internal", false, "the corpus holds other submitted applications")
	checkCmd.Flags().String("exclude-owner", "", "ignore corpus entries submitted by this owner id")
	checkCmd.Flags().Bool("keep-inactive", false, "do not exclude inactive corpus entries")
	checkCmd.Flags().StringP("output", "o", "", "also write the verdict to this file")

	checkCmd.MarkFlagRequired("candidate")

	viper.BindPFlag("corpus.file", checkCmd.Flags().Lookup("corpus"))
	viper.BindPFlag("corpus.url", checkCmd.Flags().Lookup("corpus-url"))
	viper.BindPFlag("corpus.internal", checkCmd.Flags().Lookup("internal"))
}

func check(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the idea-screener", zap.String("version", resolveVersion()))

	candidates, err := idea.LoadFile(flagString(cmd, "candidate"))
	if err != nil {
		logger.Fatal("loading candidate ideas", zap.Error(err))
	}

	candidate, err := selectCandidate(candidates, flagString(cmd, "id"))
	if err != nil {
		logger.Fatal("selecting a candidate", zap.Error(err))
	}

	corpus, err := loadCorpus(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading the corpus", zap.Error(err),
			zap.String("hint", "set --corpus, --corpus-url or the corpus section in the configuration file"),
		)
	}

	logger.Info("corpus loaded", zap.Int("entries", corpus.Len()), zap.Bool("internal", config.Corpus.Internal))

	scorer, err := newScorer(config.Keywords)
	if err != nil {
		logger.Fatal("preparing the scoring policy", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("preparing the ai analyzer", zap.Error(err))
	}

	filters := filtering.Default()
	if flagBool(cmd, "keep-inactive") {
		filtering.DisableByName(filters, "inactive", "disabled with --keep-inactive")
	}
	for _, status := range filtering.Describe(filters) {
		logger.Debug("filter", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.String("reason", status.Reason))
	}

	m := metrics.NewManager()

	opts := []screening.Option{
		screening.WithEngine(deterministic.New(scorer, logger)),
		screening.WithFilters(filters),
		screening.WithMetrics(m),
		screening.WithLogger(logger),
	}
	if analyzer != nil {
		opts = append(opts, screening.WithAnalyzer(analyzer))
	}

	screener := screening.New(opts...)
	if mode, reason := screener.Mode(); reason != nil {
		logger.Info("screening mode", zap.String("mode", string(mode)), zap.String("reason", reason.Error()))
	} else {
		logger.Info("screening mode", zap.String("mode", string(mode)))
	}

	verdict, err := screener.Analyze(ctx, candidate, corpus, idea.Options{
		ExcludeOwnerID: flagString(cmd, "exclude-owner"),
		InternalCorpus: config.Corpus.Internal,
	})
	if err != nil {
		logger.Fatal("screening the candidate", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		logger.Fatal("encoding the verdict", zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	if output := flagString(cmd, "output"); output != "" {
		if err := os.WriteFile(output, append(pretty, '\n'), 0o644); err != nil {
			logger.Fatal("writing the verdict", zap.Error(err))
		}
		logger.Info("verdict written", zap.String("filename", output))
	}

	if path := config.Metrics.Textfile; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			logger.Warn("writing metrics", zap.Error(err))
		}
	}
}

// selectCandidate picks the candidate by id or asks the user when the file holds several ideas.
func selectCandidate(candidates idea.Corpus, id string) (*idea.Idea, error) {
	if id != "" {
		candidate := candidates.FindByID(id)
		if candidate == nil {
			return nil, fmt.Errorf("there is no candidate with id %s", id)
		}
		return candidate, nil
	}

	switch candidates.Len() {
	case 0:
		return nil, errors.New("candidate file has no ideas")
	case 1:
		return candidates[0], nil
	}

	items := make([]string, 0, candidates.Len())
	for _, c := range candidates {
		items = append(items, fmt.Sprintf("%s %s", c.Label(), strings.TrimSpace(c.OneLiner)))
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate idea and press ENTER",
		Items: items,
	}

	idx, _, err := candidatePrompt.Run()
	if err != nil {
		return nil, err
	}

	return candidates[idx], nil
}

func loadCorpus(ctx context.Context, config *Config, logger *zap.Logger) (idea.Corpus, error) {
	cfg := config.Corpus
	if cfg.File == "" && cfg.URL == "" {
		return nil, errors.New("no corpus source configured")
	}

	corpus := idea.Corpus{}

	if cfg.File != "" {
		fromFile, err := idea.LoadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("corpus file: %w", err)
		}
		corpus = append(corpus, fromFile...)
	}

	if cfg.URL != "" {
		client := ventures.New(logger, cfg.URL)
		if config.UserAgent != "" {
			client.UserAgent = config.UserAgent
		}

		fetched, err := client.Corpus(ctx)
		if err != nil {
			return nil, fmt.Errorf("corpus url: %w", err)
		}
		corpus = append(corpus, fetched...)
	}

	return corpus, nil
}

func newScorer(cfg *KeywordsConfig) (*scoring.Scorer, error) {
	policy, err := scoring.DecodePolicy(viper.GetStringMap("policy"))
	if err != nil {
		return nil, err
	}

	var important, industry *keywords.Table
	if len(cfg.Important) > 0 {
		important = keywords.NewTable("important", cfg.Important)
	}
	if len(cfg.Industry) > 0 {
		industry = keywords.NewTable("industry", cfg.Industry)
	}

	return scoring.NewScorer(policy, important, industry), nil
}

// newAnalyzer returns nil when the ai section is disabled. Missing credentials do not fail:
// the judge is created without a generator and reports itself as not configured.
func newAnalyzer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Analyzer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = gemini.ProviderName
	}

	judgeConfig := ai.JudgeConfig{
		Provider:         provider,
		Timeout:          cfg.Timeout,
		MaxCorpusEntries: cfg.MaxCorpusEntries,
		MaxLogLength:     cfg.MaxLogLength,
	}

	generator, err := newGenerator(ctx, provider, cfg)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			logger.Info("ai provider is not configured", zap.String("provider", provider), zap.Error(err))
			return ai.NewJudge(nil, judgeConfig, logger), nil
		}
		return nil, err
	}

	return ai.NewJudge(generator, judgeConfig, logger), nil
}

func newGenerator(ctx context.Context, provider string, cfg *AIConfig) (ai.Generator, error) {
	switch provider {
	case gemini.ProviderName:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: gc.APIKey,
			File:  gc.APIKeyFile,
		})
		if err != nil {
			return nil, configError(err, "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE")
		}

		return gemini.NewGenerator(ctx, apiKey, gc.Model)
	case openai.ProviderName:
		oc := cfg.OpenAI
		if oc == nil {
			oc = &OpenAIConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: oc.APIKey,
			File:  oc.APIKeyFile,
		})
		if err != nil {
			return nil, configError(err, "set ai.openai.api-key-file or OPENAI_API_KEY")
		}

		return openai.NewGenerator(openai.Config{
			Host:   oc.Host,
			Model:  oc.Model,
			APIKey: apiKey,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}

// configError turns a missing or placeholder secret into an *ai.ConfigError so the
// screener falls back instead of failing. Other errors are returned unchanged.
func configError(err error, hint string) error {
	if errors.Is(err, secrets.ErrMissing) || errors.Is(err, secrets.ErrPlaceholder) {
		return &ai.ConfigError{Reason: fmt.Sprintf("%v (%s)", err, hint)}
	}
	return err
}

func flagString(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(value)
}

func flagBool(cmd *cobra.Command, name string) bool {
	value, _ := cmd.Flags().GetBool(name)
	return value
}

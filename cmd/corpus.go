package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/logger"
	"github.com/spigell/idea-screener/internal/ventures"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the reference corpus",
}

var corpusFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the reference venture directory and store it as a corpus file",
	Run: func(cmd *cobra.Command, _ []string) {
		fetchCorpus(cmd)
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusFetchCmd)

	corpusFetchCmd.Flags().String("url", ventures.DefaultURL, "directory url")
	corpusFetchCmd.Flags().StringP("output", "o", "", "file to store the corpus in (required)")

	corpusFetchCmd.MarkFlagRequired("output")
}

func fetchCorpus(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client := ventures.New(logger, flagString(cmd, "url"))
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	corpus, err := client.Corpus(ctx)
	if err != nil {
		logger.Fatal("fetching the corpus", zap.Error(err), zap.String("url", client.URL))
	}

	output := flagString(cmd, "output")
	if err := corpus.ToFile(output); err != nil {
		logger.Fatal("writing the corpus", zap.Error(err))
	}

	logger.Info("corpus stored", zap.Int("entries", corpus.Len()), zap.String("filename", output))
}

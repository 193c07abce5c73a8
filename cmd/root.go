package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "idea-screener"
)

type Config struct {
	UserAgent string          `mapstructure:"user-agent"`
	Corpus    *CorpusConfig   `mapstructure:"corpus"`
	Keywords  *KeywordsConfig `mapstructure:"keywords"`
	Metrics   *MetricsConfig  `mapstructure:"metrics"`
	AI        *AIConfig       `mapstructure:"ai"`
}

type CorpusConfig struct {
	File     string `mapstructure:"file"`
	URL      string `mapstructure:"url"`
	Internal bool   `mapstructure:"internal"`
}

// KeywordsConfig replaces the built-in vocabularies when a list is not empty.
type KeywordsConfig struct {
	Important []string `mapstructure:"important"`
	Industry  []string `mapstructure:"industry"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type AIConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Provider         string        `mapstructure:"provider"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxCorpusEntries int           `mapstructure:"max-corpus-entries"`
	MaxLogLength     int           `mapstructure:"max-log-length"`
	Gemini           *GeminiConfig `mapstructure:"gemini"`
	OpenAI           *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "idea-screener checks whether a submitted idea duplicates an existing venture or application",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.openai.api-key":      "OPENAI_API_KEY",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is idea-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional unless it was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Corpus == nil {
		config.Corpus = &CorpusConfig{}
	}
	if config.Keywords == nil {
		config.Keywords = &KeywordsConfig{}
	}
	if config.Metrics == nil {
		config.Metrics = &MetricsConfig{}
	}

	return config, nil
}

// Package openai implements ai.Generator for OpenAI-compatible chat APIs through langchaingo.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/spigell/idea-screener/internal/ai"
	"github.com/spigell/idea-screener/internal/secrets"
)

const (
	ProviderName = "openai"
	DefaultModel = "gpt-4o-mini"
)

var _ ai.Generator = (*Generator)(nil)

type Config struct {
	// Host is the base URL of an OpenAI-compatible API. Empty means api.openai.com.
	Host   string
	Model  string
	APIKey string
}

type Generator struct {
	client    llms.Model
	modelName string
}

// NewGenerator creates a chat generator. Empty or placeholder keys yield a *ai.ConfigError.
func NewGenerator(cfg Config) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, &ai.ConfigError{Reason: "openai api key is required"}
	}
	if secrets.IsPlaceholder(apiKey) {
		return nil, &ai.ConfigError{Reason: "openai api key is a placeholder"}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if host := strings.TrimSpace(cfg.Host); host != "" {
		opts = append(opts, openai.WithBaseURL(host))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt as a single user message in JSON mode with temperature 0.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

func (g *Generator) Ready() error {
	if g == nil || g.client == nil {
		return &ai.ConfigError{Reason: "openai generator is not initialized"}
	}
	return nil
}

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider implements Provider against the OpenAI chat-completions
// API (or any compatible endpoint via Config.BaseURL).
type openAIProvider struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewOpenAI creates a provider from config.
func NewOpenAI(cfg Config) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temp := cfg.Temperature
	if temp < 0 {
		temp = 0
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	openaiCfg := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		openaiCfg.BaseURL = baseURL
	}

	return &openAIProvider{
		api:         openai.NewClientWithConfig(openaiCfg),
		model:       model,
		temperature: temp,
		maxTokens:   maxTokens,
		timeout:     timeout,
	}, nil
}

// Complete sends a single-shot completion request. Any transport or
// provider failure is returned as-is; the caller decides how to degrade.
func (p *openAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(user) == "" {
		return "", fmt.Errorf("llm: user prompt is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}

	slog.Debug("llm: completion",
		"model", p.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

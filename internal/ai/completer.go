// Package ai sends the analyst prompt to an OpenAI-compatible chat endpoint.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
)

// Completer turns a prompt into model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the endpoint answers without content.
var ErrEmptyCompletion = errors.New("completion has no content")

// OpenAICompleter calls chat completions through the official SDK. BaseURL may
// point at any OpenAI-compatible endpoint.
type OpenAICompleter struct {
	client    openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	log       *logger.Logger
}

func NewOpenAICompleter(cfg *config.Config, log *logger.Logger) (*OpenAICompleter, error) {
	if cfg.AI.APIKey == "" {
		return nil, errors.New("ai.api_key is required")
	}
	if log == nil {
		log = logger.Get()
	}

	// the per-call timeout is applied through the request context
	client, err := cfg.HTTPClient(0)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.AI.APIKey),
		option.WithHTTPClient(client),
		option.WithMaxRetries(2),
	}
	if cfg.AI.BaseURL != "" {
		base := cfg.AI.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}

	return &OpenAICompleter{
		client:    openai.NewClient(opts...),
		model:     cfg.AI.Model,
		maxTokens: cfg.AI.MaxTokens,
		timeout:   cfg.AI.Timeout,
		log:       log.With("component", "openai", "model", cfg.AI.Model),
	}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	c.log.Infow("completion received",
		"prompt_bytes", len(prompt),
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
		"finish_reason", resp.Choices[0].FinishReason,
		"elapsed", time.Since(start))
	return resp.Choices[0].Message.Content, nil
}

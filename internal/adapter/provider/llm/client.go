// Package llm sends prompts to the Anthropic Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/guymillicare/parsingHugeData/internal/config"
)

const systemPrompt = "You are a helpful assistant."

// ErrMissingAPIKey is returned when the client is built without credentials.
var ErrMissingAPIKey = errors.New("llm: api key is not configured")

// ErrEmptyResponse is returned when the reply carries no text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client completes single-turn prompts.
type Client struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	log       *slog.Logger
}

// NewClient creates a Client from TranslatorConfig.
func NewClient(cfg config.TranslatorConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(2),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
		log:       logger.With("adapter", "llm"),
	}, nil
}

// Complete sends prompt as one user message and returns the concatenated
// text of the reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: messages call: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}

	c.log.DebugContext(ctx, "llm response",
		slog.String("stop_reason", string(msg.StopReason)),
		slog.Int64("input_tokens", msg.Usage.InputTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return b.String(), nil
}

package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/parleybot/parley/internal/llm"
)

// Re-export model identifiers so callers don't import the SDK
type Model = anthropic.Model

const (
	ModelClaudeSonnet4_5 Model = anthropic.ModelClaudeSonnet4_5_20250929
	ModelClaudeHaiku4_5  Model = anthropic.ModelClaudeHaiku4_5_20251001
	ModelClaudeOpus4_5   Model = anthropic.ModelClaudeOpus4_5_20251101
)

var DefaultModel Model = ModelClaudeSonnet4_5

type Client struct {
	client anthropic.Client
	opts   llm.Options
}

func NewClient(apiKey string, opts llm.Options) *Client {
	if opts.Model == "" {
		opts.Model = string(DefaultModel)
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		opts:   opts,
	}
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.opts.Model),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from anthropic")
	}

	var text string
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			text = textBlock.Text
			break
		}
	}

	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return llm.CleanReply(text), nil
}

package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/parleybot/parley/internal/llm"
)

// Re-export model identifiers so callers don't import the SDK
type Model = openai.ChatModel

const (
	ModelGPT4      Model = openai.ChatModelGPT4
	ModelGPT4o     Model = openai.ChatModelGPT4o
	ModelGPT4oMini Model = openai.ChatModelGPT4oMini
)

var DefaultModel Model = ModelGPT4

type Client struct {
	client openai.Client
	opts   llm.Options
}

func NewClient(apiKey string, opts llm.Options) *Client {
	if opts.Model == "" {
		opts.Model = string(DefaultModel)
	}
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		opts:   opts,
	}
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(c.opts.MaxTokens),
		Temperature: openai.Float(c.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}

	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return llm.CleanReply(text), nil
}

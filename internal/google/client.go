package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/parleybot/parley/internal/llm"
)

// Model represents a Google AI model identifier
type Model string

const (
	ModelGemma3_27B   Model = "gemma-3-27b-it"
	ModelGemini2Flash Model = "gemini-2.0-flash"
	ModelGemini2_5Pro Model = "gemini-2.5-pro"
)

var DefaultModel Model = ModelGemini2Flash

type Client struct {
	client *genai.Client
	opts   llm.Options
}

func NewClient(ctx context.Context, apiKey string, opts llm.Options) (*Client, error) {
	if opts.Model == "" {
		opts.Model = string(DefaultModel)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &Client{
		client: client,
		opts:   opts,
	}, nil
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	// Gemma models have no native system role, so the system prompt rides
	// in front of the user message for every model.
	fullPrompt := system + "\n\n" + prompt

	result, err := c.client.Models.GenerateContent(ctx, c.opts.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: fullPrompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(c.opts.Temperature)),
			MaxOutputTokens: int32(c.opts.MaxTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("google API call failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from google")
	}

	text := result.Candidates[0].Content.Parts[0].Text

	return llm.CleanReply(text), nil
}

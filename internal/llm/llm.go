// Package llm defines the completion interface the bot relays messages
// through. Provider packages (openai, anthropic, google) implement Client;
// the rest of the code never sees a concrete SDK.
package llm

import (
	"context"
	"strings"
)

type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Options carries the generation parameters shared by every provider.
// An empty Model selects the provider's default.
type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// CleanReply normalizes a model reply for chat delivery: surrounding
// whitespace goes, and a reply that is nothing but a single fenced code
// block is unwrapped so the user sees the content rather than the fence.
func CleanReply(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 7 {
		return text
	}

	body := strings.TrimSuffix(text, "```")
	if idx := strings.Index(body, "\n"); idx != -1 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	if strings.Contains(body, "```") {
		// More than one fence means the reply only happens to start and
		// end with code; leave it as written.
		return text
	}
	return strings.TrimSpace(body)
}

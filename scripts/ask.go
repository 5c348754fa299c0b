// One-shot prompt runner. Sends a single prompt through the configured
// provider with the same persona the bot uses, so you can iterate on
// system prompts and knowledge files without starting a gateway.
//
// Usage:
//
//	go run scripts/ask.go "what is the capital of France?"
//	go run scripts/ask.go --llm-provider anthropic "explain goroutines"
//	go run scripts/ask.go --llm-model gpt-4o-mini --temperature 0.2 "say hi"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/parleybot/parley/internal/anthropic"
	"github.com/parleybot/parley/internal/google"
	"github.com/parleybot/parley/internal/llm"
	"github.com/parleybot/parley/internal/openai"
	"github.com/parleybot/parley/internal/persona"
)

func main() {
	provider := flag.String("llm-provider", "openai", "openai, anthropic, or google")
	model := flag.String("llm-model", "", "model name (defaults per provider)")
	maxTokens := flag.Int64("max-tokens", 1000, "maximum tokens per completion")
	temperature := flag.Float64("temperature", 0.7, "sampling temperature")
	promptFile := flag.String("system-prompt-file", "system_prompt.txt", "file overriding the built-in system prompt")
	knowledgeFile := flag.String("knowledge-file", "knowledge_base.md", "file with extra context")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal(`usage: go run scripts/ask.go [flags] "prompt"`)
	}

	_ = godotenv.Load()

	opts := llm.Options{
		Model:       *model,
		MaxTokens:   *maxTokens,
		Temperature: *temperature,
	}

	var client llm.Client
	var err error
	switch *provider {
	case "openai":
		client = openai.NewClient(os.Getenv("OPENAI_API_KEY"), opts)
	case "anthropic":
		client = anthropic.NewClient(os.Getenv("ANTHROPIC_API_KEY"), opts)
	case "google":
		client, err = google.NewClient(context.Background(), os.Getenv("GOOGLE_API_KEY"), opts)
		if err != nil {
			log.Fatalf("creating google client: %v", err)
		}
	default:
		log.Fatalf("unknown provider %q", *provider)
	}

	p := persona.Load(*promptFile, *knowledgeFile, slog.Default())

	start := time.Now()
	reply, err := client.Complete(context.Background(), p.System(), p.BuildPrompt(flag.Arg(0)))
	if err != nil {
		log.Fatalf("completion failed: %v", err)
	}

	fmt.Println(reply)
	log.Printf("(%s, %d chars)", time.Since(start).Round(time.Millisecond), len(reply))
}

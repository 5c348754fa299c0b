// Package config holds the runtime configuration. Values come from flags,
// environment variables of the same name (--llm-model becomes LLM_MODEL),
// and an optional plain config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

type Config struct {
	Platform string
	Provider string

	TelegramBotToken string
	DiscordToken     string
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	GoogleAPIKey     string

	Model       string
	MaxTokens   int64
	Temperature float64

	Cooldown        time.Duration
	StatsEnabled    bool
	TypingIndicator bool
	UserRetention   time.Duration

	SystemPromptFile string
	KnowledgeFile    string

	HealthPort int64
}

// Parse builds the configuration from args and the environment. On a flag
// parsing error it prints usage before returning.
func Parse(args []string) (*Config, error) {
	fs := ff.NewFlagSet("parley")

	var (
		platform         = fs.StringEnumLong("platform", "chat platform to serve", PlatformTelegram, PlatformDiscord)
		provider         = fs.StringEnumLong("llm-provider", "LLM provider for completions", ProviderOpenAI, ProviderAnthropic, ProviderGoogle)
		model            = fs.StringLong("llm-model", "", "LLM model name (defaults per provider)")
		maxTokens        = fs.Int64Long("max-tokens", 1000, "maximum tokens per completion")
		temperature      = fs.Float64Long("temperature", 0.7, "sampling temperature")
		cooldown         = fs.DurationLong("cooldown", 3*time.Second, "minimum delay between accepted messages per user")
		noStats          = fs.BoolLong("no-stats", "disable per-user usage statistics")
		noTyping         = fs.BoolLong("no-typing-indicator", "disable the typing indicator while completing")
		userRetention    = fs.DurationLong("user-retention", 0, "evict usage records idle longer than this (0 keeps them forever)")
		systemPromptFile = fs.StringLong("system-prompt-file", "system_prompt.txt", "file overriding the built-in system prompt")
		knowledgeFile    = fs.StringLong("knowledge-file", "knowledge_base.md", "file with extra context prepended to every prompt")
		healthPort       = fs.Int64Long("health-port", 8090, "health and metrics port (0 disables)")
		telegramBotToken = fs.StringLong("telegram-bot-token", "", "Telegram bot token")
		discordToken     = fs.StringLong("discord-token", "", "Discord bot token")
		openaiAPIKey     = fs.StringLong("openai-api-key", "", "OpenAI API key")
		anthropicAPIKey  = fs.StringLong("anthropic-api-key", "", "Anthropic API key")
		googleAPIKey     = fs.StringLong("google-api-key", "", "Google API key")
		_                = fs.StringLong("config", "", "config file (optional)")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVars(),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := &Config{
		Platform:         *platform,
		Provider:         *provider,
		TelegramBotToken: *telegramBotToken,
		DiscordToken:     *discordToken,
		OpenAIAPIKey:     *openaiAPIKey,
		AnthropicAPIKey:  *anthropicAPIKey,
		GoogleAPIKey:     *googleAPIKey,
		Model:            *model,
		MaxTokens:        *maxTokens,
		Temperature:      *temperature,
		Cooldown:         *cooldown,
		StatsEnabled:     !*noStats,
		TypingIndicator:  !*noTyping,
		UserRetention:    *userRetention,
		SystemPromptFile: *systemPromptFile,
		KnowledgeFile:    *knowledgeFile,
		HealthPort:       *healthPort,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Platform {
	case PlatformTelegram:
		if c.TelegramBotToken == "" {
			return errors.New("telegram-bot-token is required when using telegram platform")
		}
	case PlatformDiscord:
		if c.DiscordToken == "" {
			return errors.New("discord-token is required when using discord platform")
		}
	}

	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("openai-api-key is required when using openai provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("anthropic-api-key is required when using anthropic provider")
		}
	case ProviderGoogle:
		if c.GoogleAPIKey == "" {
			return errors.New("google-api-key is required when using google provider")
		}
	}

	return nil
}

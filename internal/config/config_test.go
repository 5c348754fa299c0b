package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{
		"--telegram-bot-token", "tg-token",
		"--openai-api-key", "sk-test",
	})
	require.NoError(t, err)

	assert.Equal(t, PlatformTelegram, cfg.Platform)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "", cfg.Model)
	assert.Equal(t, int64(1000), cfg.MaxTokens)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 3*time.Second, cfg.Cooldown)
	assert.True(t, cfg.StatsEnabled)
	assert.True(t, cfg.TypingIndicator)
	assert.Equal(t, time.Duration(0), cfg.UserRetention)
	assert.Equal(t, "system_prompt.txt", cfg.SystemPromptFile)
	assert.Equal(t, "knowledge_base.md", cfg.KnowledgeFile)
	assert.Equal(t, int64(8090), cfg.HealthPort)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]string{
		"--telegram-bot-token", "tg-token",
		"--openai-api-key", "sk-test",
		"--llm-model", "gpt-4o",
		"--max-tokens", "500",
		"--temperature", "0.2",
		"--cooldown", "10s",
		"--no-stats",
		"--no-typing-indicator",
		"--user-retention", "720h",
		"--health-port", "0",
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, int64(500), cfg.MaxTokens)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 10*time.Second, cfg.Cooldown)
	assert.False(t, cfg.StatsEnabled)
	assert.False(t, cfg.TypingIndicator)
	assert.Equal(t, 720*time.Hour, cfg.UserRetention)
	assert.Equal(t, int64(0), cfg.HealthPort)
}

func TestParseRequiresPlatformToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Parse([]string{"--openai-api-key", "sk-test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram-bot-token")
}

func TestParseRequiresProviderKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Parse([]string{
		"--telegram-bot-token", "tg-token",
		"--llm-provider", "anthropic",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic-api-key")
}

func TestParseDiscordPlatform(t *testing.T) {
	cfg, err := Parse([]string{
		"--platform", "discord",
		"--discord-token", "dc-token",
		"--openai-api-key", "sk-test",
	})
	require.NoError(t, err)

	assert.Equal(t, PlatformDiscord, cfg.Platform)
	assert.Equal(t, "dc-token", cfg.DiscordToken)
}

func TestParseRejectsUnknownPlatform(t *testing.T) {
	_, err := Parse([]string{"--platform", "irc"})
	require.Error(t, err)
}

func TestParseFromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("LLM_PROVIDER", "google")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("COOLDOWN", "5s")

	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, "g-key", cfg.GoogleAPIKey)
	assert.Equal(t, 5*time.Second, cfg.Cooldown)
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parley.conf")
	require.NoError(t, os.WriteFile(path, []byte("llm-model gpt-4o-mini\ncooldown 30s\n"), 0o644))

	cfg, err := Parse([]string{
		"--config", path,
		"--telegram-bot-token", "tg-token",
		"--openai-api-key", "sk-test",
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.Cooldown)
}

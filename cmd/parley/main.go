package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/parleybot/parley/internal/anthropic"
	"github.com/parleybot/parley/internal/assistant"
	"github.com/parleybot/parley/internal/config"
	"github.com/parleybot/parley/internal/discord"
	"github.com/parleybot/parley/internal/google"
	"github.com/parleybot/parley/internal/health"
	"github.com/parleybot/parley/internal/llm"
	"github.com/parleybot/parley/internal/logger"
	"github.com/parleybot/parley/internal/openai"
	"github.com/parleybot/parley/internal/persona"
	"github.com/parleybot/parley/internal/setup"
	"github.com/parleybot/parley/internal/telegram"
	"github.com/parleybot/parley/internal/usage"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	// First run with no .env and no credentials in the environment gets the
	// interactive wizard. Containerized deployments configure via env vars
	// and never hit this path.
	if setup.Needed() && os.Getenv("TELEGRAM_BOT_TOKEN") == "" && os.Getenv("DISCORD_TOKEN") == "" {
		completed, err := setup.Run()
		if err != nil {
			return fmt.Errorf("running setup wizard: %w", err)
		}
		if !completed {
			return errors.New("setup cancelled")
		}
	}

	_ = godotenv.Load()

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		return err
	}

	log := logger.New()

	if cfg.Model == "" {
		switch cfg.Provider {
		case config.ProviderOpenAI:
			cfg.Model = string(openai.DefaultModel)
		case config.ProviderAnthropic:
			cfg.Model = string(anthropic.DefaultModel)
		case config.ProviderGoogle:
			cfg.Model = string(google.DefaultModel)
		}
	}

	ctx, cancel := context.WithCancelCause(context.Background())

	opts := llm.Options{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	var client llm.Client
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client = openai.NewClient(cfg.OpenAIAPIKey, opts)
	case config.ProviderAnthropic:
		client = anthropic.NewClient(cfg.AnthropicAPIKey, opts)
	case config.ProviderGoogle:
		client, err = google.NewClient(ctx, cfg.GoogleAPIKey, opts)
		if err != nil {
			return fmt.Errorf("creating Google client: %w", err)
		}
	}

	tracker := usage.New(usage.Config{
		Cooldown:     cfg.Cooldown,
		StatsEnabled: cfg.StatsEnabled,
		Retention:    cfg.UserRetention,
	})

	p := persona.Load(cfg.SystemPromptFile, cfg.KnowledgeFile, log)

	a := assistant.New(log, client, tracker, p, assistant.Config{
		Cooldown:        cfg.Cooldown,
		TypingIndicator: cfg.TypingIndicator,
		StatsEnabled:    cfg.StatsEnabled,
	})

	var gateway interface {
		Run(context.Context) error
	}
	switch cfg.Platform {
	case config.PlatformTelegram:
		gateway, err = telegram.New(log, a, cfg.TelegramBotToken)
	case config.PlatformDiscord:
		gateway, err = discord.New(log, a, cfg.DiscordToken)
	}
	if err != nil {
		return fmt.Errorf("creating %s gateway: %w", cfg.Platform, err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received signal, shutting down", "signal", sig)
		cancel(errors.New("signal received"))
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return gateway.Run(ctx)
	})

	g.Go(func() error {
		tracker.RunJanitor(ctx)
		return nil
	})

	if cfg.HealthPort > 0 {
		hs := health.New(cfg.HealthPort, cfg.Platform, cfg.Provider)
		g.Go(func() error {
			log.InfoContext(ctx, "starting health server", "port", cfg.HealthPort)
			return hs.Start()
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return hs.Shutdown(shutdownCtx)
		})
	}

	log.InfoContext(ctx, "parley starting",
		"platform", cfg.Platform,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"cooldown", cfg.Cooldown,
	)

	return g.Wait()
}

// Package assistant holds the platform-independent brain of the bot: the
// relay flow through the completion client, cooldown notices, fallback
// replies and the command set. Gateways normalize platform updates into
// Messages and send back whatever text comes out.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/parleybot/parley/internal/llm"
	"github.com/parleybot/parley/internal/metrics"
	"github.com/parleybot/parley/internal/persona"
	"github.com/parleybot/parley/internal/usage"
)

// Platform labels used in metrics and command-prefix selection.
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

// Message is one inbound chat message, normalized across platforms.
type Message struct {
	Platform    string
	UserID      string
	DisplayName string
	Text        string
}

type Config struct {
	// Cooldown is quoted in the rejection notice; the tracker enforces it.
	Cooldown        time.Duration
	TypingIndicator bool
	StatsEnabled    bool
	// Fallbacks replace the built-in set when non-empty.
	Fallbacks []string
}

type Assistant struct {
	log     *slog.Logger
	client  llm.Client
	tracker *usage.Tracker
	persona persona.Persona
	config  Config

	// now is swappable so tests can drive the cooldown clock.
	now func() time.Time
}

var defaultFallbacks = []string{
	"🤖 I apologize, but I'm experiencing some technical difficulties at the moment. Please try again in a few moments.",
	"⚠️ I'm currently having trouble connecting to my AI services. Please give me a moment and try again.",
	"🔄 I'm experiencing a temporary service interruption. Please try your question again shortly.",
}

func New(log *slog.Logger, client llm.Client, tracker *usage.Tracker, p persona.Persona, config Config) *Assistant {
	if len(config.Fallbacks) == 0 {
		config.Fallbacks = defaultFallbacks
	}
	return &Assistant{
		log:     log,
		client:  client,
		tracker: tracker,
		persona: p,
		config:  config,
		now:     time.Now,
	}
}

// HandleText runs the relay flow for a free-text message and returns the
// reply to send. typing, when non-nil, fires after the message clears the
// cooldown and before the completion call. The reply is never empty: a
// failed or blank completion degrades to a fallback.
func (a *Assistant) HandleText(ctx context.Context, msg Message, typing func(context.Context)) string {
	now := a.now()
	a.record(msg, "text", now)
	a.log.InfoContext(ctx, "message received",
		"platform", msg.Platform, "user_id", msg.UserID, "chars", len(msg.Text))

	if !a.tracker.TryAccept(msg.UserID, now) {
		metrics.RateLimitedTotal.Inc()
		a.log.InfoContext(ctx, "message rejected by cooldown", "user_id", msg.UserID)
		secs := max(int(a.config.Cooldown.Seconds()), 1)
		return fmt.Sprintf("🕰️ Please wait %d seconds between messages. This helps ensure quality responses for everyone.", secs)
	}

	if a.config.TypingIndicator && typing != nil {
		typing(ctx)
	}

	start := time.Now()
	reply, err := a.client.Complete(ctx, a.persona.System(), a.persona.BuildPrompt(msg.Text))
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues("error").Inc()
		a.log.ErrorContext(ctx, "completion failed, serving fallback", "user_id", msg.UserID, "error", err)
		return a.fallback()
	}

	metrics.CompletionsTotal.WithLabelValues("ok").Inc()
	if reply == "" {
		a.log.WarnContext(ctx, "empty completion, serving fallback", "user_id", msg.UserID)
		return a.fallback()
	}
	return reply
}

func (a *Assistant) fallback() string {
	metrics.FallbackRepliesTotal.Inc()
	return a.config.Fallbacks[rand.IntN(len(a.config.Fallbacks))]
}

// record updates the usage tracker and message metrics. Stats bookkeeping
// happens before the cooldown gate so rejected messages still count as seen.
func (a *Assistant) record(msg Message, kind string, now time.Time) {
	a.tracker.RecordInteraction(msg.UserID, msg.DisplayName, now)
	metrics.MessagesTotal.WithLabelValues(msg.Platform, kind).Inc()
	metrics.TrackedUsers.Set(float64(a.tracker.Users()))
}

// Package telegram adapts Telegram long polling to the assistant. It owns
// update normalization, the command menu, typing actions and outbound send
// throttling; everything conversational lives in the assistant.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/parleybot/parley/internal/assistant"
)

// Telegram caps messages at 4096 characters.
const messageLimit = 4096

// Stay under Telegram's ~30 messages per second bot-wide ceiling.
var sendRate = rate.Limit(25)

type Gateway struct {
	log       *slog.Logger
	assistant *assistant.Assistant
	bot       *bot.Bot
	limiter   *rate.Limiter
}

func New(log *slog.Logger, a *assistant.Assistant, token string) (*Gateway, error) {
	g := &Gateway{
		log:       log,
		assistant: a,
		limiter:   rate.NewLimiter(sendRate, 5),
	}

	b, err := bot.New(token, bot.WithDefaultHandler(g.onUpdate))
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	g.bot = b
	return g, nil
}

// Run registers the command menu and long-polls until ctx is done.
func (g *Gateway) Run(ctx context.Context) error {
	commands := lo.Map(assistant.Commands(), func(c assistant.Command, _ int) models.BotCommand {
		return models.BotCommand{Command: c.Name, Description: c.Description}
	})
	if _, err := g.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		g.log.WarnContext(ctx, "failed to register command menu", "error", err)
	}

	g.log.InfoContext(ctx, "telegram gateway started")
	g.bot.Start(ctx)
	return nil
}

func (g *Gateway) onUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	m := update.Message
	if m == nil || m.From == nil || m.Text == "" {
		return
	}

	msg := assistant.Message{
		Platform:    assistant.PlatformTelegram,
		UserID:      strconv.FormatInt(m.From.ID, 10),
		DisplayName: displayName(m.From),
		Text:        m.Text,
	}

	var reply string
	if cmd, ok := parseCommand(m.Text); ok {
		switch cmd {
		case "start":
			reply = g.assistant.Welcome(ctx, msg)
		case "help":
			reply = g.assistant.Help(ctx, msg)
		case "about":
			reply = g.assistant.About(ctx, msg)
		case "stats":
			reply = g.assistant.StatsReply(ctx, msg)
		default:
			// Unknown commands stay silent, like plain command filters do.
			return
		}
	} else {
		chatID := m.Chat.ID
		reply = g.assistant.HandleText(ctx, msg, func(ctx context.Context) {
			g.sendTyping(ctx, chatID)
		})
	}

	g.send(ctx, m.Chat.ID, reply)
}

func (g *Gateway) send(ctx context.Context, chatID int64, text string) {
	for _, chunk := range assistant.SplitMessage(text, messageLimit) {
		if err := g.limiter.Wait(ctx); err != nil {
			return
		}
		if _, err := g.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: chunk}); err != nil {
			g.log.ErrorContext(ctx, "failed to send message", "chat_id", chatID, "error", err)
			return
		}
	}
}

func (g *Gateway) sendTyping(ctx context.Context, chatID int64) {
	if err := g.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := g.bot.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		g.log.DebugContext(ctx, "failed to send typing action", "chat_id", chatID, "error", err)
	}
}

// parseCommand extracts the command word from "/cmd", "/cmd@BotName" and
// "/cmd args" forms. ok is false for plain text.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if at := strings.Index(word, "@"); at != -1 {
		word = word[:at]
	}
	return strings.ToLower(word), true
}

// displayName prefers the public @username and falls back to the profile name.
func displayName(u *models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

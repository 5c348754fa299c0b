// Package discord adapts Discord gateway events to the assistant. Free text
// is relayed from DMs and from guild channels where the bot is mentioned;
// the command set rides on a "!" prefix since prefix commands are the lingua
// franca of text-based Discord bots.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/parleybot/parley/internal/assistant"
)

// Discord caps messages at 2000 characters.
const messageLimit = 2000

type Gateway struct {
	log       *slog.Logger
	assistant *assistant.Assistant
	session   *discordgo.Session
}

func New(log *slog.Logger, a *assistant.Assistant, token string) (*Gateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	g := &Gateway{log: log, assistant: a, session: session}
	session.AddHandler(g.onMessageCreate)
	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info("connected to Discord", "username", r.User.Username)
	})
	return g, nil
}

// Run opens the gateway connection and blocks until ctx is done.
func (g *Gateway) Run(ctx context.Context) error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	g.log.InfoContext(ctx, "discord gateway started")

	<-ctx.Done()
	if err := g.session.Close(); err != nil {
		return fmt.Errorf("closing discord session: %w", err)
	}
	return nil
}

func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	ctx := context.Background()
	text := strings.TrimSpace(m.Content)

	msg := assistant.Message{
		Platform:    assistant.PlatformDiscord,
		UserID:      m.Author.ID,
		DisplayName: m.Author.Username,
		Text:        text,
	}

	if cmd, ok := parseCommand(text); ok {
		var reply string
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
			return
		}
		g.send(m.ChannelID, reply)
		return
	}

	// Relay free text from DMs always, from guild channels only when the
	// bot is mentioned. Anything else is other people's conversation.
	mentioned := lo.SomeBy(m.Mentions, func(u *discordgo.User) bool {
		return u.ID == s.State.User.ID
	})
	if m.GuildID != "" && !mentioned {
		return
	}

	msg.Text = stripMention(text, s.State.User.ID)
	if msg.Text == "" {
		return
	}

	reply := g.assistant.HandleText(ctx, msg, func(context.Context) {
		if err := s.ChannelTyping(m.ChannelID); err != nil {
			g.log.Debug("failed to send typing action", "channel_id", m.ChannelID, "error", err)
		}
	})
	g.send(m.ChannelID, reply)
}

func (g *Gateway) send(channelID, text string) {
	for _, chunk := range assistant.SplitMessage(text, messageLimit) {
		if _, err := g.session.ChannelMessageSend(channelID, chunk); err != nil {
			g.log.Error("failed to send message", "channel_id", channelID, "error", err)
			return
		}
	}
}

// parseCommand extracts the command word from "!cmd" and "!cmd args" forms.
// ok is false for plain text.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "!") {
		return "", false
	}
	word := strings.TrimPrefix(strings.Fields(text)[0], "!")
	return strings.ToLower(word), true
}

// stripMention drops the bot's own mention tokens so the model sees the bare
// question.
func stripMention(text, userID string) string {
	for _, token := range []string{"<@" + userID + ">", "<@!" + userID + ">"} {
		text = strings.ReplaceAll(text, token, "")
	}
	return strings.TrimSpace(text)
}

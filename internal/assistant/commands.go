package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/samber/lo"
)

// Command describes one entry of the bot's command menu.
type Command struct {
	Name        string
	Description string
}

// Commands lists the commands every gateway exposes.
func Commands() []Command {
	return []Command{
		{Name: "start", Description: "Start using the AI assistant"},
		{Name: "help", Description: "Get help and usage instructions"},
		{Name: "about", Description: "Learn about this AI assistant"},
		{Name: "stats", Description: "View your interaction statistics"},
	}
}

// CommandPrefix returns the prefix a platform's users type before a command.
func CommandPrefix(platform string) string {
	if platform == PlatformDiscord {
		return "!"
	}
	return "/"
}

func commandList(prefix string) string {
	lines := lo.Map(Commands(), func(c Command, _ int) string {
		return fmt.Sprintf("%s%s - %s", prefix, c.Name, c.Description)
	})
	return strings.Join(lines, "\n")
}

const welcomeTemplate = `🤖 Hello and welcome!

I'm your AI assistant, here to help you with questions, provide information, and help with everyday tasks.

I can help you with:
• 📝 Answering questions and providing information
• 💡 Problem-solving and brainstorming
• 📚 Educational content and explanations
• 🔧 Technical guidance and support
• ✍️ Writing and creative tasks

Available commands:
%s

Simply send me any question or message, and I'll do my best to help you! ✨`

const helpTemplate = `🤖 How to get the most out of your AI assistant:

Asking questions:
• Send any text message with your question
• Be as specific as possible for the best results
• Ask follow-up questions to dig deeper

Commands:
%s

Good to know:
• There's a brief cooldown between messages to keep responses fast for everyone
• If the AI service is unavailable I'll say so, and you can simply retry
• Ask one question at a time for the most focused answers

I'm here to help, so fire away!`

const aboutText = `🤖 About this assistant

I'm an AI-powered chat assistant. I relay your messages to a large language model and bring back its answers.

What's under the hood:
• Powered by leading language model providers
• Optional custom persona and knowledge base
• Per-user cooldown to keep responses fast for everyone
• Usage statistics you can check with the stats command

While I can provide information and assistance, critical decisions should always involve your own judgment. I'm here to support your thinking, not replace it. 🚀`

const statsTemplate = `📊 Your AI Assistant Statistics

• First interaction: %s
• Days active: %d
• Total messages: %d
• Display name: %s

Keep exploring and asking questions! ✨`

// Welcome handles the start command.
func (a *Assistant) Welcome(ctx context.Context, msg Message) string {
	a.command(ctx, "start", msg)
	return fmt.Sprintf(welcomeTemplate, commandList(CommandPrefix(msg.Platform)))
}

// Help handles the help command.
func (a *Assistant) Help(ctx context.Context, msg Message) string {
	a.command(ctx, "help", msg)
	return fmt.Sprintf(helpTemplate, commandList(CommandPrefix(msg.Platform)))
}

// About handles the about command.
func (a *Assistant) About(ctx context.Context, msg Message) string {
	a.command(ctx, "about", msg)
	return aboutText
}

// StatsReply handles the stats command. The disabled notice comes first so
// the command never creates tracker state when statistics are off.
func (a *Assistant) StatsReply(ctx context.Context, msg Message) string {
	if !a.config.StatsEnabled {
		return "📊 Statistics tracking is currently disabled."
	}
	a.command(ctx, "stats", msg)

	rec, ok := a.tracker.Stats(msg.UserID)
	if !ok {
		return "📊 No statistics available yet. Start your journey by asking a question!"
	}

	now := a.now()
	first := rec.FirstSeen.Format("January 2, 2006")
	if since := now.Sub(rec.FirstSeen); since >= time.Minute {
		first = fmt.Sprintf("%s (%s ago)", first, durafmt.Parse(since.Truncate(time.Minute)).LimitFirstN(2))
	}
	daysActive := int(now.Sub(rec.FirstSeen).Hours()/24) + 1

	name := rec.DisplayName
	if name == "" {
		name = rec.UserID
	}
	return fmt.Sprintf(statsTemplate, first, daysActive, rec.MessageCount, name)
}

func (a *Assistant) command(ctx context.Context, name string, msg Message) {
	a.record(msg, "command", a.now())
	a.log.InfoContext(ctx, "command received",
		"command", name, "platform", msg.Platform, "user_id", msg.UserID, "display_name", msg.DisplayName)
}

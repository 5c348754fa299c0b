// Package setup is the first-run configuration wizard. It runs when no .env
// file exists, collecting the chat platform, LLM provider, and credentials.
package setup

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type step int

const (
	stepWelcome step = iota
	stepPlatform
	stepToken
	stepProvider
	stepKey
	stepConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	step     step
	platform string
	token    string
	provider string
	apiKey   string
	input    textinput.Model
	err      error
	saved    bool
}

func New() model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return model{
		step:  stepWelcome,
		input: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil

	switch m.step {
	case stepWelcome:
		m.advance(stepPlatform, textinput.EchoNormal)

	case stepPlatform:
		switch strings.TrimSpace(strings.ToLower(m.input.Value())) {
		case "1", "telegram":
			m.platform = "telegram"
		case "2", "discord":
			m.platform = "discord"
		default:
			m.err = fmt.Errorf("Please enter 1 for Telegram or 2 for Discord")
			return m, nil
		}
		m.advance(stepToken, textinput.EchoPassword)

	case stepToken:
		token := strings.TrimSpace(m.input.Value())
		if token == "" {
			m.err = fmt.Errorf("Bot token is required")
			return m, nil
		}
		m.token = token
		m.advance(stepProvider, textinput.EchoNormal)

	case stepProvider:
		switch strings.TrimSpace(strings.ToLower(m.input.Value())) {
		case "1", "openai":
			m.provider = "openai"
		case "2", "anthropic":
			m.provider = "anthropic"
		case "3", "google":
			m.provider = "google"
		default:
			m.err = fmt.Errorf("Please enter 1 for OpenAI, 2 for Anthropic, or 3 for Google")
			return m, nil
		}
		m.advance(stepKey, textinput.EchoPassword)

	case stepKey:
		key := strings.TrimSpace(m.input.Value())
		if key == "" {
			m.err = fmt.Errorf("API key is required")
			return m, nil
		}
		m.apiKey = key
		m.advance(stepConfirm, textinput.EchoNormal)

	case stepConfirm:
		switch strings.TrimSpace(strings.ToLower(m.input.Value())) {
		case "y", "yes", "":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		case "n", "no":
			m.platform = ""
			m.token = ""
			m.provider = ""
			m.apiKey = ""
			m.advance(stepWelcome, textinput.EchoNormal)
		}
	}

	return m, nil
}

func (m *model) advance(next step, echo textinput.EchoMode) {
	m.step = next
	m.input.SetValue("")
	m.input.EchoMode = echo
}

func (m model) writeEnvFile() error {
	tokenName := "TELEGRAM_BOT_TOKEN"
	if m.platform == "discord" {
		tokenName = "DISCORD_TOKEN"
	}

	var llmModel, keyName string
	switch m.provider {
	case "openai":
		llmModel, keyName = "gpt-4", "OPENAI_API_KEY"
	case "anthropic":
		llmModel, keyName = "claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"
	case "google":
		llmModel, keyName = "gemini-2.0-flash", "GOOGLE_API_KEY"
	}

	content := fmt.Sprintf(`PLATFORM=%s
%s=%s
LLM_PROVIDER=%s
LLM_MODEL=%s
%s=%s
`, m.platform, tokenName, m.token, m.provider, llmModel, keyName, m.apiKey)

	return os.WriteFile(".env", []byte(content), 0600)
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("Parley - First Run Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard will help you configure the bot.\n")
		s.WriteString("You'll need:\n\n")
		s.WriteString("  - A bot token (Telegram or Discord)\n")
		s.WriteString("  - An LLM API key (OpenAI, Anthropic, or Google)\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepPlatform:
		s.WriteString(titleStyle.Render("Step 1: Choose Chat Platform"))
		s.WriteString("\n\n")
		s.WriteString("Where should the bot live?\n\n")
		s.WriteString("  1. Telegram\n")
		s.WriteString("  2. Discord\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Enter 1 or 2:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepToken:
		s.WriteString(titleStyle.Render("Step 2: Bot Token"))
		s.WriteString("\n\n")
		if m.platform == "telegram" {
			s.WriteString("To get your Telegram bot token:\n\n")
			s.WriteString("  1. Open a chat with " + linkStyle.Render("https://t.me/BotFather") + "\n")
			s.WriteString("  2. Send /newbot and follow the prompts\n")
			s.WriteString("  3. Copy the token BotFather gives you\n")
		} else {
			s.WriteString("To get your Discord bot token:\n\n")
			s.WriteString("  1. Go to " + linkStyle.Render("https://discord.com/developers/applications") + "\n")
			s.WriteString("  2. Create a new application (or select existing)\n")
			s.WriteString("  3. Go to the Bot section\n")
			s.WriteString("  4. Click 'Reset Token' to get your bot token\n")
			s.WriteString("  5. Enable 'Message Content Intent' under Privileged Gateway Intents\n")
		}
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Paste your bot token here:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
		if m.err != nil {
			s.WriteString("\n" + errorStyle.Render(m.err.Error()))
		}

	case stepProvider:
		s.WriteString(titleStyle.Render("Step 3: Choose LLM Provider"))
		s.WriteString("\n\n")
		s.WriteString("Which LLM provider would you like to use?\n\n")
		s.WriteString("  1. OpenAI (GPT)\n")
		s.WriteString("  2. Anthropic (Claude)\n")
		s.WriteString("  3. Google (Gemini)\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Enter 1, 2, or 3:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
		if m.err != nil {
			s.WriteString("\n" + errorStyle.Render(m.err.Error()))
		}

	case stepKey:
		s.WriteString(titleStyle.Render("Step 4: LLM API Key"))
		s.WriteString("\n\n")
		switch m.provider {
		case "openai":
			s.WriteString("To get your OpenAI API key:\n\n")
			s.WriteString("  1. Go to " + linkStyle.Render("https://platform.openai.com/api-keys") + "\n")
			s.WriteString("  2. Sign up or log in\n")
			s.WriteString("  3. Create a new secret key\n")
		case "anthropic":
			s.WriteString("To get your Anthropic API key:\n\n")
			s.WriteString("  1. Go to " + linkStyle.Render("https://console.anthropic.com") + "\n")
			s.WriteString("  2. Sign up or log in\n")
			s.WriteString("  3. Go to API Keys and create a new key\n")
		case "google":
			s.WriteString("To get your Google AI API key:\n\n")
			s.WriteString("  1. Go to " + linkStyle.Render("https://aistudio.google.com/apikey") + "\n")
			s.WriteString("  2. Sign in with your Google account\n")
			s.WriteString("  3. Create an API key\n")
		}
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Paste your API key here:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
		if m.err != nil {
			s.WriteString("\n" + errorStyle.Render(m.err.Error()))
		}

	case stepConfirm:
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("Your configuration:\n\n")
		s.WriteString("  Platform:     " + successStyle.Render(m.platform) + "\n")
		s.WriteString("  Bot Token:    " + successStyle.Render(maskToken(m.token)) + "\n")
		s.WriteString("  LLM Provider: " + successStyle.Render(m.provider) + "\n")
		s.WriteString("  LLM API Key:  " + successStyle.Render(maskToken(m.apiKey)) + "\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
		if m.err != nil {
			s.WriteString("\n" + errorStyle.Render(m.err.Error()))
		}
	}

	s.WriteString("\n")
	return s.String()
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// Run starts the setup wizard and reports whether a configuration was saved.
func Run() (bool, error) {
	p := tea.NewProgram(New())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.saved, nil
}

// Needed reports whether no .env file exists yet.
func Needed() bool {
	_, err := os.Stat(".env")
	return os.IsNotExist(err)
}

// Package persona loads the assistant's system prompt and optional knowledge
// base from disk, with a built-in default persona when no prompt file exists.
package persona

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const defaultSystemPrompt = `You are a helpful, knowledgeable AI assistant designed to provide thoughtful and accurate responses to user questions. You are friendly, professional, and adaptable to different conversation styles and topics.

Your responses should be:
- Clear and informative
- Helpful and supportive
- Professional yet approachable
- Tailored to the user's level of understanding
- Respectful and inclusive

When someone asks you a question, provide accurate and relevant information while maintaining a consistent and reliable personality. Be honest about your limitations and suggest ways users might find additional information when needed.`

type Persona struct {
	systemPrompt string
	knowledge    string
}

// Load reads the system prompt and knowledge files. A missing prompt file
// falls back to the built-in persona; a missing knowledge file just means no
// extra context. Read failures are logged, never fatal.
func Load(promptPath, knowledgePath string, log *slog.Logger) Persona {
	p := Persona{systemPrompt: defaultSystemPrompt}

	if data, err := os.ReadFile(promptPath); err == nil {
		if text := strings.TrimSpace(string(data)); text != "" {
			p.systemPrompt = text
			log.Info("system prompt loaded", "path", promptPath)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		log.Info("system prompt file not found, using built-in default", "path", promptPath)
	} else {
		log.Warn("failed to read system prompt, using built-in default", "path", promptPath, "error", err)
	}

	if data, err := os.ReadFile(knowledgePath); err == nil {
		p.knowledge = strings.TrimSpace(string(data))
		if p.knowledge != "" {
			log.Info("knowledge base loaded", "path", knowledgePath)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		log.Info("knowledge base not found, continuing without extra context", "path", knowledgePath)
	} else {
		log.Warn("failed to read knowledge base", "path", knowledgePath, "error", err)
	}

	return p
}

// System returns the system prompt sent with every completion.
func (p Persona) System() string { return p.systemPrompt }

// BuildPrompt wraps userText with the knowledge context when one is loaded;
// otherwise the user's text goes through untouched.
func (p Persona) BuildPrompt(userText string) string {
	if p.knowledge == "" {
		return userText
	}
	return fmt.Sprintf("Additional context and knowledge:\n%s\n\nUser question: %s", p.knowledge, userText)
}

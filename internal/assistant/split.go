package assistant

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage cuts text into chunks of at most limit runes so long replies
// fit platform message caps. Splits prefer paragraph breaks, then line
// breaks, then spaces, before cutting mid-word.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for utf8.RuneCountInString(remaining) > limit {
		window := string([]rune(remaining)[:limit])

		cut := -1
		for _, sep := range []string{"\n\n", "\n", " "} {
			if idx := strings.LastIndex(window, sep); idx > 0 {
				cut = idx + len(sep)
				break
			}
		}
		if cut <= 0 {
			cut = len(window)
		}

		chunk := strings.TrimRight(remaining[:cut], " \n")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = strings.TrimLeft(remaining[cut:], " \n")
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}

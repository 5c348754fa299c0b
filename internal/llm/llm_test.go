package llm

import "testing"

func TestCleanReply(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello there  ", "hello there"},
		{"```\nplain block\n```", "plain block"},
		{"```text\ntagged block\n```", "tagged block"},
		{"```one-liner```", "one-liner"},
		{"no fences at all", "no fences at all"},
		{"prose then ```code``` inline", "prose then ```code``` inline"},
		{"```a```\nmiddle\n```b```", "```a```\nmiddle\n```b```"},
		{"```", "```"},
	}
	for _, tt := range tests {
		got := CleanReply(tt.input)
		if got != tt.want {
			t.Errorf("CleanReply(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

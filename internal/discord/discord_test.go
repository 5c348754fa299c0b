package discord

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		ok      bool
	}{
		{"!start", "start", true},
		{"!HELP", "help", true},
		{"!stats now please", "stats", true},
		{"!", "", true},
		{"hello there", "", false},
		{"", "", false},
		{"what is !important", "", false},
	}

	for _, tt := range tests {
		command, ok := parseCommand(tt.text)
		if command != tt.command || ok != tt.ok {
			t.Errorf("parseCommand(%q) = (%q, %v), want (%q, %v)", tt.text, command, ok, tt.command, tt.ok)
		}
	}
}

func TestStripMention(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"<@123> what is Go?", "what is Go?"},
		{"<@!123> what is Go?", "what is Go?"},
		{"what is Go? <@123>", "what is Go?"},
		{"<@123>", ""},
		{"no mention here", "no mention here"},
		{"<@456> different user", "<@456> different user"},
	}

	for _, tt := range tests {
		if got := stripMention(tt.text, "123"); got != tt.want {
			t.Errorf("stripMention(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

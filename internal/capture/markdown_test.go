package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasMarkdown(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain sentence", "The lighthouse chapter drags a bit.", false},
		{"heading", "# Chapter 4\nNotes on the storm scene", true},
		{"bullet list", "- axial tilt\n- precession", true},
		{"numbered list", "1. setup\n2. payoff", true},
		{"inline code", "the `resolve` helper is key here", true},
		{"fenced code", "```\nfunc main() {}\n```", true},
		{"bold", "this is **crucial** for act two", true},
		{"underscores bold", "remember __this__ detail", true},
		{"link", "see [the map](https://example.com/map)", true},
		{"blockquote", "> call me ishmael", true},
		{"asterisk in prose", "rated 4*5 somehow", false},
		{"hash mid sentence", "question #3 was hard", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMarkdown(tt.text), "text: %q", tt.text)
		})
	}
}

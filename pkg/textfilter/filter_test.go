package textfilter

import (
	"testing"
)

func TestProfanityFilter_FilterText(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple profanity replacement",
			input:    "What the hell is going on?",
			expected: "What the heavens is going on?",
		},
		{
			name:     "multiple profanities",
			input:    "This is damn crap!",
			expected: "This is dash rubbish!",
		},
		{
			name:     "case preservation - uppercase",
			input:    "DAMN that's annoying!",
			expected: "DASH that's annoying!",
		},
		{
			name:     "case preservation - title case",
			input:    "Hell no, that's not right",
			expected: "Heavens no, that's not right",
		},
		{
			name:     "word boundaries - partial matches should not be replaced",
			input:    "I love classical music",
			expected: "I love classical music",
		},
		{
			name:     "compound word wins over its parts",
			input:    "What bullshit.",
			expected: "What poppycock.",
		},
		{
			name:     "slurs are censored",
			input:    "You slut",
			expected: "You [censored]",
		},
		{
			name:     "no profanity",
			input:    "This is a perfectly clean sentence.",
			expected: "This is a perfectly clean sentence.",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "profanity with punctuation",
			input:    "What the hell?! That's damn crazy.",
			expected: "What the heavens?! That's dash crazy.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterText(tt.input)
			if result != tt.expected {
				t.Errorf("FilterText(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestProfanityFilter_ContainsProfanity(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		input    string
		expected bool
	}{
		{"What the hell?", true},
		{"SHIT", true},
		{"A classical assessment", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := filter.ContainsProfanity(tt.input); got != tt.expected {
			t.Errorf("ContainsProfanity(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestPreserveCase(t *testing.T) {
	tests := []struct {
		original    string
		replacement string
		expected    string
	}{
		{"damn", "dash", "dash"},
		{"DAMN", "dash", "DASH"},
		{"Damn", "dash", "Dash"},
		{"dAmN", "dash", "dAsH"},
		{"hElL", "heavens", "hEaVens"},
		{"", "dash", "dash"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			if got := preserveCase(tt.original, tt.replacement); got != tt.expected {
				t.Errorf("preserveCase(%q, %q) = %q, expected %q", tt.original, tt.replacement, got, tt.expected)
			}
		})
	}
}

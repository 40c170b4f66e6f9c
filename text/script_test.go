package text

import (
	"testing"
)

// TestHasEastAsian tests East Asian detection
func TestHasEastAsian(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"日本語", true},
		{"カタカナ", true},
		{"한국어", true},
		{"abc。", true},
		{"ＡＢＣ", true},
		{"English", false},
		{"Ελληνικά", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasEastAsian(tt.text); got != tt.want {
			t.Errorf("HasEastAsian(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

// TestIsBlank tests whitespace detection
func TestIsBlank(t *testing.T) {
	tests := map[string]bool{
		"":        true,
		" \t\n":   true,
		"\u00a0":  true,
		"\u3000 ": true,
		" a ":     false,
		"\u200b":  false,
	}
	for in, want := range tests {
		if got := IsBlank(in); got != want {
			t.Errorf("IsBlank(%q) = %v, want %v", in, got, want)
		}
	}
}

package font

import (
	"testing"
)

// TestGetEncoding tests representative codes of each base encoding
func TestGetEncoding(t *testing.T) {
	tests := []struct {
		encoding string
		code     byte
		want     string
	}{
		{"WinAnsiEncoding", 'A', "A"},
		{"WinAnsiEncoding", 0x80, "€"},
		{"WinAnsiEncoding", 0x93, "“"},
		{"WinAnsiEncoding", 0xE9, "é"},
		{"MacRomanEncoding", 0x8E, "é"},
		{"MacRomanEncoding", 0xA5, "•"},
		{"StandardEncoding", 0x27, "’"},
		{"StandardEncoding", 0xAE, "ﬁ"},
		{"StandardEncoding", 0xD0, "—"},
		{"Symbol", 0x61, "α"},
		{"Symbol", 0xB7, "•"},
		{"Symbol", 0xE5, "∑"},
		{"ZapfDingbats", 0x33, "✓"},
		{"ZapfDingbats", 0x6C, "●"},
		{"ZapfDingbats", 0xAC, "①"},
		{"MacExpertEncoding", 'A', "A"},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			if got := GetEncoding(tt.encoding).Decode(tt.code); got != tt.want {
				t.Errorf("%s[%#x] = %q, want %q", tt.encoding, tt.code, got, tt.want)
			}
		})
	}
}

// TestGetEncodingReturnsCopy tests that differences do not leak into the
// shared tables
func TestGetEncodingReturnsCopy(t *testing.T) {
	e := GetEncoding("WinAnsiEncoding")
	e.ApplyDifferences([]interface{}{65, "Alpha"})
	if GetEncoding("WinAnsiEncoding").Decode('A') != "A" {
		t.Error("ApplyDifferences modified the base encoding")
	}
}

// TestApplyDifferences tests runs of names after a start code
func TestApplyDifferences(t *testing.T) {
	e := GetEncoding("StandardEncoding")
	e.ApplyDifferences([]interface{}{1, "Eacute", "fi", "uni20AC", 40, "g123", "a.sc"})

	tests := []struct {
		code byte
		want string
	}{
		{1, "É"},
		{2, "ﬁ"},
		{3, "€"},
		{40, ""},
		{41, "a"},
		{'B', "B"},
	}
	for _, tt := range tests {
		if got := e.Decode(tt.code); got != tt.want {
			t.Errorf("code %d = %q, want %q", tt.code, got, tt.want)
		}
	}
	if e.GlyphName(40) != "g123" {
		t.Errorf("GlyphName(40) = %q", e.GlyphName(40))
	}
}

// TestGlyphRune tests the supported glyph name forms
func TestGlyphRune(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"A", "A", true},
		{"space", " ", true},
		{"eacute", "é", true},
		{"Scaron", "Š", true},
		{"Aring", "Å", true},
		{"ccedilla", "ç", true},
		{"uni0041", "A", true},
		{"uni00410042", "AB", true},
		{"u1F600", "😀", true},
		{"f_f_i", "ffi", true},
		{"one.oldstyle", "1", true},
		{"bullet", "•", true},
		{"g42", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GlyphRune(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("GlyphRune(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestNormalize tests NFC composition and ligature expansion
func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"é", "é"},
		{"ﬁnance", "finance"},
		{"ﬄ", "ffl"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

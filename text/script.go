package text

import (
	"unicode"
)

var eastAsian = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Bopomofo,
}

// IsEastAsian reports whether r is a CJK ideograph, kana, hangul or
// bopomofo character, or CJK punctuation and full-width forms.
func IsEastAsian(r rune) bool {
	if unicode.IsOneOf(eastAsian, r) {
		return true
	}
	return (r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}

// HasEastAsian reports whether s contains any East Asian character
func HasEastAsian(s string) bool {
	for _, r := range s {
		if IsEastAsian(r) {
			return true
		}
	}
	return false
}

// IsBlank reports whether s holds only whitespace, including no-break
// and ideographic spaces
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && r != '\u00a0' && r != '\u3000' {
			return false
		}
	}
	return true
}

package text

import (
	"unicode"
)

// Direction represents the writing direction of text
type Direction int

const (
	// LTR for Latin, Cyrillic, CJK and most other scripts
	LTR Direction = iota
	// RTL for Arabic, Hebrew, Syriac, Thaana and N'Ko
	RTL
	// Neutral for digits, punctuation, symbols and spaces
	Neutral
)

// String returns "LTR", "RTL" or "Neutral"
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// CharDirection returns the inherent direction of r
func CharDirection(r rune) Direction {
	if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) || unicode.Is(unicode.Mn, r) {
		return Neutral
	}
	if unicode.IsOneOf(rtlScripts, r) {
		return RTL
	}
	return LTR
}

// DetectDirection returns the dominant direction of s: the direction with
// more strong characters, LTR on a tie, Neutral when there are none.
func DetectDirection(s string) Direction {
	ltr, rtl := 0, 0
	for _, r := range s {
		switch CharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	}
	return LTR
}

// IsRTL reports whether s reads right to left
func IsRTL(s string) bool {
	return DetectDirection(s) == RTL
}

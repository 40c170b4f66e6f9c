package font

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ligatures expands presentation-form ligatures into their letters
var ligatures = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
)

// Normalize puts decoded text in NFC form and expands ligatures
func Normalize(s string) string {
	if s == "" {
		return s
	}
	return norm.NFC.String(ligatures.Replace(s))
}

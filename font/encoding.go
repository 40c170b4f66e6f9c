package font

import (
	"golang.org/x/text/encoding/charmap"
)

// Encoding maps single-byte character codes of a simple font to text.
// Unmapped codes hold the empty string.
type Encoding struct {
	Name  string
	codes [256]string
	names [256]string // glyph names from /Differences, for width lookup
}

// Decode returns the text for code
func (e *Encoding) Decode(code byte) string {
	return e.codes[code]
}

// GlyphName returns the glyph name assigned by /Differences, if any
func (e *Encoding) GlyphName(code byte) string {
	return e.names[code]
}

// clone copies the encoding so differences can be applied
func (e *Encoding) clone() *Encoding {
	c := *e
	return &c
}

// ApplyDifferences overlays a /Differences array given as alternating
// start codes and glyph names. Names that map to no text leave the code
// empty, so the decoder falls through to ToUnicode or nothing.
func (e *Encoding) ApplyDifferences(diffs []interface{}) {
	code := -1
	for _, d := range diffs {
		switch v := d.(type) {
		case int:
			code = v
		case string:
			if code < 0 || code > 255 {
				continue
			}
			e.names[code] = v
			if s, ok := GlyphRune(v); ok {
				e.codes[code] = s
			} else {
				e.codes[code] = ""
			}
			code++
		}
	}
}

// GetEncoding returns a copy of a named base encoding. Unknown names and
// MacExpertEncoding yield StandardEncoding.
func GetEncoding(name string) *Encoding {
	var base *Encoding
	switch name {
	case "WinAnsiEncoding":
		base = winAnsiEncoding
	case "MacRomanEncoding":
		base = macRomanEncoding
	case "Symbol", "SymbolEncoding":
		base = symbolEncoding
	case "ZapfDingbats", "ZapfDingbatsEncoding":
		base = zapfDingbatsEncoding
	default:
		base = standardEncoding
	}
	return base.clone()
}

var (
	standardEncoding     = newTableEncoding("StandardEncoding", standardHigh, true)
	winAnsiEncoding      = newCharmapEncoding("WinAnsiEncoding", charmap.Windows1252)
	macRomanEncoding     = newCharmapEncoding("MacRomanEncoding", charmap.Macintosh)
	symbolEncoding       = newRuneEncoding("Symbol", symbolTable())
	zapfDingbatsEncoding = newRuneEncoding("ZapfDingbats", zapfTable())
)

// newCharmapEncoding builds an encoding from a code page. Control codes
// stay unmapped.
func newCharmapEncoding(name string, cm *charmap.Charmap) *Encoding {
	e := &Encoding{Name: name}
	for i := 32; i < 256; i++ {
		if i == 127 {
			continue
		}
		r := cm.DecodeByte(byte(i))
		if r == '�' {
			continue
		}
		e.codes[i] = string(r)
	}
	// PDF readers show WinAnsi's undefined bullet positions as bullets
	if name == "WinAnsiEncoding" {
		for _, c := range []int{0x7F, 0x81, 0x8D, 0x8F, 0x90, 0x9D} {
			e.codes[c] = "•"
		}
		e.codes[0xA0] = " "
		e.codes[0xAD] = "-"
	}
	return e
}

// newTableEncoding starts from printable ASCII and overlays high codes
func newTableEncoding(name string, high map[byte]rune, curlyQuotes bool) *Encoding {
	e := &Encoding{Name: name}
	for i := 32; i < 127; i++ {
		e.codes[i] = string(rune(i))
	}
	if curlyQuotes {
		e.codes['\''] = "’"
		e.codes['`'] = "‘"
	}
	for code, r := range high {
		e.codes[code] = string(r)
	}
	return e
}

func newRuneEncoding(name string, table map[byte]rune) *Encoding {
	e := &Encoding{Name: name}
	for code, r := range table {
		e.codes[code] = string(r)
	}
	return e
}

// standardHigh is the upper half of StandardEncoding
var standardHigh = map[byte]rune{
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄', 0xA5: '¥', 0xA6: 'ƒ',
	0xA7: '§', 0xA8: '¤', 0xA9: '\'', 0xAA: '“', 0xAB: '«', 0xAC: '‹',
	0xAD: '›', 0xAE: 'ﬁ', 0xAF: 'ﬂ', 0xB1: '–', 0xB2: '†', 0xB3: '‡',
	0xB4: '·', 0xB6: '¶', 0xB7: '•', 0xB8: '‚', 0xB9: '„', 0xBA: '”',
	0xBB: '»', 0xBC: '…', 0xBD: '‰', 0xBF: '¿', 0xC1: '`', 0xC2: '´',
	0xC3: 'ˆ', 0xC4: '˜', 0xC5: '¯', 0xC6: '˘', 0xC7: '˙', 0xC8: '¨',
	0xCA: '˚', 0xCB: '¸', 0xCD: '˝', 0xCE: '˛', 0xCF: 'ˇ', 0xD0: '—',
	0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø', 0xEA: 'Œ', 0xEB: 'º',
	0xF1: 'æ', 0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø', 0xFA: 'œ', 0xFB: 'ß',
}

// symbolTable builds the built-in encoding of the Symbol font
func symbolTable() map[byte]rune {
	symbolCodes := make(map[byte]rune, 190)
	symbolASCII := " !∀#∃%&∋()∗+,−./0123456789:;<=>?" +
		"≅ΑΒΧΔΕΦΓΗΙϑΚΛΜΝΟΠΘΡΣΤΥςΩΞΨΖ[∴]⊥_" +
		"‾αβχδεφγηιϕκλμνοπθρστυϖωξψζ{|}∼"
	code := byte(0x20)
	for _, r := range symbolASCII {
		symbolCodes[code] = r
		code++
	}
	symbolHigh := "€ϒ′≤⁄∞ƒ♣♦♥♠↔←↑→↓°±″≥×∝∂•÷≠≡≈…⏐⎯↵" +
		"ℵℑℜ℘⊗⊕∅∩∪⊃⊇⊄⊂⊆∈∉∠∇®©™∏√⋅¬∧∨⇔⇐⇑⇒⇓◊〈®©™∑"
	code = 0xA0
	for _, r := range symbolHigh {
		symbolCodes[code] = r
		code++
	}
	symbolCodes[0xF1] = '〉'
	symbolCodes[0xF2] = '∫'
	symbolCodes[0xF3] = '⌠'
	symbolCodes[0xF4] = '⎮'
	symbolCodes[0xF5] = '⌡'
	return symbolCodes
}

// zapfTable builds the built-in encoding of ZapfDingbats
func zapfTable() map[byte]rune {
	zapfCodes := make(map[byte]rune, 200)
	zapfRanges := []struct {
		from, to byte
		start    rune
	}{
		{0x21, 0x24, 0x2701}, {0x26, 0x29, 0x2706}, {0x2C, 0x47, 0x270C},
		{0x49, 0x6B, 0x2729}, {0x6F, 0x72, 0x274F}, {0x78, 0x7E, 0x2758},
		{0xA1, 0xA7, 0x2761}, {0xAC, 0xB5, 0x2460}, {0xB6, 0xD4, 0x2776},
		{0xD8, 0xEF, 0x2798}, {0xF1, 0xFE, 0x27B1},
	}
	for _, rg := range zapfRanges {
		for c := rg.from; ; c++ {
			zapfCodes[c] = rg.start + rune(c-rg.from)
			if c == rg.to {
				break
			}
		}
	}
	for c, r := range map[byte]rune{
		0x20: ' ', 0x25: '☎', 0x2A: '☛', 0x2B: '☞', 0x48: '★', 0x6C: '●',
		0x6D: '❍', 0x6E: '■', 0x73: '▲', 0x74: '▼', 0x75: '◆', 0x76: '❖',
		0x77: '◗', 0xA8: '♣', 0xA9: '♦', 0xAA: '♥', 0xAB: '♠', 0xD5: '→',
		0xD6: '↔', 0xD7: '↕',
	} {
		zapfCodes[c] = r
	}
	return zapfCodes
}

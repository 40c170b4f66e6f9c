package font

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// glyphNames maps glyph names that are not a base letter plus an accent
// to Unicode. Accented letters are composed on demand in GlyphRune.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"quoteright": '’', "quoteleft": '‘', "parenleft": '(',
	"parenright": ')', "asterisk": '*', "plus": '+', "comma": ',',
	"hyphen": '-', "period": '.', "slash": '/', "colon": ':',
	"semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@', "bracketleft": '[', "backslash": '\\',
	"bracketright": ']', "asciicircum": '^', "underscore": '_',
	"grave": '`', "braceleft": '{', "bar": '|', "braceright": '}',
	"asciitilde": '~',

	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',

	"AE": 'Æ', "ae": 'æ', "OE": 'Œ', "oe": 'œ', "Oslash": 'Ø',
	"oslash": 'ø', "Lslash": 'Ł', "lslash": 'ł', "dotlessi": 'ı',
	"germandbls": 'ß', "Eth": 'Ð', "eth": 'ð', "Thorn": 'Þ', "thorn": 'þ',
	"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ', "ffi": 'ﬃ',
	"ffl": 'ﬄ',

	"endash": '–', "emdash": '—', "bullet": '•',
	"ellipsis": '…', "dagger": '†', "daggerdbl": '‡',
	"quotedblleft": '“', "quotedblright": '”',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"guillemotleft": '«', "guillemotright": '»', "guilsinglleft": '‹',
	"guilsinglright": '›', "perthousand": '‰',
	"trademark": '™', "copyright": '©', "registered": '®',
	"degree": '°', "plusminus": '±', "multiply": '×', "divide": '÷',
	"section": '§', "paragraph": '¶', "cent": '¢', "sterling": '£',
	"yen": '¥', "currency": '¤', "Euro": '€', "florin": 'ƒ',
	"exclamdown": '¡', "questiondown": '¿', "ordfeminine": 'ª',
	"ordmasculine": 'º', "periodcentered": '·', "minus": '−',
	"mu": 'µ', "onehalf": '½', "onequarter": '¼', "threequarters": '¾',
	"onesuperior": '¹', "twosuperior": '²', "threesuperior": '³',
	"logicalnot": '¬', "brokenbar": '¦', "nbspace": ' ',
	"nonbreakingspace": ' ', "sfthyphen": '­',
	"softhyphen": '­', "fraction": '⁄', "circumflex": 'ˆ',
	"tilde": '˜', "macron": '¯', "breve": '˘', "dotaccent": '˙',
	"dieresis": '¨', "ring": '˚', "cedilla": '¸', "hungarumlaut": '˝',
	"ogonek": '˛', "caron": 'ˇ', "acute": '´', "arrowright": '→',
	"arrowleft": '←', "arrowup": '↑', "arrowdown": '↓',
	"arrowboth": '↔', "lozenge": '◊', "infinity": '∞',
	"notequal": '≠', "lessequal": '≤', "greaterequal": '≥',
	"partialdiff": '∂', "summation": '∑', "product": '∏',
	"radical": '√', "integral": '∫', "approxequal": '≈',
	"Delta": '∆', "Omega": 'Ω', "checkmark": '✓',
	"club": '♣', "diamond": '♦', "heart": '♥',
	"spade": '♠', "filledbox": '■', "circle": '○',
	"blackcircle": '●',

	"alpha": 'α', "beta": 'β', "gamma": 'γ', "delta": 'δ', "epsilon": 'ε',
	"zeta": 'ζ', "eta": 'η', "theta": 'θ', "iota": 'ι', "kappa": 'κ',
	"lambda": 'λ', "nu": 'ν', "xi": 'ξ', "omicron": 'ο', "pi": 'π',
	"rho": 'ρ', "sigma": 'σ', "sigma1": 'ς', "tau": 'τ', "upsilon": 'υ',
	"phi": 'φ', "chi": 'χ', "psi": 'ψ', "omega": 'ω', "Alpha": 'Α',
	"Beta": 'Β', "Gamma": 'Γ', "Epsilon": 'Ε', "Zeta": 'Ζ', "Eta": 'Η',
	"Theta": 'Θ', "Iota": 'Ι', "Kappa": 'Κ', "Lambda": 'Λ', "Mu": 'Μ',
	"Nu": 'Ν', "Xi": 'Ξ', "Omicron": 'Ο', "Pi": 'Π', "Rho": 'Ρ',
	"Sigma": 'Σ', "Tau": 'Τ', "Upsilon": 'Υ', "Phi": 'Φ', "Chi": 'Χ',
	"Psi": 'Ψ',
}

// accents maps accent suffixes of glyph names to combining marks
var accents = map[string]rune{
	"acute":        '́',
	"grave":        '̀',
	"circumflex":   '̂',
	"tilde":        '̃',
	"macron":       '̄',
	"breve":        '̆',
	"dotaccent":    '̇',
	"dieresis":     '̈',
	"ring":         '̊',
	"hungarumlaut": '̋',
	"caron":        '̌',
	"commaaccent":  '̦',
	"cedilla":      '̧',
	"ogonek":       '̨',
}

// GlyphRune maps a glyph name to text. It understands the names used by
// the standard encodings, letters with accent suffixes (eacute, Scaron),
// the uniXXXX and uXXXX forms, and ligature names joined with underscores.
// Suffixes after a period (a.sc, one.oldstyle) are ignored.
func GlyphRune(name string) (string, bool) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if strings.Contains(name, "_") {
		var sb strings.Builder
		for _, part := range strings.Split(name, "_") {
			s, ok := GlyphRune(part)
			if !ok {
				return "", false
			}
			sb.WriteString(s)
		}
		return sb.String(), true
	}

	if r, ok := glyphNames[name]; ok {
		return string(r), true
	}
	if len(name) == 1 && isASCIILetter(name[0]) {
		return name, true
	}
	if s, ok := unicodeName(name); ok {
		return s, true
	}
	if len(name) > 1 && isASCIILetter(name[0]) {
		if mark, ok := accents[name[1:]]; ok {
			composed := norm.NFC.String(string([]rune{rune(name[0]), mark}))
			if utf8.RuneCountInString(composed) == 1 {
				return composed, true
			}
		}
	}
	return "", false
}

// unicodeName decodes uniXXXX (possibly several code units) and uXXXX[XX]
func unicodeName(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, "uni") && len(name) >= 7 && (len(name)-3)%4 == 0:
		var sb strings.Builder
		for i := 3; i < len(name); i += 4 {
			v, err := strconv.ParseUint(name[i:i+4], 16, 32)
			if err != nil {
				return "", false
			}
			sb.WriteRune(rune(v))
		}
		return sb.String(), true
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return "", false
		}
		return string(rune(v)), true
	}
	return "", false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

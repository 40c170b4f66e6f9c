package font

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdf2docx/core"
)

// DefaultWidth is used when a font supplies no width for a code
const DefaultWidth = 500.0

// font descriptor flag bits
const (
	flagSymbolic   = 1 << 2
	flagItalic     = 1 << 6
	flagForceBold  = 1 << 18
	flagNonSymbols = 1 << 5
)

// Font is a resolved PDF font: how to split strings into codes, what text
// each code stands for, and how far each glyph advances.
type Font struct {
	Name     string // resource name, e.g. F1
	BaseFont string // PostScript name with any subset prefix removed
	Subtype  string
	Bold     bool
	Italic   bool
	Vertical bool

	composite bool
	encoding  *Encoding // simple fonts
	cmap      *CMap     // composite fonts: code to CID
	toUnicode *CMap

	widths       map[int]float64 // by code (simple) or CID (composite)
	defaultWidth float64
	widthScale   float64 // Type3 glyph space to 1000 units per em
	family       metricFamily
}

// Glyph is one decoded character code
type Glyph struct {
	Code    uint32
	Text    string
	Width   float64 // in 1000ths of text space units
	IsSpace bool    // single-byte code 32, which receives word spacing
}

// Fallback returns the font used when a font resource cannot be resolved:
// StandardEncoding with default widths.
func Fallback(name string) *Font {
	return &Font{
		Name:         name,
		BaseFont:     "Helvetica",
		Subtype:      "Type1",
		encoding:     GetEncoding("StandardEncoding"),
		widths:       map[int]float64{},
		defaultWidth: DefaultWidth,
		widthScale:   1,
	}
}

// IsComposite reports whether the font is a Type0 font
func (f *Font) IsComposite() bool {
	return f.composite
}

// Decode splits a shown string into glyphs with their text and widths
func (f *Font) Decode(data []byte) []Glyph {
	if f.composite {
		return f.decodeComposite(data)
	}
	glyphs := make([]Glyph, 0, len(data))
	for _, b := range data {
		g := Glyph{Code: uint32(b), IsSpace: b == ' '}
		g.Text = f.simpleText(b)
		g.Width = f.simpleWidth(b, g.Text)
		glyphs = append(glyphs, g)
	}
	return glyphs
}

func (f *Font) simpleText(b byte) string {
	if f.toUnicode != nil {
		if s, ok := f.toUnicode.Unicode(uint32(b)); ok {
			return Normalize(s)
		}
	}
	if f.encoding != nil {
		return Normalize(f.encoding.Decode(b))
	}
	return ""
}

func (f *Font) simpleWidth(b byte, text string) float64 {
	if w, ok := f.widths[int(b)]; ok {
		return w * f.widthScale
	}
	if f.family != familyNone {
		r, _ := utf8.DecodeRuneInString(text)
		if name := f.glyphName(b); name != "" {
			if s, ok := GlyphRune(name); ok {
				r, _ = utf8.DecodeRuneInString(s)
			}
		}
		if w, ok := standardWidth(f.family, r); ok {
			return w
		}
	}
	return f.defaultWidth * f.widthScale
}

func (f *Font) glyphName(b byte) string {
	if f.encoding == nil {
		return ""
	}
	return f.encoding.GlyphName(b)
}

func (f *Font) decodeComposite(data []byte) []Glyph {
	codes := f.cmap.Split(data)
	glyphs := make([]Glyph, 0, len(codes))
	for _, c := range codes {
		cid, ok := f.cmap.CID(c.Value)
		if !ok {
			cid = int(c.Value)
		}
		g := Glyph{Code: c.Value, IsSpace: c.Len == 1 && c.Value == ' '}

		switch {
		case f.toUnicode != nil:
			if s, ok := f.toUnicode.Unicode(c.Value); ok {
				g.Text = Normalize(s)
			}
		case f.cmap.ucs2:
			g.Text, _ = f.cmap.Unicode(c.Value)
		default:
			// without a ToUnicode map an Identity CID is often the code point
			if r := rune(cid); r >= 0x20 && utf8.ValidRune(r) && r != utf8.RuneError {
				g.Text = string(r)
			}
		}

		if w, ok := f.widths[cid]; ok {
			g.Width = w
		} else {
			g.Width = f.defaultWidth
		}
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// StripSubset removes a six letter subset tag such as "ABCDEF+"
func StripSubset(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

// styleFromName derives bold and italic traits from a PostScript name
func styleFromName(name string) (bold, italic bool) {
	lower := strings.ToLower(name)
	for _, w := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(lower, w) {
			bold = true
		}
	}
	for _, w := range []string{"italic", "oblique", "slanted"} {
		if strings.Contains(lower, w) {
			italic = true
		}
	}
	// ",It" and "-It" style suffixes used by some producers
	if strings.HasSuffix(lower, ",it") || strings.HasSuffix(lower, "-it") {
		italic = true
	}
	return bold, italic
}

// descriptorStyle reads traits from a font descriptor
func descriptorStyle(r core.Resolver, desc core.Dict) (bold, italic bool) {
	if desc == nil {
		return false, false
	}
	flags, _ := core.ResolveNumber(r, desc.Get("Flags"))
	f := int(flags)
	bold = f&flagForceBold != 0
	italic = f&flagItalic != 0
	if weight, ok := core.ResolveNumber(r, desc.Get("FontWeight")); ok && weight >= 600 {
		bold = true
	}
	if angle, ok := core.ResolveNumber(r, desc.Get("ItalicAngle")); ok && angle != 0 {
		italic = true
	}
	return bold, italic
}

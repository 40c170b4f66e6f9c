package font

import (
	"math"

	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/logging"
)

// Resolver builds fonts from resource dictionaries and caches them by the
// font dictionary's object reference, so a font shared by many pages is
// parsed once per document.
type Resolver struct {
	r     core.Resolver
	cache map[core.Ref]*Font
}

// NewResolver returns a font resolver reading objects through r
func NewResolver(r core.Resolver) *Resolver {
	return &Resolver{r: r, cache: make(map[core.Ref]*Font)}
}

// Font returns the font named by a /Font resource entry. It never returns
// nil; unresolvable fonts yield Fallback. The second result reports
// whether the real font was found.
func (fr *Resolver) Font(name string, resources core.Dict) (*Font, bool) {
	fonts, ok := core.ResolveDict(fr.r, resources.Get("Font"))
	if !ok {
		return Fallback(name), false
	}
	obj := fonts.Get(name)
	ref, isRef := obj.(core.Ref)
	if isRef {
		if f, ok := fr.cache[ref]; ok {
			return f.withName(name), true
		}
	}

	dict, ok := core.ResolveDict(fr.r, obj)
	if !ok {
		logging.Logger().Debug("font not found", "font", name)
		return Fallback(name), false
	}
	f := fr.build(name, dict)
	if isRef {
		fr.cache[ref] = f
	}
	return f, true
}

// withName returns f under another resource name, sharing the tables
func (f *Font) withName(name string) *Font {
	if f.Name == name {
		return f
	}
	c := *f
	c.Name = name
	return &c
}

// Load builds a font from its dictionary without caching
func (fr *Resolver) Load(name string, dict core.Dict) *Font {
	return fr.build(name, dict)
}

func (fr *Resolver) build(name string, dict core.Dict) *Font {
	subtype, _ := dict.Name("Subtype")
	baseFont, _ := core.ResolveName(fr.r, dict.Get("BaseFont"))
	f := &Font{
		Name:         name,
		BaseFont:     StripSubset(baseFont),
		Subtype:      subtype,
		widths:       make(map[int]float64),
		defaultWidth: DefaultWidth,
		widthScale:   1,
	}
	f.Bold, f.Italic = styleFromName(f.BaseFont)

	if stream, ok := core.ResolveStream(fr.r, dict.Get("ToUnicode")); ok {
		if cm, err := ParseCMapStream(stream); err == nil && cm.Len() > 0 {
			f.toUnicode = cm
		} else if err != nil {
			logging.Logger().Debug("bad ToUnicode map", "font", name, "error", err)
		}
	}

	if subtype == "Type0" {
		fr.buildComposite(f, dict)
	} else {
		fr.buildSimple(f, dict)
	}
	return f
}

func (fr *Resolver) buildSimple(f *Font, dict core.Dict) {
	desc, _ := core.ResolveDict(fr.r, dict.Get("FontDescriptor"))
	if bold, italic := descriptorStyle(fr.r, desc); bold || italic {
		f.Bold = f.Bold || bold
		f.Italic = f.Italic || italic
	}
	f.family = standardFamily(f.BaseFont)
	f.encoding = fr.simpleEncoding(f, dict, desc)

	if first, ok := core.ResolveNumber(fr.r, dict.Get("FirstChar")); ok {
		if widths, ok := core.ResolveNumbers(fr.r, dict.Get("Widths")); ok {
			for i, w := range widths {
				f.widths[int(first)+i] = w
			}
		}
	}
	if desc != nil {
		if mw, ok := core.ResolveNumber(fr.r, desc.Get("MissingWidth")); ok && mw > 0 {
			f.defaultWidth = mw
		}
	}

	if f.Subtype == "Type3" {
		// Type3 widths are in glyph space; the font matrix maps them to
		// text space
		if m, ok := core.ResolveNumbers(fr.r, dict.Get("FontMatrix")); ok && len(m) == 6 && m[0] != 0 {
			f.widthScale = math.Abs(m[0]) * 1000
		} else {
			f.widthScale = 1
		}
		f.defaultWidth = 0
		if f.widthScale != 1 {
			f.defaultWidth = DefaultWidth / f.widthScale
		}
	}
}

// simpleEncoding chooses the base encoding and applies /Differences.
// Symbol and ZapfDingbats use their built-in encodings; other symbolic
// fonts without an /Encoding use StandardEncoding.
func (fr *Resolver) simpleEncoding(f *Font, dict, desc core.Dict) *Encoding {
	base := "StandardEncoding"
	switch f.family {
	case familySymbol:
		base = "Symbol"
	case familyDingbats:
		base = "ZapfDingbats"
	default:
		if desc != nil {
			flags, _ := core.ResolveNumber(fr.r, desc.Get("Flags"))
			if int(flags)&flagNonSymbols != 0 && int(flags)&flagSymbolic == 0 && f.Subtype == "TrueType" {
				base = "WinAnsiEncoding"
			}
		}
	}

	encObj, _ := fr.r.Resolve(dict.Get("Encoding"))
	switch enc := encObj.(type) {
	case core.Name:
		if f.family != familySymbol && f.family != familyDingbats {
			base = string(enc)
		}
		return GetEncoding(base)
	case core.Dict:
		if name, ok := enc.Name("BaseEncoding"); ok {
			base = name
		}
		e := GetEncoding(base)
		if diffs, ok := core.ResolveArray(fr.r, enc.Get("Differences")); ok {
			e.ApplyDifferences(differences(diffs))
		}
		return e
	}
	return GetEncoding(base)
}

// differences converts a /Differences array to ints and glyph names
func differences(arr core.Array) []interface{} {
	out := make([]interface{}, 0, len(arr))
	for _, el := range arr {
		switch v := el.(type) {
		case core.Int:
			out = append(out, int(v))
		case core.Real:
			out = append(out, int(v))
		case core.Name:
			out = append(out, string(v))
		}
	}
	return out
}

func (fr *Resolver) buildComposite(f *Font, dict core.Dict) {
	f.composite = true

	encObj, _ := fr.r.Resolve(dict.Get("Encoding"))
	switch enc := encObj.(type) {
	case core.Name:
		f.cmap = PredefinedCMap(string(enc))
	case *core.Stream:
		cm, err := ParseCMapStream(enc)
		if err != nil || (!cm.HasCodespace() && cm.Len() == 0) {
			logging.Logger().Debug("unusable encoding cmap", "font", f.Name)
			cm = IdentityCMap(false)
		}
		if !cm.HasCodespace() && cm.Len() == 0 {
			cm = IdentityCMap(cm.Vertical)
		}
		f.cmap = cm
	default:
		f.cmap = IdentityCMap(false)
	}
	f.Vertical = f.cmap.Vertical

	descendants, _ := core.ResolveArray(fr.r, dict.Get("DescendantFonts"))
	if len(descendants) == 0 {
		return
	}
	cid, ok := core.ResolveDict(fr.r, descendants[0])
	if !ok {
		return
	}
	if desc, ok := core.ResolveDict(fr.r, cid.Get("FontDescriptor")); ok {
		if bold, italic := descriptorStyle(fr.r, desc); bold || italic {
			f.Bold = f.Bold || bold
			f.Italic = f.Italic || italic
		}
	}
	if dw, ok := core.ResolveNumber(fr.r, cid.Get("DW")); ok {
		f.defaultWidth = dw
	} else {
		f.defaultWidth = 1000
	}
	if w, ok := core.ResolveArray(fr.r, cid.Get("W")); ok {
		fr.parseW(f, w)
	}
}

// parseW reads a CID width array: "c [w1 w2 ...]" and "cfirst clast w"
func (fr *Resolver) parseW(f *Font, w core.Array) {
	for i := 0; i < len(w); {
		first, ok := core.ResolveNumber(fr.r, w[i])
		if !ok || i+1 >= len(w) {
			return
		}
		next, _ := fr.r.Resolve(w[i+1])
		if list, ok := next.(core.Array); ok {
			for j, el := range list {
				if v, ok := core.ResolveNumber(fr.r, el); ok {
					f.widths[int(first)+j] = v
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			return
		}
		last, ok1 := core.ResolveNumber(fr.r, w[i+1])
		width, ok2 := core.ResolveNumber(fr.r, w[i+2])
		if !ok1 || !ok2 || last < first || last-first > maxRangeSpan {
			i += 3
			continue
		}
		for c := int(first); c <= int(last); c++ {
			f.widths[c] = width
		}
		i += 3
	}
}

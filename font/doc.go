// Package font resolves PDF fonts for text extraction.
//
// A [Resolver] turns entries of a /Font resource dictionary into [Font]
// values and caches them per document by object reference:
//
//	fonts := font.NewResolver(doc.Resolver())
//	f, found := fonts.Font("F1", page.Resources)
//	for _, g := range f.Decode(shownBytes) {
//	    fmt.Println(g.Text, g.Width)
//	}
//
// Simple fonts (Type1, MMType1, TrueType, Type3) decode one byte per code
// through a base encoding (StandardEncoding, WinAnsiEncoding,
// MacRomanEncoding, or the Symbol and ZapfDingbats built-ins) with
// /Differences applied by glyph name. Composite (Type0) fonts split strings
// with the codespace ranges of their encoding CMap, longest match first.
// A /ToUnicode CMap overrides every other source of text.
//
// Widths come from /Widths or the descendant /W and /DW entries, then the
// standard 14 metrics, then a default of 500 units per em. Decoded text is
// NFC normalized and ligatures are expanded.
package font

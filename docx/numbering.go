package docx

import (
	"fmt"

	"github.com/tsawler/pdf2docx/ir"
)

// The numbering catalog is fixed: abstract definition 1 is the bullet
// scheme and 2..16 cover every ordered format with every punctuation, in
// the order of orderedFormats and punctuations. Each w:num reuses the id
// of its abstract definition.

var orderedFormats = []string{"decimal", "lowerLetter", "upperLetter", "lowerRoman", "upperRoman"}

var punctuations = []string{"dot", "paren", "enclosed"}

// levelCycle gives the format of each of the nine levels of an ordered
// scheme
var levelCycle = map[string][3]string{
	"decimal":     {"decimal", "lowerLetter", "lowerRoman"},
	"lowerLetter": {"lowerLetter", "lowerRoman", "decimal"},
	"upperLetter": {"upperLetter", "upperRoman", "decimal"},
	"lowerRoman":  {"lowerRoman", "decimal", "lowerLetter"},
	"upperRoman":  {"upperRoman", "decimal", "upperLetter"},
}

var bulletGlyphs = []string{"•", "◦", "▪", "–"}

// BulletNumID is the numbering id of bulleted lists
const BulletNumID = 1

// NumberingID returns the catalog id for a list. Unknown formats and
// punctuation fall back to decimal and dot.
func NumberingID(n *ir.Numbering) int {
	if n == nil || n.Kind == ir.NumberingBullet {
		return BulletNumID
	}
	f := indexOf(orderedFormats, n.Format)
	p := indexOf(punctuations, n.Punctuation)
	return 2 + f*len(punctuations) + p
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

// affixes returns the text around the level number for a punctuation
func affixes(punct string) (prefix, suffix string) {
	switch punct {
	case "paren":
		return "", ")"
	case "enclosed":
		return "(", ")"
	}
	return "", "."
}

func writeLevelIndent(w *xmlWriter, level int) {
	w.open("w:pPr")
	w.empty("w:ind", "w:left", itoa(360+level*360), "w:hanging", "360")
	w.close()
}

// numberingPart renders word/numbering.xml
func numberingPart() ([]byte, error) {
	w := newXMLWriter()
	w.open("w:numbering", "xmlns:w", nsW)

	w.open("w:abstractNum", "w:abstractNumId", itoa(BulletNumID))
	w.empty("w:multiLevelType", "w:val", "hybridMultilevel")
	for lvl := 0; lvl <= ir.MaxLevel; lvl++ {
		w.open("w:lvl", "w:ilvl", itoa(lvl))
		w.empty("w:start", "w:val", "1")
		w.empty("w:numFmt", "w:val", "bullet")
		w.empty("w:lvlText", "w:val", bulletGlyphs[lvl%len(bulletGlyphs)])
		w.empty("w:lvlJc", "w:val", "left")
		writeLevelIndent(w, lvl)
		w.close()
	}
	w.close()

	id := 2
	for _, format := range orderedFormats {
		cycle := levelCycle[format]
		for _, punct := range punctuations {
			prefix, suffix := affixes(punct)
			w.open("w:abstractNum", "w:abstractNumId", itoa(id))
			w.empty("w:multiLevelType", "w:val", "hybridMultilevel")
			for lvl := 0; lvl <= ir.MaxLevel; lvl++ {
				w.open("w:lvl", "w:ilvl", itoa(lvl))
				w.empty("w:start", "w:val", "1")
				w.empty("w:numFmt", "w:val", cycle[lvl%3])
				w.empty("w:lvlText", "w:val", fmt.Sprintf("%s%%%d%s", prefix, lvl+1, suffix))
				w.empty("w:lvlJc", "w:val", "left")
				writeLevelIndent(w, lvl)
				w.close()
			}
			w.close()
			id++
		}
	}

	for n := 1; n < id; n++ {
		w.open("w:num", "w:numId", itoa(n))
		w.empty("w:abstractNumId", "w:val", itoa(n))
		w.close()
	}
	w.close()
	return w.bytes()
}

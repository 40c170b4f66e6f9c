package docx

// styleDef is one entry of the fixed style catalog. Lengths are in twips
// and sizes in half-points; zero means unset.
type styleDef struct {
	id, name, kind, basedOn string
	isDefault, quick        bool
	semiHidden              bool

	keepNext, keepLines bool
	before, after       int
	spacingSet          bool
	left, right         int
	hanging             int
	jc                  string
	outline             int // outline level plus one

	font      string
	bold      bool
	italic    bool
	size      int
	color     string
	underline bool
	vertAlign string

	tableBorders bool
}

var styleCatalog = []styleDef{
	{id: "Normal", name: "Normal", kind: "paragraph", isDefault: true, quick: true, after: 160, spacingSet: true},
	{id: "DefaultParagraphFont", name: "Default Paragraph Font", kind: "character", isDefault: true, semiHidden: true},
	{id: "TableNormal", name: "Normal Table", kind: "table", isDefault: true, semiHidden: true},
	{id: "Title", name: "Title", kind: "paragraph", basedOn: "Normal", quick: true, jc: "center", after: 160, spacingSet: true, bold: true, size: 48},
	{id: "Subtitle", name: "Subtitle", kind: "paragraph", basedOn: "Normal", quick: true, jc: "center", after: 160, spacingSet: true, italic: true, size: 28},
	{id: "Heading1", name: "heading 1", kind: "paragraph", basedOn: "Normal", quick: true, keepNext: true, keepLines: true, before: 240, after: 120, spacingSet: true, outline: 1, bold: true, size: 32},
	{id: "Heading2", name: "heading 2", kind: "paragraph", basedOn: "Normal", quick: true, keepNext: true, keepLines: true, before: 240, after: 120, spacingSet: true, outline: 2, bold: true, size: 26},
	{id: "Heading3", name: "heading 3", kind: "paragraph", basedOn: "Normal", quick: true, keepNext: true, keepLines: true, before: 240, after: 120, spacingSet: true, outline: 3, bold: true, size: 22},
	{id: "ListParagraph", name: "List Paragraph", kind: "paragraph", basedOn: "Normal", quick: true, after: 120, spacingSet: true, left: 720, hanging: 360},
	{id: "Quote", name: "Quote", kind: "paragraph", basedOn: "Normal", quick: true, after: 160, spacingSet: true, left: 720, right: 720, italic: true},
	{id: "Caption", name: "caption", kind: "paragraph", basedOn: "Normal", quick: true, jc: "center", before: 120, after: 120, spacingSet: true, italic: true, size: 18},
	{id: "Code", name: "Code", kind: "paragraph", basedOn: "Normal", quick: true, after: 160, spacingSet: true, font: "Courier New", size: 20},
	{id: "Hyperlink", name: "Hyperlink", kind: "character", basedOn: "DefaultParagraphFont", color: "0563C1", underline: true},
	{id: "FootnoteText", name: "footnote text", kind: "paragraph", basedOn: "Normal", after: 0, spacingSet: true, size: 20},
	{id: "FootnoteReference", name: "footnote reference", kind: "character", basedOn: "DefaultParagraphFont", vertAlign: "superscript"},
	{id: "EndnoteText", name: "endnote text", kind: "paragraph", basedOn: "Normal", after: 0, spacingSet: true, size: 20},
	{id: "EndnoteReference", name: "endnote reference", kind: "character", basedOn: "DefaultParagraphFont", vertAlign: "superscript"},
	{id: "CommentText", name: "annotation text", kind: "paragraph", basedOn: "Normal", size: 20},
	{id: "CommentReference", name: "annotation reference", kind: "character", basedOn: "DefaultParagraphFont", size: 16},
	{id: "TOCHeading", name: "TOC Heading", kind: "paragraph", basedOn: "Heading1", quick: true},
	{id: "TOC1", name: "toc 1", kind: "paragraph", basedOn: "Normal", after: 100, spacingSet: true},
	{id: "TOC2", name: "toc 2", kind: "paragraph", basedOn: "Normal", after: 100, spacingSet: true, left: 220},
	{id: "TOC3", name: "toc 3", kind: "paragraph", basedOn: "Normal", after: 100, spacingSet: true, left: 440},
	{id: "TableGrid", name: "Table Grid", kind: "table", basedOn: "TableNormal", tableBorders: true},
}

// StyleIDs lists the ids of the style catalog
func StyleIDs() []string {
	out := make([]string, len(styleCatalog))
	for i, s := range styleCatalog {
		out[i] = s.id
	}
	return out
}

// stylesPart renders word/styles.xml. lang is the default run language.
func stylesPart(lang string) ([]byte, error) {
	if lang == "" {
		lang = "en-US"
	}
	w := newXMLWriter()
	w.open("w:styles", "xmlns:w", nsW)

	w.open("w:docDefaults")
	w.open("w:rPrDefault")
	w.open("w:rPr")
	w.empty("w:rFonts", "w:ascii", "Calibri", "w:hAnsi", "Calibri", "w:cs", "Calibri")
	w.empty("w:sz", "w:val", "22")
	w.empty("w:lang", "w:val", lang)
	w.close()
	w.close()
	w.open("w:pPrDefault")
	w.open("w:pPr")
	w.empty("w:spacing", "w:before", "0", "w:after", "160", "w:line", "240", "w:lineRule", "auto")
	w.close()
	w.close()
	w.close()

	for _, s := range styleCatalog {
		writeStyle(w, s)
	}
	w.close()
	return w.bytes()
}

func writeStyle(w *xmlWriter, s styleDef) {
	kv := []string{"w:type", s.kind}
	if s.isDefault {
		kv = append(kv, "w:default", "1")
	}
	kv = append(kv, "w:styleId", s.id)
	w.open("w:style", kv...)
	w.empty("w:name", "w:val", s.name)
	if s.basedOn != "" {
		w.empty("w:basedOn", "w:val", s.basedOn)
	}
	if s.kind == "paragraph" && s.id != "Normal" {
		w.empty("w:next", "w:val", "Normal")
	}
	if s.semiHidden {
		w.empty("w:semiHidden")
		w.empty("w:unhideWhenUsed")
	}
	if s.quick {
		w.empty("w:qFormat")
	}

	if s.keepNext || s.keepLines || s.spacingSet || s.left != 0 || s.right != 0 || s.hanging != 0 || s.jc != "" || s.outline != 0 {
		w.open("w:pPr")
		if s.keepNext {
			w.empty("w:keepNext")
		}
		if s.keepLines {
			w.empty("w:keepLines")
		}
		if s.spacingSet {
			w.empty("w:spacing", "w:before", itoa(s.before), "w:after", itoa(s.after))
		}
		if s.left != 0 || s.right != 0 || s.hanging != 0 {
			var ind []string
			if s.left != 0 {
				ind = append(ind, "w:left", itoa(s.left))
			}
			if s.right != 0 {
				ind = append(ind, "w:right", itoa(s.right))
			}
			if s.hanging != 0 {
				ind = append(ind, "w:hanging", itoa(s.hanging))
			}
			w.empty("w:ind", ind...)
		}
		if s.jc != "" {
			w.empty("w:jc", "w:val", s.jc)
		}
		if s.outline != 0 {
			w.empty("w:outlineLvl", "w:val", itoa(s.outline-1))
		}
		w.close()
	}

	if s.font != "" || s.bold || s.italic || s.size != 0 || s.color != "" || s.underline || s.vertAlign != "" {
		w.open("w:rPr")
		if s.font != "" {
			w.empty("w:rFonts", "w:ascii", s.font, "w:hAnsi", s.font, "w:cs", s.font)
		}
		if s.bold {
			w.empty("w:b")
		}
		if s.italic {
			w.empty("w:i")
		}
		if s.color != "" {
			w.empty("w:color", "w:val", s.color)
		}
		if s.size != 0 {
			w.empty("w:sz", "w:val", itoa(s.size))
		}
		if s.underline {
			w.empty("w:u", "w:val", "single")
		}
		if s.vertAlign != "" {
			w.empty("w:vertAlign", "w:val", s.vertAlign)
		}
		w.close()
	}

	if s.kind == "table" {
		w.open("w:tblPr")
		if s.tableBorders {
			writeBorders(w, "w:tblBorders", "single", "auto")
		}
		w.open("w:tblCellMar")
		w.empty("w:left", "w:w", "108", "w:type", "dxa")
		w.empty("w:right", "w:w", "108", "w:type", "dxa")
		w.close()
		w.close()
	}
	w.close()
}

var borderSides = []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"}

func writeBorders(w *xmlWriter, name, val, color string) {
	w.open(name)
	for _, side := range borderSides {
		if val == "nil" {
			w.empty(side, "w:val", "nil")
			continue
		}
		w.empty(side, "w:val", val, "w:sz", "4", "w:space", "0", "w:color", color)
	}
	w.close()
}

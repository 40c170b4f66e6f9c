package docx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/model"
)

// nsAttrs declares the namespaces used by story parts
func nsAttrs() []string {
	return []string{
		"xmlns:w", nsW,
		"xmlns:r", nsR,
		"xmlns:wp", nsWP,
		"xmlns:a", nsA,
		"xmlns:pic", nsPic,
		"xmlns:m", nsM,
	}
}

// paraOpts carries context a paragraph inherits from its container
type paraOpts struct {
	align    model.Alignment // cell alignment used when the paragraph has none
	leadRef  string          // w:footnoteRef, w:endnoteRef or w:annotationRef
	refStyle string
}

// documentPart renders word/document.xml
func (p *packager) documentPart() ([]byte, error) {
	w := newXMLWriter()
	w.open("w:document", nsAttrs()...)
	w.open("w:body")
	sections := p.doc.Sections
	if len(sections) == 0 {
		sections = []*ir.Section{defaultSection()}
	}
	for i, s := range sections {
		p.writeElements(w, p.rels, s.Elements, paraOpts{})
		if i == len(sections)-1 {
			if err := p.writeSectPr(w, s); err != nil {
				return nil, err
			}
			continue
		}
		w.open("w:p")
		w.open("w:pPr")
		if err := p.writeSectPr(w, s); err != nil {
			return nil, err
		}
		w.close()
		w.close()
	}
	w.close()
	w.close()
	return w.bytes()
}

func defaultSection() *ir.Section {
	return &ir.Section{
		PageWidth:   612,
		PageHeight:  792,
		Margins:     ir.Margins{Top: 72, Bottom: 72, Left: 72, Right: 72},
		Columns:     1,
		Orientation: ir.Portrait,
	}
}

func (p *packager) writeElements(w *xmlWriter, rels *RelationshipManager, elements []ir.Element, opts paraOpts) {
	for _, e := range elements {
		switch v := e.(type) {
		case ir.ParagraphID:
			if para := p.doc.Paragraph(v); para != nil {
				p.writeParagraph(w, rels, para, opts)
			}
		case *ir.Table:
			p.writeTable(w, rels, v)
		case *ir.Picture:
			p.writePicture(w, rels, v, "")
		case *ir.Equation:
			p.writeEquation(w, rels, v)
		}
	}
}

func (p *packager) writeParagraph(w *xmlWriter, rels *RelationshipManager, para *ir.Paragraph, opts paraOpts) {
	w.open("w:p")
	writeParagraphProps(w, para, opts.align)
	if para.ColumnBreakBefore {
		w.open("w:r")
		w.empty("w:br", "w:type", "column")
		w.close()
	}

	var marks []int
	seen := make(map[string]bool)
	for _, name := range para.Bookmarks {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		p.bookmarks++
		w.empty("w:bookmarkStart", "w:id", itoa(p.bookmarks), "w:name", name)
		marks = append(marks, p.bookmarks)
	}

	if opts.leadRef != "" {
		w.open("w:r")
		w.open("w:rPr")
		w.empty("w:rStyle", "w:val", opts.refStyle)
		w.close()
		w.empty(opts.leadRef)
		w.close()
		if opts.leadRef != "w:annotationRef" {
			w.open("w:r")
			w.leaf("w:t", " ", "xml:space", "preserve")
			w.close()
		}
	}

	if instr := para.FieldInstruction; instr != "" {
		w.open("w:r")
		w.empty("w:fldChar", "w:fldCharType", "begin", "w:dirty", "true")
		w.close()
		w.open("w:r")
		w.leaf("w:instrText", " "+strings.TrimSpace(instr)+" ", "xml:space", "preserve")
		w.close()
		w.open("w:r")
		w.empty("w:fldChar", "w:fldCharType", "separate")
		w.close()
		p.writeRuns(w, rels, para.Runs)
		w.open("w:r")
		w.empty("w:fldChar", "w:fldCharType", "end")
		w.close()
	} else {
		p.writeRuns(w, rels, para.Runs)
	}

	for _, id := range marks {
		w.empty("w:bookmarkEnd", "w:id", itoa(id))
	}
	w.close()
}

func writeParagraphProps(w *xmlWriter, para *ir.Paragraph, inherited model.Alignment) {
	align := para.Alignment
	if align == model.AlignNone {
		align = inherited
	}
	style := para.Style
	if style == "Normal" {
		style = ""
	}
	spacing := para.SpacingBefore > 0 || para.SpacingAfter > 0 || para.LineSpacing > 0
	indent := para.Numbering == nil && (para.LeftIndent != 0 || para.FirstLineIndent != 0 || para.HangingIndent != 0)
	fill := hexColor(para.Background)
	if style == "" && para.Numbering == nil && align == model.AlignNone && !spacing && !indent &&
		!para.KeepLines && !para.KeepWithNext && !para.PageBreakBefore && !para.Bidi && fill == "" {
		return
	}

	w.open("w:pPr")
	if style != "" {
		w.empty("w:pStyle", "w:val", style)
	}
	if para.KeepWithNext {
		w.empty("w:keepNext")
	}
	if para.KeepLines {
		w.empty("w:keepLines")
	}
	if para.PageBreakBefore {
		w.empty("w:pageBreakBefore")
	}
	if n := para.Numbering; n != nil {
		w.open("w:numPr")
		w.empty("w:ilvl", "w:val", itoa(min(max(n.Level, 0), ir.MaxLevel)))
		w.empty("w:numId", "w:val", itoa(NumberingID(n)))
		w.close()
	}
	if fill != "" {
		w.empty("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", fill)
	}
	if para.Bidi {
		w.empty("w:bidi")
	}
	if spacing {
		var kv []string
		if para.SpacingBefore > 0 {
			kv = append(kv, "w:before", tw(para.SpacingBefore))
		}
		if para.SpacingAfter > 0 {
			kv = append(kv, "w:after", tw(para.SpacingAfter))
		}
		if para.LineSpacing > 0 {
			kv = append(kv, "w:line", itoa(int(para.LineSpacing*240+0.5)), "w:lineRule", "auto")
		}
		w.empty("w:spacing", kv...)
	}
	if indent {
		var kv []string
		if para.LeftIndent != 0 {
			kv = append(kv, "w:left", tw(para.LeftIndent))
		}
		switch {
		case para.HangingIndent > 0:
			kv = append(kv, "w:hanging", tw(para.HangingIndent))
		case para.FirstLineIndent > 0:
			kv = append(kv, "w:firstLine", tw(para.FirstLineIndent))
		case para.FirstLineIndent < 0:
			kv = append(kv, "w:hanging", tw(-para.FirstLineIndent))
		}
		if len(kv) > 0 {
			w.empty("w:ind", kv...)
		}
	}
	if align != model.AlignNone {
		w.empty("w:jc", "w:val", string(align))
	}
	w.close()
}

func sameLink(a, b ir.Run) bool {
	return a.HyperlinkTarget == b.HyperlinkTarget && a.HyperlinkAnchor == b.HyperlinkAnchor && a.HyperlinkTooltip == b.HyperlinkTooltip
}

// writeRuns groups consecutive runs sharing a link target into one
// hyperlink
func (p *packager) writeRuns(w *xmlWriter, rels *RelationshipManager, runs []ir.Run) {
	for i := 0; i < len(runs); {
		r := runs[i]
		if !r.IsLink() {
			p.writeMarkedRun(w, r)
			i++
			continue
		}
		j := i + 1
		for j < len(runs) && runs[j].IsLink() && sameLink(runs[j], r) {
			j++
		}
		var kv []string
		if r.HyperlinkTarget != "" {
			kv = append(kv, "r:id", rels.AddHyperlink(r.HyperlinkTarget))
		}
		if r.HyperlinkAnchor != "" {
			kv = append(kv, "w:anchor", r.HyperlinkAnchor)
		}
		if r.HyperlinkTooltip != "" {
			kv = append(kv, "w:tooltip", r.HyperlinkTooltip)
		}
		kv = append(kv, "w:history", "1")
		w.open("w:hyperlink", kv...)
		for _, lr := range runs[i:j] {
			p.writeMarkedRun(w, lr)
		}
		w.close()
		i = j
	}
}

// writeMarkedRun writes a run with its comment range marks and its simple
// field wrapper
func (p *packager) writeMarkedRun(w *xmlWriter, r ir.Run) {
	for _, id := range r.CommentStart {
		w.empty("w:commentRangeStart", "w:id", itoa(id))
	}
	if r.Field != "" {
		w.open("w:fldSimple", "w:instr", " "+strings.TrimSpace(r.Field)+" ")
		writeRun(w, r)
		w.close()
	} else {
		writeRun(w, r)
	}
	for _, id := range r.CommentEnd {
		w.empty("w:commentRangeEnd", "w:id", itoa(id))
	}
}

func writeRun(w *xmlWriter, r ir.Run) {
	w.open("w:r")
	writeRunProps(w, r)
	switch {
	case r.FootnoteRef > 0:
		w.empty("w:footnoteReference", "w:id", itoa(r.FootnoteRef))
	case r.EndnoteRef > 0:
		w.empty("w:endnoteReference", "w:id", itoa(r.EndnoteRef))
	case r.CommentRef > 0:
		w.empty("w:commentReference", "w:id", itoa(r.CommentRef))
	default:
		if r.Vertical {
			for i, c := range []rune(r.Text) {
				if i > 0 {
					w.empty("w:br")
				}
				writeText(w, string(c))
			}
		} else {
			writeText(w, r.Text)
		}
		switch r.Break {
		case ir.BreakLine:
			w.empty("w:br")
		case ir.BreakPage:
			w.empty("w:br", "w:type", "page")
		case ir.BreakColumn:
			w.empty("w:br", "w:type", "column")
		}
	}
	w.close()
}

// writeText writes text, turning tabs and newlines into w:tab and w:br
func writeText(w *xmlWriter, s string) {
	start := 0
	for i, c := range s {
		if c != '\t' && c != '\n' {
			continue
		}
		if i > start {
			w.leaf("w:t", s[start:i], "xml:space", "preserve")
		}
		if c == '\t' {
			w.empty("w:tab")
		} else {
			w.empty("w:br")
		}
		start = i + 1
	}
	if start < len(s) {
		w.leaf("w:t", s[start:], "xml:space", "preserve")
	}
}

var subsetPrefix = regexp.MustCompile(`^[A-Z]{6}\+`)

func writeRunProps(w *xmlWriter, r ir.Run) {
	style := r.Style
	if style == "" {
		switch {
		case r.FootnoteRef > 0:
			style = "FootnoteReference"
		case r.EndnoteRef > 0:
			style = "EndnoteReference"
		case r.CommentRef > 0:
			style = "CommentReference"
		}
	}
	font := subsetPrefix.ReplaceAllString(r.FontName, "")
	color := hexColor(r.Color)
	if style == "" && font == "" && r.FontSize <= 0 && !r.Bold && !r.Italic && !r.Underline &&
		color == "" && !r.Superscript && !r.Subscript && !r.RTL && r.Language == "" {
		return
	}
	w.open("w:rPr")
	if style != "" {
		w.empty("w:rStyle", "w:val", style)
	}
	if font != "" {
		w.empty("w:rFonts", "w:ascii", font, "w:hAnsi", font, "w:cs", font)
	}
	if r.Bold {
		w.empty("w:b")
		w.empty("w:bCs")
	}
	if r.Italic {
		w.empty("w:i")
		w.empty("w:iCs")
	}
	if color != "" {
		w.empty("w:color", "w:val", color)
	}
	if r.FontSize > 0 {
		sz := itoa(halfPoints(r.FontSize))
		w.empty("w:sz", "w:val", sz)
		w.empty("w:szCs", "w:val", sz)
	}
	if r.Underline {
		w.empty("w:u", "w:val", "single")
	}
	switch {
	case r.Superscript:
		w.empty("w:vertAlign", "w:val", "superscript")
	case r.Subscript:
		w.empty("w:vertAlign", "w:val", "subscript")
	}
	if r.RTL {
		w.empty("w:rtl")
	}
	if r.Language != "" {
		lang := []string{"w:val", r.Language}
		if r.RTL {
			lang = append(lang, "w:bidi", r.Language)
		}
		w.empty("w:lang", lang...)
	}
	w.close()
}

// hexColor normalizes a color to RRGGBB, or "" when it is not one
func hexColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) != 6 || strings.Trim(c, "0123456789ABCDEF") != "" {
		return ""
	}
	return c
}

func (p *packager) writeTable(w *xmlWriter, rels *RelationshipManager, t *ir.Table) {
	widths := t.ColumnWidths
	if len(widths) == 0 && len(t.Rows) > 0 {
		n := 0
		for _, c := range t.Rows[0].Cells {
			n += c.Span()
		}
		total := t.Width
		if total <= 0 {
			total = 468
		}
		for range n {
			widths = append(widths, total/float64(max(n, 1)))
		}
	}
	total := 0.0
	for _, cw := range widths {
		total += cw
	}

	w.open("w:tbl")
	w.open("w:tblPr")
	w.empty("w:tblStyle", "w:val", "TableGrid")
	if t.Width > 0 {
		w.empty("w:tblW", "w:w", tw(t.Width), "w:type", "dxa")
	} else {
		w.empty("w:tblW", "w:w", "0", "w:type", "auto")
	}
	switch t.Alignment {
	case model.AlignCenter, model.AlignRight:
		w.empty("w:jc", "w:val", string(t.Alignment))
	}
	if t.Borders {
		color := hexColor(t.BorderColor)
		if color == "" {
			color = "auto"
		}
		writeBorders(w, "w:tblBorders", "single", color)
	} else {
		writeBorders(w, "w:tblBorders", "nil", "")
	}
	w.empty("w:tblLayout", "w:type", "fixed")
	if t.CellPadding > 0 {
		pad := tw(t.CellPadding)
		w.open("w:tblCellMar")
		for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right"} {
			w.empty(side, "w:w", pad, "w:type", "dxa")
		}
		w.close()
	}
	w.close()

	w.open("w:tblGrid")
	for _, cw := range widths {
		w.empty("w:gridCol", "w:w", itoa(max(twips(cw), 1)))
	}
	w.close()

	for i, row := range t.Rows {
		w.open("w:tr")
		if row.Header || i < t.HeaderRows {
			w.open("w:trPr")
			w.empty("w:tblHeader")
			w.close()
		}
		col := 0
		for _, c := range row.Cells {
			span := c.Span()
			width := 0.0
			for k := col; k < col+span && k < len(widths); k++ {
				width += widths[k]
			}
			col += span
			p.writeCell(w, rels, c, width)
		}
		w.close()
	}
	w.close()
}

func (p *packager) writeCell(w *xmlWriter, rels *RelationshipManager, c ir.TableCell, width float64) {
	w.open("w:tc")
	w.open("w:tcPr")
	if width > 0 {
		w.empty("w:tcW", "w:w", tw(width), "w:type", "dxa")
	} else {
		w.empty("w:tcW", "w:w", "0", "w:type", "auto")
	}
	if c.Span() > 1 {
		w.empty("w:gridSpan", "w:val", itoa(c.Span()))
	}
	switch {
	case c.Continue:
		w.empty("w:vMerge")
	case c.RowSpan > 1:
		w.empty("w:vMerge", "w:val", "restart")
	}
	if fill := hexColor(c.Background); fill != "" {
		w.empty("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", fill)
	}
	if c.VerticalAlign != "" {
		w.empty("w:vAlign", "w:val", c.VerticalAlign)
	}
	w.close()

	endsWithParagraph := false
	if !c.Continue {
		p.writeElements(w, rels, c.Content, paraOpts{align: c.Alignment})
		if n := len(c.Content); n > 0 {
			switch c.Content[n-1].(type) {
			case ir.ParagraphID, *ir.Picture, *ir.Equation:
				endsWithParagraph = true
			}
		}
	}
	if !endsWithParagraph {
		w.empty("w:p")
	}
	w.close()
}

// pictureSize returns the displayed size in points
func pictureSize(pic *ir.Picture) (float64, float64) {
	width, height := pic.Width, pic.Height
	if width <= 0 || height <= 0 {
		width, height = pic.BBox.Width, pic.BBox.Height
	}
	if width <= 0 || height <= 0 {
		width, height = 72, 72
	}
	return width, height
}

func (p *packager) writePicture(w *xmlWriter, rels *RelationshipManager, pic *ir.Picture, alt string) {
	w.open("w:p")
	if alt != "" {
		writeHidden(w, alt)
	}
	p.writeDrawing(w, rels, pic)
	w.close()
}

func (p *packager) writeDrawing(w *xmlWriter, rels *RelationshipManager, pic *ir.Picture) {
	rid, _ := rels.AddImage(pic.Data, pic.MIME)
	p.drawings++
	id := itoa(p.drawings)
	name := pic.Name
	if name == "" {
		name = "Picture " + id
	}
	width, height := pictureSize(pic)
	cx, cy := fmt.Sprint(emus(width)), fmt.Sprint(emus(height))

	w.open("w:r")
	w.open("w:rPr")
	w.empty("w:noProof")
	w.close()
	w.open("w:drawing")
	w.open("wp:inline", "distT", "0", "distB", "0", "distL", "0", "distR", "0")
	w.empty("wp:extent", "cx", cx, "cy", cy)
	w.empty("wp:effectExtent", "l", "0", "t", "0", "r", "0", "b", "0")
	doc := []string{"id", id, "name", name}
	if pic.Description != "" {
		doc = append(doc, "descr", pic.Description)
	}
	w.empty("wp:docPr", doc...)
	w.open("wp:cNvGraphicFramePr")
	w.empty("a:graphicFrameLocks", "noChangeAspect", "1")
	w.close()
	w.open("a:graphic")
	w.open("a:graphicData", "uri", nsPic)
	w.open("pic:pic")
	w.open("pic:nvPicPr")
	w.empty("pic:cNvPr", "id", "0", "name", name)
	w.empty("pic:cNvPicPr")
	w.close()
	w.open("pic:blipFill")
	w.empty("a:blip", "r:embed", rid)
	w.open("a:stretch")
	w.empty("a:fillRect")
	w.close()
	w.close()
	w.open("pic:spPr")
	w.open("a:xfrm")
	w.empty("a:off", "x", "0", "y", "0")
	w.empty("a:ext", "cx", cx, "cy", cy)
	w.close()
	w.open("a:prstGeom", "prst", "rect")
	w.empty("a:avLst")
	w.close()
	w.close()
	w.close()
	w.close()
	w.close()
	w.close()
	w.close()
	w.close()
}

// writeHidden writes text that is kept in the document but not displayed
func writeHidden(w *xmlWriter, text string) {
	w.open("w:r")
	w.open("w:rPr")
	w.empty("w:vanish")
	w.close()
	w.leaf("w:t", text, "xml:space", "preserve")
	w.close()
}

func (p *packager) writeEquation(w *xmlWriter, rels *RelationshipManager, eq *ir.Equation) {
	if frag, err := mathFragment(eq.OMML); err == nil && frag != "" {
		w.open("w:p")
		if eq.Description != "" {
			writeHidden(w, eq.Description)
		}
		w.raw(frag)
		w.close()
		return
	}
	if eq.Picture != nil {
		alt := eq.Description
		if alt == "" {
			alt = eq.Text
		}
		p.writePicture(w, rels, eq.Picture, alt)
		return
	}
	text := firstNonEmpty(eq.Text, eq.Description, "Equation")
	w.open("w:p")
	if eq.Description != "" && eq.Description != text {
		writeHidden(w, eq.Description)
	}
	w.open("w:r")
	writeText(w, text)
	w.close()
	w.close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var errNotMath = errors.New("not an OMML fragment")

// mathFragment checks that omml is well-formed and wraps it so it can be
// placed directly inside a paragraph
func mathFragment(omml string) (string, error) {
	omml = strings.TrimSpace(omml)
	if strings.HasPrefix(omml, "<?xml") {
		if i := strings.Index(omml, "?>"); i >= 0 {
			omml = strings.TrimSpace(omml[i+2:])
		}
	}
	if omml == "" {
		return "", nil
	}
	d := xml.NewDecoder(strings.NewReader(omml))
	root := ""
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", errNotMath, err)
		}
		if se, ok := tok.(xml.StartElement); ok && root == "" {
			root = se.Name.Local
		}
	}
	switch root {
	case "":
		return "", errNotMath
	case "oMathPara":
		return omml, nil
	case "oMath":
		return "<m:oMathPara>" + omml + "</m:oMathPara>", nil
	}
	return "<m:oMathPara><m:oMath>" + omml + "</m:oMath></m:oMathPara>", nil
}

// writeSectPr writes the section properties, registering the header and
// footer parts of the section
func (p *packager) writeSectPr(w *xmlWriter, s *ir.Section) error {
	type ref struct {
		kind, typ, rid string
	}
	var refs []ref
	add := func(hf *ir.HeaderFooter, footer bool, typ string, force bool) error {
		if hf == nil || (!force && len(hf.Elements) == 0) {
			return nil
		}
		rid, err := p.headerFooterPart(hf, footer)
		if err != nil {
			return err
		}
		kind := "w:headerReference"
		if footer {
			kind = "w:footerReference"
		}
		refs = append(refs, ref{kind, typ, rid})
		return nil
	}
	titlePg := s.FirstHeader != nil || s.FirstFooter != nil
	if err := errors.Join(
		add(s.Header, false, "default", false),
		add(s.FirstHeader, false, "first", true),
		add(s.Footer, true, "default", false),
		add(s.FirstFooter, true, "first", true),
	); err != nil {
		return err
	}

	w.open("w:sectPr")
	for _, r := range refs {
		w.empty(r.kind, "w:type", r.typ, "r:id", r.rid)
	}
	width, height := s.PageWidth, s.PageHeight
	if width <= 0 || height <= 0 {
		width, height = 612, 792
	}
	size := []string{"w:w", tw(width), "w:h", tw(height)}
	if s.Orientation == ir.Landscape || width > height {
		size = append(size, "w:orient", "landscape")
	}
	w.empty("w:pgSz", size...)
	m := s.Margins
	w.empty("w:pgMar",
		"w:top", tw(m.Top), "w:right", tw(m.Right), "w:bottom", tw(m.Bottom), "w:left", tw(m.Left),
		"w:header", tw(36), "w:footer", tw(36), "w:gutter", "0")
	if s.Columns > 1 {
		space := s.ColumnSpacing
		if space <= 0 {
			space = 18
		}
		w.empty("w:cols", "w:num", itoa(s.Columns), "w:space", tw(space))
	}
	if titlePg {
		w.empty("w:titlePg")
	}
	w.close()
	return nil
}

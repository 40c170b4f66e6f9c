package builder

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/logging"
	"github.com/tsawler/pdf2docx/model"
)

// firstNoteID is the id of the first footnote or endnote; 0 and 1 are the
// separator and continuation notes
const firstNoteID = 2

// commentSubtypes are the annotation subtypes that become comments
var commentSubtypes = map[string]bool{"Text": true, "FreeText": true, "Highlight": true}

// paragraphBlock describes a paragraph for the layout detectors
func paragraphBlock(p *ir.Paragraph) model.TextBlock {
	tb := model.TextBlock{
		Text:     p.Text(),
		BBox:     p.Provenance.BBox,
		FontSize: p.Provenance.FontSize,
		Role:     p.Role,
		Lines:    p.Provenance.Lines,
	}
	for _, r := range p.Runs {
		if r.Text != "" {
			tb.Spans = append(tb.Spans, model.Span{Text: r.Text, FontSize: r.FontSize})
		}
	}
	return tb
}

// markWatermarks flags centered text repeated across pages and records
// each text once in the metadata. Flagged paragraphs keep their place.
func (b *Builder) markWatermarks() {
	det := layout.NewWatermarkDetectorWithConfig(b.config.Watermark)
	for _, pg := range b.pageOrder {
		g := b.pages[pg].geometry
		for _, id := range b.pageParagraphs(pg) {
			det.Observe(pg, paragraphBlock(b.doc.Paragraph(id)), g.Width, g.Height)
		}
	}
	marks := det.Watermarks(len(b.pageOrder))
	if len(marks) == 0 {
		return
	}
	want := make(map[string]bool, len(marks))
	for _, m := range marks {
		want[m] = true
	}
	recorded := make(map[string]bool)
	var flagged int
	for _, pg := range b.pageOrder {
		g := b.pages[pg].geometry
		for _, id := range b.pageParagraphs(pg) {
			p := b.doc.Paragraph(id)
			tb := paragraphBlock(p)
			key := layout.NormalizeWatermark(tb.Text)
			if !want[key] || !det.Candidate(tb, g.Width, g.Height) {
				continue
			}
			p.Provenance.Watermark = true
			flagged++
			if !recorded[key] {
				recorded[key] = true
				b.doc.Metadata.Watermarks = append(b.doc.Metadata.Watermarks, strings.Join(strings.Fields(tb.Text), " "))
			}
		}
	}
	logging.Logger().Debug("watermarks flagged", "stage", "build", "count", flagged)
}

// promoteRegions moves repeated header and footer text of every section
// into its header and footer containers
func (b *Builder) promoteRegions() {
	det := layout.NewHeaderFooterDetectorWithConfig(b.config.HeaderFooter)
	for _, sec := range b.doc.Sections {
		var pages []int
		frames := make(map[int]layout.PageFrame)
		for _, pg := range b.pageOrder {
			ps := b.pages[pg]
			if ps.section != sec {
				continue
			}
			pages = append(pages, pg)
			m := ps.geometry.Margins
			frames[pg] = layout.PageFrame{
				Height:  ps.geometry.Height,
				Margins: layout.Margins{Top: m.Top, Bottom: m.Bottom, Left: m.Left, Right: m.Right},
			}
		}
		if len(pages) == 0 {
			continue
		}
		if m := det.Detect(layout.RegionHeader, pages, b.regionParagraphs(pages), frames); m != nil {
			sec.Header = b.container(m.Default, false)
			sec.FirstHeader = b.firstVariant(m, pages[0], false)
			b.detach(handles(m.Remove)...)
		}
		if m := det.Detect(layout.RegionFooter, pages, b.regionParagraphs(pages), frames); m != nil {
			sec.Footer = b.container(m.Default, true)
			sec.FirstFooter = b.firstVariant(m, pages[0], true)
			b.detach(handles(m.Remove)...)
		}
		// A distinct first page applies to both the header and the footer.
		if sec.FirstHeader != nil && sec.FirstFooter == nil && sec.Footer != nil {
			sec.FirstFooter = b.copyContainer(sec.Footer)
		}
		if sec.FirstFooter != nil && sec.FirstHeader == nil && sec.Header != nil {
			sec.FirstHeader = b.copyContainer(sec.Header)
		}
	}
}

func (b *Builder) regionParagraphs(pages []int) []layout.RegionParagraph {
	var out []layout.RegionParagraph
	for _, pg := range pages {
		for _, id := range b.pageParagraphs(pg) {
			p := b.doc.Paragraph(id)
			out = append(out, layout.RegionParagraph{ID: int(id), Page: pg, Text: p.Text(), BBox: p.Provenance.BBox})
		}
	}
	return out
}

// firstVariant returns the first-page container: the detected variant, an
// empty container when the first page has no such region, or nil
func (b *Builder) firstVariant(m *layout.RegionMatch, first int, footer bool) *ir.HeaderFooter {
	if m.FirstPage != nil {
		return b.container(m.FirstPage, footer)
	}
	for _, pg := range m.Pages {
		if pg == first {
			return nil
		}
	}
	return &ir.HeaderFooter{}
}

func handles(ids []int) []ir.ParagraphID {
	out := make([]ir.ParagraphID, len(ids))
	for i, id := range ids {
		out[i] = ir.ParagraphID(id)
	}
	return out
}

// container builds a header or footer from copies of body paragraphs.
// Footers always carry a page number field.
func (b *Builder) container(ids []int, footer bool) *ir.HeaderFooter {
	hf := &ir.HeaderFooter{}
	for _, i := range ids {
		cp := b.doc.Copy(ir.ParagraphID(i))
		if cp < 0 {
			continue
		}
		p := b.doc.Paragraph(cp)
		p.PageBreakBefore = false
		p.ColumnBreakBefore = false
		p.SpacingBefore = 0
		p.Bookmarks = nil
		if footer && !hf.PageField && pageFields(p) {
			hf.PageField = true
		}
		hf.Elements = append(hf.Elements, cp)
	}
	if footer && !hf.PageField {
		hf.Elements = append(hf.Elements, b.doc.NewParagraph(ir.Paragraph{
			Runs:       []ir.Run{{Field: "PAGE", Text: "1"}},
			Alignment:  model.AlignCenter,
			Provenance: ir.Provenance{Generated: true},
		}))
		hf.PageField = true
	}
	return hf
}

func (b *Builder) copyContainer(hf *ir.HeaderFooter) *ir.HeaderFooter {
	out := &ir.HeaderFooter{PageField: hf.PageField}
	for _, e := range hf.Elements {
		if id, ok := e.(ir.ParagraphID); ok {
			e = b.doc.Copy(id)
		}
		out.Elements = append(out.Elements, e)
	}
	return out
}

var (
	pageNumber = regexp.MustCompile(`\b\d{1,3}\b`)
	ofTotal    = regexp.MustCompile(`^\s*(?i:of|/)\s*$`)
)

// pageFields replaces the first page number in p with a PAGE field and a
// following "of N" total with NUMPAGES
func pageFields(p *ir.Paragraph) bool {
	for i, r := range p.Runs {
		if r.Field != "" || r.Break != ir.BreakNone {
			continue
		}
		locs := pageNumber.FindAllStringIndex(r.Text, 2)
		if len(locs) == 0 {
			continue
		}
		var parts []ir.Run
		piece := func(text, field string) {
			if text == "" {
				return
			}
			nr := r
			nr.Text = text
			nr.Field = field
			parts = append(parts, nr)
		}
		first := locs[0]
		piece(r.Text[:first[0]], "")
		piece(r.Text[first[0]:first[1]], "PAGE")
		rest := r.Text[first[1]:]
		if len(locs) == 2 && ofTotal.MatchString(r.Text[first[1]:locs[1][0]]) {
			piece(r.Text[first[1]:locs[1][0]], "")
			piece(r.Text[locs[1][0]:locs[1][1]], "NUMPAGES")
			rest = r.Text[locs[1][1]:]
		}
		piece(rest, "")
		tail := append(parts, p.Runs[i+1:]...)
		p.Runs = append(p.Runs[:i], tail...)
		return true
	}
	return false
}

// matchNotes pairs bottom-of-page paragraphs that start with a note marker
// with the superscript markers recorded in the body, on the same page or
// the page before. Matched paragraphs move into notes.
func (b *Builder) matchNotes() {
	id := firstNoteID - 1
	for idx, pg := range b.pageOrder {
		ps := b.pages[pg]
		var band []ir.ParagraphID
		inBand := make(map[ir.ParagraphID]bool)
		for _, pid := range b.pageParagraphs(pg) {
			if b.config.Footnote.InBand(paragraphBlock(b.doc.Paragraph(pid)), ps.geometry.Margins.Bottom, ps.geometry.Height) {
				band = append(band, pid)
				inBand[pid] = true
			}
		}

		var open *ir.Note
		openSize := 0.0
		for _, pid := range band {
			p := b.doc.Paragraph(pid)
			marker, strip, ok := noteMarkerOf(p)
			if ok {
				ref := b.takeMarker(pg, marker, inBand)
				if ref == nil && idx > 0 {
					ref = b.takeMarker(b.pageOrder[idx-1], marker, inBand)
				}
				if ref != nil {
					id++
					trimPrefix(p.Runs, strip)
					trimLeadingSpace(p.Runs)
					b.reference(ref, id)
					open = b.addNote(ir.Note{ID: id, Paragraphs: []ir.ParagraphID{pid}, Page: pg, Marker: marker})
					b.noteParagraph(p)
					openSize = layout.MeanFontSize(paragraphBlock(p))
					b.detach(pid)
					continue
				}
			}
			if open != nil && !ok && layout.MeanFontSize(paragraphBlock(p)) <= openSize+0.5 {
				open.Paragraphs = append(open.Paragraphs, pid)
				b.noteParagraph(p)
				b.detach(pid)
				continue
			}
			open = nil
		}
	}
	if n := id - firstNoteID + 1; n > 0 {
		logging.Logger().Debug("notes matched", "stage", "build", "count", n, "endnotes", b.config.FootnotesAsEndnotes)
	}
}

// noteMarkerOf returns the leading note marker of p and the number of
// bytes to strip. Paragraphs read as numbered lists carry the marker in
// their numbering.
func noteMarkerOf(p *ir.Paragraph) (marker string, strip int, ok bool) {
	if n := p.Numbering; n != nil {
		if n.Kind != ir.NumberingOrdered || n.Format != layout.FormatDecimal {
			return "", 0, false
		}
		marker = strings.Trim(n.Marker, "().")
		return marker, 0, layout.IsNoteMarker(marker)
	}
	text := p.Text()
	marker, rest, ok := layout.SplitNoteMarker(text)
	if !ok {
		return "", 0, false
	}
	return marker, strings.LastIndex(text, rest), true
}

func (b *Builder) addNote(n ir.Note) *ir.Note {
	if b.config.FootnotesAsEndnotes {
		b.doc.Endnotes = append(b.doc.Endnotes, n)
		return &b.doc.Endnotes[len(b.doc.Endnotes)-1]
	}
	b.doc.Footnotes = append(b.doc.Footnotes, n)
	return &b.doc.Footnotes[len(b.doc.Footnotes)-1]
}

func (b *Builder) noteParagraph(p *ir.Paragraph) {
	p.Style = "FootnoteText"
	if b.config.FootnotesAsEndnotes {
		p.Style = "EndnoteText"
	}
	p.Numbering = nil
	p.LeftIndent = 0
	p.FirstLineIndent = 0
	p.HangingIndent = 0
	p.SpacingBefore = 0
	p.PageBreakBefore = false
	p.ColumnBreakBefore = false
}

// takeMarker returns the first unused marker on page with the given text.
// Markers opening their own paragraph and markers inside excluded
// paragraphs are note text, not references.
func (b *Builder) takeMarker(page int, marker string, exclude map[ir.ParagraphID]bool) *noteMarker {
	ps := b.pages[page]
	if ps == nil {
		return nil
	}
	for _, m := range ps.markers {
		if m.used || m.marker != marker || exclude[m.para] || b.detached[m.para] {
			continue
		}
		p := b.doc.Paragraph(m.para)
		if m.run >= len(p.Runs) || strings.TrimSpace(runsText(p.Runs[:m.run])) == "" {
			continue
		}
		m.used = true
		return m
	}
	return nil
}

// reference turns a marker run into a note reference
func (b *Builder) reference(m *noteMarker, id int) {
	p := b.doc.Paragraph(m.para)
	r := &p.Runs[m.run]
	if trailing := r.Text[len(strings.TrimRightFunc(r.Text, unicode.IsSpace)):]; trailing != "" && m.run+1 < len(p.Runs) {
		p.Runs[m.run+1].Text = trailing + p.Runs[m.run+1].Text
	}
	r.Text = ""
	r.Superscript = false
	if b.config.FootnotesAsEndnotes {
		r.EndnoteRef = id
		r.Style = "EndnoteReference"
		return
	}
	r.FootnoteRef = id
	r.Style = "FootnoteReference"
}

// attachComments anchors text annotations on the body paragraph they
// overlap most, or the nearest paragraph of their page
func (b *Builder) attachComments() {
	id := 0
	for _, pg := range b.pageOrder {
		ps := b.pages[pg]
		for _, ann := range ps.annotations {
			text := strings.TrimSpace(ann.Text)
			if !commentSubtypes[ann.Subtype] || text == "" {
				continue
			}
			target, ok := b.commentTarget(pg, ann.BBox)
			if !ok {
				continue
			}
			id++
			c := ir.Comment{ID: id, Author: ann.Author, Initials: initials(ann.Author), Text: text, Page: pg}
			for _, line := range strings.Split(text, "\n") {
				c.Paragraphs = append(c.Paragraphs, b.doc.NewParagraph(ir.Paragraph{
					Runs:       []ir.Run{{Text: strings.TrimSpace(line)}},
					Style:      "CommentText",
					Provenance: ir.Provenance{StartPage: pg, EndPage: pg, Generated: true},
				}))
			}
			p := b.doc.Paragraph(target)
			first, last := -1, -1
			for i, r := range p.Runs {
				if r.Text != "" {
					if first < 0 {
						first = i
					}
					last = i
				}
			}
			if first < 0 {
				first, last = 0, len(p.Runs)-1
			}
			if first >= 0 && last >= 0 {
				p.Runs[first].CommentStart = append(p.Runs[first].CommentStart, id)
				p.Runs[last].CommentEnd = append(p.Runs[last].CommentEnd, id)
			}
			p.Runs = append(p.Runs, ir.Run{CommentRef: id, Style: "CommentReference"})
			b.doc.Comments = append(b.doc.Comments, c)
		}
	}
}

// commentTarget picks the body paragraph for an annotation at box
func (b *Builder) commentTarget(page int, box model.BBox) (ir.ParagraphID, bool) {
	var best, nearest ir.ParagraphID
	bestScore, nearestDist := 0.1, math.Inf(1)
	found, have := false, false
	for _, id := range b.pages[page].paragraphs {
		p := b.doc.Paragraph(id)
		if b.detached[id] || p.IsMarker() || len(p.Runs) == 0 {
			continue
		}
		if s := p.Provenance.BBox.OverlapRatio(box); s > bestScore {
			best, bestScore, found = id, s, true
		}
		if d := math.Abs(p.Provenance.BBox.Center().Y - box.Center().Y); d < nearestDist {
			nearest, nearestDist, have = id, d, true
		}
	}
	if found {
		return best, true
	}
	return nearest, have
}

// initials returns the uppercase first letters of up to three words
func initials(name string) string {
	var sb strings.Builder
	for i, w := range strings.Fields(name) {
		if i == 3 {
			break
		}
		for _, r := range w {
			sb.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return sb.String()
}

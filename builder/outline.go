package builder

import (
	"fmt"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/layout"
)

// TOCInstruction is the field instruction of the generated table of
// contents: heading levels 1 to 3, hyperlinked entries, outline levels used
const TOCInstruction = `TOC \o "1-3" \h \z \u`

// maxTOCLevel is the deepest TOC style defined by the package writer
const maxTOCLevel = 3

// OutlineEntry is a bookmark of the source outline, in pre-order
type OutlineEntry struct {
	Title  string
	Level  int
	Page   int // -1 when unknown
	Top    float64
	HasTop bool
}

type outlineMark struct {
	entry  OutlineEntry
	anchor string
}

// RegisterOutline records the source outline. Each entry with a known page
// becomes a bookmark destination.
func (b *Builder) RegisterOutline(entries []OutlineEntry) {
	b.outline = b.outline[:0]
	for _, e := range entries {
		m := outlineMark{entry: e}
		if e.Page >= 0 {
			m.anchor = b.marks.name(fmt.Sprintf("_Toc%d", len(b.outline)+1))
			b.registerDestination(m.anchor, e.Page, e.Top, e.HasTop)
		}
		b.outline = append(b.outline, m)
	}
}

// finishOutline builds the document outline from the registered entries
// or, when there are none and GenerateOutline is set, from the heading
// paragraphs of the body. A table of contents follows when GenerateTOC is
// set.
func (b *Builder) finishOutline() {
	var flat []ir.OutlineItem
	if len(b.outline) > 0 {
		for _, m := range b.outline {
			item := ir.OutlineItem{Title: m.entry.Title, Page: m.entry.Page, Level: m.entry.Level}
			if b.marks.assigned[m.anchor] {
				item.Anchor = m.anchor
			}
			flat = append(flat, item)
		}
	} else if b.config.GenerateOutline {
		b.doc.Walk(func(id ir.ParagraphID, p *ir.Paragraph) {
			level := layout.HeadingLevel(p.Style)
			if level == 0 || p.Provenance.Generated {
				return
			}
			title := p.Text()
			if title == "" {
				return
			}
			anchor := b.marks.name(fmt.Sprintf("_Toc%d", len(flat)+1))
			b.attachBookmark(id, anchor)
			flat = append(flat, ir.OutlineItem{
				Title:  title,
				Anchor: anchor,
				Page:   p.Provenance.StartPage,
				Level:  level - 1,
			})
		})
	}
	b.doc.Outline = nestOutline(flat)
	if b.config.GenerateTOC && len(b.doc.Outline) > 0 && len(b.doc.Sections) > 0 {
		b.insertTOC()
	}
}

// nestOutline turns a pre-order list with levels into a tree. Levels are
// renumbered by depth.
func nestOutline(flat []ir.OutlineItem) []ir.OutlineItem {
	if len(flat) == 0 {
		return nil
	}
	var build func(i, level, depth int) ([]ir.OutlineItem, int)
	build = func(i, level, depth int) ([]ir.OutlineItem, int) {
		var out []ir.OutlineItem
		for i < len(flat) && flat[i].Level >= level {
			if flat[i].Level > level && len(out) > 0 {
				var kids []ir.OutlineItem
				kids, i = build(i, flat[i].Level, depth+1)
				out[len(out)-1].Children = append(out[len(out)-1].Children, kids...)
				continue
			}
			item := flat[i]
			item.Level = depth
			item.Children = nil
			out = append(out, item)
			i++
		}
		return out, i
	}
	minLevel := flat[0].Level
	for _, it := range flat {
		minLevel = min(minLevel, it.Level)
	}
	out, _ := build(0, minLevel, 0)
	return out
}

// insertTOC prepends a heading, the TOC field and one entry per outline
// item to the first section
func (b *Builder) insertTOC() {
	generated := ir.Provenance{Generated: true}
	ids := []ir.Element{
		b.doc.NewParagraph(ir.Paragraph{
			Runs:         []ir.Run{{Text: "Table of Contents"}},
			Style:        "TOCHeading",
			KeepWithNext: true,
			Provenance:   generated,
		}),
		b.doc.NewParagraph(ir.Paragraph{
			Runs:             []ir.Run{{Text: "Update this field to refresh the table of contents."}},
			FieldInstruction: TOCInstruction,
			Provenance:       generated,
		}),
	}
	var entries func(items []ir.OutlineItem, depth int)
	entries = func(items []ir.OutlineItem, depth int) {
		for _, it := range items {
			title := it.Title
			if title == "" {
				title = "Untitled"
			}
			run := ir.Run{Text: title}
			if it.Anchor != "" {
				run.HyperlinkAnchor = it.Anchor
				run.Style = "Hyperlink"
			}
			ids = append(ids, b.doc.NewParagraph(ir.Paragraph{
				Runs:       []ir.Run{run},
				Style:      fmt.Sprintf("TOC%d", min(depth+1, maxTOCLevel)),
				Provenance: generated,
			}))
			entries(it.Children, depth+1)
		}
	}
	entries(b.doc.Outline, 0)
	first := b.doc.Sections[0]
	first.Elements = append(ids, first.Elements...)
}

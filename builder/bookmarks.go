package builder

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/model"
)

// maxBookmarkLength is the longest bookmark name Word accepts
const maxBookmarkLength = 40

// destination is a bookmark waiting for the paragraph at a page position
type destination struct {
	anchor string
	top    float64
	hasTop bool
}

// marks tracks bookmark names and their destinations
type marks struct {
	used     map[string]bool // every name handed out
	assigned map[string]bool // names attached to a paragraph
	dests    map[int][]destination
	links    map[string]string // page:top key to link anchor
}

func newMarks() marks {
	return marks{
		used:     make(map[string]bool),
		assigned: make(map[string]bool),
		dests:    make(map[int][]destination),
		links:    make(map[string]string),
	}
}

// name sanitizes base and makes it unique
func (m *marks) name(base string) string {
	name := SanitizeBookmark(base)
	if !m.used[name] {
		m.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf("_%d", i)
		cand := name
		if len(cand)+len(suffix) > maxBookmarkLength {
			cand = cand[:maxBookmarkLength-len(suffix)]
		}
		cand += suffix
		if !m.used[cand] {
			m.used[cand] = true
			return cand
		}
	}
}

// linkAnchor returns the bookmark name for an internal link destination.
// Links to the same position share one name.
func (m *marks) linkAnchor(l model.Link) string {
	key := fmt.Sprintf("%d:%d", l.DestPage, int(math.Round(l.DestTop)))
	if a, ok := m.links[key]; ok {
		return a
	}
	a := m.name(fmt.Sprintf("_Ref_p%d_%d", l.DestPage+1, int(math.Round(l.DestTop))))
	m.links[key] = a
	return a
}

// SanitizeBookmark maps s to a valid bookmark name: letters, digits and
// underscores, not starting with a digit, at most 40 characters
func SanitizeBookmark(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := sb.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "_" + name
	}
	if len(name) > maxBookmarkLength {
		name = name[:maxBookmarkLength]
	}
	return name
}

// covers reports whether paragraph p spans the position top on page. The
// tolerance is a quarter of the paragraph height, at least 12pt.
func covers(p *ir.Paragraph, page int, top float64, hasTop bool) bool {
	if page < p.Provenance.StartPage || page > p.Provenance.EndPage {
		return false
	}
	if !hasTop {
		return true
	}
	return boxCovers(p.Provenance.BBox, top)
}

func boxCovers(box model.BBox, top float64) bool {
	tol := math.Max(0.25*box.Height, 12)
	return top >= box.Bottom()-tol && top <= box.Top()+tol
}

// registerDestination places anchor on the paragraph at (page, top), now
// when that paragraph exists and later otherwise
func (b *Builder) registerDestination(anchor string, page int, top float64, hasTop bool) {
	if b.marks.assigned[anchor] {
		return
	}
	for _, d := range b.marks.dests[page] {
		if d.anchor == anchor {
			return
		}
	}
	if ps := b.pages[page]; ps != nil {
		for _, id := range ps.paragraphs {
			if covers(b.doc.Paragraph(id), page, top, hasTop) {
				b.attachBookmark(id, anchor)
				return
			}
		}
	}
	b.marks.dests[page] = append(b.marks.dests[page], destination{anchor: anchor, top: top, hasTop: hasTop})
}

// attachPendingBookmarks gives paragraph id the destinations of the current
// page that fall within box
func (b *Builder) attachPendingBookmarks(id ir.ParagraphID, box model.BBox) {
	pending := b.marks.dests[b.page]
	if len(pending) == 0 {
		return
	}
	var remaining []destination
	for _, d := range pending {
		if b.marks.assigned[d.anchor] {
			continue
		}
		if !d.hasTop || boxCovers(box, d.top) {
			b.attachBookmark(id, d.anchor)
			continue
		}
		remaining = append(remaining, d)
	}
	b.marks.dests[b.page] = remaining
}

func (b *Builder) attachBookmark(id ir.ParagraphID, anchor string) {
	p := b.doc.Paragraph(id)
	for _, existing := range p.Bookmarks {
		if existing == anchor {
			return
		}
	}
	p.Bookmarks = append(p.Bookmarks, anchor)
	b.marks.assigned[anchor] = true
}

// placeRemainingBookmarks attaches destinations no paragraph covered to the
// first paragraph on their page or, failing that, on a later page
func (b *Builder) placeRemainingBookmarks() {
	pages := make([]int, 0, len(b.marks.dests))
	for pg := range b.marks.dests {
		pages = append(pages, pg)
	}
	sort.Ints(pages)
	for _, pg := range pages {
		for _, d := range b.marks.dests[pg] {
			if b.marks.assigned[d.anchor] {
				continue
			}
			if id, ok := b.firstParagraphFrom(pg); ok {
				b.attachBookmark(id, d.anchor)
			}
		}
		delete(b.marks.dests, pg)
	}
}

func (b *Builder) firstParagraphFrom(page int) (ir.ParagraphID, bool) {
	for _, pg := range b.pageOrder {
		if pg < page {
			continue
		}
		for _, id := range b.pages[pg].paragraphs {
			if !b.detached[id] && !b.doc.Paragraph(id).IsMarker() {
				return id, true
			}
		}
	}
	return 0, false
}

// rehomeBookmarks moves the bookmarks of relocated paragraphs back into
// the body: each becomes a destination at the start of its page
func (b *Builder) rehomeBookmarks() {
	ids := make([]int, 0, len(b.detached))
	for id := range b.detached {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, i := range ids {
		p := b.doc.Paragraph(ir.ParagraphID(i))
		for _, anchor := range p.Bookmarks {
			delete(b.marks.assigned, anchor)
			pg := p.Provenance.StartPage
			b.marks.dests[pg] = append(b.marks.dests[pg], destination{anchor: anchor})
		}
		p.Bookmarks = nil
	}
}

// clearDanglingAnchors removes links to bookmarks that were never placed
func (b *Builder) clearDanglingAnchors() {
	b.doc.Walk(func(_ ir.ParagraphID, p *ir.Paragraph) {
		for i := range p.Runs {
			r := &p.Runs[i]
			if r.HyperlinkAnchor != "" && !b.marks.assigned[r.HyperlinkAnchor] {
				r.HyperlinkAnchor = ""
				if r.Style == "Hyperlink" && r.HyperlinkTarget == "" {
					r.Style = ""
				}
			}
		}
	})
}

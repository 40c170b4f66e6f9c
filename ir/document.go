package ir

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Metadata describes the document. Zero values mean "not set".
type Metadata struct {
	Title          string
	Author         string
	Subject        string
	Description    string
	Keywords       []string
	Created        time.Time
	Modified       time.Time
	Language       string
	Revision       string
	LastModifiedBy string
	Watermarks     []string
}

// Merge returns m with every field set in override replacing its own
func (m Metadata) Merge(override Metadata) Metadata {
	out := m
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	str(&out.Title, override.Title)
	str(&out.Author, override.Author)
	str(&out.Subject, override.Subject)
	str(&out.Description, override.Description)
	str(&out.Language, override.Language)
	str(&out.Revision, override.Revision)
	str(&out.LastModifiedBy, override.LastModifiedBy)
	if len(override.Keywords) > 0 {
		out.Keywords = append([]string(nil), override.Keywords...)
	}
	if !override.Created.IsZero() {
		out.Created = override.Created
	}
	if !override.Modified.IsZero() {
		out.Modified = override.Modified
	}
	if len(override.Watermarks) > 0 {
		out.Watermarks = append([]string(nil), override.Watermarks...)
	}
	return out
}

// Orientation values
const (
	Portrait  = "portrait"
	Landscape = "landscape"
)

// Margins are page margins in points
type Margins struct {
	Top, Bottom, Left, Right float64
}

// HeaderFooter is the content of a header or footer part. PageField is set
// when a run carries a page number field.
type HeaderFooter struct {
	Elements  []Element
	PageField bool
}

// Section is a run of pages sharing one geometry
type Section struct {
	PageWidth     float64
	PageHeight    float64
	Margins       Margins
	Columns       int
	ColumnSpacing float64
	Orientation   string
	StartPage     int

	Header      *HeaderFooter
	Footer      *HeaderFooter
	FirstHeader *HeaderFooter
	FirstFooter *HeaderFooter

	Elements []Element
}

// Note is a footnote or endnote
type Note struct {
	ID         int
	Paragraphs []ParagraphID
	Page       int
	Marker     string
}

// Comment is a comment anchored on body paragraphs
type Comment struct {
	ID         int
	Paragraphs []ParagraphID
	Author     string
	Initials   string
	Text       string
	Page       int
}

// OutlineItem is a node of the document outline
type OutlineItem struct {
	Title    string
	Anchor   string
	Page     int
	Level    int
	Children []OutlineItem
}

// Document is the root of the intermediate representation. Paragraphs live
// in an arena and are referenced by ParagraphID from sections, headers,
// footers, table cells, notes and comments.
type Document struct {
	Metadata  Metadata
	Sections  []*Section
	Footnotes []Note
	Endnotes  []Note
	Comments  []Comment
	Outline   []OutlineItem
	Tagged    bool
	PageCount int

	paragraphs []Paragraph
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{}
}

// NewParagraph stores p in the arena and returns its handle
func (d *Document) NewParagraph(p Paragraph) ParagraphID {
	d.paragraphs = append(d.paragraphs, p)
	return ParagraphID(len(d.paragraphs) - 1)
}

// Paragraph returns the paragraph for a handle, or nil
func (d *Document) Paragraph(id ParagraphID) *Paragraph {
	if id < 0 || int(id) >= len(d.paragraphs) {
		return nil
	}
	return &d.paragraphs[id]
}

// Copy stores a deep copy of a paragraph and returns the new handle
func (d *Document) Copy(id ParagraphID) ParagraphID {
	p := d.Paragraph(id)
	if p == nil {
		return -1
	}
	return d.NewParagraph(p.Clone())
}

// Detach removes the given paragraphs from the top level of every section
// body. The paragraphs stay in the arena so they can be relocated. Page and
// column break flags of a removed paragraph move to the next paragraph, or
// to a new marker paragraph when a table, picture or equation follows. It
// returns the number of elements removed.
func (d *Document) Detach(ids ...ParagraphID) int {
	drop := make(map[ParagraphID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	removed := 0
	for _, s := range d.Sections {
		var kept []Element
		pageBreak, columnBreak := false, false
		for _, e := range s.Elements {
			id, isPara := e.(ParagraphID)
			if isPara && drop[id] {
				if p := d.Paragraph(id); p != nil {
					pageBreak = pageBreak || p.PageBreakBefore
					columnBreak = columnBreak || p.ColumnBreakBefore
				}
				removed++
				continue
			}
			if pageBreak || columnBreak {
				if p := d.Paragraph(id); isPara && p != nil {
					p.PageBreakBefore = p.PageBreakBefore || pageBreak
					p.ColumnBreakBefore = p.ColumnBreakBefore || columnBreak
				} else {
					kept = append(kept, d.marker(pageBreak, columnBreak))
				}
				pageBreak, columnBreak = false, false
			}
			kept = append(kept, e)
		}
		if pageBreak || columnBreak {
			kept = append(kept, d.marker(pageBreak, columnBreak))
		}
		s.Elements = kept
	}
	return removed
}

// marker creates an empty paragraph carrying only break flags
func (d *Document) marker(pageBreak, columnBreak bool) ParagraphID {
	return d.NewParagraph(Paragraph{
		PageBreakBefore:   pageBreak,
		ColumnBreakBefore: columnBreak,
		Provenance:        Provenance{Generated: true},
	})
}

// Walk calls fn for every paragraph of the section bodies in document order,
// descending into table cells
func (d *Document) Walk(fn func(id ParagraphID, p *Paragraph)) {
	for _, s := range d.Sections {
		d.walkElements(s.Elements, fn)
	}
}

func (d *Document) walkElements(elements []Element, fn func(ParagraphID, *Paragraph)) {
	for _, e := range elements {
		switch v := e.(type) {
		case ParagraphID:
			if p := d.Paragraph(v); p != nil {
				fn(v, p)
			}
		case *Table:
			for _, row := range v.Rows {
				for _, c := range row.Cells {
					d.walkElements(c.Content, fn)
				}
			}
		}
	}
}

// Text returns the body text, one paragraph per line
func (d *Document) Text() string {
	var lines []string
	d.Walk(func(_ ParagraphID, p *Paragraph) {
		if t := p.Text(); t != "" {
			lines = append(lines, t)
		}
	})
	return strings.Join(lines, "\n")
}

// Stats are document statistics for the extended properties part
type Stats struct {
	Pages                int
	Paragraphs           int
	Words                int
	Lines                int
	Characters           int
	CharactersWithSpaces int
	Tables               int
	Pictures             int
}

// Stats counts body content
func (d *Document) Stats() Stats {
	st := Stats{Pages: d.PageCount}
	d.Walk(func(_ ParagraphID, p *Paragraph) {
		text := p.Text()
		if strings.TrimSpace(text) == "" {
			return
		}
		st.Paragraphs++
		st.Words += len(strings.Fields(text))
		lines := p.Provenance.Lines
		if lines < 1 {
			lines = 1
		}
		st.Lines += lines
		st.CharactersWithSpaces += utf8.RuneCountInString(text)
		st.Characters += utf8.RuneCountInString(strings.Join(strings.Fields(text), ""))
	})
	for _, s := range d.Sections {
		countElements(s.Elements, &st)
	}
	return st
}

func countElements(elements []Element, st *Stats) {
	for _, e := range elements {
		switch v := e.(type) {
		case *Table:
			st.Tables++
			for _, row := range v.Rows {
				for _, c := range row.Cells {
					countElements(c.Content, st)
				}
			}
		case *Picture:
			st.Pictures++
		case *Equation:
			if v.Picture != nil && v.OMML == "" {
				st.Pictures++
			}
		}
	}
}

// ErrInvalid is wrapped by every Validate failure
var ErrInvalid = errors.New("invalid document")

var bookmarkName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,39}$`)

// Validate checks the structural invariants of the document: page ranges,
// numbering levels, table grids and bookmark names
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	var err error
	for i := range d.paragraphs {
		p := &d.paragraphs[i]
		if p.Provenance.StartPage > p.Provenance.EndPage {
			err = errors.Join(err, fmt.Errorf("%w: paragraph %d starts on page %d after its end page %d", ErrInvalid, i, p.Provenance.StartPage, p.Provenance.EndPage))
		}
		if n := p.Numbering; n != nil && (n.Level < 0 || n.Level > MaxLevel) {
			err = errors.Join(err, fmt.Errorf("%w: paragraph %d numbering level %d", ErrInvalid, i, n.Level))
		}
		for _, b := range p.Bookmarks {
			if !bookmarkName.MatchString(b) {
				err = errors.Join(err, fmt.Errorf("%w: bookmark name %q", ErrInvalid, b))
			}
			if seen[b] {
				err = errors.Join(err, fmt.Errorf("%w: duplicate bookmark %q", ErrInvalid, b))
			}
			seen[b] = true
		}
	}
	for _, s := range d.Sections {
		for _, e := range s.Elements {
			if t, ok := e.(*Table); ok {
				if terr := t.Validate(); terr != nil {
					err = errors.Join(err, fmt.Errorf("%w: %v", ErrInvalid, terr))
				}
			}
		}
	}
	return err
}

package ir

import (
	"strings"

	"github.com/tsawler/pdf2docx/model"
)

// ParagraphID is a stable handle into the paragraph arena of a Document.
// Handles survive relocation between the body, headers, footers and notes.
type ParagraphID int

// Kind implements Element
func (ParagraphID) Kind() ElementKind { return KindParagraph }

// BreakKind is a break carried by a run
type BreakKind int

const (
	BreakNone BreakKind = iota
	BreakLine
	BreakPage
	BreakColumn
)

// Run is a span of text sharing one format
type Run struct {
	Text  string
	Break BreakKind

	FontName    string
	FontSize    float64 // points, 0 inherits the style
	Bold        bool
	Italic      bool
	Underline   bool
	Color       string // RRGGBB, "" inherits
	Superscript bool
	Subscript   bool
	RTL         bool
	Language    string
	Vertical    bool
	Style       string // character style id
	Field       string // simple field instruction such as PAGE; Text is the cached result

	HyperlinkTarget  string // external URL
	HyperlinkAnchor  string // bookmark name
	HyperlinkTooltip string

	// Note and comment references, 0 when absent
	FootnoteRef int
	EndnoteRef  int
	CommentRef  int

	CommentStart []int
	CommentEnd   []int
}

// IsLink reports whether the run is part of a hyperlink
func (r Run) IsLink() bool {
	return r.HyperlinkTarget != "" || r.HyperlinkAnchor != ""
}

// Numbering kinds
const (
	NumberingBullet  = "bullet"
	NumberingOrdered = "ordered"
)

// MaxLevel is the deepest numbering level
const MaxLevel = 8

// Numbering attaches a paragraph to a list
type Numbering struct {
	Kind        string // NumberingBullet or NumberingOrdered
	Level       int    // 0..MaxLevel
	Format      string // numFmt value such as "decimal" or "lowerRoman"
	Punctuation string // "dot", "paren" or "enclosed"
	Marker      string
	Indent      float64
}

// Provenance records where a paragraph came from
type Provenance struct {
	StartPage    int
	EndPage      int
	BBox         model.BBox
	Column       int
	FontSize     float64
	Lines        int
	Generated    bool // synthesized, not read from the page
	Continuation bool // extended across a page break
	Watermark    bool
}

// Paragraph is a block of runs with paragraph formatting. All lengths are
// in points.
type Paragraph struct {
	Runs      []Run
	Style     string
	Role      string
	Alignment model.Alignment
	Numbering *Numbering

	SpacingBefore float64
	SpacingAfter  float64
	LineSpacing   float64 // multiple of single spacing, 0 unset

	LeftIndent      float64
	FirstLineIndent float64
	HangingIndent   float64

	KeepLines         bool
	KeepWithNext      bool
	Bidi              bool
	PageBreakBefore   bool
	ColumnBreakBefore bool

	Bookmarks        []string
	FieldInstruction string
	Background       string

	Provenance Provenance
}

// Text returns the concatenated run text
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsMarker reports whether the paragraph only carries a break flag
func (p *Paragraph) IsMarker() bool {
	return len(p.Runs) == 0 && (p.PageBreakBefore || p.ColumnBreakBefore)
}

// Clone returns a deep copy
func (p Paragraph) Clone() Paragraph {
	out := p
	out.Runs = make([]Run, len(p.Runs))
	for i, r := range p.Runs {
		r.CommentStart = append([]int(nil), r.CommentStart...)
		r.CommentEnd = append([]int(nil), r.CommentEnd...)
		out.Runs[i] = r
	}
	if p.Numbering != nil {
		n := *p.Numbering
		out.Numbering = &n
	}
	out.Bookmarks = append([]string(nil), p.Bookmarks...)
	return out
}

package ir

import (
	"fmt"

	"github.com/tsawler/pdf2docx/model"
)

// ElementKind identifies a block-level element
type ElementKind int

const (
	KindParagraph ElementKind = iota
	KindTable
	KindPicture
	KindEquation
)

func (k ElementKind) String() string {
	switch k {
	case KindParagraph:
		return "Paragraph"
	case KindTable:
		return "Table"
	case KindPicture:
		return "Picture"
	case KindEquation:
		return "Equation"
	default:
		return "Unknown"
	}
}

// Element is a block-level item of a section, header, footer or table cell:
// a ParagraphID, *Table, *Picture or *Equation
type Element interface {
	Kind() ElementKind
}

// Picture is an embedded raster sized in points
type Picture struct {
	Data        []byte
	MIME        string
	Name        string
	Description string
	Width       float64
	Height      float64
	Page        int
	BBox        model.BBox
}

// Kind implements Element
func (*Picture) Kind() ElementKind { return KindPicture }

// Equation is math content. OMML is preferred; Picture is the rendered
// fallback and Text the linear form.
type Equation struct {
	OMML        string
	MathML      string
	Picture     *Picture
	Text        string
	Description string
	Inline      bool
	Page        int
	BBox        model.BBox
}

// Kind implements Element
func (*Equation) Kind() ElementKind { return KindEquation }

// Vertical alignment values for table cells
const (
	VAlignTop    = "top"
	VAlignCenter = "center"
	VAlignBottom = "bottom"
)

// TableCell is one grid cell. A cell covered by a vertical merge from the
// row above has Continue set and no content.
type TableCell struct {
	Content       []Element
	RowSpan       int
	ColSpan       int
	Continue      bool
	Alignment     model.Alignment
	VerticalAlign string
	Background    string
}

// Span returns the column span, at least 1
func (c TableCell) Span() int {
	if c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}

// TableRow is one table row
type TableRow struct {
	Cells  []TableCell
	Header bool
}

// Table is a grid of cells. Widths are in points.
type Table struct {
	Rows         []TableRow
	ColumnWidths []float64
	Width        float64
	HeaderRows   int
	Alignment    model.Alignment
	Borders      bool
	BorderColor  string
	CellPadding  float64
	Page         int
	BBox         model.BBox
}

// Kind implements Element
func (*Table) Kind() ElementKind { return KindTable }

// ColumnCount returns the number of grid columns
func (t *Table) ColumnCount() int {
	return len(t.ColumnWidths)
}

// Validate checks that every row covers exactly ColumnCount grid columns
func (t *Table) Validate() error {
	n := t.ColumnCount()
	if n == 0 {
		return fmt.Errorf("table has no columns")
	}
	for i, row := range t.Rows {
		covered := 0
		for _, c := range row.Cells {
			covered += c.Span()
		}
		if covered != n {
			return fmt.Errorf("row %d covers %d of %d columns", i, covered, n)
		}
	}
	return nil
}

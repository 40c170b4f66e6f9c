package tables

import (
	"fmt"
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// HeaderFill is the shading applied to header cells
const HeaderFill = "D9D9D9"

// VerticalAlign is the vertical placement of cell content
type VerticalAlign string

const (
	VAlignTop    VerticalAlign = ""
	VAlignCenter VerticalAlign = "center"
	VAlignBottom VerticalAlign = "bottom"
)

// Cell is one grid cell. A cell with Continue set is the lower part of a
// vertically merged cell and carries no content of its own.
type Cell struct {
	Blocks        []model.TextBlock
	RowSpan       int
	ColSpan       int
	Continue      bool
	Header        bool
	Alignment     model.Alignment
	VerticalAlign VerticalAlign
	Background    string
}

// IsEmpty reports whether the cell holds no text
func (c Cell) IsEmpty() bool {
	for _, b := range c.Blocks {
		if b.Text != "" {
			return false
		}
	}
	return true
}

// Row is one table row
type Row struct {
	Cells  []Cell
	Header bool
}

// Table is a detected table with its grid geometry
type Table struct {
	BBox         model.BBox
	Rows         []Row
	ColumnWidths []float64
	Width        float64
	Alignment    model.Alignment
	BorderColor  string
	CellPadding  float64
	HeaderRows   int
	Source       string // name of the pass that found the table
}

// ColumnCount returns the number of grid columns
func (t *Table) ColumnCount() int {
	return len(t.ColumnWidths)
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Validate checks that every row covers exactly the column count after
// column spans are expanded.
func (t *Table) Validate() error {
	cols := t.ColumnCount()
	for i, row := range t.Rows {
		covered := 0
		for _, c := range row.Cells {
			span := c.ColSpan
			if span < 1 {
				span = 1
			}
			covered += span
		}
		if covered != cols {
			return fmt.Errorf("row %d covers %d of %d columns", i, covered, cols)
		}
	}
	return nil
}

// tableAlignment places a table relative to the page center
func tableAlignment(pageWidth, left, right float64) model.Alignment {
	width := math.Max(1, right-left)
	center := (left + right) / 2
	pageCenter := pageWidth / 2
	switch {
	case math.Abs(center-pageCenter) <= math.Max(12, width*0.15):
		return model.AlignCenter
	case center < pageCenter:
		return model.AlignLeft
	default:
		return model.AlignRight
	}
}

package docx

import (
	"strconv"
	"strings"
)

// TableInfo is a table read back from a package
type TableInfo struct {
	Rows       []RowInfo
	ColWidths  []float64 // points
	HasBorders bool
	StyleID    string
}

// RowInfo is one table row
type RowInfo struct {
	Cells    []CellInfo
	IsHeader bool
}

// CellInfo is one table cell
type CellInfo struct {
	Text          string // cell paragraphs joined by newlines
	ColSpan       int
	RowSpan       int
	Continue      bool // covered by a vertical merge from the row above
	Width         float64
	VerticalAlign string
	Shading       string
}

// ColCount returns the number of grid columns
func (t *TableInfo) ColCount() int {
	if len(t.ColWidths) > 0 {
		return len(t.ColWidths)
	}
	n := 0
	for _, row := range t.Rows {
		count := 0
		for _, c := range row.Cells {
			count += c.ColSpan
		}
		n = max(n, count)
	}
	return n
}

// Cell returns the text of the cell starting at grid column col of row,
// or "" when no cell starts there
func (t *TableInfo) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	at := 0
	for _, c := range t.Rows[row].Cells {
		if at == col {
			return c.Text
		}
		at += c.ColSpan
	}
	return ""
}

// parseTable decodes a w:tbl
func parseTable(tbl tableXML) TableInfo {
	out := TableInfo{StyleID: tbl.Properties.Style.Val}
	for _, col := range tbl.Grid.Cols {
		out.ColWidths = append(out.ColWidths, parseTwips(col.W))
	}
	b := tbl.Properties.Borders
	for _, side := range []borderXML{b.Top, b.Bottom, b.Left, b.Right, b.InsideH, b.InsideV} {
		if side.Val != "" && side.Val != "nil" && side.Val != "none" {
			out.HasBorders = true
		}
	}
	for _, row := range tbl.Rows {
		r := RowInfo{IsHeader: row.Properties.Header.present()}
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, parseCell(cell))
		}
		out.Rows = append(out.Rows, r)
	}
	out.resolveVerticalMerges()
	return out
}

func parseCell(cell tableCellXML) CellInfo {
	props := cell.Properties
	out := CellInfo{ColSpan: 1, RowSpan: 1, VerticalAlign: props.VAlign.Val, Shading: props.Shading.Fill}
	if span, err := strconv.Atoi(props.GridSpan.Val); err == nil && span > 0 {
		out.ColSpan = span
	}
	if props.VMerge != nil && props.VMerge.Val != "restart" {
		out.Continue = true
	}
	if props.Width.Type == "dxa" {
		out.Width = parseTwips(props.Width.W)
	}
	if out.VerticalAlign == "" {
		out.VerticalAlign = "top"
	}
	if out.Shading == "auto" {
		out.Shading = ""
	}
	var lines []string
	for i := range cell.Paragraphs {
		if t := cell.Paragraphs[i].Text(); t != "" {
			lines = append(lines, t)
		}
	}
	out.Text = strings.Join(lines, "\n")
	return out
}

// resolveVerticalMerges adds every continuation cell to the row span of
// the cell that starts the merge in the same grid column
func (t *TableInfo) resolveVerticalMerges() {
	starts := make(map[int][2]int) // grid column -> row, cell index
	for ri := range t.Rows {
		col := 0
		for ci := range t.Rows[ri].Cells {
			c := &t.Rows[ri].Cells[ci]
			if c.Continue {
				if s, ok := starts[col]; ok {
					t.Rows[s[0]].Cells[s[1]].RowSpan++
				}
			} else {
				starts[col] = [2]int{ri, ci}
			}
			col += c.ColSpan
		}
	}
}

// ToText returns the table as tab separated rows
func (t *TableInfo) ToText() string {
	var sb strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		}
	}
	return sb.String()
}

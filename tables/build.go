package tables

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/tsawler/pdf2docx/model"
)

// gridStyle is the border treatment a pass gives its tables
type gridStyle struct {
	source      string
	borderColor string
	padding     float64
}

// anchor is the top-left cell of a (possibly spanning) grid region
type anchor struct {
	row, col         int
	rowSpan, colSpan int
	blocks           []int
	header           bool
	alignment        model.Alignment
	valign           VerticalAlign
	background       string
}

// buildTable assigns the blocks to the grid given by rowEdges (descending)
// and colEdges (ascending). It returns nil when the grid has no cells.
func buildTable(in Input, idx []int, rowEdges, colEdges []float64, style gridStyle, tol float64) *Detection {
	nRows, nCols := len(rowEdges)-1, len(colEdges)-1
	if nRows <= 0 || nCols <= 0 {
		return nil
	}

	type placed struct {
		block          int
		r0, r1, c0, c1 int
	}
	items := make([]placed, 0, len(idx))
	for _, i := range idx {
		b := in.Blocks[i].BBox
		r0, r1 := spanFor(b.Top(), b.Bottom(), rowEdges, true, tol)
		c0, c1 := spanFor(b.Left(), b.Right(), colEdges, false, tol)
		items = append(items, placed{block: i, r0: r0, r1: r1, c0: c0, c1: c1})
	}
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].r0 != items[b].r0 {
			return items[a].r0 < items[b].r0
		}
		return items[a].c0 < items[b].c0
	})

	owner := make([][]*anchor, nRows)
	for r := range owner {
		owner[r] = make([]*anchor, nCols)
	}
	var used []int
	for _, it := range items {
		a := owner[it.r0][it.c0]
		if a == nil {
			// Shrink the span so regions never overlap.
			c1 := it.c0
			for c1+1 <= it.c1 && owner[it.r0][c1+1] == nil {
				c1++
			}
			r1 := it.r0
			for r := it.r0 + 1; r <= it.r1; r++ {
				free := true
				for c := it.c0; c <= c1; c++ {
					if owner[r][c] != nil {
						free = false
						break
					}
				}
				if !free {
					break
				}
				r1 = r
			}
			a = &anchor{row: it.r0, col: it.c0, rowSpan: r1 - it.r0 + 1, colSpan: c1 - it.c0 + 1}
			for r := it.r0; r <= r1; r++ {
				for c := it.c0; c <= c1; c++ {
					owner[r][c] = a
				}
			}
		}
		a.blocks = append(a.blocks, it.block)
		styleCell(a, in.Blocks[it.block])
		used = append(used, it.block)
	}

	table := &Table{
		BBox:        model.RectBBox(colEdges[0], rowEdges[nRows], colEdges[nCols], rowEdges[0]),
		BorderColor: style.borderColor,
		CellPadding: style.padding,
		Source:      style.source,
	}
	table.Width = math.Max(0, colEdges[nCols]-colEdges[0])
	for c := 0; c < nCols; c++ {
		table.ColumnWidths = append(table.ColumnWidths, math.Max(0, colEdges[c+1]-colEdges[c]))
	}
	table.Alignment = tableAlignment(in.PageWidth, colEdges[0], colEdges[nCols])

	for r := 0; r < nRows; r++ {
		var row Row
		starts, headers := 0, 0
		for c := 0; c < nCols; {
			a := owner[r][c]
			switch {
			case a == nil:
				row.Cells = append(row.Cells, Cell{RowSpan: 1, ColSpan: 1})
				c++
			case a.row == r && a.col == c:
				row.Cells = append(row.Cells, anchorCell(in, a))
				starts++
				if a.header {
					headers++
				}
				c += a.colSpan
			case a.col == c:
				row.Cells = append(row.Cells, Cell{
					RowSpan:       1,
					ColSpan:       a.colSpan,
					Continue:      true,
					Header:        a.header,
					Alignment:     a.alignment,
					VerticalAlign: a.valign,
					Background:    a.background,
				})
				c += a.colSpan
			default:
				c++
			}
		}
		row.Header = starts > 0 && headers >= starts
		table.Rows = append(table.Rows, row)
	}
	for _, row := range table.Rows {
		if !row.Header {
			break
		}
		table.HeaderRows++
	}
	return &Detection{Table: table, Blocks: used}
}

func anchorCell(in Input, a *anchor) Cell {
	blocks := make([]model.TextBlock, 0, len(a.blocks))
	for _, i := range a.blocks {
		blocks = append(blocks, in.Blocks[i])
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if math.Abs(blocks[i].BBox.Top()-blocks[j].BBox.Top()) > 1 {
			return blocks[i].BBox.Top() > blocks[j].BBox.Top()
		}
		return blocks[i].BBox.Left() < blocks[j].BBox.Left()
	})
	return Cell{
		Blocks:        blocks,
		RowSpan:       a.rowSpan,
		ColSpan:       a.colSpan,
		Header:        a.header,
		Alignment:     a.alignment,
		VerticalAlign: a.valign,
		Background:    a.background,
	}
}

// styleCell folds one block's hints into the cell. The first hint wins.
func styleCell(a *anchor, b model.TextBlock) {
	role := strings.ToUpper(b.Role)
	if IsHeaderRole(role) || b.Bold {
		a.header = true
		if a.background == "" {
			a.background = HeaderFill
		}
		if a.valign == VAlignTop {
			a.valign = VAlignCenter
		}
		if a.alignment == model.AlignNone {
			a.alignment = model.AlignCenter
		}
	} else if role != "" && a.alignment == model.AlignNone {
		a.alignment = roleAlignment(role)
	}
	if a.alignment == model.AlignNone {
		a.alignment = inferAlignment(b.Text)
	}
}

func roleAlignment(role string) model.Alignment {
	switch role {
	case "CENTER", "TABLEHEADER":
		return model.AlignCenter
	case "RIGHT", "TABLERIGHT":
		return model.AlignRight
	case "LEFT", "TABLELEFT":
		return model.AlignLeft
	}
	return model.AlignNone
}

// inferAlignment right-aligns numbers and centers very short words
func inferAlignment(text string) model.Alignment {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.AlignNone
	}
	if LooksNumeric(text) {
		return model.AlignRight
	}
	if n := len([]rune(text)); n <= 3 && strings.IndexFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
		return model.AlignCenter
	}
	return model.AlignNone
}

// LooksNumeric reports whether text reads as a number, allowing thousands
// separators, a unicode minus, a percent sign and a leading currency symbol.
func LooksNumeric(text string) bool {
	cleaned := strings.NewReplacer(",", "", "−", "-", "·", "", " ", "").Replace(strings.TrimSpace(text))
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimLeft(cleaned, "$€£¥")
	if strings.IndexFunc(cleaned, unicode.IsDigit) < 0 {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

// spanFor projects the extent [start, end] of a block onto the grid edges.
// Row edges descend, so start is the top; column edges ascend, so start is
// the left.
func spanFor(start, end float64, edges []float64, descending bool, tol float64) (int, int) {
	if len(edges) < 2 {
		return 0, 0
	}
	first := indexFor(start, edges, descending, false, tol)
	last := indexFor(end, edges, descending, true, tol)
	if last < first {
		last = first
	}
	maxIndex := len(edges) - 2
	return clampIndex(first, maxIndex), clampIndex(last, maxIndex)
}

func indexFor(v float64, edges []float64, descending, preferLast bool, tol float64) int {
	for i := 0; i < len(edges)-1; i++ {
		lo, hi := edges[i], edges[i+1]
		if descending {
			lo, hi = hi, lo
		}
		if v >= lo-tol && v <= hi+tol {
			// A start touching the next edge belongs to the next cell.
			if !preferLast && i+2 < len(edges) && math.Abs(v-edges[i+1]) <= tol {
				return i + 1
			}
			return i
		}
	}
	if preferLast {
		return len(edges) - 2
	}
	return 0
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// clusterValues groups sorted values whose consecutive distance is within
// tolerance and returns the mean of each group.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var out []float64
	sum, n, last := sorted[0], 1, sorted[0]
	for _, v := range sorted[1:] {
		if v-last <= tolerance {
			sum += v
			n++
		} else {
			out = append(out, sum/float64(n))
			sum, n = v, 1
		}
		last = v
	}
	return append(out, sum/float64(n))
}

func reversed(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

// gridEdges derives grid edges from block centers. Rows come back in
// descending y, columns in ascending x.
func gridEdges(blocks []model.TextBlock, idx []int, rows bool) []float64 {
	if len(idx) == 0 {
		return nil
	}
	var sizes []float64
	for _, i := range idx {
		if rows {
			sizes = append(sizes, blocks[i].BBox.Height)
		} else {
			sizes = append(sizes, blocks[i].BBox.Width)
		}
	}
	tol := math.Max(6, mean(sizes)*0.6)

	var centers []float64
	var lo, hi float64
	if rows {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, i := range idx {
			b := blocks[i].BBox
			centers = append(centers, b.Center().Y)
			lo = math.Min(lo, b.Bottom())
			hi = math.Max(hi, b.Top())
		}
	} else {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, i := range idx {
			lo = math.Min(lo, blocks[i].BBox.Left())
			hi = math.Max(hi, blocks[i].BBox.Right())
		}
		width := math.Max(1, hi-lo)
		// Segments spanning most of the table say nothing about columns.
		for _, i := range idx {
			if blocks[i].BBox.Width <= width*0.8 {
				centers = append(centers, blocks[i].BBox.Center().X)
			}
		}
		if len(centers) == 0 {
			for _, i := range idx {
				centers = append(centers, blocks[i].BBox.Center().X)
			}
		}
	}
	sort.Float64s(centers)

	// Running-mean grouping of centers.
	var groups []float64
	var counts []int
	for _, c := range centers {
		if n := len(groups); n > 0 && math.Abs(groups[n-1]-c) <= tol {
			counts[n-1]++
			groups[n-1] += (c - groups[n-1]) / float64(counts[n-1])
			continue
		}
		groups = append(groups, c)
		counts = append(counts, 1)
	}

	edges := []float64{lo}
	for i := 0; i+1 < len(groups); i++ {
		edges = append(edges, (groups[i]+groups[i+1])/2)
	}
	edges = append(edges, hi)
	if rows {
		return reversed(edges)
	}
	return edges
}

// clusterByProximity groups blocks whose boxes lie within tol of each other,
// transitively.
func clusterByProximity(blocks []model.TextBlock, idx []int, tol float64) [][]int {
	parent := make([]int, len(idx))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			if boxesClose(blocks[idx[a]].BBox, blocks[idx[b]].BBox, tol) {
				parent[find(a)] = find(b)
			}
		}
	}
	groups := make(map[int][]int)
	var order []int
	for i := range idx {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], idx[i])
	}
	out := make([][]int, 0, len(order))
	for _, root := range order {
		out = append(out, groups[root])
	}
	return out
}

func boxesClose(a, b model.BBox, tol float64) bool {
	h := math.Max(0, math.Max(a.Left(), b.Left())-math.Min(a.Right(), b.Right()))
	v := math.Max(0, math.Max(a.Bottom(), b.Bottom())-math.Min(a.Top(), b.Top()))
	return h <= tol && v <= tol
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

package tables

import (
	"strings"

	"github.com/tsawler/pdf2docx/model"
)

// WhitespaceDetector finds borderless tables: clusters of segments that line
// up into at least two rows and two columns.
type WhitespaceDetector struct {
	config Config
}

// NewWhitespaceDetector creates a whitespace-grid detector
func NewWhitespaceDetector(config Config) *WhitespaceDetector {
	return &WhitespaceDetector{config: config}
}

// Name returns the detector name
func (d *WhitespaceDetector) Name() string {
	return "whitespace"
}

// Detect implements Detector
func (d *WhitespaceDetector) Detect(in Input, claimed map[int]bool) []Detection {
	idx := unclaimed(in, claimed, func(b model.TextBlock) bool {
		return strings.TrimSpace(b.Text) != "" && !b.Vertical
	})
	if len(idx) < d.config.MinBlocks {
		return nil
	}

	var out []Detection
	for _, cluster := range clusterByProximity(in.Blocks, idx, d.config.WhitespaceTolerance) {
		if len(cluster) < d.config.MinBlocks {
			continue
		}
		rows := gridEdges(in.Blocks, cluster, true)
		cols := gridEdges(in.Blocks, cluster, false)
		if len(rows)-1 < d.config.MinRows || len(cols)-1 < d.config.MinCols {
			continue
		}
		det := buildTable(in, cluster, rows, cols, gridStyle{
			source:      d.Name(),
			borderColor: "808080",
			padding:     2.5,
		}, d.config.ProjectionTolerance)
		if det != nil && d.dense(det.Table) {
			out = append(out, *det)
		}
	}
	return out
}

// dense applies the density gate: enough populated rows and columns, a
// mostly filled grid, and short cells.
func (d *WhitespaceDetector) dense(t *Table) bool {
	populatedRows := 0
	usedCols := make(map[int]bool)
	filled, words := 0, 0
	for _, row := range t.Rows {
		populated := false
		col := 0
		for _, c := range row.Cells {
			if !c.Continue && !c.IsEmpty() {
				populated = true
				usedCols[col] = true
				filled += c.ColSpan * c.RowSpan
				for _, b := range c.Blocks {
					words += len(strings.Fields(b.Text))
				}
			}
			col += c.ColSpan
		}
		if populated {
			populatedRows++
		}
	}
	if populatedRows < d.config.MinRows || len(usedCols) < d.config.MinCols {
		return false
	}
	cells := t.RowCount() * t.ColumnCount()
	if cells == 0 || float64(filled)/float64(cells) < d.config.MinFillRatio {
		return false
	}
	if d.config.MaxCellWords > 0 && float64(words)/float64(filled) > d.config.MaxCellWords {
		return false
	}
	return true
}

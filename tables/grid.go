package tables

import (
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// RulingDetector builds a table from the grid formed by a page's
// horizontal and vertical rules.
type RulingDetector struct {
	config Config
}

// NewRulingDetector creates a ruling-line detector
func NewRulingDetector(config Config) *RulingDetector {
	return &RulingDetector{config: config}
}

// Name returns the detector name
func (d *RulingDetector) Name() string {
	return "ruling"
}

// Detect implements Detector. All axis-aligned rules of the page form one
// grid; segments whose center lies inside it become its cells.
func (d *RulingDetector) Detect(in Input, claimed map[int]bool) []Detection {
	var horizontal, vertical []int
	for i, l := range in.Lines {
		switch {
		case math.Abs(l.Start.Y-l.End.Y) <= d.config.AxisTolerance:
			horizontal = append(horizontal, i)
		case math.Abs(l.Start.X-l.End.X) <= d.config.AxisTolerance:
			vertical = append(vertical, i)
		}
	}
	if len(horizontal) < 2 || len(vertical) < 2 {
		return nil
	}

	var ys, xs []float64
	for _, i := range horizontal {
		ys = append(ys, in.Lines[i].Start.Y, in.Lines[i].End.Y)
	}
	for _, i := range vertical {
		xs = append(xs, in.Lines[i].Start.X, in.Lines[i].End.X)
	}
	rows := reversed(clusterValues(ys, d.config.RulingTolerance))
	cols := clusterValues(xs, d.config.RulingTolerance)
	if len(rows) < 2 || len(cols) < 2 {
		return nil
	}

	grid := model.RectBBox(cols[0], rows[len(rows)-1], cols[len(cols)-1], rows[0])
	idx := unclaimed(in, claimed, func(b model.TextBlock) bool {
		return grid.Contains(b.BBox.Center())
	})
	if len(idx) == 0 {
		return nil
	}

	det := buildTable(in, idx, rows, cols, gridStyle{
		source:      d.Name(),
		borderColor: "000000",
		padding:     3,
	}, d.config.ProjectionTolerance)
	if det == nil {
		return nil
	}
	det.Lines = append(append(det.Lines, horizontal...), vertical...)
	return []Detection{*det}
}

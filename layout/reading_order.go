package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pdf2docx/model"
)

// PlacementKind identifies the page element a placement refers to
type PlacementKind int

const (
	PlaceParagraph PlacementKind = iota
	PlaceTable
	PlaceEquation
	PlacePicture
	PlaceDrawing
	PlaceField
)

// String returns the kind name
func (k PlacementKind) String() string {
	switch k {
	case PlaceParagraph:
		return "paragraph"
	case PlaceTable:
		return "table"
	case PlaceEquation:
		return "equation"
	case PlacePicture:
		return "picture"
	case PlaceDrawing:
		return "drawing"
	case PlaceField:
		return "field"
	default:
		return "unknown"
	}
}

// Placement positions one element of a PageLayout in reading order. Index
// points into the slice of the PageLayout matching Kind.
type Placement struct {
	Kind   PlacementKind
	Index  int
	BBox   model.BBox
	Column int
}

// ReadingOrderConfig holds configuration for reading order
type ReadingOrderConfig struct {
	// SameRowTolerance is the top-edge difference, in points, treated as the
	// same row (default: 1)
	SameRowTolerance float64
}

// DefaultReadingOrderConfig returns sensible default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{SameRowTolerance: 1}
}

// ReadingOrderDetector orders page elements for the document flow
type ReadingOrderDetector struct {
	config ReadingOrderConfig
}

// NewReadingOrderDetector creates a new detector with default configuration
func NewReadingOrderDetector() *ReadingOrderDetector {
	return &ReadingOrderDetector{config: DefaultReadingOrderConfig()}
}

// NewReadingOrderDetectorWithConfig creates a detector with custom configuration
func NewReadingOrderDetectorWithConfig(config ReadingOrderConfig) *ReadingOrderDetector {
	return &ReadingOrderDetector{config: config}
}

// Order sorts placements top to bottom, left to right, text before other
// elements on the same row. With several columns, elements crossing a column
// boundary split the page into bands; within a band each column is read top
// to bottom before the next.
func (d *ReadingOrderDetector) Order(items []Placement, cols ColumnLayout) []Placement {
	out := append([]Placement(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return d.before(out[i], out[j]) })
	if cols.Count <= 1 {
		return out
	}

	var ordered, band []Placement
	flush := func() {
		sort.SliceStable(band, func(i, j int) bool {
			if band[i].Column != band[j].Column {
				return band[i].Column < band[j].Column
			}
			return d.before(band[i], band[j])
		})
		ordered = append(ordered, band...)
		band = band[:0]
	}
	for _, p := range out {
		if spansColumns(p.BBox, cols) {
			flush()
			ordered = append(ordered, p)
			continue
		}
		band = append(band, p)
	}
	flush()
	return ordered
}

func (d *ReadingOrderDetector) before(a, b Placement) bool {
	if math.Abs(a.BBox.Top()-b.BBox.Top()) > d.config.SameRowTolerance {
		return a.BBox.Top() > b.BBox.Top()
	}
	if a.BBox.Left() != b.BBox.Left() {
		return a.BBox.Left() < b.BBox.Left()
	}
	return a.Kind == PlaceParagraph && b.Kind != PlaceParagraph
}

// spansColumns reports whether a box crosses any column boundary
func spansColumns(b model.BBox, cols ColumnLayout) bool {
	for _, x := range cols.Boundaries {
		if b.Left() < x-cols.Spacing && b.Right() > x {
			return true
		}
	}
	return false
}

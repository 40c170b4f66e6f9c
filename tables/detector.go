package tables

import (
	"strings"

	"github.com/tsawler/pdf2docx/model"
)

// Input is the evidence a detector works from. Blocks are line segments in
// page order; Lines are the page's stroked rules.
type Input struct {
	Blocks    []model.TextBlock
	Lines     []model.Line
	PageWidth float64
}

// Detection is one table together with the inputs it consumed
type Detection struct {
	Table  *Table
	Blocks []int // indexes into Input.Blocks
	Lines  []int // indexes into Input.Lines
}

// Detector is one table detection pass
type Detector interface {
	// Detect finds tables among the blocks not present in claimed
	Detect(in Input, claimed map[int]bool) []Detection

	// Name returns the detector name
	Name() string
}

// Config holds detector configuration
type Config struct {
	// Minimum segments for a tagged or whitespace table
	MinBlocks int

	// Proximity tolerance for clustering tagged cells (points)
	TaggedTolerance float64

	// Proximity tolerance for clustering whitespace cells (points)
	WhitespaceTolerance float64

	// Maximum skew for a rule to count as horizontal or vertical (points)
	AxisTolerance float64

	// Tolerance for merging rule coordinates into one grid edge (points)
	RulingTolerance float64

	// Tolerance when projecting a segment edge onto the grid (points)
	ProjectionTolerance float64

	// Density gate for whitespace tables: populated rows and columns
	MinRows int
	MinCols int

	// Density gate for whitespace tables: fraction of grid cells holding text
	MinFillRatio float64

	// Density gate for whitespace tables: mean words per populated cell
	MaxCellWords float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinBlocks:           4,
		TaggedTolerance:     12,
		WhitespaceTolerance: 36,
		AxisTolerance:       0.5,
		RulingTolerance:     1.0,
		ProjectionTolerance: 2.0,
		MinRows:             2,
		MinCols:             2,
		MinFillRatio:        0.5,
		MaxCellWords:        6,
	}
}

// Passes returns the detection passes in priority order
func Passes(config Config) []Detector {
	return []Detector{
		NewTaggedDetector(config),
		NewRulingDetector(config),
		NewWhitespaceDetector(config),
	}
}

// Detect runs every pass in order. Blocks and lines consumed by one pass are
// invisible to the passes after it.
func Detect(in Input, config Config) []Detection {
	claimed := make(map[int]bool)
	var out []Detection
	for _, pass := range Passes(config) {
		for _, d := range pass.Detect(in, claimed) {
			for _, i := range d.Blocks {
				claimed[i] = true
			}
			out = append(out, d)
		}
	}
	return out
}

var (
	cellRoles   = map[string]bool{"TD": true, "TH": true, "CELL": true, "TABLECELL": true, "HEADER": true, "DATA": true}
	headerRoles = map[string]bool{"TH": true, "THEAD": true, "HEADER": true, "TABLEHEADER": true}
)

// IsCellRole reports whether a structure role marks a table cell
func IsCellRole(role string) bool {
	return cellRoles[strings.ToUpper(role)]
}

// IsHeaderRole reports whether a structure role marks a header cell
func IsHeaderRole(role string) bool {
	return headerRoles[strings.ToUpper(role)]
}

func unclaimed(in Input, claimed map[int]bool, keep func(model.TextBlock) bool) []int {
	var idx []int
	for i, b := range in.Blocks {
		if claimed[i] || !keep(b) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

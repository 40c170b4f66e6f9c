package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pdf2docx/model"
)

// ColumnConfig holds configuration for column detection
type ColumnConfig struct {
	// GapFactor is how many times the average left-edge gap a gap must
	// exceed to mark a column boundary (default: 2)
	GapFactor float64

	// MinGap is the smallest left-edge gap, in points, that can separate
	// columns; smaller gaps are indentation (default: 72)
	MinGap float64

	// MaxColumns caps the column count (default: 3)
	MaxColumns int

	// MinBlocks is the fewest paragraphs needed to infer columns (default: 4)
	MinBlocks int

	// DefaultSpacing is used when the gutter cannot be measured (default: 36)
	DefaultSpacing float64
}

// DefaultColumnConfig returns sensible default configuration
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		GapFactor:      2,
		MinGap:         72,
		MaxColumns:     3,
		MinBlocks:      4,
		DefaultSpacing: 36,
	}
}

// ColumnLayout describes the columns of a page
type ColumnLayout struct {
	// Count is the number of columns, at least 1
	Count int

	// Spacing is the narrowest gutter between columns in points
	Spacing float64

	// Boundaries are the left edges of columns 2..Count
	Boundaries []float64
}

// ColumnOf returns the zero-based column containing x
func (c ColumnLayout) ColumnOf(x float64) int {
	col := 0
	for _, b := range c.Boundaries {
		if x >= b-1 {
			col++
		}
	}
	return col
}

// ColumnDetector infers page columns from paragraph left edges
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a new column detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{config: DefaultColumnConfig()}
}

// NewColumnDetectorWithConfig creates a column detector with custom configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{config: config}
}

// Detect sorts the left edges, finds gaps larger than GapFactor times the
// average gap and turns the widest of them into column boundaries.
func (d *ColumnDetector) Detect(boxes []model.BBox) ColumnLayout {
	single := ColumnLayout{Count: 1}
	if len(boxes) < d.config.MinBlocks {
		return single
	}
	lefts := make([]float64, len(boxes))
	for i, b := range boxes {
		lefts[i] = b.Left()
	}
	sort.Float64s(lefts)

	type gap struct{ size, at float64 }
	var gaps []gap
	total := 0.0
	for i := 0; i+1 < len(lefts); i++ {
		g := lefts[i+1] - lefts[i]
		total += g
		gaps = append(gaps, gap{size: g, at: lefts[i+1]})
	}
	avg := total / float64(len(gaps))
	var large []gap
	for _, g := range gaps {
		if g.size > avg*d.config.GapFactor && g.size >= d.config.MinGap {
			large = append(large, g)
		}
	}
	if len(large) == 0 {
		return single
	}
	sort.SliceStable(large, func(i, j int) bool { return large[i].size > large[j].size })
	if max := d.config.MaxColumns - 1; len(large) > max {
		large = large[:max]
	}

	layout := ColumnLayout{Count: len(large) + 1}
	for _, g := range large {
		layout.Boundaries = append(layout.Boundaries, g.at)
	}
	sort.Float64s(layout.Boundaries)

	// Every column needs content on both sides of its boundary.
	counts := make([]int, layout.Count)
	for _, b := range boxes {
		counts[layout.ColumnOf(b.Left())]++
	}
	for _, n := range counts {
		if n == 0 {
			return single
		}
	}

	layout.Spacing = math.Inf(1)
	for i, boundary := range layout.Boundaries {
		right := math.Inf(-1)
		for _, b := range boxes {
			if layout.ColumnOf(b.Left()) == i {
				right = math.Max(right, b.Right())
			}
		}
		if gutter := boundary - right; gutter > 0 {
			layout.Spacing = math.Min(layout.Spacing, gutter)
		}
	}
	if math.IsInf(layout.Spacing, 1) {
		layout.Spacing = d.config.DefaultSpacing
	}
	return layout
}

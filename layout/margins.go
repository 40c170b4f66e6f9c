package layout

import (
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// DefaultMargin is used for every side of a page without content
const DefaultMargin = 72.0

// Margins are page margins in points
type Margins struct {
	Top, Bottom, Left, Right float64
}

// MarginConfig holds configuration for margin estimation
type MarginConfig struct {
	// Min is the smallest margin reported (default: 12)
	Min float64

	// Max clamps every margin (default: 180)
	Max float64
}

// DefaultMarginConfig returns sensible default configuration
func DefaultMarginConfig() MarginConfig {
	return MarginConfig{Min: 12, Max: 180}
}

// EstimateMargins derives margins from the extent of the content boxes.
// Each margin is kept within [Min, Max] and below half the page dimension.
func EstimateMargins(boxes []model.BBox, width, height float64, config MarginConfig) Margins {
	if len(boxes) == 0 {
		return Margins{Top: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin, Right: DefaultMargin}
	}
	var extent model.BBox
	for _, b := range boxes {
		extent = extent.Union(b)
	}
	clamp := func(v, dim float64) float64 {
		hi := math.Min(config.Max, dim/2)
		return math.Max(config.Min, math.Min(v, hi))
	}
	return Margins{
		Left:   clamp(extent.Left(), width),
		Right:  clamp(width-extent.Right(), width),
		Top:    clamp(height-extent.Top(), height),
		Bottom: clamp(extent.Bottom(), height),
	}
}

// AlignmentConfig holds configuration for alignment inference
type AlignmentConfig struct {
	// CenterTolerance is the floor, in points, of the distance between a
	// block center and the usable center that still counts as centered
	// (default: 10)
	CenterTolerance float64

	// CenterFraction scales the center tolerance with the usable width
	// (default: 0.1)
	CenterFraction float64

	// RightTolerance is how close to the right margin a right-aligned block
	// must end (default: 5)
	RightTolerance float64

	// RightMinOffset is how far, as a fraction of the usable width, a
	// right-aligned block must start from the left margin (default: 0.25)
	RightMinOffset float64

	// JustifyFraction is the width, as a fraction of the usable width, from
	// which a block is justified (default: 0.9)
	JustifyFraction float64
}

// DefaultAlignmentConfig returns sensible default configuration
func DefaultAlignmentConfig() AlignmentConfig {
	return AlignmentConfig{
		CenterTolerance: 10,
		CenterFraction:  0.1,
		RightTolerance:  5,
		RightMinOffset:  0.25,
		JustifyFraction: 0.9,
	}
}

// InferAlignment classifies a block against the usable area between the
// margins. Justification applies only to multi-line blocks.
func InferAlignment(b model.TextBlock, width float64, m Margins, config AlignmentConfig) model.Alignment {
	left, right := m.Left, width-m.Right
	usable := right - left
	if usable <= 0 {
		return model.AlignLeft
	}
	box := b.BBox
	center := (left + right) / 2
	tol := math.Max(config.CenterTolerance, usable*config.CenterFraction)
	switch {
	case box.Width >= usable*config.JustifyFraction && b.Lines > 1:
		return model.AlignJustify
	case math.Abs(box.Center().X-center) <= tol && box.Left() > left+config.RightTolerance:
		return model.AlignCenter
	case box.Right() >= right-config.RightTolerance && box.Left() > left+usable*config.RightMinOffset:
		return model.AlignRight
	}
	return model.AlignLeft
}

package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pdf2docx/model"
)

// Paragraph is a merged text block with its placement on the page
type Paragraph struct {
	Block model.TextBlock

	// Alignment is the inferred horizontal alignment
	Alignment model.Alignment

	// Column is the zero-based column the paragraph sits in
	Column int

	// Indent is the distance of the left edge from the left margin
	Indent float64

	// FirstLineIndent is how far the first line starts right of the others;
	// negative for hanging indents
	FirstLineIndent float64

	// Background is the RRGGBB fill painted behind the paragraph, if any
	Background string

	// firstLeft and lastLine track merging state
	firstLeft float64
	lastLine  model.BBox
}

// ParagraphConfig holds configuration for paragraph merging
type ParagraphConfig struct {
	// MaxGap is the largest vertical gap between lines, as a fraction of
	// font size, that keeps them in one paragraph (default: 1.2)
	MaxGap float64

	// MaxSizeDifference is the largest relative font size difference between
	// merged lines (default: 0.2)
	MaxSizeDifference float64

	// MinOverlap is the horizontal overlap, in points, lines must share
	// (default: 0, any overlap)
	MinOverlap float64
}

// DefaultParagraphConfig returns sensible default configuration
func DefaultParagraphConfig() ParagraphConfig {
	return ParagraphConfig{
		MaxGap:            1.2,
		MaxSizeDifference: 0.2,
		MinOverlap:        0,
	}
}

// ParagraphDetector merges line segments into paragraphs
type ParagraphDetector struct {
	config ParagraphConfig
}

// NewParagraphDetector creates a new paragraph detector with default configuration
func NewParagraphDetector() *ParagraphDetector {
	return &ParagraphDetector{config: DefaultParagraphConfig()}
}

// NewParagraphDetectorWithConfig creates a paragraph detector with custom configuration
func NewParagraphDetectorWithConfig(config ParagraphConfig) *ParagraphDetector {
	return &ParagraphDetector{config: config}
}

// Detect merges segments into paragraphs. Segments are visited top to
// bottom; each joins the nearest open paragraph directly above it that is
// compatible, so interleaved columns build up independently.
func (d *ParagraphDetector) Detect(segments []model.TextBlock) []Paragraph {
	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := segments[order[a]].BBox.Top(), segments[order[b]].BBox.Top()
		if math.Abs(ta-tb) > 1 {
			return ta > tb
		}
		return segments[order[a]].BBox.Left() < segments[order[b]].BBox.Left()
	})

	var paras []Paragraph
	for _, i := range order {
		seg := segments[i]
		best, bestGap := -1, math.Inf(1)
		for p := range paras {
			gap, ok := d.canMerge(&paras[p], seg)
			if ok && gap < bestGap {
				best, bestGap = p, gap
			}
		}
		if best < 0 {
			paras = append(paras, Paragraph{Block: seg, firstLeft: seg.BBox.Left(), lastLine: seg.BBox})
			continue
		}
		p := &paras[best]
		p.Block = joinBlocks(p.Block, seg)
		p.lastLine = seg.BBox
	}

	for i := range paras {
		p := &paras[i]
		p.FirstLineIndent = p.firstLeft - p.Block.BBox.Left()
	}
	return paras
}

// canMerge reports whether seg continues p, with the vertical gap
func (d *ParagraphDetector) canMerge(p *Paragraph, seg model.TextBlock) (float64, bool) {
	prev := p.Block
	if prev.Vertical || seg.Vertical {
		return 0, false
	}
	if prev.Role != "" && seg.Role != "" && prev.Role != seg.Role {
		return 0, false
	}
	size := math.Max(prev.FontSize, seg.FontSize)
	if size <= 0 {
		return 0, false
	}
	if math.Abs(prev.FontSize-seg.FontSize) > d.config.MaxSizeDifference*size {
		return 0, false
	}
	// A list marker always opens a new paragraph.
	if _, ok := MatchMarker(seg.Text); ok {
		return 0, false
	}
	gap := p.lastLine.Bottom() - seg.BBox.Top()
	if gap > d.config.MaxGap*size || gap < -0.5*size {
		return 0, false
	}
	if p.lastLine.HorizontalOverlap(seg.BBox) <= d.config.MinOverlap {
		return 0, false
	}
	// Once a paragraph has settled on its left edge, an indented line or a
	// short previous line marks a paragraph boundary.
	if prev.Lines >= 2 {
		if seg.BBox.Left() > prev.BBox.Left()+size {
			return 0, false
		}
		if p.lastLine.Right() < prev.BBox.Right()-3*size {
			return 0, false
		}
	}
	return gap, true
}

package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/text"
)

// Script marks a glyph raised or lowered relative to its line
type Script int

const (
	ScriptNone Script = iota
	ScriptSuper
	ScriptSub
)

// LineConfig holds configuration for line, word and segment clustering
type LineConfig struct {
	// LineTolerance is the baseline distance, as a fraction of font size,
	// within which a glyph joins a line (default: 0.6)
	LineTolerance float64

	// WordGap is the horizontal gap, as a fraction of font size, that starts
	// a new word (default: 0.55)
	WordGap float64

	// SegmentGap is the horizontal gap, as a fraction of font size, that
	// splits a line into separate segments (default: 3.0)
	SegmentGap float64

	// ScriptOffset is the baseline shift, as a fraction of the line size,
	// beyond which a smaller glyph is a superscript or subscript (default: 0.3)
	ScriptOffset float64

	// ScriptSize is the size ratio below which a shifted glyph counts as a
	// script (default: 0.85)
	ScriptSize float64

	// VerticalColumnTolerance is the x distance, as a fraction of font size,
	// within which vertical glyphs share a column (default: 0.8)
	VerticalColumnTolerance float64

	// RotationTolerance is the angle in degrees within which baselines are
	// treated as parallel (default: 2)
	RotationTolerance float64
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		LineTolerance:           0.6,
		WordGap:                 0.55,
		SegmentGap:              3.0,
		ScriptOffset:            0.3,
		ScriptSize:              0.85,
		VerticalColumnTolerance: 0.8,
		RotationTolerance:       2,
	}
}

// Word is a run of glyphs without a word gap. Scripts runs parallel to
// Glyphs.
type Word struct {
	Glyphs  []model.Glyph
	Scripts []Script
	BBox    model.BBox
}

// Text returns the concatenated glyph text
func (w Word) Text() string {
	var sb strings.Builder
	for _, g := range w.Glyphs {
		sb.WriteString(g.Text)
	}
	return sb.String()
}

// Segment is a part of a line separated from its neighbours by a wide gap
type Segment struct {
	Words    []Word
	BBox     model.BBox
	Baseline float64 // page y of the baseline for horizontal text
	Size     float64 // dominant font size of the line
	Vertical bool
	Rotation float64
}

// Text returns the words joined by single spaces
func (s Segment) Text() string {
	parts := make([]string, len(s.Words))
	for i, w := range s.Words {
		parts[i] = w.Text()
	}
	return strings.Join(parts, " ")
}

// Line is one text line, top to bottom on the page
type Line struct {
	Segments []Segment
	BBox     model.BBox
	Baseline float64
	Size     float64
	Vertical bool
	Rotation float64
}

// LineDetector clusters glyphs into lines, words and segments
type LineDetector struct {
	config LineConfig
}

// NewLineDetector creates a new line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{config: DefaultLineConfig()}
}

// NewLineDetectorWithConfig creates a line detector with custom configuration
func NewLineDetectorWithConfig(config LineConfig) *LineDetector {
	return &LineDetector{config: config}
}

// placed is a glyph projected into the frame of its baseline direction
type placed struct {
	g    model.Glyph
	u, v float64 // along and across the baseline
}

// Detect clusters glyphs into lines. Horizontal lines come first, top to
// bottom, then rotated text, then vertical columns from right to left.
func (d *LineDetector) Detect(glyphs []model.Glyph) []Line {
	var vertical []model.Glyph
	buckets := make(map[int][]model.Glyph)
	var angles []int
	for _, g := range glyphs {
		if g.Vertical {
			vertical = append(vertical, g)
			continue
		}
		key := d.rotationKey(g.Rotation)
		if _, ok := buckets[key]; !ok {
			angles = append(angles, key)
		}
		buckets[key] = append(buckets[key], g)
	}
	sort.Ints(angles)

	var lines []Line
	for _, angle := range angles {
		lines = append(lines, d.horizontalLines(buckets[angle], float64(angle))...)
	}
	return append(lines, d.verticalLines(vertical)...)
}

// rotationKey snaps a baseline angle to whole degrees, folding angles near
// zero onto zero.
func (d *LineDetector) rotationKey(deg float64) int {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg <= d.config.RotationTolerance || deg >= 360-d.config.RotationTolerance {
		return 0
	}
	return int(math.Round(deg))
}

func (d *LineDetector) horizontalLines(glyphs []model.Glyph, angle float64) []Line {
	if len(glyphs) == 0 {
		return nil
	}
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	pts := make([]placed, len(glyphs))
	for i, g := range glyphs {
		pts[i] = placed{g: g, u: g.X*cos + g.Y*sin, v: -g.X*sin + g.Y*cos}
	}
	sort.SliceStable(pts, func(i, j int) bool {
		if pts[i].v != pts[j].v {
			return pts[i].v > pts[j].v
		}
		return pts[i].u < pts[j].u
	})

	// Step 1: group by distance to the running mean baseline
	var groups [][]placed
	var sumV, maxSize float64
	for _, p := range pts {
		if n := len(groups); n > 0 {
			meanV := sumV / float64(len(groups[n-1]))
			tol := d.config.LineTolerance * math.Max(p.g.Size, maxSize)
			if math.Abs(p.v-meanV) <= tol {
				groups[n-1] = append(groups[n-1], p)
				sumV += p.v
				maxSize = math.Max(maxSize, p.g.Size)
				continue
			}
		}
		groups = append(groups, []placed{p})
		sumV, maxSize = p.v, p.g.Size
	}

	// Step 2: order each line along the baseline and split it
	lines := make([]Line, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].u < group[j].u })
		if line, ok := d.buildLine(group, angle); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func (d *LineDetector) buildLine(group []placed, angle float64) (Line, bool) {
	size := 0.0
	for _, p := range group {
		if !text.IsBlank(p.g.Text) {
			size = math.Max(size, p.g.Size)
		}
	}
	if size == 0 {
		return Line{}, false
	}

	// The baseline is carried by full-size glyphs only.
	var sum float64
	var n int
	for _, p := range group {
		if !text.IsBlank(p.g.Text) && p.g.Size >= d.config.ScriptSize*size {
			sum += p.v
			n++
		}
	}
	baseV := sum / float64(n)

	line := Line{Size: size, Rotation: angle}
	var seg *Segment
	var word *Word
	var lastEnd float64
	pendingSpace := false
	flushWord := func() {
		if word != nil && len(word.Glyphs) > 0 {
			seg.Words = append(seg.Words, *word)
			seg.BBox = seg.BBox.Union(word.BBox)
		}
		word = nil
	}
	flushSegment := func() {
		flushWord()
		if seg != nil && len(seg.Words) > 0 {
			line.Segments = append(line.Segments, *seg)
			line.BBox = line.BBox.Union(seg.BBox)
		}
		seg = nil
	}

	for _, p := range group {
		if text.IsBlank(p.g.Text) {
			pendingSpace = true
			continue
		}
		gap := p.u - lastEnd
		switch {
		case seg == nil:
			seg = &Segment{Size: size, Rotation: angle}
		case gap > d.config.SegmentGap*size:
			flushSegment()
			seg = &Segment{Size: size, Rotation: angle}
		case pendingSpace || gap > d.config.WordGap*size:
			flushWord()
		}
		pendingSpace = false
		if word == nil {
			word = &Word{}
		}
		word.Glyphs = append(word.Glyphs, p.g)
		word.Scripts = append(word.Scripts, d.script(p, baseV, size))
		word.BBox = word.BBox.Union(glyphBox(p.g))
		lastEnd = p.u + p.g.Width
	}
	flushSegment()
	if len(line.Segments) == 0 {
		return Line{}, false
	}

	// Rotated lines keep the page y of their first glyph.
	line.Baseline = baseV
	if angle != 0 {
		line.Baseline = line.Segments[0].Words[0].Glyphs[0].Y
	}
	for i := range line.Segments {
		line.Segments[i].Baseline = line.Baseline
	}
	return line, true
}

func (d *LineDetector) script(p placed, baseV, size float64) Script {
	if p.g.Size >= d.config.ScriptSize*size {
		return ScriptNone
	}
	shift := p.v - baseV
	switch {
	case shift > d.config.ScriptOffset*size:
		return ScriptSuper
	case shift < -d.config.ScriptOffset*size:
		return ScriptSub
	}
	return ScriptNone
}

// verticalLines groups vertical glyphs into columns by x, ordered right to
// left as vertical writing reads.
func (d *LineDetector) verticalLines(glyphs []model.Glyph) []Line {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := append([]model.Glyph(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X > sorted[j].X })

	var cols [][]model.Glyph
	var sumX float64
	for _, g := range sorted {
		if n := len(cols); n > 0 {
			meanX := sumX / float64(len(cols[n-1]))
			if math.Abs(g.X-meanX) <= d.config.VerticalColumnTolerance*g.Size {
				cols[n-1] = append(cols[n-1], g)
				sumX += g.X
				continue
			}
		}
		cols = append(cols, []model.Glyph{g})
		sumX = g.X
	}

	var lines []Line
	for _, col := range cols {
		sort.SliceStable(col, func(i, j int) bool { return col[i].Y > col[j].Y })
		line := Line{Vertical: true, Rotation: 270}
		var seg *Segment
		var word *Word
		lastEnd := math.Inf(1)
		pendingSpace := false
		for _, g := range col {
			line.Size = math.Max(line.Size, g.Size)
			if text.IsBlank(g.Text) {
				pendingSpace = true
				continue
			}
			gap := lastEnd - g.Y
			if seg == nil || gap > d.config.SegmentGap*g.Size {
				if seg != nil {
					seg.Words = append(seg.Words, *word)
					seg.BBox = seg.BBox.Union(word.BBox)
					line.Segments = append(line.Segments, *seg)
					line.BBox = line.BBox.Union(seg.BBox)
				}
				seg = &Segment{Vertical: true, Rotation: 270}
				word = &Word{}
			} else if pendingSpace || gap > d.config.WordGap*g.Size {
				seg.Words = append(seg.Words, *word)
				seg.BBox = seg.BBox.Union(word.BBox)
				word = &Word{}
			}
			pendingSpace = false
			word.Glyphs = append(word.Glyphs, g)
			word.Scripts = append(word.Scripts, ScriptNone)
			word.BBox = word.BBox.Union(glyphBox(g))
			seg.Size = math.Max(seg.Size, g.Size)
			lastEnd = g.Y - g.Width
		}
		if seg == nil {
			continue
		}
		seg.Words = append(seg.Words, *word)
		seg.BBox = seg.BBox.Union(word.BBox)
		line.Segments = append(line.Segments, *seg)
		line.BBox = line.BBox.Union(seg.BBox)
		line.Baseline = line.BBox.Center().X
		lines = append(lines, line)
	}
	return lines
}

// glyphBox is the page-space box of a glyph, following its baseline angle
func glyphBox(g model.Glyph) model.BBox {
	if g.Vertical || math.Abs(g.Rotation) < 1e-6 {
		return g.BBox()
	}
	rad := g.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	corners := [][2]float64{{0, -0.2 * g.Size}, {g.Width, -0.2 * g.Size}, {0, 0.8 * g.Size}, {g.Width, 0.8 * g.Size}}
	pts := make([]model.Point, len(corners))
	for i, c := range corners {
		pts[i] = model.Point{X: g.X + c[0]*cos - c[1]*sin, Y: g.Y + c[0]*sin + c[1]*cos}
	}
	return model.BBoxOf(pts...)
}

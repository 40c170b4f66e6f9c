package graphicsstate

import (
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// PaintMode describes what a painting operator does with the path
type PaintMode struct {
	Stroke  bool
	Fill    bool
	EvenOdd bool
}

// Painter classifies painted paths into ruling lines and general shapes.
// Ruling lines feed table detection; everything else is kept as a flattened
// path for vector rendering.
type Painter struct {
	// AngleTolerance is the deviation in points under which a segment
	// counts as horizontal or vertical
	AngleTolerance float64

	// ThinRule is the largest extent of a filled rectangle that is
	// treated as a line
	ThinRule float64

	// CurveSteps is the flattening step count for Bezier curves
	CurveSteps int
}

// NewPainter returns a painter with the default tolerances
func NewPainter() *Painter {
	return &Painter{
		AngleTolerance: 0.5,
		ThinRule:       2.0,
		CurveSteps:     DefaultCurveSteps,
	}
}

// Paint converts the path painted with mode under gs into lines and at most
// one path. The path is not cleared.
func (pt *Painter) Paint(p *Path, gs *GraphicsState, mode PaintMode) ([]model.Line, *model.Path) {
	if p.IsEmpty() || (!mode.Stroke && !mode.Fill) {
		return nil, nil
	}
	lineWidth := gs.LineWidth * strokeScale(gs.CTM)

	rects := pt.rectangles(p)
	if lines, ok := pt.rectLines(rects, gs, mode, lineWidth); ok {
		return lines, nil
	}

	if mode.Stroke && !mode.Fill && !p.HasCurves() {
		return pt.segments(p, lineWidth, gs.StrokeColor), nil
	}

	subpaths := p.Flatten(pt.CurveSteps)
	if len(subpaths) == 0 {
		return nil, nil
	}
	return nil, &model.Path{
		Subpaths:    subpaths,
		Fill:        mode.Fill,
		Stroke:      mode.Stroke,
		EvenOdd:     mode.EvenOdd,
		FillColor:   gs.FillColor,
		StrokeColor: gs.StrokeColor,
		LineWidth:   lineWidth,
		IsRect:      rects != nil,
	}
}

// rectangles returns the boxes of a path made only of axis-aligned
// rectangles, or nil
func (pt *Painter) rectangles(p *Path) []model.BBox {
	var boxes []model.BBox
	segs := p.Segments
	for i := 0; i < len(segs); {
		if segs[i].Type != PathMoveTo {
			return nil
		}
		corners := []model.Point{segs[i].Points[0]}
		j := i + 1
		for ; j < len(segs) && segs[j].Type == PathLineTo; j++ {
			corners = append(corners, segs[j].Points[0])
		}
		closed := j < len(segs) && segs[j].Type == PathClosePath
		if closed {
			j++
		}
		if len(corners) == 5 && pointsEqual(corners[0], corners[4], pt.AngleTolerance) {
			corners = corners[:4]
			closed = true
		}
		if len(corners) != 4 || !closed || !pt.axisAligned(corners) {
			return nil
		}
		boxes = append(boxes, model.BBoxOf(corners...))
		i = j
	}
	return boxes
}

// rectLines converts rectangles to lines when every one of them is a
// stroked outline or a thin filled rule
func (pt *Painter) rectLines(rects []model.BBox, gs *GraphicsState, mode PaintMode, width float64) ([]model.Line, bool) {
	if len(rects) == 0 {
		return nil, false
	}
	var lines []model.Line
	for _, r := range rects {
		switch {
		case mode.Fill && (r.Height <= pt.ThinRule || r.Width <= pt.ThinRule):
			lines = append(lines, thinRule(r, gs.FillColor))
		case mode.Stroke && !mode.Fill:
			lines = append(lines, rectEdges(r, width, gs.StrokeColor)...)
		default:
			return nil, false
		}
	}
	return lines, true
}

// axisAligned checks that consecutive corners differ in only one axis
func (pt *Painter) axisAligned(corners []model.Point) bool {
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		dx, dy := math.Abs(a.X-b.X), math.Abs(a.Y-b.Y)
		if dx > pt.AngleTolerance && dy > pt.AngleTolerance {
			return false
		}
	}
	return true
}

// segments turns every straight segment into a line
func (pt *Painter) segments(p *Path, width float64, color model.Color) []model.Line {
	var lines []model.Line
	var cur, start model.Point
	add := func(a, b model.Point) {
		if !pointsEqual(a, b, 1e-6) {
			lines = append(lines, model.Line{Start: a, End: b, Width: width, Color: color})
		}
	}
	for _, seg := range p.Segments {
		switch seg.Type {
		case PathMoveTo:
			cur = seg.Points[0]
			start = cur
		case PathLineTo:
			add(cur, seg.Points[0])
			cur = seg.Points[0]
		case PathClosePath:
			add(cur, start)
			cur = start
		}
	}
	return lines
}

// thinRule converts a thin filled rectangle into a line along its long
// axis with the short extent as width
func thinRule(r model.BBox, color model.Color) model.Line {
	if r.Width >= r.Height {
		y := r.Y + r.Height/2
		return model.Line{
			Start: model.Point{X: r.Left(), Y: y},
			End:   model.Point{X: r.Right(), Y: y},
			Width: math.Max(r.Height, 0.1),
			Color: color,
		}
	}
	x := r.X + r.Width/2
	return model.Line{
		Start: model.Point{X: x, Y: r.Bottom()},
		End:   model.Point{X: x, Y: r.Top()},
		Width: math.Max(r.Width, 0.1),
		Color: color,
	}
}

// rectEdges returns the four sides of a stroked rectangle
func rectEdges(r model.BBox, width float64, color model.Color) []model.Line {
	bl := model.Point{X: r.Left(), Y: r.Bottom()}
	br := model.Point{X: r.Right(), Y: r.Bottom()}
	tr := model.Point{X: r.Right(), Y: r.Top()}
	tl := model.Point{X: r.Left(), Y: r.Top()}
	return []model.Line{
		{Start: bl, End: br, Width: width, Color: color},
		{Start: br, End: tr, Width: width, Color: color},
		{Start: tl, End: tr, Width: width, Color: color},
		{Start: bl, End: tl, Width: width, Color: color},
	}
}

// strokeScale approximates how the CTM scales line widths
func strokeScale(ctm model.Matrix) float64 {
	hi, lo := ctm.SingularValues()
	return math.Sqrt(hi * lo)
}

package graphicsstate

import (
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// DefaultCurveSteps is the number of line segments a cubic Bezier curve
// is flattened into.
const DefaultCurveSteps = 8

// PathSegmentType defines the type of path segment
type PathSegmentType int

const (
	// PathMoveTo starts a new subpath
	PathMoveTo PathSegmentType = iota
	// PathLineTo draws a line to a point
	PathLineTo
	// PathCurveTo draws a cubic Bézier curve
	PathCurveTo
	// PathClosePath closes the current subpath
	PathClosePath
)

// PathSegment represents a single segment of a path. Points are already
// in page space.
type PathSegment struct {
	Type PathSegmentType

	// For MoveTo and LineTo: single point
	// For CurveTo: control point 1, control point 2, end point
	Points []model.Point
}

// Path is the path under construction between the first construction
// operator and the painting operator. Coordinates are mapped through the
// CTM as they are added, since the CTM cannot change inside a path.
type Path struct {
	Segments []PathSegment

	// CurrentPoint is the current point in user space
	CurrentPoint model.Point

	// SubpathStart is the start of the current subpath (for closepath)
	SubpathStart model.Point

	HasCurrentPoint bool

	// rects counts segments added by Rectangle so a painted path made only
	// of re operators can be recognized
	rects  int
	curves int
}

// NewPath creates a new empty path
func NewPath() *Path {
	return &Path{}
}

func (p *Path) device(x, y float64, ctm model.Matrix) model.Point {
	return ctm.Transform(model.Point{X: x, Y: y})
}

// MoveTo starts a new subpath at the specified point (m operator)
func (p *Path) MoveTo(x, y float64, ctm model.Matrix) {
	p.Segments = append(p.Segments, PathSegment{
		Type:   PathMoveTo,
		Points: []model.Point{p.device(x, y, ctm)},
	})
	p.CurrentPoint = model.Point{X: x, Y: y}
	p.SubpathStart = p.CurrentPoint
	p.HasCurrentPoint = true
}

// LineTo appends a line segment from current point to (x, y) (l operator)
func (p *Path) LineTo(x, y float64, ctm model.Matrix) {
	if !p.HasCurrentPoint {
		p.MoveTo(x, y, ctm)
		return
	}
	p.Segments = append(p.Segments, PathSegment{
		Type:   PathLineTo,
		Points: []model.Point{p.device(x, y, ctm)},
	})
	p.CurrentPoint = model.Point{X: x, Y: y}
}

// CurveTo appends a cubic Bézier curve (c operator)
// Control points (x1, y1) and (x2, y2), end point (x3, y3)
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64, ctm model.Matrix) {
	if !p.HasCurrentPoint {
		p.MoveTo(x1, y1, ctm)
	}
	p.Segments = append(p.Segments, PathSegment{
		Type: PathCurveTo,
		Points: []model.Point{
			p.device(x1, y1, ctm),
			p.device(x2, y2, ctm),
			p.device(x3, y3, ctm),
		},
	})
	p.CurrentPoint = model.Point{X: x3, Y: y3}
	p.curves++
}

// CurveToV appends a curve whose first control point is the current
// point (v operator)
func (p *Path) CurveToV(x2, y2, x3, y3 float64, ctm model.Matrix) {
	if !p.HasCurrentPoint {
		return
	}
	p.CurveTo(p.CurrentPoint.X, p.CurrentPoint.Y, x2, y2, x3, y3, ctm)
}

// CurveToY appends a curve whose second control point is the end point
// (y operator)
func (p *Path) CurveToY(x1, y1, x3, y3 float64, ctm model.Matrix) {
	if !p.HasCurrentPoint {
		return
	}
	p.CurveTo(x1, y1, x3, y3, x3, y3, ctm)
}

// ClosePath closes the current subpath (h operator)
func (p *Path) ClosePath() {
	if !p.HasCurrentPoint {
		return
	}
	p.Segments = append(p.Segments, PathSegment{Type: PathClosePath})
	p.CurrentPoint = p.SubpathStart
}

// Rectangle appends a rectangle as a complete subpath (re operator)
func (p *Path) Rectangle(x, y, width, height float64, ctm model.Matrix) {
	p.MoveTo(x, y, ctm)
	p.LineTo(x+width, y, ctm)
	p.LineTo(x+width, y+height, ctm)
	p.LineTo(x, y+height, ctm)
	p.ClosePath()
	p.rects++
}

// Clear resets the path
func (p *Path) Clear() {
	p.Segments = p.Segments[:0]
	p.HasCurrentPoint = false
	p.rects = 0
	p.curves = 0
}

// IsEmpty returns true if the path has no segments
func (p *Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// HasCurves reports whether any segment is a Bezier curve
func (p *Path) HasCurves() bool {
	return p.curves > 0
}

// Flatten returns the subpaths as polygons, curves approximated with
// steps line segments each. Closed subpaths end with their first point.
func (p *Path) Flatten(steps int) [][]model.Point {
	if steps < 1 {
		steps = DefaultCurveSteps
	}
	var out [][]model.Point
	var cur []model.Point
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}

	for _, seg := range p.Segments {
		switch seg.Type {
		case PathMoveTo:
			flush()
			cur = []model.Point{seg.Points[0]}
		case PathLineTo:
			cur = append(cur, seg.Points[0])
		case PathCurveTo:
			if len(cur) == 0 {
				cur = []model.Point{seg.Points[0]}
			}
			start := cur[len(cur)-1]
			for i := 1; i <= steps; i++ {
				cur = append(cur, bezier(start, seg.Points[0], seg.Points[1], seg.Points[2], float64(i)/float64(steps)))
			}
		case PathClosePath:
			if len(cur) > 0 {
				first := cur[0]
				if !pointsEqual(cur[len(cur)-1], first, 1e-6) {
					cur = append(cur, first)
				}
				flush()
				// drawing may continue from the start point
				cur = []model.Point{first}
			}
		}
	}
	flush()
	return out
}

// bezier evaluates a cubic Bezier curve at t
func bezier(p0, p1, p2, p3 model.Point, t float64) model.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return model.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// pointsEqual checks if two points are approximately equal
func pointsEqual(a, b model.Point, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance
}

package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// BBox represents an axis-aligned rectangle
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from its left, bottom, width and height
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// RectBBox creates a bounding box from two opposite corners in any order
func RectBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// BBoxOf returns the smallest box containing every point
func BBoxOf(points ...Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return RectBBox(minX, minY, maxX, maxY)
}

func (b BBox) Left() float64   { return b.X }
func (b BBox) Right() float64  { return b.X + b.Width }
func (b BBox) Bottom() float64 { return b.Y }
func (b BBox) Top() float64    { return b.Y + b.Height }

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains checks if a point is inside the box, edges included
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Intersects checks if two boxes touch or overlap
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Top() < other.Bottom() ||
		b.Bottom() > other.Top())
}

// Intersection returns the overlapping region, or the zero box
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return RectBBox(
		math.Max(b.Left(), other.Left()),
		math.Max(b.Bottom(), other.Bottom()),
		math.Min(b.Right(), other.Right()),
		math.Min(b.Top(), other.Top()),
	)
}

// Union returns the smallest box containing both. A zero box is treated as
// empty so Union can accumulate from BBox{}.
func (b BBox) Union(other BBox) BBox {
	if b == (BBox{}) {
		return other
	}
	if other == (BBox{}) {
		return b
	}
	return RectBBox(
		math.Min(b.Left(), other.Left()),
		math.Min(b.Bottom(), other.Bottom()),
		math.Max(b.Right(), other.Right()),
		math.Max(b.Top(), other.Top()),
	)
}

// Area returns the area of the box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// Expand grows the box by margin on every side
func (b BBox) Expand(margin float64) BBox {
	return BBox{X: b.X - margin, Y: b.Y - margin, Width: b.Width + 2*margin, Height: b.Height + 2*margin}
}

// OverlapRatio is the intersection area divided by the smaller area
func (b BBox) OverlapRatio(other BBox) float64 {
	minArea := math.Min(b.Area(), other.Area())
	if minArea <= 0 {
		return 0
	}
	return b.Intersection(other).Area() / minArea
}

// HorizontalOverlap returns the length shared by the two x extents
func (b BBox) HorizontalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Right(), other.Right())-math.Max(b.Left(), other.Left()))
}

// VerticalOverlap returns the length shared by the two y extents
func (b BBox) VerticalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Top(), other.Top())-math.Max(b.Bottom(), other.Bottom()))
}

// IsEmpty returns true if the box has no area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Matrix is an affine transform [a b c d e f] mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f)
type Matrix [6]float64

// Identity returns the identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns the transform that applies m first and then other.
// The text rendering matrix is Trm.Multiply(Tm).Multiply(CTM).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// TransformBBox maps the four corners of b and returns their bounds
func (m Matrix) TransformBBox(b BBox) BBox {
	return BBoxOf(
		m.Transform(Point{b.Left(), b.Bottom()}),
		m.Transform(Point{b.Right(), b.Bottom()}),
		m.Transform(Point{b.Left(), b.Top()}),
		m.Transform(Point{b.Right(), b.Top()}),
	)
}

// SingularValues returns the scale factors of the linear part, largest
// first. A glyph of size s drawn through m appears with heights between
// s*min and s*max.
func (m Matrix) SingularValues() (float64, float64) {
	a, b, c, d := m[0], m[1], m[2], m[3]
	s1 := a*a + b*b + c*c + d*d
	det := a*d - b*c
	disc := math.Sqrt(math.Max(0, s1*s1-4*det*det))
	hi := math.Sqrt(math.Max(0, (s1+disc)/2))
	lo := math.Sqrt(math.Max(0, (s1-disc)/2))
	return hi, lo
}

// Rotation returns the angle of the x axis under m in degrees, in [0, 360)
func (m Matrix) Rotation() float64 {
	deg := math.Atan2(m[1], m[0]) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate creates a rotation matrix (angle in radians)
func Rotate(angle float64) Matrix {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// IsIdentity reports whether m is the identity matrix
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

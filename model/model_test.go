package model

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestBBoxEdges tests edge accessors and RectBBox normalization
func TestBBoxEdges(t *testing.T) {
	b := RectBBox(100, 700, 20, 650)
	if b.Left() != 20 || b.Right() != 100 || b.Bottom() != 650 || b.Top() != 700 {
		t.Errorf("unexpected edges %+v", b)
	}
	if c := b.Center(); c.X != 60 || c.Y != 675 {
		t.Errorf("unexpected center %+v", c)
	}
}

// TestBBoxSetOperations tests intersection, union and overlap
func TestBBoxSetOperations(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 10, 10)

	if got := a.Intersection(b); got != NewBBox(5, 5, 5, 5) {
		t.Errorf("unexpected intersection %+v", got)
	}
	if got := a.Union(b); got != NewBBox(0, 0, 15, 15) {
		t.Errorf("unexpected union %+v", got)
	}
	if got := (BBox{}).Union(b); got != b {
		t.Errorf("union with zero box should return other, got %+v", got)
	}
	if got := a.OverlapRatio(b); !near(got, 0.25) {
		t.Errorf("expected overlap 0.25, got %v", got)
	}
	if a.Intersects(NewBBox(20, 20, 1, 1)) {
		t.Error("expected disjoint boxes")
	}
	if got := a.HorizontalOverlap(b); got != 5 {
		t.Errorf("expected horizontal overlap 5, got %v", got)
	}
	if got := a.VerticalOverlap(NewBBox(0, 20, 1, 1)); got != 0 {
		t.Errorf("expected no vertical overlap, got %v", got)
	}
}

// TestMatrixMultiplyOrder tests that Multiply applies the receiver first
func TestMatrixMultiplyOrder(t *testing.T) {
	scale := Scale(2, 2)
	move := Translate(10, 0)

	p := scale.Multiply(move).Transform(Point{1, 1})
	if p.X != 12 || p.Y != 2 {
		t.Errorf("scale then translate: expected (12,2), got %+v", p)
	}

	p = move.Multiply(scale).Transform(Point{1, 1})
	if p.X != 22 || p.Y != 2 {
		t.Errorf("translate then scale: expected (22,2), got %+v", p)
	}
}

// TestMatrixSingularValues tests scale extraction under rotation
func TestMatrixSingularValues(t *testing.T) {
	m := Scale(3, 2).Multiply(Rotate(math.Pi / 6))
	hi, lo := m.SingularValues()
	if !near(hi, 3) || !near(lo, 2) {
		t.Errorf("expected (3, 2), got (%v, %v)", hi, lo)
	}

	rot := Rotate(math.Pi / 2).Rotation()
	if !near(rot, 90) {
		t.Errorf("expected 90 degrees, got %v", rot)
	}
	if r := Rotate(-math.Pi / 2).Rotation(); !near(r, 270) {
		t.Errorf("expected 270 degrees, got %v", r)
	}
}

// TestTransformBBox tests box mapping through a rotation
func TestTransformBBox(t *testing.T) {
	b := Rotate(math.Pi / 2).TransformBBox(NewBBox(0, 0, 10, 5))
	if !near(b.Left(), -5) || !near(b.Right(), 0) || !near(b.Top(), 10) {
		t.Errorf("unexpected rotated box %+v", b)
	}
}

// TestColorHex tests color conversion
func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Black, "000000"},
		{Color{1, 0, 0}, "FF0000"},
		{Gray(0.5), "808080"},
		{CMYK(0, 0, 0, 1), "000000"},
		{CMYK(1, 0, 0, 0), "00FFFF"},
		{Color{2, -1, 0}, "FF0000"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}

// TestLineOrientation tests ruling classification
func TestLineOrientation(t *testing.T) {
	h := Line{Start: Point{0, 100}, End: Point{200, 100.3}}
	v := Line{Start: Point{50, 0}, End: Point{50.2, 300}}

	if !h.IsHorizontal(0.5) || h.IsVertical(0.5) {
		t.Error("expected horizontal line")
	}
	if !v.IsVertical(0.5) || v.IsHorizontal(0.5) {
		t.Error("expected vertical line")
	}
}

// TestPageContentHelpers tests role lookup and text presence
func TestPageContentHelpers(t *testing.T) {
	pc := &PageContent{
		Glyphs: []Glyph{{Text: " "}, {Text: "\u00a0"}},
		Roles:  map[int]string{3: "TD"},
	}
	if pc.HasText() {
		t.Error("blank glyphs should not count as text")
	}
	pc.Glyphs = append(pc.Glyphs, Glyph{Text: "x"})
	if !pc.HasText() {
		t.Error("expected text")
	}
	if pc.Role(3) != "TD" || pc.Role(-1) != "" || pc.Role(4) != "" {
		t.Error("unexpected role lookup")
	}
}

package graphicsstate

import (
	"math"
	"testing"

	"github.com/tsawler/pdf2docx/model"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestNewGraphicsState tests initial state
func TestNewGraphicsState(t *testing.T) {
	gs := NewGraphicsState(model.Identity())

	if gs.LineWidth != 1.0 {
		t.Errorf("expected line width 1.0, got %f", gs.LineWidth)
	}
	if gs.Text.HorizontalScaling != 100.0 {
		t.Errorf("expected horizontal scaling 100.0, got %f", gs.Text.HorizontalScaling)
	}
	if !gs.CTM.IsIdentity() {
		t.Error("expected CTM to be identity matrix")
	}
	if !gs.FillColor.IsBlack() {
		t.Errorf("expected black fill, got %v", gs.FillColor)
	}
}

// TestSaveRestore tests q/Q operators
func TestSaveRestore(t *testing.T) {
	gs := NewGraphicsState(model.Identity())
	gs.LineWidth = 2.5
	gs.SetFont("F1", 14)

	gs.Save()
	gs.LineWidth = 5.0
	gs.SetFont("F2", 18)
	gs.Transform(model.Scale(2, 2))
	gs.SetFillColor([]float64{1, 0, 0})

	if !gs.Restore() {
		t.Fatal("Restore() = false with a saved state")
	}
	if gs.LineWidth != 2.5 || gs.Text.FontName != "F1" || gs.Text.FontSize != 14 {
		t.Errorf("restored state = %+v", gs)
	}
	if !gs.CTM.IsIdentity() || !gs.FillColor.IsBlack() {
		t.Errorf("CTM %v fill %v not restored", gs.CTM, gs.FillColor)
	}
}

// TestRestoreUnderflow tests that an unbalanced Q leaves the state alone
func TestRestoreUnderflow(t *testing.T) {
	gs := NewGraphicsState(model.Identity())
	gs.LineWidth = 3
	if gs.Restore() {
		t.Error("Restore() = true on an empty stack")
	}
	if gs.LineWidth != 3 {
		t.Errorf("line width changed to %v", gs.LineWidth)
	}
}

// TestRestoreKeepsTextMatrix tests that Q inside a text object keeps the
// text position
func TestRestoreKeepsTextMatrix(t *testing.T) {
	gs := NewGraphicsState(model.Identity())
	gs.BeginText()
	gs.Save()
	gs.TranslateText(100, 200)
	gs.Restore()
	if p := gs.TextOrigin(); p.X != 100 || p.Y != 200 {
		t.Errorf("origin after Q = %v", p)
	}
}

// TestTransformOrder tests that cm pre-multiplies the CTM
func TestTransformOrder(t *testing.T) {
	gs := NewGraphicsState(model.Translate(10, 0))
	gs.Transform(model.Scale(2, 2))

	p := gs.CTM.Transform(model.Point{X: 1, Y: 1})
	// scale first, then the base translation
	if p.X != 12 || p.Y != 2 {
		t.Errorf("CTM maps (1,1) to %v, want (12,2)", p)
	}
}

// TestTextPositioning tests Td, TD, T* and Tm
func TestTextPositioning(t *testing.T) {
	gs := NewGraphicsState(model.Identity())
	gs.BeginText()
	gs.SetFont("F1", 12)

	gs.SetTextMatrix(model.Matrix{1, 0, 0, 1, 72, 720})
	gs.TranslateTextSetLeading(0, -14)
	if gs.Text.Leading != 14 {
		t.Errorf("leading = %v", gs.Text.Leading)
	}
	gs.NextLine()
	if p := gs.TextOrigin(); p.X != 72 || p.Y != 692 {
		t.Errorf("origin = %v, want (72,692)", p)
	}

	gs.SetTextMatrix(model.Matrix{2, 0, 0, 2, 0, 0})
	gs.TranslateText(10, 10)
	if p := gs.TextOrigin(); p.X != 20 || p.Y != 20 {
		t.Errorf("Td in scaled Tm = %v, want (20,20)", p)
	}
}

// TestGlyphAdvance tests displacement with spacing and scaling
func TestGlyphAdvance(t *testing.T) {
	gs := NewGraphicsState(model.Identity())
	gs.SetFont("F1", 10)
	gs.Text.CharSpacing = 1
	gs.Text.WordSpacing = 2
	gs.Text.HorizontalScaling = 50

	if got := gs.GlyphAdvance(500, false); !near(got, 3) {
		t.Errorf("advance = %v, want 3", got)
	}
	if got := gs.GlyphAdvance(500, true); !near(got, 4) {
		t.Errorf("space advance = %v, want 4", got)
	}

	gs.BeginText()
	gs.Advance(5, 0)
	gs.Kern(-1000)
	if p := gs.TextOrigin(); !near(p.X, 10) {
		t.Errorf("origin after kern = %v, want x=10", p)
	}
}

// TestEffectiveFontSize tests font size under text matrix and CTM scaling
func TestEffectiveFontSize(t *testing.T) {
	tests := []struct {
		name string
		size float64
		tm   model.Matrix
		ctm  model.Matrix
		want float64
	}{
		{"plain", 12, model.Identity(), model.Identity(), 12},
		{"unit font scaled by Tm", 1, model.Matrix{11, 0, 0, 11, 0, 0}, model.Identity(), 11},
		{"CTM scale", 10, model.Identity(), model.Scale(0.5, 0.5), 5},
		{"rotated", 12, model.Matrix{0, 1, -1, 0, 0, 0}, model.Identity(), 12},
		{"negative size", -9, model.Identity(), model.Identity(), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphicsState(tt.ctm)
			gs.SetFont("F1", tt.size)
			gs.SetTextMatrix(tt.tm)
			if got := gs.EffectiveFontSize(); !near(got, tt.want) {
				t.Errorf("EffectiveFontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestTextRotation tests the baseline angle
func TestTextRotation(t *testing.T) {
	gs := NewGraphicsState(model.Identity())
	gs.SetTextMatrix(model.Matrix{0, 1, -1, 0, 0, 0})
	if got := gs.TextRotation(); !near(got, 90) {
		t.Errorf("rotation = %v, want 90", got)
	}
}

// TestToColor tests conversion from each color space
func TestToColor(t *testing.T) {
	tests := []struct {
		name  string
		space string
		comps []float64
		want  string
		ok    bool
	}{
		{"gray", SpaceGray, []float64{0.5}, "808080", true},
		{"rgb", SpaceRGB, []float64{1, 0, 0}, "FF0000", true},
		{"cmyk black", SpaceCMYK, []float64{0, 0, 0, 1}, "000000", true},
		{"cmyk cyan", SpaceCMYK, []float64{1, 0, 0, 0}, "00FFFF", true},
		{"separation full tint", SpaceSeparation, []float64{1}, "000000", true},
		{"clamped", SpaceRGB, []float64{2, -1, 0}, "FF0000", true},
		{"pattern", SpacePattern, []float64{0}, "", false},
		{"bad count", SpaceRGB, []float64{0, 0}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ToColor(tt.space, tt.comps)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && c.Hex() != tt.want {
				t.Errorf("color = %s, want %s", c.Hex(), tt.want)
			}
		})
	}
}

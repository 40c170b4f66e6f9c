package graphicsstate

import (
	"math"

	"github.com/tsawler/pdf2docx/model"
)

// ColorSpace families the state understands. Anything else is treated by
// component count.
const (
	SpaceGray       = "DeviceGray"
	SpaceRGB        = "DeviceRGB"
	SpaceCMYK       = "DeviceCMYK"
	SpaceSeparation = "Separation"
	SpacePattern    = "Pattern"
	SpaceIndexed    = "Indexed"
)

// GraphicsState represents the PDF graphics state
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []savedState

	// Line attributes
	LineWidth float64

	StrokeColor model.Color
	FillColor   model.Color
	StrokeSpace string
	FillSpace   string
}

// savedState is the part of the state q/Q preserves. Text matrices are
// per text object and survive a Q inside BT.
type savedState struct {
	ctm         model.Matrix
	text        TextState
	lineWidth   float64
	strokeColor model.Color
	fillColor   model.Color
	strokeSpace string
	fillSpace   string
}

// TextState represents text-specific state
type TextState struct {
	// Font resource name and size
	FontName string
	FontSize float64

	// Character and word spacing
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling (percentage)
	HorizontalScaling float64

	// Leading (line spacing)
	Leading float64

	// Text rendering mode
	RenderingMode int

	// Text rise
	Rise float64

	// Text matrices
	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a new graphics state whose CTM is base, the
// mapping from default user space to page space.
func NewGraphicsState(base model.Matrix) *GraphicsState {
	return &GraphicsState{
		CTM:         base,
		LineWidth:   1.0,
		StrokeColor: model.Black,
		FillColor:   model.Black,
		StrokeSpace: SpaceGray,
		FillSpace:   SpaceGray,
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Depth returns the number of saved states
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, savedState{
		ctm:         gs.CTM,
		text:        gs.Text,
		lineWidth:   gs.LineWidth,
		strokeColor: gs.StrokeColor,
		fillColor:   gs.FillColor,
		strokeSpace: gs.StrokeSpace,
		fillSpace:   gs.FillSpace,
	})
}

// Restore pops a graphics state from the stack (Q operator). An unbalanced
// Q is ignored and reported as false.
func (gs *GraphicsState) Restore() bool {
	if len(gs.stack) == 0 {
		return false
	}
	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	tm, tlm := gs.Text.TextMatrix, gs.Text.TextLineMatrix
	gs.CTM = saved.ctm
	gs.Text = saved.text
	gs.Text.TextMatrix, gs.Text.TextLineMatrix = tm, tlm
	gs.LineWidth = saved.lineWidth
	gs.StrokeColor = saved.strokeColor
	gs.FillColor = saved.fillColor
	gs.StrokeSpace = saved.strokeSpace
	gs.FillSpace = saved.fillSpace
	return true
}

// Transform concatenates m onto the CTM (cm operator)
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetStrokeSpace selects the stroke color space and resets the color
// to the space's initial value (CS operator)
func (gs *GraphicsState) SetStrokeSpace(space string) {
	gs.StrokeSpace = space
	gs.StrokeColor = model.Black
}

// SetFillSpace selects the fill color space (cs operator)
func (gs *GraphicsState) SetFillSpace(space string) {
	gs.FillSpace = space
	gs.FillColor = model.Black
}

// SetStrokeColor sets the stroke color from components in the current
// stroke space (SC, SCN, G, RG, K operators)
func (gs *GraphicsState) SetStrokeColor(components []float64) {
	if c, ok := ToColor(gs.StrokeSpace, components); ok {
		gs.StrokeColor = c
	}
}

// SetFillColor sets the fill color (sc, scn, g, rg, k operators)
func (gs *GraphicsState) SetFillColor(components []float64) {
	if c, ok := ToColor(gs.FillSpace, components); ok {
		gs.FillColor = c
	}
}

// ToColor converts components in space to RGB. Separation tints are
// rendered as gray ink; patterns and indexed lookups keep the previous
// color.
func ToColor(space string, components []float64) (model.Color, bool) {
	switch space {
	case SpacePattern, SpaceIndexed:
		return model.Color{}, false
	case SpaceSeparation:
		if len(components) >= 1 {
			return model.Gray(1 - clamp01(components[0])), true
		}
		return model.Color{}, false
	}
	switch len(components) {
	case 1:
		return model.Gray(clamp01(components[0])), true
	case 3:
		return model.Color{R: clamp01(components[0]), G: clamp01(components[1]), B: clamp01(components[2])}, true
	case 4:
		return model.CMYK(clamp01(components[0]), clamp01(components[1]), clamp01(components[2]), clamp01(components[3])), true
	}
	return model.Color{}, false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// SetFont sets the current font (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// BeginText initializes text state (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText moves to the start of the next line offset by (tx, ty)
// (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.Text.Leading = -ty
	gs.TranslateText(tx, ty)
}

// NextLine moves to next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// Advance moves the text matrix by a displacement in text space, as
// after showing a glyph
func (gs *GraphicsState) Advance(tx, ty float64) {
	gs.Text.TextMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextMatrix)
}

// GlyphAdvance computes the horizontal displacement for one glyph of
// width w (in text space units per 1000 em), per the text state:
// ((w/1000)*size + Tc + Tw) * Th. Word spacing applies to single-byte
// code 32 only.
func (gs *GraphicsState) GlyphAdvance(w float64, isSpace bool) float64 {
	t := gs.Text
	adv := w/1000*t.FontSize + t.CharSpacing
	if isSpace {
		adv += t.WordSpacing
	}
	return adv * t.HorizontalScaling / 100
}

// Kern applies a TJ position adjustment, expressed in thousandths of em
func (gs *GraphicsState) Kern(adjust float64) {
	t := gs.Text
	gs.Advance(-adjust/1000*t.FontSize*t.HorizontalScaling/100, 0)
}

// RenderingMatrix returns the text rendering matrix
// [size*Th 0 0 size 0 rise] x Tm x CTM
func (gs *GraphicsState) RenderingMatrix() model.Matrix {
	t := gs.Text
	params := model.Matrix{t.FontSize * t.HorizontalScaling / 100, 0, 0, t.FontSize, 0, t.Rise}
	return params.Multiply(t.TextMatrix).Multiply(gs.CTM)
}

// EffectiveFontSize returns the size text is displayed at: the font size
// scaled by the geometric mean of the singular values of Tm x CTM.
// Horizontal scaling is excluded so condensed text keeps its size.
func (gs *GraphicsState) EffectiveFontSize() float64 {
	hi, lo := gs.Text.TextMatrix.Multiply(gs.CTM).SingularValues()
	return math.Abs(gs.Text.FontSize) * math.Sqrt(hi*lo)
}

// TextOrigin returns the current glyph origin in page space
func (gs *GraphicsState) TextOrigin() model.Point {
	return gs.RenderingMatrix().Transform(model.Point{})
}

// TextRotation returns the baseline angle in degrees in [0, 360)
func (gs *GraphicsState) TextRotation() float64 {
	return gs.Text.TextMatrix.Multiply(gs.CTM).Rotation()
}

package interpreter

import (
	"fmt"
	"math"

	"github.com/tsawler/pdf2docx/contentstream"
	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/font"
	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/text"
)

// VerticalTolerance is how far, in degrees, a baseline may deviate from 90
// or 270 degrees and still count as vertical writing
const VerticalTolerance = 15.0

// textStateOp handles text object, positioning and text state operators
func (r *run) textStateOp(op contentstream.Operation) {
	gs := r.gs
	switch op.Operator {
	case "BT":
		gs.BeginText()
	case "ET":
	case "Tf":
		name, ok := nameOperand(op.Operands, 0)
		size, okSize := numbers(op.Operands, 1)
		if !ok || !okSize {
			return
		}
		gs.SetFont(name, size[0])
		r.font = r.loadFont(name)
	case "Td":
		if v, ok := numbers(op.Operands, 2); ok {
			gs.TranslateText(v[0], v[1])
		}
	case "TD":
		if v, ok := numbers(op.Operands, 2); ok {
			gs.TranslateTextSetLeading(v[0], v[1])
		}
	case "Tm":
		if m, ok := matrix(op.Operands); ok {
			gs.SetTextMatrix(m)
		}
	case "T*":
		gs.NextLine()
	case "Tc":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.Text.CharSpacing = v[0]
		}
	case "Tw":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.Text.WordSpacing = v[0]
		}
	case "Tz":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.Text.HorizontalScaling = v[0]
		}
	case "TL":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.Text.Leading = v[0]
		}
	case "Ts":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.Text.Rise = v[0]
		}
	case "Tr":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.Text.RenderingMode = int(v[0])
		}
	}
}

// loadFont resolves a font resource, recording one issue per missing name
func (r *run) loadFont(name string) *font.Font {
	f, ok := r.in.fonts.Font(name, r.resources)
	if !ok && !r.badFonts[name] {
		r.badFonts[name] = true
		r.in.issue(r.page, "font "+name, ErrFontNotFound)
	}
	return f
}

// currentFont returns the selected font, or a fallback when text is shown
// before any Tf
func (r *run) currentFont() *font.Font {
	if r.font == nil {
		r.font = r.loadFont(r.gs.Text.FontName)
	}
	return r.font
}

// showOp handles the text showing operators
func (r *run) showOp(op contentstream.Operation) {
	switch op.Operator {
	case "Tj":
		if s, ok := stringOperand(op.Operands, 0); ok {
			r.show(s)
		}
	case "'":
		r.gs.NextLine()
		if s, ok := stringOperand(op.Operands, len(op.Operands)-1); ok {
			r.show(s)
		}
	case "\"":
		if len(op.Operands) < 3 {
			return
		}
		if v, ok := numbers(op.Operands[:2], 2); ok {
			r.gs.Text.WordSpacing = v[0]
			r.gs.Text.CharSpacing = v[1]
		}
		r.gs.NextLine()
		if s, ok := stringOperand(op.Operands, 2); ok {
			r.show(s)
		}
	case "TJ":
		if len(op.Operands) == 0 {
			return
		}
		arr, ok := op.Operands[0].(core.Array)
		if !ok {
			return
		}
		for _, el := range arr {
			switch v := el.(type) {
			case core.String:
				r.show([]byte(v))
			case core.Int, core.Real:
				adj, _ := core.Number(v)
				r.kern(adj)
			}
		}
	}
}

// kern applies a TJ adjustment along the writing direction
func (r *run) kern(adj float64) {
	if r.currentFont().Vertical {
		r.gs.Advance(0, -adj/1000*r.gs.Text.FontSize)
		return
	}
	r.gs.Kern(adj)
}

// show decodes a string and emits one glyph per character code
func (r *run) show(data []byte) {
	f := r.currentFont()
	t := r.gs.Text
	for _, g := range f.Decode(data) {
		if g.Text != "" {
			r.emitGlyph(f, g)
		}
		if f.Vertical {
			ty := t.FontSize + t.CharSpacing
			if g.IsSpace {
				ty += t.WordSpacing
			}
			r.gs.Advance(0, -ty)
		} else {
			r.gs.Advance(r.gs.GlyphAdvance(g.Width, g.IsSpace), 0)
		}
	}
}

func (r *run) emitGlyph(f *font.Font, g font.Glyph) {
	gs := r.gs
	t := gs.Text
	m := t.TextMatrix.Multiply(gs.CTM)

	// advance vector in text space, without spacing, mapped to page space
	var ax, ay float64
	if f.Vertical {
		ay = t.FontSize
	} else {
		ax = g.Width / 1000 * t.FontSize * t.HorizontalScaling / 100
	}
	width := math.Hypot(ax*m[0]+ay*m[2], ax*m[1]+ay*m[3])

	origin := gs.TextOrigin()
	rotation := gs.TextRotation()
	color := gs.FillColor
	if t.RenderingMode == 1 || t.RenderingMode == 5 {
		color = gs.StrokeColor
	}

	r.out.Glyphs = append(r.out.Glyphs, model.Glyph{
		Text:     g.Text,
		X:        origin.X,
		Y:        origin.Y,
		Width:    width,
		Size:     gs.EffectiveFontSize(),
		FontName: fontLabel(f),
		Bold:     f.Bold,
		Italic:   f.Italic,
		Color:    color,
		Vertical: f.Vertical || (nearVertical(rotation) && text.HasEastAsian(g.Text)),
		Rotation: rotation,
		MCID:     r.mcid(),
	})
}

// fontLabel is the name glyphs carry: the base font without its subset tag
func fontLabel(f *font.Font) string {
	if f.BaseFont != "" {
		return f.BaseFont
	}
	return fmt.Sprintf("Font-%s", f.Name)
}

// nearVertical reports a baseline within VerticalTolerance of 90 or 270
func nearVertical(deg float64) bool {
	return math.Abs(deg-90) <= VerticalTolerance || math.Abs(deg-270) <= VerticalTolerance
}

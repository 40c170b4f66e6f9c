package interpreter

import (
	"github.com/tsawler/pdf2docx/contentstream"
	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/graphicsstate"
)

// pathOp handles path construction in user space
func (r *run) pathOp(op contentstream.Operation) {
	ctm := r.gs.CTM
	p := r.path
	switch op.Operator {
	case "m":
		if v, ok := numbers(op.Operands, 2); ok {
			p.MoveTo(v[0], v[1], ctm)
		}
	case "l":
		if v, ok := numbers(op.Operands, 2); ok {
			p.LineTo(v[0], v[1], ctm)
		}
	case "c":
		if v, ok := numbers(op.Operands, 6); ok {
			p.CurveTo(v[0], v[1], v[2], v[3], v[4], v[5], ctm)
		}
	case "v":
		if v, ok := numbers(op.Operands, 4); ok {
			p.CurveToV(v[0], v[1], v[2], v[3], ctm)
		}
	case "y":
		if v, ok := numbers(op.Operands, 4); ok {
			p.CurveToY(v[0], v[1], v[2], v[3], ctm)
		}
	case "h":
		p.ClosePath()
	case "re":
		if v, ok := numbers(op.Operands, 4); ok {
			p.Rectangle(v[0], v[1], v[2], v[3], ctm)
		}
	}
}

var paintModes = map[string]graphicsstate.PaintMode{
	"S":  {Stroke: true},
	"s":  {Stroke: true},
	"f":  {Fill: true},
	"F":  {Fill: true},
	"f*": {Fill: true, EvenOdd: true},
	"B":  {Stroke: true, Fill: true},
	"B*": {Stroke: true, Fill: true, EvenOdd: true},
	"b":  {Stroke: true, Fill: true},
	"b*": {Stroke: true, Fill: true, EvenOdd: true},
	"n":  {},
}

// paintOp paints and then discards the current path
func (r *run) paintOp(op contentstream.Operation) {
	switch op.Operator {
	case "s", "b", "b*":
		r.path.ClosePath()
	}
	lines, path := r.in.painter.Paint(r.path, r.gs, paintModes[op.Operator])
	r.out.Lines = append(r.out.Lines, lines...)
	if path != nil {
		r.out.Paths = append(r.out.Paths, *path)
	}
	r.path.Clear()
}

// colorOp handles color space and color operators
func (r *run) colorOp(op contentstream.Operation) {
	gs := r.gs
	switch op.Operator {
	case "g", "rg", "k":
		gs.SetFillSpace(deviceSpaces[op.Operator])
		gs.SetFillColor(allNumbers(op.Operands))
	case "G", "RG", "K":
		gs.SetStrokeSpace(deviceSpaces[op.Operator])
		gs.SetStrokeColor(allNumbers(op.Operands))
	case "cs":
		if name, ok := nameOperand(op.Operands, 0); ok {
			gs.SetFillSpace(r.spaceFamily(name))
		}
	case "CS":
		if name, ok := nameOperand(op.Operands, 0); ok {
			gs.SetStrokeSpace(r.spaceFamily(name))
		}
	case "sc", "scn":
		gs.SetFillColor(allNumbers(op.Operands))
	case "SC", "SCN":
		gs.SetStrokeColor(allNumbers(op.Operands))
	}
}

var deviceSpaces = map[string]string{
	"g": graphicsstate.SpaceGray, "G": graphicsstate.SpaceGray,
	"rg": graphicsstate.SpaceRGB, "RG": graphicsstate.SpaceRGB,
	"k": graphicsstate.SpaceCMYK, "K": graphicsstate.SpaceCMYK,
}

// spaceFamily maps a color space name, possibly a /ColorSpace resource,
// to the family the graphics state understands
func (r *run) spaceFamily(name string) string {
	switch name {
	case graphicsstate.SpaceGray, graphicsstate.SpaceRGB, graphicsstate.SpaceCMYK, graphicsstate.SpacePattern:
		return name
	case "CalGray":
		return graphicsstate.SpaceGray
	case "CalRGB":
		return graphicsstate.SpaceRGB
	}
	spaces, _ := core.ResolveDict(r.in.r, r.resources.Get("ColorSpace"))
	obj, _ := r.in.r.Resolve(spaces.Get(name))
	switch v := obj.(type) {
	case core.Name:
		return r.spaceFamily(string(v))
	case core.Array:
		family, _ := core.ResolveName(r.in.r, v.Get(0))
		switch family {
		case "ICCBased":
			if stream, ok := core.ResolveStream(r.in.r, v.Get(1)); ok {
				n, _ := core.ResolveNumber(r.in.r, stream.Dict.Get("N"))
				switch int(n) {
				case 1:
					return graphicsstate.SpaceGray
				case 4:
					return graphicsstate.SpaceCMYK
				}
			}
			return graphicsstate.SpaceRGB
		case "CalGray":
			return graphicsstate.SpaceGray
		case "CalRGB", "Lab":
			return graphicsstate.SpaceRGB
		case "Separation", "DeviceN":
			return graphicsstate.SpaceSeparation
		case "Indexed", "Pattern":
			return family
		}
	}
	return name
}

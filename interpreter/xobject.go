package interpreter

import (
	"context"
	"fmt"

	"github.com/tsawler/pdf2docx/contentstream"
	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/logging"
	"github.com/tsawler/pdf2docx/model"
)

// unitSquare is the image space every image is drawn into
var unitSquare = model.NewBBox(0, 0, 1, 1)

// doXObject paints an image or runs a form XObject
func (r *run) doXObject(ctx context.Context, op contentstream.Operation) error {
	name, ok := nameOperand(op.Operands, 0)
	if !ok {
		return nil
	}
	xobjects, _ := core.ResolveDict(r.in.r, r.resources.Get("XObject"))
	obj := xobjects.Get(name)
	ref, _ := obj.(core.Ref)
	stream, ok := core.ResolveStream(r.in.r, obj)
	if !ok {
		logging.Logger().Debug("missing xobject", "page", r.page, "op", "Do", "name", name)
		return nil
	}

	subtype, _ := stream.Dict.Name("Subtype")
	switch subtype {
	case "Image":
		r.image(name, stream)
	case "Form":
		return r.form(ctx, name, ref, stream)
	}
	return nil
}

// image places an image XObject in the unit square under the CTM
func (r *run) image(name string, stream *core.Stream) {
	img, err := r.in.images.Image(name, stream)
	if err != nil && !r.badImages[name] {
		r.badImages[name] = true
		r.in.issue(r.page, "image "+name, err)
	}
	img.BBox = r.gs.CTM.TransformBBox(unitSquare)
	r.out.Images = append(r.out.Images, img)
}

// inlineImage places a BI/ID/EI image
func (r *run) inlineImage(op contentstream.Operation) {
	if op.Image == nil {
		return
	}
	img, err := r.in.images.Inline(op.Image.Dict, op.Image.Data, r.resources)
	if err != nil {
		r.in.issue(r.page, "inline image", err)
	}
	img.Name = fmt.Sprintf("inline%d", len(r.out.Images)+1)
	img.BBox = r.gs.CTM.TransformBBox(unitSquare)
	r.out.Images = append(r.out.Images, img)
}

// form runs a form XObject with its matrix and resources. Forms nest up
// to MaxFormDepth and a form may not invoke itself.
func (r *run) form(ctx context.Context, name string, ref core.Ref, stream *core.Stream) error {
	if r.depth >= r.in.MaxFormDepth {
		logging.Logger().Debug("form nesting limit", "page", r.page, "name", name, "depth", r.depth)
		return nil
	}
	if ref != (core.Ref{}) {
		if r.forms[ref] {
			logging.Logger().Debug("recursive form", "page", r.page, "name", name)
			return nil
		}
		r.forms[ref] = true
		defer delete(r.forms, ref)
	}

	data, err := stream.Decode()
	if err != nil {
		r.in.issue(r.page, "form "+name, err)
		return nil
	}
	resources, ok := core.ResolveDict(r.in.r, stream.Dict.Get("Resources"))
	if !ok {
		resources = r.resources
	}

	r.gs.Save()
	r.fontStack = append(r.fontStack, r.font)
	depth := r.gs.Depth()
	marked := len(r.marked)
	if m, ok := core.ResolveNumbers(r.in.r, stream.Dict.Get("Matrix")); ok && len(m) == 6 {
		r.gs.Transform(model.Matrix{m[0], m[1], m[2], m[3], m[4], m[5]})
	}

	r.depth++
	err = r.execute(ctx, data, resources)
	r.depth--

	// drop states the form left unbalanced, then the form's own
	for r.gs.Depth() >= depth {
		r.gs.Restore()
		r.font = r.fontStack[len(r.fontStack)-1]
		r.fontStack = r.fontStack[:len(r.fontStack)-1]
	}
	if len(r.marked) > marked {
		r.marked = r.marked[:marked]
	}
	return err
}

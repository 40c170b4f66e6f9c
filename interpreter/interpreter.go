package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/pdf2docx/contentstream"
	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/font"
	"github.com/tsawler/pdf2docx/graphicsstate"
	"github.com/tsawler/pdf2docx/logging"
	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/raster"
	"github.com/tsawler/pdf2docx/source"
)

// DefaultMaxFormDepth bounds form XObject nesting
const DefaultMaxFormDepth = 8

// cancelCheckInterval is how many operators run between context checks
const cancelCheckInterval = 4096

// ErrFontNotFound reports a Tf operand missing from the font resources
var ErrFontNotFound = errors.New("font not found")

// Issue is a resource that could not be decoded. The interpreter used a
// fallback and continued.
type Issue struct {
	Page     int
	Resource string
	Err      error
}

func (i Issue) Error() string {
	return fmt.Sprintf("page %d: %s: %v", i.Page+1, i.Resource, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}

// Interpreter turns content streams into page content. One interpreter
// serves one document; it caches fonts across pages and is not safe for
// concurrent use.
type Interpreter struct {
	// MaxFormDepth bounds form XObject recursion
	MaxFormDepth int

	r       core.Resolver
	fonts   *font.Resolver
	images  *raster.Decoder
	painter *graphicsstate.Painter
	issues  []Issue
}

// New returns an interpreter reading objects through r
func New(r core.Resolver) *Interpreter {
	return &Interpreter{
		MaxFormDepth: DefaultMaxFormDepth,
		r:            r,
		fonts:        font.NewResolver(r),
		images:       raster.NewDecoder(r),
		painter:      graphicsstate.NewPainter(),
	}
}

// Painter returns the path painter so callers can tune its tolerances
func (in *Interpreter) Painter() *graphicsstate.Painter {
	return in.painter
}

// Issues returns the issues recorded since the last call and clears them
func (in *Interpreter) Issues() []Issue {
	out := in.issues
	in.issues = nil
	return out
}

// Interpret runs the page's content stream. Coordinates in the result are
// in upright page space: origin at the bottom-left of the crop box, y up,
// with the page rotation applied. The only error is ctx's.
func (in *Interpreter) Interpret(ctx context.Context, page *source.Page) (*model.PageContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content := &model.PageContent{
		Index:    page.Index,
		Width:    page.Width(),
		Height:   page.Height(),
		Rotation: page.Rotate,
	}
	r := in.newRun(page.Index, content, page.BaseMatrix())
	if err := r.execute(ctx, page.Contents, page.Resources); err != nil {
		return nil, err
	}
	logging.Logger().Debug("page interpreted",
		"page", page.Index,
		"glyphs", len(content.Glyphs),
		"images", len(content.Images),
		"lines", len(content.Lines),
		"paths", len(content.Paths))
	return content, nil
}

// InterpretStream runs a bare content stream drawn inside box
func (in *Interpreter) InterpretStream(data []byte, resources core.Dict, box model.BBox) *model.PageContent {
	content := &model.PageContent{Width: box.Width, Height: box.Height}
	r := in.newRun(0, content, model.Translate(-box.X, -box.Y))
	// a background context cannot be cancelled
	_ = r.execute(context.Background(), data, resources)
	return content
}

func (in *Interpreter) newRun(page int, content *model.PageContent, base model.Matrix) *run {
	return &run{
		in:        in,
		page:      page,
		out:       content,
		gs:        graphicsstate.NewGraphicsState(base),
		path:      graphicsstate.NewPath(),
		forms:     make(map[core.Ref]bool),
		badFonts:  make(map[string]bool),
		badImages: make(map[string]bool),
	}
}

func (in *Interpreter) issue(page int, resource string, err error) {
	logging.Logger().Debug("resource fallback", "page", page, "resource", resource, "error", err)
	in.issues = append(in.issues, Issue{Page: page, Resource: resource, Err: err})
}

// run is the state of one page execution
type run struct {
	in   *Interpreter
	page int
	out  *model.PageContent

	gs        *graphicsstate.GraphicsState
	path      *graphicsstate.Path
	font      *font.Font
	fontStack []*font.Font
	resources core.Dict

	// marked content: the effective MCID per open sequence
	marked []int

	forms     map[core.Ref]bool
	depth     int
	ops       int
	badFonts  map[string]bool
	badImages map[string]bool
}

// execute parses and runs data with resources
func (r *run) execute(ctx context.Context, data []byte, resources core.Dict) error {
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		logging.Logger().Debug("content stream syntax", "page", r.page, "error", err)
	}

	saved := r.resources
	r.resources = resources
	defer func() { r.resources = saved }()

	for _, op := range ops {
		r.ops++
		if r.ops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := r.apply(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one operation. Only cancellation is returned as an error.
func (r *run) apply(ctx context.Context, op contentstream.Operation) error {
	switch op.Operator {
	case "q", "Q", "cm", "w", "gs":
		r.stateOp(op)
	case "g", "G", "rg", "RG", "k", "K", "cs", "CS", "sc", "SC", "scn", "SCN":
		r.colorOp(op)
	case "BT", "ET", "Tf", "Td", "TD", "Tm", "T*", "Tc", "Tw", "Tz", "TL", "Ts", "Tr":
		r.textStateOp(op)
	case "Tj", "TJ", "'", "\"":
		r.showOp(op)
	case "m", "l", "c", "v", "y", "h", "re":
		r.pathOp(op)
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
		r.paintOp(op)
	case "Do":
		return r.doXObject(ctx, op)
	case "BI":
		r.inlineImage(op)
	case "BMC", "BDC", "EMC":
		r.markedOp(op)
	case "W", "W*", "d0", "d1":
		// clipping and Type3 glyph metrics do not affect extraction
	}
	return nil
}

// stateOp handles the general graphics state operators
func (r *run) stateOp(op contentstream.Operation) {
	switch op.Operator {
	case "q":
		r.gs.Save()
		r.fontStack = append(r.fontStack, r.font)
	case "Q":
		if r.gs.Restore() {
			r.font = r.fontStack[len(r.fontStack)-1]
			r.fontStack = r.fontStack[:len(r.fontStack)-1]
		}
	case "cm":
		if m, ok := matrix(op.Operands); ok {
			r.gs.Transform(m)
		}
	case "w":
		if v, ok := numbers(op.Operands, 1); ok {
			r.gs.LineWidth = v[0]
		}
	case "gs":
		r.extGState(op)
	}
}

// extGState applies the line width and font entries of an ExtGState
func (r *run) extGState(op contentstream.Operation) {
	name, ok := nameOperand(op.Operands, 0)
	if !ok {
		return
	}
	states, _ := core.ResolveDict(r.in.r, r.resources.Get("ExtGState"))
	state, ok := core.ResolveDict(r.in.r, states.Get(name))
	if !ok {
		return
	}
	if lw, ok := core.ResolveNumber(r.in.r, state.Get("LW")); ok {
		r.gs.LineWidth = lw
	}
	if spec, ok := core.ResolveArray(r.in.r, state.Get("Font")); ok && len(spec) == 2 {
		dict, okDict := core.ResolveDict(r.in.r, spec[0])
		size, okSize := core.ResolveNumber(r.in.r, spec[1])
		if okDict && okSize {
			r.font = r.in.fonts.Load(name, dict)
			r.gs.SetFont(name, size)
		}
	}
}

// markedOp tracks marked content sequences and their MCIDs
func (r *run) markedOp(op contentstream.Operation) {
	switch op.Operator {
	case "BMC":
		r.marked = append(r.marked, r.mcid())
	case "BDC":
		id := r.mcid()
		if props := r.properties(op.Operands); props != nil {
			if v, ok := props.Int("MCID"); ok {
				id = v
			}
		}
		r.marked = append(r.marked, id)
	case "EMC":
		if len(r.marked) > 0 {
			r.marked = r.marked[:len(r.marked)-1]
		}
	}
}

// properties returns a BDC property list given inline or by resource name
func (r *run) properties(operands []core.Object) core.Dict {
	if len(operands) < 2 {
		return nil
	}
	switch v := operands[1].(type) {
	case core.Dict:
		return v
	case core.Name:
		props, _ := core.ResolveDict(r.in.r, r.resources.Get("Properties"))
		d, _ := core.ResolveDict(r.in.r, props.Get(string(v)))
		return d
	}
	return nil
}

// mcid returns the innermost marked content id, -1 outside
func (r *run) mcid() int {
	if len(r.marked) == 0 {
		return -1
	}
	return r.marked[len(r.marked)-1]
}

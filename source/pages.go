package source

import (
	"bytes"
	"fmt"

	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/model"
)

// maxTreeDepth bounds page tree recursion on malformed files.
const maxTreeDepth = 64

// defaultMediaBox is US Letter, used when no ancestor declares a box.
var defaultMediaBox = model.NewBBox(0, 0, 612, 792)

// inherited carries the attributes a page may take from its ancestors
type inherited struct {
	resources core.Object
	mediaBox  core.Object
	cropBox   core.Object
	rotate    core.Object
}

func (in inherited) override(node core.Dict) inherited {
	if v := node.Get("Resources"); v != nil {
		in.resources = v
	}
	if v := node.Get("MediaBox"); v != nil {
		in.mediaBox = v
	}
	if v := node.Get("CropBox"); v != nil {
		in.cropBox = v
	}
	if v := node.Get("Rotate"); v != nil {
		in.rotate = v
	}
	return in
}

// pageNode is a leaf of the page tree with its inherited attributes
type pageNode struct {
	ref   core.Ref
	dict  core.Dict
	attrs inherited
}

// Page is one page with its attributes resolved
type Page struct {
	Index     int
	Ref       core.Ref
	Dict      core.Dict
	Resources core.Dict
	MediaBox  model.BBox
	CropBox   model.BBox
	Rotate    int
	Contents  []byte
}

// Width returns the displayed width, accounting for rotation
func (p *Page) Width() float64 {
	if p.Rotate == 90 || p.Rotate == 270 {
		return p.CropBox.Height
	}
	return p.CropBox.Width
}

// Height returns the displayed height, accounting for rotation
func (p *Page) Height() float64 {
	if p.Rotate == 90 || p.Rotate == 270 {
		return p.CropBox.Width
	}
	return p.CropBox.Height
}

// BaseMatrix maps default user space to upright page space: the crop box
// origin moves to (0, 0) and the page rotation is undone.
func (p *Page) BaseMatrix() model.Matrix {
	m := model.Translate(-p.CropBox.X, -p.CropBox.Y)
	w, h := p.CropBox.Width, p.CropBox.Height
	switch p.Rotate {
	case 90:
		return m.Multiply(model.Matrix{0, -1, 1, 0, 0, w})
	case 180:
		return m.Multiply(model.Matrix{-1, 0, 0, -1, w, h})
	case 270:
		return m.Multiply(model.Matrix{0, 1, -1, 0, h, 0})
	}
	return m
}

func (d *Document) buildPageList() error {
	root := d.catalog.Get("Pages")
	visited := make(map[core.Ref]bool)
	var rootRef core.Ref
	if ref, ok := root.(core.Ref); ok {
		rootRef = ref
	}
	return d.walkPages(root, rootRef, inherited{}, visited, 0)
}

func (d *Document) walkPages(obj core.Object, ref core.Ref, in inherited, visited map[core.Ref]bool, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}
	if r, ok := obj.(core.Ref); ok {
		if visited[r] {
			return nil
		}
		visited[r] = true
		ref = r
	}

	node, ok := core.ResolveDict(d.arena, obj)
	if !ok {
		return fmt.Errorf("page tree node %s is not a dictionary", ref)
	}

	typ, _ := node.Name("Type")
	kids, hasKids := core.ResolveArray(d.arena, node.Get("Kids"))
	switch {
	case typ == "Pages" || (typ == "" && hasKids):
		next := in.override(node)
		for _, kid := range kids {
			if err := d.walkPages(kid, core.Ref{}, next, visited, depth+1); err != nil {
				return err
			}
		}
	default:
		d.byRef[ref] = len(d.pages)
		d.pages = append(d.pages, pageNode{ref: ref, dict: node, attrs: in.override(node)})
	}
	return nil
}

// Page loads page index (zero-based) with its content stream bytes
func (d *Document) Page(index int) (*Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPageRange, index, len(d.pages))
	}
	node := d.pages[index]

	p := &Page{
		Index:    index,
		Ref:      node.ref,
		Dict:     node.dict,
		MediaBox: d.box(node.attrs.mediaBox, defaultMediaBox),
	}
	p.CropBox = d.box(node.attrs.cropBox, p.MediaBox).Intersection(p.MediaBox)
	if p.CropBox.IsEmpty() {
		p.CropBox = p.MediaBox
	}
	if rot, ok := core.ResolveNumber(d.arena, node.attrs.rotate); ok {
		p.Rotate = ((int(rot) % 360) + 360) % 360 / 90 * 90
	}
	if res, ok := core.ResolveDict(d.arena, node.attrs.resources); ok {
		p.Resources = res
	} else {
		p.Resources = core.Dict{}
	}
	p.Contents = d.contents(node.dict.Get("Contents"))
	return p, nil
}

func (d *Document) box(obj core.Object, fallback model.BBox) model.BBox {
	nums, ok := core.ResolveNumbers(d.arena, obj)
	if !ok || len(nums) != 4 {
		return fallback
	}
	b := model.RectBBox(nums[0], nums[1], nums[2], nums[3])
	if b.IsEmpty() {
		return fallback
	}
	return b
}

// contents concatenates the page's content streams. Streams that fail to
// decode are skipped so the rest of the page still renders.
func (d *Document) contents(obj core.Object) []byte {
	var streams []core.Object
	switch v := obj.(type) {
	case core.Ref:
		resolved, err := d.arena.Resolve(v)
		if err != nil {
			return nil
		}
		if arr, ok := resolved.(core.Array); ok {
			streams = arr
		} else {
			streams = []core.Object{resolved}
		}
	case core.Array:
		streams = v
	case *core.Stream:
		streams = []core.Object{v}
	}

	var buf bytes.Buffer
	for _, s := range streams {
		stream, ok := core.ResolveStream(d.arena, s)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			continue
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// PageIndex returns the index of the page object ref, or -1
func (d *Document) PageIndex(ref core.Ref) int {
	if i, ok := d.byRef[ref]; ok {
		return i
	}
	return -1
}

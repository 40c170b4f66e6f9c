package source

import (
	"strings"

	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/model"
)

// field flag bits from the AcroForm field dictionary /Ff
const (
	flagReadOnly   = 1 << 0
	flagMultiline  = 1 << 12
	flagRadio      = 1 << 15
	flagPushButton = 1 << 16
)

// markupSubtypes become comments in the output
var markupSubtypes = map[string]bool{
	"Text": true, "FreeText": true, "Highlight": true, "Underline": true,
	"StrikeOut": true, "Squiggly": true,
}

// Annotations splits the page's annotations into links, markup annotations
// and form field widgets, all in upright page space.
func (d *Document) Annotations(p *Page) ([]model.Link, []model.Annotation, []model.FormField) {
	annots, ok := core.ResolveArray(d.arena, p.Dict.Get("Annots"))
	if !ok {
		return nil, nil, nil
	}
	base := p.BaseMatrix()

	var links []model.Link
	var notes []model.Annotation
	var fields []model.FormField
	for _, obj := range annots {
		annot, ok := core.ResolveDict(d.arena, obj)
		if !ok {
			continue
		}
		rect, ok := core.ResolveNumbers(d.arena, annot.Get("Rect"))
		if !ok || len(rect) != 4 {
			continue
		}
		bbox := base.TransformBBox(model.RectBBox(rect[0], rect[1], rect[2], rect[3]))
		subtype, _ := annot.Name("Subtype")
		contents := d.text(annot.Get("Contents"))

		switch {
		case subtype == "Link":
			if link, ok := d.link(annot, bbox, contents); ok {
				links = append(links, link)
			}
		case subtype == "Widget":
			fields = append(fields, d.formField(annot, bbox, p.Index))
		case markupSubtypes[subtype]:
			if strings.TrimSpace(contents) == "" {
				continue
			}
			notes = append(notes, model.Annotation{
				Subtype: subtype,
				Text:    contents,
				Author:  d.text(annot.Get("T")),
				BBox:    bbox,
			})
		}
	}
	return links, notes, fields
}

func (d *Document) text(obj core.Object) string {
	s, _ := core.ResolveString(d.arena, obj)
	return core.TextString(s)
}

func (d *Document) link(annot core.Dict, bbox model.BBox, tooltip string) (model.Link, bool) {
	link := model.Link{BBox: bbox, DestPage: -1, Tooltip: tooltip}
	if action, ok := core.ResolveDict(d.arena, annot.Get("A")); ok {
		switch s, _ := action.Name("S"); s {
		case "URI":
			uri, _ := core.ResolveString(d.arena, action.Get("URI"))
			link.URI = strings.TrimSpace(uri)
			return link, link.URI != ""
		case "GoTo":
			annot = core.Dict{"Dest": action.Get("D")}
		default:
			return link, false
		}
	}
	dest := annot.Get("Dest")
	if dest == nil {
		return link, false
	}
	page, top, hasTop := d.ResolveDest(dest)
	if page < 0 {
		return link, false
	}
	link.DestPage = page
	if hasTop {
		target, _ := d.Page(page)
		if target != nil {
			top = target.BaseMatrix().Transform(model.Point{X: target.CropBox.X, Y: top}).Y
		}
		link.DestTop = top
	}
	return link, true
}

// inheritedField finds a field attribute on the widget or its parents
func (d *Document) inheritedField(annot core.Dict, key string) core.Object {
	node := annot
	for i := 0; i < maxTreeDepth && node != nil; i++ {
		if v := node.Get(key); v != nil {
			return v
		}
		parent, ok := core.ResolveDict(d.arena, node.Get("Parent"))
		if !ok {
			break
		}
		node = parent
	}
	return nil
}

// fieldName builds the fully qualified field name from the /T chain
func (d *Document) fieldName(annot core.Dict) string {
	var parts []string
	node := annot
	for i := 0; i < maxTreeDepth && node != nil; i++ {
		if t := d.text(node.Get("T")); t != "" {
			parts = append([]string{t}, parts...)
		}
		parent, ok := core.ResolveDict(d.arena, node.Get("Parent"))
		if !ok {
			break
		}
		node = parent
	}
	return strings.Join(parts, ".")
}

func (d *Document) formField(annot core.Dict, bbox model.BBox, page int) model.FormField {
	ft, _ := core.ResolveName(d.arena, d.inheritedField(annot, "FT"))
	flags, _ := core.ResolveNumber(d.arena, d.inheritedField(annot, "Ff"))
	ff := int(flags)

	f := model.FormField{
		Name:      d.fieldName(annot),
		Tooltip:   d.text(d.inheritedField(annot, "TU")),
		ReadOnly:  ff&flagReadOnly != 0,
		Multiline: ff&flagMultiline != 0,
		BBox:      bbox,
		Page:      page,
	}
	f.Label = f.Tooltip
	if f.Label == "" {
		f.Label = f.Name
	}

	value := d.inheritedField(annot, "V")
	switch ft {
	case "Btn":
		switch {
		case ff&flagPushButton != 0:
			f.Kind = model.FieldButton
		case ff&flagRadio != 0:
			f.Kind = model.FieldRadio
		default:
			f.Kind = model.FieldCheckbox
		}
		state, _ := core.ResolveName(d.arena, annot.Get("AS"))
		if state == "" {
			state, _ = core.ResolveName(d.arena, value)
		}
		f.Checked = state != "" && state != "Off"
		f.Value = state
	case "Ch":
		f.Kind = model.FieldDropdown
		f.Value = d.fieldValue(value)
		if opts, ok := core.ResolveArray(d.arena, d.inheritedField(annot, "Opt")); ok {
			for _, o := range opts {
				if pair, ok := core.ResolveArray(d.arena, o); ok && len(pair) == 2 {
					o = pair[1]
				}
				f.Options = append(f.Options, d.text(o))
			}
		}
	case "Sig":
		f.Kind = model.FieldSignature
		if value != nil {
			if sig, ok := core.ResolveDict(d.arena, value); ok {
				f.Value = d.text(sig.Get("Name"))
			}
		}
	default:
		f.Kind = model.FieldText
		f.Value = d.fieldValue(value)
	}
	return f
}

func (d *Document) fieldValue(obj core.Object) string {
	resolved, err := d.arena.Resolve(obj)
	if err != nil {
		return ""
	}
	switch v := resolved.(type) {
	case core.String:
		return core.TextString(string(v))
	case core.Name:
		return string(v)
	case core.Array:
		var vals []string
		for _, el := range v {
			vals = append(vals, d.fieldValue(el))
		}
		return strings.Join(vals, ", ")
	}
	return ""
}

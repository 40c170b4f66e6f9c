package source

import (
	"github.com/tsawler/pdf2docx/core"
)

// maxOutlineItems bounds outline traversal on files with sibling cycles.
const maxOutlineItems = 10000

// OutlineEntry is one bookmark of the document outline, flattened in
// document order with its nesting level.
type OutlineEntry struct {
	Title  string
	Level  int
	Page   int // zero-based, -1 when the destination is unknown
	Top    float64
	HasTop bool
}

// Outline returns the outline entries in pre-order
func (d *Document) Outline() []OutlineEntry {
	root, ok := core.ResolveDict(d.arena, d.catalog.Get("Outlines"))
	if !ok {
		return nil
	}
	var out []OutlineEntry
	seen := make(map[core.Ref]bool)
	d.walkOutline(root.Get("First"), 0, seen, &out)
	return out
}

func (d *Document) walkOutline(obj core.Object, level int, seen map[core.Ref]bool, out *[]OutlineEntry) {
	for obj != nil && len(*out) < maxOutlineItems {
		if ref, ok := obj.(core.Ref); ok {
			if seen[ref] {
				return
			}
			seen[ref] = true
		}
		item, ok := core.ResolveDict(d.arena, obj)
		if !ok {
			return
		}

		title, _ := core.ResolveString(d.arena, item.Get("Title"))
		entry := OutlineEntry{Title: core.TextString(title), Level: level, Page: -1}
		dest := item.Get("Dest")
		if dest == nil {
			dest = d.actionDest(item.Get("A"))
		}
		if dest != nil {
			entry.Page, entry.Top, entry.HasTop = d.ResolveDest(dest)
		}
		*out = append(*out, entry)

		if first := item.Get("First"); first != nil {
			d.walkOutline(first, level+1, seen, out)
		}
		obj = item.Get("Next")
	}
}

// actionDest extracts the destination of a GoTo action
func (d *Document) actionDest(obj core.Object) core.Object {
	action, ok := core.ResolveDict(d.arena, obj)
	if !ok {
		return nil
	}
	if s, _ := action.Name("S"); s != "GoTo" {
		return nil
	}
	return action.Get("D")
}

// ResolveDest resolves an explicit or named destination to a page index and
// the optional top coordinate in default user space.
func (d *Document) ResolveDest(obj core.Object) (page int, top float64, hasTop bool) {
	resolved, err := d.arena.Resolve(obj)
	if err != nil {
		return -1, 0, false
	}
	switch v := resolved.(type) {
	case core.Name:
		return d.ResolveDest(d.namedDest(string(v)))
	case core.String:
		return d.ResolveDest(d.namedDest(string(v)))
	case core.Dict:
		return d.ResolveDest(v.Get("D"))
	case core.Array:
		if len(v) == 0 {
			return -1, 0, false
		}
		page = -1
		switch target := v[0].(type) {
		case core.Ref:
			page = d.PageIndex(target)
		case core.Int:
			page = int(target)
		}
		if page < 0 || page >= len(d.pages) {
			return -1, 0, false
		}
		kind, _ := core.ResolveName(d.arena, v.Get(1))
		switch kind {
		case "XYZ":
			top, hasTop = core.ResolveNumber(d.arena, v.Get(3))
		case "FitH", "FitBH":
			top, hasTop = core.ResolveNumber(d.arena, v.Get(2))
		case "FitR":
			top, hasTop = core.ResolveNumber(d.arena, v.Get(5))
		}
		return page, top, hasTop
	}
	return -1, 0, false
}

// namedDest looks a name up in the catalog /Dests dictionary and the
// /Names /Dests name tree.
func (d *Document) namedDest(name string) core.Object {
	if d.namedDests == nil {
		d.namedDests = make(map[string]core.Object)
		if dests, ok := core.ResolveDict(d.arena, d.catalog.Get("Dests")); ok {
			for k, v := range dests {
				d.namedDests[k] = v
			}
		}
		if names, ok := core.ResolveDict(d.arena, d.catalog.Get("Names")); ok {
			d.collectNameTree(names.Get("Dests"), make(map[core.Ref]bool), 0)
		}
	}
	return d.namedDests[name]
}

func (d *Document) collectNameTree(obj core.Object, seen map[core.Ref]bool, depth int) {
	if depth > maxTreeDepth {
		return
	}
	if ref, ok := obj.(core.Ref); ok {
		if seen[ref] {
			return
		}
		seen[ref] = true
	}
	node, ok := core.ResolveDict(d.arena, obj)
	if !ok {
		return
	}
	if names, ok := core.ResolveArray(d.arena, node.Get("Names")); ok {
		for i := 0; i+1 < len(names); i += 2 {
			if key, ok := core.ResolveString(d.arena, names[i]); ok {
				d.namedDests[key] = names[i+1]
			}
		}
	}
	if kids, ok := core.ResolveArray(d.arena, node.Get("Kids")); ok {
		for _, kid := range kids {
			d.collectNameTree(kid, seen, depth+1)
		}
	}
}

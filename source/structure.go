package source

import (
	"github.com/tsawler/pdf2docx/core"
)

// containerRoles group content without giving it a role
var containerRoles = map[string]bool{
	"Document": true, "Part": true, "Art": true, "Sect": true, "Div": true,
	"NonStruct": true, "Private": true,
}

// inlineRoles take the role of the nearest meaningful ancestor and only
// stand on their own at the top of the tree.
var inlineRoles = map[string]bool{
	"P": true, "Span": true, "Link": true, "Lbl": true, "LBody": true,
	"Reference": true, "Quote": true,
}

// StructRoles maps, per page index, marked content ids to structure roles
type StructRoles map[int]map[int]string

// StructRoles walks the structure tree. Custom roles are mapped through
// the /RoleMap. Returns nil for untagged documents.
func (d *Document) StructRoles() StructRoles {
	root, ok := core.ResolveDict(d.arena, d.catalog.Get("StructTreeRoot"))
	if !ok {
		return nil
	}
	roleMap, _ := core.ResolveDict(d.arena, root.Get("RoleMap"))

	w := &structWalker{
		doc:     d,
		roleMap: roleMap,
		roles:   make(StructRoles),
		seen:    make(map[core.Ref]bool),
	}
	w.walk(root.Get("K"), "", -1, 0)
	return w.roles
}

type structWalker struct {
	doc     *Document
	roleMap core.Dict
	roles   StructRoles
	seen    map[core.Ref]bool
}

func (w *structWalker) standardRole(role string) string {
	for i := 0; i < 8 && w.roleMap != nil; i++ {
		mapped, ok := w.roleMap.Name(role)
		if !ok || mapped == role {
			break
		}
		role = mapped
	}
	return role
}

func (w *structWalker) record(page, mcid int, role string) {
	if page < 0 || role == "" {
		return
	}
	if w.roles[page] == nil {
		w.roles[page] = make(map[int]string)
	}
	w.roles[page][mcid] = role
}

func (w *structWalker) walk(obj core.Object, role string, page, depth int) {
	if depth > maxTreeDepth || obj == nil {
		return
	}
	if ref, ok := obj.(core.Ref); ok {
		if w.seen[ref] {
			return
		}
		w.seen[ref] = true
	}

	resolved, err := w.doc.arena.Resolve(obj)
	if err != nil {
		return
	}

	switch v := resolved.(type) {
	case core.Int:
		w.record(page, int(v), role)
	case core.Array:
		for _, kid := range v {
			w.walk(kid, role, page, depth+1)
		}
	case core.Dict:
		if pg, ok := v.Get("Pg").(core.Ref); ok {
			page = w.doc.PageIndex(pg)
		}
		typ, _ := v.Name("Type")
		switch typ {
		case "MCR":
			if mcid, ok := v.Int("MCID"); ok {
				w.record(page, mcid, role)
			}
			return
		case "OBJR":
			return
		}
		if s, ok := v.Name("S"); ok {
			std := w.standardRole(s)
			switch {
			case containerRoles[std]:
			case inlineRoles[std] && role != "":
			default:
				role = std
			}
		}
		w.walk(v.Get("K"), role, page, depth+1)
	}
}

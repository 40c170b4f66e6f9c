package source

import (
	"github.com/tsawler/pdf2docx/core"
)

// Info holds the document information dictionary entries as decoded
// text. Dates are left in PDF date syntax.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
	Language     string
}

// Info reads the trailer /Info dictionary and the catalog /Lang entry
func (d *Document) Info() Info {
	var info Info
	if lang, ok := core.ResolveString(d.arena, d.catalog.Get("Lang")); ok {
		info.Language = core.TextString(lang)
	}
	if d.ctx.Info == nil {
		return info
	}
	dict, ok := core.ResolveDict(d.arena, convert(*d.ctx.Info))
	if !ok {
		return info
	}
	info.Title = d.text(dict.Get("Title"))
	info.Author = d.text(dict.Get("Author"))
	info.Subject = d.text(dict.Get("Subject"))
	info.Keywords = d.text(dict.Get("Keywords"))
	info.Creator = d.text(dict.Get("Creator"))
	info.Producer = d.text(dict.Get("Producer"))
	info.CreationDate = d.text(dict.Get("CreationDate"))
	info.ModDate = d.text(dict.Get("ModDate"))
	return info
}

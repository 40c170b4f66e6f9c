package docx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/pdf2docx/ir"
)

// Content types
const (
	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML       = "application/xml"
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp       = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctHeader    = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ctFooter    = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	ctFootnotes = "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"
	ctEndnotes  = "application/vnd.openxmlformats-officedocument.wordprocessingml.endnotes+xml"
	ctComments  = "application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"
)

// Fixed part names
const (
	partDocument     = "word/document.xml"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partRootRels     = "_rels/.rels"
	partContentTypes = "[Content_Types].xml"
)

// fixedOverrides are the overrides every package carries
var fixedOverrides = [][2]string{
	{"/" + partDocument, ctDocument},
	{"/" + partStyles, ctStyles},
	{"/" + partNumbering, ctNumbering},
	{"/" + partCore, ctCore},
	{"/" + partApp, ctApp},
}

// relsName returns the relationships part of a part under word/
func relsName(part string) string {
	return "word/_rels/" + part + ".rels"
}

// corePart renders docProps/core.xml
func corePart(m ir.Metadata, tagged bool) ([]byte, error) {
	title := m.Title
	if title == "" {
		title = "PDF Conversion"
		if tagged {
			title = "Tagged PDF"
		}
	}
	creator := firstNonEmpty(m.Author, "pdf2docx")
	created := m.Created
	if created.IsZero() {
		created = DefaultTimestamp
	}
	modified := m.Modified
	if modified.IsZero() {
		modified = created
	}

	w := newXMLWriter()
	w.open("cp:coreProperties",
		"xmlns:cp", nsCP, "xmlns:dc", nsDC, "xmlns:dcterms", nsDCTerms,
		"xmlns:dcmitype", nsDCMI, "xmlns:xsi", nsXSI)
	w.leaf("dc:title", title)
	if m.Subject != "" {
		w.leaf("dc:subject", m.Subject)
	}
	w.leaf("dc:creator", creator)
	if len(m.Keywords) > 0 {
		w.leaf("cp:keywords", strings.Join(m.Keywords, ", "))
	}
	if m.Description != "" {
		w.leaf("dc:description", m.Description)
	}
	w.leaf("cp:lastModifiedBy", firstNonEmpty(m.LastModifiedBy, creator))
	w.leaf("cp:revision", firstNonEmpty(m.Revision, "1"))
	w.leaf("dcterms:created", w3cdtf(created), "xsi:type", "dcterms:W3CDTF")
	w.leaf("dcterms:modified", w3cdtf(modified), "xsi:type", "dcterms:W3CDTF")
	if m.Language != "" {
		w.leaf("dc:language", m.Language)
	}
	w.close()
	return w.bytes()
}

// appPart renders docProps/app.xml
func appPart(st ir.Stats) ([]byte, error) {
	w := newXMLWriter()
	w.open("Properties", "xmlns", nsEP, "xmlns:vt", nsVT)
	w.leaf("Application", "pdf2docx")
	w.leaf("DocSecurity", "0")
	w.leaf("Pages", itoa(st.Pages))
	w.leaf("Words", itoa(st.Words))
	w.leaf("Characters", itoa(st.Characters))
	w.leaf("Lines", itoa(st.Lines))
	w.leaf("Paragraphs", itoa(st.Paragraphs))
	w.leaf("CharactersWithSpaces", itoa(st.CharactersWithSpaces))
	w.close()
	return w.bytes()
}

// rootRelsPart renders _rels/.rels
func rootRelsPart() ([]byte, error) {
	return relsPart([]Relationship{
		{ID: "rId1", Type: relOfficeDocument, Target: partDocument},
		{ID: "rId2", Type: relCoreProps, Target: partCore},
		{ID: "rId3", Type: relExtendedProps, Target: partApp},
	})
}

// documentRelsPart renders word/_rels/document.xml.rels
func documentRelsPart(m *RelationshipManager) ([]byte, error) {
	rels := []Relationship{
		{ID: "rId1", Type: relStyles, Target: "styles.xml"},
		{ID: "rId2", Type: relNumbering, Target: "numbering.xml"},
	}
	return relsPart(append(rels, m.Relationships()...))
}

func relsPart(rels []Relationship) ([]byte, error) {
	w := newXMLWriter()
	w.open("Relationships", "xmlns", nsRels)
	for _, r := range rels {
		kv := []string{"Id", r.ID, "Type", r.Type, "Target", r.Target}
		if r.External {
			kv = append(kv, "TargetMode", "External")
		}
		w.empty("Relationship", kv...)
	}
	w.close()
	return w.bytes()
}

// contentTypesPart renders [Content_Types].xml. parts are the registered
// parts under word/; media supplies the extension defaults.
func contentTypesPart(parts []Part, media []MediaPart) ([]byte, error) {
	w := newXMLWriter()
	w.open("Types", "xmlns", nsTypes)
	w.empty("Default", "Extension", "rels", "ContentType", ctRels)
	w.empty("Default", "Extension", "xml", "ContentType", ctXML)

	defaults := make(map[string]string)
	for _, m := range media {
		ext := strings.ToLower(m.Name[strings.LastIndexByte(m.Name, '.')+1:])
		if prev, ok := defaults[ext]; ok && prev != m.MIME {
			return nil, fmt.Errorf("%w: extension %s has content types %s and %s", ErrValidation, ext, prev, m.MIME)
		}
		defaults[ext] = m.MIME
	}
	exts := make([]string, 0, len(defaults))
	for ext := range defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		w.empty("Default", "Extension", ext, "ContentType", defaults[ext])
	}

	for _, o := range fixedOverrides {
		w.empty("Override", "PartName", o[0], "ContentType", o[1])
	}
	for _, p := range parts {
		w.empty("Override", "PartName", "/word/"+p.Name, "ContentType", p.ContentType)
	}
	w.close()
	return w.bytes()
}

// headerFooterPart renders a header or footer and registers it with the
// document relationships
func (p *packager) headerFooterPart(hf *ir.HeaderFooter, footer bool) (string, error) {
	sub := p.rels.Sub()
	tag, prefix, ct, rel := "w:hdr", "header", ctHeader, relHeader
	if footer {
		tag, prefix, ct, rel = "w:ftr", "footer", ctFooter, relFooter
	}
	w := newXMLWriter()
	w.open(tag, nsAttrs()...)
	p.writeElements(w, sub, hf.Elements, paraOpts{})
	if !endsWithParagraph(hf.Elements) {
		w.empty("w:p")
	}
	w.close()
	data, err := w.bytes()
	if err != nil {
		return "", fmt.Errorf("%s part: %w", prefix, err)
	}
	n := &p.headers
	if footer {
		n = &p.footers
	}
	*n++
	name := fmt.Sprintf("%s%d.xml", prefix, *n)
	return p.rels.RegisterPart(Part{Name: name, Data: data, ContentType: ct, Rels: sub}, rel)
}

func endsWithParagraph(elements []ir.Element) bool {
	if len(elements) == 0 {
		return false
	}
	_, isTable := elements[len(elements)-1].(*ir.Table)
	return !isTable
}

// notesPart renders footnotes.xml or endnotes.xml with the two separator
// notes Word expects at ids 0 and 1
func (p *packager) notesPart(notes []ir.Note, endnotes bool) error {
	tag, item, name, ct, rel := "w:footnotes", "w:footnote", "footnotes.xml", ctFootnotes, relFootnotes
	lead, style := "w:footnoteRef", "FootnoteReference"
	if endnotes {
		tag, item, name, ct, rel = "w:endnotes", "w:endnote", "endnotes.xml", ctEndnotes, relEndnotes
		lead, style = "w:endnoteRef", "EndnoteReference"
	}
	sub := p.rels.Sub()
	w := newXMLWriter()
	w.open(tag, nsAttrs()...)
	for id, sep := range []string{"separator", "continuationSeparator"} {
		w.open(item, "w:type", sep, "w:id", itoa(id))
		w.open("w:p")
		w.open("w:pPr")
		w.empty("w:spacing", "w:after", "0", "w:line", "240", "w:lineRule", "auto")
		w.close()
		w.open("w:r")
		w.empty("w:" + sep)
		w.close()
		w.close()
		w.close()
	}
	for _, n := range notes {
		w.open(item, "w:id", itoa(n.ID))
		p.writeStory(w, sub, p.paragraphs(n.Paragraphs), paraOpts{leadRef: lead, refStyle: style})
		w.close()
	}
	w.close()
	data, err := w.bytes()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = p.rels.RegisterPart(Part{Name: name, Data: data, ContentType: ct, Rels: sub}, rel)
	return err
}

// commentsPart renders comments.xml
func (p *packager) commentsPart(comments []ir.Comment) error {
	sub := p.rels.Sub()
	w := newXMLWriter()
	w.open("w:comments", nsAttrs()...)
	date := w3cdtf(DefaultTimestamp)
	if m := p.doc.Metadata.Modified; !m.IsZero() {
		date = w3cdtf(m)
	}
	for _, c := range comments {
		author := firstNonEmpty(c.Author, "Unknown")
		kv := []string{"w:id", itoa(c.ID), "w:author", author, "w:date", date}
		if c.Initials != "" {
			kv = append(kv, "w:initials", c.Initials)
		}
		w.open("w:comment", kv...)
		paras := p.paragraphs(c.Paragraphs)
		if len(paras) == 0 {
			paras = []*ir.Paragraph{{Runs: []ir.Run{{Text: c.Text}}, Style: "CommentText"}}
		}
		p.writeStory(w, sub, paras, paraOpts{leadRef: "w:annotationRef", refStyle: "CommentReference"})
		w.close()
	}
	w.close()
	data, err := w.bytes()
	if err != nil {
		return fmt.Errorf("comments.xml: %w", err)
	}
	_, err = p.rels.RegisterPart(Part{Name: "comments.xml", Data: data, ContentType: ctComments, Rels: sub}, relComments)
	return err
}

// writeStory writes note or comment paragraphs; the first one opens with
// the reference mark of the story
func (p *packager) writeStory(w *xmlWriter, rels *RelationshipManager, paras []*ir.Paragraph, opts paraOpts) {
	if len(paras) == 0 {
		paras = []*ir.Paragraph{{}}
	}
	for i, para := range paras {
		o := opts
		if i > 0 {
			o.leadRef = ""
		}
		p.writeParagraph(w, rels, para, o)
	}
}

func (p *packager) paragraphs(ids []ir.ParagraphID) []*ir.Paragraph {
	var out []*ir.Paragraph
	for _, id := range ids {
		if para := p.doc.Paragraph(id); para != nil {
			out = append(out, para)
		}
	}
	return out
}

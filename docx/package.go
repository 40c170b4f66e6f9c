// Package docx writes the intermediate document as an Office Open XML
// WordprocessingML package and reads finished packages back for
// inspection.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/logging"
)

// entry is one file of the archive
type entry struct {
	name string
	data []byte
}

// packager holds the state of one packaging run
type packager struct {
	doc  *ir.Document
	rels *RelationshipManager

	bookmarks int
	drawings  int
	headers   int
	footers   int
}

// Package renders doc as a .docx archive. The archive is validated before
// it is returned; validation failures wrap ErrValidation. Packaging the
// same document twice yields identical bytes.
func Package(doc *ir.Document) ([]byte, error) {
	entries, err := assemble(doc)
	if err != nil {
		return nil, err
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeZip(&buf, entries); err != nil {
		return nil, fmt.Errorf("writing archive: %w", err)
	}
	logging.Logger().Debug("packaged document",
		"stage", "package",
		"entries", len(entries),
		"bytes", buf.Len())
	return buf.Bytes(), nil
}

// Write packages doc and writes the archive to w
func Write(w io.Writer, doc *ir.Document) error {
	data, err := Package(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// assemble renders every part in archive order: the fixed parts, then the
// registered parts and their relationships sorted by name, then media
func assemble(doc *ir.Document) ([]entry, error) {
	if doc == nil {
		doc = ir.NewDocument()
	}
	p := &packager{doc: doc, rels: NewRelationshipManager()}

	document, err := p.documentPart()
	if err != nil {
		return nil, fmt.Errorf("%w: document.xml: %v", ErrValidation, err)
	}
	if len(doc.Footnotes) > 0 {
		if err := p.notesPart(doc.Footnotes, false); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if len(doc.Endnotes) > 0 {
		if err := p.notesPart(doc.Endnotes, true); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if len(doc.Comments) > 0 {
		if err := p.commentsPart(doc.Comments); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	stats := doc.Stats()
	if stats.Pages == 0 {
		stats.Pages = max(len(doc.Sections), 1)
	}
	parts := p.rels.Parts()
	media := p.rels.Media()

	type render struct {
		name string
		fn   func() ([]byte, error)
	}
	fixed := []render{
		{partDocument, func() ([]byte, error) { return document, nil }},
		{partStyles, func() ([]byte, error) { return stylesPart(doc.Metadata.Language) }},
		{partNumbering, numberingPart},
		{partCore, func() ([]byte, error) { return corePart(doc.Metadata, doc.Tagged) }},
		{partApp, func() ([]byte, error) { return appPart(stats) }},
		{partDocumentRels, func() ([]byte, error) { return documentRelsPart(p.rels) }},
		{partRootRels, rootRelsPart},
		{partContentTypes, func() ([]byte, error) { return contentTypesPart(parts, media) }},
	}
	var entries []entry
	for _, r := range fixed {
		data, err := r.fn()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, r.name, err)
		}
		entries = append(entries, entry{r.name, data})
	}

	var extra []entry
	for _, part := range parts {
		extra = append(extra, entry{"word/" + part.Name, part.Data})
		if part.Rels == nil || part.Rels.Len() == 0 {
			continue
		}
		data, err := relsPart(part.Rels.Relationships())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, relsName(part.Name), err)
		}
		extra = append(extra, entry{relsName(part.Name), data})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].name < extra[j].name })
	entries = append(entries, extra...)
	for _, m := range media {
		entries = append(entries, entry{"word/" + m.Name, m.Data})
	}
	return entries, nil
}

func writeZip(w io.Writer, entries []entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		fh := &zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: DefaultTimestamp,
		}
		fh.SetMode(0o644)
		f, err := zw.CreateHeader(fh)
		if err != nil {
			return err
		}
		if _, err := f.Write(e.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

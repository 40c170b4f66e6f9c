// Package ir is the intermediate document model between layout analysis and
// OOXML packaging.
//
// A [Document] owns ordered [Section]s, notes, comments and the outline.
// Paragraphs live in an arena inside the document and are addressed by
// [ParagraphID] handles, so finalization passes can move a paragraph from
// the body into a header, footer or note without copying it:
//
//	doc := ir.NewDocument()
//	id := doc.NewParagraph(ir.Paragraph{Runs: []ir.Run{{Text: "Hello"}}})
//	doc.Sections = append(doc.Sections, &ir.Section{Elements: []ir.Element{id}})
//	doc.Detach(id) // removed from the body, still readable via doc.Paragraph(id)
//
// Block elements implement [Element]: a [ParagraphID], *[Table], *[Picture]
// or *[Equation]. Lengths are in points; the packager converts them.
package ir

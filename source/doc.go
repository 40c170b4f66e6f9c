// Package source adapts pdfcpu as the PDF object model provider.
//
// pdfcpu parses the file, repairs cross-reference tables and decrypts
// strings and streams. This package converts what pdfcpu returns into
// core objects held in a lazily filled [core.Arena], walks the page tree
// with attribute inheritance, and exposes the document-level structures
// the converter needs: outline, structure tree roles, document info,
// annotations and form fields.
//
//	doc, err := source.OpenBytes(data, "")
//	if err != nil {
//	    // errors.Is(err, source.ErrEncrypted), source.ErrNotPDF, ...
//	}
//	page, err := doc.Page(0)
package source

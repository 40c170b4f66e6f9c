// Package pdf2docx converts PDF documents into editable Word (.docx)
// documents through a fluent API.
//
// Basic usage:
//
//	res, err := pdf2docx.Open("report.pdf").ConvertTo(ctx, "report.docx")
//	if err != nil {
//	    // handle error
//	}
//	if len(res.Warnings) > 0 {
//	    log.Println("Warnings:", pdf2docx.FormatWarnings(res.Warnings))
//	}
//
// With options:
//
//	res, err := pdf2docx.Open("report.pdf").
//	    Pages(0, 1, 2).
//	    Outline().
//	    TOC().
//	    Convert(ctx)
//
// The stages are available as packages for finer control: source reads
// the PDF, interpreter runs page content streams, layout analyzes pages,
// builder assembles the intermediate document and docx writes the archive.
package pdf2docx

import (
	"fmt"
)

// Open returns a Converter for the PDF file at filename. The file is read
// when a terminal operation such as Convert runs.
//
// Example:
//
//	res, err := pdf2docx.Open("document.pdf").Convert(ctx)
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Converter for a PDF held in memory. The slice is not
// copied and must not be modified while a conversion runs.
//
// Example:
//
//	res, err := pdf2docx.FromBytes(data).Password("secret").Convert(ctx)
func FromBytes(data []byte) *Converter {
	c := &Converter{
		data:    data,
		options: defaultOptions(),
	}
	if data == nil {
		c.err = &InputError{Err: fmt.Errorf("no input data")}
	}
	return c
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := pdf2docx.Must(pdf2docx.Open("document.pdf").Convert(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

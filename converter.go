package pdf2docx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/pdf2docx/docx"
	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/logging"
	"github.com/tsawler/pdf2docx/source"
)

// Converter provides a fluent interface for converting a PDF to DOCX.
// Each configuration method returns a new Converter, so a configured
// Converter can be shared and reused.
type Converter struct {
	// Source
	filename string
	data     []byte

	// Configuration
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		data:     c.data,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Pages selects the pages to convert (zero-indexed). Multiple calls are
// cumulative. Output follows document order whatever the call order.
//
// Example:
//
//	res, err := pdf2docx.Open("doc.pdf").Pages(0, 2, 4).Convert(ctx)
func (c *Converter) Pages(pages ...int) *Converter {
	out := c.clone()
	out.options.pages = append(out.options.pages, pages...)
	return out
}

// PageRange selects the pages from start to end (zero-indexed, inclusive).
func (c *Converter) PageRange(start, end int) *Converter {
	out := c.clone()
	if end < start {
		out.err = fmt.Errorf("invalid page range: start %d after end %d", start, end)
		return out
	}
	for i := start; i <= end; i++ {
		out.options.pages = append(out.options.pages, i)
	}
	return out
}

// Password sets the password used to decrypt the document. It is tried as
// user and as owner password.
func (c *Converter) Password(password string) *Converter {
	out := c.clone()
	out.options.password = password
	return out
}

// StripWhitespace collapses runs of whitespace inside paragraphs.
func (c *Converter) StripWhitespace() *Converter {
	out := c.clone()
	out.options.stripWhitespace = true
	return out
}

// Outline derives an outline from headings when the PDF has none.
func (c *Converter) Outline() *Converter {
	out := c.clone()
	out.options.generateOutline = true
	return out
}

// TOC inserts a table of contents field at the start of the document.
// Word fills it in when the document is opened and fields are updated.
func (c *Converter) TOC() *Converter {
	out := c.clone()
	out.options.generateTOC = true
	return out
}

// Endnotes collects detected notes as endnotes instead of footnotes.
func (c *Converter) Endnotes() *Converter {
	out := c.clone()
	out.options.endnotes = true
	return out
}

// Metadata sets document properties. Fields set in m replace the ones read
// from the PDF; empty fields keep them.
func (c *Converter) Metadata(m ir.Metadata) *Converter {
	out := c.clone()
	out.options.metadata = out.options.metadata.Merge(m)
	out.options.metadata.Keywords = append([]string(nil), out.options.metadata.Keywords...)
	return out
}

// HeadingRatios sets the font size ratios to body text at or above which a
// paragraph becomes a level 1, 2 or 3 heading. Zero keeps the default.
func (c *Converter) HeadingRatios(h1, h2, h3 float64) *Converter {
	out := c.clone()
	if h1 > 0 {
		out.options.heading.Heading1Ratio = h1
	}
	if h2 > 0 {
		out.options.heading.Heading2Ratio = h2
	}
	if h3 > 0 {
		out.options.heading.Heading3Ratio = h3
	}
	return out
}

// TableDensity sets the gate a borderless table must pass: the populated
// rows and columns, and the fraction of grid cells holding text. Zero
// keeps the default.
func (c *Converter) TableDensity(minRows, minCols int, minFill float64) *Converter {
	out := c.clone()
	if minRows > 0 {
		out.options.tables.MinRows = minRows
	}
	if minCols > 0 {
		out.options.tables.MinCols = minCols
	}
	if minFill > 0 {
		out.options.tables.MinFillRatio = minFill
	}
	return out
}

// NoTables disables table detection; table text becomes paragraphs.
func (c *Converter) NoTables() *Converter {
	out := c.clone()
	out.options.detectTables = false
	return out
}

// EquationImages renders equations as pictures instead of editable math.
func (c *Converter) EquationImages() *Converter {
	out := c.clone()
	out.options.equationImages = true
	return out
}

// OCR recognizes the text of scanned pages: pages with no text and one
// image covering most of the page. lang is a Tesseract language such as
// "eng" or "eng+deu"; empty keeps the default. OCR needs a binary built
// with the ocr build tag; otherwise a warning is recorded.
func (c *Converter) OCR(lang string) *Converter {
	out := c.clone()
	out.options.ocr = true
	if lang != "" {
		out.options.ocrLanguage = lang
	}
	return out
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Result is the outcome of a conversion
type Result struct {
	// Data is the .docx archive
	Data []byte

	Pages      int
	Paragraphs int
	Words      int
	Lines      int
	Tables     int
	Images     int

	// Trace lists the completed stages in order
	Trace []TraceEvent

	Warnings []Warning
}

// PageCount returns the number of pages in the document.
func (c *Converter) PageCount() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	doc, err := c.open()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Convert runs the conversion and returns the archive with its statistics.
// Document level errors are returned before any output exists. The
// context is checked between pages.
func (c *Converter) Convert(ctx context.Context) (*Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	doc, err := c.open()
	if err != nil {
		return nil, err
	}
	p := newPipeline(doc, c.options)
	return p.run(ctx)
}

// ConvertTo converts and writes the archive to path. The archive is written
// to a temporary file in the same directory and renamed into place, so
// path never holds a partial document.
func (c *Converter) ConvertTo(ctx context.Context, path string) (*Result, error) {
	res, err := c.Convert(ctx)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(path, res.Data); err != nil {
		return nil, err
	}
	logging.Logger().Info("document written",
		"stage", "write",
		"path", path,
		"bytes", len(res.Data))
	return res, nil
}

// open reads and parses the input, mapping source errors to typed errors
func (c *Converter) open() (*source.Document, error) {
	data := c.data
	if data == nil {
		if c.filename == "" {
			return nil, &InputError{Err: fmt.Errorf("no filename specified")}
		}
		b, err := os.ReadFile(c.filename)
		if err != nil {
			return nil, &InputError{Path: c.filename, Err: err}
		}
		data = b
	}
	doc, err := source.OpenBytes(data, c.options.password)
	if err != nil {
		return nil, classifyOpenError(c.filename, err)
	}
	return doc, nil
}

// writeAtomic writes data to a temporary file next to path and renames it
func writeAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Validate checks that data is a well formed .docx archive.
func Validate(data []byte) error {
	if err := docx.Validate(data); err != nil {
		return &PackagingError{Err: err}
	}
	return nil
}

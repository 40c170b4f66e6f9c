package pdf2docx

import (
	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/ocr"
	"github.com/tsawler/pdf2docx/tables"
)

// ConvertOptions holds configuration for one conversion.
type ConvertOptions struct {
	// Page selection (zero-indexed), nil means all pages
	pages []int

	password string

	// Text handling
	stripWhitespace bool

	// Navigation
	generateOutline bool
	generateTOC     bool
	endnotes        bool

	// Metadata fields that replace the ones read from the document
	metadata ir.Metadata

	// Analysis tuning
	heading      layout.HeadingConfig
	tables       tables.Config
	detectTables bool

	// Rendering choices
	equationImages bool
	ocr            bool
	ocrLanguage    string
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		pages:        nil, // nil means all pages
		heading:      layout.DefaultHeadingConfig(),
		tables:       tables.DefaultConfig(),
		detectTables: true,
		ocrLanguage:  ocr.DefaultLanguage,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	out := o

	// Deep copy slices
	if o.pages != nil {
		out.pages = make([]int, len(o.pages))
		copy(out.pages, o.pages)
	}
	if o.metadata.Keywords != nil {
		out.metadata.Keywords = append([]string(nil), o.metadata.Keywords...)
	}
	if o.metadata.Watermarks != nil {
		out.metadata.Watermarks = append([]string(nil), o.metadata.Watermarks...)
	}

	return out
}

// analyzerConfig returns the layout configuration for these options
func (o ConvertOptions) analyzerConfig() layout.AnalyzerConfig {
	cfg := layout.DefaultAnalyzerConfig()
	cfg.Tables = o.tables
	cfg.DetectTables = o.detectTables
	return cfg
}

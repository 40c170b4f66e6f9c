package pdf2docx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/pdf2docx/builder"
	"github.com/tsawler/pdf2docx/docx"
	"github.com/tsawler/pdf2docx/interpreter"
	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/logging"
	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/ocr"
	"github.com/tsawler/pdf2docx/raster"
	"github.com/tsawler/pdf2docx/source"
)

// Stage names used in warnings and trace events
const (
	StageOpen      = "open"
	StageInterpret = "interpret"
	StageOCR       = "ocr"
	StageAnalyze   = "analyze"
	StageBuild     = "build"
	StagePackage   = "package"
)

// ocrFontSize is the size given to recognized text (points)
const ocrFontSize = 11

// pipeline runs one conversion
type pipeline struct {
	doc      *source.Document
	opts     ConvertOptions
	interp   *interpreter.Interpreter
	analyzer *layout.Analyzer

	recognizer ocr.Recognizer
	closeOCR   func() error

	trace    []TraceEvent
	warnings []Warning
}

func newPipeline(doc *source.Document, opts ConvertOptions) *pipeline {
	return &pipeline{
		doc:      doc,
		opts:     opts,
		interp:   interpreter.New(doc.Resolver()),
		analyzer: layout.NewAnalyzerWithConfig(opts.analyzerConfig()),
	}
}

func (p *pipeline) builderConfig() builder.Config {
	cfg := builder.DefaultConfig()
	cfg.Heading = p.opts.heading
	cfg.StripWhitespace = p.opts.stripWhitespace
	cfg.GenerateOutline = p.opts.generateOutline
	cfg.GenerateTOC = p.opts.generateTOC
	cfg.FootnotesAsEndnotes = p.opts.endnotes
	return cfg
}

func (p *pipeline) warn(stage string, page int, err error) {
	p.warnings = append(p.warnings, Warning{Stage: stage, Page: page, Message: err.Error(), Err: err})
	logging.Logger().Debug("conversion warning",
		"stage", stage,
		"page", page,
		"error", err)
}

func (p *pipeline) record(stage string, page int, start time.Time, detail string, args ...any) {
	p.trace = append(p.trace, TraceEvent{
		Stage:   stage,
		Page:    page,
		Detail:  fmt.Sprintf(detail, args...),
		Elapsed: time.Since(start),
	})
}

// selectPages resolves the requested pages to sorted unique indices. Every
// index is checked before any page is processed.
func (p *pipeline) selectPages() ([]int, error) {
	count := p.doc.PageCount()
	if p.opts.pages == nil {
		out := make([]int, count)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, i := range p.opts.pages {
		if i < 0 || i >= count {
			return nil, &PageRangeError{Page: i, PageCount: count}
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (p *pipeline) run(ctx context.Context) (*Result, error) {
	start := time.Now()
	indices, err := p.selectPages()
	if err != nil {
		return nil, err
	}
	p.record(StageOpen, -1, start, "%d of %d pages selected", len(indices), p.doc.PageCount())

	if p.opts.ocr {
		p.startOCR()
		defer func() {
			if p.closeOCR != nil {
				_ = p.closeOCR()
			}
		}()
	}

	roles := p.doc.StructRoles()
	layouts := make([]*layout.PageLayout, 0, len(indices))
	for _, i := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pl, err := p.analyzePage(ctx, i, roles[i])
		if err != nil {
			return nil, err
		}
		if pl != nil {
			layouts = append(layouts, pl)
		}
	}

	b := builder.New(p.builderConfig())
	for _, pl := range layouts {
		for _, para := range pl.Paragraphs {
			b.SampleFonts(para.Block)
		}
	}
	b.RegisterOutline(outlineEntries(p.doc.Outline()))
	for _, pl := range layouts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.buildPage(b, pl); err != nil {
			return nil, err
		}
	}

	start = time.Now()
	meta := metadataOf(p.doc.Info()).Merge(p.opts.metadata)
	doc := b.Build(builder.DocumentInfo{
		Metadata:  meta,
		Tagged:    p.doc.Tagged(),
		PageCount: len(indices),
	})
	stats := doc.Stats()
	p.record(StageBuild, -1, start, "%d paragraphs, %d tables, %d pictures", stats.Paragraphs, stats.Tables, stats.Pictures)

	start = time.Now()
	data, err := docx.Package(doc)
	if err != nil {
		return nil, &PackagingError{Err: err}
	}
	p.record(StagePackage, -1, start, "%d bytes", len(data))

	logging.Logger().Debug("conversion finished",
		"stage", StagePackage,
		"pages", len(indices),
		"paragraphs", stats.Paragraphs,
		"warnings", len(p.warnings))

	return &Result{
		Data:       data,
		Pages:      len(indices),
		Paragraphs: stats.Paragraphs,
		Words:      stats.Words,
		Lines:      stats.Lines,
		Tables:     stats.Tables,
		Images:     stats.Pictures,
		Trace:      p.trace,
		Warnings:   p.warnings,
	}, nil
}

// analyzePage interprets and analyzes one page. A page that cannot be read
// is skipped with a warning; only cancellation is an error.
func (p *pipeline) analyzePage(ctx context.Context, index int, roles map[int]string) (*layout.PageLayout, error) {
	start := time.Now()
	page, err := p.doc.Page(index)
	if err != nil {
		p.warn(StageInterpret, index, fmt.Errorf("page skipped: %w", err))
		return nil, nil
	}
	content, err := p.interp.Interpret(ctx, page)
	if err != nil {
		return nil, err
	}
	for _, issue := range p.interp.Issues() {
		p.warn(StageInterpret, issue.Page, &ResourceDecodeError{
			Page:     issue.Page,
			Resource: issue.Resource,
			Err:      issue.Err,
		})
	}
	content.Links, content.Annotations, content.Fields = p.doc.Annotations(page)
	if roles != nil {
		content.Roles = roles
	}
	p.record(StageInterpret, index, start, "%d glyphs, %d images, %d lines, %d paths",
		len(content.Glyphs), len(content.Images), len(content.Lines), len(content.Paths))

	start = time.Now()
	pl := p.analyzer.Analyze(content, nil)
	if p.recognizer != nil {
		p.recognize(content, pl)
	}
	p.record(StageAnalyze, index, start, "%d paragraphs, %d tables, %d equations, %d pictures, %d drawings",
		len(pl.Paragraphs), len(pl.Tables), len(pl.Equations), len(pl.Images), len(pl.Drawings))
	return pl, nil
}

// buildPage hands the placements of a page to the builder in reading order
func (p *pipeline) buildPage(b *builder.Builder, pl *layout.PageLayout) error {
	start := time.Now()
	b.BeginPage(builder.PageOf(pl))
	var fields []model.FormField
	flushFields := func() error {
		if len(fields) == 0 {
			return nil
		}
		err := b.AddFields(fields)
		fields = nil
		return err
	}
	for _, pc := range pl.Order {
		if pc.Kind != layout.PlaceField {
			if err := flushFields(); err != nil {
				return err
			}
		}
		var err error
		switch pc.Kind {
		case layout.PlaceParagraph:
			err = b.AddTextBlock(builder.FromParagraph(pl.Paragraphs[pc.Index]))
		case layout.PlaceTable:
			err = b.AddTable(pl.Tables[pc.Index])
		case layout.PlaceEquation:
			err = b.AddEquation(p.equation(pl.Page, pl.Equations[pc.Index]))
		case layout.PlacePicture:
			err = b.AddPicture(pictureOf(pl.Images[pc.Index]))
		case layout.PlaceDrawing:
			if pic := p.drawing(pl.Page, pc.Index, pl.Drawings[pc.Index]); pic != nil {
				err = b.AddPicture(pic)
			}
		case layout.PlaceField:
			fields = append(fields, pl.Fields[pc.Index])
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", pl.Page, err)
		}
	}
	if err := flushFields(); err != nil {
		return fmt.Errorf("page %d: %w", pl.Page, err)
	}
	b.EndPage()
	p.record(StageBuild, pl.Page, start, "%d placements", len(pl.Order))
	return nil
}

// pictureOf sizes an image by its placement on the page
func pictureOf(img model.Image) *ir.Picture {
	desc := img.Name
	if img.Placeholder {
		desc = "Image could not be decoded"
	}
	return &ir.Picture{
		Data:        img.Data,
		MIME:        img.MIME,
		Name:        img.Name,
		Description: desc,
		Width:       img.BBox.Width,
		Height:      img.BBox.Height,
		BBox:        img.BBox,
	}
}

// drawing rasterizes a group of vector pieces. Empty groups are dropped;
// a failed render is a warning.
func (p *pipeline) drawing(page, index int, d layout.Drawing) *ir.Picture {
	data, err := raster.RenderDrawing(raster.Drawing{BBox: d.BBox, Lines: d.Lines, Paths: d.Paths}, raster.DefaultDPI)
	if errors.Is(err, raster.ErrEmptyDrawing) {
		return nil
	}
	if err != nil {
		p.warn(StageBuild, page, fmt.Errorf("rendering drawing: %w", err))
		return nil
	}
	return &ir.Picture{
		Data:        data,
		MIME:        raster.MIMEPNG,
		Name:        fmt.Sprintf("drawing-%d-%d", page+1, index+1),
		Description: "Drawing",
		Width:       d.BBox.Width,
		Height:      d.BBox.Height,
		BBox:        d.BBox,
	}
}

// equation converts a block tagged as math. Embedded MathML and plain text
// both become OMML; an overlapping raster is kept as the fallback picture.
// With equation images requested, or when no text was extracted, the
// equation is rendered instead.
func (p *pipeline) equation(page int, eq layout.Equation) *ir.Equation {
	text := strings.TrimSpace(eq.Block.Text)
	out := &ir.Equation{Text: text, BBox: eq.Block.BBox}
	if mathml := extractMathML(text); mathml != "" {
		out.MathML = mathml
		omml, linear, err := mathMLToOMML(mathml)
		if err == nil {
			out.OMML, out.Text = omml, linear
		}
	}
	if out.OMML == "" && out.Text != "" {
		out.OMML = textOMML(out.Text)
	}
	out.Description = firstNonEmpty(out.Text, "Equation")
	if p.opts.equationImages {
		out.OMML = ""
	}

	switch {
	case eq.Image != nil:
		out.Picture = pictureOf(*eq.Image)
	case out.OMML != "":
	case out.Text != "":
		out.Picture = p.renderEquation(page, out.Text, eq.Block)
	case len(eq.Lines) > 0:
		out.Picture = p.drawing(page, 0, layout.Drawing{BBox: eq.Block.BBox, Lines: eq.Lines})
	}
	if out.Picture != nil {
		out.Picture.Description = out.Description
		if out.Picture.Name == "" {
			out.Picture.Name = "equation"
		}
	}
	return out
}

// renderEquation draws the linear text of an equation at the block's size
func (p *pipeline) renderEquation(page int, text string, blk model.TextBlock) *ir.Picture {
	data, w, h, err := raster.RenderText(text, blk.FontSize, raster.DefaultDPI)
	if err != nil {
		p.warn(StageBuild, page, fmt.Errorf("rendering equation: %w", err))
		return nil
	}
	scale := 72.0 / raster.DefaultDPI
	return &ir.Picture{
		Data:   data,
		MIME:   raster.MIMEPNG,
		Name:   "equation",
		Width:  math.Round(float64(w)*scale*100) / 100,
		Height: math.Round(float64(h)*scale*100) / 100,
		BBox:   blk.BBox,
	}
}

// outlineEntries converts the source outline for the builder
func outlineEntries(in []source.OutlineEntry) []builder.OutlineEntry {
	out := make([]builder.OutlineEntry, len(in))
	for i, e := range in {
		out[i] = builder.OutlineEntry{
			Title:  e.Title,
			Level:  e.Level,
			Page:   e.Page,
			Top:    e.Top,
			HasTop: e.HasTop,
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

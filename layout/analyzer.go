package layout

import (
	"math"
	"strings"

	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/tables"
)

// Equation is a math region kept together as one display element
type Equation struct {
	Block model.TextBlock

	// Image is a raster rendering that overlaps the equation, if any
	Image *model.Image

	// Lines are rules drawn inside the equation such as fraction bars
	Lines []model.Line
}

// PageLayout is the analyzed structure of one page
type PageLayout struct {
	Page     int
	Width    float64
	Height   float64
	Rotation int
	Margins  Margins
	Columns  ColumnLayout

	Paragraphs  []Paragraph
	Tables      []*tables.Table
	Equations   []Equation
	Images      []model.Image
	Drawings    []Drawing
	Fields      []model.FormField
	Links       []model.Link
	Annotations []model.Annotation

	// Order lists every element above in reading order
	Order []Placement
}

// AnalyzerConfig aggregates the configuration of every analysis step
type AnalyzerConfig struct {
	Line         LineConfig
	Paragraph    ParagraphConfig
	Column       ColumnConfig
	Margin       MarginConfig
	Alignment    AlignmentConfig
	Drawing      DrawingConfig
	ReadingOrder ReadingOrderConfig
	Tables       tables.Config

	// DetectTables enables the table passes (default: true)
	DetectTables bool
}

// DefaultAnalyzerConfig returns sensible default configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Line:         DefaultLineConfig(),
		Paragraph:    DefaultParagraphConfig(),
		Column:       DefaultColumnConfig(),
		Margin:       DefaultMarginConfig(),
		Alignment:    DefaultAlignmentConfig(),
		Drawing:      DefaultDrawingConfig(),
		ReadingOrder: DefaultReadingOrderConfig(),
		Tables:       tables.DefaultConfig(),
		DetectTables: true,
	}
}

// Analyzer turns the primitives of a page into a PageLayout
type Analyzer struct {
	config     AnalyzerConfig
	lines      *LineDetector
	paragraphs *ParagraphDetector
	columns    *ColumnDetector
	order      *ReadingOrderDetector
}

// NewAnalyzer creates an analyzer with default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{
		config:     config,
		lines:      NewLineDetectorWithConfig(config.Line),
		paragraphs: NewParagraphDetectorWithConfig(config.Paragraph),
		columns:    NewColumnDetectorWithConfig(config.Column),
		order:      NewReadingOrderDetectorWithConfig(config.ReadingOrder),
	}
}

var mathRoles = map[string]bool{"FORMULA": true, "MATH": true, "EQUATION": true}

// IsMathRole reports whether a structure role marks an equation
func IsMathRole(role string) bool {
	return mathRoles[strings.ToUpper(role)]
}

// Analyze runs line clustering, table detection, paragraph merging, column
// and margin estimation, vector grouping and reading order over one page.
// roles maps marked content ids to structure roles; when nil the page's own
// roles are used.
func (a *Analyzer) Analyze(content *model.PageContent, roles map[int]string) *PageLayout {
	if roles == nil {
		roles = content.Roles
	}
	out := &PageLayout{
		Page:        content.Index,
		Width:       content.Width,
		Height:      content.Height,
		Rotation:    content.Rotation,
		Fields:      content.Fields,
		Links:       content.Links,
		Annotations: content.Annotations,
	}

	// Step 1: line segments
	var segments []model.TextBlock
	for _, line := range a.lines.Detect(content.Glyphs) {
		for _, seg := range line.Segments {
			b := seg.Block(content.Index, roles)
			if strings.TrimSpace(b.Text) == "" {
				continue
			}
			segments = append(segments, b)
		}
	}

	// Step 2: underline rules
	lineUsed := markUnderlines(segments, content.Lines)

	// Step 3: tables over the segments
	var rules []model.Line
	var ruleIndex []int
	for i, l := range content.Lines {
		if !lineUsed[i] {
			rules = append(rules, l)
			ruleIndex = append(ruleIndex, i)
		}
	}
	segUsed := make(map[int]bool)
	if a.config.DetectTables {
		in := tables.Input{Blocks: segments, Lines: rules, PageWidth: content.Width}
		for _, d := range tables.Detect(in, a.config.Tables) {
			out.Tables = append(out.Tables, d.Table)
			for _, i := range d.Blocks {
				segUsed[i] = true
			}
			for _, i := range d.Lines {
				lineUsed[ruleIndex[i]] = true
			}
		}
	}

	// Step 4: paragraphs and equations
	var rest []model.TextBlock
	for i, s := range segments {
		if !segUsed[i] {
			rest = append(rest, s)
		}
	}
	imageUsed := make(map[int]bool)
	for _, p := range a.paragraphs.Detect(rest) {
		if !IsMathRole(p.Block.Role) {
			out.Paragraphs = append(out.Paragraphs, p)
			continue
		}
		eq := Equation{Block: p.Block}
		for i := range content.Images {
			if !imageUsed[i] && eq.Image == nil && content.Images[i].BBox.OverlapRatio(p.Block.BBox) >= 0.25 {
				img := content.Images[i]
				eq.Image = &img
				imageUsed[i] = true
			}
		}
		for i, l := range content.Lines {
			lb := l.BBox()
			if !lineUsed[i] && l.IsHorizontal(0.5) && lb.Width > 0 &&
				p.Block.BBox.Expand(1).HorizontalOverlap(lb) >= 0.5*lb.Width &&
				p.Block.BBox.Expand(1).Contains(lb.Center()) {
				eq.Lines = append(eq.Lines, l)
				lineUsed[i] = true
			}
		}
		out.Equations = append(out.Equations, eq)
	}
	for i, img := range content.Images {
		if !imageUsed[i] {
			out.Images = append(out.Images, img)
		}
	}

	// Step 5: margins and columns
	var boxes []model.BBox
	for _, p := range out.Paragraphs {
		boxes = append(boxes, p.Block.BBox)
	}
	for _, t := range out.Tables {
		boxes = append(boxes, t.BBox)
	}
	for _, img := range out.Images {
		boxes = append(boxes, img.BBox)
	}
	out.Margins = EstimateMargins(boxes, content.Width, content.Height, a.config.Margin)
	var paraBoxes []model.BBox
	for _, p := range out.Paragraphs {
		if !p.Block.Vertical {
			paraBoxes = append(paraBoxes, p.Block.BBox)
		}
	}
	out.Columns = a.columns.Detect(paraBoxes)
	a.placeParagraphs(out)

	// Step 6: backgrounds and drawings
	var paths []model.Path
	bgUsed := pathBackgrounds(out.Paragraphs, content.Paths, a.config.Drawing.BackgroundTolerance)
	for i, p := range content.Paths {
		if bgUsed[i] || insideTable(p.BBox(), out.Tables) {
			continue
		}
		paths = append(paths, p)
	}
	var lines []model.Line
	for i, l := range content.Lines {
		if !lineUsed[i] && !insideTable(l.BBox(), out.Tables) {
			lines = append(lines, l)
		}
	}
	out.Drawings = groupDrawings(lines, paths, content.Width*content.Height, a.config.Drawing)

	// Step 7: reading order
	out.Order = a.order.Order(placements(out), out.Columns)
	return out
}

// placeParagraphs sets column, alignment and indent on every paragraph. In
// multi-column layouts alignment is measured against the column.
func (a *Analyzer) placeParagraphs(out *PageLayout) {
	for i := range out.Paragraphs {
		p := &out.Paragraphs[i]
		b := p.Block.BBox
		m := out.Margins
		left := m.Left
		if out.Columns.Count > 1 {
			p.Column = out.Columns.ColumnOf(b.Left())
			colLeft, colRight := a.columnExtent(out, p.Column)
			left = colLeft
			m = Margins{Top: m.Top, Bottom: m.Bottom, Left: colLeft, Right: out.Width - colRight}
		}
		if p.Block.Vertical {
			p.Alignment = model.AlignLeft
		} else {
			p.Alignment = InferAlignment(p.Block, out.Width, m, a.config.Alignment)
		}
		if p.Alignment == model.AlignLeft || p.Alignment == model.AlignJustify {
			p.Indent = math.Max(0, b.Left()-left)
		}
	}
}

func (a *Analyzer) columnExtent(out *PageLayout, col int) (float64, float64) {
	cols := out.Columns
	left, right := out.Margins.Left, out.Width-out.Margins.Right
	if col > 0 {
		left = cols.Boundaries[col-1]
	}
	if col < len(cols.Boundaries) {
		right = cols.Boundaries[col] - cols.Spacing
	}
	return left, right
}

func insideTable(b model.BBox, ts []*tables.Table) bool {
	for _, t := range ts {
		if t.BBox.Expand(2).Contains(b.Center()) {
			return true
		}
	}
	return false
}

func placements(l *PageLayout) []Placement {
	var out []Placement
	for i, p := range l.Paragraphs {
		out = append(out, Placement{Kind: PlaceParagraph, Index: i, BBox: p.Block.BBox, Column: p.Column})
	}
	column := func(b model.BBox) int {
		if l.Columns.Count > 1 {
			return l.Columns.ColumnOf(b.Left())
		}
		return 0
	}
	for i, t := range l.Tables {
		out = append(out, Placement{Kind: PlaceTable, Index: i, BBox: t.BBox, Column: column(t.BBox)})
	}
	for i, e := range l.Equations {
		out = append(out, Placement{Kind: PlaceEquation, Index: i, BBox: e.Block.BBox, Column: column(e.Block.BBox)})
	}
	for i, img := range l.Images {
		out = append(out, Placement{Kind: PlacePicture, Index: i, BBox: img.BBox, Column: column(img.BBox)})
	}
	for i, d := range l.Drawings {
		out = append(out, Placement{Kind: PlaceDrawing, Index: i, BBox: d.BBox, Column: column(d.BBox)})
	}
	for i, f := range l.Fields {
		out = append(out, Placement{Kind: PlaceField, Index: i, BBox: f.BBox, Column: column(f.BBox)})
	}
	return out
}

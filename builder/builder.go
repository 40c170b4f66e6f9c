package builder

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/logging"
	"github.com/tsawler/pdf2docx/model"
	"github.com/tsawler/pdf2docx/tables"
)

// ErrNoSection is returned when content arrives before any page was begun
var ErrNoSection = errors.New("builder: no open section")

// State is the position of the builder in its lifecycle
type State int

const (
	StateNoSection State = iota
	StateSectionOpen
	StateParagraphPending
	StateFlushed
)

func (s State) String() string {
	switch s {
	case StateNoSection:
		return "NoSection"
	case StateSectionOpen:
		return "SectionOpen"
	case StateParagraphPending:
		return "ParagraphPending"
	case StateFlushed:
		return "Flushed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Geometry is the page setup shared by the pages of one section
type Geometry struct {
	Width         float64
	Height        float64
	Margins       ir.Margins
	Columns       int
	ColumnSpacing float64
}

// Orientation returns ir.Landscape for pages wider than tall
func (g Geometry) Orientation() string {
	if g.Width > g.Height {
		return ir.Landscape
	}
	return ir.Portrait
}

// UsableWidth is the width between the left and right margins
func (g Geometry) UsableWidth() float64 {
	return math.Max(0, g.Width-g.Margins.Left-g.Margins.Right)
}

// Equal reports whether o can continue the section of g: sizes within
// 0.5pt, margins within 6pt, the same column count, column spacing within
// 3pt and the same orientation
func (g Geometry) Equal(o Geometry) bool {
	near := func(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
	return near(g.Width, o.Width, 0.5) &&
		near(g.Height, o.Height, 0.5) &&
		near(g.Margins.Top, o.Margins.Top, 6) &&
		near(g.Margins.Bottom, o.Margins.Bottom, 6) &&
		near(g.Margins.Left, o.Margins.Left, 6) &&
		near(g.Margins.Right, o.Margins.Right, 6) &&
		columnCount(g.Columns) == columnCount(o.Columns) &&
		near(g.ColumnSpacing, o.ColumnSpacing, 3) &&
		g.Orientation() == o.Orientation()
}

func columnCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Page describes a page as it is opened
type Page struct {
	Index       int
	Geometry    Geometry
	Links       []model.Link
	Annotations []model.Annotation
}

// PageOf describes an analyzed page
func PageOf(pl *layout.PageLayout) Page {
	return Page{
		Index:       pl.Page,
		Geometry:    GeometryOf(pl),
		Links:       pl.Links,
		Annotations: pl.Annotations,
	}
}

// GeometryOf returns the section geometry of an analyzed page
func GeometryOf(pl *layout.PageLayout) Geometry {
	return Geometry{
		Width:  pl.Width,
		Height: pl.Height,
		Margins: ir.Margins{
			Top:    pl.Margins.Top,
			Bottom: pl.Margins.Bottom,
			Left:   pl.Margins.Left,
			Right:  pl.Margins.Right,
		},
		Columns:       columnCount(pl.Columns.Count),
		ColumnSpacing: pl.Columns.Spacing,
	}
}

// Block is a text block with the paragraph attributes inferred by layout
// analysis
type Block struct {
	model.TextBlock
	Alignment       model.Alignment
	Column          int
	Indent          float64
	FirstLineIndent float64
	Background      string

	// NewParagraph marks a block the analyzer already knows starts a
	// paragraph; it is never merged into the pending paragraph of the same
	// page. Continuation across a page break still applies.
	NewParagraph bool
}

// FromParagraph converts an analyzed paragraph into a builder block
func FromParagraph(p layout.Paragraph) Block {
	return Block{
		TextBlock:       p.Block,
		Alignment:       p.Alignment,
		Column:          p.Column,
		Indent:          p.Indent,
		FirstLineIndent: p.FirstLineIndent,
		Background:      p.Background,
		NewParagraph:    true,
	}
}

// Config holds configuration for the builder
type Config struct {
	Heading      layout.HeadingConfig
	List         layout.ListConfig
	HeaderFooter layout.HeaderFooterConfig
	Footnote     layout.FootnoteConfig
	Watermark    layout.WatermarkConfig

	// StripWhitespace collapses runs of whitespace inside paragraphs
	StripWhitespace bool

	// GenerateOutline derives an outline from heading paragraphs when the
	// source has none
	GenerateOutline bool

	// GenerateTOC inserts a table of contents at the start of the document
	GenerateTOC bool

	// FootnotesAsEndnotes collects matched notes as endnotes
	FootnotesAsEndnotes bool
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Heading:      layout.DefaultHeadingConfig(),
		List:         layout.DefaultListConfig(),
		HeaderFooter: layout.DefaultHeaderFooterConfig(),
		Footnote:     layout.DefaultFootnoteConfig(),
		Watermark:    layout.DefaultWatermarkConfig(),
	}
}

// DocumentInfo is document level data supplied at build time
type DocumentInfo struct {
	Metadata  ir.Metadata
	Tagged    bool
	PageCount int
}

// noteMarker is a superscript marker that may reference a footnote
type noteMarker struct {
	marker string
	para   ir.ParagraphID
	run    int
	used   bool
}

type pageState struct {
	index       int
	geometry    Geometry
	section     *ir.Section
	paragraphs  []ir.ParagraphID
	links       []model.Link
	annotations []model.Annotation
	markers     []*noteMarker
	firstSig    string // signature of the first text block
}

// Builder incrementally builds an ir.Document
type Builder struct {
	config Config
	doc    *ir.Document
	state  State

	section  *ir.Section
	geometry Geometry
	page     int
	emitted  int // last page ended, -1 before the first

	pending        ir.ParagraphID
	prev           *Block
	prevPage       int
	continueAcross bool
	pageBreak      bool
	columnBreak    bool
	columnsSeen    map[int]bool
	column         int

	headings *layout.HeadingClassifier
	lists    *layout.IndentStack

	pages     map[int]*pageState
	pageOrder []int
	detached  map[ir.ParagraphID]bool

	marks   marks
	outline []outlineMark
}

// New creates a builder
func New(config Config) *Builder {
	return &Builder{
		config:      config,
		doc:         ir.NewDocument(),
		page:        -1,
		emitted:     -1,
		prevPage:    -1,
		columnsSeen: make(map[int]bool),
		headings:    layout.NewHeadingClassifierWithConfig(config.Heading),
		lists:       layout.NewIndentStack(config.List),
		pages:       make(map[int]*pageState),
		detached:    make(map[ir.ParagraphID]bool),
		marks:       newMarks(),
	}
}

// State returns the current builder state
func (b *Builder) State() State {
	return b.state
}

// Document returns the document under construction
func (b *Builder) Document() *ir.Document {
	return b.doc
}

// SampleFonts primes the heading classifier with the text of blocks that
// will be added later, so early headings are measured against the body
// size of the whole document
func (b *Builder) SampleFonts(blocks ...model.TextBlock) {
	for _, blk := range blocks {
		b.headings.Observe(blk.FontSize, len([]rune(strings.TrimSpace(blk.Text))))
	}
}

// BeginPage opens a page, starting a section when its geometry differs
// from the current one
func (b *Builder) BeginPage(p Page) *ir.Section {
	b.page = p.Index
	ps := &pageState{
		index:       p.Index,
		geometry:    p.Geometry,
		links:       p.Links,
		annotations: p.Annotations,
	}
	if _, seen := b.pages[p.Index]; !seen {
		b.pageOrder = append(b.pageOrder, p.Index)
	}
	b.pages[p.Index] = ps
	ps.section = b.EnsureSection(p.Geometry)
	for _, l := range p.Links {
		if l.IsInternal() {
			b.registerDestination(b.marks.linkAnchor(l), l.DestPage, l.DestTop, true)
		}
	}
	return ps.section
}

// EnsureSection returns the open section when g matches its geometry and
// opens a new section otherwise
func (b *Builder) EnsureSection(g Geometry) *ir.Section {
	if b.section != nil && b.geometry.Equal(g) {
		b.pageBreak = b.emitted >= 0 && b.page != b.emitted
		b.columnBreak = false
		b.columnsSeen = make(map[int]bool)
		return b.section
	}
	b.flush(nil)
	b.lists.Reset()
	sec := &ir.Section{
		PageWidth:     g.Width,
		PageHeight:    g.Height,
		Margins:       g.Margins,
		Columns:       columnCount(g.Columns),
		ColumnSpacing: g.ColumnSpacing,
		Orientation:   g.Orientation(),
		StartPage:     b.page,
	}
	b.doc.Sections = append(b.doc.Sections, sec)
	b.section = sec
	b.geometry = g
	b.state = StateSectionOpen
	b.prev = nil
	b.prevPage = -1
	b.continueAcross = false
	b.pageBreak = false
	b.columnBreak = false
	b.columnsSeen = make(map[int]bool)
	logging.Logger().Debug("section opened",
		"stage", "build",
		"page", b.page,
		"width", g.Width,
		"height", g.Height,
		"columns", sec.Columns,
	)
	return sec
}

// AddTextBlock extends the pending paragraph with blk or starts a new one
func (b *Builder) AddTextBlock(blk Block) error {
	if b.section == nil {
		return ErrNoSection
	}
	runs := b.makeRuns(blk)
	content := runsText(runs)
	if strings.TrimSpace(content) == "" {
		b.lists.Reset()
		b.flush(nil)
		b.remember(blk)
		return nil
	}

	ps := b.pages[b.page]
	firstOnPage := ps != nil && ps.firstSig == ""
	if firstOnPage {
		ps.firstSig = layout.Signature(content, true)
	}
	if b.isMarginal(blk, content, firstOnPage) {
		b.sideParagraph(blk, runs)
		return nil
	}

	if b.section.Columns > 1 && !b.columnsSeen[blk.Column] {
		if len(b.columnsSeen) > 0 {
			b.columnBreak = true
		}
		b.columnsSeen[blk.Column] = true
	}

	style := b.headings.Classify(blk.Role, blk.FontSize, max(blk.Lines, 1))
	var marker *layout.ListMarker
	if style == layout.StyleNormal {
		if m, ok := layout.MatchMarker(content); ok {
			marker = &m
		} else if m, ok := layout.RoleMarker(blk.Role, content); ok {
			marker = &m
		}
	}

	if b.canContinue(blk, style, marker) {
		b.appendBlock(blk, runs)
	} else {
		b.flush(&blk)
		b.startParagraph(blk, runs, style, marker)
	}
	b.headings.Observe(blk.FontSize, len([]rune(strings.TrimSpace(content))))
	b.continueAcross = continuesAcrossPages(content, style)
	b.remember(blk)
	return nil
}

func (b *Builder) remember(blk Block) {
	cp := blk
	b.prev = &cp
	b.prevPage = b.page
}

// isMarginal reports whether blk is a running header or footer met while
// a paragraph may still continue on the next page: a short block in the
// bottom band below the pending paragraph, or a short block at the top of
// a new page repeating the first block of the previous page
func (b *Builder) isMarginal(blk Block, content string, firstOnPage bool) bool {
	if b.state != StateParagraphPending || !b.continueAcross || b.prev == nil || blk.Vertical {
		return false
	}
	g := b.geometry
	if blk.BBox.Width >= 0.6*g.UsableWidth()/float64(columnCount(g.Columns)) {
		return false
	}
	size := blk.FontSize
	if size <= 0 {
		size = 12
	}
	tol := math.Max(2*size, 24)
	if b.prevPage == b.page {
		gap := b.prev.BBox.Bottom() - blk.BBox.Top()
		return gap > 1.2*size && blk.BBox.Bottom() <= g.Margins.Bottom+tol
	}
	prev := b.pages[b.prevPage]
	return firstOnPage && prev != nil &&
		blk.BBox.Top() >= g.Height-g.Margins.Top-tol &&
		layout.Signature(content, true) == prev.firstSig
}

// sideParagraph adds blk as a paragraph of its own without disturbing the
// pending paragraph
func (b *Builder) sideParagraph(blk Block, runs []ir.Run) {
	trimLeadingSpace(runs)
	id := b.doc.NewParagraph(ir.Paragraph{
		Runs:      runs,
		Style:     layout.StyleNormal,
		Role:      blk.Role,
		Alignment: blk.Alignment,
		Bidi:      blk.RTL,
		Provenance: ir.Provenance{
			StartPage: b.page,
			EndPage:   b.page,
			BBox:      blk.BBox,
			Column:    blk.Column,
			FontSize:  blk.FontSize,
			Lines:     max(blk.Lines, 1),
		},
		LineSpacing: lineSpacing(blk.TextBlock),
	})
	b.section.Elements = append(b.section.Elements, id)
	b.register(id)
	b.applyLinks(id, 0, blk.TextBlock)
}

// canContinue decides whether blk extends the pending paragraph
func (b *Builder) canContinue(blk Block, style string, marker *layout.ListMarker) bool {
	if b.state != StateParagraphPending || b.prev == nil || marker != nil {
		return false
	}
	if blk.Vertical || b.prev.Vertical {
		return false
	}
	p := b.doc.Paragraph(b.pending)
	if blk.Role != "" && p.Role != "" && !strings.EqualFold(blk.Role, p.Role) {
		return false
	}
	if style != p.Style && !(p.Numbering != nil && style == layout.StyleNormal) {
		return false
	}
	size := blk.FontSize
	if size <= 0 {
		size = b.prev.FontSize
	}
	if size <= 0 {
		size = 12
	}
	if b.prevPage == b.page {
		if blk.NewParagraph {
			return false
		}
		if b.section.Columns > 1 && blk.Column != b.prev.Column {
			return false
		}
		gap := b.prev.BBox.Bottom() - blk.BBox.Top()
		return gap <= 1.2*size
	}
	if !b.continueAcross {
		return false
	}
	prevGeom := b.geometry
	if ps := b.pages[b.prevPage]; ps != nil {
		prevGeom = ps.geometry
	}
	tol := math.Max(2*size, 24)
	nearBottom := b.prev.BBox.Bottom() <= prevGeom.Margins.Bottom+tol
	nearTop := blk.BBox.Top() >= b.geometry.Height-b.geometry.Margins.Top-tol
	return nearBottom && nearTop
}

// continuesAcrossPages reports whether a paragraph ending in text may
// continue on the next page
func continuesAcrossPages(text, style string) bool {
	if layout.HeadingLevel(style) > 0 || style == layout.StyleSubtitle || style == layout.StyleCaption {
		return false
	}
	t := strings.TrimRight(text, " \t \"'”’)]")
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '.', '!', '?', ':', ';':
		return false
	}
	return !strings.HasSuffix(t, "…")
}

func (b *Builder) startParagraph(blk Block, runs []ir.Run, style string, marker *layout.ListMarker) {
	p := ir.Paragraph{
		Runs:       runs,
		Style:      style,
		Role:       blk.Role,
		Alignment:  blk.Alignment,
		Bidi:       blk.RTL,
		Background: blk.Background,
		Provenance: ir.Provenance{
			StartPage: b.page,
			EndPage:   b.page,
			BBox:      blk.BBox,
			Column:    blk.Column,
			FontSize:  blk.FontSize,
			Lines:     max(blk.Lines, 1),
		},
	}
	if marker != nil {
		trimPrefix(p.Runs, len(runsText(p.Runs))-len(marker.Rest))
		format := marker.Format
		kind := ir.NumberingBullet
		if marker.Kind == layout.ListOrdered {
			kind = ir.NumberingOrdered
			if format == "" {
				format = layout.FormatDecimal
			}
		}
		p.Numbering = &ir.Numbering{
			Kind:        kind,
			Format:      format,
			Punctuation: marker.Punctuation,
			Marker:      marker.Marker,
			Indent:      blk.Indent,
			Level:       b.lists.Level(blk.Indent, format+":"+marker.Punctuation),
		}
		p.Style = layout.StyleList
	} else {
		b.lists.Reset()
		p.LeftIndent = blk.Indent
		if blk.FirstLineIndent < 0 {
			p.HangingIndent = -blk.FirstLineIndent
		} else {
			p.FirstLineIndent = blk.FirstLineIndent
		}
	}
	trimLeadingSpace(p.Runs)

	size := blk.FontSize
	if size <= 0 {
		size = 12
	}
	if b.prev != nil && b.prevPage == b.page {
		if gap := b.prev.BBox.Bottom() - blk.BBox.Top(); gap > 0.5*size {
			p.SpacingBefore = gap
		}
	}
	p.LineSpacing = lineSpacing(blk.TextBlock)
	if layout.HeadingLevel(p.Style) > 0 || p.Style == layout.StyleSubtitle {
		p.KeepLines = true
		p.KeepWithNext = true
	}
	if b.pageBreak {
		p.PageBreakBefore = true
		b.pageBreak = false
	}
	if b.columnBreak {
		p.ColumnBreakBefore = true
		b.columnBreak = false
	}

	id := b.doc.NewParagraph(p)
	b.pending = id
	b.state = StateParagraphPending
	b.column = blk.Column
	b.afterRuns(id, 0, blk)
}

func (b *Builder) appendBlock(blk Block, runs []ir.Run) {
	p := b.doc.Paragraph(b.pending)
	if last := lastTextRun(p.Runs); last != nil && !last.Vertical && !blk.Vertical {
		next := runsText(runs)
		if strings.HasSuffix(last.Text, "-") && startsLower(next) {
			last.Text = strings.TrimSuffix(last.Text, "-")
		} else if last.Text != "" && !strings.HasSuffix(last.Text, " ") && !strings.HasPrefix(next, " ") {
			last.Text += " "
		}
	}
	if b.pageBreak && p.Provenance.EndPage != b.page {
		p.Runs = append(p.Runs, ir.Run{Break: ir.BreakPage})
		b.pageBreak = false
	}
	if b.columnBreak && blk.Column != b.column {
		p.Runs = append(p.Runs, ir.Run{Break: ir.BreakColumn})
		b.columnBreak = false
	}
	offset := len(p.Runs)
	p.Runs = append(p.Runs, runs...)
	p.Bidi = p.Bidi || blk.RTL
	if p.Background == "" {
		p.Background = blk.Background
	}
	if b.page != p.Provenance.StartPage {
		p.Provenance.Continuation = true
	}
	p.Provenance.EndPage = b.page
	p.Provenance.BBox = p.Provenance.BBox.Union(blk.BBox)
	p.Provenance.Lines += max(blk.Lines, 1)
	b.column = blk.Column
	b.afterRuns(b.pending, offset, blk)
}

// afterRuns attaches bookmarks, links and footnote markers for the runs of
// blk that start at offset in paragraph id
func (b *Builder) afterRuns(id ir.ParagraphID, offset int, blk Block) {
	b.attachPendingBookmarks(id, blk.BBox)
	b.applyLinks(id, offset, blk.TextBlock)
	ps := b.pages[b.page]
	if ps == nil {
		return
	}
	found := layout.ScriptMarkers(blk.TextBlock)
	idx := make([]int, 0, len(found))
	for i := range found {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		ps.markers = append(ps.markers, &noteMarker{marker: found[i], para: id, run: offset + i})
	}
}

// flush appends the pending paragraph to the section. next is the block
// that follows it, nil at a page, section or element boundary.
func (b *Builder) flush(next *Block) {
	if b.state != StateParagraphPending {
		return
	}
	p := b.doc.Paragraph(b.pending)
	if p.SpacingAfter == 0 && (next == nil || b.prevPage != b.page) {
		size := p.Provenance.FontSize
		if b.prev != nil && b.prev.FontSize > 0 {
			size = b.prev.FontSize
		}
		if size <= 0 {
			size = 12
		}
		p.SpacingAfter = 0.6 * size
	}
	if b.config.StripWhitespace {
		if last := lastTextRun(p.Runs); last != nil {
			last.Text = strings.TrimRight(last.Text, " \t")
		}
	}
	b.section.Elements = append(b.section.Elements, b.pending)
	b.register(b.pending)
	b.continueAcross = false
	b.state = StateFlushed
}

// register records a body paragraph on every page it covers
func (b *Builder) register(id ir.ParagraphID) {
	p := b.doc.Paragraph(id)
	for pg := p.Provenance.StartPage; pg <= p.Provenance.EndPage; pg++ {
		if ps := b.pages[pg]; ps != nil {
			ps.paragraphs = append(ps.paragraphs, id)
		}
	}
}

// EndPage closes the current page. The pending paragraph stays open when
// it may continue on the next page.
func (b *Builder) EndPage() {
	if !b.continueAcross {
		b.flush(nil)
		b.prev = nil
		b.prevPage = -1
	}
	b.emitted = b.page
}

// AddTable converts and appends a detected table
func (b *Builder) AddTable(t *tables.Table) error {
	if b.section == nil {
		return ErrNoSection
	}
	return b.addElement(b.convertTable(t), t.BBox)
}

// AddPicture appends a picture placed on the current page
func (b *Builder) AddPicture(p *ir.Picture) error {
	p.Page = b.page
	return b.addElement(p, p.BBox)
}

// AddEquation appends an equation placed on the current page
func (b *Builder) AddEquation(e *ir.Equation) error {
	e.Page = b.page
	if e.Picture != nil {
		e.Picture.Page = b.page
	}
	return b.addElement(e, e.BBox)
}

func (b *Builder) addElement(e ir.Element, box model.BBox) error {
	if b.section == nil {
		return ErrNoSection
	}
	b.flush(nil)
	b.emitBreaks()
	b.section.Elements = append(b.section.Elements, e)
	b.lists.Reset()
	b.continueAcross = false
	b.state = StateFlushed
	// The element bottom is the reference for the spacing of the next
	// paragraph.
	b.prev = &Block{TextBlock: model.TextBlock{BBox: box}, NewParagraph: true}
	b.prevPage = b.page
	return nil
}

// emitBreaks carries pending breaks in an empty marker paragraph
func (b *Builder) emitBreaks() {
	if !b.pageBreak && !b.columnBreak {
		return
	}
	id := b.doc.NewParagraph(ir.Paragraph{
		PageBreakBefore:   b.pageBreak,
		ColumnBreakBefore: b.columnBreak,
		Provenance:        ir.Provenance{StartPage: b.page, EndPage: b.page, Generated: true},
	})
	b.section.Elements = append(b.section.Elements, id)
	b.pageBreak = false
	b.columnBreak = false
}

// Build flushes pending content, runs the document passes and returns the
// finished document
func (b *Builder) Build(info DocumentInfo) *ir.Document {
	if b.section != nil {
		b.flush(nil)
	}
	b.doc.Metadata = info.Metadata
	b.doc.Tagged = info.Tagged
	b.doc.PageCount = info.PageCount
	if b.doc.PageCount == 0 {
		b.doc.PageCount = len(b.pageOrder)
	}

	b.markWatermarks()
	b.promoteRegions()
	b.matchNotes()
	b.attachComments()
	b.rehomeBookmarks()
	b.placeRemainingBookmarks()
	b.finishOutline()
	b.clearDanglingAnchors()

	logging.Logger().Debug("document built",
		"stage", "build",
		"sections", len(b.doc.Sections),
		"footnotes", len(b.doc.Footnotes),
		"endnotes", len(b.doc.Endnotes),
		"comments", len(b.doc.Comments),
	)
	return b.doc
}

// detach removes paragraphs from the body and remembers them as relocated
func (b *Builder) detach(ids ...ir.ParagraphID) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		b.detached[id] = true
	}
	b.doc.Detach(ids...)
}

// pageParagraphs returns the body paragraphs that start and end on page
func (b *Builder) pageParagraphs(page int) []ir.ParagraphID {
	ps := b.pages[page]
	if ps == nil {
		return nil
	}
	var out []ir.ParagraphID
	for _, id := range ps.paragraphs {
		p := b.doc.Paragraph(id)
		if b.detached[id] || p.IsMarker() {
			continue
		}
		if p.Provenance.StartPage == page && p.Provenance.EndPage == page {
			out = append(out, id)
		}
	}
	return out
}

// lineSpacing derives a line spacing multiple from the block height
func lineSpacing(b model.TextBlock) float64 {
	lines := max(b.Lines, 1)
	if b.FontSize <= 0 || b.BBox.Height <= 0 {
		return 1.2
	}
	ratio := b.BBox.Height / b.FontSize / float64(lines)
	ratio = math.Max(1, math.Min(ratio, 2.5))
	return math.Round(ratio*100) / 100
}

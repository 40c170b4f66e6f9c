package model

import (
	"fmt"
	"math"
)

// Color is an RGB color with components in [0, 1]
type Color struct {
	R, G, B float64
}

// Black is the default fill and stroke color
var Black = Color{}

// Gray returns a gray level color
func Gray(g float64) Color {
	return Color{R: g, G: g, B: g}
}

// CMYK converts a naive CMYK color to RGB
func CMYK(c, m, y, k float64) Color {
	return Color{
		R: (1 - math.Min(1, c)) * (1 - k),
		G: (1 - math.Min(1, m)) * (1 - k),
		B: (1 - math.Min(1, y)) * (1 - k),
	}
}

// Hex renders the color as RRGGBB
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// IsBlack reports whether the color is black
func (c Color) IsBlack() bool {
	return channel(c.R) == 0 && channel(c.G) == 0 && channel(c.B) == 0
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Glyph is one decoded text chunk placed on the page. Show operators are
// split into glyphs per character code so spacing survives; X and Y are the
// baseline origin in page space.
type Glyph struct {
	Text     string
	X, Y     float64
	Width    float64 // advance along the baseline in page space
	Size     float64 // effective font size after all transforms
	FontName string
	Bold     bool
	Italic   bool
	Color    Color
	Vertical bool
	Rotation float64 // baseline angle in degrees
	MCID     int     // marked content id, -1 outside marked content
}

// BBox approximates the glyph box from its advance and size
func (g Glyph) BBox() BBox {
	if g.Vertical {
		return NewBBox(g.X-g.Size/2, g.Y-g.Width, g.Size, g.Width)
	}
	return NewBBox(g.X, g.Y-0.2*g.Size, g.Width, g.Size)
}

// Span is a run of uniformly styled text inside a TextBlock
type Span struct {
	Text        string
	BBox        BBox
	FontName    string
	FontSize    float64
	Bold        bool
	Italic      bool
	Underline   bool
	Color       Color
	Superscript bool
	Subscript   bool
}

// TextBlock is clustered text: a line segment or a merged paragraph
type TextBlock struct {
	Text      string
	BBox      BBox
	FontName  string
	FontSize  float64
	Bold      bool
	Italic    bool
	Underline bool
	Role      string // tagged PDF role, "" when untagged
	Color     Color
	RTL       bool
	Vertical  bool
	Spans     []Span
	Page      int
	Lines     int // number of text lines merged into the block
}

// Image is a raster placed on the page
type Image struct {
	Data        []byte
	BBox        BBox
	MIME        string
	Name        string
	PixelWidth  int
	PixelHeight int
	Placeholder bool // true when the source could not be decoded
}

// Line is a straight stroked segment, typically a table rule
type Line struct {
	Start, End Point
	Width      float64
	Color      Color
}

// IsHorizontal reports whether the line is horizontal within tol
func (l Line) IsHorizontal(tol float64) bool {
	return math.Abs(l.End.Y-l.Start.Y) <= tol && math.Abs(l.End.X-l.Start.X) > tol
}

// IsVertical reports whether the line is vertical within tol
func (l Line) IsVertical(tol float64) bool {
	return math.Abs(l.End.X-l.Start.X) <= tol && math.Abs(l.End.Y-l.Start.Y) > tol
}

// Length returns the line length
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// BBox returns the bounds of the line
func (l Line) BBox() BBox {
	return BBoxOf(l.Start, l.End)
}

// Path is a painted vector path with curves already flattened
type Path struct {
	Subpaths    [][]Point
	Fill        bool
	Stroke      bool
	EvenOdd     bool
	FillColor   Color
	StrokeColor Color
	LineWidth   float64
	IsRect      bool
}

// BBox returns the bounds of every subpath point
func (p Path) BBox() BBox {
	var pts []Point
	for _, sp := range p.Subpaths {
		pts = append(pts, sp...)
	}
	return BBoxOf(pts...)
}

// FieldKind classifies interactive form fields
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldCheckbox  FieldKind = "checkbox"
	FieldRadio     FieldKind = "radio"
	FieldDropdown  FieldKind = "dropdown"
	FieldSignature FieldKind = "signature"
	FieldButton    FieldKind = "button"
)

// FormField is an AcroForm widget on a page
type FormField struct {
	Name      string
	Label     string
	Kind      FieldKind
	Value     string
	Checked   bool
	Options   []string
	Tooltip   string
	ReadOnly  bool
	Multiline bool
	BBox      BBox
	Page      int
}

// Link is a link annotation. External links carry a URI; internal links
// carry a destination page (zero-based) and the y of the target.
type Link struct {
	BBox     BBox
	URI      string
	DestPage int // -1 when external
	DestTop  float64
	Tooltip  string
}

// IsInternal reports whether the link targets a page of the document
func (l Link) IsInternal() bool {
	return l.URI == "" && l.DestPage >= 0
}

// Annotation is a markup annotation such as a sticky note
type Annotation struct {
	Subtype string
	Text    string
	Author  string
	BBox    BBox
}

// PageContent bundles everything drawn on one page
type PageContent struct {
	Index       int
	Width       float64
	Height      float64
	Rotation    int
	Glyphs      []Glyph
	Images      []Image
	Lines       []Line
	Paths       []Path
	Links       []Link
	Annotations []Annotation
	Fields      []FormField
	Roles       map[int]string // MCID to structure role
}

// Role returns the structure role for a marked content id
func (p *PageContent) Role(mcid int) string {
	if mcid < 0 || p.Roles == nil {
		return ""
	}
	return p.Roles[mcid]
}

// HasText reports whether any non-blank glyph was drawn
func (p *PageContent) HasText() bool {
	for _, g := range p.Glyphs {
		for _, r := range g.Text {
			if r != ' ' && r != '\t' && r != '\u00a0' {
				return true
			}
		}
	}
	return false
}

// Alignment is a horizontal paragraph or cell alignment. Values match the
// WordprocessingML jc vocabulary.
type Alignment string

const (
	AlignNone    Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/tsawler/pdf2docx/model"
)

// DefaultDPI is the resolution drawings are rasterized at
const DefaultDPI = 150

// maxDrawingSide bounds the rasterized drawing in pixels
const maxDrawingSide = 4000

// ErrEmptyDrawing is returned when there is nothing inside the box
var ErrEmptyDrawing = errors.New("empty drawing")

// Drawing is a group of vector primitives rendered as one picture
type Drawing struct {
	BBox  model.BBox // page space, y up
	Lines []model.Line
	Paths []model.Path
}

// RenderDrawing rasterizes d at dpi onto a transparent PNG
func RenderDrawing(d Drawing, dpi float64) ([]byte, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if d.BBox.Width <= 0 || d.BBox.Height <= 0 || (len(d.Lines) == 0 && len(d.Paths) == 0) {
		return nil, ErrEmptyDrawing
	}
	k := dpi / 72
	if side := math.Max(d.BBox.Width, d.BBox.Height) * k; side > maxDrawingSide {
		k *= maxDrawingSide / side
	}
	w := int(math.Ceil(d.BBox.Width*k)) + 2
	h := int(math.Ceil(d.BBox.Height*k)) + 2

	c := &canvas{
		dst: image.NewRGBA(image.Rect(0, 0, w, h)),
		k:   k,
		box: d.BBox,
	}
	for _, p := range d.Paths {
		if p.Fill {
			c.fill(p.Subpaths, p.FillColor)
		}
		if p.Stroke {
			for _, sp := range p.Subpaths {
				for i := 1; i < len(sp); i++ {
					c.stroke(sp[i-1], sp[i], p.LineWidth, p.StrokeColor)
				}
			}
		}
	}
	for _, l := range d.Lines {
		c.stroke(l.Start, l.End, l.Width, l.Color)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.dst); err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}
	return buf.Bytes(), nil
}

// canvas maps page space into the raster: x grows right, y flips
type canvas struct {
	dst *image.RGBA
	k   float64
	box model.BBox
}

func (c *canvas) pt(p model.Point) (float32, float32) {
	x := (p.X-c.box.X)*c.k + 1
	y := (c.box.Top()-p.Y)*c.k + 1
	return float32(x), float32(y)
}

func (c *canvas) fill(subpaths [][]model.Point, col model.Color) {
	b := c.dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, sp := range subpaths {
		if len(sp) < 3 {
			continue
		}
		x, y := c.pt(sp[0])
		z.MoveTo(x, y)
		for _, p := range sp[1:] {
			x, y = c.pt(p)
			z.LineTo(x, y)
		}
		z.ClosePath()
	}
	z.Draw(c.dst, b, image.NewUniform(rgba(col)), image.Point{})
}

// stroke draws a segment as a quad of the scaled width, at least one pixel
func (c *canvas) stroke(a, b model.Point, width float64, col model.Color) {
	x0, y0 := c.pt(a)
	x1, y1 := c.pt(b)
	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := math.Max(width*c.k, 1) / 2
	nx, ny := float32(-dy/length*half), float32(dx/length*half)

	bounds := c.dst.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
	z.Draw(c.dst, bounds, image.NewUniform(rgba(col)), image.Point{})
}

func rgba(c model.Color) color.RGBA {
	ch := func(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}

package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularOnce sync.Once
	regularFont *truetype.Font
	regularErr  error
)

func goRegular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = truetype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// RenderText draws text in black on a transparent background with the Go
// regular font. size is in points, rendered at dpi. It returns the PNG and
// its pixel dimensions.
func RenderText(text string, size, dpi float64) ([]byte, int, int, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if size <= 0 {
		size = 12
	}
	f, err := goRegular()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load fallback font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
	defer face.Close()
	metrics := face.Metrics()
	advance := font.MeasureString(face, text).Ceil()
	pad := int(math.Ceil(size * dpi / 72 / 4))

	w := max(advance+2*pad, 1)
	h := (metrics.Ascent + metrics.Descent).Ceil() + 2*pad
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	c := freetype.NewContext()
	c.SetDPI(dpi)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.Black)
	c.SetHinting(font.HintingFull)
	pt := freetype.Pt(pad, pad+metrics.Ascent.Ceil())
	if _, err := c.DrawString(text, pt); err != nil {
		return nil, 0, 0, fmt.Errorf("draw text: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, fmt.Errorf("encode text: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

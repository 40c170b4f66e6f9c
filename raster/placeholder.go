package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/tsawler/pdf2docx/model"
)

// Placeholder returns a light gray box with a darker border and diagonal
// cross, standing in for an image that could not be decoded. The raster is
// at most 64 pixels on its long side; the picture keeps the aspect ratio.
func Placeholder(w, h int) model.Image {
	pw, ph := placeholderSize(w, h)
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}}, image.Point{}, draw.Src)

	edge := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	for x := 0; x < pw; x++ {
		img.SetRGBA(x, 0, edge)
		img.SetRGBA(x, ph-1, edge)
	}
	for y := 0; y < ph; y++ {
		img.SetRGBA(0, y, edge)
		img.SetRGBA(pw-1, y, edge)
	}
	for i := 0; i < pw; i++ {
		y := i * (ph - 1) / max(pw-1, 1)
		img.SetRGBA(i, y, edge)
		img.SetRGBA(i, ph-1-y, edge)
	}

	var buf bytes.Buffer
	// encoding an in-memory RGBA image cannot fail
	_ = png.Encode(&buf, img)
	return model.Image{
		Data:        buf.Bytes(),
		MIME:        MIMEPNG,
		PixelWidth:  pw,
		PixelHeight: ph,
		Placeholder: true,
	}
}

func placeholderSize(w, h int) (int, int) {
	const side = 64
	if w <= 0 || h <= 0 {
		return side, side
	}
	if w >= h {
		return side, max(2, side*h/w)
	}
	return max(2, side*w/h), side
}

package raster

import (
	"fmt"
	"image"
	"image/color"
)

// sampleReader reads packed samples of 1 to 16 bits, MSB first. Rows start
// on byte boundaries.
type sampleReader struct {
	data []byte
	bpc  int
	bit  int
}

func (s *sampleReader) next() (int, bool) {
	if s.bpc == 16 {
		i := s.bit / 8
		if i+1 >= len(s.data) {
			return 0, false
		}
		s.bit += 16
		return int(s.data[i]), true
	}
	i := s.bit / 8
	if i >= len(s.data) {
		return 0, false
	}
	shift := 8 - s.bpc - s.bit%8
	v := int(s.data[i]>>uint(shift)) & (1<<uint(s.bpc) - 1)
	s.bit += s.bpc
	return v, true
}

// alignRow skips to the next byte boundary
func (s *sampleReader) alignRow() {
	if r := s.bit % 8; r != 0 {
		s.bit += 8 - r
	}
}

// scale maps a raw sample to 0..255
func scale(v, bpc int) uint8 {
	switch bpc {
	case 1:
		return uint8(v * 255)
	case 2:
		return uint8(v * 85)
	case 4:
		return uint8(v * 17)
	}
	return uint8(v)
}

// samples converts unpacked sample data into an image in cs
func samples(data []byte, w, h, bpc int, cs *colorSpace, invert bool) (image.Image, error) {
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("%w: %d bits per component", ErrUnsupported, bpc)
	}
	need := (w*cs.components*bpc + 7) / 8 * h
	if len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTruncated, len(data), need)
	}

	r := &sampleReader{data: data, bpc: bpc}
	px := make([]int, cs.components)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for i := range px {
				px[i], _ = r.next()
			}
			out.SetNRGBA(x, y, cs.pixel(px, bpc, invert))
		}
		r.alignRow()
	}
	return out, nil
}

func (cs *colorSpace) pixel(px []int, bpc int, invert bool) color.NRGBA {
	if cs.family == "Indexed" {
		idx := px[0]
		if idx > cs.hival {
			idx = cs.hival
		}
		n := cs.base.components
		start := idx * n
		if start+n > len(cs.lookup) {
			return color.NRGBA{A: 255}
		}
		comps := make([]int, n)
		for i := range comps {
			comps[i] = int(cs.lookup[start+i])
		}
		return cs.base.pixel(comps, 8, false)
	}

	v := func(i int) uint8 {
		s := scale(px[i], bpc)
		if invert {
			s = 255 - s
		}
		return s
	}
	switch cs.family {
	case "DeviceRGB":
		return color.NRGBA{R: v(0), G: v(1), B: v(2), A: 255}
	case "DeviceCMYK":
		r, g, b := color.CMYKToRGB(v(0), v(1), v(2), v(3))
		return color.NRGBA{R: r, G: g, B: b, A: 255}
	case "Separation":
		// tint 1 is full ink
		g := 255 - v(0)
		return color.NRGBA{R: g, G: g, B: g, A: 255}
	}
	g := v(0)
	return color.NRGBA{R: g, G: g, B: g, A: 255}
}

// stencil renders an image mask: painted samples are black, the rest
// transparent. Sample 0 paints unless the decode array is inverted.
func stencil(data []byte, w, h int, invert bool) image.Image {
	r := &sampleReader{data: data, bpc: 1}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v, _ := r.next()
			if (v == 0) != invert {
				out.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
		r.alignRow()
	}
	return out
}

package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/internal/filters"
	"github.com/tsawler/pdf2docx/model"
)

// MIME types of the pictures this package produces
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

// maxPixels bounds decoded image size
const maxPixels = 1 << 26

var (
	// ErrUnsupported reports image data this package cannot decode
	ErrUnsupported = errors.New("unsupported image")

	// ErrTruncated reports sample data shorter than the image geometry
	ErrTruncated = errors.New("image data truncated")
)

// colorSpace is a resolved image color space
type colorSpace struct {
	family     string // DeviceGray, DeviceRGB, DeviceCMYK, Indexed or Separation
	components int
	base       *colorSpace // Indexed base
	hival      int
	lookup     []byte
}

// Decoder decodes image XObjects and inline images
type Decoder struct {
	r core.Resolver
}

// NewDecoder returns a decoder reading referenced objects through r
func NewDecoder(r core.Resolver) *Decoder {
	return &Decoder{r: r}
}

// Image decodes an image XObject. On failure the returned image is a
// placeholder of the declared size and err explains why.
func (d *Decoder) Image(name string, stream *core.Stream) (model.Image, error) {
	img, err := d.decodeStream(stream)
	img.Name = name
	return img, err
}

func (d *Decoder) decodeStream(stream *core.Stream) (model.Image, error) {
	dict := stream.Dict
	width, _ := core.ResolveNumber(d.r, dict.Get("Width"))
	height, _ := core.ResolveNumber(d.r, dict.Get("Height"))
	w, h := int(width), int(height)
	if w <= 0 || h <= 0 || w*h > maxPixels {
		return Placeholder(w, h), fmt.Errorf("%w: bad dimensions %dx%d", ErrUnsupported, w, h)
	}

	data, codec, err := stream.DecodeImage()
	if err != nil {
		return Placeholder(w, h), fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return d.build(dict, data, codec, w, h, false)
}

// Inline decodes an inline image. Its dictionary may use abbreviated
// keys and names a color space either directly or through resources.
func (d *Decoder) Inline(dict core.Dict, data []byte, resources core.Dict) (model.Image, error) {
	full := expandInline(dict)
	width, _ := full.Number("Width")
	height, _ := full.Number("Height")
	w, h := int(width), int(height)
	if w <= 0 || h <= 0 || w*h > maxPixels {
		return Placeholder(w, h), fmt.Errorf("%w: bad inline dimensions %dx%d", ErrUnsupported, w, h)
	}

	if name, ok := full.Name("ColorSpace"); ok && !isDeviceSpace(name) {
		if spaces, ok := core.ResolveDict(d.r, resources.Get("ColorSpace")); ok && spaces.Has(name) {
			full["ColorSpace"] = spaces.Get(name)
		}
	}

	names, params := core.InlineImageFilters(dict)
	decoded, codec, err := filters.DecodeChain(names, params, data)
	if err != nil && !errors.Is(err, filters.ErrPassthrough) {
		return Placeholder(w, h), fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return d.build(full, decoded, codec, w, h, true)
}

func (d *Decoder) build(dict core.Dict, data []byte, codec string, w, h int, inline bool) (model.Image, error) {
	switch codec {
	case "DCTDecode":
		return d.jpeg(dict, data, w, h)
	case "JPXDecode":
		return Placeholder(w, h), fmt.Errorf("%w: JPEG 2000", ErrUnsupported)
	}

	bpc := 8
	if v, ok := core.ResolveNumber(d.r, dict.Get("BitsPerComponent")); ok {
		bpc = int(v)
	}

	if mask, _ := dict.Get("ImageMask").(core.Bool); bool(mask) {
		return encodePNG(stencil(data, w, h, decodeInverted(d.r, dict)), w, h)
	}
	if codec == "" && isCCITT(dict) {
		bpc = 1
	}

	cs, err := d.colorSpace(dict.Get("ColorSpace"), 0)
	if err != nil {
		return Placeholder(w, h), err
	}
	img, err := samples(data, w, h, bpc, cs, decodeInverted(d.r, dict))
	if err != nil {
		return Placeholder(w, h), err
	}
	return encodePNG(img, w, h)
}

// jpeg passes gray and RGB JPEG data through and re-encodes CMYK data,
// which word processors render with inverted colors.
func (d *Decoder) jpeg(dict core.Dict, data []byte, w, h int) (model.Image, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Placeholder(w, h), fmt.Errorf("%w: jpeg: %v", ErrUnsupported, err)
	}
	if cfg.ColorModel != color.CMYKModel {
		return model.Image{Data: data, MIME: MIMEJPEG, PixelWidth: cfg.Width, PixelHeight: cfg.Height}, nil
	}
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return Placeholder(w, h), fmt.Errorf("%w: jpeg: %v", ErrUnsupported, err)
	}
	if decodeInverted(d.r, dict) {
		src = invertCMYK(src)
	}
	return encodePNG(src, cfg.Width, cfg.Height)
}

// invertCMYK undoes the inverted CMYK that Adobe producers write
func invertCMYK(src image.Image) image.Image {
	c, ok := src.(*image.CMYK)
	if !ok {
		return src
	}
	for i := range c.Pix {
		c.Pix[i] = 255 - c.Pix[i]
	}
	return c
}

func encodePNG(img image.Image, w, h int) (model.Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Placeholder(w, h), fmt.Errorf("encode png: %w", err)
	}
	return model.Image{Data: buf.Bytes(), MIME: MIMEPNG, PixelWidth: w, PixelHeight: h}, nil
}

func isCCITT(dict core.Dict) bool {
	names, _ := core.InlineImageFilters(dict)
	for _, n := range names {
		if filters.CanonicalName(n) == "CCITTFaxDecode" {
			return true
		}
	}
	return false
}

// decodeInverted reports a /Decode array of the form [1 0 ...]
func decodeInverted(r core.Resolver, dict core.Dict) bool {
	arr, ok := core.ResolveNumbers(r, dict.Get("Decode"))
	return ok && len(arr) >= 2 && arr[0] > arr[1]
}

func isDeviceSpace(name string) bool {
	switch name {
	case "DeviceGray", "DeviceRGB", "DeviceCMYK", "G", "RGB", "CMYK", "I", "Indexed":
		return true
	}
	return false
}

var inlineKeys = map[string]string{
	"W":   "Width",
	"H":   "Height",
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"IM":  "ImageMask",
	"D":   "Decode",
	"I":   "Interpolate",
}

var inlineSpaces = map[string]string{
	"G":    "DeviceGray",
	"RGB":  "DeviceRGB",
	"CMYK": "DeviceCMYK",
	"I":    "Indexed",
}

// expandInline rewrites abbreviated inline image keys and names
func expandInline(dict core.Dict) core.Dict {
	out := make(core.Dict, len(dict))
	for k, v := range dict {
		if full, ok := inlineKeys[k]; ok {
			k = full
		}
		out[k] = v
	}
	switch cs := out.Get("ColorSpace").(type) {
	case core.Name:
		if full, ok := inlineSpaces[string(cs)]; ok {
			out["ColorSpace"] = core.Name(full)
		}
	case core.Array:
		if len(cs) > 0 {
			if n, ok := cs[0].(core.Name); ok && string(n) == "I" {
				c := append(core.Array{core.Name("Indexed")}, cs[1:]...)
				if len(c) > 1 {
					if b, ok := c[1].(core.Name); ok {
						if full, ok := inlineSpaces[string(b)]; ok {
							c[1] = core.Name(full)
						}
					}
				}
				out["ColorSpace"] = c
			}
		}
	}
	return out
}

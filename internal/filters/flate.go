package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and undoes the optional predictor.
// Truncated or corrupt streams return whatever was inflated before the
// error, provided something was; producers frequently write bad checksums.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := inflate(data)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	predictor := params.Int("Predictor", 1)
	if predictor <= 1 {
		return out, nil
	}
	return unpredict(out, predictor, params)
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, zr)
	return buf.Bytes(), err
}

// rowGeometry describes one row of predicted samples.
type rowGeometry struct {
	stride int // bytes per row without the PNG tag byte
	bpp    int // bytes per pixel, at least 1
}

func geometry(params Params) rowGeometry {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)

	bitsPerPixel := colors * bpc
	g := rowGeometry{
		stride: (columns*bitsPerPixel + 7) / 8,
		bpp:    (bitsPerPixel + 7) / 8,
	}
	if g.bpp < 1 {
		g.bpp = 1
	}
	return g
}

func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	g := geometry(params)
	switch {
	case predictor == 2:
		if params.Int("BitsPerComponent", 8) != 8 {
			return nil, fmt.Errorf("TIFF predictor needs 8 bits per component")
		}
		return unpredictTIFF(data, g), nil
	case predictor >= 10 && predictor <= 15:
		return unpredictPNG(data, g)
	default:
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}
}

func unpredictTIFF(data []byte, g rowGeometry) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	for start := 0; start+g.stride <= len(out); start += g.stride {
		row := out[start : start+g.stride]
		for i := g.bpp; i < len(row); i++ {
			row[i] += row[i-g.bpp]
		}
	}
	return out
}

// unpredictPNG reverses the per-row PNG filters. Every row carries its own
// filter tag byte; a trailing partial row is dropped.
func unpredictPNG(data []byte, g rowGeometry) ([]byte, error) {
	rowLen := g.stride + 1
	rows := len(data) / rowLen
	if rows == 0 {
		return nil, fmt.Errorf("predicted data shorter than one row (%d < %d)", len(data), rowLen)
	}

	out := make([]byte, rows*g.stride)
	prev := make([]byte, g.stride)
	for r := 0; r < rows; r++ {
		tag := data[r*rowLen]
		src := data[r*rowLen+1 : (r+1)*rowLen]
		cur := out[r*g.stride : (r+1)*g.stride]

		for i := range src {
			var left, up, upLeft byte
			if i >= g.bpp {
				left = cur[i-g.bpp]
				upLeft = prev[i-g.bpp]
			}
			up = prev[i]

			switch tag {
			case 0:
				cur[i] = src[i]
			case 1:
				cur[i] = src[i] + left
			case 2:
				cur[i] = src[i] + up
			case 3:
				cur[i] = src[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = src[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter %d", r, tag)
			}
		}
		prev = cur
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := absInt(p-int(a)), absInt(p-int(b)), absInt(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

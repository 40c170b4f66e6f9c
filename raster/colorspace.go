package raster

import (
	"fmt"

	"github.com/tsawler/pdf2docx/core"
)

const maxColorSpaceDepth = 4

var (
	deviceGray = &colorSpace{family: "DeviceGray", components: 1}
	deviceRGB  = &colorSpace{family: "DeviceRGB", components: 3}
	deviceCMYK = &colorSpace{family: "DeviceCMYK", components: 4}
)

// colorSpace resolves an image /ColorSpace entry. A missing entry is
// treated as DeviceGray.
func (d *Decoder) colorSpace(obj core.Object, depth int) (*colorSpace, error) {
	if depth > maxColorSpaceDepth {
		return nil, fmt.Errorf("%w: color space nesting", ErrUnsupported)
	}
	obj, _ = d.r.Resolve(obj)
	switch v := obj.(type) {
	case nil, core.Null:
		return deviceGray, nil
	case core.Name:
		return byName(string(v))
	case core.Array:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty color space", ErrUnsupported)
		}
		family, _ := core.ResolveName(d.r, v[0])
		switch family {
		case "ICCBased":
			return d.iccBased(v)
		case "CalGray":
			return deviceGray, nil
		case "CalRGB", "Lab":
			return deviceRGB, nil
		case "Indexed", "I":
			return d.indexed(v, depth)
		case "Separation":
			return &colorSpace{family: "Separation", components: 1}, nil
		case "DeviceN":
			names, _ := core.ResolveArray(d.r, v.Get(1))
			if len(names) == 1 {
				return &colorSpace{family: "Separation", components: 1}, nil
			}
			return nil, fmt.Errorf("%w: DeviceN with %d colorants", ErrUnsupported, len(names))
		default:
			return byName(family)
		}
	}
	return nil, fmt.Errorf("%w: color space %v", ErrUnsupported, obj)
}

func byName(name string) (*colorSpace, error) {
	switch name {
	case "DeviceGray", "CalGray", "G":
		return deviceGray, nil
	case "DeviceRGB", "CalRGB", "RGB":
		return deviceRGB, nil
	case "DeviceCMYK", "CMYK":
		return deviceCMYK, nil
	}
	return nil, fmt.Errorf("%w: color space %s", ErrUnsupported, name)
}

func (d *Decoder) iccBased(arr core.Array) (*colorSpace, error) {
	stream, ok := core.ResolveStream(d.r, arr.Get(1))
	if !ok {
		return deviceRGB, nil
	}
	n, _ := core.ResolveNumber(d.r, stream.Dict.Get("N"))
	switch int(n) {
	case 1:
		return deviceGray, nil
	case 4:
		return deviceCMYK, nil
	case 3:
		return deviceRGB, nil
	}
	if alt := stream.Dict.Get("Alternate"); alt != nil {
		return d.colorSpace(alt, 1)
	}
	return deviceRGB, nil
}

// indexed reads [/Indexed base hival lookup]
func (d *Decoder) indexed(arr core.Array, depth int) (*colorSpace, error) {
	if len(arr) < 4 {
		return nil, fmt.Errorf("%w: short Indexed color space", ErrUnsupported)
	}
	base, err := d.colorSpace(arr[1], depth+1)
	if err != nil {
		return nil, err
	}
	if base.family == "Indexed" {
		return nil, fmt.Errorf("%w: nested Indexed", ErrUnsupported)
	}
	hival, _ := core.ResolveNumber(d.r, arr[2])

	var lookup []byte
	obj, _ := d.r.Resolve(arr[3])
	switch v := obj.(type) {
	case core.String:
		lookup = []byte(v)
	case *core.Stream:
		data, err := v.Decode()
		if err != nil {
			return nil, fmt.Errorf("%w: Indexed lookup: %v", ErrUnsupported, err)
		}
		lookup = data
	default:
		return nil, fmt.Errorf("%w: Indexed lookup %T", ErrUnsupported, obj)
	}
	return &colorSpace{family: "Indexed", components: 1, base: base, hival: int(hival), lookup: lookup}, nil
}

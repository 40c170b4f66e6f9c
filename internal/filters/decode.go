package filters

import (
	"errors"
	"fmt"
)

// Params holds decode parameters from a stream's /DecodeParms entry.
// Values are plain Go types: int, int64, float64, bool or string.
type Params map[string]interface{}

var (
	// ErrUnsupported is returned for filters this package cannot decode.
	ErrUnsupported = errors.New("unsupported filter")

	// ErrPassthrough is returned for image codecs whose encoded bytes are
	// usable as-is (JPEG, JPEG 2000).
	ErrPassthrough = errors.New("filter output is an encoded image")
)

// abbreviations used by inline images
var inlineFilterNames = map[string]string{
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"LZW": "LZWDecode",
	"Fl":  "FlateDecode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
}

// CanonicalName expands inline-image filter abbreviations.
func CanonicalName(name string) string {
	if full, ok := inlineFilterNames[name]; ok {
		return full
	}
	return name
}

// Decode applies a single named filter.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	switch CanonicalName(name) {
	case "FlateDecode":
		return FlateDecode(data, params)
	case "ASCIIHexDecode":
		return ASCIIHexDecode(data)
	case "ASCII85Decode":
		return ASCII85Decode(data)
	case "RunLengthDecode":
		return RunLengthDecode(data)
	case "CCITTFaxDecode":
		return CCITTFaxDecode(data, params)
	case "DCTDecode", "JPXDecode":
		return data, ErrPassthrough
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// DecodeChain applies filters in order. params may be shorter than names;
// missing entries mean no parameters. When a passthrough codec is reached
// the partially decoded data is returned together with ErrPassthrough and
// the codec name.
func DecodeChain(names []string, params []Params, data []byte) ([]byte, string, error) {
	out := data
	for i, name := range names {
		var p Params
		if i < len(params) {
			p = params[i]
		}
		decoded, err := Decode(name, out, p)
		if errors.Is(err, ErrPassthrough) {
			return decoded, CanonicalName(name), err
		}
		if err != nil {
			return nil, CanonicalName(name), fmt.Errorf("filter %s: %w", name, err)
		}
		out = decoded
	}
	return out, "", nil
}

// Int reads an integer parameter.
func (p Params) Int(key string, def int) int {
	if p == nil {
		return def
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool reads a boolean parameter.
func (p Params) Bool(key string, def bool) bool {
	if p == nil {
		return def
	}
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

package source

import (
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/pdf2docx/core"
)

// convert turns a pdfcpu object into a core object. References stay
// references; the arena resolves them on demand.
func convert(obj types.Object) core.Object {
	switch v := obj.(type) {
	case nil:
		return core.Null{}
	case types.Boolean:
		return core.Bool(v)
	case types.Integer:
		return core.Int(v)
	case types.Float:
		return core.Real(v)
	case types.Name:
		return core.Name(v)
	case types.StringLiteral:
		return core.String(unescapeLiteral(string(v)))
	case types.HexLiteral:
		return core.String(decodeHex(string(v)))
	case types.IndirectRef:
		return core.Ref{Num: int(v.ObjectNumber), Gen: int(v.GenerationNumber)}
	case *types.IndirectRef:
		if v == nil {
			return core.Null{}
		}
		return core.Ref{Num: int(v.ObjectNumber), Gen: int(v.GenerationNumber)}
	case types.Array:
		out := make(core.Array, len(v))
		for i, el := range v {
			out[i] = convert(el)
		}
		return out
	case types.Dict:
		return convertDict(v)
	case types.StreamDict:
		return convertStream(&v)
	case *types.StreamDict:
		if v == nil {
			return core.Null{}
		}
		return convertStream(v)
	default:
		return core.Null{}
	}
}

func convertDict(d types.Dict) core.Dict {
	out := make(core.Dict, len(d))
	for k, v := range d {
		out[k] = convert(v)
	}
	return out
}

// convertStream keeps the encoded bytes. Non-image streams are decoded by
// pdfcpu when it can; images are decoded later by the raster package so
// JPEG data can pass through untouched.
func convertStream(sd *types.StreamDict) *core.Stream {
	s := &core.Stream{Dict: convertDict(sd.Dict), Raw: sd.Raw}
	if sub, _ := s.Dict.Name("Subtype"); sub == "Image" {
		return s
	}
	if sd.Content == nil && len(sd.Raw) > 0 {
		if err := sd.Decode(); err != nil {
			return s
		}
	}
	s.Content = sd.Content
	return s
}

// unescapeLiteral resolves the escape sequences of a literal string body.
func unescapeLiteral(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out = append(out, c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 16)
			out = append(out, byte(v))
			i = j - 1
		default:
			out = append(out, e)
		}
	}
	return string(out)
}

// decodeHex decodes a hex string body, padding an odd final digit.
func decodeHex(s string) string {
	out := make([]byte, 0, len(s)/2)
	var hi byte
	half := false
	for i := 0; i < len(s); i++ {
		v, ok := hexValue(s[i])
		if !ok {
			continue
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}
	return string(out)
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

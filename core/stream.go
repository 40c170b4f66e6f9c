package core

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdf2docx/internal/filters"
)

// Stream is a PDF stream: a dictionary plus data. Raw holds the bytes as
// stored in the file (after decryption); Content holds the decoded bytes
// when the provider already decoded them.
type Stream struct {
	Dict    Dict
	Raw     []byte
	Content []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Raw))
}

// Filters returns the /Filter entry as a list of names
func (s *Stream) Filters() []string {
	return filterNames(s.Dict.Get("Filter"), s.Dict.Get("F"))
}

// DecodeParams returns one parameter set per filter
func (s *Stream) DecodeParams() []filters.Params {
	obj := s.Dict.Get("DecodeParms")
	if obj == nil {
		obj = s.Dict.Get("DP")
	}
	return decodeParams(obj)
}

// Decode returns the fully decoded stream data. Image codecs that cannot be
// decoded here yield filters.ErrPassthrough with the partially decoded
// bytes; see DecodeImage.
func (s *Stream) Decode() ([]byte, error) {
	if s.Content != nil {
		return s.Content, nil
	}
	data, _, err := filters.DecodeChain(s.Filters(), s.DecodeParams(), s.Raw)
	if err != nil {
		return data, err
	}
	s.Content = data
	return data, nil
}

// DecodeImage decodes image data, stopping at a passthrough codec. codec
// names the codec still applied to the returned bytes ("" for raw samples).
func (s *Stream) DecodeImage() (data []byte, codec string, err error) {
	data, codec, err = filters.DecodeChain(s.Filters(), s.DecodeParams(), s.Raw)
	if errors.Is(err, filters.ErrPassthrough) {
		return data, codec, nil
	}
	return data, codec, err
}

func filterNames(objs ...Object) []string {
	for _, obj := range objs {
		switch v := obj.(type) {
		case Name:
			return []string{string(v)}
		case Array:
			names := make([]string, 0, len(v))
			for _, el := range v {
				if n, ok := el.(Name); ok {
					names = append(names, string(n))
				}
			}
			return names
		}
	}
	return nil
}

func decodeParams(obj Object) []filters.Params {
	switch v := obj.(type) {
	case Dict:
		return []filters.Params{paramsOf(v)}
	case Array:
		out := make([]filters.Params, len(v))
		for i, el := range v {
			if d, ok := el.(Dict); ok {
				out[i] = paramsOf(d)
			}
		}
		return out
	}
	return nil
}

func paramsOf(d Dict) filters.Params {
	p := filters.Params{}
	for k, v := range d {
		switch x := v.(type) {
		case Int:
			p[k] = int(x)
		case Real:
			p[k] = float64(x)
		case Bool:
			p[k] = bool(x)
		case Name:
			p[k] = string(x)
		}
	}
	return p
}

// InlineImageFilters reads the filter names and parameters of an inline
// image dictionary, which may use abbreviated keys.
func InlineImageFilters(d Dict) ([]string, []filters.Params) {
	params := d.Get("DecodeParms")
	if params == nil {
		params = d.Get("DP")
	}
	return filterNames(d.Get("Filter"), d.Get("F")), decodeParams(params)
}

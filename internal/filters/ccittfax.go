package filters

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes Group 3 or Group 4 fax data into 1-bit packed rows
// where a set bit is white, the PDF default for /BlackIs1 false.
//
// K selects the group (negative is Group 4), Columns defaults to 1728 and a
// missing Rows lets the decoder find the image height.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	sf := ccitt.Group3
	if params.Int("K", 0) < 0 {
		sf = ccitt.Group4
	}

	rows := params.Int("Rows", 0)
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	opts := &ccitt.Options{
		Align:  params.Bool("EncodedByteAlign", false),
		Invert: params.Bool("BlackIs1", false),
	}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, params.Int("Columns", 1728), rows, opts)
	return io.ReadAll(r)
}

package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"
)

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// TestFlateDecode tests plain inflation
func TestFlateDecode(t *testing.T) {
	want := []byte("BT /F1 12 Tf (Hello) Tj ET")
	got, err := FlateDecode(deflate(want), nil)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestFlateDecodeTruncated tests that a truncated stream yields its prefix
func TestFlateDecodeTruncated(t *testing.T) {
	want := bytes.Repeat([]byte("0123456789"), 200)
	enc := deflate(want)
	got, err := FlateDecode(enc[:len(enc)-4], nil)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected full payload from stream missing its checksum, got %d bytes", len(got))
	}
}

// TestFlateDecodeInvalid tests garbage input
func TestFlateDecodeInvalid(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib"), nil); err == nil {
		t.Error("expected error for invalid data")
	}
}

// TestPNGPredictors tests each PNG row filter
func TestPNGPredictors(t *testing.T) {
	tests := []struct {
		name string
		rows []byte
		want []byte
	}{
		{"none", []byte{0, 1, 2, 3, 0, 4, 5, 6}, []byte{1, 2, 3, 4, 5, 6}},
		{"sub", []byte{1, 1, 1, 1, 1, 4, 1, 1}, []byte{1, 2, 3, 4, 5, 6}},
		{"up", []byte{0, 1, 2, 3, 2, 3, 3, 3}, []byte{1, 2, 3, 4, 5, 6}},
		{"average", []byte{0, 2, 4, 6, 3, 2, 2, 1}, []byte{2, 4, 6, 3, 5, 6}},
		{"paeth", []byte{0, 1, 2, 3, 4, 3, 1, 1}, []byte{1, 2, 3, 4, 5, 6}},
	}

	params := Params{"Predictor": 12, "Columns": 3, "Colors": 1, "BitsPerComponent": 8}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlateDecode(deflate(tt.rows), params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestTIFFPredictor tests horizontal differencing
func TestTIFFPredictor(t *testing.T) {
	params := Params{"Predictor": 2, "Columns": 4, "Colors": 1}
	got, err := FlateDecode(deflate([]byte{10, 1, 1, 1, 5, 5, 5, 5}), params)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	want := []byte{10, 11, 12, 13, 5, 10, 15, 20}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestUnsupportedPredictor tests predictor validation
func TestUnsupportedPredictor(t *testing.T) {
	if _, err := FlateDecode(deflate([]byte{1, 2, 3}), Params{"Predictor": 7}); err == nil {
		t.Error("expected error for predictor 7")
	}
}

// TestASCIIHexDecode tests hex decoding
func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"48656C6C6F>", []byte("Hello")},
		{"48 65\n6c 6c 6f", []byte("Hello")},
		{"414>", []byte{0x41, 0x40}},
		{">", []byte{}},
	}
	for _, tt := range tests {
		got, err := ASCIIHexDecode([]byte(tt.in))
		if err != nil {
			t.Fatalf("ASCIIHexDecode(%q) failed: %v", tt.in, err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("ASCIIHexDecode(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ASCIIHexDecode([]byte("4G")); err == nil {
		t.Error("expected error for invalid digit")
	}
}

// TestASCII85Decode tests base-85 decoding
func TestASCII85Decode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"87cURD]i,\"Ebo7~>", "Hello World"},
		{"<~87cURD]i,\"Ebo7~>", "Hello World"},
		{"z~>", "\x00\x00\x00\x00"},
		{"87cU RD]i\n,\"Ebo7~>", "Hello World"},
	}
	for _, tt := range tests {
		got, err := ASCII85Decode([]byte(tt.in))
		if err != nil {
			t.Fatalf("ASCII85Decode(%q) failed: %v", tt.in, err)
		}
		if string(got) != tt.want {
			t.Errorf("ASCII85Decode(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	if _, err := ASCII85Decode([]byte("abc{~>")); err == nil {
		t.Error("expected error for invalid character")
	}
}

// TestRunLengthDecode tests literal and repeat runs
func TestRunLengthDecode(t *testing.T) {
	in := []byte{2, 'a', 'b', 'c', 254, 'x', 128, 'z'}
	got, err := RunLengthDecode(in)
	if err != nil {
		t.Fatalf("RunLengthDecode failed: %v", err)
	}
	if string(got) != "abcxxx" {
		t.Errorf("expected %q, got %q", "abcxxx", got)
	}

	if _, err := RunLengthDecode([]byte{5, 'a'}); err == nil {
		t.Error("expected error for overrun")
	}
}

// TestDecodeDispatch tests name dispatch and abbreviations
func TestDecodeDispatch(t *testing.T) {
	got, err := Decode("AHx", []byte("6869>"), nil)
	if err != nil || string(got) != "hi" {
		t.Errorf("expected hi, got %q (%v)", got, err)
	}

	if _, err := Decode("JBIG2Decode", []byte{1}, nil); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}

	jpeg := []byte{0xFF, 0xD8, 0xFF}
	got, err = Decode("DCT", jpeg, nil)
	if !errors.Is(err, ErrPassthrough) || !bytes.Equal(got, jpeg) {
		t.Errorf("expected passthrough of JPEG bytes, got %v", err)
	}
}

// TestDecodeChain tests chained filters
func TestDecodeChain(t *testing.T) {
	inner := deflate([]byte("chained"))
	var hex bytes.Buffer
	for _, b := range inner {
		hex.WriteString(string("0123456789ABCDEF"[b>>4]) + string("0123456789ABCDEF"[b&15]))
	}
	hex.WriteByte('>')

	got, codec, err := DecodeChain([]string{"ASCIIHexDecode", "FlateDecode"}, nil, hex.Bytes())
	if err != nil {
		t.Fatalf("DecodeChain failed: %v", err)
	}
	if codec != "" || string(got) != "chained" {
		t.Errorf("expected chained, got %q (codec %q)", got, codec)
	}

	_, codec, err = DecodeChain([]string{"DCTDecode"}, nil, []byte{0xFF, 0xD8})
	if !errors.Is(err, ErrPassthrough) || codec != "DCTDecode" {
		t.Errorf("expected DCTDecode passthrough, got %q %v", codec, err)
	}
}

// TestParams tests parameter coercion
func TestParams(t *testing.T) {
	p := Params{"a": int64(3), "b": 2.0, "c": true, "d": "x"}
	if p.Int("a", 0) != 3 || p.Int("b", 0) != 2 || p.Int("d", 7) != 7 || p.Int("missing", 9) != 9 {
		t.Error("unexpected Int coercion")
	}
	if !p.Bool("c", false) || p.Bool("d", false) {
		t.Error("unexpected Bool coercion")
	}
	var nilParams Params
	if nilParams.Int("x", 4) != 4 {
		t.Error("nil params should yield defaults")
	}
}

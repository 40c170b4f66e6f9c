package core

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"
)

// TestArenaLazyLoad tests that the loader runs once per reference
func TestArenaLazyLoad(t *testing.T) {
	calls := 0
	a := NewArena(func(ref Ref) (Object, error) {
		calls++
		if ref.Num == 404 {
			return nil, ErrNotFound
		}
		return Int(ref.Num * 10), nil
	})

	for i := 0; i < 3; i++ {
		obj, err := a.Get(Ref{Num: 4})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if obj != Int(40) {
			t.Errorf("expected 40, got %v", obj)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 loader call, got %d", calls)
	}

	if _, err := a.Get(Ref{Num: 404}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestArenaResolveChain tests reference chains and cycles
func TestArenaResolveChain(t *testing.T) {
	a := NewArena(nil)
	a.Put(Ref{Num: 1}, Ref{Num: 2})
	a.Put(Ref{Num: 2}, Name("End"))
	a.Put(Ref{Num: 3}, Ref{Num: 4})
	a.Put(Ref{Num: 4}, Ref{Num: 3})

	obj, err := a.Resolve(Ref{Num: 1})
	if err != nil || obj != Name("End") {
		t.Errorf("expected /End, got %v (%v)", obj, err)
	}

	if _, err := a.Resolve(Ref{Num: 3}); !errors.Is(err, ErrRefCycle) {
		t.Errorf("expected ErrRefCycle, got %v", err)
	}

	direct, err := a.Resolve(Int(7))
	if err != nil || direct != Int(7) {
		t.Errorf("expected direct object unchanged, got %v", direct)
	}

	if _, err := a.Get(Ref{Num: 9}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound without loader, got %v", err)
	}
}

// TestResolveHelpers tests the typed resolve helpers
func TestResolveHelpers(t *testing.T) {
	a := NewArena(nil)
	a.Put(Ref{Num: 5}, Dict{"Type": Name("Font")})
	a.Put(Ref{Num: 6}, Array{Int(0), Ref{Num: 7}, Int(612), Int(792)})
	a.Put(Ref{Num: 7}, Real(0))
	a.Put(Ref{Num: 8}, &Stream{Dict: Dict{"Length": Int(0)}})

	if d, ok := ResolveDict(a, Ref{Num: 5}); !ok || d["Type"] != Name("Font") {
		t.Error("expected font dictionary")
	}
	if d, ok := ResolveDict(a, Ref{Num: 8}); !ok || !d.Has("Length") {
		t.Error("expected stream dictionary")
	}
	if nums, ok := ResolveNumbers(a, Ref{Num: 6}); !ok || nums[3] != 792 {
		t.Errorf("unexpected numbers %v", nums)
	}
	if _, ok := ResolveArray(a, Ref{Num: 99}); ok {
		t.Error("expected missing reference to fail")
	}
	if n, ok := ResolveName(nil, Name("X")); !ok || n != "X" {
		t.Error("expected nil resolver to pass direct objects through")
	}
}

// TestStreamDecode tests filter decoding on streams
func TestStreamDecode(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write([]byte("q 1 0 0 1 0 0 cm Q"))
	w.Close()

	s := &Stream{Dict: Dict{"Filter": Name("FlateDecode")}, Raw: buf.Bytes()}
	data, err := s.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(data) != "q 1 0 0 1 0 0 cm Q" {
		t.Errorf("unexpected content %q", data)
	}

	img := &Stream{Dict: Dict{"Filter": Array{Name("DCTDecode")}}, Raw: []byte{0xFF, 0xD8}}
	raw, codec, err := img.DecodeImage()
	if err != nil || codec != "DCTDecode" || len(raw) != 2 {
		t.Errorf("expected DCT passthrough, got %q %v", codec, err)
	}

	pre := &Stream{Content: []byte("done"), Raw: []byte("ignored")}
	if data, _ := pre.Decode(); string(data) != "done" {
		t.Errorf("expected provider content, got %q", data)
	}
}

// TestInlineImageFilters tests abbreviated inline image keys
func TestInlineImageFilters(t *testing.T) {
	names, params := InlineImageFilters(Dict{
		"F":  Array{Name("AHx"), Name("Fl")},
		"DP": Array{Null{}, Dict{"Predictor": Int(12)}},
	})
	if len(names) != 2 || names[1] != "Fl" {
		t.Errorf("unexpected names %v", names)
	}
	if len(params) != 2 || params[0] != nil || params[1].Int("Predictor", 0) != 12 {
		t.Errorf("unexpected params %v", params)
	}
}

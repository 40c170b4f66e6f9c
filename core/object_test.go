package core

import (
	"testing"
)

// TestObjectTypeString tests the ObjectType names
func TestObjectTypeString(t *testing.T) {
	tests := []struct {
		typ  ObjectType
		want string
	}{
		{ObjNull, "Null"},
		{ObjDict, "Dict"},
		{ObjRef, "Ref"},
		{ObjectType(99), "Unknown"},
		{ObjectType(-1), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestDictAccessors tests typed dictionary lookups
func TestDictAccessors(t *testing.T) {
	d := Dict{
		"Type":   Name("Page"),
		"Rotate": Int(90),
		"Scale":  Real(1.5),
		"Open":   Bool(true),
		"Title":  String("hi"),
	}

	if n, ok := d.Name("Type"); !ok || n != "Page" {
		t.Errorf("expected Page, got %q", n)
	}
	if v, ok := d.Int("Rotate"); !ok || v != 90 {
		t.Errorf("expected 90, got %d", v)
	}
	if v, ok := d.Int("Scale"); !ok || v != 1 {
		t.Errorf("expected truncated 1, got %d", v)
	}
	if v, ok := d.Number("Scale"); !ok || v != 1.5 {
		t.Errorf("expected 1.5, got %v", v)
	}
	if v, ok := d.Bool("Open"); !ok || !v {
		t.Error("expected true")
	}
	if v, ok := d.Str("Title"); !ok || v != "hi" {
		t.Errorf("expected hi, got %q", v)
	}
	if _, ok := d.Name("Missing"); ok {
		t.Error("expected missing key to report false")
	}
	if !d.Has("Open") || d.Has("Closed") {
		t.Error("Has returned wrong result")
	}
}

// TestDictStringSorted tests that rendering is deterministic
func TestDictStringSorted(t *testing.T) {
	d := Dict{"B": Int(2), "A": Int(1), "C": nil}
	want := "<</A 1 /B 2 /C null>>"
	for i := 0; i < 5; i++ {
		if got := d.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

// TestArrayNumbers tests numeric array conversion
func TestArrayNumbers(t *testing.T) {
	nums, ok := Array{Int(0), Real(0.5), Int(612)}.Numbers()
	if !ok || len(nums) != 3 || nums[1] != 0.5 || nums[2] != 612 {
		t.Errorf("unexpected numbers %v", nums)
	}
	if _, ok := (Array{Int(1), Name("x")}).Numbers(); ok {
		t.Error("expected failure for non-numeric element")
	}
	if (Array{Int(1)}).Get(3) != nil {
		t.Error("expected nil for out of range index")
	}
}

// TestTextString tests text string decoding
func TestTextString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ascii", "Report", "Report"},
		{"utf16", "\xFE\xFF\x00H\x00i\x26\x03", "Hi☃"},
		{"utf8 bom", "\xEF\xBB\xBFcafé", "café"},
		{"pdfdoc bullet", "\x80 item", "• item"},
		{"latin1", "caf\xE9", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextString(tt.raw); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

package font

import (
	"testing"
)

const sampleToUnicode = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0003> <0020>
<0024> <0041>
<0050> <00660069>
endbfchar
2 beginbfrange
<0044> <0046> <0061>
<0060> <0062> [<03B1> <03B2> <03B3>]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end`

// TestParseCMap tests bfchar and both bfrange forms
func TestParseCMap(t *testing.T) {
	cm := ParseCMap([]byte(sampleToUnicode))
	if cm.Name != "Adobe-Identity-UCS" {
		t.Errorf("Name = %q", cm.Name)
	}

	tests := []struct {
		code uint32
		want string
	}{
		{0x0003, " "},
		{0x0024, "A"},
		{0x0050, "fi"},
		{0x0044, "a"},
		{0x0046, "c"},
		{0x0061, "β"},
	}
	for _, tt := range tests {
		got, ok := cm.Unicode(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Unicode(%#x) = %q, %v; want %q", tt.code, got, ok, tt.want)
		}
	}
	if _, ok := cm.Unicode(0x0047); ok {
		t.Error("code past the range end mapped")
	}
}

// TestCMapSplitCodespace tests longest-match splitting over mixed
// one and two byte codespaces
func TestCMapSplitCodespace(t *testing.T) {
	cm := ParseCMap([]byte(`2 begincodespacerange
<00> <80>
<8140> <9FFC>
endcodespacerange`))

	codes := cm.Split([]byte{0x41, 0x81, 0x40, 0x42})
	want := []Code{{0x41, 1}, {0x8140, 2}, {0x42, 1}}
	if len(codes) != len(want) {
		t.Fatalf("Split() = %v", codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d = %v, want %v", i, codes[i], want[i])
		}
	}
}

// TestCMapSplitWithoutCodespace tests length guessing from mappings
func TestCMapSplitWithoutCodespace(t *testing.T) {
	cm := ParseCMap([]byte("1 beginbfchar <0102> <0058> endbfchar"))
	codes := cm.Split([]byte{0x01, 0x02, 0x41})
	if len(codes) != 2 || codes[0] != (Code{0x0102, 2}) || codes[1] != (Code{0x41, 1}) {
		t.Errorf("Split() = %v", codes)
	}
}

// TestCMapCIDs tests cidchar and cidrange
func TestCMapCIDs(t *testing.T) {
	cm := ParseCMap([]byte(`/WMode 1 def
1 begincodespacerange <0000> <FFFF> endcodespacerange
1 begincidchar <0001> 500 endcidchar
1 begincidrange <0010> <001F> 100 endcidrange`))

	if !cm.Vertical {
		t.Error("WMode 1 not vertical")
	}
	if cid, ok := cm.CID(0x0001); !ok || cid != 500 {
		t.Errorf("CID(1) = %d, %v", cid, ok)
	}
	if cid, ok := cm.CID(0x0015); !ok || cid != 105 {
		t.Errorf("CID(0x15) = %d, %v", cid, ok)
	}
	if _, ok := cm.CID(0x0020); ok {
		t.Error("CID(0x20) mapped")
	}
}

// TestPredefinedCMap tests the built-in Identity and UCS2 maps
func TestPredefinedCMap(t *testing.T) {
	id := PredefinedCMap("Identity-V")
	if !id.Vertical {
		t.Error("Identity-V not vertical")
	}
	if cid, _ := id.CID(0x1234); cid != 0x1234 {
		t.Errorf("Identity CID = %#x", cid)
	}
	if codes := id.Split([]byte{0, 1, 0, 2}); len(codes) != 2 {
		t.Errorf("Identity split = %v", codes)
	}

	uni := PredefinedCMap("UniJIS-UCS2-H")
	if s, ok := uni.Unicode(0x3042); !ok || s != "あ" {
		t.Errorf("UCS2 Unicode = %q", s)
	}
}

// TestParseCMapGarbage tests that junk yields an empty map, not a panic
func TestParseCMapGarbage(t *testing.T) {
	cm := ParseCMap([]byte("beginbfrange <01> endbfrange ) ] >> 1 2 3 endbfchar"))
	if cm.Len() != 0 {
		t.Errorf("Len() = %d", cm.Len())
	}
}

package font

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/tsawler/pdf2docx/contentstream"
	"github.com/tsawler/pdf2docx/core"
)

// maxRangeSpan bounds how many codes one bfrange or cidrange may cover
const maxRangeSpan = 1 << 16

// CMap maps byte sequences to codes and codes to Unicode text or CIDs.
// The same type serves ToUnicode maps and Type0 encodings.
type CMap struct {
	Name     string
	Vertical bool

	codespaces []codespace
	unicode    map[uint32]string
	unicodeRng []unicodeRange
	cids       map[uint32]int
	cidRng     []cidRange

	// ucs2 marks predefined Uni*-UCS2/UTF16 maps whose codes are UTF-16
	ucs2 bool
}

type codespace struct {
	n         int
	low, high []byte
}

type unicodeRange struct {
	lo, hi uint32
	base   []rune   // destination for lo; later codes increment the last rune
	list   []string // array form: one destination per code
}

type cidRange struct {
	lo, hi uint32
	cid    int
}

// Code is one character code split from a string
type Code struct {
	Value uint32
	Len   int
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{
		unicode: make(map[uint32]string),
		cids:    make(map[uint32]int),
	}
}

// IdentityCMap returns the predefined Identity-H or Identity-V map: two
// byte codes equal to their CID.
func IdentityCMap(vertical bool) *CMap {
	cm := NewCMap()
	cm.Name = "Identity-H"
	if vertical {
		cm.Name = "Identity-V"
	}
	cm.Vertical = vertical
	cm.codespaces = []codespace{{n: 2, low: []byte{0, 0}, high: []byte{0xFF, 0xFF}}}
	cm.cidRng = []cidRange{{lo: 0, hi: 0xFFFF, cid: 0}}
	return cm
}

// PredefinedCMap returns a named CMap. Only Identity and the Unicode
// (UCS2/UTF16) CMaps are built in; other names fall back to Identity.
func PredefinedCMap(name string) *CMap {
	vertical := strings.HasSuffix(name, "-V")
	cm := IdentityCMap(vertical)
	if strings.HasPrefix(name, "Uni") && (strings.Contains(name, "UCS2") || strings.Contains(name, "UTF16")) {
		cm.ucs2 = true
	}
	cm.Name = name
	return cm
}

// ParseCMapStream decodes and parses an embedded CMap stream
func ParseCMapStream(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode cmap stream: %w", err)
	}
	cm := ParseCMap(data)
	if wmode, ok := stream.Dict.Int("WMode"); ok && wmode == 1 {
		cm.Vertical = true
	}
	return cm, nil
}

// ParseCMap parses CMap program text. The PostScript syntax is tokenized
// with the content stream parser: each section's entries arrive as the
// operands of its end operator. Malformed entries are skipped.
func ParseCMap(data []byte) *CMap {
	cm := NewCMap()
	ops, _ := contentstream.NewParser(data).Parse()

	for _, op := range ops {
		args := op.Operands
		switch op.Operator {
		case "endcodespacerange":
			for i := 0; i+1 < len(args); i += 2 {
				lo, ok1 := args[i].(core.String)
				hi, ok2 := args[i+1].(core.String)
				if ok1 && ok2 && len(lo) == len(hi) && len(lo) > 0 && len(lo) <= 4 {
					cm.codespaces = append(cm.codespaces, codespace{n: len(lo), low: []byte(lo), high: []byte(hi)})
				}
			}
		case "endbfchar":
			for i := 0; i+1 < len(args); i += 2 {
				src, ok := args[i].(core.String)
				if !ok {
					continue
				}
				if dst, ok := destination(args[i+1]); ok {
					cm.unicode[codeValue(src)] = dst
				}
			}
		case "endbfrange":
			for i := 0; i+2 < len(args); i += 3 {
				cm.addBfRange(args[i], args[i+1], args[i+2])
			}
		case "endcidchar":
			for i := 0; i+1 < len(args); i += 2 {
				src, ok1 := args[i].(core.String)
				cid, ok2 := args[i+1].(core.Int)
				if ok1 && ok2 {
					cm.cids[codeValue(src)] = int(cid)
				}
			}
		case "endcidrange":
			for i := 0; i+2 < len(args); i += 3 {
				lo, ok1 := args[i].(core.String)
				hi, ok2 := args[i+1].(core.String)
				cid, ok3 := args[i+2].(core.Int)
				if ok1 && ok2 && ok3 && codeValue(hi) >= codeValue(lo) {
					cm.cidRng = append(cm.cidRng, cidRange{lo: codeValue(lo), hi: codeValue(hi), cid: int(cid)})
				}
			}
		case "def":
			if len(args) == 2 {
				key, _ := args[0].(core.Name)
				switch key {
				case "CMapName":
					if n, ok := args[1].(core.Name); ok {
						cm.Name = string(n)
					}
				case "WMode":
					if n, ok := args[1].(core.Int); ok && n == 1 {
						cm.Vertical = true
					}
				}
			}
		}
	}
	return cm
}

func (cm *CMap) addBfRange(loObj, hiObj, dstObj core.Object) {
	lo, ok1 := loObj.(core.String)
	hi, ok2 := hiObj.(core.String)
	if !ok1 || !ok2 {
		return
	}
	rng := unicodeRange{lo: codeValue(lo), hi: codeValue(hi)}
	if rng.hi < rng.lo || rng.hi-rng.lo > maxRangeSpan {
		return
	}
	switch dst := dstObj.(type) {
	case core.String:
		s := utf16BE([]byte(dst))
		if s == "" {
			return
		}
		rng.base = []rune(s)
	case core.Array:
		for _, el := range dst {
			s, _ := destination(el)
			rng.list = append(rng.list, s)
		}
	default:
		return
	}
	cm.unicodeRng = append(cm.unicodeRng, rng)
}

// destination decodes a bfchar destination: a UTF-16BE string or a glyph
// name
func destination(obj core.Object) (string, bool) {
	switch v := obj.(type) {
	case core.String:
		return utf16BE([]byte(v)), true
	case core.Name:
		return GlyphRune(string(v))
	}
	return "", false
}

// codeValue reads a big-endian code of up to four bytes
func codeValue(b core.String) uint32 {
	var v uint32
	for i := 0; i < len(b) && i < 4; i++ {
		v = v<<8 | uint32(b[i])
	}
	return v
}

// utf16BE decodes UTF-16BE, tolerating an odd trailing byte
func utf16BE(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}

// HasCodespace reports whether the map declares codespace ranges
func (cm *CMap) HasCodespace() bool {
	return len(cm.codespaces) > 0
}

// Split breaks data into character codes. Each code is the longest prefix
// matching a codespace range; without codespace ranges the longest length
// of 4, 3, 2, 1 bytes with a mapping wins. Bytes that match nothing are
// consumed one at a time.
func (cm *CMap) Split(data []byte) []Code {
	var codes []Code
	for i := 0; i < len(data); {
		n := cm.matchLength(data[i:])
		var v uint32
		for _, b := range data[i : i+n] {
			v = v<<8 | uint32(b)
		}
		codes = append(codes, Code{Value: v, Len: n})
		i += n
	}
	return codes
}

func (cm *CMap) matchLength(data []byte) int {
	if len(cm.codespaces) > 0 {
		best := 0
		for _, cs := range cm.codespaces {
			if cs.n <= len(data) && cs.n > best && cs.contains(data[:cs.n]) {
				best = cs.n
			}
		}
		if best > 0 {
			return best
		}
		// shortest declared length keeps the stream aligned
		shortest := 4
		for _, cs := range cm.codespaces {
			if cs.n < shortest {
				shortest = cs.n
			}
		}
		if shortest > len(data) {
			shortest = len(data)
		}
		return shortest
	}
	for n := 4; n > 1; n-- {
		if n > len(data) {
			continue
		}
		var v uint32
		for _, b := range data[:n] {
			v = v<<8 | uint32(b)
		}
		if _, ok := cm.lookupUnicode(v); ok {
			return n
		}
		if _, ok := cm.lookupCID(v); ok {
			return n
		}
	}
	return 1
}

// contains compares byte by byte, as codespace ranges are per-byte ranges
func (cs codespace) contains(b []byte) bool {
	for i := 0; i < cs.n; i++ {
		if b[i] < cs.low[i] || b[i] > cs.high[i] {
			return false
		}
	}
	return true
}

// Unicode returns the text mapped to code
func (cm *CMap) Unicode(code uint32) (string, bool) {
	if cm.ucs2 {
		return string(utf16.Decode([]uint16{uint16(code)})), true
	}
	return cm.lookupUnicode(code)
}

func (cm *CMap) lookupUnicode(code uint32) (string, bool) {
	if s, ok := cm.unicode[code]; ok {
		return s, true
	}
	for _, r := range cm.unicodeRng {
		if code < r.lo || code > r.hi {
			continue
		}
		off := code - r.lo
		if r.list != nil {
			if int(off) < len(r.list) {
				return r.list[off], true
			}
			return "", false
		}
		out := append([]rune(nil), r.base...)
		out[len(out)-1] += rune(off)
		return string(out), true
	}
	return "", false
}

// CID returns the CID selected by code
func (cm *CMap) CID(code uint32) (int, bool) {
	return cm.lookupCID(code)
}

func (cm *CMap) lookupCID(code uint32) (int, bool) {
	if cid, ok := cm.cids[code]; ok {
		return cid, true
	}
	for _, r := range cm.cidRng {
		if code >= r.lo && code <= r.hi {
			return r.cid + int(code-r.lo), true
		}
	}
	return 0, false
}

// Len returns the number of explicit mappings
func (cm *CMap) Len() int {
	return len(cm.unicode) + len(cm.unicodeRng) + len(cm.cids) + len(cm.cidRng)
}

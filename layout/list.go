package layout

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ListKind distinguishes bullet lists from ordered lists
type ListKind string

const (
	ListBullet  ListKind = "bullet"
	ListOrdered ListKind = "ordered"
)

// Number formats, in WordprocessingML numFmt vocabulary
const (
	FormatBullet      = "bullet"
	FormatDecimal     = "decimal"
	FormatLowerLetter = "lowerLetter"
	FormatUpperLetter = "upperLetter"
	FormatLowerRoman  = "lowerRoman"
	FormatUpperRoman  = "upperRoman"
)

// Punctuation around an ordered marker
const (
	PunctDot      = "dot"
	PunctParen    = "paren"
	PunctEnclosed = "enclosed"
)

// MaxListLevel is the deepest numbering level
const MaxListLevel = 8

// ListMarker is a list marker found at the start of a paragraph
type ListMarker struct {
	Kind        ListKind
	Format      string
	Punctuation string
	Marker      string // marker text as printed
	Rest        string // paragraph text after the marker
}

var (
	bulletPattern  = regexp.MustCompile(`^([•◦▪▫●○■□‣⁃∙·\-–—*➢➤►✓✔])\s+`)
	decimalPattern = regexp.MustCompile(`^(\(?\d{1,3}[.)])\s+`)
	romanPattern   = regexp.MustCompile(`^(\(?(?:[ivxlcdm]+|[IVXLCDM]+)[.)])\s+`)
	alphaPattern   = regexp.MustCompile(`^(\(?[A-Za-z][.)])\s+`)
)

// listRoles are structure roles that make a paragraph a list item
var listRoles = map[string]bool{"LI": true, "LBODY": true, "LBL": true, "L": true}

// MatchMarker detects a list marker at the start of text. Single letters
// that are also roman numerals (i, v, x, c, d, l, m) read as roman only
// when they are i, v or x.
func MatchMarker(text string) (ListMarker, bool) {
	working := strings.TrimLeftFunc(text, unicode.IsSpace)
	if m := bulletPattern.FindStringSubmatch(working); m != nil {
		return ListMarker{Kind: ListBullet, Format: FormatBullet, Marker: m[1], Rest: working[len(m[0]):]}, true
	}
	if m := decimalPattern.FindStringSubmatch(working); m != nil {
		return ordered(m, working, FormatDecimal), true
	}
	if m := romanPattern.FindStringSubmatch(working); m != nil && isRomanMarker(m[1]) {
		format := FormatLowerRoman
		if strings.ToUpper(m[1]) == m[1] {
			format = FormatUpperRoman
		}
		return ordered(m, working, format), true
	}
	if m := alphaPattern.FindStringSubmatch(working); m != nil {
		format := FormatLowerLetter
		if strings.ToUpper(m[1]) == m[1] {
			format = FormatUpperLetter
		}
		return ordered(m, working, format), true
	}
	return ListMarker{}, false
}

// RoleMarker returns a bullet marker for list structure roles
func RoleMarker(role, text string) (ListMarker, bool) {
	if !listRoles[strings.ToUpper(role)] {
		return ListMarker{}, false
	}
	return ListMarker{Kind: ListBullet, Format: FormatBullet, Rest: text}, true
}

func ordered(m []string, working, format string) ListMarker {
	marker := m[1]
	punct := PunctDot
	switch {
	case strings.HasPrefix(marker, "(") && strings.HasSuffix(marker, ")"):
		punct = PunctEnclosed
	case strings.HasSuffix(marker, ")"):
		punct = PunctParen
	}
	return ListMarker{
		Kind:        ListOrdered,
		Format:      format,
		Punctuation: punct,
		Marker:      marker,
		Rest:        working[len(m[0]):],
	}
}

func isRomanMarker(marker string) bool {
	core := strings.ToLower(strings.Trim(marker, "()."))
	if len(core) == 1 {
		return core == "i" || core == "v" || core == "x"
	}
	return true
}

// ListConfig holds configuration for list level assignment
type ListConfig struct {
	// IndentTolerance is the distance in points within which two markers
	// share an indent level (default: 6)
	IndentTolerance float64
}

// DefaultListConfig returns sensible default configuration
func DefaultListConfig() ListConfig {
	return ListConfig{IndentTolerance: 6}
}

type indentEntry struct {
	indent float64
	format string
}

// IndentStack assigns nesting levels to list items across a document. A
// level is keyed on its indent and marker format: an item matching an open
// level returns to it and closes the levels below; any other item opens a
// new level, so a numbered list at a bullet's indent nests under it.
type IndentStack struct {
	config  ListConfig
	entries []indentEntry
}

// NewIndentStack creates an empty indent stack
func NewIndentStack(config ListConfig) *IndentStack {
	return &IndentStack{config: config}
}

// Level returns the level in [0, MaxListLevel] for an item at indent whose
// marker has the given format key
func (s *IndentStack) Level(indent float64, format string) int {
	tol := s.config.IndentTolerance
	for len(s.entries) > 0 && s.entries[len(s.entries)-1].indent > indent+tol {
		s.entries = s.entries[:len(s.entries)-1]
	}
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if math.Abs(e.indent-indent) <= tol && e.format == format {
			s.entries = s.entries[:i+1]
			return clampLevel(i)
		}
	}
	if len(s.entries) <= MaxListLevel {
		s.entries = append(s.entries, indentEntry{indent: indent, format: format})
	}
	return clampLevel(len(s.entries) - 1)
}

// Reset closes every level, as when a non-list paragraph intervenes
func (s *IndentStack) Reset() {
	s.entries = s.entries[:0]
}

// Depth returns the number of open levels
func (s *IndentStack) Depth() int {
	return len(s.entries)
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxListLevel {
		return MaxListLevel
	}
	return level
}

package layout

import "testing"

func TestMatchMarker(t *testing.T) {
	tests := []struct {
		text   string
		ok     bool
		kind   ListKind
		format string
		punct  string
		rest   string
	}{
		{"• First item", true, ListBullet, FormatBullet, "", "First item"},
		{"- dash item", true, ListBullet, FormatBullet, "", "dash item"},
		{"1. One", true, ListOrdered, FormatDecimal, PunctDot, "One"},
		{"2) Two", true, ListOrdered, FormatDecimal, PunctParen, "Two"},
		{"(3) Three", true, ListOrdered, FormatDecimal, PunctEnclosed, "Three"},
		{"iv. Four", true, ListOrdered, FormatLowerRoman, PunctDot, "Four"},
		{"I. Intro", true, ListOrdered, FormatUpperRoman, PunctDot, "Intro"},
		{"c. see", true, ListOrdered, FormatLowerLetter, PunctDot, "see"},
		{"A. Alpha", true, ListOrdered, FormatUpperLetter, PunctDot, "Alpha"},
		{"(b) bee", true, ListOrdered, FormatLowerLetter, PunctEnclosed, "bee"},
		{"Hello world", false, "", "", "", ""},
		{"1.5 million", false, "", "", "", ""},
		{"•no space", false, "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m, ok := MatchMarker(tt.text)
			if ok != tt.ok {
				t.Fatalf("MatchMarker(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if !ok {
				return
			}
			if m.Kind != tt.kind || m.Format != tt.format || m.Punctuation != tt.punct {
				t.Errorf("got %s/%s/%s, want %s/%s/%s", m.Kind, m.Format, m.Punctuation, tt.kind, tt.format, tt.punct)
			}
			if m.Rest != tt.rest {
				t.Errorf("Rest = %q, want %q", m.Rest, tt.rest)
			}
		})
	}
}

func TestRoleMarker(t *testing.T) {
	if _, ok := RoleMarker("LI", "text"); !ok {
		t.Error("LI should mark a list item")
	}
	if _, ok := RoleMarker("P", "text"); ok {
		t.Error("P should not mark a list item")
	}
}

func TestIndentStack(t *testing.T) {
	s := NewIndentStack(DefaultListConfig())
	steps := []struct {
		indent float64
		want   int
	}{
		{90, 0},
		{108, 1},
		{126, 2},
		{110, 1},
		{92, 0},
		{126, 1},
	}
	for i, step := range steps {
		if got := s.Level(step.indent, FormatBullet); got != step.want {
			t.Errorf("step %d: Level(%v) = %d, want %d", i, step.indent, got, step.want)
		}
	}

	s.Reset()
	if s.Depth() != 0 {
		t.Errorf("Depth() after Reset = %d, want 0", s.Depth())
	}
}

func TestIndentStack_Format(t *testing.T) {
	s := NewIndentStack(DefaultListConfig())
	steps := []struct {
		indent float64
		format string
		want   int
	}{
		{90, FormatBullet, 0},
		{90, "decimal:dot", 1},
		{91, "decimal:dot", 1},
		{90, FormatBullet, 0},
		{90, "decimal:paren", 1},
		{108, "decimal:paren", 2},
		{90, "decimal:paren", 1},
		{90, FormatBullet, 0},
	}
	for i, step := range steps {
		if got := s.Level(step.indent, step.format); got != step.want {
			t.Errorf("step %d: Level(%v, %q) = %d, want %d", i, step.indent, step.format, got, step.want)
		}
	}
	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}
}

func TestIndentStack_Clamp(t *testing.T) {
	s := NewIndentStack(DefaultListConfig())
	level := 0
	for i := 0; i < 12; i++ {
		level = s.Level(float64(i)*20, FormatDecimal)
	}
	if level != MaxListLevel {
		t.Errorf("Level = %d, want %d", level, MaxListLevel)
	}
}

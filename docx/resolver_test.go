package docx

import (
	"encoding/xml"
	"testing"
)

// catalogResolver decodes the styles part the writer emits
func catalogResolver(t *testing.T) *StyleResolver {
	t.Helper()
	data, err := stylesPart("")
	if err != nil {
		t.Fatalf("stylesPart() error = %v", err)
	}
	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		t.Fatalf("decoding styles: %v", err)
	}
	return NewStyleResolver(&styles)
}

func TestStyleResolver_Catalog(t *testing.T) {
	sr := catalogResolver(t)

	tests := []struct {
		id          string
		font        string
		size        float64
		bold        bool
		italic      bool
		alignment   string
		spaceBefore float64
		spaceAfter  float64
		level       int
	}{
		{"Normal", "Calibri", 11, false, false, "left", 0, 8, 0},
		{"Title", "Calibri", 24, true, false, "center", 0, 8, 1},
		{"Heading1", "Calibri", 16, true, false, "left", 12, 6, 1},
		{"Heading3", "Calibri", 11, true, false, "left", 12, 6, 3},
		{"TOCHeading", "Calibri", 16, true, false, "left", 12, 6, 1},
		{"Caption", "Calibri", 9, false, true, "center", 6, 6, 0},
		{"Code", "Courier New", 10, false, false, "left", 0, 8, 0},
		{"FootnoteText", "Calibri", 10, false, false, "left", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s := sr.Resolve(tt.id)
			if s.FontName != tt.font {
				t.Errorf("FontName = %q, want %q", s.FontName, tt.font)
			}
			if s.FontSize != tt.size {
				t.Errorf("FontSize = %v, want %v", s.FontSize, tt.size)
			}
			if s.Bold != tt.bold || s.Italic != tt.italic {
				t.Errorf("Bold, Italic = %v, %v, want %v, %v", s.Bold, s.Italic, tt.bold, tt.italic)
			}
			if s.Alignment != tt.alignment {
				t.Errorf("Alignment = %q, want %q", s.Alignment, tt.alignment)
			}
			if s.SpaceBefore != tt.spaceBefore || s.SpaceAfter != tt.spaceAfter {
				t.Errorf("spacing = %v/%v, want %v/%v", s.SpaceBefore, s.SpaceAfter, tt.spaceBefore, tt.spaceAfter)
			}
			if s.HeadingLevel != tt.level || s.IsHeading != (tt.level > 0) {
				t.Errorf("heading = %v/%d, want level %d", s.IsHeading, s.HeadingLevel, tt.level)
			}
		})
	}
}

func TestStyleResolver_Defaults(t *testing.T) {
	for _, sr := range []*StyleResolver{NewStyleResolver(nil), catalogResolver(t)} {
		s := sr.Resolve("NoSuchStyle")
		if s.FontName != "Calibri" || s.FontSize != 11 || s.Alignment != "left" {
			t.Errorf("Resolve(unknown) = %+v, want document defaults", s)
		}
		if s.IsHeading {
			t.Error("unknown style resolved as a heading")
		}
	}
}

func TestStyleResolver_BasedOnCycle(t *testing.T) {
	styles := &stylesXML{
		Styles: []styleDefXML{
			{StyleID: "Memo", BasedOn: valXML{Val: "Letter"}, RPr: runPropsXML{FontSize: sizeXML{Val: "20"}}},
			{StyleID: "Letter", BasedOn: valXML{Val: "Memo"}, PPr: paragraphPropsXML{OutlineLvl: outlineLvlXML{Val: "1"}}},
		},
	}
	sr := NewStyleResolver(styles)
	s := sr.Resolve("Memo")
	if s.FontSize != 10 {
		t.Errorf("FontSize = %v, want 10", s.FontSize)
	}
	if s.HeadingLevel != 2 {
		t.Errorf("HeadingLevel = %d, want 2 from the outline level", s.HeadingLevel)
	}
}

func TestStyleResolver_ResolveRun(t *testing.T) {
	sr := catalogResolver(t)
	on := boolXML{XMLName: xml.Name{Local: "b"}}

	tests := []struct {
		name      string
		style     string
		props     runPropsXML
		font      string
		size      float64
		bold      bool
		underline bool
		color     string
	}{
		{"paragraph style", "Code", runPropsXML{}, "Courier New", 10, false, false, ""},
		{"direct bold", "Normal", runPropsXML{Bold: on, FontSize: sizeXML{Val: "28"}}, "Calibri", 14, true, false, ""},
		{"bold switched off", "Heading1", runPropsXML{Bold: boolXML{XMLName: xml.Name{Local: "b"}, Val: "0"}}, "Calibri", 16, false, false, ""},
		{"character style", "Normal", runPropsXML{Style: styleRefXML{Val: "Hyperlink"}}, "Calibri", 11, false, true, "0563C1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sr.ResolveRun(tt.style, runXML{Content: "text", Properties: tt.props})
			if r.Text != "text" {
				t.Errorf("Text = %q", r.Text)
			}
			if r.FontName != tt.font || r.FontSize != tt.size {
				t.Errorf("font = %s %v, want %s %v", r.FontName, r.FontSize, tt.font, tt.size)
			}
			if r.Bold != tt.bold {
				t.Errorf("Bold = %v, want %v", r.Bold, tt.bold)
			}
			if r.Underline != tt.underline || r.Color != tt.color {
				t.Errorf("Underline, Color = %v, %q, want %v, %q", r.Underline, r.Color, tt.underline, tt.color)
			}
		})
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		input      string
		halfPoints float64
		twips      float64
	}{
		{"24", 12, 1.2},
		{"240", 120, 12},
		{"20", 10, 1},
		{"", 0, 0},
		{"wide", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseHalfPoints(tt.input); got != tt.halfPoints {
				t.Errorf("parseHalfPoints(%q) = %v, want %v", tt.input, got, tt.halfPoints)
			}
			if got := parseTwips(tt.input); got != tt.twips {
				t.Errorf("parseTwips(%q) = %v, want %v", tt.input, got, tt.twips)
			}
		})
	}
}

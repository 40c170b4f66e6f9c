package layout

import (
	"testing"

	"github.com/tsawler/pdf2docx/model"
)

func TestSplitNoteMarker(t *testing.T) {
	tests := []struct {
		text   string
		marker string
		rest   string
		ok     bool
	}{
		{"1 See the appendix.", "1", "See the appendix.", true},
		{"12. Reference text", "12", "Reference text", true},
		{"* Estimated", "*", "Estimated", true},
		{"†Deceased", "†", "Deceased", true},
		{"1", "", "", false},
		{"Regular text", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			marker, rest, ok := SplitNoteMarker(tt.text)
			if ok != tt.ok || marker != tt.marker || rest != tt.rest {
				t.Errorf("SplitNoteMarker(%q) = %q, %q, %v; want %q, %q, %v", tt.text, marker, rest, ok, tt.marker, tt.rest, tt.ok)
			}
		})
	}
}

func TestIsNoteMarker(t *testing.T) {
	for _, s := range []string{"3", " 12 ", "*", "‡‡"} {
		if !IsNoteMarker(s) {
			t.Errorf("IsNoteMarker(%q) = false", s)
		}
	}
	for _, s := range []string{"a", "1234", "", "2x"} {
		if IsNoteMarker(s) {
			t.Errorf("IsNoteMarker(%q) = true", s)
		}
	}
}

func TestFootnoteConfig_InBand(t *testing.T) {
	config := DefaultFootnoteConfig()
	note := func(top, size float64) model.TextBlock {
		return model.TextBlock{
			BBox:     model.NewBBox(72, top-size, 300, size),
			FontSize: size,
			Spans:    []model.Span{{Text: "1 A note", FontSize: size}},
		}
	}
	// Band limit is 72 + max(72, 0.15 x 792) = 190.8
	if !config.InBand(note(150, 9), 72, 792) {
		t.Error("small text low on the page should be in the band")
	}
	if config.InBand(note(300, 9), 72, 792) {
		t.Error("text above the band should not match")
	}
	if config.InBand(note(150, 14), 72, 792) {
		t.Error("large text should not match")
	}
}

func TestMeanFontSize(t *testing.T) {
	b := model.TextBlock{
		FontSize: 10,
		Spans: []model.Span{
			{Text: "abc", FontSize: 8},
			{Text: "d ", FontSize: 12},
		},
	}
	if got := MeanFontSize(b); got != 9 {
		t.Errorf("MeanFontSize() = %v, want 9", got)
	}
	if got := MeanFontSize(model.TextBlock{FontSize: 11}); got != 11 {
		t.Errorf("MeanFontSize() without spans = %v, want 11", got)
	}
}

func TestScriptMarkers(t *testing.T) {
	b := model.TextBlock{Spans: []model.Span{
		{Text: "Revenue grew"},
		{Text: "2", Superscript: true},
		{Text: " last year"},
		{Text: "nd", Superscript: true},
	}}
	got := ScriptMarkers(b)
	if len(got) != 1 || got[1] != "2" {
		t.Errorf("ScriptMarkers() = %v, want map[1:2]", got)
	}
}

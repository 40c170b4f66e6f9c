package layout

import (
	"math"
	"regexp"
	"strings"

	"github.com/tsawler/pdf2docx/model"
)

// FootnoteConfig holds configuration for footnote candidates
type FootnoteConfig struct {
	// MinBand is the smallest height of the footnote band above the bottom
	// margin (default: 72)
	MinBand float64

	// BandFraction is the band height as a fraction of the page height when
	// that exceeds MinBand (default: 0.15)
	BandFraction float64

	// MaxMeanSize is the largest mean font size of footnote text (default: 12.5)
	MaxMeanSize float64
}

// DefaultFootnoteConfig returns sensible default configuration
func DefaultFootnoteConfig() FootnoteConfig {
	return FootnoteConfig{MinBand: 72, BandFraction: 0.15, MaxMeanSize: 12.5}
}

// InBand reports whether a paragraph sits low enough and small enough to be
// footnote text
func (c FootnoteConfig) InBand(b model.TextBlock, marginBottom, pageHeight float64) bool {
	limit := marginBottom + math.Max(c.MinBand, c.BandFraction*pageHeight)
	return b.BBox.Top() <= limit && MeanFontSize(b) <= c.MaxMeanSize
}

// MeanFontSize averages span sizes weighted by character count
func MeanFontSize(b model.TextBlock) float64 {
	total, weight := 0.0, 0
	for _, sp := range b.Spans {
		n := len([]rune(strings.TrimSpace(sp.Text)))
		total += sp.FontSize * float64(n)
		weight += n
	}
	if weight == 0 {
		return b.FontSize
	}
	return total / float64(weight)
}

var (
	noteMarker     = regexp.MustCompile(`^\s*(\d{1,3}|[*†‡§¶]{1,3})[.)]?\s*`)
	noteMarkerOnly = regexp.MustCompile(`^(\d{1,3}|[*†‡§¶]{1,3})$`)
)

// SplitNoteMarker splits a leading footnote marker from paragraph text.
// The marker must be followed by text.
func SplitNoteMarker(text string) (marker, rest string, ok bool) {
	m := noteMarker.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	rest = strings.TrimSpace(text[len(m[0]):])
	if rest == "" {
		return "", "", false
	}
	return m[1], rest, true
}

// IsNoteMarker reports whether text is a bare footnote marker
func IsNoteMarker(text string) bool {
	return noteMarkerOnly.MatchString(strings.TrimSpace(text))
}

// ScriptMarkers returns the superscript spans of a block that read as
// footnote markers, by span index
func ScriptMarkers(b model.TextBlock) map[int]string {
	out := make(map[int]string)
	for i, sp := range b.Spans {
		if sp.Superscript && IsNoteMarker(sp.Text) {
			out[i] = strings.TrimSpace(sp.Text)
		}
	}
	return out
}

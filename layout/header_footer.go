package layout

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/pdf2docx/model"
)

// RegionKind selects the page band examined for repeating content
type RegionKind int

const (
	RegionHeader RegionKind = iota
	RegionFooter
)

// String returns the region name
func (k RegionKind) String() string {
	if k == RegionFooter {
		return "footer"
	}
	return "header"
}

// HeaderFooterConfig holds configuration for header/footer detection
type HeaderFooterConfig struct {
	// BandTolerance extends the margin to form the header or footer band
	// (default: 24 points)
	BandTolerance float64

	// MaxParagraphs is the most paragraphs taken from one band (default: 3)
	MaxParagraphs int

	// MinRepeats is how many pages must share a signature (default: 2)
	MinRepeats int
}

// DefaultHeaderFooterConfig returns sensible default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		BandTolerance: 24,
		MaxParagraphs: 3,
		MinRepeats:    2,
	}
}

// RegionParagraph is a single-page paragraph offered to the detector
type RegionParagraph struct {
	ID   int
	Page int
	Text string
	BBox model.BBox
}

// PageFrame is the geometry the bands are measured against
type PageFrame struct {
	Height  float64
	Margins Margins
}

// RegionMatch is a detected repeating header or footer
type RegionMatch struct {
	Kind      RegionKind
	Signature string

	// Pages are the pages whose band carries the signature
	Pages []int

	// Default lists the paragraph IDs forming the default container, taken
	// from the first matching page
	Default []int

	// FirstPage lists the IDs of a distinct first-page variant, or nil
	FirstPage []int

	// Remove lists every paragraph ID to take out of the body
	Remove []int
}

// HeaderFooterDetector finds header and footer text repeated across pages
type HeaderFooterDetector struct {
	config HeaderFooterConfig
}

// NewHeaderFooterDetector creates a new detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return &HeaderFooterDetector{config: DefaultHeaderFooterConfig()}
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	return &HeaderFooterDetector{config: config}
}

type bandCandidate struct {
	ids       []int
	signature string
}

// Detect looks for the most common band signature over pages. It returns
// nil when no signature repeats MinRepeats times.
func (d *HeaderFooterDetector) Detect(kind RegionKind, pages []int, paras []RegionParagraph, frames map[int]PageFrame) *RegionMatch {
	byPage := make(map[int][]RegionParagraph)
	for _, p := range paras {
		byPage[p.Page] = append(byPage[p.Page], p)
	}

	// Step 1: band candidates per page
	candidates := make(map[int]bandCandidate)
	for _, page := range pages {
		frame, ok := frames[page]
		if !ok {
			continue
		}
		var band []RegionParagraph
		for _, p := range byPage[page] {
			if d.inBand(kind, p.BBox, frame) {
				band = append(band, p)
			}
		}
		if len(band) == 0 {
			continue
		}
		sortBand(kind, band)
		if len(band) > d.config.MaxParagraphs {
			band = band[:d.config.MaxParagraphs]
		}
		var c bandCandidate
		var sig []string
		for _, p := range band {
			c.ids = append(c.ids, p.ID)
			if s := Signature(p.Text, kind == RegionFooter); s != "" {
				sig = append(sig, s)
			}
		}
		c.signature = strings.Join(sig, "\x1f")
		candidates[page] = c
	}

	// Step 2: most common signature, earliest page breaking ties
	counts := make(map[string]int)
	var order []string
	for _, page := range pages {
		c, ok := candidates[page]
		if !ok || c.signature == "" {
			continue
		}
		if counts[c.signature] == 0 {
			order = append(order, c.signature)
		}
		counts[c.signature]++
	}
	best, n := "", 0
	for _, s := range order {
		if counts[s] > n {
			best, n = s, counts[s]
		}
	}
	if n < d.config.MinRepeats {
		return nil
	}

	// Step 3: collect matches and the first-page variant
	match := &RegionMatch{Kind: kind, Signature: best}
	for _, page := range pages {
		c, ok := candidates[page]
		if !ok || c.signature != best {
			continue
		}
		match.Pages = append(match.Pages, page)
		match.Remove = append(match.Remove, c.ids...)
		if match.Default == nil {
			match.Default = c.ids
		}
	}
	if len(pages) > 0 {
		first := pages[0]
		if c, ok := candidates[first]; ok && c.signature != best && len(c.ids) > 0 {
			match.FirstPage = c.ids
			match.Remove = append(match.Remove, c.ids...)
		}
	}
	return match
}

func (d *HeaderFooterDetector) inBand(kind RegionKind, b model.BBox, f PageFrame) bool {
	if kind == RegionHeader {
		return f.Height-b.Top() <= f.Margins.Top+d.config.BandTolerance
	}
	return b.Bottom() <= f.Margins.Bottom+d.config.BandTolerance
}

// sortBand orders header paragraphs top down and footer paragraphs bottom up
func sortBand(kind RegionKind, band []RegionParagraph) {
	sort.SliceStable(band, func(i, j int) bool {
		if kind == RegionHeader {
			return band[i].BBox.Top() > band[j].BBox.Top()
		}
		return band[i].BBox.Bottom() < band[j].BBox.Bottom()
	})
}

var (
	digitRun = regexp.MustCompile(`\d+`)
	spaceRun = regexp.MustCompile(`\s+`)
)

// Signature normalizes band text for comparison: whitespace collapsed and
// lowercased, digits removed when stripDigits is set so page numbers match.
// Text made only of digits signs as "#".
func Signature(s string, stripDigits bool) string {
	text := strings.TrimSpace(s)
	if text == "" {
		return ""
	}
	working := text
	if stripDigits {
		working = digitRun.ReplaceAllString(working, "")
	}
	if cleaned := strings.ToLower(strings.TrimSpace(spaceRun.ReplaceAllString(working, " "))); cleaned != "" {
		return cleaned
	}
	if stripDigits {
		// A bare page number.
		return "#"
	}
	return strings.ToLower(spaceRun.ReplaceAllString(text, " "))
}

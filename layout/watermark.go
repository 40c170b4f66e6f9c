package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdf2docx/model"
)

// WatermarkConfig holds configuration for watermark detection
type WatermarkConfig struct {
	// CenterFraction is how far the block center may sit from the page
	// center, as a fraction of the page size on each axis (default: 0.3,
	// the band from 0.2 to 0.8 of the page)
	CenterFraction float64

	// MinPages is the fewest pages a watermark must appear on (default: 2)
	MinPages int

	// PageFraction is the share of pages a watermark must appear on
	// (default: 0.8)
	PageFraction float64
}

// DefaultWatermarkConfig returns sensible default configuration
func DefaultWatermarkConfig() WatermarkConfig {
	return WatermarkConfig{CenterFraction: 0.3, MinPages: 2, PageFraction: 0.8}
}

// WatermarkDetector collects centered text across pages and reports the
// text repeated on enough of them
type WatermarkDetector struct {
	config WatermarkConfig
	pages  map[string]map[int]bool
}

// NewWatermarkDetector creates a detector with default configuration
func NewWatermarkDetector() *WatermarkDetector {
	return NewWatermarkDetectorWithConfig(DefaultWatermarkConfig())
}

// NewWatermarkDetectorWithConfig creates a detector with custom configuration
func NewWatermarkDetectorWithConfig(config WatermarkConfig) *WatermarkDetector {
	return &WatermarkDetector{config: config, pages: make(map[string]map[int]bool)}
}

// Candidate reports whether the block is centered enough to be a watermark
func (d *WatermarkDetector) Candidate(b model.TextBlock, width, height float64) bool {
	c := b.BBox.Center()
	return math.Abs(c.X-width/2) <= d.config.CenterFraction*width &&
		math.Abs(c.Y-height/2) <= d.config.CenterFraction*height &&
		NormalizeWatermark(b.Text) != ""
}

// Observe records a centered block on page
func (d *WatermarkDetector) Observe(page int, b model.TextBlock, width, height float64) bool {
	if !d.Candidate(b, width, height) {
		return false
	}
	key := NormalizeWatermark(b.Text)
	if d.pages[key] == nil {
		d.pages[key] = make(map[int]bool)
	}
	d.pages[key][page] = true
	return true
}

// Watermarks returns the normalized texts seen on at least
// max(MinPages, PageFraction * pageCount) pages, sorted
func (d *WatermarkDetector) Watermarks(pageCount int) []string {
	need := int(math.Ceil(d.config.PageFraction * float64(pageCount)))
	if need < d.config.MinPages {
		need = d.config.MinPages
	}
	var out []string
	for text, pages := range d.pages {
		if len(pages) >= need {
			out = append(out, text)
		}
	}
	sort.Strings(out)
	return out
}

// NormalizeWatermark lowercases text and collapses its whitespace
func NormalizeWatermark(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

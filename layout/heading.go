package layout

import (
	"math"
	"sort"
	"strings"
)

// Paragraph style names shared with the package writer
const (
	StyleNormal   = "Normal"
	StyleTitle    = "Title"
	StyleSubtitle = "Subtitle"
	StyleHeading1 = "Heading1"
	StyleHeading2 = "Heading2"
	StyleHeading3 = "Heading3"
	StyleQuote    = "Quote"
	StyleCode     = "Code"
	StyleCaption  = "Caption"
	StyleList     = "ListParagraph"
)

// HeadingConfig holds configuration for heading classification
type HeadingConfig struct {
	// Heading1Ratio is the font size ratio to body text at or above which a
	// paragraph is a level 1 heading (default: 1.8)
	Heading1Ratio float64

	// Heading2Ratio is the level 2 threshold (default: 1.5)
	Heading2Ratio float64

	// Heading3Ratio is the level 3 threshold (default: 1.3)
	Heading3Ratio float64

	// MaxLines is the most lines a size-classified heading may span (default: 3)
	MaxLines int
}

// DefaultHeadingConfig returns sensible default configuration
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		Heading1Ratio: 1.8,
		Heading2Ratio: 1.5,
		Heading3Ratio: 1.3,
		MaxLines:      3,
	}
}

// HeadingClassifier assigns paragraph styles from structure roles and from
// font size relative to a running sample of the document's text sizes
type HeadingClassifier struct {
	config HeadingConfig
	sizes  map[float64]int // half-point size to character count
}

// NewHeadingClassifier creates a classifier with default configuration
func NewHeadingClassifier() *HeadingClassifier {
	return NewHeadingClassifierWithConfig(DefaultHeadingConfig())
}

// NewHeadingClassifierWithConfig creates a classifier with custom configuration
func NewHeadingClassifierWithConfig(config HeadingConfig) *HeadingClassifier {
	return &HeadingClassifier{config: config, sizes: make(map[float64]int)}
}

// Observe adds text at size to the running sample
func (c *HeadingClassifier) Observe(size float64, chars int) {
	if size <= 0 || chars <= 0 {
		return
	}
	c.sizes[math.Round(size*2)/2] += chars
}

// BodySize returns the size carrying the most characters so far, or 0
func (c *HeadingClassifier) BodySize() float64 {
	keys := make([]float64, 0, len(c.sizes))
	for k := range c.sizes {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	best, n := 0.0, 0
	for _, k := range keys {
		if c.sizes[k] > n {
			best, n = k, c.sizes[k]
		}
	}
	return best
}

// RoleStyle maps a structure role to a paragraph style, or ""
func RoleStyle(role string) string {
	r := strings.ToUpper(role)
	switch r {
	case "TITLE":
		return StyleTitle
	case "SUBTITLE":
		return StyleSubtitle
	case "QUOTE", "BLOCKQUOTE":
		return StyleQuote
	case "CODE", "PRE":
		return StyleCode
	case "CAPTION":
		return StyleCaption
	case "H", "H1":
		return StyleHeading1
	case "H2":
		return StyleHeading2
	case "H3", "H4", "H5", "H6":
		return StyleHeading3
	}
	return ""
}

// Classify returns the paragraph style for text of the given size, role and
// line count
func (c *HeadingClassifier) Classify(role string, size float64, lines int) string {
	if style := RoleStyle(role); style != "" {
		return style
	}
	body := c.BodySize()
	if body <= 0 || size <= 0 || (c.config.MaxLines > 0 && lines > c.config.MaxLines) {
		return StyleNormal
	}
	ratio := size / body
	switch {
	case ratio >= c.config.Heading1Ratio:
		return StyleHeading1
	case ratio >= c.config.Heading2Ratio:
		return StyleHeading2
	case ratio >= c.config.Heading3Ratio:
		return StyleHeading3
	}
	return StyleNormal
}

// HeadingLevel returns 1..3 for heading styles, 0 otherwise
func HeadingLevel(style string) int {
	switch style {
	case StyleHeading1, StyleTitle:
		return 1
	case StyleHeading2:
		return 2
	case StyleHeading3:
		return 3
	}
	return 0
}

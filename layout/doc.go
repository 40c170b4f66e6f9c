// Package layout recovers document structure from the primitives of a PDF
// page.
//
// # Page Analysis
//
// The [Analyzer] runs every per-page step:
//
//	analyzer := layout.NewAnalyzer()
//	page := analyzer.Analyze(content, content.Roles)
//
// Glyphs are clustered into lines, words and segments, underline rules are
// matched to the text above them, tables are detected among the segments
// (see package tables), the remaining segments merge into paragraphs, and
// math-tagged paragraphs become equations. Margins and columns are then
// estimated, paragraphs receive alignment and indentation, filled
// rectangles behind text become paragraph shading, leftover vectors group
// into drawings, and every element is placed in reading order.
//
// # Detectors
//
//   - [LineDetector] - glyphs to lines, words and segments
//   - [ParagraphDetector] - segments to paragraphs
//   - [ColumnDetector] - multi-column layouts from paragraph left edges
//   - [ReadingOrderDetector] - column-aware element order
//
// # Document-Level Helpers
//
// Some structure only shows across pages. The builder feeds these helpers
// while it walks the document:
//
//   - [HeadingClassifier] - heading styles from a running font size sample
//   - [IndentStack] - list levels from marker indentation
//   - [HeaderFooterDetector] - repeated header and footer bands
//   - [WatermarkDetector] - centered text repeated on most pages
//   - [FootnoteConfig] - footnote bands and note markers
package layout

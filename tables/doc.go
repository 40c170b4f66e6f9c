// Package tables detects tables among the text segments and ruling lines of
// a page.
//
// # Detectors
//
// Detection runs as ordered passes, each implementing [Detector]. A pass may
// only claim text segments that no earlier pass claimed:
//
//   - [TaggedDetector] - segments carrying table cell structure roles
//   - [RulingDetector] - grids drawn with horizontal and vertical rules
//   - [WhitespaceDetector] - segments aligned into rows and columns by gaps
//
// [Detect] runs the default passes:
//
//	found := tables.Detect(tables.Input{Blocks: segs, Lines: lines, PageWidth: w}, tables.DefaultConfig())
//
// # Grid Construction
//
// Every pass reduces its evidence to row edges (descending y) and column
// edges (ascending x) and hands the segments to the same grid builder. The
// builder projects each segment onto the grid to derive its row and column
// span, merges segments starting in the same cell, and emits rows that each
// cover exactly [Table.ColumnCount] grid columns once spans are expanded.
//
// # Cell Styling
//
// Header cells (bold text or a header role) are centered and shaded D9D9D9.
// Numeric cells align right, very short alphabetic cells center.
//
// # Configuration
//
// [Config] holds the clustering tolerances and the density gate applied to
// whitespace tables:
//
//	config := tables.DefaultConfig()
//	config.MinFillRatio = 0.6
//	found := tables.Detect(in, config)
package tables

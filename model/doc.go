// Package model defines the page-level primitives produced by the content
// stream interpreter and consumed by layout analysis.
//
// All coordinates are PDF user space points with the origin at the bottom
// left of the page after the page's crop box offset has been removed. A
// [PageContent] is built once per page and treated as read-only afterward.
//
// # Geometry
//
//   - [BBox] - axis-aligned rectangle with intersection, union and overlap
//   - [Point] - 2D point
//   - [Matrix] - affine transform in PDF's [a b c d e f] layout
//
// # Primitives
//
//   - [Glyph] - decoded text chunk at a baseline origin
//   - [TextBlock] - clustered text with style and role, made of [Span]s
//   - [Image], [Line], [Path] - raster and vector content
//   - [FormField], [Link], [Annotation] - interactive page objects
package model

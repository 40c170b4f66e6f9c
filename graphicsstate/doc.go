// Package graphicsstate tracks the PDF graphics state while a content
// stream runs and turns painted paths into ruling lines.
//
// # Graphics State
//
// [GraphicsState] holds the CTM, stroke and fill colors, line width and
// the text state (font, size, spacing, scaling, leading, rise and the text
// matrices). q and Q map to Save and Restore; an unbalanced Restore reports
// false and leaves the state alone:
//
//	gs := graphicsstate.NewGraphicsState(page.BaseMatrix())
//	gs.Save()
//	gs.Transform(matrix)
//	gs.SetFont("F1", 12)
//	gs.Restore()
//
// # Paths
//
// [Path] records segments in device space as they are constructed, so a
// later cm does not move them. Curves are flattened into polylines by
// [Path.Flatten]. A [Painter] decides what a painted path becomes: thin
// filled rectangles and axis-aligned strokes become [model.Line] rules for
// table detection and underline matching, and everything else is kept as a
// flattened [model.Path] for drawing rasterization.
package graphicsstate

// Package builder assembles the intermediate document from analyzed pages.
//
// A [Builder] is a small state machine. Pages are opened with
// [Builder.BeginPage], which starts a new [ir.Section] whenever the page
// geometry changes; text blocks, tables, pictures and equations are then
// added in reading order, and [Builder.EndPage] closes the page. A text
// block either extends the pending paragraph or flushes it and starts a new
// one, so paragraphs can continue across page breaks.
//
// [Builder.Build] runs the document level passes in a fixed order:
// watermarks, header and footer promotion, footnote matching, comments,
// then outline and table of contents synthesis. Passes relocate paragraph
// handles; they never copy body paragraphs.
//
//	b := builder.New(builder.DefaultConfig())
//	for _, pl := range layouts {
//		b.BeginPage(builder.PageOf(pl))
//		for _, p := range pl.Paragraphs {
//			b.AddTextBlock(builder.FromParagraph(p))
//		}
//		b.EndPage()
//	}
//	doc := b.Build(builder.DocumentInfo{PageCount: len(layouts)})
package builder

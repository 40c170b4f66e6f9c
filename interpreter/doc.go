// Package interpreter executes page content streams and collects what they
// draw as a [model.PageContent]: positioned glyphs, images, ruling lines
// and flattened vector paths.
//
// The interpreter is forgiving. Unknown operators are skipped, operators
// with the wrong operands are ignored, an unbalanced Q is dropped, and
// fonts or images that cannot be decoded fall back to a default font or a
// placeholder picture. Each such fallback is recorded as an [Issue] so the
// caller can report it, and the page is never abandoned.
//
//	in := interpreter.New(doc.Resolver())
//	content, err := in.Interpret(ctx, page)
//	for _, issue := range in.Issues() {
//		log.Println(issue)
//	}
package interpreter

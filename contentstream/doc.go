// Package contentstream tokenizes PDF content streams.
//
// A content stream is a sequence of operands followed by an operator:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// Parsing is tolerant. Bytes that cannot be tokenized are skipped and the
// first problem is reported as an error wrapping ErrSyntax, while the
// operations recovered from the rest of the stream are still returned.
//
// Comments (%) are dropped. Inline images (BI ... ID ... EI) are returned
// as a single "BI" operation whose Image field carries the abbreviated
// image dictionary and the raw sample data.
//
// Operands can be any direct PDF object:
//   - Numbers (core.Int, core.Real)
//   - Strings (core.String)
//   - Names (core.Name)
//   - Arrays (core.Array)
//   - Dictionaries (core.Dict)
//   - Booleans and null
package contentstream

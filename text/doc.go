// Package text classifies characters by script and writing direction.
//
// [DetectDirection] finds the dominant direction of a string from its
// strong characters, so paragraphs set in Hebrew or Arabic can be marked
// bidirectional. [HasEastAsian] drives vertical writing detection for
// rotated text.
package text

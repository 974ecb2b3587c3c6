// Package boundary computes character, word and line boundaries for cursor
// movement and click selection.
//
// Word boundaries use Unicode word segmentation (UAX #29) over a bounded
// window of text around the offset, so the cost of a query does not grow
// with the document. Punctuation characters are tokens of their own and
// whitespace-only segments are skipped.
//
// Moving backward treats leading indentation specially: from inside the
// indentation, or from the start of the first token after it, the cursor
// stops at the indentation start. Only a step taken from the indentation
// start itself crosses to the previous line.
//
// All offsets are character offsets.
package boundary

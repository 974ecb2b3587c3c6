package boundary

import (
	"unicode"

	"github.com/dshills/textengine/internal/engine/buffer"
)

// Window sizes, in characters, of the text examined around an offset.
const (
	backwardLookBehind = 1000
	backwardLookAhead  = 100
	forwardLookBehind  = 100
	forwardLookAhead   = 1000
	wordRangeRadius    = 500
)

// Text is the read surface boundary queries run against.
// *buffer.Buffer and *buffer.Snapshot implement it.
type Text interface {
	Len() int
	Slice(r buffer.Range) string
	CharToLine(offset int) int
	LineRange(line int) (buffer.Range, bool)
}

// window is a slice of the document with its position.
type window struct {
	start int
	runes []rune
	text  string
}

func cut(t Text, offset, behind, ahead int) window {
	start := max(offset-behind, 0)
	end := min(offset+ahead, t.Len())
	s := t.Slice(buffer.NewRange(start, end))
	return window{start: start, runes: []rune(s), text: s}
}

// PreviousBoundary moves back one character, clamped to 0.
func PreviousBoundary(t Text, offset int) int {
	return min(max(offset-1, 0), t.Len())
}

// NextBoundary moves forward one character, clamped to the text length.
func NextBoundary(t Text, offset int) int {
	return min(max(offset+1, 0), t.Len())
}

// PreviousWordBoundary returns the start of the word or punctuation token
// the offset is in or after.
func PreviousWordBoundary(t Text, offset int) int {
	offset = min(offset, t.Len())
	if offset <= 0 {
		return 0
	}

	w := cut(t, offset, backwardLookBehind, backwardLookAhead)
	rel := offset - w.start

	lineStart, known := w.lineStart(rel)
	if known {
		indentEnd, hasContent := w.indentEnd(lineStart)
		if hasContent && indentEnd > lineStart && lineStart < rel && rel <= indentEnd {
			return w.start + lineStart
		}
	}

	prev := 0
	for _, seg := range segments(w.text) {
		if seg.start >= rel {
			break
		}
		if rel <= seg.end {
			return w.start + seg.start
		}
		prev = seg.start
	}
	return w.start + prev
}

// NextWordBoundary returns the end of the word or punctuation token the
// offset is in or before.
func NextWordBoundary(t Text, offset int) int {
	n := t.Len()
	if offset >= n {
		return n
	}
	offset = max(offset, 0)

	w := cut(t, offset, forwardLookBehind, forwardLookAhead)
	rel := offset - w.start
	for _, seg := range segments(w.text) {
		if rel < seg.end {
			return w.start + seg.end
		}
	}
	return w.start + len(w.runes)
}

// WordRangeAtOffset returns the word or punctuation token containing
// offset. On whitespace it returns an empty range at the offset.
func WordRangeAtOffset(t Text, offset int) buffer.Range {
	n := t.Len()
	if offset >= n {
		return buffer.NewRange(n, n)
	}
	offset = max(offset, 0)

	w := cut(t, offset, wordRangeRadius, wordRangeRadius)
	rel := offset - w.start
	for _, seg := range segments(w.text) {
		if seg.contains(rel) {
			return buffer.NewRange(w.start+seg.start, w.start+seg.end)
		}
		if seg.start > rel {
			break
		}
	}
	return buffer.NewRange(offset, offset)
}

// LineRangeAtOffset returns the range of the line containing offset,
// including its terminator.
func LineRangeAtOffset(t Text, offset int) buffer.Range {
	n := t.Len()
	if n == 0 {
		return buffer.Range{}
	}
	offset = min(max(offset, 0), n)
	if r, ok := t.LineRange(t.CharToLine(offset)); ok {
		return r
	}
	return buffer.NewRange(offset, offset)
}

// lineStart returns the window-relative start of the line containing rel.
// known is false when the line begins before the window.
func (w window) lineStart(rel int) (start int, known bool) {
	for i := min(rel, len(w.runes)) - 1; i >= 0; i-- {
		if w.runes[i] == '\n' {
			return i + 1, true
		}
	}
	return 0, w.start == 0
}

// indentEnd returns the position of the first non-whitespace character of
// the line starting at lineStart. hasContent is false for blank lines.
func (w window) indentEnd(lineStart int) (end int, hasContent bool) {
	for i := lineStart; i < len(w.runes); i++ {
		r := w.runes[i]
		if r == '\n' {
			return i, false
		}
		if !unicode.IsSpace(r) {
			return i, true
		}
	}
	return len(w.runes), false
}

package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/textengine/internal/engine/rope"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	text
	revisionID RevisionID
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// Rope returns the underlying immutable rope.
func (s *Snapshot) Rope() rope.Rope {
	return s.rope
}

// text implements the character-addressed read operations shared by Buffer
// and Snapshot. It does no locking.
type text struct {
	rope rope.Rope
}

// Len returns the number of characters.
func (t text) Len() int {
	return t.rope.CharCount()
}

// ByteLen returns the UTF-8 byte length.
func (t text) ByteLen() int {
	return t.rope.Len()
}

// LineCount returns the number of lines; always at least 1.
func (t text) LineCount() int {
	return t.rope.LineCount()
}

// Text returns the full content as a string.
func (t text) Text() string {
	return t.rope.String()
}

// IsEmpty returns true if there is no text.
func (t text) IsEmpty() bool {
	return t.rope.IsEmpty()
}

// Slice returns the text in the character range r, clamped to [0, Len].
func (t text) Slice(r Range) string {
	start := t.rope.CharToByte(r.Start)
	end := t.rope.CharToByte(r.End)
	return t.rope.Slice(start, end)
}

// ByteSlice returns the text in the byte range [start, end), clamped.
func (t text) ByteSlice(start, end int) string {
	return t.rope.Slice(start, end)
}

// CharAt returns the character at offset.
func (t text) CharAt(offset int) (rune, bool) {
	if offset < 0 || offset >= t.Len() {
		return utf8.RuneError, false
	}
	b := t.rope.CharToByte(offset)
	s := t.rope.Slice(b, min(b+utf8.UTFMax, t.rope.Len()))
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

// CharToByte converts a character offset to a byte offset, clamped.
func (t text) CharToByte(offset int) int {
	return t.rope.CharToByte(offset)
}

// ByteToChar converts a byte offset to a character offset, clamped.
func (t text) ByteToChar(offset int) int {
	return t.rope.ByteToChar(offset)
}

// CharToLine returns the line containing the character offset.
// Offsets past the end resolve to the last line.
func (t text) CharToLine(offset int) int {
	return t.rope.CharToLine(offset)
}

// ByteToLine returns the line containing the byte offset.
func (t text) ByteToLine(offset int) int {
	return t.rope.ByteToLine(offset)
}

// LineToChar returns the character offset at which line starts.
// Lines past the end resolve to Len.
func (t text) LineToChar(line int) int {
	return t.rope.LineToChar(line)
}

// LineRange returns the character range of line, including its terminator
// unless it is the last line.
func (t text) LineRange(line int) (Range, bool) {
	if line < 0 || line >= t.LineCount() {
		return Range{}, false
	}
	start := t.rope.LineToChar(line)
	end := t.rope.CharCount()
	if line+1 < t.LineCount() {
		end = t.rope.LineToChar(line + 1)
	}
	return Range{Start: start, End: end}, true
}

// LineByteRange returns the byte range of line, including its terminator
// unless it is the last line.
func (t text) LineByteRange(line int) (start, end int, ok bool) {
	if line < 0 || line >= t.LineCount() {
		return 0, 0, false
	}
	start = t.rope.LineToByte(line)
	end = t.rope.Len()
	if line+1 < t.LineCount() {
		end = t.rope.LineToByte(line + 1)
	}
	return start, end, true
}

// LineContent returns the text of line without its "\n" or "\r\n".
// When the line lies inside a single storage chunk the result shares
// memory with the rope instead of being copied.
func (t text) LineContent(line int) (string, bool) {
	start, end, ok := t.LineByteRange(line)
	if !ok {
		return "", false
	}
	s := t.rope.Slice(start, end)
	if strings.HasSuffix(s, "\n") {
		s = strings.TrimSuffix(s[:len(s)-1], "\r")
	}
	return s, true
}

// OffsetToPoint converts a character offset to line/column.
func (t text) OffsetToPoint(offset int) Point {
	offset = min(max(offset, 0), t.Len())
	line := t.rope.CharToLine(offset)
	return Point{Line: line, Column: offset - t.rope.LineToChar(line)}
}

// PointToOffset converts line/column to a character offset. Columns past
// the end of the line clamp to the line's content end.
func (t text) PointToOffset(p Point) int {
	r, ok := t.LineRange(p.Line)
	if !ok {
		if p.Line < 0 {
			return 0
		}
		return t.Len()
	}
	content, _ := t.LineContent(p.Line)
	return r.Start + min(max(p.Column, 0), charLen(content))
}

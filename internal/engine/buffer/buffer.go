package buffer

import (
	"errors"
	"io"
	"sync"

	"github.com/dshills/textengine/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer wraps a Rope with character-addressed editing operations.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       text
	revisionID RevisionID
	lineEnding LineEnding
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		text:       text{rope: rope.New()},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.text.rope = rope.FromString(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	rp, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}
	b := NewBuffer(opts...)
	b.text.rope = rp
	return b, nil
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.Text()
}

// Slice returns the text in the character range r, clamped to the buffer.
func (b *Buffer) Slice(r Range) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.Slice(r)
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.Len()
}

// ByteLen returns the UTF-8 byte length of the buffer.
func (b *Buffer) ByteLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.ByteLen()
}

// ByteSlice returns the text in the byte range [start, end), clamped.
func (b *Buffer) ByteSlice(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.ByteSlice(start, end)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.IsEmpty()
}

// LineCount returns the number of lines; always at least 1.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineCount()
}

// CharAt returns the character at offset.
func (b *Buffer) CharAt(offset int) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.CharAt(offset)
}

// CharToLine returns the line containing a character offset.
func (b *Buffer) CharToLine(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.CharToLine(offset)
}

// ByteToLine returns the line containing a byte offset.
func (b *Buffer) ByteToLine(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.ByteToLine(offset)
}

// LineToChar returns the character offset at which a line starts.
func (b *Buffer) LineToChar(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineToChar(line)
}

// CharToByte converts a character offset to a byte offset.
func (b *Buffer) CharToByte(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.CharToByte(offset)
}

// ByteToChar converts a byte offset to a character offset.
func (b *Buffer) ByteToChar(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.ByteToChar(offset)
}

// LineRange returns the character range of a line, terminator included.
func (b *Buffer) LineRange(line int) (Range, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineRange(line)
}

// LineByteRange returns the byte range of a line, terminator included.
func (b *Buffer) LineByteRange(line int) (start, end int, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineByteRange(line)
}

// LineContent returns the text of a line with its terminator stripped.
func (b *Buffer) LineContent(line int) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineContent(line)
}

// OffsetToPoint converts a character offset to line/column.
func (b *Buffer) OffsetToPoint(offset int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a character offset.
func (b *Buffer) PointToOffset(p Point) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.PointToOffset(p)
}

// Write Operations

// Insert inserts text at the given character offset.
func (b *Buffer) Insert(offset int, text string) (EditResult, error) {
	return b.ApplyEdit(NewInsert(offset, text))
}

// Remove deletes the text in the given character range.
func (b *Buffer) Remove(r Range) (EditResult, error) {
	return b.ApplyEdit(NewDelete(r))
}

// Replace replaces the text in the given character range.
func (b *Buffer) Replace(r Range, text string) (EditResult, error) {
	return b.ApplyEdit(NewReplace(r, text))
}

// ApplyEdit validates and applies a single edit. On error the buffer is
// left unchanged.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.text.Len()
	switch {
	case edit.Range.Start < 0 || edit.Range.Start > n:
		return EditResult{}, ErrOffsetOutOfRange
	case !edit.Range.IsValid() || edit.Range.End > n:
		return EditResult{}, ErrRangeInvalid
	}

	r := b.text.rope
	startByte := r.CharToByte(edit.Range.Start)
	oldEndByte := r.CharToByte(edit.Range.End)
	result := EditResult{
		OldRange:   edit.Range,
		NewRange:   Range{Start: edit.Range.Start, End: edit.Range.Start + charLen(edit.NewText)},
		OldText:    r.Slice(startByte, oldEndByte),
		NewText:    edit.NewText,
		StartByte:  startByte,
		OldEndByte: oldEndByte,
		NewEndByte: startByte + len(edit.NewText),
		StartLine:  r.ByteToLine(startByte),
		OldEndLine: r.ByteToLine(oldEndByte),
	}
	if edit.IsNoOp() {
		result.NewEndLine = result.StartLine
		return result, nil
	}

	b.text.rope = r.Replace(startByte, oldEndByte, edit.NewText)
	b.revisionID = NewRevisionID()
	result.NewEndLine = b.text.rope.ByteToLine(result.NewEndByte)
	return result, nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's preferred line ending.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		text:       b.text, // Ropes are immutable, safe to share
		revisionID: b.revisionID,
	}
}

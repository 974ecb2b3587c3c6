package buffer

import (
	"fmt"
	"unicode/utf8"
)

// Edit represents a text edit operation.
// It specifies a character range to replace and the new text.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset int, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(r Range) Edit {
	return Edit{Range: r}
}

// NewReplace creates an Edit that replaces a range with text.
func NewReplace(r Range, text string) Edit {
	return Edit{Range: r, NewText: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// EditResult describes an applied edit in both coordinate systems.
// Byte fields are what incremental parsers consume.
type EditResult struct {
	OldRange Range  // Replaced character range, pre-edit coordinates
	NewRange Range  // Inserted character range, post-edit coordinates
	OldText  string // Text that was removed
	NewText  string // Text that was inserted

	StartByte  int // Byte offset of the edit start
	OldEndByte int // Byte offset of the old end, pre-edit coordinates
	NewEndByte int // Byte offset of the new end, post-edit coordinates

	StartLine  int // Line containing the edit start
	OldEndLine int // Line containing the old end, pre-edit coordinates
	NewEndLine int // Line containing the new end, post-edit coordinates
}

// Delta returns the change in buffer length in characters.
func (r EditResult) Delta() int {
	return r.NewRange.Len() - r.OldRange.Len()
}

// charLen returns the number of characters in s.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

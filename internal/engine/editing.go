package engine

import (
	"unicode/utf8"

	"github.com/dshills/textengine/internal/engine/boundary"
	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/engine/history"
)

// ============================================================================
// Boundary Queries
// ============================================================================

// PreviousBoundary returns the character boundary before offset.
func (d *Document) PreviousBoundary(offset int) int {
	return boundary.PreviousBoundary(d.buf.Snapshot(), offset)
}

// NextBoundary returns the character boundary after offset.
func (d *Document) NextBoundary(offset int) int {
	return boundary.NextBoundary(d.buf.Snapshot(), offset)
}

// PreviousWordBoundary returns the word boundary before offset.
func (d *Document) PreviousWordBoundary(offset int) int {
	return boundary.PreviousWordBoundary(d.buf.Snapshot(), offset)
}

// NextWordBoundary returns the word boundary after offset.
func (d *Document) NextWordBoundary(offset int) int {
	return boundary.NextWordBoundary(d.buf.Snapshot(), offset)
}

// WordRangeAtOffset returns the word containing offset.
func (d *Document) WordRangeAtOffset(offset int) Range {
	return boundary.WordRangeAtOffset(d.buf.Snapshot(), offset)
}

// LineRangeAtOffset returns the line containing offset.
func (d *Document) LineRangeAtOffset(offset int) Range {
	return boundary.LineRangeAtOffset(d.buf.Snapshot(), offset)
}

// ============================================================================
// Editor Operations
// ============================================================================
//
// Each operation takes the current selection. An empty selection is a caret
// at sel.Start; the operation then extends it to the relevant boundary.
// The returned offset is where the caret belongs afterwards.

// Backspace deletes the selection, or the character before the caret.
func (d *Document) Backspace(sel Range) (int, TransactionID, error) {
	return d.deleteToward(sel, boundary.PreviousBoundary)
}

// DeleteForward deletes the selection, or the character after the caret.
func (d *Document) DeleteForward(sel Range) (int, TransactionID, error) {
	return d.deleteToward(sel, boundary.NextBoundary)
}

// BackspaceWord deletes the selection, or back to the previous word
// boundary. At the start of an empty line it deletes the line break only.
func (d *Document) BackspaceWord(sel Range) (int, TransactionID, error) {
	return d.deleteToward(sel, func(t boundary.Text, caret int) int {
		if atEmptyLineStart(t, caret) {
			return boundary.PreviousBoundary(t, caret)
		}
		return boundary.PreviousWordBoundary(t, caret)
	})
}

// DeleteWord deletes the selection, or forward to the next word boundary.
func (d *Document) DeleteWord(sel Range) (int, TransactionID, error) {
	return d.deleteToward(sel, boundary.NextWordBoundary)
}

// BackspaceLine deletes the selection, or from the line start to the caret.
// At the start of an empty line it deletes the line break only.
func (d *Document) BackspaceLine(sel Range) (int, TransactionID, error) {
	return d.deleteToward(sel, func(t boundary.Text, caret int) int {
		if atEmptyLineStart(t, caret) {
			return boundary.PreviousBoundary(t, caret)
		}
		r, _ := t.LineRange(t.CharToLine(caret))
		return r.Start
	})
}

// Paste replaces the selection with text.
func (d *Document) Paste(sel Range, text string) (int, TransactionID, error) {
	id, err := d.Replace(sel, text)
	if err != nil {
		return sel.Start, 0, err
	}
	return sel.Start + utf8.RuneCountInString(text), id, nil
}

// Copy returns the selected text.
func (d *Document) Copy(sel Range) string {
	if sel.IsEmpty() {
		return ""
	}
	return d.buf.Slice(sel)
}

// Cut removes the selection and returns its text. An empty selection
// changes nothing.
func (d *Document) Cut(sel Range) (string, TransactionID, error) {
	var cut string
	id, err := d.Transaction(func(tx *history.Context) error {
		if sel.IsEmpty() {
			return nil
		}
		res, err := tx.Remove(sel)
		cut = res.OldText
		return err
	})
	if err != nil {
		return "", 0, err
	}
	return cut, id, nil
}

// deleteToward removes sel, or the text between the caret and the offset
// target picks when sel is empty. The target is resolved under the
// document lock so no other edit can intervene.
func (d *Document) deleteToward(sel Range, target func(t boundary.Text, caret int) int) (int, TransactionID, error) {
	caret := sel.Start
	id, err := d.Transaction(func(tx *history.Context) error {
		r := sel
		if r.IsEmpty() {
			to := target(d.buf.Snapshot(), sel.Start)
			r = buffer.NewRange(min(sel.Start, to), max(sel.Start, to))
		}
		caret = r.Start
		_, err := tx.Remove(r)
		return err
	})
	if err != nil {
		return sel.Start, 0, err
	}
	return caret, id, nil
}

func atEmptyLineStart(t boundary.Text, caret int) bool {
	r, ok := t.LineRange(t.CharToLine(caret))
	if !ok || caret != r.Start {
		return false
	}
	content := t.Slice(r)
	return content == "" || content == "\n" || content == "\r\n"
}

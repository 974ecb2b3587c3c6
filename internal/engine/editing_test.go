package engine

import (
	"testing"

	"github.com/dshills/textengine/internal/engine/buffer"
)

func caret(offset int) Range {
	return buffer.NewRange(offset, offset)
}

func TestDeleteOperations(t *testing.T) {
	type op func(d *Document, sel Range) (int, TransactionID, error)

	tests := []struct {
		name      string
		text      string
		op        op
		sel       Range
		want      string
		wantCaret int
	}{
		{"backspace", "hello", (*Document).Backspace, caret(5), "hell", 4},
		{"backspace at start", "hello", (*Document).Backspace, caret(0), "hello", 0},
		{"backspace selection", "hello", (*Document).Backspace, buffer.NewRange(1, 4), "ho", 1},
		{"backspace multibyte", "añb", (*Document).Backspace, caret(2), "ab", 1},
		{"delete forward", "hello", (*Document).DeleteForward, caret(0), "ello", 0},
		{"delete forward at end", "hello", (*Document).DeleteForward, caret(5), "hello", 5},
		{"backspace word", "hello   world", (*Document).BackspaceWord, caret(13), "hello   ", 8},
		{"backspace word mid word", "hello world", (*Document).BackspaceWord, caret(9), "hello ld", 6},
		{"backspace word empty line", "a\n\nb", (*Document).BackspaceWord, caret(2), "a\nb", 1},
		{"delete word", "foo bar", (*Document).DeleteWord, caret(0), " bar", 0},
		{"delete word across space", "foo bar", (*Document).DeleteWord, caret(3), "foo", 3},
		{"backspace line", "one\nfoo bar", (*Document).BackspaceLine, caret(9), "one\nar", 4},
		{"backspace line empty line", "one\n\n", (*Document).BackspaceLine, caret(4), "one\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFromString(tt.text)
			got, _, err := tt.op(d, tt.sel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Text() != tt.want {
				t.Errorf("text = %q, want %q", d.Text(), tt.want)
			}
			if got != tt.wantCaret {
				t.Errorf("caret = %d, want %d", got, tt.wantCaret)
			}
		})
	}
}

func TestDeleteOperationUndo(t *testing.T) {
	d := NewFromString("hello world")
	if _, _, err := d.BackspaceWord(caret(11)); err != nil {
		t.Fatal(err)
	}
	d.Undo()
	if got := d.Text(); got != "hello world" {
		t.Errorf("after undo: %q", got)
	}
}

func TestClipboardOperations(t *testing.T) {
	d := NewFromString("copy me", WithGroupingWindow(0))

	if got := d.Copy(buffer.NewRange(0, 4)); got != "copy" {
		t.Errorf("Copy = %q", got)
	}
	if got := d.Copy(caret(2)); got != "" {
		t.Errorf("Copy of empty selection = %q", got)
	}

	cut, _, err := d.Cut(buffer.NewRange(4, 7))
	if err != nil || cut != " me" {
		t.Fatalf("Cut = %q, %v", cut, err)
	}
	if got := d.Text(); got != "copy" {
		t.Fatalf("after cut: %q", got)
	}

	at, _, err := d.Paste(caret(0), "¡")
	if err != nil {
		t.Fatal(err)
	}
	if at != 1 || d.Text() != "¡copy" {
		t.Errorf("Paste: caret %d, text %q", at, d.Text())
	}

	at, _, err = d.Paste(buffer.NewRange(1, 5), "paste\nhere")
	if err != nil {
		t.Fatal(err)
	}
	if at != 11 || d.Text() != "¡paste\nhere" {
		t.Errorf("Paste over selection: caret %d, text %q", at, d.Text())
	}

	d.Undo()
	if got := d.Text(); got != "¡copy" {
		t.Errorf("undo paste: %q", got)
	}
}

func TestCutEmptySelection(t *testing.T) {
	d := NewFromString("abc")
	cut, _, err := d.Cut(caret(1))
	if err != nil || cut != "" {
		t.Errorf("Cut(empty) = %q, %v", cut, err)
	}
	if d.CanUndo() {
		t.Error("empty cut should not be undoable")
	}
}

func TestBoundaryQueries(t *testing.T) {
	d := NewFromString("    Red,\n    Green,")
	g := 13 // offset of 'G'

	if got := d.PreviousWordBoundary(g + 1); got != g {
		t.Errorf("inside Green: %d, want %d", got, g)
	}
	if got := d.PreviousWordBoundary(g); got != 9 {
		t.Errorf("at Green: %d, want 9", got)
	}
	if got := d.PreviousWordBoundary(9); got != 7 {
		t.Errorf("at indentation: %d, want 7", got)
	}

	if got := d.NextWordBoundary(4); got != 7 {
		t.Errorf("NextWordBoundary(4) = %d", got)
	}
	if got := d.WordRangeAtOffset(5); got != buffer.NewRange(4, 7) {
		t.Errorf("WordRangeAtOffset(5) = %v", got)
	}
	if got := d.LineRangeAtOffset(10); got != buffer.NewRange(9, 19) {
		t.Errorf("LineRangeAtOffset(10) = %v", got)
	}
	if got := d.PreviousBoundary(0); got != 0 {
		t.Errorf("PreviousBoundary(0) = %d", got)
	}
	if got := d.NextBoundary(d.Len()); got != d.Len() {
		t.Errorf("NextBoundary(end) = %d", got)
	}
}

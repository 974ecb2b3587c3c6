package history

import (
	"time"
	"unicode/utf8"

	"github.com/dshills/textengine/internal/engine/buffer"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Operation represents a single undoable edit.
// Range is the character range that was replaced, in the coordinates of the
// text before the edit.
type Operation struct {
	Range  Range
	Before string // Text that was replaced (for undo)
	After  string // Text that was inserted (for redo)
}

// NewInsertOperation creates an operation for an insertion.
func NewInsertOperation(offset int, text string) Operation {
	return Operation{Range: Range{Start: offset, End: offset}, After: text}
}

// NewDeleteOperation creates an operation for a deletion.
func NewDeleteOperation(r Range, deleted string) Operation {
	return Operation{Range: r, Before: deleted}
}

// NewReplaceOperation creates an operation for a replacement.
func NewReplaceOperation(r Range, before, after string) Operation {
	return Operation{Range: r, Before: before, After: after}
}

// IsInsert returns true if this operation is a pure insertion.
func (op Operation) IsInsert() bool {
	return op.Before == "" && op.After != ""
}

// IsDelete returns true if this operation is a pure deletion.
func (op Operation) IsDelete() bool {
	return op.Before != "" && op.After == ""
}

// IsReplace returns true if this operation replaces text.
func (op Operation) IsReplace() bool {
	return op.Before != "" && op.After != ""
}

// IsNoop returns true if this operation makes no changes.
func (op Operation) IsNoop() bool {
	return op.Range.IsEmpty() && op.After == ""
}

// CharsDelta returns the change in document length in characters.
func (op Operation) CharsDelta() int {
	return utf8.RuneCountInString(op.After) - op.Range.Len()
}

// NewRange returns the range of the text after the operation.
func (op Operation) NewRange() Range {
	return Range{
		Start: op.Range.Start,
		End:   op.Range.Start + utf8.RuneCountInString(op.After),
	}
}

// Invert returns an operation that undoes this one.
func (op Operation) Invert() Operation {
	return Operation{
		Range:  op.NewRange(),
		Before: op.After,
		After:  op.Before,
	}
}

// Edit converts the operation into a buffer edit.
func (op Operation) Edit() buffer.Edit {
	return buffer.Edit{Range: op.Range, NewText: op.After}
}

// OperationList is a collection of operations that are applied together.
type OperationList []Operation

// Invert returns a list of inverse operations in reverse order.
func (ops OperationList) Invert() OperationList {
	result := make(OperationList, len(ops))
	for i, op := range ops {
		result[len(ops)-1-i] = op.Invert()
	}
	return result
}

// TransactionID identifies a committed transaction.
type TransactionID uint64

// Transaction is a group of operations committed and undone as a unit.
// Replaying Operations in order against the text captured at transaction
// start reproduces the text at transaction end.
type Transaction struct {
	ID         TransactionID
	Timestamp  time.Time
	Operations OperationList
}

// TransactionInfo provides read-only info about a transaction.
type TransactionInfo struct {
	ID         TransactionID
	Timestamp  time.Time
	Operations int
}

func (t *Transaction) info() TransactionInfo {
	return TransactionInfo{ID: t.ID, Timestamp: t.Timestamp, Operations: len(t.Operations)}
}

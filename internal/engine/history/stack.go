package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/textengine/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultGroupingWindow is the coalescing window used when none is set.
const DefaultGroupingWindow = 300 * time.Millisecond

// Log manages the undo/redo stacks for one buffer.
type Log struct {
	mu sync.Mutex

	undoStack []*Transaction
	redoStack []*Transaction
	nextID    TransactionID

	// Configuration
	groupingWindow time.Duration
	maxEntries     int
}

// Option configures a Log.
type Option func(*Log)

// WithGroupingWindow sets the coalescing window. Zero disables grouping.
func WithGroupingWindow(d time.Duration) Option {
	return func(l *Log) {
		if d >= 0 {
			l.groupingWindow = d
		}
	}
}

// WithMaxEntries bounds the undo stack; the oldest transactions are
// dropped first. Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		l.maxEntries = max(n, 0)
	}
}

// NewLog creates an empty transaction log.
func NewLog(opts ...Option) *Log {
	l := &Log{groupingWindow: DefaultGroupingWindow}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result describes a committed, undone or redone transaction.
type Result struct {
	ID    TransactionID
	Edits []buffer.EditResult // Edits applied to the buffer, in order
}

// Transaction runs f with a recording Context and commits what it records.
//
// If f records nothing, no transaction is created and the next unused id is
// returned. If f fails, its edits are reverted and the error is returned.
// If the previous transaction is younger than the grouping window, the new
// operations are appended to it and its id is returned. Any commit clears
// the redo stack.
func (l *Log) Transaction(now time.Time, target Editor, f func(*Context) error) (Result, error) {
	ctx := &Context{target: target}
	if err := f(ctx); err != nil {
		ctx.rollback()
		return Result{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(ctx.ops) == 0 {
		return Result{ID: l.nextID}, nil
	}

	res := Result{Edits: ctx.results}
	if n := len(l.undoStack); n > 0 && l.groupingWindow > 0 {
		last := l.undoStack[n-1]
		if now.Sub(last.Timestamp) < l.groupingWindow {
			last.Operations = append(last.Operations, ctx.ops...)
			last.Timestamp = now
			l.redoStack = nil
			res.ID = last.ID
			return res, nil
		}
	}

	tx := &Transaction{ID: l.nextID, Timestamp: now, Operations: ctx.ops}
	l.nextID++
	l.undoStack = append(l.undoStack, tx)
	l.redoStack = nil
	if l.maxEntries > 0 && len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = l.undoStack[excess:]
	}
	res.ID = tx.ID
	return res, nil
}

// Undo reverts the last transaction by replaying the inverse of its
// operations in reverse order, then moves it to the redo stack.
func (l *Log) Undo(target Editor) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return Result{}, ErrNothingToUndo
	}
	tx := l.undoStack[len(l.undoStack)-1]

	edits, err := replay(target, tx.Operations.Invert())
	if err != nil {
		return Result{}, err
	}
	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.redoStack = append(l.redoStack, tx)
	return Result{ID: tx.ID, Edits: edits}, nil
}

// Redo reapplies the last undone transaction in its original order, then
// moves it back to the undo stack.
func (l *Log) Redo(target Editor) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return Result{}, ErrNothingToRedo
	}
	tx := l.redoStack[len(l.redoStack)-1]

	edits, err := replay(target, tx.Operations)
	if err != nil {
		return Result{}, err
	}
	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.undoStack = append(l.undoStack, tx)
	return Result{ID: tx.ID, Edits: edits}, nil
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack) > 0
}

// UndoCount returns the number of undoable transactions.
func (l *Log) UndoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack)
}

// RedoCount returns the number of redoable transactions.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack)
}

// PeekUndo returns info about the next undo transaction without removing it.
func (l *Log) PeekUndo() (TransactionInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undoStack) == 0 {
		return TransactionInfo{}, false
	}
	return l.undoStack[len(l.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo transaction without removing it.
func (l *Log) PeekRedo() (TransactionInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.redoStack) == 0 {
		return TransactionInfo{}, false
	}
	return l.redoStack[len(l.redoStack)-1].info(), true
}

// GroupingWindow returns the coalescing window.
func (l *Log) GroupingWindow() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groupingWindow
}

// SetGroupingWindow changes the coalescing window. Zero disables grouping.
func (l *Log) SetGroupingWindow(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.groupingWindow = max(d, 0)
}

// Clear removes all undo/redo history. Ids keep increasing.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undoStack = nil
	l.redoStack = nil
}

// Package engine provides the Document, the core of the text engine.
//
// A Document combines a rope-backed buffer, a transaction log for grouped
// undo/redo and an optional syntax highlight engine into a single
// thread-safe API for a view layer to drive.
//
// # Architecture
//
// The document is built on several sub-packages:
//
//   - rope: immutable B+ tree rope (O(log n) edits and position lookups)
//   - buffer: character-addressed buffer with byte and line conversion
//   - history: transactions, time-window grouping and undo/redo
//   - boundary: character, word and line boundaries for cursor motion
//
// Highlighting lives in the highlight and syntax packages.
//
// # Thread Safety
//
// Edits are serialized by the document. Reads go straight to the buffer and
// may run concurrently with each other. Highlighting runs in the background
// against buffer snapshots and never blocks an edit.
//
// # Basic Usage
//
//	d := engine.NewFromString("hello")
//
//	d.Insert(5, "!")  // "hello!"
//	d.Undo()          // "hello"
//	d.Redo()          // "hello!"
//
// Edits committed within the grouping window (300ms by default) form one
// undo step:
//
//	d := engine.New(engine.WithGroupingWindow(time.Second))
//	d.Insert(0, "a")
//	d.Insert(1, "b")
//	d.Undo() // removes "ab"
//
// Several edits can also be grouped explicitly:
//
//	d.Transaction(func(tx *history.Context) error {
//	    if _, err := tx.Insert(0, "// "); err != nil {
//	        return err
//	    }
//	    _, err := tx.Insert(d.Len(), "\n")
//	    return err
//	})
//
// # Highlighting
//
// Give the document a language to enable highlighting:
//
//	d := engine.NewFromString(src, engine.WithPath("main.rs"))
//	defer d.Close()
//
//	spans, ok := d.HighlightsForLine(0)
//	version := d.HighlightsVersion()
//
// In the default debounced mode the whole document is re-highlighted 150ms
// after the last edit. WithHighlightMode(highlight.ModeIncremental) instead
// highlights the requested lines on demand and caches them per line.
//
// # Change Notification
//
// Observers see every applied edit, including undo and redo:
//
//	unsubscribe := d.OnEdit(func(c engine.LineChange) {
//	    layout.InvalidateFrom(c.StartLine)
//	})
//	defer unsubscribe()
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrOffsetOutOfRange: Invalid character offset
//   - ErrRangeInvalid: Invalid range (e.g., end < start)
//   - ErrReadOnly: Write operation on read-only document
//   - ErrClosed: Write operation after Close
//
// Undo and Redo report an empty stack by returning false. Highlight
// failures are logged and never reach the caller.
package engine

// Package history provides grouped undo/redo for the text engine.
//
// # Operations
//
// An Operation records a single edit as the character range it replaced
// together with the text before and after. That is enough to both apply
// and invert it:
//
//	invert(op) = {Range: [start, start+len(After)), Before: After, After: Before}
//
// # Transactions
//
// A Transaction is an ordered list of operations committed and undone as one
// unit. Log.Transaction opens a recording Context, runs a function that edits
// through it, and commits whatever was recorded:
//
//	log := history.NewLog(history.WithGroupingWindow(300 * time.Millisecond))
//	res, err := log.Transaction(time.Now(), buf, func(tx *history.Context) error {
//	    _, err := tx.Insert(5, "!")
//	    return err
//	})
//
// # Grouping
//
// A commit that lands within the grouping window of the previous
// transaction is appended to it instead of creating a new one, so a burst of
// typing undoes in one step. A zero window disables grouping.
//
// # Undo and Redo
//
// Undo replays the inverse of each operation in reverse order; Redo replays
// the operations forward. Both move the transaction between the stacks and
// return ErrNothingToUndo / ErrNothingToRedo when there is nothing to do.
package history

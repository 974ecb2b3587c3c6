package history

import "github.com/dshills/textengine/internal/engine/buffer"

// Editor is the mutation surface a Log records against.
// *buffer.Buffer implements it.
type Editor interface {
	ApplyEdit(edit buffer.Edit) (buffer.EditResult, error)
}

// Context records edits made during a transaction. Every mutation inside
// Log.Transaction must go through the Context so that it can be undone.
type Context struct {
	target  Editor
	ops     OperationList
	results []buffer.EditResult
}

// Insert inserts text at a character offset.
func (c *Context) Insert(offset int, text string) (buffer.EditResult, error) {
	return c.Apply(buffer.NewInsert(offset, text))
}

// Remove deletes the characters in r.
func (c *Context) Remove(r Range) (buffer.EditResult, error) {
	return c.Apply(buffer.NewDelete(r))
}

// Replace replaces the characters in r with text. Both halves are recorded
// as a single operation.
func (c *Context) Replace(r Range, text string) (buffer.EditResult, error) {
	return c.Apply(buffer.NewReplace(r, text))
}

// Apply applies an edit and records it. No-op edits are applied but not
// recorded.
func (c *Context) Apply(edit buffer.Edit) (buffer.EditResult, error) {
	res, err := c.target.ApplyEdit(edit)
	if err != nil {
		return res, err
	}
	if edit.IsNoOp() {
		return res, nil
	}
	c.ops = append(c.ops, NewReplaceOperation(res.OldRange, res.OldText, res.NewText))
	c.results = append(c.results, res)
	return res, nil
}

// Len returns the number of operations recorded so far.
func (c *Context) Len() int {
	return len(c.ops)
}

// Results returns the edit results recorded so far, in order.
func (c *Context) Results() []buffer.EditResult {
	return c.results
}

// rollback inverts every recorded edit, newest first.
func (c *Context) rollback() {
	for _, op := range c.ops.Invert() {
		_, _ = c.target.ApplyEdit(op.Edit())
	}
	c.ops = nil
	c.results = nil
}

// replay applies ops in order against target. If an edit fails, the edits
// already applied are reverted and the error is returned.
func replay(target Editor, ops OperationList) ([]buffer.EditResult, error) {
	ctx := &Context{target: target}
	for _, op := range ops {
		if _, err := ctx.Apply(op.Edit()); err != nil {
			ctx.rollback()
			return nil, err
		}
	}
	return ctx.results, nil
}

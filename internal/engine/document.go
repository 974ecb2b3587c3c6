package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/engine/history"
	"github.com/dshills/textengine/internal/highlight"
	"github.com/dshills/textengine/internal/logging"
	"github.com/dshills/textengine/internal/syntax"
)

// Re-export commonly used types for convenience.
type (
	// Range is a half-open character range.
	Range = buffer.Range

	// Point is a line/column position.
	Point = buffer.Point

	// RevisionID identifies a buffer revision.
	RevisionID = buffer.RevisionID

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// TransactionID identifies an undo step.
	TransactionID = history.TransactionID

	// Span is a highlighted byte range.
	Span = syntax.Span
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
)

// LineChange reports the lines touched by one applied edit. Lines
// [StartLine, OldEndLine] of the previous text now occupy
// [StartLine, NewEndLine].
type LineChange struct {
	StartLine  int
	OldEndLine int
	NewEndLine int
	Revision   RevisionID
}

type observer struct {
	id uint64
	fn func(LineChange)
}

// Document is an editable text with undo history and syntax highlighting.
// It combines the buffer, the transaction log and a highlight engine into
// a single thread-safe API.
//
// Edits are serialized and the highlight engine is told about each one
// before the edit returns. Observers run on the editing goroutine after the
// document lock is released.
type Document struct {
	mu sync.RWMutex

	id      uuid.UUID
	buf     *buffer.Buffer
	history *history.Log
	lang    *syntax.LanguageConfig
	hl      highlight.Engine // nil without a language
	logger  *logging.Logger
	clock   func() time.Time

	obsMu        sync.Mutex
	observers    []observer
	nextObserver uint64

	readOnly bool
	closed   bool

	// Configuration (set by options)
	initContent    string
	lineEnding     buffer.LineEnding
	lineEndingSet  bool
	path           string
	mode           highlight.Mode
	debounce       time.Duration
	margin         int
	scheduler      highlight.Scheduler
	groupingWindow time.Duration
	maxUndo        int
}

// New creates a Document with the given options.
func New(opts ...Option) *Document {
	d := configure(opts)
	d.buf = buffer.NewBufferFromString(d.initContent, d.bufferOptions(d.initContent)...)
	d.start()
	return d
}

// NewFromString creates a Document holding content.
func NewFromString(content string, opts ...Option) *Document {
	return New(append([]Option{WithContent(content)}, opts...)...)
}

// NewFromReader creates a Document from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return NewFromString(string(data), opts...), nil
}

func configure(opts []Option) *Document {
	d := &Document{
		id:             uuid.New(),
		logger:         logging.Nop(),
		clock:          time.Now,
		mode:           highlight.ModeDebounced,
		debounce:       highlight.DefaultDebounce,
		margin:         highlight.DefaultMargin,
		groupingWindow: history.DefaultGroupingWindow,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithField("doc", d.id.String())
	return d
}

func (d *Document) bufferOptions(content string) []buffer.Option {
	if d.lineEndingSet {
		return []buffer.Option{buffer.WithLineEnding(d.lineEnding)}
	}
	return []buffer.Option{buffer.WithDetectedLineEnding(content)}
}

// start creates the history and highlight engine once the buffer exists.
func (d *Document) start() {
	d.history = history.NewLog(
		history.WithGroupingWindow(d.groupingWindow),
		history.WithMaxEntries(d.maxUndo),
	)

	if d.lang == nil && d.path != "" {
		d.lang, _ = syntax.DefaultRegistry().ForPath(d.path)
	}
	if d.lang == nil {
		return
	}

	hlOpts := []highlight.Option{
		highlight.WithDebounce(d.debounce),
		highlight.WithMargin(d.margin),
		highlight.WithLogger(d.logger.WithComponent("highlight")),
	}
	if d.scheduler != nil {
		hlOpts = append(hlOpts, highlight.WithScheduler(d.scheduler))
	}
	d.hl = highlight.New(d.mode, d.lang, d.source, hlOpts...)
	d.logger.Debug("highlighting %s in %s mode", d.lang.Name, d.mode)
}

// source hands the highlight engine a snapshot. It takes only the buffer
// lock so background work never waits on an edit in progress.
func (d *Document) source() highlight.Text {
	return d.buf.Snapshot()
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Language returns the highlight language, or nil.
func (d *Document) Language() *syntax.LanguageConfig {
	return d.lang
}

// IsReadOnly reports whether edits are rejected.
func (d *Document) IsReadOnly() bool {
	return d.readOnly
}

// Close stops background highlighting. Edits fail with ErrClosed
// afterwards; reads keep working.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.hl != nil {
		d.hl.Close()
	}
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (d *Document) Text() string {
	return d.buf.Text()
}

// Slice returns the text in the character range r, clamped to the document.
func (d *Document) Slice(r Range) string {
	return d.buf.Slice(r)
}

// Len returns the number of characters.
func (d *Document) Len() int {
	return d.buf.Len()
}

// ByteLen returns the length in bytes.
func (d *Document) ByteLen() int {
	return d.buf.ByteLen()
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return d.buf.LineCount()
}

// IsEmpty returns true if the document has no content.
func (d *Document) IsEmpty() bool {
	return d.buf.IsEmpty()
}

// LineContent returns a line's text without its terminator.
func (d *Document) LineContent(line int) (string, bool) {
	return d.buf.LineContent(line)
}

// LineRange returns the character range of a line including its
// terminator.
func (d *Document) LineRange(line int) (Range, bool) {
	return d.buf.LineRange(line)
}

// Snapshot returns an immutable view of the current content.
func (d *Document) Snapshot() *buffer.Snapshot {
	return d.buf.Snapshot()
}

// Revision returns the current buffer revision.
func (d *Document) Revision() RevisionID {
	return d.buf.RevisionID()
}

// LineEnding returns the preferred line ending.
func (d *Document) LineEnding() LineEnding {
	return d.buf.LineEnding()
}

// ============================================================================
// Position Conversion
// ============================================================================

// CharToLine returns the line containing a character offset, clamped.
func (d *Document) CharToLine(offset int) int {
	return d.buf.CharToLine(offset)
}

// LineToChar returns the character offset of a line start, clamped.
func (d *Document) LineToChar(line int) int {
	return d.buf.LineToChar(line)
}

// OffsetToPoint converts a character offset to line/column.
func (d *Document) OffsetToPoint(offset int) Point {
	return d.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a character offset.
func (d *Document) PointToOffset(p Point) int {
	return d.buf.PointToOffset(p)
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at a character offset.
func (d *Document) Insert(offset int, text string) (TransactionID, error) {
	return d.Transaction(func(tx *history.Context) error {
		_, err := tx.Insert(offset, text)
		return err
	})
}

// Remove deletes the characters in r.
func (d *Document) Remove(r Range) (TransactionID, error) {
	return d.Transaction(func(tx *history.Context) error {
		_, err := tx.Remove(r)
		return err
	})
}

// Replace replaces the characters in r with text as one undo operation.
func (d *Document) Replace(r Range, text string) (TransactionID, error) {
	return d.Transaction(func(tx *history.Context) error {
		_, err := tx.Replace(r, text)
		return err
	})
}

// Transaction runs f as a single undo step. Edits made through the
// Context are reverted if f returns an error.
func (d *Document) Transaction(f func(tx *history.Context) error) (TransactionID, error) {
	d.mu.Lock()
	if err := d.checkWritable(); err != nil {
		d.mu.Unlock()
		return 0, err
	}
	res, err := d.history.Transaction(d.clock(), d.buf, f)
	if err != nil {
		d.mu.Unlock()
		return 0, err
	}
	changes := d.applied(res.Edits)
	d.mu.Unlock()

	d.notify(changes)
	return res.ID, nil
}

func (d *Document) checkWritable() error {
	switch {
	case d.closed:
		return ErrClosed
	case d.readOnly:
		return ErrReadOnly
	}
	return nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the last transaction. It returns false when there is
// nothing to undo.
func (d *Document) Undo() (TransactionID, bool) {
	return d.step("undo", d.history.Undo, history.ErrNothingToUndo)
}

// Redo reapplies the last undone transaction. It returns false when there
// is nothing to redo.
func (d *Document) Redo() (TransactionID, bool) {
	return d.step("redo", d.history.Redo, history.ErrNothingToRedo)
}

func (d *Document) step(name string, op func(history.Editor) (history.Result, error), empty error) (TransactionID, bool) {
	d.mu.Lock()
	if d.checkWritable() != nil {
		d.mu.Unlock()
		return 0, false
	}
	res, err := op(d.buf)
	if err != nil {
		d.mu.Unlock()
		if !errors.Is(err, empty) {
			d.logger.Warn("%s failed: %v", name, err)
		}
		return 0, false
	}
	changes := d.applied(res.Edits)
	d.mu.Unlock()

	d.notify(changes)
	return res.ID, true
}

// CanUndo returns true if undo is available.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// UndoCount returns the number of undo steps.
func (d *Document) UndoCount() int {
	return d.history.UndoCount()
}

// SetGroupingWindow changes the undo coalescing window.
func (d *Document) SetGroupingWindow(window time.Duration) {
	d.history.SetGroupingWindow(window)
}

// ClearHistory drops all undo and redo steps.
func (d *Document) ClearHistory() {
	d.history.Clear()
}

// ============================================================================
// Change Notification
// ============================================================================

// OnEdit registers fn to be called for every applied edit, including undo
// and redo. The returned function unregisters it.
func (d *Document) OnEdit(fn func(LineChange)) (unsubscribe func()) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	d.nextObserver++
	id := d.nextObserver
	d.observers = append(d.observers, observer{id: id, fn: fn})

	return func() {
		d.obsMu.Lock()
		defer d.obsMu.Unlock()
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// applied forwards edits to the highlight engine and describes them for
// observers. The caller holds d.mu.
func (d *Document) applied(edits []buffer.EditResult) []LineChange {
	if len(edits) == 0 {
		return nil
	}
	rev := d.buf.RevisionID()
	changes := make([]LineChange, 0, len(edits))
	for _, e := range edits {
		if d.hl != nil {
			d.hl.Edited(e)
		}
		changes = append(changes, LineChange{
			StartLine:  e.StartLine,
			OldEndLine: e.OldEndLine,
			NewEndLine: e.NewEndLine,
			Revision:   rev,
		})
	}
	d.logger.Debug("applied %d edit(s) from line %d", len(edits), edits[0].StartLine)
	return changes
}

func (d *Document) notify(changes []LineChange) {
	if len(changes) == 0 {
		return
	}
	d.obsMu.Lock()
	observers := append([]observer(nil), d.observers...)
	d.obsMu.Unlock()

	for _, c := range changes {
		for _, o := range observers {
			o.fn(c)
		}
	}
}

package engine

import (
	"time"

	"github.com/dshills/textengine/internal/config"
	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/highlight"
	"github.com/dshills/textengine/internal/logging"
	"github.com/dshills/textengine/internal/syntax"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithLineEnding sets the preferred line ending. By default it is detected
// from the initial content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = ending
		d.lineEndingSet = true
	}
}

// WithLanguage enables highlighting with lang. A nil lang disables it.
func WithLanguage(lang *syntax.LanguageConfig) Option {
	return func(d *Document) {
		d.lang = lang
	}
}

// WithPath selects a built-in language by the file extension of path.
// It has no effect if WithLanguage is also given.
func WithPath(path string) Option {
	return func(d *Document) {
		d.path = path
	}
}

// WithHighlightMode selects the highlight engine.
func WithHighlightMode(mode highlight.Mode) Option {
	return func(d *Document) {
		d.mode = mode
	}
}

// WithDebounce sets the quiet period before highlighting runs after edits.
func WithDebounce(delay time.Duration) Option {
	return func(d *Document) {
		if delay >= 0 {
			d.debounce = delay
		}
	}
}

// WithMargin sets how many lines past a query the incremental engine parses.
func WithMargin(lines int) Option {
	return func(d *Document) {
		if lines >= 0 {
			d.margin = lines
		}
	}
}

// WithScheduler sets the timer source for background highlighting.
func WithScheduler(sched highlight.Scheduler) Option {
	return func(d *Document) {
		d.scheduler = sched
	}
}

// WithGroupingWindow sets the undo coalescing window. Zero disables grouping.
func WithGroupingWindow(window time.Duration) Option {
	return func(d *Document) {
		if window >= 0 {
			d.groupingWindow = window
		}
	}
}

// WithMaxUndo bounds the number of undo steps kept. Zero means unbounded.
func WithMaxUndo(n int) Option {
	return func(d *Document) {
		if n >= 0 {
			d.maxUndo = n
		}
	}
}

// WithLogger sets the logger used by the document and its highlight engine.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock sets the time source used to timestamp transactions.
func WithClock(now func() time.Time) Option {
	return func(d *Document) {
		if now != nil {
			d.clock = now
		}
	}
}

// WithReadOnly creates a read-only document.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}

// WithConfig applies the history and highlight sections of cfg. Options
// given after it override individual values.
func WithConfig(cfg *config.Config) Option {
	return func(d *Document) {
		if cfg == nil {
			return
		}
		d.groupingWindow = cfg.History.GroupingWindow.Duration
		d.maxUndo = cfg.History.MaxEntries
		if mode, err := highlight.ParseMode(cfg.Highlight.Mode); err == nil {
			d.mode = mode
		}
		d.debounce = cfg.Highlight.Debounce.Duration
		d.margin = cfg.Highlight.Margin
	}
}

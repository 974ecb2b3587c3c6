package highlight

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/logging"
	"github.com/dshills/textengine/internal/syntax"
)

// Defaults.
const (
	DefaultDebounce = 150 * time.Millisecond
	DefaultMargin   = 200
)

// Mode selects a highlight engine.
type Mode int

const (
	// ModeDebounced recomputes the whole document after edits settle.
	ModeDebounced Mode = iota
	// ModeIncremental reparses lazily and caches per line.
	ModeIncremental
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDebounced:
		return "debounced"
	case ModeIncremental:
		return "incremental"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debounced", "":
		return ModeDebounced, nil
	case "incremental":
		return ModeIncremental, nil
	default:
		return 0, fmt.Errorf("unknown highlight mode %q", s)
	}
}

// Stats are diagnostic counters.
type Stats struct {
	Hits        uint64 // queries served entirely from cache
	Misses      uint64 // queries that ran the highlighter
	Applied     uint64 // background results applied
	Discarded   uint64 // background results dropped as stale
	Failures    uint64 // highlighter errors
	CachedLines int
	Version     uint64
}

// Engine keeps highlight spans coherent with a document.
type Engine interface {
	// Mode returns the engine's mode.
	Mode() Mode

	// Edited reports a committed edit. It never blocks on highlighting.
	Edited(res buffer.EditResult)

	// Invalidate discards everything, as after loading new content.
	Invalidate()

	// Highlights returns the spans intersecting lines [first, last].
	// ok is false when no highlighting is available for the range.
	Highlights(first, last int) (spans []syntax.Span, ok bool)

	// Cache returns the current cache.
	Cache() *Cache

	// Version returns the cache version; it increases on every change.
	Version() uint64

	// Stats returns diagnostic counters.
	Stats() Stats

	// Close cancels pending work. Later calls are no-ops.
	Close()
}

// settings holds engine options.
type settings struct {
	debounce  time.Duration
	margin    int
	scheduler Scheduler
	logger    *logging.Logger
}

// Option configures an engine.
type Option func(*settings)

// WithDebounce sets the quiet period before background work runs.
func WithDebounce(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithMargin sets how many lines beyond a query the incremental engine
// parses ahead.
func WithMargin(lines int) Option {
	return func(s *settings) {
		if lines >= 0 {
			s.margin = lines
		}
	}
}

// WithScheduler sets the timer source.
func WithScheduler(sched Scheduler) Option {
	return func(s *settings) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		debounce:  DefaultDebounce,
		margin:    DefaultMargin,
		scheduler: TimerScheduler{},
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// New creates an engine of the given mode for lang. source returns the
// current document snapshot; it must not call back into the engine.
func New(mode Mode, lang *syntax.LanguageConfig, source func() Text, opts ...Option) Engine {
	if mode == ModeIncremental {
		return NewIncremental(lang, source, opts...)
	}
	return NewDebounced(syntax.NewHighlighter(lang), source, opts...)
}

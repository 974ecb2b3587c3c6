package highlight

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/logging"
	"github.com/dshills/textengine/internal/syntax"
)

// Highlighter computes spans for a whole text. *syntax.Highlighter
// implements it.
type Highlighter interface {
	Highlight(text string) ([]syntax.Span, error)
}

// Debounced recomputes the whole document once edits pause.
type Debounced struct {
	hl     Highlighter
	source func() Text
	cfg    settings
	log    *logging.Logger
	store  *store

	mu         sync.Mutex
	generation uint64
	pending    Handle
	closed     bool

	applied   atomic.Uint64
	discarded atomic.Uint64
	failures  atomic.Uint64
}

// NewDebounced creates a debounced engine and schedules the first
// computation.
func NewDebounced(hl Highlighter, source func() Text, opts ...Option) *Debounced {
	cfg := newSettings(opts)
	d := &Debounced{
		hl:     hl,
		source: source,
		cfg:    cfg,
		log:    cfg.logger.WithComponent("highlight"),
		store:  newStore(),
	}
	d.Invalidate()
	return d
}

// Mode implements Engine.
func (d *Debounced) Mode() Mode {
	return ModeDebounced
}

// Edited implements Engine. The pending job is dropped and a new one is
// scheduled after the debounce; the current spans stay visible meanwhile.
func (d *Debounced) Edited(buffer.EditResult) {
	d.reschedule()
}

// Invalidate implements Engine.
func (d *Debounced) Invalidate() {
	d.reschedule()
}

func (d *Debounced) reschedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.generation++
	if d.pending != nil {
		d.pending.Stop()
	}
	gen := d.generation
	d.pending = d.cfg.scheduler.AfterFunc(d.cfg.debounce, func() { d.run(gen) })
}

// run computes spans for generation gen without holding the lock.
func (d *Debounced) run(gen uint64) {
	if !d.current(gen) {
		d.discarded.Add(1)
		return
	}

	snap := d.source()
	spans, err := d.hl.Highlight(snap.Text())
	var lines map[int][]syntax.Span
	if err == nil {
		lines = bucket(snap, spans)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.generation {
		d.discarded.Add(1)
		d.log.Debug("dropping stale highlight result for generation %d (current %d)", gen, d.generation)
		return
	}
	d.pending = nil
	if err != nil {
		d.failures.Add(1)
		d.log.Error("syntax highlighting failed: %v", err)
		d.store.publish(nil)
		return
	}
	d.store.publish(lines)
	d.applied.Add(1)
}

func (d *Debounced) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && gen == d.generation
}

// Highlights implements Engine. It only reads the cache.
func (d *Debounced) Highlights(first, last int) ([]syntax.Span, bool) {
	c := d.store.load()
	first = max(first, 0)
	if first > last || !c.covers(first, last) {
		return nil, false
	}
	return c.collect(first, last), true
}

// Cache implements Engine.
func (d *Debounced) Cache() *Cache {
	return d.store.load()
}

// Version implements Engine.
func (d *Debounced) Version() uint64 {
	return d.store.load().Version()
}

// Stats implements Engine.
func (d *Debounced) Stats() Stats {
	c := d.store.load()
	return Stats{
		Applied:     d.applied.Load(),
		Discarded:   d.discarded.Load(),
		Failures:    d.failures.Load(),
		CachedLines: c.Len(),
		Version:     c.Version(),
	}
}

// Close implements Engine.
func (d *Debounced) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

package highlight

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/logging"
	"github.com/dshills/textengine/internal/syntax"
)

// Incremental highlights on demand, keeping a token tree and a per-line
// cache across edits.
//
// Edits are queued under mu and applied to the tree by the next parse, so
// reporting an edit never waits for a parse in progress.
type Incremental struct {
	source func() Text
	cfg    settings
	log    *logging.Logger
	store  *store

	// treeMu serializes parses. It is never acquired while holding mu.
	treeMu sync.Mutex
	tree   *syntax.Tree

	mu         sync.Mutex
	generation uint64
	edits      []syntax.InputEdit // reported but not yet applied to tree
	reset      bool               // tree must be reset before its next use
	pending    Handle
	cancelWarm context.CancelFunc
	closed     bool
	viewFirst  int
	viewLast   int
	hasView    bool

	hits      atomic.Uint64
	misses    atomic.Uint64
	applied   atomic.Uint64
	discarded atomic.Uint64
	failures  atomic.Uint64
}

// maxAttempts bounds how often a query recomputes when edits keep making
// its result stale.
const maxAttempts = 3

// NewIncremental creates an incremental engine for lang. Nothing is parsed
// until the first query.
func NewIncremental(lang *syntax.LanguageConfig, source func() Text, opts ...Option) *Incremental {
	cfg := newSettings(opts)
	return &Incremental{
		source: source,
		cfg:    cfg,
		log:    cfg.logger.WithComponent("highlight"),
		store:  newStore(),
		tree:   syntax.NewTree(lang),
	}
}

// Mode implements Engine.
func (e *Incremental) Mode() Mode {
	return ModeIncremental
}

// Edited implements Engine. The byte edit is queued for the tree and every
// cached line from the edit's start line onward is evicted.
func (e *Incremental) Edited(res buffer.EditResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.generation++
	if !e.reset {
		e.edits = append(e.edits, syntax.InputEdit{
			StartByte:  res.StartByte,
			OldEndByte: res.OldEndByte,
			NewEndByte: res.NewEndByte,
		})
	}
	e.evictFrom(res.StartLine)
	e.scheduleWarmup()
}

// Invalidate implements Engine.
func (e *Incremental) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.generation++
	e.reset, e.edits = true, nil
	if e.store.load().Len() > 0 {
		e.store.publish(nil)
	}
	e.scheduleWarmup()
}

// evictFrom drops cached lines >= line. Callers hold mu.
func (e *Incremental) evictFrom(line int) {
	old := e.store.load()
	kept := make(map[int][]syntax.Span, len(old.lines))
	for l, spans := range old.lines {
		if l < line {
			kept[l] = spans
		}
	}
	if len(kept) != len(old.lines) {
		e.store.publish(kept)
	}
}

// scheduleWarmup re-parses the last viewport once edits pause, cancelling
// a warm-up already running. Callers hold mu.
func (e *Incremental) scheduleWarmup() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	if e.cancelWarm != nil {
		e.cancelWarm()
		e.cancelWarm = nil
	}
	if !e.hasView {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	gen := e.generation
	e.cancelWarm = cancel
	e.pending = e.cfg.scheduler.AfterFunc(e.cfg.debounce, func() { e.warmup(ctx, gen) })
}

func (e *Incremental) warmup(ctx context.Context, gen uint64) {
	first, last, ok := e.warmupRange(gen)
	if !ok {
		return
	}
	r, ok, err := e.compute(ctx, first, last)
	if err != nil {
		if ctx.Err() != nil {
			e.discarded.Add(1)
			e.log.Debug("warm-up for generation %d cancelled", gen)
			return
		}
		e.fail(r.gen, err)
		return
	}
	if ok && e.commit(r) {
		e.applied.Add(1)
	}
}

// warmupRange returns the viewport a warm-up for gen should parse. ok is
// false when gen is stale or the viewport is already cached.
func (e *Incremental) warmupRange(gen uint64) (first, last int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.generation {
		e.discarded.Add(1)
		return 0, 0, false
	}
	e.pending = nil
	first, last, ok = clampLines(e.source(), e.viewFirst, e.viewLast)
	if !ok || e.store.load().covers(first, last) {
		return 0, 0, false
	}
	return first, last, true
}

// Highlights implements Engine. Cached lines are a hit; otherwise the tree
// is extended past the range by the margin and the range is queried.
func (e *Incremental) Highlights(first, last int) ([]syntax.Span, bool) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		spans, done, ok := e.cached(first, last, attempt == 0)
		if done {
			return spans, ok
		}
		r, ok, err := e.compute(context.Background(), first, last)
		if err != nil {
			e.fail(r.gen, err)
			return nil, false
		}
		if !ok {
			return nil, false
		}
		if e.commit(r) {
			return r.spans, true
		}
	}
	return nil, false
}

// cached serves lines [first, last] from the cache and records them as the
// viewport. done is false on a miss.
func (e *Incremental) cached(first, last int, countMiss bool) (spans []syntax.Span, done, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, true, false
	}
	first, last, ok = clampLines(e.source(), first, last)
	if !ok {
		return nil, true, false
	}
	e.viewFirst, e.viewLast, e.hasView = first, last, true

	if c := e.store.load(); c.covers(first, last) {
		e.hits.Add(1)
		return c.collect(first, last), true, true
	}
	if countMiss {
		e.misses.Add(1)
	}
	return nil, false, false
}

// result holds spans computed for lines [first, last] of snap, the text as
// of generation gen.
type result struct {
	gen         uint64
	snap        Text
	first, last int
	spans       []syntax.Span
}

// compute applies queued edits, parses through last+margin and queries
// lines [first, last]. It runs without mu, so edits reported meanwhile only
// make the result stale. ok is false when the range is empty.
func (e *Incremental) compute(ctx context.Context, first, last int) (r result, ok bool, err error) {
	e.treeMu.Lock()
	defer e.treeMu.Unlock()

	e.mu.Lock()
	r.gen = e.generation
	edits, reset := e.edits, e.reset
	e.edits, e.reset = nil, false
	e.mu.Unlock()

	// Taken after draining, so the snapshot contains every drained edit.
	snap := e.source()
	if reset {
		e.tree.Reset()
	}
	for _, ed := range edits {
		e.tree.Edit(ed)
	}

	first, last, ok = clampLines(snap, first, last)
	if !ok {
		return r, false, nil
	}
	ahead := min(last+e.cfg.margin, snap.LineCount()-1)
	_, parseEnd, _ := snap.LineByteRange(ahead)
	if err := e.tree.ParseContext(ctx, snap, parseEnd); err != nil {
		return r, false, err
	}

	start, _, _ := snap.LineByteRange(first)
	_, end, _ := snap.LineByteRange(last)
	spans, err := e.tree.Query(snap, start, end)
	if err != nil {
		return r, false, err
	}
	r.snap, r.first, r.last, r.spans = snap, first, last, spans
	return r, true, nil
}

// commit publishes r unless an edit arrived after it was computed.
func (e *Incremental) commit(r result) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || r.gen != e.generation {
		e.discarded.Add(1)
		e.log.Debug("dropping stale highlight result for generation %d (current %d)", r.gen, e.generation)
		return false
	}

	old := e.store.load()
	lines := make(map[int][]syntax.Span, len(old.lines)+r.last-r.first+1)
	for l, s := range old.lines {
		lines[l] = s
	}
	for l := r.first; l <= r.last; l++ {
		lines[l] = nil
	}
	for _, s := range r.spans {
		lo, hi := spanLines(r.snap, s)
		for l := lo; l <= hi; l++ {
			if l >= r.first && l <= r.last {
				lines[l] = append(lines[l], s)
				continue
			}
			// Outside the query only lines the span covers entirely are
			// complete.
			if ls, le, ok := r.snap.LineByteRange(l); ok && s.Start <= ls && le <= s.End {
				lines[l] = []syntax.Span{s}
			}
		}
	}
	e.store.publish(lines)
	return true
}

// fail records a highlight error. The tree has already reset itself; the
// cache is cleared unless newer edits have been reported.
func (e *Incremental) fail(gen uint64, err error) {
	e.failures.Add(1)
	e.log.Error("syntax highlighting failed: %v", err)
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed && gen == e.generation {
		e.store.publish(nil)
	}
}

func clampLines(t Text, first, last int) (int, int, bool) {
	first = max(first, 0)
	last = min(last, t.LineCount()-1)
	return first, last, first <= last
}

// Cache implements Engine.
func (e *Incremental) Cache() *Cache {
	return e.store.load()
}

// Version implements Engine.
func (e *Incremental) Version() uint64 {
	return e.store.load().Version()
}

// Stats implements Engine.
func (e *Incremental) Stats() Stats {
	c := e.store.load()
	return Stats{
		Hits:        e.hits.Load(),
		Misses:      e.misses.Load(),
		Applied:     e.applied.Load(),
		Discarded:   e.discarded.Load(),
		Failures:    e.failures.Load(),
		CachedLines: c.Len(),
		Version:     c.Version(),
	}
}

// Close implements Engine.
func (e *Incremental) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	if e.cancelWarm != nil {
		e.cancelWarm()
		e.cancelWarm = nil
	}
}

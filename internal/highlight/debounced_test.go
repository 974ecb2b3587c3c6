package highlight

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/syntax"
)

func rust(t *testing.T) *syntax.LanguageConfig {
	t.Helper()
	lang, ok := syntax.DefaultRegistry().Lookup("rs")
	if !ok {
		t.Fatal("rust not registered")
	}
	return lang
}

func sourceOf(buf *buffer.Buffer) func() Text {
	return func() Text { return buf.Snapshot() }
}

func hasKeyword(text string, spans []syntax.Span, word string) bool {
	for _, s := range spans {
		if s.Type == syntax.Keyword && text[s.Start:s.End] == word {
			return true
		}
	}
	return false
}

type fakeHighlighter struct {
	spans  []syntax.Span
	err    error
	during func()
	calls  int
}

func (f *fakeHighlighter) Highlight(string) ([]syntax.Span, error) {
	f.calls++
	if f.during != nil {
		hook := f.during
		f.during = nil
		hook()
	}
	return f.spans, f.err
}

func TestDebouncedComputesAfterQuietPeriod(t *testing.T) {
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString("fn main() {}\nlet x = 1;")
	d := NewDebounced(syntax.NewHighlighter(rust(t)), sourceOf(buf), WithScheduler(sched))
	defer d.Close()

	if _, ok := d.Highlights(0, 0); ok {
		t.Fatal("highlights available before the first computation")
	}
	sched.Advance(DefaultDebounce - time.Millisecond)
	if d.Version() != 0 {
		t.Fatalf("computed before the debounce elapsed")
	}
	sched.Advance(time.Millisecond)

	spans, ok := d.Highlights(0, 0)
	if !ok || !hasKeyword(buf.Text(), spans, "fn") {
		t.Fatalf("expected a keyword span for fn, got %+v (%v)", spans, ok)
	}
	if d.Version() != 1 {
		t.Errorf("Version() = %d, want 1", d.Version())
	}
	if st := d.Stats(); st.Applied != 1 || st.CachedLines != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestDebouncedRestartsOnEdit(t *testing.T) {
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString("fn a() {}")
	d := NewDebounced(syntax.NewHighlighter(rust(t)), sourceOf(buf), WithScheduler(sched))
	defer d.Close()
	sched.Advance(DefaultDebounce)

	edit := func(offset int, text string) {
		res, err := buf.Insert(offset, text)
		if err != nil {
			t.Fatal(err)
		}
		d.Edited(res)
	}

	edit(buf.Len(), "\nfn b() {}")
	if _, ok := d.Highlights(0, 0); !ok {
		t.Error("previous spans should stay visible until the recompute lands")
	}
	sched.Advance(100 * time.Millisecond)
	edit(buf.Len(), "\nfn c() {}")
	sched.Advance(100 * time.Millisecond)
	if d.Version() != 1 {
		t.Fatalf("recomputed before edits paused: version %d", d.Version())
	}
	sched.Advance(50 * time.Millisecond)
	if d.Version() != 2 {
		t.Fatalf("Version() = %d, want 2", d.Version())
	}
	spans, ok := d.Highlights(2, 2)
	if !ok || !hasKeyword(buf.Text(), spans, "fn") {
		t.Errorf("line 2 not highlighted: %+v", spans)
	}
	if sched.Pending() != 0 {
		t.Errorf("%d jobs still pending", sched.Pending())
	}
}

func TestDebouncedFailureClearsCache(t *testing.T) {
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString("fn a() {}")
	hl := &fakeHighlighter{spans: []syntax.Span{{Start: 0, End: 2, Type: syntax.Keyword}}}
	d := NewDebounced(hl, sourceOf(buf), WithScheduler(sched))
	defer d.Close()
	sched.Advance(DefaultDebounce)
	if _, ok := d.Highlights(0, 0); !ok {
		t.Fatal("expected spans")
	}

	hl.err = errors.New("parse exploded")
	res, _ := buf.Insert(0, " ")
	d.Edited(res)
	sched.Advance(DefaultDebounce)

	if _, ok := d.Highlights(0, 0); ok {
		t.Error("cache should be cleared after a failure")
	}
	st := d.Stats()
	if st.Failures != 1 || st.Version != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestDebouncedDiscardsStaleResult(t *testing.T) {
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString("fn a() {}")
	hl := &fakeHighlighter{spans: []syntax.Span{{Start: 0, End: 2, Type: syntax.Keyword}}}

	var d *Debounced
	hl.during = func() {
		// An edit lands while the job is computing.
		res, _ := buf.Insert(0, "x")
		d.Edited(res)
	}
	d = NewDebounced(hl, sourceOf(buf), WithScheduler(sched))
	defer d.Close()

	sched.Advance(DefaultDebounce)
	if d.Version() != 0 {
		t.Fatalf("stale result was applied: version %d", d.Version())
	}
	if st := d.Stats(); st.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1", st.Discarded)
	}

	sched.Advance(DefaultDebounce)
	if d.Version() != 1 || hl.calls != 2 {
		t.Errorf("follow-up job: version %d, calls %d", d.Version(), hl.calls)
	}
}

func TestDebouncedClose(t *testing.T) {
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString("fn a() {}")
	hl := &fakeHighlighter{}
	d := NewDebounced(hl, sourceOf(buf), WithScheduler(sched))
	d.Close()
	d.Close()

	sched.Advance(time.Second)
	if hl.calls != 0 {
		t.Errorf("highlighter ran after Close")
	}
	res, _ := buf.Insert(0, "x")
	d.Edited(res)
	if sched.Pending() != 0 {
		t.Error("edits after Close should not schedule work")
	}
}

func TestDebouncedTimerScheduler(t *testing.T) {
	buf := buffer.NewBufferFromString("fn main() {}")
	d := NewDebounced(syntax.NewHighlighter(rust(t)), sourceOf(buf), WithDebounce(time.Millisecond))
	defer d.Close()

	deadline := time.Now().Add(5 * time.Second)
	for d.Version() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for background highlight")
		}
		time.Sleep(time.Millisecond)
	}
	if _, ok := d.Highlights(0, 0); !ok {
		t.Error("expected highlights after the background job")
	}
}

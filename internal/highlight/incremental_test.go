package highlight

import (
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/syntax"
)

func newIncremental(t *testing.T, text string, opts ...Option) (*Incremental, *buffer.Buffer, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString(text)
	opts = append([]Option{WithScheduler(sched)}, opts...)
	e := NewIncremental(rust(t), sourceOf(buf), opts...)
	t.Cleanup(e.Close)
	return e, buf, sched
}

func cachedLines(e *Incremental) []int {
	c := e.Cache()
	var lines []int
	for l := 0; l < 1000; l++ {
		if _, ok := c.Line(l); ok {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestIncrementalHitsAndMisses(t *testing.T) {
	e, buf, _ := newIncremental(t, "fn a() {}\nfn b() {}\nfn c() {}")

	spans, ok := e.Highlights(0, 2)
	if !ok || !hasKeyword(buf.Text(), spans, "fn") {
		t.Fatalf("expected spans, got %+v", spans)
	}
	if st := e.Stats(); st.Misses != 1 || st.Hits != 0 || st.CachedLines != 3 {
		t.Errorf("after first query: %+v", st)
	}

	again, ok := e.Highlights(1, 1)
	if !ok || len(again) == 0 {
		t.Fatal("expected cached spans for line 1")
	}
	if st := e.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("second query should hit: %+v", st)
	}
	for _, s := range again {
		if s.Start < 10 || s.End > 20 {
			t.Errorf("span %+v is outside line 1", s)
		}
	}
}

func TestIncrementalEditEvictsFromStartLine(t *testing.T) {
	e, buf, _ := newIncremental(t, "fn a() {}\nfn b() {}\nfn c() {}")
	e.Highlights(0, 2)
	before := e.Version()

	res, err := buf.Insert(12, "x") // inside line 1
	if err != nil {
		t.Fatal(err)
	}
	e.Edited(res)

	if got := cachedLines(e); len(got) != 1 || got[0] != 0 {
		t.Errorf("cached lines after editing line 1 = %v, want [0]", got)
	}
	if e.Version() <= before {
		t.Error("eviction should bump the version")
	}

	if _, ok := e.Highlights(0, 0); !ok {
		t.Fatal("line 0 should still be served")
	}
	if st := e.Stats(); st.Hits != 1 {
		t.Errorf("line 0 query should hit the cache: %+v", st)
	}
}

func TestIncrementalMultiLineEditEvictsFollowingLines(t *testing.T) {
	e, buf, _ := newIncremental(t, "fn a() {}\nfn b() {}\nfn c() {}\nfn d() {}")
	e.Highlights(0, 3)

	res, _ := buf.Remove(buffer.NewRange(15, 25)) // joins lines 1 and 2
	e.Edited(res)
	if got := cachedLines(e); len(got) != 1 || got[0] != 0 {
		t.Errorf("cached lines = %v, want [0]", got)
	}

	spans, ok := e.Highlights(1, 1)
	if !ok {
		t.Fatal("expected spans after reparse")
	}
	text := buf.Text()
	for _, s := range spans {
		if s.End > len(text) {
			t.Fatalf("span %+v beyond text", s)
		}
	}
}

func TestIncrementalMultiLineSpanPopulatesCoveredLines(t *testing.T) {
	e, _, _ := newIncremental(t, "/* a\nb\nc */\nfn x() {}")

	if _, ok := e.Highlights(0, 0); !ok {
		t.Fatal("expected spans")
	}
	got := cachedLines(e)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("cached lines = %v, want [0 1]", got)
	}
	spans, _ := e.Highlights(1, 1)
	if len(spans) != 1 || spans[0].Type != syntax.Comment {
		t.Errorf("line 1 spans = %+v, want one comment", spans)
	}
	if st := e.Stats(); st.Hits != 1 {
		t.Errorf("line 1 should be a hit: %+v", st)
	}
}

func TestIncrementalOnlyRequestedLinesCached(t *testing.T) {
	text := strings.Repeat("fn f() { let s = \"x\"; }\n", 1000)
	e, _, _ := newIncremental(t, text, WithMargin(50))

	if _, ok := e.Highlights(10, 19); !ok {
		t.Fatal("expected spans")
	}
	if st := e.Stats(); st.CachedLines != 10 {
		t.Errorf("CachedLines = %d, want 10", st.CachedLines)
	}
}

func TestIncrementalWarmupAfterEdit(t *testing.T) {
	e, buf, sched := newIncremental(t, "fn a() {}\nfn b() {}\nfn c() {}")
	e.Highlights(0, 2)

	for i := 0; i < 3; i++ {
		res, _ := buf.Insert(0, " ")
		e.Edited(res)
	}
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want a single warm-up", sched.Pending())
	}
	sched.Advance(DefaultDebounce)

	if got := cachedLines(e); len(got) != 3 {
		t.Errorf("warm-up should repopulate the viewport, cached %v", got)
	}
	if st := e.Stats(); st.Applied != 1 {
		t.Errorf("Applied = %d, want 1", st.Applied)
	}
}

func TestIncrementalOutOfRange(t *testing.T) {
	e, _, _ := newIncremental(t, "fn a() {}")
	if _, ok := e.Highlights(5, 9); ok {
		t.Error("lines past the end should report no highlights")
	}
	if spans, ok := e.Highlights(-3, 0); !ok || len(spans) == 0 {
		t.Error("negative first line should clamp to 0")
	}
}

func TestIncrementalEmptyDocument(t *testing.T) {
	e, _, _ := newIncremental(t, "")
	spans, ok := e.Highlights(0, 0)
	if !ok || len(spans) != 0 {
		t.Errorf("empty document: %+v, %v", spans, ok)
	}
}

type brokenLexer struct{ chroma.Lexer }

func (brokenLexer) Tokenise(*chroma.TokeniseOptions, string) (chroma.Iterator, error) {
	panic("lexer bug")
}

func TestIncrementalFailureIsContained(t *testing.T) {
	lang := *rust(t)
	lang.Lexer = brokenLexer{lang.Lexer}
	buf := buffer.NewBufferFromString("fn a() {}")
	e := NewIncremental(&lang, sourceOf(buf), WithScheduler(NewManualScheduler()))
	defer e.Close()

	if _, ok := e.Highlights(0, 0); ok {
		t.Error("a failing lexer should yield no highlights")
	}
	if st := e.Stats(); st.Failures != 1 || st.CachedLines != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

// gatedLexer blocks the first Tokenise call after it is armed until
// release is closed.
type gatedLexer struct {
	chroma.Lexer
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedLexer) Tokenise(opts *chroma.TokeniseOptions, text string) (chroma.Iterator, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.Lexer.Tokenise(opts, text)
}

func TestIncrementalEditDuringWarmup(t *testing.T) {
	lang := *rust(t)
	gate := &gatedLexer{Lexer: lang.Lexer, entered: make(chan struct{}), release: make(chan struct{})}
	lang.Lexer = gate
	sched := NewManualScheduler()
	buf := buffer.NewBufferFromString("fn a() {}\nfn b() {}\nfn c() {}")
	e := NewIncremental(&lang, sourceOf(buf), WithScheduler(sched))
	defer e.Close()

	if _, ok := e.Highlights(0, 2); !ok {
		t.Fatal("expected spans")
	}
	res, _ := buf.Insert(0, " ")
	e.Edited(res)

	gate.armed.Store(true)
	advanced := make(chan struct{})
	go func() {
		sched.Advance(DefaultDebounce)
		close(advanced)
	}()
	select {
	case <-gate.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("warm-up never started lexing")
	}

	edited := make(chan struct{})
	go func() {
		res, _ := buf.Insert(0, "//")
		e.Edited(res)
		close(edited)
	}()
	select {
	case <-edited:
	case <-time.After(2 * time.Second):
		close(gate.release)
		t.Fatal("Edited waited for the running warm-up")
	}
	close(gate.release)
	<-advanced

	if st := e.Stats(); st.Applied != 0 || st.Discarded == 0 {
		t.Errorf("the superseded warm-up should be discarded: %+v", st)
	}
	if got := cachedLines(e); len(got) != 0 {
		t.Errorf("stale lines %v cached after the second edit", got)
	}

	sched.Advance(DefaultDebounce)
	if st := e.Stats(); st.Applied != 1 {
		t.Fatalf("the second warm-up should apply: %+v", st)
	}
	want, err := syntax.NewHighlighter(&lang).Highlight(buf.Text())
	if err != nil {
		t.Fatal(err)
	}
	got, ok := e.Highlights(0, 2)
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("spans after warm-up = %+v, want %+v", got, want)
	}
}

func TestIncrementalQueuedEditsMatchFullHighlight(t *testing.T) {
	e, buf, _ := newIncremental(t, "fn a() {}\nfn b() {}\nfn c() {}\n")
	e.Highlights(0, 3)

	for _, ins := range []struct {
		at   int
		text string
	}{{10, "/* "}, {0, "let x = 1;\n"}, {25, " */"}} {
		res, err := buf.Insert(ins.at, ins.text)
		if err != nil {
			t.Fatal(err)
		}
		e.Edited(res)
	}

	want, err := syntax.NewHighlighter(rust(t)).Highlight(buf.Text())
	if err != nil {
		t.Fatal(err)
	}
	got, ok := e.Highlights(0, buf.LineCount()-1)
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("spans after queued edits = %+v, want %+v", got, want)
	}
}

func TestNewSelectsMode(t *testing.T) {
	buf := buffer.NewBufferFromString("fn a() {}")
	sched := WithScheduler(NewManualScheduler())

	for _, mode := range []Mode{ModeDebounced, ModeIncremental} {
		e := New(mode, rust(t), sourceOf(buf), sched)
		if e.Mode() != mode {
			t.Errorf("New(%v).Mode() = %v", mode, e.Mode())
		}
		e.Close()
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"debounced", ModeDebounced, false},
		{"Incremental", ModeIncremental, false},
		{"", ModeDebounced, false},
		{"eager", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || (err == nil && got != tt.want) {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

package syntax

import (
	"context"
	"slices"
	"sort"
)

// Source is the byte-addressed text a Tree lexes.
// *buffer.Buffer and *buffer.Snapshot implement it.
type Source interface {
	ByteLen() int
	ByteSlice(start, end int) string
}

// InputEdit describes an edit in bytes: [StartByte, OldEndByte) was
// replaced by text now occupying [StartByte, NewEndByte).
type InputEdit struct {
	StartByte  int
	OldEndByte int
	NewEndByte int
}

// initialWindow is how far past the requested offset a parse pass lexes.
const initialWindow = 16 * 1024

// resyncMargin bounds how far a lexer rule may look past the text it
// matches. Edits restart lexing at a checkpoint at least this far before
// them, and a pass that stops short of the document end only commits up to
// a checkpoint this far before the end of its window.
const resyncMargin = 2 * 1024

const (
	// checkpointSpacing is the minimum distance between recorded checkpoints.
	checkpointSpacing = 1024
	// verifyWindow is how much text a checkpoint is verified against.
	verifyWindow = resyncMargin + 2*1024
)

// checkpoint is a line start a fresh lexer can resume from.
type checkpoint struct {
	at int
	// settled is where a pass started at at was seen to rejoin the full
	// pass. Resuming at at is exact while text before settled is unchanged.
	settled int
}

// Tree caches the spans of a document prefix and extends it on demand.
//
// Coverage always ends at a checkpoint or at the end of the document. A
// line start becomes a checkpoint when the lexer there is in its initial
// state, or when a pass started there reaches the same lexer state as the
// full pass at a later line start with identical spans in between. Either
// way lexing resumes there without re-reading earlier text.
type Tree struct {
	lang        *LanguageConfig
	spans       []Span
	checkpoints []checkpoint // ascending; checkpoints[0].at == 0
	covered     int
	complete    bool // coverage reaches the end of the document
}

// NewTree creates an empty tree for lang.
func NewTree(lang *LanguageConfig) *Tree {
	return &Tree{lang: lang, checkpoints: []checkpoint{{}}}
}

// Language returns the tree's language configuration.
func (t *Tree) Language() *LanguageConfig {
	return t.lang
}

// Covered returns the number of bytes from the document start whose spans
// are known.
func (t *Tree) Covered() int {
	return t.covered
}

// Checkpoints returns the number of resume points recorded.
func (t *Tree) Checkpoints() int {
	return len(t.checkpoints)
}

// Reset discards all coverage.
func (t *Tree) Reset() {
	t.spans = nil
	t.checkpoints = []checkpoint{{}}
	t.covered = 0
	t.complete = false
}

// Edit invalidates coverage affected by e.
func (t *Tree) Edit(e InputEdit) {
	t.complete = false
	limit := e.StartByte - resyncMargin
	k := sort.Search(len(t.checkpoints), func(i int) bool { return t.checkpoints[i].at > limit })
	for k > 1 && t.checkpoints[k-1].settled > limit {
		k--
	}
	k = max(k, 1)
	restart := t.checkpoints[k-1].at
	if restart >= t.covered {
		return
	}
	t.checkpoints = t.checkpoints[:k]

	s := sort.Search(len(t.spans), func(i int) bool { return t.spans[i].End > restart })
	t.spans = t.spans[:s]
	t.covered = restart
}

// Parse extends coverage to at least upTo bytes (clamped to the document).
// On error the tree is reset.
func (t *Tree) Parse(src Source, upTo int) error {
	return t.ParseContext(context.Background(), src, upTo)
}

// ParseContext is Parse with cancellation. A cancelled parse returns the
// context's error and keeps the coverage the tree had.
func (t *Tree) ParseContext(ctx context.Context, src Source, upTo int) error {
	n := src.ByteLen()
	upTo = min(upTo, n)
	if t.complete && t.covered != n {
		// The document changed length without an Edit.
		t.Reset()
	}

	window := initialWindow
	for t.covered < upTo || (n == 0 && !t.complete) {
		end := min(n, upTo+window)
		atEOF := end == n
		res, err := lex(ctx, t.lang, src.ByteSlice(t.covered, end), t.covered, atEOF, nil)
		if err == nil {
			var ok bool
			if ok, err = t.commit(ctx, src, res, upTo, atEOF); err == nil && !ok {
				window *= 2
			}
		}
		if err != nil {
			if ctx.Err() == nil {
				t.Reset()
			}
			return err
		}
	}
	return nil
}

// commit appends the part of res that ends at a checkpoint at or past upTo,
// or all of it when res runs to the end of the document. ok is false when
// no such checkpoint was found.
func (t *Tree) commit(ctx context.Context, src Source, res lexResult, upTo int, atEOF bool) (ok bool, err error) {
	limit := res.end
	if !atEOF {
		limit -= resyncMargin
	}

	var (
		found []checkpoint
		next  = t.checkpoints[len(t.checkpoints)-1].at + checkpointSpacing
		fails int
		stop  = -1
	)
	for i, ls := range res.lineStarts {
		if ls.at > limit {
			break
		}
		if ls.at < next && !(ls.stack == rootStack && ls.at >= upTo) {
			continue
		}
		cp, ok, err := t.resumable(ctx, src, res, i, limit)
		if err != nil {
			return false, err
		}
		if !ok {
			// Retry at the next few line starts, then back off.
			fails++
			next = ls.at
			if fails > 4 {
				next += min(32<<min(fails-5, 5), checkpointSpacing)
			}
			continue
		}
		fails = 0
		next = ls.at + checkpointSpacing
		found = append(found, cp)
		if !atEOF && ls.at >= upTo {
			stop = ls.at
			break
		}
	}

	end := res.end
	if !atEOF {
		if stop < 0 {
			return false, nil
		}
		end = stop
	}
	// Spans never cross a line start.
	k := sort.Search(len(res.spans), func(i int) bool { return res.spans[i].Start >= end })
	t.spans = append(t.spans, res.spans[:k]...)
	t.checkpoints = append(t.checkpoints, found...)
	t.covered = end
	t.complete = atEOF
	return true, nil
}

// resumable reports whether lexing from res.lineStarts[i] with a fresh lexer
// reproduces res. res is trusted up to limit.
func (t *Tree) resumable(ctx context.Context, src Source, res lexResult, i, limit int) (checkpoint, bool, error) {
	from := res.lineStarts[i]
	if from.stack == rootStack {
		return checkpoint{at: from.at, settled: from.at}, true, nil
	}

	n := src.ByteLen()
	end := min(n, from.at+verifyWindow)
	trusted := min(limit, end)
	if end < n {
		trusted = min(trusted, end-resyncMargin)
	}

	lo := sort.Search(len(res.spans), func(k int) bool { return res.spans[k].Start >= from.at })
	want := res.spans[lo:]
	rest := res.lineStarts[i+1:]
	settled, checked, diverged := -1, 0, false
	fresh, err := lex(ctx, t.lang, src.ByteSlice(from.at, end), from.at, end == n, func(ls lineState, spans []Span) bool {
		if ls.at > trusted {
			return true
		}
		if len(spans) > len(want) || !slices.Equal(spans[checked:], want[checked:len(spans)]) {
			diverged = true
			return true
		}
		checked = len(spans)
		j := sort.Search(len(rest), func(j int) bool { return rest[j].at >= ls.at })
		if j < len(rest) && rest[j] == ls {
			settled = ls.at
			return true
		}
		return false
	})
	if err != nil {
		return checkpoint{}, false, err
	}
	if diverged {
		return checkpoint{}, false, nil
	}
	if settled < 0 {
		if trusted < n || fresh.end < n {
			return checkpoint{}, false, nil
		}
		// Both passes ran to the end of the document.
		settled = n
	}

	hi := sort.Search(len(res.spans), func(k int) bool { return res.spans[k].Start >= settled })
	got := fresh.spans
	if k := sort.Search(len(got), func(k int) bool { return got[k].Start >= settled }); k < len(got) {
		got = got[:k]
	}
	if !slices.Equal(res.spans[lo:hi], got) {
		return checkpoint{}, false, nil
	}
	return checkpoint{at: from.at, settled: settled}, true, nil
}

// Query returns the spans intersecting the byte range [start, end),
// parsing as far as needed.
func (t *Tree) Query(src Source, start, end int) ([]Span, error) {
	if err := t.Parse(src, end); err != nil {
		return nil, err
	}
	out := spansIn(t.spans, start, end)
	return append([]Span(nil), out...), nil
}

// Spans returns a copy of every span covered so far.
func (t *Tree) Spans() []Span {
	return append([]Span(nil), t.spans...)
}

package syntax

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// Highlighter produces spans for a language. It holds no mutable state.
type Highlighter struct {
	lang *LanguageConfig
}

// NewHighlighter creates a highlighter for lang.
func NewHighlighter(lang *LanguageConfig) *Highlighter {
	return &Highlighter{lang: lang}
}

// Language returns the highlighter's language configuration.
func (h *Highlighter) Language() *LanguageConfig {
	return h.lang
}

// Highlight returns the spans of text in byte order.
func (h *Highlighter) Highlight(text string) ([]Span, error) {
	res, err := lex(context.Background(), h.lang, text, 0, true, nil)
	if err != nil {
		return nil, err
	}
	return res.spans, nil
}

// HighlightRange highlights text and returns the spans that intersect the
// byte range [start, end).
func (h *Highlighter) HighlightRange(text string, start, end int) ([]Span, error) {
	spans, err := h.Highlight(text)
	if err != nil {
		return nil, err
	}
	return spansIn(spans, start, end), nil
}

// spansIn returns the sub-slice of sorted spans intersecting [start, end).
func spansIn(spans []Span, start, end int) []Span {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > start })
	j := i
	for j < len(spans) && spans[j].Intersects(start, end) {
		j++
	}
	return spans[i:j:j]
}

// lexResult holds the output of one lexing pass.
type lexResult struct {
	spans []Span
	// lineStarts are the line starts the pass crossed, in order.
	lineStarts []lineState
	// end is the absolute offset the pass lexed up to.
	end int
}

// lineState is the lexer state at the start of a line.
type lineState struct {
	at    int // absolute byte offset
	stack string
}

// lex tokenizes text, which starts at byte offset base of the document.
// atEOF reports whether text runs to the end of the document; a missing
// final newline is then supplied so line-terminated rules still match.
//
// Adjacent tokens of one chroma type are merged into a single span, but
// never across a line start, so a pass resumed at one yields the same spans.
// When until is non-nil it sees every line start with the spans before it,
// and the pass ends at the first line start it accepts.
func lex(ctx context.Context, lang *LanguageConfig, text string, base int, atEOF bool, until func(lineState, []Span) bool) (res lexResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = lexResult{}
			err = fmt.Errorf("%w: %s: panic: %v", ErrHighlight, lang.Name, r)
		}
	}()

	n := len(text)
	res.end = base + n
	if n == 0 {
		return res, nil
	}
	src := text
	if atEOF && !strings.HasSuffix(src, "\n") {
		src += "\n"
	}

	// Explicit options: the lexer default rewrites "\r\n", shifting offsets.
	it, err := lang.Lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, src)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrHighlight, lang.Name, err)
	}

	var (
		pos      int
		run      chroma.Token
		runStart int
	)
	flush := func() {
		if run.Value == "" {
			return
		}
		end := min(runStart+len(run.Value), n)
		if tt, ok := lang.Query.TokenType(run); ok && end > runStart {
			res.spans = append(res.spans, Span{Start: base + runStart, End: base + end, Type: tt})
		}
		run = chroma.Token{}
	}

	for count := 0; ; count++ {
		if count%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return lexResult{}, err
			}
		}
		tok := it()
		if tok == chroma.EOF || pos >= n {
			break
		}
		if tok.Type == lineStart {
			flush()
			ls := lineState{at: base + pos, stack: tok.Value}
			res.lineStarts = append(res.lineStarts, ls)
			if until != nil && until(ls, res.spans) {
				return res, nil
			}
			continue
		}
		if tok.Value == "" {
			continue
		}
		if run.Value != "" && run.Type == tok.Type {
			run.Value += tok.Value
		} else {
			flush()
			run, runStart = tok, pos
		}
		pos += len(tok.Value)
	}
	flush()
	return res, nil
}

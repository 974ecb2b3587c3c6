package syntax

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
)

func rustHighlighter(t *testing.T) *Highlighter {
	t.Helper()
	lang, ok := DefaultRegistry().Lookup("rs")
	if !ok {
		t.Fatal("rust language not registered")
	}
	return NewHighlighter(lang)
}

func hasSpan(spans []Span, text, value string, tt TokenType) bool {
	for _, s := range spans {
		if s.Type == tt && text[s.Start:s.End] == value {
			return true
		}
	}
	return false
}

func hasType(spans []Span, tt TokenType) bool {
	for _, s := range spans {
		if s.Type == tt {
			return true
		}
	}
	return false
}

func TestHighlightRust(t *testing.T) {
	h := rustHighlighter(t)

	tests := []struct {
		name  string
		text  string
		value string
		want  TokenType
	}{
		{"fn keyword", "fn main() {}", "fn", Keyword},
		{"string literal", `let s = "hello";`, "", String},
		{"line comment", "// comment", "", Comment},
		{"control keyword", "fn f() { if x { return; } }", "if", KeywordControl},
		{"boolean", "let b = true;", "true", Boolean},
		{"number", "let n = 42;", "42", Number},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans, err := h.Highlight(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if len(spans) == 0 {
				t.Fatal("expected spans")
			}
			if tt.value != "" {
				if !hasSpan(spans, tt.text, tt.value, tt.want) {
					t.Errorf("no %v span covering %q in %+v", tt.want, tt.value, spans)
				}
			} else if !hasType(spans, tt.want) {
				t.Errorf("no %v span in %+v", tt.want, spans)
			}
		})
	}
}

func TestHighlightEmpty(t *testing.T) {
	spans, err := rustHighlighter(t).Highlight("")
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 0 {
		t.Errorf("expected no spans, got %+v", spans)
	}
}

func TestHighlightInvalidSyntax(t *testing.T) {
	if _, err := rustHighlighter(t).Highlight("fn {{{"); err != nil {
		t.Errorf("invalid syntax should still highlight, got %v", err)
	}
}

func TestHighlightSpansOrderedAndClamped(t *testing.T) {
	text := "fn main() {\r\n    let x = 1; // one\r\n}"
	spans, err := rustHighlighter(t).Highlight(text)
	if err != nil {
		t.Fatal(err)
	}
	prev := 0
	for _, s := range spans {
		if s.Start < prev || s.End <= s.Start || s.End > len(text) {
			t.Fatalf("bad span %+v (prev end %d, len %d)", s, prev, len(text))
		}
		prev = s.End
	}
	if !hasSpan(spans, text, "let", Keyword) {
		t.Errorf("byte offsets drifted across CRLF: %+v", spans)
	}
}

func TestHighlightRange(t *testing.T) {
	text := "fn a() {}\nfn b() {}\n"
	spans, err := rustHighlighter(t).HighlightRange(text, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range spans {
		if s.End <= 10 {
			t.Errorf("span %+v lies before the range", s)
		}
	}
	if !hasSpan(spans, text, "fn", Keyword) {
		t.Errorf("expected second fn in %+v", spans)
	}
}

type panicLexer struct{ chroma.Lexer }

func (panicLexer) Tokenise(*chroma.TokeniseOptions, string) (chroma.Iterator, error) {
	panic("boom")
}

func TestHighlightRecoversPanic(t *testing.T) {
	lang := *rustHighlighter(t).Language()
	lang.Lexer = panicLexer{lang.Lexer}

	_, err := NewHighlighter(&lang).Highlight("fn main() {}")
	if !errors.Is(err, ErrHighlight) {
		t.Fatalf("expected ErrHighlight, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry the panic value: %v", err)
	}
}

func TestHighlightOtherLanguages(t *testing.T) {
	tests := []struct {
		ext   string
		text  string
		value string
		want  TokenType
	}{
		{"go", "package main\n\nfunc main() { if true { return } }\n", "if", KeywordControl},
		{"go", "package main\n\nvar s = \"x\"\n", "package", Keyword},
		{"py", "def f():\n    return None\n", "def", Keyword},
		{"js", "function f() { return 1; }\n", "return", KeywordControl},
		{"ts", "let n: number = 1;\n", "1", Number},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			lang, ok := DefaultRegistry().Lookup(tt.ext)
			if !ok {
				t.Fatalf("no language for %s", tt.ext)
			}
			spans, err := NewHighlighter(lang).Highlight(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if !hasSpan(spans, tt.text, tt.value, tt.want) {
				t.Errorf("no %v span for %q in %+v", tt.want, tt.value, spans)
			}
		})
	}
}

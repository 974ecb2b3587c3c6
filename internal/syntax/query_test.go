package syntax

import (
	"errors"
	"testing"

	"github.com/alecthomas/chroma/v2"
)

func TestNewQueryRejectsUnknownCaptures(t *testing.T) {
	tests := []struct {
		name  string
		names CaptureNames
		rules []Rule
	}{
		{"capture not in list", CaptureNames{"keyword"}, []Rule{{Type: chroma.Keyword, Capture: "string"}}},
		{"unparseable name", CaptureNames{"keyword", "keyword.sparkly"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuery(tt.names, tt.rules)
			if !errors.Is(err, ErrUnknownCapture) {
				t.Errorf("expected ErrUnknownCapture, got %v", err)
			}
		})
	}
}

func TestQueryMatchPrecedence(t *testing.T) {
	names := CaptureNames{"keyword", "keyword.control", "string", "string.escape", "punctuation.bracket", "punctuation"}
	q, err := NewQuery(names, []Rule{
		{Type: chroma.Keyword, Capture: "keyword"},
		{Type: chroma.Keyword, Words: []string{"if"}, Capture: "keyword.control"},
		{Type: chroma.LiteralString, Capture: "string"},
		{Type: chroma.LiteralStringEscape, Capture: "string.escape"},
		{Type: chroma.Punctuation, Chars: "(){}", Capture: "punctuation.bracket"},
		{Type: chroma.Punctuation, Capture: "punctuation"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		tok  chroma.Token
		want TokenType
		ok   bool
	}{
		{"category rule", chroma.Token{Type: chroma.KeywordDeclaration, Value: "let"}, Keyword, true},
		{"word rule wins", chroma.Token{Type: chroma.Keyword, Value: "if"}, KeywordControl, true},
		{"word rule at category level", chroma.Token{Type: chroma.KeywordReserved, Value: "if"}, KeywordControl, true},
		{"sub-category", chroma.Token{Type: chroma.LiteralStringDouble, Value: `"x"`}, String, true},
		{"exact beats sub-category", chroma.Token{Type: chroma.LiteralStringEscape, Value: `\n`}, StringEscape, true},
		{"coalesced brackets", chroma.Token{Type: chroma.Punctuation, Value: "(){"}, PunctuationBracket, true},
		{"mixed punctuation", chroma.Token{Type: chroma.Punctuation, Value: ");"}, Punctuation, true},
		{"no rule", chroma.Token{Type: chroma.TextWhitespace, Value: " "}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := q.TokenType(tt.tok)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("TokenType(%v) = %v, %v; want %v, %v", tt.tok, got, ok, tt.want, tt.ok)
			}
		})
	}
}

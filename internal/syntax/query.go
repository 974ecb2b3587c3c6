package syntax

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// Rule assigns a capture to lexer tokens of a chroma token type.
//
// Type may be an exact token type, a sub-category (chroma.LiteralString) or
// a category (chroma.Keyword). When Words is set the token text must be one
// of them; when Chars is set every rune of the token must be in it.
type Rule struct {
	Type    chroma.TokenType
	Words   []string
	Chars   string
	Capture string
}

func (r Rule) conditional() bool {
	return len(r.Words) > 0 || r.Chars != ""
}

func (r Rule) accepts(value string) bool {
	if len(r.Words) > 0 {
		found := false
		for _, w := range r.Words {
			if w == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.Chars != "" {
		if value == "" {
			return false
		}
		for _, c := range value {
			if !strings.ContainsRune(r.Chars, c) {
				return false
			}
		}
	}
	return true
}

// compiledRule is a rule with its capture resolved to an index.
type compiledRule struct {
	Rule
	index int
}

// Query is a compiled set of rules for one language.
type Query struct {
	names CaptureNames
	rules map[chroma.TokenType][]compiledRule
}

// NewQuery compiles rules against names. Every rule's capture must be
// accepted by ParseCapture and present in names.
func NewQuery(names CaptureNames, rules []Rule) (*Query, error) {
	if bad, ok := names.Validate(); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCapture, bad)
	}

	q := &Query{
		names: names,
		rules: make(map[chroma.TokenType][]compiledRule),
	}
	for _, r := range rules {
		idx, ok := names.Index(r.Capture)
		if !ok {
			return nil, fmt.Errorf("%w: %q not in capture list", ErrUnknownCapture, r.Capture)
		}
		q.rules[r.Type] = append(q.rules[r.Type], compiledRule{Rule: r, index: idx})
	}

	// Conditional rules are tried before unconditional ones at each level.
	for t, list := range q.rules {
		ordered := make([]compiledRule, 0, len(list))
		for _, r := range list {
			if r.conditional() {
				ordered = append(ordered, r)
			}
		}
		for _, r := range list {
			if !r.conditional() {
				ordered = append(ordered, r)
			}
		}
		q.rules[t] = ordered
	}
	return q, nil
}

// Names returns the capture list the query was compiled against.
func (q *Query) Names() CaptureNames {
	return q.names
}

// Match returns the capture index for a token, trying the exact type, then
// its sub-category, then its category.
func (q *Query) Match(tok chroma.Token) (int, bool) {
	for _, t := range lookupOrder(tok.Type) {
		for _, r := range q.rules[t] {
			if r.accepts(tok.Value) {
				return r.index, true
			}
		}
	}
	return 0, false
}

// TokenType returns the highlight category for a token.
func (q *Query) TokenType(tok chroma.Token) (TokenType, bool) {
	idx, ok := q.Match(tok)
	if !ok {
		return 0, false
	}
	return q.names.TokenType(idx), true
}

func lookupOrder(t chroma.TokenType) []chroma.TokenType {
	order := []chroma.TokenType{t}
	if sub := t.SubCategory(); sub != t {
		order = append(order, sub)
	}
	if cat := t.Category(); cat != t && cat != t.SubCategory() {
		order = append(order, cat)
	}
	return order
}

package syntax

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// lineStart is a token emitted after a match that ends a line. Its value
// is the lexer's state stack at that point, not document text.
const lineStart chroma.TokenType = -1 << 20

// markLineStarts returns a copy of lexer whose rules report line starts
// with the state the lexer is in there. Lexers that are not regex state
// machines are returned as is and never report line starts.
func markLineStarts(lexer chroma.Lexer) chroma.Lexer {
	rl, ok := lexer.(*chroma.RegexLexer)
	if !ok {
		return lexer
	}
	rules, err := rl.Rules()
	if err != nil {
		return lexer
	}
	rules = rules.Clone()
	for state, list := range rules {
		for i := range list {
			if list[i].Type != nil {
				list[i].Type = lineStartEmitter{list[i].Type}
			}
		}
		rules[state] = list
	}
	marked, err := chroma.NewLexer(rl.Config(), func() chroma.Rules { return rules })
	if err != nil {
		return lexer
	}
	marked.SetRegistry(lexers.GlobalLexerRegistry)
	return marked
}

type lineStartEmitter struct {
	chroma.Emitter
}

// Emit runs after the rule's mutator, so state holds the stack the next
// match starts from. Markers emitted by nested lexers are dropped; only
// the outermost lexer's state counts.
func (e lineStartEmitter) Emit(groups []string, state *chroma.LexerState) chroma.Iterator {
	it := e.Emitter.Emit(groups, state)
	mark := strings.HasSuffix(groups[0], "\n") && len(state.MutatorContext) == 0
	stack := ""
	if mark {
		stack = stackKey(state.Stack)
	}
	return func() chroma.Token {
		for {
			tok := it()
			switch {
			case tok.Type == lineStart:
				continue
			case tok == chroma.EOF && mark:
				mark = false
				return chroma.Token{Type: lineStart, Value: stack}
			}
			return tok
		}
	}
}

// rootStack is the stack of a lexer that has just been created.
const rootStack = "root"

func stackKey(stack []string) string {
	return strings.Join(stack, "\x00")
}

package syntax

import "strings"

// captureTable maps (base, modifier) to a token type. The empty modifier
// is the bare base name.
var captureTable = map[string]map[string]TokenType{
	"keyword": {
		"":        Keyword,
		"control": KeywordControl,
	},
	"function": {
		"":        Function,
		"method":  FunctionMethod,
		"macro":   FunctionSpecial,
		"special": FunctionSpecial,
		"builtin": FunctionSpecial,
	},
	"type": {
		"":          Type,
		"builtin":   TypeBuiltin,
		"interface": TypeInterface,
		"class":     TypeClass,
	},
	"string": {
		"":       String,
		"escape": StringEscape,
		"regex":  StringRegex,
	},
	"number":   {"": Number},
	"boolean":  {"": Boolean},
	"comment":  {"": Comment, "doc": CommentDoc},
	"operator": {"": Operator},
	"variable": {
		"":          Variable,
		"special":   VariableSpecial,
		"builtin":   VariableSpecial,
		"parameter": VariableParameter,
	},
	"property": {"": Property},
	"constant": {
		"":        Constant,
		"builtin": ConstantBuiltin,
	},
	"punctuation": {
		"":          Punctuation,
		"bracket":   PunctuationBracket,
		"delimiter": PunctuationDelimiter,
		"special":   PunctuationSpecial,
	},
	"attribute": {"": Attribute},
	"lifetime":  {"": Lifetime},
	"embedded":  {"": Embedded},
}

// ParseCapture maps a dotted capture name to its token type.
// The name is split at the first dot into base and modifier; any pair not
// in the table is rejected, including names with more than two parts.
func ParseCapture(name string) (TokenType, bool) {
	base, modifier, _ := strings.Cut(name, ".")
	mods, ok := captureTable[base]
	if !ok {
		return 0, false
	}
	t, ok := mods[modifier]
	return t, ok
}

// CaptureNames is the ordered capture list of a language. The position of
// a name is its capture index.
type CaptureNames []string

// Index returns the capture index of name.
func (c CaptureNames) Index(name string) (int, bool) {
	for i, n := range c {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// TokenType maps a capture index to its token type. Indices outside the
// list, or naming an unrecognized capture, fall back to Variable.
func (c CaptureNames) TokenType(index int) TokenType {
	if index < 0 || index >= len(c) {
		return Variable
	}
	if t, ok := ParseCapture(c[index]); ok {
		return t
	}
	return Variable
}

// Validate returns the first name ParseCapture rejects.
func (c CaptureNames) Validate() (string, bool) {
	for _, n := range c {
		if _, ok := ParseCapture(n); !ok {
			return n, false
		}
	}
	return "", true
}

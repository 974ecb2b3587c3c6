package syntax

// TokenType is the semantic category of a highlight span.
type TokenType uint8

// Token types. The set is closed; ParseCapture never produces anything else.
const (
	Keyword TokenType = iota
	KeywordControl

	Function
	FunctionMethod
	FunctionSpecial

	Type
	TypeBuiltin
	TypeInterface
	TypeClass

	String
	StringEscape
	StringRegex

	Number
	Boolean

	Comment
	CommentDoc

	Operator

	Variable
	VariableSpecial
	VariableParameter

	Property

	Constant
	ConstantBuiltin

	Punctuation
	PunctuationBracket
	PunctuationDelimiter
	PunctuationSpecial

	Attribute
	Lifetime
	Embedded

	// Sentinel for iteration
	tokenTypeCount
)

var tokenTypeNames = [tokenTypeCount]string{
	Keyword:              "keyword",
	KeywordControl:       "keyword.control",
	Function:             "function",
	FunctionMethod:       "function.method",
	FunctionSpecial:      "function.special",
	Type:                 "type",
	TypeBuiltin:          "type.builtin",
	TypeInterface:        "type.interface",
	TypeClass:            "type.class",
	String:               "string",
	StringEscape:         "string.escape",
	StringRegex:          "string.regex",
	Number:               "number",
	Boolean:              "boolean",
	Comment:              "comment",
	CommentDoc:           "comment.doc",
	Operator:             "operator",
	Variable:             "variable",
	VariableSpecial:      "variable.special",
	VariableParameter:    "variable.parameter",
	Property:             "property",
	Constant:             "constant",
	ConstantBuiltin:      "constant.builtin",
	Punctuation:          "punctuation",
	PunctuationBracket:   "punctuation.bracket",
	PunctuationDelimiter: "punctuation.delimiter",
	PunctuationSpecial:   "punctuation.special",
	Attribute:            "attribute",
	Lifetime:             "lifetime",
	Embedded:             "embedded",
}

// String returns the canonical capture name of the token type.
func (t TokenType) String() string {
	if t < tokenTypeCount {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the defined token types.
func (t TokenType) Valid() bool {
	return t < tokenTypeCount
}

// AllTokenTypes returns every token type in declaration order.
func AllTokenTypes() []TokenType {
	types := make([]TokenType, tokenTypeCount)
	for i := range types {
		types[i] = TokenType(i)
	}
	return types
}

// Span is a highlighted byte range [Start, End).
type Span struct {
	Start int
	End   int
	Type  TokenType
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Intersects reports whether the span overlaps the byte range [start, end).
// An empty range intersects a span that strictly contains its position.
func (s Span) Intersects(start, end int) bool {
	if start == end {
		return s.Start <= start && start < s.End
	}
	return s.Start < end && start < s.End
}

package syntax

import "github.com/alecthomas/chroma/v2"

// StandardNames is the capture list shared by the built-in languages. The
// first eighteen entries keep their historical order so capture indices stay
// stable; the remainder extend it.
var StandardNames = CaptureNames{
	"keyword",
	"keyword.control",
	"function",
	"function.method",
	"function.macro",
	"type",
	"type.builtin",
	"string",
	"string.escape",
	"number",
	"comment",
	"variable",
	"property",
	"constant",
	"operator",
	"punctuation.bracket",
	"attribute",
	"lifetime",

	"boolean",
	"constant.builtin",
	"string.regex",
	"comment.doc",
	"punctuation.delimiter",
	"punctuation",
	"variable.special",
	"variable.parameter",
	"type.class",
	"type.interface",
	"punctuation.special",
	"embedded",
}

var booleanWords = []string{"true", "false", "True", "False"}

// commonRules maps chroma's token taxonomy onto captures. Language rules
// listed before these take precedence for the same token type.
func commonRules(control []string) []Rule {
	return []Rule{
		{Type: chroma.Keyword, Words: control, Capture: "keyword.control"},
		{Type: chroma.KeywordConstant, Words: booleanWords, Capture: "boolean"},
		{Type: chroma.KeywordConstant, Capture: "constant.builtin"},
		{Type: chroma.KeywordType, Capture: "type.builtin"},
		{Type: chroma.Keyword, Capture: "keyword"},

		{Type: chroma.NameFunction, Capture: "function"},
		{Type: chroma.NameFunctionMagic, Capture: "function.macro"},
		{Type: chroma.NameClass, Capture: "type"},
		{Type: chroma.NameException, Capture: "type"},
		{Type: chroma.NameBuiltinPseudo, Capture: "variable.special"},
		{Type: chroma.NameBuiltin, Capture: "function.macro"},
		{Type: chroma.NameDecorator, Capture: "attribute"},
		{Type: chroma.NameAttribute, Capture: "property"},
		{Type: chroma.NameProperty, Capture: "property"},
		{Type: chroma.NameConstant, Capture: "constant"},
		{Type: chroma.Name, Capture: "variable"},

		{Type: chroma.LiteralStringEscape, Capture: "string.escape"},
		{Type: chroma.LiteralStringRegex, Capture: "string.regex"},
		{Type: chroma.LiteralStringDoc, Capture: "comment.doc"},
		{Type: chroma.LiteralStringInterpol, Capture: "embedded"},
		{Type: chroma.LiteralString, Capture: "string"},
		{Type: chroma.LiteralNumber, Capture: "number"},

		{Type: chroma.Operator, Capture: "operator"},
		{Type: chroma.Punctuation, Chars: "()[]{}", Capture: "punctuation.bracket"},
		{Type: chroma.Punctuation, Chars: ",;.:", Capture: "punctuation.delimiter"},
		{Type: chroma.Punctuation, Capture: "punctuation"},

		{Type: chroma.Comment, Capture: "comment"},
	}
}

type languageDef struct {
	name       string
	lexer      string
	extensions []string
	control    []string
	rules      []Rule
}

var builtinDefs = []languageDef{
	{
		name:       "rust",
		lexer:      "rust",
		extensions: []string{".rs"},
		control:    []string{"if", "else", "for", "while", "loop", "match", "return", "break", "continue"},
		rules: []Rule{
			{Type: chroma.NameAttribute, Capture: "lifetime"},
			{Type: chroma.CommentPreproc, Capture: "attribute"},
			{Type: chroma.NameBuiltin, Capture: "type.builtin"},
		},
	},
	{
		name:       "go",
		lexer:      "go",
		extensions: []string{".go"},
		control: []string{"if", "else", "for", "switch", "case", "default", "return", "break",
			"continue", "goto", "select", "fallthrough", "defer", "go", "range"},
	},
	{
		name:       "javascript",
		lexer:      "javascript",
		extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		control: []string{"if", "else", "for", "while", "do", "switch", "case", "default",
			"return", "break", "continue", "throw", "try", "catch", "finally"},
	},
	{
		name:       "typescript",
		lexer:      "typescript",
		extensions: []string{".ts", ".tsx", ".mts", ".cts"},
		control: []string{"if", "else", "for", "while", "do", "switch", "case", "default",
			"return", "break", "continue", "throw", "try", "catch", "finally"},
	},
	{
		name:       "python",
		lexer:      "python",
		extensions: []string{".py", ".pyi"},
		control: []string{"if", "elif", "else", "for", "while", "return", "break", "continue",
			"try", "except", "finally", "raise", "with", "yield", "pass"},
	},
}

func builtinLanguages() ([]*LanguageConfig, error) {
	configs := make([]*LanguageConfig, 0, len(builtinDefs))
	for _, def := range builtinDefs {
		rules := append(append([]Rule(nil), def.rules...), commonRules(def.control)...)
		cfg, err := NewLanguageConfig(def.name, def.lexer, def.extensions, StandardNames, rules)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Package syntax turns source text into highlight spans.
//
// Lexing is done with chroma lexers. Each language supplies an ordered list
// of capture names and a query: rules that map chroma token types (and,
// optionally, token text) to a capture. A capture index is converted to one
// of the closed set of TokenType categories through the language's
// CaptureNames, falling back to Variable for indices outside the list.
//
// # Key Types
//
//   - TokenType: the closed highlight category enumeration
//   - Span: a byte range tagged with a TokenType
//   - Query: compiled capture rules for one language
//   - LanguageConfig: lexer, capture names and query for a language
//   - Registry: immutable extension → LanguageConfig index
//   - Highlighter: whole-text and range highlighting
//   - Tree: a lazily extended token cache that survives edits
//
// # Capture Names
//
// Capture names use a dotted base.modifier scheme ("function.method",
// "string.escape"). ParseCapture accepts only pairs present in its table;
// everything else is rejected, so a query cannot silently miscategorize a
// construct.
//
// # Thread Safety
//
// LanguageConfig, Query and Registry are immutable and may be shared.
// Highlighter is safe for concurrent use. Tree is not; callers serialize
// access to it.
package syntax

package syntax

import "errors"

// Errors returned by the syntax package.
var (
	// ErrHighlight indicates the lexer failed or panicked.
	ErrHighlight = errors.New("highlight failed")

	// ErrUnknownCapture indicates a query rule names a capture that is
	// not recognized or not part of the language's capture list.
	ErrUnknownCapture = errors.New("unknown capture name")

	// ErrUnknownLanguage indicates no lexer exists for a language.
	ErrUnknownLanguage = errors.New("unknown language")
)

package engine

import (
	"errors"

	"github.com/dshills/textengine/internal/engine/buffer"
)

// Errors returned by document operations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the document.
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrClosed indicates the document has been closed.
	ErrClosed = errors.New("document is closed")
)

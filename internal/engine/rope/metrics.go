package rope

import (
	"strings"
	"unicode/utf8"
)

// TextSummary holds aggregated metrics for a text span.
// Summaries form a monoid under Add, which is what lets internal nodes
// answer offset and line questions without visiting their leaves.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode scalar values. Invalid UTF-8 bytes
	// count as one character each, matching utf8.RuneCountInString.
	Chars int

	// Lines is the number of '\n' characters.
	Lines int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII, so byte and character
	// offsets coincide.
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines
)

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: s.Flags & other.Flags & FlagASCII,
	}
	if (s.Flags|other.Flags)&FlagHasNewlines != 0 {
		result.Flags |= FlagHasNewlines
	}
	return result
}

// IsZero returns true if this is the identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	sum := TextSummary{
		Bytes: len(s),
		Chars: utf8.RuneCountInString(s),
		Lines: strings.Count(s, "\n"),
	}
	if sum.Chars == sum.Bytes {
		sum.Flags |= FlagASCII
	}
	if sum.Lines > 0 {
		sum.Flags |= FlagHasNewlines
	}
	return sum
}

// charToByte returns the byte offset of the n-th character of s.
// n is clamped to [0, RuneCount(s)].
func charToByte(s string, n int, ascii bool) int {
	if n <= 0 {
		return 0
	}
	if ascii {
		return min(n, len(s))
	}
	seen := 0
	for i := range s {
		if seen == n {
			return i
		}
		seen++
	}
	return len(s)
}

// nthNewline returns the byte index just past the n-th '\n' in s (1-indexed),
// or -1 if s has fewer than n newlines.
func nthNewline(s string, n int) int {
	if n <= 0 {
		return 0
	}
	pos := 0
	for n > 0 {
		idx := strings.IndexByte(s[pos:], '\n')
		if idx < 0 {
			return -1
		}
		pos += idx + 1
		n--
	}
	return pos
}

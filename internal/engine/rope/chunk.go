package rope

import "unicode/utf8"

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk (except for the last chunk).
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk represents a bounded string stored in leaf nodes.
// Chunks are immutable once created.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk from a string.
func NewChunk(s string) Chunk {
	return Chunk{
		data:    s,
		summary: ComputeSummary(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits a chunk at byte offset, returning two chunks.
// The offset must be at a valid UTF-8 boundary.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// Append concatenates another chunk to this one, returning multiple chunks
// if the result exceeds MaxChunkSize.
func (c Chunk) Append(other Chunk) []Chunk {
	if c.IsEmpty() {
		if other.IsEmpty() {
			return nil
		}
		return []Chunk{other}
	}
	if other.IsEmpty() {
		return []Chunk{c}
	}

	combined := c.data + other.data
	if len(combined) <= MaxChunkSize {
		return []Chunk{NewChunk(combined)}
	}
	return splitIntoChunks(combined)
}

// byteOfChar returns the byte offset of the n-th character within the chunk.
func (c Chunk) byteOfChar(n int) int {
	return charToByte(c.data, n, c.summary.Flags&FlagASCII != 0)
}

// charOfByte returns the number of characters before byte offset b.
func (c Chunk) charOfByte(b int) int {
	if b >= len(c.data) {
		return c.summary.Chars
	}
	if c.summary.Flags&FlagASCII != 0 {
		return b
	}
	return utf8.RuneCountInString(c.data[:b])
}

// splitIntoChunks splits a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	var chunks []Chunk
	remaining := s
	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}
		splitPoint := findUTF8Boundary(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:splitPoint]))
		remaining = remaining[splitPoint:]
	}
	return chunks
}

// findUTF8Boundary finds a valid UTF-8 boundary near the target position.
// It prefers splitting after a newline if one exists nearby, which keeps
// short lines inside a single chunk.
func findUTF8Boundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	if target <= 0 {
		return 0
	}

	searchStart := max(target-MinChunkSize/4, 1)
	searchEnd := min(target+MinChunkSize/4, len(s))

	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	pos := target
	for pos < len(s) && !isUTF8Start(s[pos]) {
		pos++
	}
	if pos > target+utf8.UTFMax || pos >= len(s) {
		pos = target
		for pos > 0 && !isUTF8Start(s[pos]) {
			pos--
		}
	}
	return pos
}

// isUTF8Start returns true if the byte is the start of a UTF-8 sequence.
// Continuation bytes have the form 10xxxxxx.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}

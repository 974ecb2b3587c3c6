package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Builder provides efficient incremental construction of a rope.
// It buffers writes and builds the rope structure when Build() is called.
type Builder struct {
	chunks   []Chunk
	buffer   strings.Builder
	totalLen int
}

// NewBuilder creates a new rope builder.
func NewBuilder() *Builder {
	return &Builder{
		chunks: make([]Chunk, 0, 64),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	if len(s) == 0 {
		return
	}
	b.totalLen += len(s)
	b.buffer.WriteString(s)
	if b.buffer.Len() >= MaxChunkSize*2 {
		b.flush(false)
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.WriteString(string(p))
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.totalLen++
	return b.buffer.WriteByte(c)
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	n, err := b.buffer.WriteRune(r)
	b.totalLen += n
	return n, err
}

// flush converts buffered text to chunks. Unless final is set, an
// incomplete trailing UTF-8 sequence stays buffered so that a rune split
// across two writes never straddles a chunk boundary.
func (b *Builder) flush(final bool) {
	if b.buffer.Len() == 0 {
		return
	}

	s := b.buffer.String()
	b.buffer.Reset()

	if !final {
		if tail := incompleteTail(s); tail > 0 {
			b.buffer.WriteString(s[len(s)-tail:])
			s = s[:len(s)-tail]
		}
	}
	b.chunks = append(b.chunks, splitIntoChunks(s)...)
}

// incompleteTail returns the length of a truncated UTF-8 sequence at the
// end of s, or 0 if s ends on a rune boundary.
func incompleteTail(s string) int {
	for i := 1; i <= utf8.UTFMax && i <= len(s); i++ {
		if isUTF8Start(s[len(s)-i]) {
			if utf8.FullRuneInString(s[len(s)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.totalLen
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.chunks = nil
	b.buffer.Reset()
	b.totalLen = 0
}

// Build creates the rope from accumulated data.
// After calling Build, the builder is reset.
func (b *Builder) Build() Rope {
	b.flush(true)
	chunks := b.chunks
	b.Reset()
	return buildFromChunks(chunks)
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// FromLines creates a rope from a slice of lines.
// Each line will have a newline appended except the last.
func FromLines(lines []string) Rope {
	var builder Builder
	for i, line := range lines {
		builder.WriteString(line)
		if i < len(lines)-1 {
			_ = builder.WriteByte('\n')
		}
	}
	return builder.Build()
}

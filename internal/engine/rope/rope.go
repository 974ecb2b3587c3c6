package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var builder Builder
	if _, err := builder.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return builder.Build(), nil
}

// buildFromChunks builds a rope from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}
	return Rope{root: buildNodeFromChildren(leaves)}
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// CharCount returns the number of characters (Unicode scalar values).
func (r Rope) CharCount() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// IsASCII reports whether every character in the rope is ASCII.
func (r Rope) IsASCII() bool {
	return r.Summary().Flags&FlagASCII != 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end int) string {
	if r.root == nil {
		return ""
	}
	start = max(start, 0)
	end = min(end, r.Len())
	if start >= end {
		return ""
	}
	if s, off := r.chunkAt(start); off <= start && end-off <= len(s) {
		return s[start-off : end-off]
	}

	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// chunkAt returns the chunk containing byte offset b and the byte offset at
// which that chunk starts. An offset equal to Len resolves to the last chunk.
func (r Rope) chunkAt(b int) (string, int) {
	if r.root == nil || r.Len() == 0 {
		return "", 0
	}
	b = min(max(b, 0), r.Len())

	node := r.root
	base := 0
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if b < base+s.Bytes {
				idx = i
				break
			}
			if i < len(node.children)-1 {
				base += s.Bytes
			}
		}
		node = node.children[idx]
	}

	for i, chunk := range node.chunks {
		if b < base+chunk.Len() || i == len(node.chunks)-1 {
			return chunk.String(), base
		}
		base += chunk.Len()
	}
	return "", base
}

// Insert inserts text at the given byte offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if offset <= 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes text in the byte range [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end int) Rope {
	ropeLen := r.Len()
	start = max(start, 0)
	end = min(end, ropeLen)
	if r.root == nil || start >= end {
		return r
	}

	switch {
	case start == 0 && end == ropeLen:
		return New()
	case start == 0:
		_, right := r.Split(end)
		return right
	case end == ropeLen:
		left, _ := r.Split(start)
		return left
	}

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces text in the byte range [start, end) with new text.
// Returns a new rope; original is unchanged.
func (r Rope) Replace(start, end int, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at offset, returning two ropes.
// Left rope contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}

	leftRoot, rightRoot := r.root.split(offset)
	return Rope{root: leftRoot}, Rope{root: rightRoot}
}

// Concat concatenates two ropes.
// Returns a new rope; originals are unchanged.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// CharToByte converts a character offset to a byte offset.
// The offset is clamped to [0, CharCount].
func (r Rope) CharToByte(c int) int {
	if r.root == nil || c <= 0 {
		return 0
	}
	if c >= r.CharCount() {
		return r.Len()
	}
	if r.IsASCII() {
		return c
	}

	node := r.root
	base := 0
	for !node.IsLeaf() {
		for i, s := range node.childSummaries {
			if c < s.Chars || i == len(node.children)-1 {
				node = node.children[i]
				break
			}
			c -= s.Chars
			base += s.Bytes
		}
	}
	for _, chunk := range node.chunks {
		if c < chunk.summary.Chars {
			return base + chunk.byteOfChar(c)
		}
		c -= chunk.summary.Chars
		base += chunk.Len()
	}
	return base
}

// ByteToChar converts a byte offset to a character offset.
// The offset is clamped to [0, Len].
func (r Rope) ByteToChar(b int) int {
	if r.root == nil || b <= 0 {
		return 0
	}
	if b >= r.Len() {
		return r.CharCount()
	}
	if r.IsASCII() {
		return b
	}

	node := r.root
	chars := 0
	for !node.IsLeaf() {
		for i, s := range node.childSummaries {
			if b < s.Bytes || i == len(node.children)-1 {
				node = node.children[i]
				break
			}
			b -= s.Bytes
			chars += s.Chars
		}
	}
	for _, chunk := range node.chunks {
		if b < chunk.Len() {
			return chars + chunk.charOfByte(b)
		}
		b -= chunk.Len()
		chars += chunk.summary.Chars
	}
	return chars
}

// LineToByte returns the byte offset at which the given 0-indexed line
// starts. Lines past the end resolve to Len.
func (r Rope) LineToByte(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}

	// Find the byte just past the line-th newline.
	node := r.root
	base := 0
	for !node.IsLeaf() {
		for i, s := range node.childSummaries {
			if line <= s.Lines || i == len(node.children)-1 {
				node = node.children[i]
				break
			}
			line -= s.Lines
			base += s.Bytes
		}
	}
	for _, chunk := range node.chunks {
		if line <= chunk.summary.Lines {
			if idx := nthNewline(chunk.data, line); idx >= 0 {
				return base + idx
			}
		}
		line -= chunk.summary.Lines
		base += chunk.Len()
	}
	return base
}

// ByteToLine returns the 0-indexed line containing byte offset b.
func (r Rope) ByteToLine(b int) int {
	if r.root == nil || b <= 0 {
		return 0
	}
	if b >= r.Len() {
		return r.LineCount() - 1
	}

	node := r.root
	lines := 0
	for !node.IsLeaf() {
		for i, s := range node.childSummaries {
			if b < s.Bytes || i == len(node.children)-1 {
				node = node.children[i]
				break
			}
			b -= s.Bytes
			lines += s.Lines
		}
	}
	for _, chunk := range node.chunks {
		if b < chunk.Len() {
			return lines + strings.Count(chunk.data[:b], "\n")
		}
		b -= chunk.Len()
		lines += chunk.summary.Lines
	}
	return lines
}

// LineToChar returns the character offset at which the given line starts.
func (r Rope) LineToChar(line int) int {
	return r.ByteToChar(r.LineToByte(line))
}

// CharToLine returns the 0-indexed line containing character offset c.
func (r Rope) CharToLine(c int) int {
	return r.ByteToLine(r.CharToByte(c))
}

// Height returns the height of the rope tree.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.root == other.root {
		return true
	}
	if r.Summary() != other.Summary() {
		return false
	}
	return r.String() == other.String()
}

package rope

import "strings"

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child node references.
type Node struct {
	height  uint8
	summary TextSummary

	// Internal node fields (height > 0)
	children       []*Node
	childSummaries []TextSummary

	// Leaf node fields (height == 0)
	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{
		summary: TextSummary{Flags: FlagASCII},
		chunks:  make([]Chunk, 0, MaxChunksPerLeaf),
	}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	total := TextSummary{Flags: FlagASCII}
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() int {
	return n.summary.Bytes
}

func (n *Node) recomputeSummary() {
	n.summary = TextSummary{Flags: FlagASCII}
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			n.summary = n.summary.Add(chunk.Summary())
		}
		return
	}
	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the byte range [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	offset := 0
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Len()
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			lo := max(start-offset, 0)
			hi := min(end-offset, chunk.Len())
			sb.WriteString(chunk.String()[lo:hi])
			offset = chunkEnd
		}
		return
	}

	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		childEnd := offset + childLen
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		child.appendRange(sb, max(start-offset, 0), min(end-offset, childLen))
		offset = childEnd
	}
}

// split splits the node at the given byte offset.
// Left contains [0, offset), right contains [offset, end).
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n
	}
	if offset >= n.Len() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset int) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	current := 0

	for _, chunk := range n.chunks {
		chunkLen := chunk.Len()
		switch {
		case current+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case current >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(offset - current)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		current += chunkLen
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

func (n *Node) splitInternal(offset int) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	current := 0

	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		switch {
		case current+childLen <= offset:
			leftChildren = append(leftChildren, child)
		case current >= offset:
			rightChildren = append(rightChildren, child)
		default:
			leftChild, rightChild := child.split(offset - current)
			if leftChild.Len() > 0 {
				leftChildren = append(leftChildren, leftChild)
			}
			if rightChild.Len() > 0 {
				rightChildren = append(rightChildren, rightChild)
			}
		}
		current += childLen
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a balanced tree from a list of sibling nodes.
// Siblings may differ in height; shorter ones are raised first.
func buildNodeFromChildren(children []*Node) *Node {
	switch len(children) {
	case 0:
		return newLeafNode()
	case 1:
		return children[0]
	}

	var height uint8
	for _, c := range children {
		height = max(height, c.height)
	}
	level := make([]*Node, len(children))
	for i, c := range children {
		level[i] = raise(c, height)
	}

	for len(level) > 1 {
		var parents []*Node
		for i := 0; i < len(level); i += MaxChildren {
			end := min(i+MaxChildren, len(level))
			group := make([]*Node, end-i)
			copy(group, level[i:end])
			parents = append(parents, newInternalNode(group))
		}
		level = parents
	}
	return level[0]
}

// raise wraps n in single-child internal nodes until it reaches height.
func raise(n *Node, height uint8) *Node {
	for n.height < height {
		n = newInternalNode([]*Node{n})
	}
	return n
}

// concat concatenates two nodes. The shorter tree is merged into the
// facing spine of the taller one so that chunks meeting at the seam can be
// coalesced.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	switch {
	case left.height == right.height:
		return mergeNodes(left, right)
	case left.height > right.height:
		n := len(left.children)
		merged := concat(left.children[n-1], right)
		children := make([]*Node, 0, n+MaxChildren)
		children = append(children, left.children[:n-1]...)
		children = appendLevel(children, merged, left.height)
		return buildParent(children)
	default:
		merged := concat(left, right.children[0])
		children := make([]*Node, 0, len(right.children)+MaxChildren)
		children = appendLevel(children, merged, right.height)
		children = append(children, right.children[1:]...)
		return buildParent(children)
	}
}

// appendLevel appends n to a list of nodes at height-1. A node that grew
// to height contributes its children instead.
func appendLevel(list []*Node, n *Node, height uint8) []*Node {
	if n.height == height {
		return append(list, n.children...)
	}
	return append(list, raise(n, height-1))
}

// buildParent wraps same-height siblings in as few parents as possible.
func buildParent(children []*Node) *Node {
	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}
	return buildNodeFromChildren(children)
}

// concatLeaves concatenates two leaf nodes, coalescing the seam chunks
// when they fit into one.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)
	rest := right.chunks
	if len(chunks) > 0 && len(rest) > 0 {
		last := chunks[len(chunks)-1]
		if last.Len()+rest[0].Len() <= MaxChunkSize {
			chunks[len(chunks)-1] = NewChunk(last.data + rest[0].data)
			rest = rest[1:]
		}
	}
	chunks = append(chunks, rest...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		group := make([]Chunk, end-i)
		copy(group, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(group))
	}
	return newInternalNode(leaves)
}

// mergeNodes merges two nodes of the same height.
func mergeNodes(left, right *Node) *Node {
	if left.IsLeaf() {
		return concatLeaves(left, right)
	}

	n := len(left.children)
	seam := concat(left.children[n-1], right.children[0])
	all := make([]*Node, 0, n+len(right.children)+MaxChildren)
	all = append(all, left.children[:n-1]...)
	all = appendLevel(all, seam, left.height)
	all = append(all, right.children[1:]...)
	return buildParent(all)
}

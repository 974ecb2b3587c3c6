package highlight

import "github.com/dshills/textengine/internal/syntax"

// Text is the document state engines read: a point-in-time snapshot.
// *buffer.Snapshot implements it.
type Text interface {
	syntax.Source
	Text() string
	LineCount() int
	LineByteRange(line int) (start, end int, ok bool)
	ByteToLine(offset int) int
}

// spanLines returns the first and last line a span intersects.
func spanLines(t Text, s syntax.Span) (first, last int) {
	first = t.ByteToLine(s.Start)
	last = t.ByteToLine(max(s.End-1, s.Start))
	return first, last
}

// bucket assigns whole-document spans to every line, including lines with
// no spans, so each line is marked as computed.
func bucket(t Text, spans []syntax.Span) map[int][]syntax.Span {
	n := t.LineCount()
	lines := make(map[int][]syntax.Span, n)
	for l := 0; l < n; l++ {
		lines[l] = nil
	}
	for _, s := range spans {
		first, last := spanLines(t, s)
		for l := first; l <= last; l++ {
			lines[l] = append(lines[l], s)
		}
	}
	return lines
}

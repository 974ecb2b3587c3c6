package highlight

import (
	"sync/atomic"

	"github.com/dshills/textengine/internal/syntax"
)

// Cache is an immutable view of highlighted lines. Spans use absolute byte
// offsets; a span is listed under every line it intersects.
type Cache struct {
	version uint64
	lines   map[int][]syntax.Span
}

// Version returns the cache's version stamp.
func (c *Cache) Version() uint64 {
	return c.version
}

// Line returns the spans of a line and whether the line is cached.
func (c *Cache) Line(line int) ([]syntax.Span, bool) {
	spans, ok := c.lines[line]
	return spans, ok
}

// Len returns the number of cached lines.
func (c *Cache) Len() int {
	return len(c.lines)
}

// covers reports whether every line in [first, last] is cached.
func (c *Cache) covers(first, last int) bool {
	if len(c.lines) == 0 {
		return false
	}
	for l := first; l <= last; l++ {
		if _, ok := c.lines[l]; !ok {
			return false
		}
	}
	return true
}

// collect returns the spans of lines [first, last] in order, without
// repeating spans that cross line boundaries.
func (c *Cache) collect(first, last int) []syntax.Span {
	var out []syntax.Span
	for l := first; l <= last; l++ {
		for _, s := range c.lines[l] {
			if n := len(out); n > 0 && out[n-1] == s {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

// store publishes caches. Callers serialize publish; load is lock-free.
type store struct {
	ptr atomic.Pointer[Cache]
}

func newStore() *store {
	s := &store{}
	s.ptr.Store(&Cache{})
	return s
}

func (s *store) load() *Cache {
	return s.ptr.Load()
}

// publish swaps in a cache holding lines with the next version.
func (s *store) publish(lines map[int][]syntax.Span) *Cache {
	c := &Cache{version: s.load().version + 1, lines: lines}
	s.ptr.Store(c)
	return c
}

package engine

import (
	"github.com/dshills/textengine/internal/highlight"
)

// HighlightsForLine returns the spans intersecting line. Offsets are
// absolute bytes. ok is false when the document has no language, the line
// does not exist, or the line has not been highlighted yet.
func (d *Document) HighlightsForLine(line int) ([]Span, bool) {
	return d.HighlightsForLines(line, line)
}

// HighlightsForLines returns the spans intersecting lines [first, last].
// In incremental mode a miss highlights the lines before returning; the
// document lock is not held meanwhile, so edits proceed.
func (d *Document) HighlightsForLines(first, last int) ([]Span, bool) {
	if d.hl == nil {
		return nil, false
	}
	d.mu.RLock()
	lines := d.buf.LineCount()
	d.mu.RUnlock()
	if first < 0 || first > last || first >= lines {
		return nil, false
	}
	return d.hl.Highlights(first, last)
}

// RequestViewport tells the highlight engine which lines are visible so
// they are highlighted ahead of rendering.
func (d *Document) RequestViewport(first, last int) {
	_, _ = d.HighlightsForLines(first, last)
}

// HighlightsVersion returns the highlight cache version. It increases every
// time the cache changes; renderers compare it to detect new spans.
func (d *Document) HighlightsVersion() uint64 {
	if d.hl == nil {
		return 0
	}
	return d.hl.Version()
}

// HighlightCache returns the current span cache, or nil without a
// language.
func (d *Document) HighlightCache() *highlight.Cache {
	if d.hl == nil {
		return nil
	}
	return d.hl.Cache()
}

// HighlightStats returns the highlight engine's counters.
func (d *Document) HighlightStats() highlight.Stats {
	if d.hl == nil {
		return highlight.Stats{}
	}
	return d.hl.Stats()
}

// HighlightMode returns the active highlight mode. ok is false without a
// language.
func (d *Document) HighlightMode() (mode highlight.Mode, ok bool) {
	if d.hl == nil {
		return 0, false
	}
	return d.hl.Mode(), true
}

// Rehighlight discards all highlight state and recomputes it.
func (d *Document) Rehighlight() {
	if d.hl == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hl.Invalidate()
}

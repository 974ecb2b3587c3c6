package engine

import (
	"strings"
	"testing"

	"github.com/dshills/textengine/internal/highlight"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeDocument(b *testing.B, lines int, opts ...Option) *Document {
	b.Helper()
	var sb strings.Builder
	line := "fn f() { let value = compute(1, \"two\"); } // trailing\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	d := NewFromString(sb.String(), opts...)
	b.Cleanup(d.Close)
	return d
}

// ============================================================================
// Edit Benchmarks
// ============================================================================

func BenchmarkDocumentInsert(b *testing.B) {
	d := setupLargeDocument(b, 10000)
	mid := d.Len() / 2
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = d.Insert(mid, "x")
	}
}

func BenchmarkDocumentInsertHighlighted(b *testing.B) {
	d := setupLargeDocument(b, 10000, WithPath("bench.rs"),
		WithScheduler(highlight.NewManualScheduler()))
	mid := d.Len() / 2
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = d.Insert(mid, "x")
	}
}

func BenchmarkDocumentUndoRedo(b *testing.B) {
	d := setupLargeDocument(b, 10000, WithGroupingWindow(0))
	_, _ = d.Insert(0, "x")
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Undo()
		d.Redo()
	}
}

// ============================================================================
// Query Benchmarks
// ============================================================================

func BenchmarkDocumentLineContent(b *testing.B) {
	d := setupLargeDocument(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = d.LineContent(i % 10000)
	}
}

func BenchmarkDocumentPreviousWordBoundary(b *testing.B) {
	d := setupLargeDocument(b, 10000)
	mid := d.Len() / 2
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = d.PreviousWordBoundary(mid)
	}
}

func BenchmarkIncrementalViewport(b *testing.B) {
	sched := highlight.NewManualScheduler()
	d := setupLargeDocument(b, 10000, WithPath("bench.rs"),
		WithHighlightMode(highlight.ModeIncremental), WithScheduler(sched))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		first := (i * 37) % 9950
		_, _ = d.Insert(d.LineToChar(first), " ")
		d.RequestViewport(first, first+50)
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/dshills/textengine/internal/engine"
)

func printLines(w io.Writer, doc *engine.Document) {
	fmt.Fprintf(w, "%d lines, %d chars, %d bytes, %s line endings\n",
		doc.LineCount(), doc.Len(), doc.ByteLen(), doc.LineEnding())
	for i := 0; i < doc.LineCount(); i++ {
		r, _ := doc.LineRange(i)
		content, _ := doc.LineContent(i)
		fmt.Fprintf(w, "%5d %6d-%-6d %q\n", i+1, r.Start, r.End, content)
	}
}

func printWord(w io.Writer, doc *engine.Document, offset int) {
	word := doc.WordRangeAtOffset(offset)
	fmt.Fprintf(w, "offset %d (line %d)\n", offset, doc.CharToLine(offset)+1)
	fmt.Fprintf(w, "  word        %d-%d %q\n", word.Start, word.End, doc.Slice(word))
	fmt.Fprintf(w, "  prev word   %d\n", doc.PreviousWordBoundary(offset))
	fmt.Fprintf(w, "  next word   %d\n", doc.NextWordBoundary(offset))
	line := doc.LineRangeAtOffset(offset)
	fmt.Fprintf(w, "  line        %d-%d\n", line.Start, line.End)
}

func printHighlights(w io.Writer, doc *engine.Document) {
	lang := doc.Language()
	if lang == nil {
		fmt.Fprintln(w, "no highlighting: unknown language")
		return
	}
	mode, _ := doc.HighlightMode()
	fmt.Fprintf(w, "language %s, %s mode\n", lang.Name, mode)

	snap := doc.Snapshot()
	doc.RequestViewport(0, snap.LineCount()-1)
	for i := 0; i < snap.LineCount(); i++ {
		content, _ := snap.LineContent(i)
		fmt.Fprintf(w, "%5d | %s\n", i+1, content)

		spans, ok := doc.HighlightsForLine(i)
		if !ok {
			fmt.Fprintf(w, "      | (not highlighted)\n")
			continue
		}
		lineStart, lineEnd, _ := snap.LineByteRange(i)
		for _, s := range spans {
			start, end := max(s.Start, lineStart), min(s.End, lineEnd)
			text := snap.ByteSlice(start, end)
			if text == "\n" || text == "\r\n" {
				continue
			}
			fmt.Fprintf(w, "      | %4d-%-4d %-22s %q\n", start-lineStart, end-lineStart, s.Type, text)
		}
	}

	st := doc.HighlightStats()
	fmt.Fprintf(w, "version %d, %d cached lines, %d hits, %d misses, %d failures\n",
		st.Version, st.CachedLines, st.Hits, st.Misses, st.Failures)
}

package boundary

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// segment is a non-whitespace word segment in character offsets relative
// to the start of the window it was cut from.
type segment struct {
	start int
	end   int
}

func (s segment) contains(offset int) bool {
	return s.start <= offset && offset < s.end
}

// segments splits text into word segments and returns the ones that are
// not whitespace-only.
func segments(text string) []segment {
	var out []segment
	state := -1
	pos := 0
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		n := utf8.RuneCountInString(word)
		if strings.TrimSpace(word) != "" {
			out = append(out, segment{start: pos, end: pos + n})
		}
		pos += n
	}
	return out
}

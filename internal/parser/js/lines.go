package js

import (
	"strings"

	"bennypowers.dev/tldedent/internal/dedent"
	"bennypowers.dev/tldedent/internal/position"
)

// lineIndex maps tree-sitter rows and byte columns to the 1-based lines and
// UTF-16 columns a JavaScript host reports
type lineIndex struct {
	source string
	starts []int
}

func newLineIndex(source string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{source: source, starts: starts}
}

func (l *lineIndex) line(row int) string {
	if row < 0 || row >= len(l.starts) {
		return ""
	}
	start := l.starts[row]
	end := len(l.source)
	if row+1 < len(l.starts) {
		end = l.starts[row+1]
	}
	return strings.TrimSuffix(l.source[start:end], "\n")
}

func (l *lineIndex) position(row, byteColumn int) dedent.Position {
	return dedent.Position{
		Line:   row + 1,
		Column: position.ByteOffsetToUTF16(l.line(row), byteColumn),
	}
}

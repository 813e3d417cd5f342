package position

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// IsSpace reports whether r belongs to the JavaScript \s class. Unlike
// unicode.IsSpace, NEL (U+0085) is content.
func IsSpace(r rune) bool {
	return r != '\u0085' && (r == '\uFEFF' || unicode.IsSpace(r))
}

// FirstNonSpaceUTF16 returns the UTF-16 column of the first character of line
// that is not whitespace, or -1 if line is empty or whitespace only.
func FirstNonSpaceUTF16(line string) int {
	units := 0
	for offset := 0; offset < len(line); {
		r, size := utf8.DecodeRuneInString(line[offset:])
		if r == utf8.RuneError && size == 1 {
			return units
		}
		if !IsSpace(r) {
			return units
		}
		units += utf16.RuneLen(r)
		offset += size
	}
	return -1
}

// Package position converts between the byte offsets tree-sitter and Go
// strings use and the UTF-16 columns JavaScript hosts and LSP clients use.
package position

import (
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset returns the byte offset of the UTF-16 column col in s.
// Columns past the end clamp to len(s). A column that lands inside a
// surrogate pair clamps to the start of that rune.
func UTF16ToByteOffset(s string, col int) int {
	if col <= 0 {
		return 0
	}

	units := 0
	offset := 0
	for offset < len(s) && units < col {
		r, size := utf8.DecodeRuneInString(s[offset:])
		if r == utf8.RuneError && size == 1 {
			// Invalid byte: one unit, one byte
			offset++
			units++
			continue
		}

		n := utf16.RuneLen(r)
		if n == 2 && units+1 == col {
			break
		}
		units += n
		offset += size
	}

	return offset
}

// ByteOffsetToUTF16 returns the UTF-16 column of the byte offset in s.
// Offsets inside a multi-byte rune resolve to the column of that rune.
func ByteOffsetToUTF16(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(s) {
		offset = len(s)
	}

	units := 0
	current := 0
	for current < offset {
		r, size := utf8.DecodeRuneInString(s[current:])
		if current+size > offset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		current += size
	}
	return units
}

// StringLengthUTF16 returns the length of s in UTF-16 code units.
func StringLengthUTF16(s string) int {
	return ByteOffsetToUTF16(s, len(s))
}

// Uint32 clamps a column or line to the uint32 range used by LSP positions.
func Uint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}

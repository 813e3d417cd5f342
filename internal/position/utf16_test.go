package position

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUTF16ToByteOffset(t *testing.T) {
	tests := []struct {
		name string
		s    string
		col  int
		want int
	}{
		{name: "empty string", s: "", col: 0, want: 0},
		{name: "ASCII", s: "    color: red;", col: 4, want: 4},
		{name: "past end clamps", s: "  ", col: 4, want: 2},
		{name: "negative column", s: "abc", col: -1, want: 0},
		{name: "emoji is two units", s: "👍 x", col: 2, want: 4},
		{name: "inside surrogate pair clamps to rune start", s: "👍 x", col: 1, want: 0},
		{name: "CJK is one unit", s: "颜色", col: 1, want: 3},
		{name: "ideographic space", s: "\u3000x", col: 1, want: 3},
		{name: "invalid byte counts as one unit", s: "a\xFFb", col: 2, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UTF16ToByteOffset(tt.s, tt.col))
		})
	}
}

func TestByteOffsetToUTF16(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		offset int
		want   int
	}{
		{name: "zero", s: "abc", offset: 0, want: 0},
		{name: "ASCII", s: "const x = `", offset: 10, want: 10},
		{name: "past end clamps", s: "abc", offset: 10, want: 3},
		{name: "after emoji", s: "👍`", offset: 4, want: 2},
		{name: "after CJK", s: "颜色 = `", offset: 6, want: 2},
		{name: "inside multi-byte rune", s: "颜色", offset: 4, want: 1},
		{name: "invalid byte", s: "\xFF`", offset: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByteOffsetToUTF16(tt.s, tt.offset))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{
		"const styles = css`",
		"  const 👍 = html`",
		"颜色: `${a}`",
	}
	for _, line := range lines {
		for col := 0; col <= StringLengthUTF16(line); col++ {
			offset := UTF16ToByteOffset(line, col)
			back := ByteOffsetToUTF16(line, offset)
			assert.LessOrEqual(t, back, col, "line %q col %d", line, col)
		}
	}
}

func TestStringLengthUTF16(t *testing.T) {
	assert.Equal(t, 0, StringLengthUTF16(""))
	assert.Equal(t, 5, StringLengthUTF16("hello"))
	assert.Equal(t, 4, StringLengthUTF16("👍👍"))
	assert.Equal(t, 2, StringLengthUTF16("颜色"))
}

func TestUint32(t *testing.T) {
	assert.Equal(t, uint32(0), Uint32(-3))
	assert.Equal(t, uint32(42), Uint32(42))
	assert.Equal(t, uint32(math.MaxUint32), Uint32(math.MaxUint32+10))
}

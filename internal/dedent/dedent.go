// Package dedent strips the indentation that template literals pick up from
// the code they are nested in.
//
// Every line after the first of every segment must keep its content at or
// right of the boundary column, one column past the opening backtick. That
// many columns of leading whitespace are removed from each such line. A line
// with content left of the boundary is an IndentationViolation.
package dedent

import (
	"strings"

	"bennypowers.dev/tldedent/internal/position"
)

// BoundaryColumn returns the 0-based column at which continuation lines of
// lit may begin their content.
func BoundaryColumn(lit *TemplateLiteral) int {
	return lit.Start.Column + 1
}

// Dedent rewrites the raw text of every segment of lit in place.
//
// It stops at the first violation and returns it. The violating segment is
// left untouched, but segments before it keep their rewritten text; use
// DedentAtomic when that is not wanted.
func Dedent(lit *TemplateLiteral) error {
	boundary := BoundaryColumn(lit)
	for _, seg := range lit.Segments {
		raw, err := dedentSegment(seg, boundary)
		if err != nil {
			return err
		}
		seg.Raw = raw
	}
	return nil
}

// DedentAtomic is Dedent with all-or-nothing semantics: on violation no
// segment of lit is modified.
func DedentAtomic(lit *TemplateLiteral) error {
	boundary := BoundaryColumn(lit)
	rewritten := make([]string, len(lit.Segments))
	for i, seg := range lit.Segments {
		raw, err := dedentSegment(seg, boundary)
		if err != nil {
			return err
		}
		rewritten[i] = raw
	}
	for i, seg := range lit.Segments {
		seg.Raw = rewritten[i]
	}
	return nil
}

// Check reports every violation in lit, in source order, without modifying
// it. It returns nil when Dedent would succeed.
func Check(lit *TemplateLiteral) []*IndentationViolation {
	boundary := BoundaryColumn(lit)
	var violations []*IndentationViolation
	for _, seg := range lit.Segments {
		lines := strings.Split(seg.Raw, "\n")
		for i := 1; i < len(lines); i++ {
			if v := checkLine(lines[i], seg.Start.Line+i, boundary); v != nil {
				violations = append(violations, v)
			}
		}
	}
	return violations
}

func dedentSegment(seg *Segment, boundary int) (string, error) {
	lines := strings.Split(seg.Raw, "\n")
	// Line 0 continues the backtick or a placeholder and has no margin
	for i := 1; i < len(lines); i++ {
		if v := checkLine(lines[i], seg.Start.Line+i, boundary); v != nil {
			return "", v
		}
		// Whitespace only lines shorter than the boundary become empty
		lines[i] = lines[i][position.UTF16ToByteOffset(lines[i], boundary):]
	}
	return strings.Join(lines, "\n"), nil
}

func checkLine(line string, lineNumber, boundary int) *IndentationViolation {
	first := position.FirstNonSpaceUTF16(line)
	if first == -1 || first >= boundary {
		return nil
	}
	return &IndentationViolation{
		Line:      lineNumber,
		Column:    first + 1,
		MinColumn: boundary + 1,
	}
}

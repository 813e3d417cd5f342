package dedent

import "fmt"

// IndentationViolation reports a continuation line whose content starts left
// of the literal's boundary column. Column and MinColumn are 1-based.
type IndentationViolation struct {
	Line      int
	Column    int
	MinColumn int
}

func (v *IndentationViolation) Error() string {
	return fmt.Sprintf("LINE: %d, COLUMN: %d. Line must start at least at column %d.",
		v.Line, v.Column, v.MinColumn)
}

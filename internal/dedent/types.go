package dedent

// Position is a location in source. Line is numbered the way the host
// reports it; Column is 0-based and counted in UTF-16 code units.
type Position struct {
	Line   int
	Column int
}

// Segment is one run of literal text between placeholders, or between a
// delimiter and a placeholder.
type Segment struct {
	// Raw is the exact source text: newlines preserved, escapes unresolved
	Raw string
	// Start is where the segment's first character sits in source
	Start Position
}

// TemplateLiteral is a template literal as a sequence of segments. A
// placeholder is implied between each pair of consecutive segments.
type TemplateLiteral struct {
	// Start is the position of the opening backtick
	Start    Position
	Segments []*Segment
}

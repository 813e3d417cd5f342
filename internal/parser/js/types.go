package js

import "bennypowers.dev/tldedent/internal/dedent"

// Span is a half-open byte range in the parsed source
type Span struct {
	Start int
	End   int
}

// Literal is a template literal found in JS/TS source
type Literal struct {
	// Tag is the source text of the tag function (e.g. "css", "String.raw"),
	// empty for untagged literals
	Tag string
	// Template carries the literal's positions and raw segment text
	Template *dedent.TemplateLiteral
	// Spans holds the byte range of each segment, parallel to Template.Segments
	Spans []Span
}

// TransformOptions selects and configures the literals that get dedented
type TransformOptions struct {
	// Tags restricts processing to literals with one of these tags.
	// Empty means every template literal, tagged or not.
	Tags []string
	// Atomic leaves a violating literal untouched instead of keeping the
	// segments rewritten before the violation
	Atomic bool
	// KeepGoing processes the remaining literals after a violation
	KeepGoing bool
}

func (o TransformOptions) selects(tag string) bool {
	if len(o.Tags) == 0 {
		return true
	}
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

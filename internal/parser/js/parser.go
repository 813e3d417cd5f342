package js

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/tldedent/internal/dedent"
	"bennypowers.dev/tldedent/internal/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser finds template literals in JS/TS source
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `(template_string) @template`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	// An empty list parses whole documents
	_ = p.parser.SetIncludedRanges(nil)
	return p
}

// SetIncludedRanges restricts parsing to ranges of a host document, such as
// the inline scripts of an HTML page. Positions stay relative to the whole
// document.
func (p *Parser) SetIncludedRanges(ranges []sitter.Range) error {
	if err := p.parser.SetIncludedRanges(ranges); err != nil {
		return fmt.Errorf("invalid script ranges: %w", err)
	}
	return nil
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Literals returns every template literal in source, nested ones included,
// ordered by the position of their opening backtick.
func (p *Parser) Literals(source string) []*Literal {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	lines := newLineIndex(source)

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var literals []*Literal
	matches := cursor.Matches(p.templateQuery, tree.RootNode(), sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			literals = append(literals, extractLiteral(&node, source, lines))
		}
	}

	slices.SortStableFunc(literals, func(a, b *Literal) int {
		return a.Spans[0].Start - b.Spans[0].Start
	})
	return literals
}

// Check returns every indentation violation in the literals of source that
// opts selects, in source order. Nothing is rewritten.
func (p *Parser) Check(source string, opts TransformOptions) []*dedent.IndentationViolation {
	var violations []*dedent.IndentationViolation
	for _, lit := range p.Literals(source) {
		if !opts.selects(lit.Tag) {
			continue
		}
		violations = append(violations, dedent.Check(lit.Template)...)
	}

	slices.SortStableFunc(violations, func(a, b *dedent.IndentationViolation) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})
	return violations
}

// Transform dedents the literals of source that opts selects and returns the
// rewritten source.
//
// Without KeepGoing the first violation is returned with an empty result. With
// KeepGoing every literal is processed, the result is returned together with
// all violations joined into one error, and each violating literal is spliced
// back as Dedent (or DedentAtomic) left it.
func (p *Parser) Transform(source string, opts TransformOptions) (string, error) {
	var edits []edit
	var errs []error

	for _, lit := range p.Literals(source) {
		if !opts.selects(lit.Tag) {
			continue
		}

		var err error
		if opts.Atomic {
			err = dedent.DedentAtomic(lit.Template)
		} else {
			err = dedent.Dedent(lit.Template)
		}
		if err != nil {
			if !opts.KeepGoing {
				return "", err
			}
			log.Debug("Keeping going after violation in %q literal: %v", lit.Tag, err)
			errs = append(errs, err)
		}

		for i, seg := range lit.Template.Segments {
			span := lit.Spans[i]
			if seg.Raw != source[span.Start:span.End] {
				edits = append(edits, edit{span: span, text: seg.Raw})
			}
		}
	}

	return applyEdits(source, edits), errors.Join(errs...)
}

type edit struct {
	span Span
	text string
}

// applyEdits splices non-overlapping edits into source
func applyEdits(source string, edits []edit) string {
	if len(edits) == 0 {
		return source
	}
	slices.SortFunc(edits, func(a, b edit) int {
		return a.span.Start - b.span.Start
	})

	var b strings.Builder
	b.Grow(len(source))
	last := 0
	for _, e := range edits {
		b.WriteString(source[last:e.span.Start])
		b.WriteString(e.text)
		last = e.span.End
	}
	b.WriteString(source[last:])
	return b.String()
}

// extractLiteral splits a template_string node into the raw text between
// its backticks and ${...} substitutions
func extractLiteral(node *sitter.Node, source string, lines *lineIndex) *Literal {
	start := node.StartPosition()
	lit := &Literal{
		Tag: tagOf(node, source),
		Template: &dedent.TemplateLiteral{
			Start: lines.position(toInt(start.Row), toInt(start.Column)),
		},
	}

	segStart := toInt(node.StartByte()) + 1
	segPos := lines.position(toInt(start.Row), toInt(start.Column)+1)

	addSegment := func(end int) {
		lit.Template.Segments = append(lit.Template.Segments, &dedent.Segment{
			Raw:   source[segStart:end],
			Start: segPos,
		})
		lit.Spans = append(lit.Spans, Span{Start: segStart, End: end})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "template_substitution" {
			continue
		}
		addSegment(toInt(child.StartByte()))
		end := child.EndPosition()
		segStart = toInt(child.EndByte())
		segPos = lines.position(toInt(end.Row), toInt(end.Column))
	}

	// An unterminated literal has no closing backtick
	end := toInt(node.EndByte())
	if end > segStart && source[end-1] == '`' {
		end--
	}
	addSegment(max(end, segStart))

	return lit
}

// toInt converts tree-sitter offsets, which are bounded by the source size
func toInt(n uint) int {
	return int(n) //nolint:gosec // G115: tree-sitter offsets are bounded by file size
}

// tagOf returns the source text of the tag function applied to a
// template_string node, or "" if the literal is untagged
func tagOf(node *sitter.Node, source string) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}

	switch parent.Kind() {
	case "call_expression":
		// tag`...`
		args := parent.ChildByFieldName("arguments")
		if args == nil || args.StartByte() != node.StartByte() {
			return ""
		}
		if fn := parent.ChildByFieldName("function"); fn != nil {
			return source[fn.StartByte():fn.EndByte()]
		}
	case "binary_expression":
		// css<Type>`...` is valid TypeScript, but the JS grammar parses it as
		// (css < Type) > `...`
		right := parent.ChildByFieldName("right")
		left := parent.ChildByFieldName("left")
		if right == nil || left == nil || right.StartByte() != node.StartByte() || left.Kind() != "binary_expression" {
			return ""
		}
		if tag := left.ChildByFieldName("left"); tag != nil && tag.Kind() == "identifier" {
			return source[tag.StartByte():tag.EndByte()]
		}
	}
	return ""
}

// Package html finds the inline scripts of HTML documents.
package html

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser finds <script> elements in HTML source
type Parser struct {
	parser      *sitter.Parser
	scriptQuery *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// scriptTypes are the type attribute values browsers execute as JavaScript.
// A script without a type attribute is JavaScript too.
var scriptTypes = map[string]bool{
	"":                       true,
	"module":                 true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/ecmascript":        true,
	"application/ecmascript": true,
}

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		scriptQuery, qerr := sitter.NewQuery(htmlLang, `(script_element (start_tag) @tag (raw_text) @script)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile script query: %v", qerr))
		}

		return &Parser{
			parser:      parser,
			scriptQuery: scriptQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
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
	if p.scriptQuery != nil {
		p.scriptQuery.Close()
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

// ScriptRanges returns the source ranges of the JavaScript inside <script>
// elements, in document order. Scripts with a non-JavaScript type, such as
// JSON data blocks or import maps, are skipped.
func (p *Parser) ScriptRanges(source string) []sitter.Range {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	captureNames := p.scriptQuery.CaptureNames()
	var ranges []sitter.Range

	matches := cursor.Matches(p.scriptQuery, tree.RootNode(), sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag, script *sitter.Node
		for i := range match.Captures {
			capture := &match.Captures[i]
			switch captureNames[capture.Index] {
			case "tag":
				tag = &capture.Node
			case "script":
				script = &capture.Node
			}
		}
		if tag == nil || script == nil || script.StartByte() == script.EndByte() {
			continue
		}
		if !scriptTypes[typeAttribute(tag, sourceBytes)] {
			continue
		}
		ranges = append(ranges, script.Range())
	}

	return ranges
}

// typeAttribute returns the normalized type attribute of a start tag, empty
// when there is none
func typeAttribute(tag *sitter.Node, source []byte) string {
	for i := range tag.NamedChildCount() {
		attr := tag.NamedChild(i)
		if attr == nil || attr.Kind() != "attribute" {
			continue
		}

		var name, value string
		for j := range attr.NamedChildCount() {
			child := attr.NamedChild(j)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "attribute_name":
				name = child.Utf8Text(source)
			case "attribute_value":
				value = child.Utf8Text(source)
			case "quoted_attribute_value":
				if inner := child.NamedChild(0); inner != nil {
					value = inner.Utf8Text(source)
				}
			}
		}

		if strings.EqualFold(name, "type") {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

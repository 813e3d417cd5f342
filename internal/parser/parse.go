// Package parser dispatches documents to the template literal parser for
// their language.
package parser

import (
	"errors"
	"path"
	"strings"

	"bennypowers.dev/tldedent/internal/dedent"
	"bennypowers.dev/tldedent/internal/parser/html"
	"bennypowers.dev/tldedent/internal/parser/js"
)

// Kind is the family of a document's language
type Kind int

const (
	// KindUnknown documents hold no template literals we can find
	KindUnknown Kind = iota
	// KindScript is JavaScript, TypeScript and their JSX flavours
	KindScript
	// KindHTML is an HTML page whose inline scripts are processed
	KindHTML
)

// ErrUnsupported is returned for documents of KindUnknown
var ErrUnsupported = errors.New("unsupported document type")

var languageKinds = map[string]Kind{
	"javascript":      KindScript,
	"javascriptreact": KindScript,
	"typescript":      KindScript,
	"typescriptreact": KindScript,
	"html":            KindHTML,
}

var extensionKinds = map[string]Kind{
	".js":   KindScript,
	".jsx":  KindScript,
	".mjs":  KindScript,
	".cjs":  KindScript,
	".ts":   KindScript,
	".tsx":  KindScript,
	".mts":  KindScript,
	".cts":  KindScript,
	".html": KindHTML,
	".htm":  KindHTML,
}

// KindOf classifies a document by its LSP language id, falling back to the
// extension of p, which may be a path or a URI. Either argument may be empty.
func KindOf(languageID, p string) Kind {
	if kind, ok := languageKinds[languageID]; ok {
		return kind
	}
	return extensionKinds[strings.ToLower(path.Ext(p))]
}

// Check returns every indentation violation in the selected literals of source
func Check(source string, kind Kind, opts js.TransformOptions) ([]*dedent.IndentationViolation, error) {
	var violations []*dedent.IndentationViolation
	err := withParser(source, kind, func(p *js.Parser) error {
		violations = p.Check(source, opts)
		return nil
	})
	return violations, err
}

// Transform dedents the selected literals of source. See js.Parser.Transform.
func Transform(source string, kind Kind, opts js.TransformOptions) (string, error) {
	result := source
	err := withParser(source, kind, func(p *js.Parser) error {
		var err error
		result, err = p.Transform(source, opts)
		return err
	})
	return result, err
}

// withParser hands fn a JS parser prepared for source. HTML documents
// without inline scripts never reach fn.
func withParser(source string, kind Kind, fn func(*js.Parser) error) error {
	switch kind {
	case KindScript:
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		return fn(p)

	case KindHTML:
		hp := html.AcquireParser()
		ranges := hp.ScriptRanges(source)
		html.ReleaseParser(hp)
		if len(ranges) == 0 {
			return nil
		}

		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		if err := p.SetIncludedRanges(ranges); err != nil {
			return err
		}
		return fn(p)

	default:
		return ErrUnsupported
	}
}

// ClosePool closes the parser pools of every language
func ClosePool() {
	js.ClosePool()
	html.ClosePool()
}

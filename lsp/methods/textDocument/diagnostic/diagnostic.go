package diagnostic

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/tldedent/internal/dedent"
	"bennypowers.dev/tldedent/internal/parser"
	"bennypowers.dev/tldedent/internal/position"
	"bennypowers.dev/tldedent/internal/uriutil"
	"bennypowers.dev/tldedent/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	// Source identifies diagnostics published by this server
	Source = "tldedent"

	// CodeIndentationViolation is the code of every indentation diagnostic
	CodeIndentationViolation = "indentation-violation"
)

// GetDiagnostics returns diagnostics for a document
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil {
		return nil, nil
	}

	kind := doc.Kind()
	if kind == parser.KindUnknown {
		return nil, nil
	}

	cfg := ctx.Config()
	if !included(ctx.RootPath(), uri, cfg.Matches) {
		return nil, nil
	}

	violations, err := parser.Check(doc.Content(), kind, cfg.TransformOptions())
	if err != nil {
		return nil, err
	}
	if len(violations) == 0 {
		return nil, nil
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(violations))
	for _, v := range violations {
		diagnostics = append(diagnostics, toDiagnostic(v, doc.Line(v.Line-1)))
	}
	return diagnostics, nil
}

// toDiagnostic spans from the misplaced character to the end of its line
func toDiagnostic(v *dedent.IndentationViolation, text string) protocol.Diagnostic {
	line := v.Line - 1
	start := v.Column - 1
	end := max(start, position.StringLengthUTF16(text))

	severity := protocol.DiagnosticSeverityError
	source := Source
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      position.Uint32(line),
				Character: position.Uint32(start),
			},
			End: protocol.Position{
				Line:      position.Uint32(line),
				Character: position.Uint32(end),
			},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: CodeIndentationViolation},
		Source:   &source,
		Message:  v.Error(),
	}
}

// included applies the include/exclude patterns to files under the
// workspace root. Documents outside the root, or without a file path, are
// always checked.
func included(root, uri string, matches func(string) bool) bool {
	if root == "" || !strings.HasPrefix(uri, "file:") {
		return true
	}
	rel, err := filepath.Rel(root, uriutil.URIToPath(uri))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	return matches(rel)
}

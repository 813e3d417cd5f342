package textDocument

import (
	"fmt"

	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document opened: %s (language: %s, version: %d)",
		uri, params.TextDocument.LanguageID, int(params.TextDocument.Version))

	err := req.Server.DocumentManager().DidOpen(uri, params.TextDocument.LanguageID,
		int(params.TextDocument.Version), params.TextDocument.Text)
	if err != nil {
		return err
	}

	publish(req, uri)
	return nil
}

// DidChange handles the textDocument/didChange notification
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)

	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	changes, err := contentChanges(params.ContentChanges)
	if err != nil {
		return err
	}

	if err := req.Server.DocumentManager().DidChange(uri, version, changes); err != nil {
		return err
	}

	publish(req, uri)
	return nil
}

// DidClose handles the textDocument/didClose notification
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}

	if ctx := glspContext(req); ctx != nil {
		if err := req.Server.ClearDiagnostics(ctx, uri); err != nil {
			req.AddWarning(fmt.Errorf("failed to clear diagnostics for %s: %w", uri, err))
		}
	}
	return nil
}

// contentChanges normalizes the two change shapes glsp decodes into one
func contentChanges(raw []any) ([]protocol.TextDocumentContentChangeEvent, error) {
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(raw))
	for _, change := range raw {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			changes = append(changes, c)
		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, protocol.TextDocumentContentChangeEvent{Text: c.Text})
		default:
			return nil, fmt.Errorf("unsupported content change %T", change)
		}
	}
	return changes, nil
}

func publish(req *types.RequestContext, uri string) {
	ctx := glspContext(req)
	if ctx == nil {
		return
	}
	if err := req.Server.PublishDiagnostics(ctx, uri); err != nil {
		req.AddWarning(fmt.Errorf("failed to publish diagnostics for %s: %w", uri, err))
	}
}

// glspContext prefers the stored client context, which outlives a single request
func glspContext(req *types.RequestContext) *glsp.Context {
	if ctx := req.Server.GLSPContext(); ctx != nil {
		return ctx
	}
	return req.GLSP
}

// Package lsp serves template literal indentation violations as diagnostics
// over the Language Server Protocol.
package lsp

import (
	"fmt"
	"sync"

	"bennypowers.dev/tldedent/internal/config"
	"bennypowers.dev/tldedent/internal/documents"
	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/internal/parser"
	"bennypowers.dev/tldedent/lsp/methods/lifecycle"
	"bennypowers.dev/tldedent/lsp/methods/textDocument"
	"bennypowers.dev/tldedent/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/tldedent/lsp/methods/workspace"
	"bennypowers.dev/tldedent/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the template literal dedent language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	context    *glsp.Context
	rootURI    string
	rootPath   string
	config     *config.Config
	overrides  config.Overrides
	configMu   sync.RWMutex // Protects context, root, config and overrides
}

// NewServer creates a new language server
func NewServer() (*Server, error) {
	s := &Server{
		documents: documents.NewManager(),
		config:    config.Default(),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
	}

	s.glspServer = server.NewServer(&protocolHandler, lifecycle.ServerName, false)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the parser pools. It is safe to call Close multiple times.
func (s *Server) Close() error {
	parser.ClosePool()
	return nil
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// Config returns a snapshot of the current configuration
func (s *Server) Config() *config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config.Clone()
}

// SetConfig replaces the configuration and applies its log level
func (s *Server) SetConfig(cfg *config.Config) {
	s.configMu.Lock()
	s.config = cfg.Clone()
	s.configMu.Unlock()

	log.SetLevel(cfg.Level())
}

// SetOverrides sets the command line settings LoadConfig applies on top of
// the workspace configuration
func (s *Server) SetOverrides(o config.Overrides) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.overrides = o
}

// LoadConfig reads the configuration of the workspace root, or the file of
// the overrides, falling back to defaults when neither is known
func (s *Server) LoadConfig() error {
	root := s.RootPath()
	s.configMu.RLock()
	overrides := s.overrides
	s.configMu.RUnlock()

	cfg, err := overrides.Resolve(root)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Source != "" {
		log.Info("Loaded configuration from %s", cfg.Source)
	}
	s.SetConfig(cfg)
	return nil
}

// GLSPContext returns the GLSP context
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// PublishDiagnostics computes and pushes the diagnostics of a document
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	log.Debug("Publishing %d diagnostics for %s", len(diagnostics), uri)
	return s.notifyDiagnostics(context, uri, diagnostics)
}

// ClearDiagnostics removes all diagnostics of a document from the client
func (s *Server) ClearDiagnostics(context *glsp.Context, uri string) error {
	return s.notifyDiagnostics(context, uri, nil)
}

func (s *Server) notifyDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) error {
	// Use passed-in context if non-nil, otherwise fall back to server's context
	workingContext := context
	if workingContext == nil {
		workingContext = s.GLSPContext()
	}
	if workingContext == nil || workingContext.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	// An empty array, not null, clears the client's list
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

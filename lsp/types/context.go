package types

import (
	"bennypowers.dev/tldedent/internal/config"
	"bennypowers.dev/tldedent/internal/documents"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface rather than on the server so they can be
// tested against a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration
	Config() *config.Config
	SetConfig(cfg *config.Config)
	LoadConfig() error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics publishing
	PublishDiagnostics(context *glsp.Context, uri string) error
	ClearDiagnostics(context *glsp.Context, uri string) error
}

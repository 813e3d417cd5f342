package testutil

import (
	"bennypowers.dev/tldedent/internal/config"
	"bennypowers.dev/tldedent/internal/documents"
	"bennypowers.dev/tldedent/lsp/types"
	"github.com/tliron/glsp"
)

// Verify that MockServerContext implements ServerContext interface
var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext implements types.ServerContext for testing.
// It provides a minimal implementation with configurable behavior via callback functions.
type MockServerContext struct {
	docs        *documents.Manager
	rootURI     string
	rootPath    string
	config      *config.Config
	glspContext *glsp.Context

	// Optional callbacks for custom behavior in tests
	LoadConfigFunc         func() error
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking for tests that need to verify methods were called
	LoadConfigCalled bool
	Published        []string
	Cleared          []string
}

// NewMockServerContext creates a new mock server context with default behavior
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: config.Default(),
	}
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// AllDocuments returns all tracked documents
func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// Config returns a copy of the current configuration
func (m *MockServerContext) Config() *config.Config {
	return m.config.Clone()
}

// SetConfig replaces the configuration
func (m *MockServerContext) SetConfig(cfg *config.Config) {
	m.config = cfg.Clone()
}

// LoadConfig calls LoadConfigFunc when set, otherwise loads from the root path
func (m *MockServerContext) LoadConfig() error {
	m.LoadConfigCalled = true
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	if m.rootPath == "" {
		return nil
	}
	cfg, err := config.Load(m.rootPath)
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

// PublishDiagnostics records the URI and calls PublishDiagnosticsFunc when set
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.Published = append(m.Published, uri)
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}

// ClearDiagnostics records the URI
func (m *MockServerContext) ClearDiagnostics(context *glsp.Context, uri string) error {
	m.Cleared = append(m.Cleared, uri)
	return nil
}

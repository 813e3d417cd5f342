package types

import (
	"github.com/tliron/glsp"
)

// RequestContext carries everything one LSP method call needs: the server,
// the protocol context and any non-fatal warnings raised while handling it.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

// NewRequestContext creates a new request context
func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
	}
}

// AddWarning records a non-fatal problem. Middleware logs warnings once the
// handler returns successfully. Nil errors are ignored.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns the warnings recorded so far
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

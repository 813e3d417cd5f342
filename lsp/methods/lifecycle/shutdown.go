package lifecycle

import (
	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/internal/parser"
	"bennypowers.dev/tldedent/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")

	parser.ClosePool()

	return nil
}

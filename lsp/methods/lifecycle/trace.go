package lifecycle

import (
	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace handles the $/setTrace notification
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	switch params.Value {
	case protocol.TraceValueOff, protocol.TraceValueMessage, "messages", protocol.TraceValueVerbose:
		protocol.SetTraceValue(params.Value)
		log.Debug("Trace level set to: %s", params.Value)
	default:
		log.Warn("Ignoring unknown trace level: %s", params.Value)
	}
	return nil
}

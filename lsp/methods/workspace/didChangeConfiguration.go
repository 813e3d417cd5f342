package workspace

import (
	"encoding/json"
	"fmt"

	"bennypowers.dev/tldedent/internal/config"
	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	cfg, err := parseConfiguration(req.Server.Config(), params.Settings)
	if err != nil {
		// Keep the current configuration
		req.AddWarning(fmt.Errorf("failed to parse configuration: %w", err))
		return nil
	}

	req.Server.SetConfig(cfg)
	log.Debug("New configuration: %+v", *cfg)

	// Republish diagnostics for all open documents
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		glspCtx = req.GLSP
	}
	if glspCtx == nil {
		return nil
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			req.AddWarning(fmt.Errorf("failed to publish diagnostics for %s: %w", doc.URI(), err))
		}
	}

	return nil
}

// parseConfiguration overlays the client's settings onto current. Settings
// come as a nested object: { "templateDedent": { ... } }. Fields the client
// leaves out keep their current values.
func parseConfiguration(current *config.Config, settings any) (*config.Config, error) {
	if settings == nil {
		return current, nil
	}

	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings is not a map")
	}

	ours, exists := settingsMap[config.PackageJSONKey]
	if !exists || ours == nil {
		return current, nil
	}

	// Convert to JSON and back to parse into struct
	jsonBytes, err := json.Marshal(ours)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	cfg := current.Clone()
	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package main

import (
	"fmt"

	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdio",
		Long: `Run a Language Server Protocol server on stdin/stdout that publishes
indentation violations as diagnostics while files are edited.

The server reads its configuration from the workspace root the client
reports, or from --config, and from workspace/didChangeConfiguration
settings under the templateDedent key. The --tags, --atomic and --log-level
flags override the workspace files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := lsp.NewServer()
			if err != nil {
				return fmt.Errorf("failed to create LSP server: %w", err)
			}
			defer func() { _ = server.Close() }()

			// Flags keep applying when the workspace configuration loads
			server.SetOverrides(opts.overrides)
			server.SetConfig(opts.cfg)

			log.Info("Starting language server on stdio")
			if err := server.RunStdio(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

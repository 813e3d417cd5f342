package main

import (
	"fmt"

	"bennypowers.dev/tldedent/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// No configuration is needed to print the version
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion())
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tldedent %s\n", version.GetFullVersion())
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "show the version number only")

	return cmd
}

package main

import (
	"fmt"
	"io"
	"os"

	"bennypowers.dev/tldedent/internal/dedent"
	"bennypowers.dev/tldedent/internal/files"
	"bennypowers.dev/tldedent/internal/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report template literal lines indented left of their literal",
		Long: `Check reports every continuation line that starts left of its literal's
opening backtick, one per line as path:line:column: message.

Directories are searched using the include and exclude patterns of the
configuration. Without arguments the current directory is checked. The exit
status is 1 when any violation is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}
}

func runCheck(stdout, stderr io.Writer, opts *options, args []string) error {
	paths, err := files.Expand(args, opts.cfg)
	if err != nil {
		return err
	}

	total, failed := 0, 0
	for _, path := range paths {
		source, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the command line
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		violations, err := parser.Check(string(source), parser.KindOf("", path), opts.cfg.TransformOptions())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if len(violations) == 0 {
			continue
		}
		failed++
		total += len(violations)
		report(stdout, path, violations)
	}

	if total > 0 {
		_, _ = fmt.Fprintf(stderr, "%d %s in %d %s\n",
			total, plural(total, "violation"), failed, plural(failed, "file"))
		return errViolations
	}
	return nil
}

// report prints violations in the path:line:column: message form editors
// and CI annotators understand
func report(w io.Writer, path string, violations []*dedent.IndentationViolation) {
	for _, v := range violations {
		_, _ = fmt.Fprintf(w, "%s:%d:%d: %s\n", path, v.Line, v.Column, v.Error())
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

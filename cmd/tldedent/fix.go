package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"bennypowers.dev/tldedent/internal/dedent"
	"bennypowers.dev/tldedent/internal/files"
	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/internal/parser"
	"github.com/spf13/cobra"
)

type fixOptions struct {
	write     bool
	keepGoing bool
}

func newFixCmd(opts *options) *cobra.Command {
	fixOpts := &fixOptions{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Dedent template literals",
		Long: `Fix strips the indentation up to each literal's opening backtick from
every continuation line and prints the result.

With --write the files are rewritten in place instead. A file with a
violation is reported and left alone, unless --keep-going is set, in which
case the literals that could be dedented still are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, fixOpts, args)
		},
	}

	cmd.Flags().BoolVarP(&fixOpts.write, "write", "w", false, "write results to the source files instead of stdout")
	cmd.Flags().BoolVar(&fixOpts.keepGoing, "keep-going", false, "dedent the remaining literals of a file after a violation")

	return cmd
}

func runFix(stdout, stderr io.Writer, opts *options, fixOpts *fixOptions, args []string) error {
	paths, err := files.Expand(args, opts.cfg)
	if err != nil {
		return err
	}

	transformOpts := opts.cfg.TransformOptions()
	transformOpts.KeepGoing = fixOpts.keepGoing

	failed := false
	for _, path := range paths {
		source, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the command line
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := parser.Transform(string(source), parser.KindOf("", path), transformOpts)
		if err != nil {
			violations := collectViolations(err)
			if len(violations) == 0 {
				return fmt.Errorf("failed to transform %s: %w", path, err)
			}
			failed = true
			report(stderr, path, violations)
			if !fixOpts.keepGoing {
				continue
			}
		}

		if !fixOpts.write {
			_, _ = io.WriteString(stdout, result)
			continue
		}
		if result == string(source) {
			continue
		}
		if err := writeFile(path, result); err != nil {
			return err
		}
		log.Info("Fixed %s", path)
	}

	if failed {
		return errViolations
	}
	return nil
}

// collectViolations flattens a single or joined transform error
func collectViolations(err error) []*dedent.IndentationViolation {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var violations []*dedent.IndentationViolation
		for _, e := range joined.Unwrap() {
			violations = append(violations, collectViolations(e)...)
		}
		return violations
	}

	var v *dedent.IndentationViolation
	if errors.As(err, &v) {
		return []*dedent.IndentationViolation{v}
	}
	return nil
}

// writeFile replaces the content of path, keeping its permissions
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

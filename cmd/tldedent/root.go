// Command tldedent strips source indentation from multi-line JavaScript and
// TypeScript template literals.
//
// Configuration is read from the templateDedent field of package.json, or
// from .config/template-dedent.{yaml,yml,json}, in the current directory.
// Command line flags override the file:
//
//	tldedent check src            # report violations
//	tldedent fix --write src      # rewrite files in place
//	tldedent lsp                  # serve diagnostics over stdio
package main

import (
	"errors"
	"os"

	"bennypowers.dev/tldedent/internal/config"
	"bennypowers.dev/tldedent/internal/log"
	"github.com/spf13/cobra"
)

// errViolations makes the process exit with status 1 after the violations
// have been reported
var errViolations = errors.New("indentation violations found")

type options struct {
	configPath string
	logLevel   string
	tags       []string
	atomic     bool

	// overrides and cfg are resolved before any subcommand runs
	overrides config.Overrides
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tldedent",
		Short: "Strip source indentation from multi-line template literals",
		Long: `tldedent removes the left margin that source nesting adds to multi-line
template literals, so a literal's value no longer depends on how deeply it
is indented.

Every continuation line must start to the right of the literal's opening
backtick. Lines that start further left are reported as violations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is package.json#templateDedent or .config/template-dedent.yaml)")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	flags.StringSliceVar(&opts.tags, "tags", nil, "only process literals with these tags (e.g. css,html)")
	flags.BoolVar(&opts.atomic, "atomic", false, "leave a violating literal entirely untouched")

	cmd.AddCommand(
		newCheckCmd(opts),
		newFixCmd(opts),
		newLSPCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// resolve loads the configuration file and applies flag overrides
func (o *options) resolve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	ov := config.Overrides{File: o.configPath}
	if flags.Changed("tags") {
		ov.Tags = append([]string{}, o.tags...)
	}
	if flags.Changed("atomic") {
		ov.Atomic = &o.atomic
	}
	if flags.Changed("log-level") {
		ov.LogLevel = o.logLevel
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := ov.Resolve(wd)
	if err != nil {
		return err
	}

	log.SetLevel(cfg.Level())
	if cfg.Source != "" {
		log.Debug("Using config file: %s", cfg.Source)
	}
	o.overrides = ov
	o.cfg = cfg
	return nil
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// optCtx captures the command-line parameters of the optimize command.
// Values given on the command line override the configuration file.
var optCtx struct {
	configFile       string
	catalogFile      string
	maxSubstitutions int
	disabledRules    []string
	selection        string
	trace            bool
	verbosity        int32
	redactable       bool
}

// rulesCtx captures the command-line parameters of the rules command.
var rulesCtx struct {
	all bool
}

// initCLIDefaults resets the parameters, so that tests can call Run
// repeatedly.
func initCLIDefaults() {
	optCtx.configFile = ""
	optCtx.catalogFile = ""
	optCtx.maxSubstitutions = 0
	optCtx.disabledRules = nil
	optCtx.selection = ""
	optCtx.trace = false
	optCtx.verbosity = 0
	optCtx.redactable = false
	rulesCtx.all = false

	for _, cmd := range []*cobra.Command{optimizeCmd, rulesCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVar(&optCtx.configFile, "config", "", "YAML configuration file")
	f.StringVar(&optCtx.catalogFile, "catalog", "",
		"YAML file with additional table definitions")
	f.IntVar(&optCtx.maxSubstitutions, "max-substitutions", 0,
		"maximum number of substitutions before giving up")
	f.StringSliceVar(&optCtx.disabledRules, "disable-rule", nil,
		"rule to disable; can be repeated")
	f.StringVar(&optCtx.selection, "selection", "",
		"candidate selection policy: first or cheapest")
	f.BoolVar(&optCtx.trace, "trace", false, "print the substitutions made")
	f.Int32VarP(&optCtx.verbosity, "verbosity", "v", 0, "logging verbosity")
	f.BoolVar(&optCtx.redactable, "redactable", false,
		"keep redaction markers in log entries")

	rulesCmd.Flags().BoolVar(&rulesCtx.all, "all", false,
		"include exploration rules")
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(f *pflag.FlagSet, cfg *config.Config) error {
	if f.Changed("max-substitutions") {
		cfg.Optimizer.MaxSubstitutions = optCtx.maxSubstitutions
	}
	if f.Changed("selection") {
		cfg.Optimizer.CandidateSelection = optCtx.selection
	}
	if f.Changed("disable-rule") {
		cfg.Optimizer.DisabledRules = append(cfg.Optimizer.DisabledRules, optCtx.disabledRules...)
	}
	if f.Changed("verbosity") {
		cfg.Log.Verbosity = optCtx.verbosity
	}
	if f.Changed("redactable") {
		cfg.Log.Redactable = optCtx.redactable
	}
	if err := cfg.Validate(); err != nil {
		return errors.Mark(err, errFlag)
	}
	return nil
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cli implements the fusequery-opt command line tool, which
// optimizes logical plans read from files or stdin.
package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/cli/exit"
	"github.com/fusequery/fusequery/pkg/sql/opt/xform"
	"github.com/spf13/cobra"
)

// Proxy to allow overrides in tests.
var osStderr = os.Stderr

var fuseCmd = &cobra.Command{
	Use:   "fusequery-opt [command] (flags)",
	Short: "rule-based logical plan rewriter",
	Long: `
Rewrites logical query plans with a set of transformation rules until no
rule applies, and prints the resulting plan.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errFlag marks errors caused by invalid command-line parameters.
var errFlag = errors.New("invalid command-line parameters")

func init() {
	cobra.EnableCommandSorting = false

	fuseCmd.AddCommand(
		optimizeCmd,
		rulesCmd,
	)
	fuseCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errFlag)
	})
}

// Main is the entry point of the fusequery-opt binary.
func Main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintf(osStderr, "ERROR: %v\n", err)
		os.Exit(errorCode(err).ExitCode())
	}
}

// Run executes the command line given by args.
func Run(args []string) error {
	initCLIDefaults()
	fuseCmd.SetArgs(args)
	return fuseCmd.Execute()
}

func errorCode(err error) exit.Code {
	switch {
	case err == nil:
		return exit.Success()
	case errors.Is(err, errFlag):
		return exit.CommandLineFlagError()
	case errors.Is(err, xform.ErrIterationLimit):
		return exit.IterationLimit()
	}
	return exit.UnspecifiedError()
}

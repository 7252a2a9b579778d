// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"strconv"

	"github.com/fusequery/fusequery/pkg/sql/opt/rule"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "list the built-in rules",
	Long: `
Lists the built-in rules in priority order, with the shape of the plans
each rule applies to. Exploration rules are only listed with --all.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set := rule.DefaultSet()
		if rulesCtx.all {
			set = rule.AllRules()
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeader([]string{"#", "rule", "kind", "pattern"})
		for _, r := range set.Rules() {
			kind := "rewrite"
			if r.ID().IsExplore() {
				kind = "explore"
			}
			table.Append([]string{
				strconv.Itoa(int(r.ID())), r.ID().String(), kind, r.Pattern().Shape(),
			})
		}
		table.Render()
		return nil
	},
}

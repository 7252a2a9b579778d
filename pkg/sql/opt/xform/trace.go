// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/olekukonko/tablewriter"
)

// TraceEvent records one substitution: the rule that fired, and the shapes of
// the subtree it matched and of the replacement.
type TraceEvent struct {
	Rule   opt.RuleID
	Before string
	After  string
}

func (ev TraceEvent) String() string {
	return fmt.Sprintf("%s: %s => %s", ev.Rule, ev.Before, ev.After)
}

// FormatTrace renders the events as a table.
func FormatTrace(events []TraceEvent) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"#", "rule", "before", "after"})
	for i, ev := range events {
		table.Append([]string{strconv.Itoa(i + 1), ev.Rule.String(), ev.Before, ev.After})
	}
	table.Render()
	return buf.String()
}

// RuleStat is the number of times a rule fired.
type RuleStat struct {
	Rule    opt.RuleID
	Applied int
}

// RuleStats counts the substitutions made by each rule, most applied first.
// Rules with the same count are ordered by ID.
func RuleStats(events []TraceEvent) []RuleStat {
	// Rules may come from outside the built-in set, so IDs are not bounded
	// by opt.NumRuleIDs.
	counts := make(map[opt.RuleID]int)
	for _, ev := range events {
		counts[ev.Rule]++
	}
	stats := make([]RuleStat, 0, len(counts))
	for id, n := range counts {
		stats = append(stats, RuleStat{Rule: id, Applied: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Applied != stats[j].Applied {
			return stats[i].Applied > stats[j].Applied
		}
		return stats[i].Rule < stats[j].Rule
	})
	return stats
}

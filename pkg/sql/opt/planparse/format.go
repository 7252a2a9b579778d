// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package planparse

import (
	"strings"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
)

// FormatPlan prints e in the format read by Parse, one node per line. Scans
// list their columns explicitly.
func FormatPlan(e *opt.SExpr) string {
	var sb strings.Builder
	formatPlan(&sb, e, 0)
	sb.WriteByte('\n')
	return sb.String()
}

func formatPlan(sb *strings.Builder, e *opt.SExpr, depth int) {
	if depth > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", depth))
	}
	sb.WriteByte('(')
	desc := e.Plan().String()
	if scan, ok := e.Plan().(*plans.Scan); ok {
		prefix := "Scan table=" + scan.TableName
		desc = prefix + " columns=" + scan.Columns.String() + strings.TrimPrefix(desc, prefix)
	}
	sb.WriteString(desc)
	for _, c := range e.Children() {
		formatPlan(sb, c, depth+1)
	}
	sb.WriteByte(')')
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plans

import (
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/xlab/treeprint"
)

// FormatTree renders the plan as an indented tree, one node per line:
//
//	Filter predicates=[a > 1]
//	└── Scan table=t
func FormatTree(e *opt.SExpr) string {
	root := treeprint.NewWithRoot(e.Plan().String())
	addChildren(root, e)
	return root.String()
}

func addChildren(tp treeprint.Tree, e *opt.SExpr) {
	for _, c := range e.Children() {
		if c.ChildCount() == 0 {
			tp.AddNode(c.Plan().String())
			continue
		}
		addChildren(tp.AddBranch(c.Plan().String()), c)
	}
}

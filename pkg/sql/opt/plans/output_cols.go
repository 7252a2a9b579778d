// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plans

import (
	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
)

// OutputCols returns the columns produced by the plan rooted at e, in order.
// It panics with an assertion failure if e contains a payload that is not one
// of the plan variants.
func OutputCols(e *opt.SExpr) Columns {
	switch p := e.Plan().(type) {
	case *Scan:
		return p.Columns

	case *Filter, *Sort, *Limit:
		return OutputCols(e.Children()[0])

	case *EvalScalar:
		input := OutputCols(e.Children()[0])
		res := make(Columns, 0, len(input)+len(p.Items))
		res = append(res, input...)
		return append(res, p.Items.Columns()...)

	case *Project:
		return p.Columns

	case *Join:
		left := OutputCols(e.Children()[0])
		if !p.Type.PreservesRightCols() {
			return left
		}
		right := OutputCols(e.Children()[1])
		res := make(Columns, 0, len(left)+len(right))
		res = append(res, left...)
		return append(res, right...)

	case *Aggregate:
		res := make(Columns, 0, len(p.GroupBy)+len(p.Aggregates))
		res = append(res, p.GroupBy.Columns()...)
		return append(res, p.Aggregates.Columns()...)
	}
	panic(errors.AssertionFailedf("no output columns for %s", e.Op()))
}

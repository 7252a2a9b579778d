// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rule

import (
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
)

// CommuteJoin swaps the inputs of an inner or cross join. A Project restores
// the original column order:
//
//	Join (A, B)  =>  Project [A cols, B cols] (Join (B, A))
//
// This is an exploration rule: the result is not better than its input, and
// it matches its own output. It must only run with a candidate selector that
// rejects replacements that are not cheaper.
type CommuteJoin struct {
	ruleBase
}

// NewCommuteJoin returns the rule. Its pattern is Join(*, *).
func NewCommuteJoin() *CommuteJoin {
	return &CommuteJoin{ruleBase{
		id:      opt.CommuteJoin,
		pattern: opt.PatternNode(opt.JoinOp, opt.PatternLeaf(), opt.PatternLeaf()),
	}}
}

// Apply is part of the Rule interface.
func (r *CommuteJoin) Apply(e *opt.SExpr, result *TransformResult) error {
	join, err := plans.AsJoin(e)
	if err != nil {
		return err
	}
	if join.Type != plans.InnerJoin && join.Type != plans.CrossJoin {
		return nil
	}
	left, right := e.Children()[0], e.Children()[1]
	result.Add(opt.NewUnary(
		&plans.Project{Columns: plans.OutputCols(e)},
		opt.NewBinary(join, right, left),
	))
	return nil
}

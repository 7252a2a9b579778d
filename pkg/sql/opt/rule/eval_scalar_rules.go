// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rule

import (
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
)

// EliminateEvalScalar replaces an EvalScalar that computes no columns with
// its input.
type EliminateEvalScalar struct {
	ruleBase
}

// NewEliminateEvalScalar returns the rule. Its pattern is EvalScalar(*).
func NewEliminateEvalScalar() *EliminateEvalScalar {
	return &EliminateEvalScalar{ruleBase{
		id:      opt.EliminateEvalScalar,
		pattern: opt.PatternNode(opt.EvalScalarOp, opt.PatternLeaf()),
	}}
}

// Apply is part of the Rule interface.
func (r *EliminateEvalScalar) Apply(e *opt.SExpr, result *TransformResult) error {
	eval, err := plans.AsEvalScalar(e)
	if err != nil {
		return err
	}
	if len(eval.Items) == 0 {
		result.Add(e.Children()[0])
	}
	return nil
}

// MergeEvalScalar merges two adjacent EvalScalars when the outer one does not
// reference any column computed by the inner one:
//
//	EvalScalar [g(b) AS y] (EvalScalar [f(a) AS x] input)
//	  =>  EvalScalar [f(a) AS x, g(b) AS y] input
type MergeEvalScalar struct {
	ruleBase
}

// NewMergeEvalScalar returns the rule. Its pattern is
// EvalScalar(EvalScalar(*)).
func NewMergeEvalScalar() *MergeEvalScalar {
	return &MergeEvalScalar{ruleBase{
		id: opt.MergeEvalScalar,
		pattern: opt.PatternNode(opt.EvalScalarOp,
			opt.PatternNode(opt.EvalScalarOp, opt.PatternLeaf())),
	}}
}

// Apply is part of the Rule interface.
func (r *MergeEvalScalar) Apply(e *opt.SExpr, result *TransformResult) error {
	outer, err := plans.AsEvalScalar(e)
	if err != nil {
		return err
	}
	child := e.Children()[0]
	inner, err := plans.AsEvalScalar(child)
	if err != nil {
		return err
	}
	if outer.Items.OuterCols().Intersects(inner.Items.Cols()) {
		return nil
	}
	items := make(plans.ScalarItems, 0, len(inner.Items)+len(outer.Items))
	items = append(items, inner.Items...)
	items = append(items, outer.Items...)
	result.Add(opt.NewUnary(&plans.EvalScalar{Items: items}, child.Children()[0]))
	return nil
}

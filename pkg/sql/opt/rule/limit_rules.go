// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rule

import (
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
)

// PushDownLimitSort tells a Sort below a Limit how many rows are needed, so
// it can keep only the top N:
//
//	Limit 10 offset 5 (Sort [a])  =>  Limit 10 offset 5 (Sort [a] limit 15)
type PushDownLimitSort struct {
	ruleBase
}

// NewPushDownLimitSort returns the rule. Its pattern is Limit(Sort(*)).
func NewPushDownLimitSort() *PushDownLimitSort {
	return &PushDownLimitSort{ruleBase{
		id: opt.PushDownLimitSort,
		pattern: opt.PatternNode(opt.LimitOp,
			opt.PatternNode(opt.SortOp, opt.PatternLeaf())),
	}}
}

// Apply is part of the Rule interface.
func (r *PushDownLimitSort) Apply(e *opt.SExpr, result *TransformResult) error {
	limit, err := plans.AsLimit(e)
	if err != nil {
		return err
	}
	if limit.Limit == plans.NoLimit {
		return nil
	}
	sortExpr := e.Children()[0]
	sort, err := plans.AsSort(sortExpr)
	if err != nil {
		return err
	}
	n := limit.Limit + limit.Offset
	if n <= 0 || (sort.Limit > 0 && sort.Limit <= n) {
		return nil
	}
	result.Add(e.WithChildren(sortExpr.WithPlan(&plans.Sort{Items: sort.Items, Limit: n})))
	return nil
}

// PushDownLimitEvalScalar moves a Limit below an EvalScalar, so that scalars
// are only computed for the rows that are returned:
//
//	Limit 10 (EvalScalar [f(a) AS x] input)  =>  EvalScalar [f(a) AS x] (Limit 10 input)
type PushDownLimitEvalScalar struct {
	ruleBase
}

// NewPushDownLimitEvalScalar returns the rule. Its pattern is
// Limit(EvalScalar(*)).
func NewPushDownLimitEvalScalar() *PushDownLimitEvalScalar {
	return &PushDownLimitEvalScalar{ruleBase{
		id: opt.PushDownLimitEvalScalar,
		pattern: opt.PatternNode(opt.LimitOp,
			opt.PatternNode(opt.EvalScalarOp, opt.PatternLeaf())),
	}}
}

// Apply is part of the Rule interface.
func (r *PushDownLimitEvalScalar) Apply(e *opt.SExpr, result *TransformResult) error {
	if _, err := plans.AsLimit(e); err != nil {
		return err
	}
	evalExpr := e.Children()[0]
	if _, err := plans.AsEvalScalar(evalExpr); err != nil {
		return err
	}
	result.Add(evalExpr.WithChildren(e.WithChildren(evalExpr.Children()[0])))
	return nil
}

// EliminateLimit replaces a Limit that neither bounds nor skips rows with its
// input.
type EliminateLimit struct {
	ruleBase
}

// NewEliminateLimit returns the rule. Its pattern is Limit(*).
func NewEliminateLimit() *EliminateLimit {
	return &EliminateLimit{ruleBase{
		id:      opt.EliminateLimit,
		pattern: opt.PatternNode(opt.LimitOp, opt.PatternLeaf()),
	}}
}

// Apply is part of the Rule interface.
func (r *EliminateLimit) Apply(e *opt.SExpr, result *TransformResult) error {
	limit, err := plans.AsLimit(e)
	if err != nil {
		return err
	}
	if limit.Limit == plans.NoLimit && limit.Offset == 0 {
		result.Add(e.Children()[0])
	}
	return nil
}

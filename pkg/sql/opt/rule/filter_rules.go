// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rule

import (
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
)

// NormalizeScalarFilter splits predicates of the form "x AND y" into separate
// predicates and drops constant TRUE predicates. A filter left without
// predicates is removed by EliminateFilter.
type NormalizeScalarFilter struct {
	ruleBase
}

// NewNormalizeScalarFilter returns the rule. Its pattern is Filter(*).
func NewNormalizeScalarFilter() *NormalizeScalarFilter {
	return &NormalizeScalarFilter{ruleBase{
		id:      opt.NormalizeScalarFilter,
		pattern: opt.PatternNode(opt.FilterOp, opt.PatternLeaf()),
	}}
}

// Apply is part of the Rule interface.
func (r *NormalizeScalarFilter) Apply(e *opt.SExpr, result *TransformResult) error {
	filter, err := plans.AsFilter(e)
	if err != nil {
		return err
	}
	changed := false
	predicates := make([]scalar.Expr, 0, len(filter.Predicates))
	for _, p := range filter.Predicates {
		for _, c := range scalar.Conjuncts(p) {
			if scalar.IsTrue(c) {
				changed = true
				continue
			}
			predicates = append(predicates, c)
		}
		if _, ok := p.(*scalar.And); ok {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	result.Add(e.WithPlan(&plans.Filter{Predicates: predicates, IsHaving: filter.IsHaving}))
	return nil
}

// MergeFilter merges two adjacent filters into one:
//
//	Filter [p1] (Filter [p2] input)  =>  Filter [p1, p2] input
//
// A HAVING filter is only merged with another HAVING filter.
type MergeFilter struct {
	ruleBase
}

// NewMergeFilter returns the rule. Its pattern is Filter(Filter(*)).
func NewMergeFilter() *MergeFilter {
	return &MergeFilter{ruleBase{
		id: opt.MergeFilter,
		pattern: opt.PatternNode(opt.FilterOp,
			opt.PatternNode(opt.FilterOp, opt.PatternLeaf())),
	}}
}

// Apply is part of the Rule interface.
func (r *MergeFilter) Apply(e *opt.SExpr, result *TransformResult) error {
	outer, err := plans.AsFilter(e)
	if err != nil {
		return err
	}
	child := e.Children()[0]
	inner, err := plans.AsFilter(child)
	if err != nil {
		return err
	}
	if outer.IsHaving != inner.IsHaving {
		return nil
	}
	predicates := make([]scalar.Expr, 0, len(outer.Predicates)+len(inner.Predicates))
	predicates = append(predicates, outer.Predicates...)
	predicates = append(predicates, inner.Predicates...)
	result.Add(opt.NewUnary(
		&plans.Filter{Predicates: predicates, IsHaving: outer.IsHaving},
		child.Children()[0],
	))
	return nil
}

// PushDownFilterEvalScalar moves the predicates that do not reference any
// column computed by an EvalScalar below it:
//
//	Filter [a > 1, c = 2] (EvalScalar [f(a) AS c] input)
//	  =>  Filter [c = 2] (EvalScalar [f(a) AS c] (Filter [a > 1] input))
type PushDownFilterEvalScalar struct {
	ruleBase
}

// NewPushDownFilterEvalScalar returns the rule. Its pattern is
// Filter(EvalScalar(*)).
func NewPushDownFilterEvalScalar() *PushDownFilterEvalScalar {
	return &PushDownFilterEvalScalar{ruleBase{
		id: opt.PushDownFilterEvalScalar,
		pattern: opt.PatternNode(opt.FilterOp,
			opt.PatternNode(opt.EvalScalarOp, opt.PatternLeaf())),
	}}
}

// Apply is part of the Rule interface.
func (r *PushDownFilterEvalScalar) Apply(e *opt.SExpr, result *TransformResult) error {
	filter, err := plans.AsFilter(e)
	if err != nil {
		return err
	}
	evalExpr := e.Children()[0]
	eval, err := plans.AsEvalScalar(evalExpr)
	if err != nil {
		return err
	}

	computed := eval.Items.Cols()
	var pushed, remaining []scalar.Expr
	for _, p := range filter.Predicates {
		if p.OuterCols().Intersects(computed) {
			remaining = append(remaining, p)
		} else {
			pushed = append(pushed, p)
		}
	}
	if len(pushed) == 0 {
		return nil
	}

	input := evalExpr.Children()[0]
	newEval := evalExpr.WithChildren(
		opt.NewUnary(&plans.Filter{Predicates: pushed, IsHaving: filter.IsHaving}, input),
	)
	if len(remaining) == 0 {
		result.Add(newEval)
		return nil
	}
	result.Add(opt.NewUnary(&plans.Filter{Predicates: remaining, IsHaving: filter.IsHaving}, newEval))
	return nil
}

// PushDownFilterJoin moves filter predicates into a join.
//
// For inner and cross joins, predicates that only reference one input are
// pushed into a filter on that input, and the others become join conditions.
// A cross join that gains conditions becomes an inner join. For the other
// join types, only predicates that reference the left input alone can be
// pushed, into the left input; the rest stay above the join.
type PushDownFilterJoin struct {
	ruleBase
}

// NewPushDownFilterJoin returns the rule. Its pattern is Filter(Join(*, *)).
func NewPushDownFilterJoin() *PushDownFilterJoin {
	return &PushDownFilterJoin{ruleBase{
		id: opt.PushDownFilterJoin,
		pattern: opt.PatternNode(opt.FilterOp,
			opt.PatternNode(opt.JoinOp, opt.PatternLeaf(), opt.PatternLeaf())),
	}}
}

// Apply is part of the Rule interface.
func (r *PushDownFilterJoin) Apply(e *opt.SExpr, result *TransformResult) error {
	filter, err := plans.AsFilter(e)
	if err != nil {
		return err
	}
	joinExpr := e.Children()[0]
	join, err := plans.AsJoin(joinExpr)
	if err != nil {
		return err
	}
	left, right := joinExpr.Children()[0], joinExpr.Children()[1]
	leftCols := plans.OutputCols(left).ToSet()
	rightCols := plans.OutputCols(right).ToSet()
	innerLike := join.Type == plans.InnerJoin || join.Type == plans.CrossJoin

	var leftPreds, rightPreds, conditions, remaining []scalar.Expr
	for _, p := range filter.Predicates {
		cols := p.OuterCols()
		switch {
		case cols.SubsetOf(leftCols):
			leftPreds = append(leftPreds, p)
		case innerLike && cols.SubsetOf(rightCols):
			rightPreds = append(rightPreds, p)
		case innerLike:
			conditions = append(conditions, p)
		default:
			remaining = append(remaining, p)
		}
	}
	if len(leftPreds)+len(rightPreds)+len(conditions) == 0 {
		return nil
	}

	if len(leftPreds) > 0 {
		left = opt.NewUnary(&plans.Filter{Predicates: leftPreds}, left)
	}
	if len(rightPreds) > 0 {
		right = opt.NewUnary(&plans.Filter{Predicates: rightPreds}, right)
	}
	newJoin := join
	if len(conditions) > 0 {
		newJoin = &plans.Join{
			Type:       join.Type,
			Conditions: append(append([]scalar.Expr(nil), join.Conditions...), conditions...),
		}
		if newJoin.Type == plans.CrossJoin {
			newJoin.Type = plans.InnerJoin
		}
	}

	var out *opt.SExpr
	if newJoin == join {
		out = joinExpr.WithChildren(left, right)
	} else {
		out = opt.NewBinary(newJoin, left, right)
	}
	if len(remaining) > 0 {
		out = opt.NewUnary(&plans.Filter{Predicates: remaining, IsHaving: filter.IsHaving}, out)
	}
	result.Add(out)
	return nil
}

// PushDownFilterScan copies filter predicates into the scan below, so that
// storage can use them to skip rows. The filter is kept, since storage is not
// required to apply the predicates exactly. Scans with a limit are left
// alone.
type PushDownFilterScan struct {
	ruleBase
}

// NewPushDownFilterScan returns the rule. Its pattern is Filter(Scan).
func NewPushDownFilterScan() *PushDownFilterScan {
	return &PushDownFilterScan{ruleBase{
		id: opt.PushDownFilterScan,
		pattern: opt.PatternNode(opt.FilterOp,
			opt.PatternNode(opt.ScanOp)),
	}}
}

// Apply is part of the Rule interface.
func (r *PushDownFilterScan) Apply(e *opt.SExpr, result *TransformResult) error {
	filter, err := plans.AsFilter(e)
	if err != nil {
		return err
	}
	if filter.IsHaving {
		return nil
	}
	scanExpr := e.Children()[0]
	scan, err := plans.AsScan(scanExpr)
	if err != nil {
		return err
	}
	if scan.Limit > 0 {
		// Pushed-down predicates apply before the scan limit, which would
		// change the rows the limit keeps.
		return nil
	}
	var added []scalar.Expr
	for _, p := range filter.Predicates {
		if !scalar.ListContains(scan.PushDownPredicates, p) && !scalar.ListContains(added, p) {
			added = append(added, p)
		}
	}
	if len(added) == 0 {
		return nil
	}
	newScan := *scan
	newScan.PushDownPredicates = append(append([]scalar.Expr(nil), scan.PushDownPredicates...), added...)
	result.Add(e.WithChildren(opt.NewLeaf(&newScan)))
	return nil
}

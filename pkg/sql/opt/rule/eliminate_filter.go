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

// EliminateFilter removes duplicate filter predicates, keeping the first
// occurrence of each, and replaces a filter that has no predicates left with
// its input:
//
//	Filter [a > 1, b = 'x', a > 1] (Scan t)  =>  Filter [a > 1, b = 'x'] (Scan t)
//	Filter [] (Scan t)                       =>  Scan t
//
// The rule does not fire on a filter whose predicates are already distinct.
type EliminateFilter struct {
	ruleBase
}

var _ Rule = &EliminateFilter{}

// NewEliminateFilter returns the rule. Its pattern is Filter(*).
func NewEliminateFilter() *EliminateFilter {
	return &EliminateFilter{ruleBase{
		id:      opt.EliminateFilter,
		pattern: opt.PatternNode(opt.FilterOp, opt.PatternLeaf()),
	}}
}

// Apply is part of the Rule interface.
func (r *EliminateFilter) Apply(e *opt.SExpr, result *TransformResult) error {
	filter, err := plans.AsFilter(e)
	if err != nil {
		return err
	}
	input, err := e.Child(0)
	if err != nil {
		return err
	}

	predicates := scalar.Distinct(filter.Predicates)
	switch {
	case len(predicates) == 0:
		result.Add(input)
	case len(predicates) != len(filter.Predicates):
		result.Add(opt.NewUnary(&plans.Filter{Predicates: predicates, IsHaving: filter.IsHaving}, input))
	}
	return nil
}

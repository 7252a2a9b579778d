// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
)

// CandidateSelector picks the replacement for a subtree among the candidates
// produced by a rule.
type CandidateSelector interface {
	// SelectCandidate returns the selected candidate, or nil to reject all of
	// them, in which case the rule is considered not to have fired.
	SelectCandidate(ruleID opt.RuleID, original *opt.SExpr, candidates []*opt.SExpr) *opt.SExpr
}

// FirstCandidate selects the candidate the rule put first.
type FirstCandidate struct{}

var _ CandidateSelector = FirstCandidate{}

// SelectCandidate is part of the CandidateSelector interface.
func (FirstCandidate) SelectCandidate(
	_ opt.RuleID, _ *opt.SExpr, candidates []*opt.SExpr,
) *opt.SExpr {
	return candidates[0]
}

// CheapestCandidate selects the candidate with the lowest estimated cost,
// preferring earlier candidates on ties. Candidates of rewrite rules are
// always accepted. Candidates of exploration rules are only accepted if they
// are strictly cheaper than the subtree they replace, which keeps rules such
// as CommuteJoin from firing forever.
type CheapestCandidate struct {
	Coster Coster
}

var _ CandidateSelector = &CheapestCandidate{}

// SelectCandidate is part of the CandidateSelector interface.
func (c *CheapestCandidate) SelectCandidate(
	ruleID opt.RuleID, original *opt.SExpr, candidates []*opt.SExpr,
) *opt.SExpr {
	best := candidates[0]
	bestCost := c.Coster.ComputeCost(best)
	for _, cand := range candidates[1:] {
		if cost := c.Coster.ComputeCost(cand); cost.Less(bestCost) {
			best, bestCost = cand, cost
		}
	}
	if ruleID.IsExplore() && !bestCost.Less(c.Coster.ComputeCost(original)) {
		return nil
	}
	return best
}

// SelectionPolicy names a candidate selection strategy.
type SelectionPolicy string

// Supported selection policies.
const (
	SelectFirst    SelectionPolicy = "first"
	SelectCheapest SelectionPolicy = "cheapest"
)

// ParseSelectionPolicy validates a policy name.
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch p := SelectionPolicy(s); p {
	case SelectFirst, SelectCheapest:
		return p, nil
	}
	return "", errors.Newf("unknown candidate selection policy %q", s)
}

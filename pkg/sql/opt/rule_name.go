// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import "fmt"

// RuleID uniquely identifies a rewrite rule implementation. Rule IDs are
// totally ordered, and the optimizer tests rules in ascending ID order, so the
// declaration order below is also the priority order.
type RuleID uint16

const (
	// InvalidRuleID is the zero value and is never assigned to a rule.
	InvalidRuleID RuleID = iota

	// ------------------------------------------------------------
	// Rewrite rules
	// ------------------------------------------------------------

	// NormalizeScalarFilter splits AND-ed filter predicates into separate
	// conjuncts and drops constant TRUE predicates.
	NormalizeScalarFilter

	// EliminateFilter de-duplicates filter predicates and removes filters that
	// have no predicates left.
	EliminateFilter

	// MergeFilter folds a filter into the filter directly below it.
	MergeFilter

	// PushDownFilterEvalScalar moves predicates below an EvalScalar when they
	// do not reference the columns it computes.
	PushDownFilterEvalScalar

	// PushDownFilterJoin moves predicates into the join inputs or the join
	// condition.
	PushDownFilterJoin

	// PushDownFilterScan copies filter predicates into the scan, as a hint for
	// storage-level pruning.
	PushDownFilterScan

	// EliminateEvalScalar removes an EvalScalar that computes nothing.
	EliminateEvalScalar

	// MergeEvalScalar folds two stacked independent EvalScalars into one.
	MergeEvalScalar

	// PushDownLimitSort turns a Limit over a Sort into a top-N sort.
	PushDownLimitSort

	// PushDownLimitEvalScalar moves a Limit below an EvalScalar.
	PushDownLimitEvalScalar

	// EliminateLimit removes a Limit that neither limits nor offsets.
	EliminateLimit

	// startExploreRule marks the first exploration rule. Exploration rules
	// generate alternatives that are not strictly better, and only make sense
	// when candidates are selected by cost.
	startExploreRule

	// ------------------------------------------------------------
	// Exploration rules
	// ------------------------------------------------------------

	// CommuteJoin swaps the inputs of an inner or cross join.
	CommuteJoin = startExploreRule

	// NumRuleIDs tracks the number of rule IDs. It must be last.
	NumRuleIDs = CommuteJoin + 1
)

var ruleNames = [NumRuleIDs]string{
	InvalidRuleID:            "InvalidRuleID",
	NormalizeScalarFilter:    "NormalizeScalarFilter",
	EliminateFilter:          "EliminateFilter",
	MergeFilter:              "MergeFilter",
	PushDownFilterEvalScalar: "PushDownFilterEvalScalar",
	PushDownFilterJoin:       "PushDownFilterJoin",
	PushDownFilterScan:       "PushDownFilterScan",
	EliminateEvalScalar:      "EliminateEvalScalar",
	MergeEvalScalar:          "MergeEvalScalar",
	PushDownLimitSort:        "PushDownLimitSort",
	PushDownLimitEvalScalar:  "PushDownLimitEvalScalar",
	EliminateLimit:           "EliminateLimit",
	CommuteJoin:              "CommuteJoin",
}

func (r RuleID) String() string {
	if r >= NumRuleIDs {
		return fmt.Sprintf("RuleID(%d)", r)
	}
	return ruleNames[r]
}

// SafeValue implements the redact.SafeValue interface.
func (RuleID) SafeValue() {}

// IsRewrite returns true if r is a rewrite rule, which always produces an
// expression that is at least as good as its input.
func (r RuleID) IsRewrite() bool {
	return r > InvalidRuleID && r < startExploreRule
}

// IsExplore returns true if r is an exploration rule.
func (r RuleID) IsExplore() bool {
	return r >= startExploreRule && r < NumRuleIDs
}

// RuleIDFromString returns the rule with the given name.
func RuleIDFromString(name string) (RuleID, bool) {
	for r := InvalidRuleID + 1; r < NumRuleIDs; r++ {
		if ruleNames[r] == name {
			return r, true
		}
	}
	return InvalidRuleID, false
}

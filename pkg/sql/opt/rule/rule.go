// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package rule defines the rewrite rule abstraction and the built-in rules.
//
// A rule declares the shape of the subtrees it applies to as a pattern tree
// (see opt.Matches), and produces zero or more equivalent replacements for
// each subtree that matches. Rules are immutable and stateless, so a single
// rule value is safely shared by optimizers running on different goroutines.
package rule

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
)

// Rule is a rewrite rule.
type Rule interface {
	// ID returns the unique identifier of the rule. Rules with lower IDs have
	// higher priority.
	ID() opt.RuleID

	// Pattern returns the shape of the subtrees the rule applies to.
	Pattern() *opt.SExpr

	// Apply adds to result the replacements for e, which is guaranteed to match
	// Pattern(). Leaving result empty means the rule does not fire. Apply must
	// not modify e. It returns an error only for internal faults, such as a
	// payload that does not have the type its operator promises.
	Apply(e *opt.SExpr, result *TransformResult) error
}

// TransformResult collects the candidate replacements produced by one rule
// application. The first candidate is the rule's preferred one.
type TransformResult struct {
	candidates []*opt.SExpr
}

// Add appends a candidate.
func (r *TransformResult) Add(e *opt.SExpr) {
	r.candidates = append(r.candidates, e)
}

// Len returns the number of candidates.
func (r *TransformResult) Len() int {
	return len(r.candidates)
}

// Candidates returns the candidates in the order they were added.
func (r *TransformResult) Candidates() []*opt.SExpr {
	return r.candidates
}

// Reset removes all candidates so the result can be reused.
func (r *TransformResult) Reset() {
	for i := range r.candidates {
		r.candidates[i] = nil
	}
	r.candidates = r.candidates[:0]
}

// ruleBase implements ID and Pattern for the built-in rules.
type ruleBase struct {
	id      opt.RuleID
	pattern *opt.SExpr
}

func (r *ruleBase) ID() opt.RuleID { return r.id }

func (r *ruleBase) Pattern() *opt.SExpr { return r.pattern }

// Set is an immutable collection of rules, ordered by ID.
type Set struct {
	rules []Rule
}

// NewSet returns a set holding the given rules. It is an error for two rules
// to have the same ID.
func NewSet(rules ...Rule) (*Set, error) {
	sorted := append([]Rule(nil), rules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })
	for i, r := range sorted {
		if r.ID() == opt.InvalidRuleID {
			return nil, errors.AssertionFailedf("rule with invalid ID")
		}
		if i > 0 && sorted[i-1].ID() == r.ID() {
			return nil, errors.Newf("duplicate rule %s", r.ID())
		}
		if r.Pattern() == nil || !r.Pattern().IsPattern() {
			return nil, errors.AssertionFailedf("rule %s has no pattern", r.ID())
		}
	}
	return &Set{rules: sorted}, nil
}

// MustNewSet is like NewSet but panics on error.
func MustNewSet(rules ...Rule) *Set {
	s, err := NewSet(rules...)
	if err != nil {
		panic(err)
	}
	return s
}

var builtins = []Rule{
	NewNormalizeScalarFilter(),
	NewEliminateFilter(),
	NewMergeFilter(),
	NewPushDownFilterEvalScalar(),
	NewPushDownFilterJoin(),
	NewPushDownFilterScan(),
	NewEliminateEvalScalar(),
	NewMergeEvalScalar(),
	NewPushDownLimitSort(),
	NewPushDownLimitEvalScalar(),
	NewEliminateLimit(),
	NewCommuteJoin(),
}

var (
	allSet     = MustNewSet(builtins...)
	defaultSet = allSet.filter(func(r Rule) bool { return r.ID().IsRewrite() })
)

// DefaultSet returns the built-in rewrite rules. Exploration rules are left
// out because they only make sense with cost-based candidate selection.
func DefaultSet() *Set {
	return defaultSet
}

// AllRules returns every built-in rule, including exploration rules.
func AllRules() *Set {
	return allSet
}

// Lookup returns the built-in rule with the given ID.
func Lookup(id opt.RuleID) (Rule, bool) {
	return allSet.Get(id)
}

// Rules returns the rules in ID order. The returned slice must not be
// modified.
func (s *Set) Rules() []Rule {
	return s.rules
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.rules)
}

// Get returns the rule with the given ID, if it is in the set.
func (s *Set) Get(id opt.RuleID) (Rule, bool) {
	i := sort.Search(len(s.rules), func(i int) bool { return s.rules[i].ID() >= id })
	if i < len(s.rules) && s.rules[i].ID() == id {
		return s.rules[i], true
	}
	return nil, false
}

// Contains returns true if the set has a rule with the given ID.
func (s *Set) Contains(id opt.RuleID) bool {
	_, ok := s.Get(id)
	return ok
}

// Without returns a set without the given rules. The receiver is unchanged.
func (s *Set) Without(ids ...opt.RuleID) *Set {
	return s.filter(func(r Rule) bool {
		for _, id := range ids {
			if r.ID() == id {
				return false
			}
		}
		return true
	})
}

// With returns a set that also holds the given built-in rules.
func (s *Set) With(ids ...opt.RuleID) (*Set, error) {
	rules := append([]Rule(nil), s.rules...)
	for _, id := range ids {
		if s.Contains(id) {
			continue
		}
		r, ok := Lookup(id)
		if !ok {
			return nil, errors.Newf("unknown rule %s", id)
		}
		rules = append(rules, r)
	}
	return NewSet(rules...)
}

func (s *Set) filter(keep func(Rule) bool) *Set {
	res := &Set{rules: make([]Rule, 0, len(s.rules))}
	for _, r := range s.rules {
		if keep(r) {
			res.rules = append(res.rules, r)
		}
	}
	return res
}

// ParseRuleIDs converts rule names to IDs.
func ParseRuleIDs(names []string) ([]opt.RuleID, error) {
	ids := make([]opt.RuleID, 0, len(names))
	for _, name := range names {
		id, ok := opt.RuleIDFromString(name)
		if !ok {
			return nil, errors.Newf("unknown rule %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

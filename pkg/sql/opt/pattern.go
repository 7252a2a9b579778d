// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

// Matches returns true if the candidate tree has the shape described by the
// pattern. A wildcard pattern node matches any candidate node, whatever its
// arity, and its children are not inspected. Any other pattern node matches
// a candidate node with the same operator and the same number of children,
// provided each child pattern recursively matches the corresponding child.
//
// Matching only looks at operators and tree shape. Conditions on operator
// fields are checked by the rule once the structural match succeeds.
func Matches(pattern, candidate *SExpr) bool {
	op := pattern.Op()
	if op.IsWildcard() {
		return true
	}
	if op != candidate.Op() || len(pattern.children) != len(candidate.children) {
		return false
	}
	for i := range pattern.children {
		if !Matches(pattern.children[i], candidate.children[i]) {
			return false
		}
	}
	return true
}

// PatternLeaf returns a wildcard pattern node.
func PatternLeaf() *SExpr {
	return NewLeaf(PatternPlan{PlanType: PatternOp})
}

// PatternNode returns a pattern node that matches op with the given child
// patterns. It panics if the number of children does not match op's arity.
func PatternNode(op RelOp, children ...*SExpr) *SExpr {
	return newSExpr(PatternPlan{PlanType: op}, children...)
}

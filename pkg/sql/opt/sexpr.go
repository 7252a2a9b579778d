// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// PlanNode is the operator-specific payload of an SExpr node. Implementations
// must be immutable values; the optimizer shares them freely between trees.
type PlanNode interface {
	// Op returns the kind of operator this payload represents.
	Op() RelOp

	// Equal returns true if other has the same operator and field values.
	Equal(other PlanNode) bool

	// String returns a one-line description of the node, without children.
	String() string
}

// PatternPlan is the payload of a rule pattern node. It carries only the
// operator kind to match, which may be the PatternOp wildcard. A PatternPlan
// never appears in a real plan.
type PatternPlan struct {
	PlanType RelOp
}

var _ PlanNode = PatternPlan{}

// Op is part of the PlanNode interface. A pattern node always reports
// PatternOp; use PlanType to get the operator it matches.
func (p PatternPlan) Op() RelOp { return PatternOp }

// Equal is part of the PlanNode interface.
func (p PatternPlan) Equal(other PlanNode) bool {
	o, ok := other.(PatternPlan)
	return ok && o.PlanType == p.PlanType
}

func (p PatternPlan) String() string {
	if p.PlanType.IsWildcard() {
		return "*"
	}
	return "Pattern(" + p.PlanType.String() + ")"
}

// matchedOp returns the operator a plan node matches against: the PlanType
// for pattern nodes, the node's own operator otherwise.
func matchedOp(p PlanNode) RelOp {
	if pat, ok := p.(PatternPlan); ok {
		return pat.PlanType
	}
	return p.Op()
}

// SExpr is an immutable relational expression tree. Each node holds a plan
// payload and between zero and two children, as required by the payload's
// operator. "Editing" a tree builds new nodes that point at the untouched
// subtrees of the old one, so unchanged subtrees are never copied.
type SExpr struct {
	plan     PlanNode
	children []*SExpr
}

// NewLeaf creates a node without children.
func NewLeaf(plan PlanNode) *SExpr {
	return newSExpr(plan)
}

// NewUnary creates a node with one child.
func NewUnary(plan PlanNode, child *SExpr) *SExpr {
	return newSExpr(plan, child)
}

// NewBinary creates a node with two children.
func NewBinary(plan PlanNode, left, right *SExpr) *SExpr {
	return newSExpr(plan, left, right)
}

// newSExpr panics with an assertion failure if the number of children does
// not match the arity of the plan's operator. The panic is converted to an
// error by CatchOptimizerError at the optimizer boundary.
func newSExpr(plan PlanNode, children ...*SExpr) *SExpr {
	if plan == nil {
		panic(errors.AssertionFailedf("nil plan node"))
	}
	op := matchedOp(plan)
	if arity := op.Arity(); arity != len(children) {
		panic(errors.AssertionFailedf(
			"%s expects %d children, got %d", op, errors.Safe(arity), errors.Safe(len(children)),
		))
	}
	for i, c := range children {
		if c == nil {
			panic(errors.AssertionFailedf("%s child %d is nil", op, errors.Safe(i)))
		}
	}
	e := &SExpr{plan: plan}
	if len(children) > 0 {
		e.children = append(make([]*SExpr, 0, len(children)), children...)
	}
	return e
}

// Plan returns the payload of the node.
func (e *SExpr) Plan() PlanNode {
	return e.plan
}

// Op returns the operator of the node. For pattern nodes this is the operator
// being matched (possibly the wildcard).
func (e *SExpr) Op() RelOp {
	return matchedOp(e.plan)
}

// IsPattern returns true if the node is part of a rule pattern.
func (e *SExpr) IsPattern() bool {
	_, ok := e.plan.(PatternPlan)
	return ok
}

// ChildCount returns the number of children of the node.
func (e *SExpr) ChildCount() int {
	return len(e.children)
}

// Child returns the i-th child of the node.
func (e *SExpr) Child(i int) (*SExpr, error) {
	if i < 0 || i >= len(e.children) {
		return nil, errors.AssertionFailedf(
			"child index %d out of bounds for %s with %d children",
			errors.Safe(i), e.Op(), errors.Safe(len(e.children)),
		)
	}
	return e.children[i], nil
}

// Children returns the children of the node. The returned slice must not be
// modified.
func (e *SExpr) Children() []*SExpr {
	return e.children
}

// WithChildren returns a node with the same plan and the given children. If
// every child is identical to the current one, the receiver itself is
// returned.
func (e *SExpr) WithChildren(children ...*SExpr) *SExpr {
	if len(children) == len(e.children) {
		same := true
		for i := range children {
			if children[i] != e.children[i] {
				same = false
				break
			}
		}
		if same {
			return e
		}
	}
	return newSExpr(e.plan, children...)
}

// WithPlan returns a node with the given plan over the receiver's children.
func (e *SExpr) WithPlan(plan PlanNode) *SExpr {
	return newSExpr(plan, e.children...)
}

// Equal returns true if the two trees are structurally identical: equal plans
// and pairwise equal children. Shared subtrees compare in constant time.
func (e *SExpr) Equal(other *SExpr) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	if len(e.children) != len(other.children) || !e.plan.Equal(other.plan) {
		return false
	}
	for i := range e.children {
		if !e.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Shape returns the operator skeleton of the tree, for example
// "Filter(Join(Scan,Scan))". Wildcard pattern nodes print as "*".
func (e *SExpr) Shape() string {
	var sb strings.Builder
	e.writeShape(&sb)
	return sb.String()
}

func (e *SExpr) writeShape(sb *strings.Builder) {
	if op := e.Op(); op.IsWildcard() {
		sb.WriteByte('*')
	} else {
		sb.WriteString(op.String())
	}
	if len(e.children) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range e.children {
		if i > 0 {
			sb.WriteByte(',')
		}
		c.writeShape(sb)
	}
	sb.WriteByte(')')
}

// NodeCount returns the number of nodes in the tree. Shared subtrees are
// counted once per reference.
func (e *SExpr) NodeCount() int {
	n := 1
	for _, c := range e.children {
		n += c.NodeCount()
	}
	return n
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import "fmt"

// RelOp identifies the kind of relational operator a plan node represents.
// The set is closed: every PlanNode implementation reports one of these values.
type RelOp uint8

const (
	// UnknownOp is the zero value and is never a valid plan operator.
	UnknownOp RelOp = iota

	// PatternOp is the wildcard operator. It only appears inside rule patterns,
	// where it matches any single node (of any arity) without inspecting the
	// node's children.
	PatternOp

	// ScanOp reads the rows of a table.
	ScanOp

	// FilterOp discards the input rows that fail a conjunction of predicates.
	FilterOp

	// EvalScalarOp computes scalar expressions over its input and appends them
	// as new columns.
	EvalScalarOp

	// ProjectOp restricts its input to a subset of columns.
	ProjectOp

	// JoinOp combines two inputs.
	JoinOp

	// AggregateOp groups its input and computes aggregate functions.
	AggregateOp

	// SortOp orders its input, optionally keeping only the first N rows.
	SortOp

	// LimitOp returns a bounded window of its input rows.
	LimitOp

	// NumOperators tracks the number of operators. It must be last.
	NumOperators
)

// operatorInfo stores static information about an operator.
type operatorInfo struct {
	name string

	// arity is the exact number of children the operator admits. The wildcard
	// has no fixed arity; it is only ever constructed as a pattern leaf.
	arity int
}

var operatorTab = [NumOperators]operatorInfo{
	UnknownOp:    {name: "Unknown", arity: -1},
	PatternOp:    {name: "Pattern", arity: 0},
	ScanOp:       {name: "Scan", arity: 0},
	FilterOp:     {name: "Filter", arity: 1},
	EvalScalarOp: {name: "EvalScalar", arity: 1},
	ProjectOp:    {name: "Project", arity: 1},
	JoinOp:       {name: "Join", arity: 2},
	AggregateOp:  {name: "Aggregate", arity: 1},
	SortOp:       {name: "Sort", arity: 1},
	LimitOp:      {name: "Limit", arity: 1},
}

func (op RelOp) String() string {
	if op >= NumOperators {
		return fmt.Sprintf("RelOp(%d)", op)
	}
	return operatorTab[op].name
}

// SafeValue implements the redact.SafeValue interface.
func (RelOp) SafeValue() {}

// Arity returns the number of children a node of this operator must have.
// It returns -1 for operators that cannot appear in a plan.
func (op RelOp) Arity() int {
	if op >= NumOperators {
		return -1
	}
	return operatorTab[op].arity
}

// IsWildcard returns true if op is the pattern wildcard.
func (op RelOp) IsWildcard() bool {
	return op == PatternOp
}

// RelOpFromString returns the operator with the given name, or UnknownOp.
func RelOpFromString(name string) RelOp {
	for op := PatternOp; op < NumOperators; op++ {
		if operatorTab[op].name == name {
			return op
		}
	}
	return UnknownOp
}

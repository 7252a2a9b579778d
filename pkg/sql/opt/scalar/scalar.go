// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package scalar defines the scalar expressions carried by plan nodes:
// predicates, computed columns, aggregate arguments. The optimizer treats them
// as opaque values that can be compared, hashed, printed, and asked which
// columns they reference. Evaluating them is the job of the scalar function
// layer.
package scalar

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
)

// Expr is a scalar expression. Implementations are immutable.
type Expr interface {
	// Equal returns true if other is structurally identical. Column references
	// are compared by ID, not by name.
	Equal(other Expr) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64

	// OuterCols returns the set of columns the expression references.
	OuterCols() opt.ColSet

	String() string

	// fingerprint writes a canonical representation of the expression; two
	// expressions are Equal iff their fingerprints are identical.
	fingerprint(sb *strings.Builder)
}

// ComparisonOp is a binary comparison operator.
type ComparisonOp uint8

// Supported comparison operators.
const (
	EQ ComparisonOp = iota
	NE
	LT
	LE
	GT
	GE
)

var comparisonOpNames = [...]string{
	EQ: "=",
	NE: "<>",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",
}

func (op ComparisonOp) String() string {
	return comparisonOpNames[op]
}

// ComparisonOpFromString parses one of "=", "<>", "!=", "<", "<=", ">", ">=".
func ComparisonOpFromString(s string) (ComparisonOp, bool) {
	if s == "!=" {
		return NE, true
	}
	for i, n := range comparisonOpNames {
		if n == s {
			return ComparisonOp(i), true
		}
	}
	return 0, false
}

// Commute returns the operator obtained by swapping the operands.
func (op ComparisonOp) Commute() ComparisonOp {
	switch op {
	case LT:
		return GT
	case LE:
		return GE
	case GT:
		return LT
	case GE:
		return LE
	}
	return op
}

// ColumnRef references an input column.
type ColumnRef struct {
	Col opt.ColumnID

	// Name is only used for display.
	Name string
}

// Const is a constant value.
type Const struct {
	Value tree.Datum
}

// Comparison compares two scalars.
type Comparison struct {
	Op          ComparisonOp
	Left, Right Expr
}

// And is the boolean conjunction of two scalars.
type And struct {
	Left, Right Expr
}

// Or is the boolean disjunction of two scalars.
type Or struct {
	Left, Right Expr
}

// Not is boolean negation.
type Not struct {
	Input Expr
}

// FuncCall is a call to a scalar function. Functions are assumed to be
// deterministic and free of side effects.
type FuncCall struct {
	Name string
	Args []Expr
}

// AggregateFunc is a call to an aggregate function. It is only valid as an
// item of an Aggregate operator.
type AggregateFunc struct {
	Name     string
	Distinct bool
	Args     []Expr
}

var (
	_ Expr = &ColumnRef{}
	_ Expr = &Const{}
	_ Expr = &Comparison{}
	_ Expr = &And{}
	_ Expr = &Or{}
	_ Expr = &Not{}
	_ Expr = &FuncCall{}
	_ Expr = &AggregateFunc{}
)

// True and False are the boolean constants.
var (
	True  Expr = &Const{Value: tree.DBoolTrue}
	False Expr = &Const{Value: tree.DBoolFalse}
)

// NewColumnRef returns a reference to the given column.
func NewColumnRef(col opt.ColumnID, name string) *ColumnRef {
	return &ColumnRef{Col: col, Name: name}
}

// NewConst returns a constant.
func NewConst(d tree.Datum) *Const {
	return &Const{Value: d}
}

// NewComparison returns "left op right".
func NewComparison(op ComparisonOp, left, right Expr) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

// NewFuncCall returns a call to the named scalar function.
func NewFuncCall(name string, args ...Expr) *FuncCall {
	return &FuncCall{Name: name, Args: args}
}

func fingerprintOf(e Expr) string {
	var sb strings.Builder
	e.fingerprint(&sb)
	return sb.String()
}

func hashOf(e Expr) uint64 {
	return xxhash.Sum64String(fingerprintOf(e))
}

func colsOf(exprs ...Expr) opt.ColSet {
	var cols opt.ColSet
	for _, e := range exprs {
		cols.UnionWith(e.OuterCols())
	}
	return cols
}

func writeArgs(sb *strings.Builder, args []Expr, fp bool) {
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if fp {
			a.fingerprint(sb)
		} else {
			sb.WriteString(a.String())
		}
	}
	sb.WriteByte(')')
}

func argsEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ---- ColumnRef ----

// Equal implements the Expr interface.
func (c *ColumnRef) Equal(other Expr) bool {
	o, ok := other.(*ColumnRef)
	return ok && o.Col == c.Col
}

// Hash implements the Expr interface.
func (c *ColumnRef) Hash() uint64 { return hashOf(c) }

// OuterCols implements the Expr interface.
func (c *ColumnRef) OuterCols() opt.ColSet { return opt.MakeColSet(c.Col) }

func (c *ColumnRef) String() string { return c.Name }

func (c *ColumnRef) fingerprint(sb *strings.Builder) {
	sb.WriteByte('@')
	sb.WriteString(itoa(int64(c.Col)))
}

// ---- Const ----

// Equal implements the Expr interface.
func (c *Const) Equal(other Expr) bool {
	o, ok := other.(*Const)
	return ok && o.Value.ResolvedType() == c.Value.ResolvedType() && o.Value.Compare(c.Value) == 0
}

// Hash implements the Expr interface.
func (c *Const) Hash() uint64 { return hashOf(c) }

// OuterCols implements the Expr interface.
func (c *Const) OuterCols() opt.ColSet { return opt.ColSet{} }

func (c *Const) String() string { return c.Value.String() }

func (c *Const) fingerprint(sb *strings.Builder) {
	sb.WriteString(c.Value.ResolvedType())
	sb.WriteByte(':')
	sb.WriteString(c.Value.String())
}

// ---- Comparison ----

// Equal implements the Expr interface.
func (c *Comparison) Equal(other Expr) bool {
	o, ok := other.(*Comparison)
	return ok && o.Op == c.Op && c.Left.Equal(o.Left) && c.Right.Equal(o.Right)
}

// Hash implements the Expr interface.
func (c *Comparison) Hash() uint64 { return hashOf(c) }

// OuterCols implements the Expr interface.
func (c *Comparison) OuterCols() opt.ColSet { return colsOf(c.Left, c.Right) }

func (c *Comparison) String() string {
	return operand(c.Left) + " " + c.Op.String() + " " + operand(c.Right)
}

// operand parenthesizes nested comparisons, which the comparison syntax does
// not allow to chain.
func operand(e Expr) string {
	if _, ok := e.(*Comparison); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (c *Comparison) fingerprint(sb *strings.Builder) {
	sb.WriteString(c.Op.String())
	writeArgs(sb, []Expr{c.Left, c.Right}, true /* fp */)
}

// ---- And ----

// Equal implements the Expr interface.
func (a *And) Equal(other Expr) bool {
	o, ok := other.(*And)
	return ok && a.Left.Equal(o.Left) && a.Right.Equal(o.Right)
}

// Hash implements the Expr interface.
func (a *And) Hash() uint64 { return hashOf(a) }

// OuterCols implements the Expr interface.
func (a *And) OuterCols() opt.ColSet { return colsOf(a.Left, a.Right) }

func (a *And) String() string {
	return "(" + a.Left.String() + " AND " + a.Right.String() + ")"
}

func (a *And) fingerprint(sb *strings.Builder) {
	sb.WriteString("and")
	writeArgs(sb, []Expr{a.Left, a.Right}, true /* fp */)
}

// ---- Or ----

// Equal implements the Expr interface.
func (o *Or) Equal(other Expr) bool {
	x, ok := other.(*Or)
	return ok && o.Left.Equal(x.Left) && o.Right.Equal(x.Right)
}

// Hash implements the Expr interface.
func (o *Or) Hash() uint64 { return hashOf(o) }

// OuterCols implements the Expr interface.
func (o *Or) OuterCols() opt.ColSet { return colsOf(o.Left, o.Right) }

func (o *Or) String() string {
	return "(" + o.Left.String() + " OR " + o.Right.String() + ")"
}

func (o *Or) fingerprint(sb *strings.Builder) {
	sb.WriteString("or")
	writeArgs(sb, []Expr{o.Left, o.Right}, true /* fp */)
}

// ---- Not ----

// Equal implements the Expr interface.
func (n *Not) Equal(other Expr) bool {
	o, ok := other.(*Not)
	return ok && n.Input.Equal(o.Input)
}

// Hash implements the Expr interface.
func (n *Not) Hash() uint64 { return hashOf(n) }

// OuterCols implements the Expr interface.
func (n *Not) OuterCols() opt.ColSet { return n.Input.OuterCols() }

func (n *Not) String() string { return "NOT " + operand(n.Input) }

func (n *Not) fingerprint(sb *strings.Builder) {
	sb.WriteString("not")
	writeArgs(sb, []Expr{n.Input}, true /* fp */)
}

// ---- FuncCall ----

// Equal implements the Expr interface.
func (f *FuncCall) Equal(other Expr) bool {
	o, ok := other.(*FuncCall)
	return ok && o.Name == f.Name && argsEqual(f.Args, o.Args)
}

// Hash implements the Expr interface.
func (f *FuncCall) Hash() uint64 { return hashOf(f) }

// OuterCols implements the Expr interface.
func (f *FuncCall) OuterCols() opt.ColSet { return colsOf(f.Args...) }

func (f *FuncCall) String() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	writeArgs(&sb, f.Args, false /* fp */)
	return sb.String()
}

func (f *FuncCall) fingerprint(sb *strings.Builder) {
	sb.WriteString("fn:")
	sb.WriteString(f.Name)
	writeArgs(sb, f.Args, true /* fp */)
}

// ---- AggregateFunc ----

// Equal implements the Expr interface.
func (f *AggregateFunc) Equal(other Expr) bool {
	o, ok := other.(*AggregateFunc)
	return ok && o.Name == f.Name && o.Distinct == f.Distinct && argsEqual(f.Args, o.Args)
}

// Hash implements the Expr interface.
func (f *AggregateFunc) Hash() uint64 { return hashOf(f) }

// OuterCols implements the Expr interface.
func (f *AggregateFunc) OuterCols() opt.ColSet { return colsOf(f.Args...) }

func (f *AggregateFunc) String() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	if f.Distinct {
		sb.WriteString("(DISTINCT ")
		sb.WriteString(strings.TrimPrefix(argList(f.Args), "("))
		return sb.String()
	}
	writeArgs(&sb, f.Args, false /* fp */)
	return sb.String()
}

func argList(args []Expr) string {
	var sb strings.Builder
	writeArgs(&sb, args, false /* fp */)
	return sb.String()
}

func (f *AggregateFunc) fingerprint(sb *strings.Builder) {
	sb.WriteString("agg:")
	sb.WriteString(f.Name)
	if f.Distinct {
		sb.WriteString(":distinct")
	}
	writeArgs(sb, f.Args, true /* fp */)
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package plans defines the payloads of relational plan nodes. Each type
// implements opt.PlanNode and reports one of the opt.RelOp values. Payloads
// are immutable once they are attached to an SExpr: rules that want a
// different payload build a new one.
package plans

import (
	"strconv"
	"strings"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
)

// Column is an output column of a plan node.
type Column struct {
	ID   opt.ColumnID
	Name string
}

// Columns is an ordered list of output columns.
type Columns []Column

// IDs returns the column IDs, in order.
func (c Columns) IDs() opt.ColList {
	res := make(opt.ColList, len(c))
	for i := range c {
		res[i] = c[i].ID
	}
	return res
}

// ToSet returns the set of column IDs.
func (c Columns) ToSet() opt.ColSet {
	var s opt.ColSet
	for i := range c {
		s.Add(c[i].ID)
	}
	return s
}

// Equal compares columns by ID.
func (c Columns) Equal(other Columns) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i].ID != other[i].ID {
			return false
		}
	}
	return true
}

// Find returns the column with the given name. Names may be qualified with a
// table name ("t.a"), in which case they also match the unqualified name.
func (c Columns) Find(name string) (Column, bool) {
	for _, col := range c {
		if col.Name == name {
			return col, true
		}
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return c.Find(name[i+1:])
	}
	return Column{}, false
}

func (c Columns) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, col := range c {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.Name)
	}
	sb.WriteByte(']')
	return sb.String()
}

// ScalarItem is a scalar expression bound to the output column that holds
// its value.
type ScalarItem struct {
	Scalar scalar.Expr
	Col    opt.ColumnID
	Alias  string
}

// IsPassthrough returns true if the item only forwards an input column under
// its own ID.
func (it ScalarItem) IsPassthrough() bool {
	ref, ok := it.Scalar.(*scalar.ColumnRef)
	return ok && ref.Col == it.Col
}

func (it ScalarItem) equal(other ScalarItem) bool {
	return it.Col == other.Col && it.Scalar.Equal(other.Scalar)
}

func (it ScalarItem) String() string {
	if it.IsPassthrough() {
		return it.Scalar.String()
	}
	return it.Scalar.String() + " AS " + it.Alias
}

// ScalarItems is a list of scalar items.
type ScalarItems []ScalarItem

// Cols returns the set of columns produced by the items.
func (items ScalarItems) Cols() opt.ColSet {
	var s opt.ColSet
	for i := range items {
		s.Add(items[i].Col)
	}
	return s
}

// OuterCols returns the columns referenced by the items' expressions.
func (items ScalarItems) OuterCols() opt.ColSet {
	var s opt.ColSet
	for i := range items {
		s.UnionWith(items[i].Scalar.OuterCols())
	}
	return s
}

// Columns returns the output columns of the items.
func (items ScalarItems) Columns() Columns {
	res := make(Columns, len(items))
	for i := range items {
		res[i] = Column{ID: items[i].Col, Name: items[i].Alias}
	}
	return res
}

func (items ScalarItems) equal(other ScalarItems) bool {
	if len(items) != len(other) {
		return false
	}
	for i := range items {
		if !items[i].equal(other[i]) {
			return false
		}
	}
	return true
}

func (items ScalarItems) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(items[i].String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// SortItem is one key of a sort order.
type SortItem struct {
	Column
	Desc bool
}

func (s SortItem) String() string {
	if s.Desc {
		return s.Name + " DESC"
	}
	return s.Name
}

// JoinType is the kind of join.
type JoinType uint8

// Supported join types.
const (
	InnerJoin JoinType = iota
	LeftJoin
	CrossJoin
	SemiJoin
	AntiJoin
)

var joinTypeNames = [...]string{
	InnerJoin: "inner",
	LeftJoin:  "left",
	CrossJoin: "cross",
	SemiJoin:  "semi",
	AntiJoin:  "anti",
}

func (t JoinType) String() string {
	return joinTypeNames[t]
}

// JoinTypeFromString parses a join type name.
func JoinTypeFromString(s string) (JoinType, bool) {
	for i, n := range joinTypeNames {
		if n == s {
			return JoinType(i), true
		}
	}
	return 0, false
}

// PreservesRightCols returns true if the join's output contains the columns of
// its right input.
func (t JoinType) PreservesRightCols() bool {
	return t != SemiJoin && t != AntiJoin
}

// NoLimit is the value of Limit.Limit when the operator does not bound the
// number of rows.
const NoLimit = -1

// Scan reads the rows of a table.
type Scan struct {
	Table     cat.TableID
	TableName string
	Columns   Columns

	// PushDownPredicates are a copy of the predicates of a filter above the
	// scan, which storage may use to prune rows early. The filter above
	// remains responsible for correctness.
	PushDownPredicates []scalar.Expr

	// Limit is a hint for the number of rows the scan needs to produce. Zero
	// means unbounded.
	Limit int64
}

// Filter discards the rows that fail any of its predicates. Predicates are a
// conjunction.
type Filter struct {
	Predicates []scalar.Expr

	// IsHaving is true if the filter applies to the output of an aggregation.
	IsHaving bool
}

// EvalScalar computes scalar expressions and appends them as columns.
type EvalScalar struct {
	Items ScalarItems
}

// Project restricts its input to the given columns.
type Project struct {
	Columns Columns
}

// Join combines two inputs.
type Join struct {
	Type JoinType

	// Conditions are a conjunction of predicates over the columns of both
	// inputs.
	Conditions []scalar.Expr
}

// Aggregate groups its input rows and computes aggregate functions over each
// group.
type Aggregate struct {
	GroupBy    ScalarItems
	Aggregates ScalarItems
}

// Sort orders its input.
type Sort struct {
	Items []SortItem

	// Limit is the number of rows needed by the consumer. Zero means
	// unbounded.
	Limit int64
}

// Limit returns at most Limit rows after skipping Offset rows.
type Limit struct {
	// Limit is NoLimit if the operator only applies an offset.
	Limit  int64
	Offset int64
}

var (
	_ opt.PlanNode = &Scan{}
	_ opt.PlanNode = &Filter{}
	_ opt.PlanNode = &EvalScalar{}
	_ opt.PlanNode = &Project{}
	_ opt.PlanNode = &Join{}
	_ opt.PlanNode = &Aggregate{}
	_ opt.PlanNode = &Sort{}
	_ opt.PlanNode = &Limit{}
)

// Op is part of the opt.PlanNode interface.
func (s *Scan) Op() opt.RelOp { return opt.ScanOp }

// Op is part of the opt.PlanNode interface.
func (f *Filter) Op() opt.RelOp { return opt.FilterOp }

// Op is part of the opt.PlanNode interface.
func (e *EvalScalar) Op() opt.RelOp { return opt.EvalScalarOp }

// Op is part of the opt.PlanNode interface.
func (p *Project) Op() opt.RelOp { return opt.ProjectOp }

// Op is part of the opt.PlanNode interface.
func (j *Join) Op() opt.RelOp { return opt.JoinOp }

// Op is part of the opt.PlanNode interface.
func (a *Aggregate) Op() opt.RelOp { return opt.AggregateOp }

// Op is part of the opt.PlanNode interface.
func (s *Sort) Op() opt.RelOp { return opt.SortOp }

// Op is part of the opt.PlanNode interface.
func (l *Limit) Op() opt.RelOp { return opt.LimitOp }

// Equal is part of the opt.PlanNode interface.
func (s *Scan) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Scan)
	return ok && s.Table == o.Table && s.Limit == o.Limit &&
		s.Columns.Equal(o.Columns) &&
		scalar.ListEqual(s.PushDownPredicates, o.PushDownPredicates)
}

// Equal is part of the opt.PlanNode interface.
func (f *Filter) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Filter)
	return ok && f.IsHaving == o.IsHaving && scalar.ListEqual(f.Predicates, o.Predicates)
}

// Equal is part of the opt.PlanNode interface.
func (e *EvalScalar) Equal(other opt.PlanNode) bool {
	o, ok := other.(*EvalScalar)
	return ok && e.Items.equal(o.Items)
}

// Equal is part of the opt.PlanNode interface.
func (p *Project) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Project)
	return ok && p.Columns.Equal(o.Columns)
}

// Equal is part of the opt.PlanNode interface.
func (j *Join) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Join)
	return ok && j.Type == o.Type && scalar.ListEqual(j.Conditions, o.Conditions)
}

// Equal is part of the opt.PlanNode interface.
func (a *Aggregate) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Aggregate)
	return ok && a.GroupBy.equal(o.GroupBy) && a.Aggregates.equal(o.Aggregates)
}

// Equal is part of the opt.PlanNode interface.
func (s *Sort) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Sort)
	if !ok || s.Limit != o.Limit || len(s.Items) != len(o.Items) {
		return false
	}
	for i := range s.Items {
		if s.Items[i].ID != o.Items[i].ID || s.Items[i].Desc != o.Items[i].Desc {
			return false
		}
	}
	return true
}

// Equal is part of the opt.PlanNode interface.
func (l *Limit) Equal(other opt.PlanNode) bool {
	o, ok := other.(*Limit)
	return ok && l.Limit == o.Limit && l.Offset == o.Offset
}

func (s *Scan) String() string {
	var sb strings.Builder
	sb.WriteString("Scan table=")
	sb.WriteString(s.TableName)
	if len(s.PushDownPredicates) > 0 {
		sb.WriteString(" pushdown=")
		sb.WriteString(scalar.ListString(s.PushDownPredicates))
	}
	if s.Limit > 0 {
		sb.WriteString(" limit=")
		sb.WriteString(strconv.FormatInt(s.Limit, 10))
	}
	return sb.String()
}

func (f *Filter) String() string {
	s := "Filter predicates=" + scalar.ListString(f.Predicates)
	if f.IsHaving {
		s += " having"
	}
	return s
}

func (e *EvalScalar) String() string {
	return "EvalScalar items=" + e.Items.String()
}

func (p *Project) String() string {
	return "Project columns=" + p.Columns.String()
}

func (j *Join) String() string {
	s := "Join type=" + j.Type.String()
	if len(j.Conditions) > 0 {
		s += " on=" + scalar.ListString(j.Conditions)
	}
	return s
}

func (a *Aggregate) String() string {
	return "Aggregate group=" + a.GroupBy.String() + " aggs=" + a.Aggregates.String()
}

func (s *Sort) String() string {
	var sb strings.Builder
	sb.WriteString("Sort keys=[")
	for i := range s.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.Items[i].String())
	}
	sb.WriteByte(']')
	if s.Limit > 0 {
		sb.WriteString(" limit=")
		sb.WriteString(strconv.FormatInt(s.Limit, 10))
	}
	return sb.String()
}

func (l *Limit) String() string {
	s := "Limit"
	if l.Limit != NoLimit {
		s += " limit=" + strconv.FormatInt(l.Limit, 10)
	}
	if l.Offset != 0 {
		s += " offset=" + strconv.FormatInt(l.Offset, 10)
	}
	return s
}

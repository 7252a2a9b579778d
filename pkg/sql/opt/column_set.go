// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"bytes"
	"fmt"

	"golang.org/x/tools/container/intsets"
)

// ColumnID uniquely identifies a column within the scope of one plan. IDs are
// allocated by Metadata and start at 1.
type ColumnID int32

// SafeValue implements the redact.SafeValue interface.
func (ColumnID) SafeValue() {}

// ColList is an ordered list of columns.
type ColList []ColumnID

// ToSet converts the list to a set.
func (cl ColList) ToSet() ColSet {
	return MakeColSet(cl...)
}

// Equals returns true if the two lists have the same columns in the same
// order.
func (cl ColList) Equals(other ColList) bool {
	if len(cl) != len(other) {
		return false
	}
	for i := range cl {
		if cl[i] != other[i] {
			return false
		}
	}
	return true
}

// ColSet is a set of column IDs. A ColSet has value semantics: the underlying
// sparse set is never shared between two sets that may be mutated, so ColSets
// can be copied by assignment.
type ColSet struct {
	s *intsets.Sparse
}

// MakeColSet returns a set initialized with the given columns.
func MakeColSet(cols ...ColumnID) ColSet {
	var s ColSet
	for _, c := range cols {
		s.Add(c)
	}
	return s
}

func (s ColSet) clone() *intsets.Sparse {
	var res intsets.Sparse
	if s.s != nil {
		res.Copy(s.s)
	}
	return &res
}

// Add adds a column to the set.
func (s *ColSet) Add(col ColumnID) {
	if s.Contains(col) {
		return
	}
	n := s.clone()
	n.Insert(int(col))
	s.s = n
}

// UnionWith adds all the columns of other to the set.
func (s *ColSet) UnionWith(other ColSet) {
	if other.Empty() || other.SubsetOf(*s) {
		return
	}
	n := s.clone()
	n.UnionWith(other.s)
	s.s = n
}

// Contains returns true if the set contains the column.
func (s ColSet) Contains(col ColumnID) bool {
	return s.s != nil && s.s.Has(int(col))
}

// Len returns the number of columns in the set.
func (s ColSet) Len() int {
	if s.s == nil {
		return 0
	}
	return s.s.Len()
}

// Empty returns true if the set has no columns.
func (s ColSet) Empty() bool {
	return s.s == nil || s.s.IsEmpty()
}

// Union returns the union of the two sets.
func (s ColSet) Union(other ColSet) ColSet {
	res := ColSet{s: s.clone()}
	res.UnionWith(other)
	return res
}

// Intersection returns the columns present in both sets.
func (s ColSet) Intersection(other ColSet) ColSet {
	if s.Empty() || other.Empty() {
		return ColSet{}
	}
	var n intsets.Sparse
	n.Intersection(s.s, other.s)
	return ColSet{s: &n}
}

// Difference returns the columns of s that are not in other.
func (s ColSet) Difference(other ColSet) ColSet {
	if s.Empty() {
		return ColSet{}
	}
	if other.Empty() {
		return ColSet{s: s.clone()}
	}
	var n intsets.Sparse
	n.Difference(s.s, other.s)
	return ColSet{s: &n}
}

// Intersects returns true if the two sets have at least one column in common.
func (s ColSet) Intersects(other ColSet) bool {
	if s.Empty() || other.Empty() {
		return false
	}
	return s.s.Intersects(other.s)
}

// SubsetOf returns true if every column of s is also in other.
func (s ColSet) SubsetOf(other ColSet) bool {
	if s.Empty() {
		return true
	}
	if other.Empty() {
		return false
	}
	return s.s.SubsetOf(other.s)
}

// Equals returns true if the two sets contain the same columns.
func (s ColSet) Equals(other ColSet) bool {
	if s.Empty() || other.Empty() {
		return s.Empty() == other.Empty()
	}
	return s.s.Equals(other.s)
}

// ForEach calls fn for every column in the set, in increasing order.
func (s ColSet) ForEach(fn func(col ColumnID)) {
	if s.s == nil {
		return
	}
	for _, c := range s.s.AppendTo(nil) {
		fn(ColumnID(c))
	}
}

// ToList returns the columns of the set in increasing order.
func (s ColSet) ToList() ColList {
	res := make(ColList, 0, s.Len())
	s.ForEach(func(col ColumnID) {
		res = append(res, col)
	})
	return res
}

// String prints the set as "(1,2,5)".
func (s ColSet) String() string {
	var buf bytes.Buffer
	buf.WriteByte('(')
	first := true
	s.ForEach(func(col ColumnID) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&buf, "%d", col)
	})
	buf.WriteByte(')')
	return buf.String()
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scalar

import (
	"strconv"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
)

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}

// IsTrue returns true if e is the constant TRUE.
func IsTrue(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.Value == tree.Datum(tree.DBoolTrue)
}

// IsFalse returns true if e is the constant FALSE.
func IsFalse(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.Value == tree.Datum(tree.DBoolFalse)
}

// Conjuncts splits e into the list of expressions that are AND-ed together.
// An expression that is not an And is returned as a single conjunct.
func Conjuncts(e Expr) []Expr {
	return appendConjuncts(nil, e)
}

func appendConjuncts(list []Expr, e Expr) []Expr {
	if and, ok := e.(*And); ok {
		list = appendConjuncts(list, and.Left)
		return appendConjuncts(list, and.Right)
	}
	return append(list, e)
}

// MakeAnd builds a left-deep conjunction of the given expressions. It returns
// True for an empty list.
func MakeAnd(exprs []Expr) Expr {
	if len(exprs) == 0 {
		return True
	}
	res := exprs[0]
	for _, e := range exprs[1:] {
		res = &And{Left: res, Right: e}
	}
	return res
}

// Distinct returns the expressions of list with duplicates removed, keeping
// the first occurrence of each. If list has no duplicates, it is returned
// as is.
func Distinct(list []Expr) []Expr {
	seen := make(map[uint64][]Expr, len(list))
	var res []Expr
	for i, e := range list {
		h := e.Hash()
		dup := false
		for _, prev := range seen[h] {
			if prev.Equal(e) {
				dup = true
				break
			}
		}
		if dup {
			if res == nil {
				res = append(make([]Expr, 0, len(list)), list[:i]...)
			}
			continue
		}
		seen[h] = append(seen[h], e)
		if res != nil {
			res = append(res, e)
		}
	}
	if res == nil {
		return list
	}
	return res
}

// ListEqual returns true if the two lists hold equal expressions in the same
// order.
func ListEqual(a, b []Expr) bool {
	return argsEqual(a, b)
}

// ListContains returns true if list holds an expression equal to e.
func ListContains(list []Expr, e Expr) bool {
	for _, x := range list {
		if x.Equal(e) {
			return true
		}
	}
	return false
}

// ListOuterCols returns the union of the columns referenced by the list.
func ListOuterCols(list []Expr) opt.ColSet {
	return colsOf(list...)
}

// ListString prints the list as "[a > 1, b = 'x']".
func ListString(list []Expr) string {
	if len(list) == 0 {
		return "[]"
	}
	s := "["
	for i, e := range list {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

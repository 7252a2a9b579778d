// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColSet(t *testing.T) {
	var empty ColSet
	require.True(t, empty.Empty())
	require.Equal(t, "()", empty.String())

	s := MakeColSet(3, 1)
	require.Equal(t, "(1,3)", s.String())
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(2))

	// Copies are independent.
	c := s
	c.Add(2)
	require.Equal(t, "(1,3)", s.String())
	require.Equal(t, "(1,2,3)", c.String())

	other := MakeColSet(3, 4)
	require.Equal(t, "(1,3,4)", s.Union(other).String())
	require.Equal(t, "(3)", s.Intersection(other).String())
	require.Equal(t, "(1)", s.Difference(other).String())
	require.True(t, s.Intersects(other))
	require.False(t, s.Intersects(MakeColSet(5)))
	require.True(t, MakeColSet(1).SubsetOf(s))
	require.True(t, empty.SubsetOf(s))
	require.False(t, s.SubsetOf(empty))
	require.True(t, s.Equals(ColList{3, 1}.ToSet()))
	require.Equal(t, ColList{1, 3}, s.ToList())

	u := s
	u.UnionWith(other)
	require.Equal(t, "(1,3,4)", u.String())
	require.Equal(t, "(1,3)", s.String())
}

func TestMetadata(t *testing.T) {
	var md Metadata
	a := md.AddColumn("a", "t")
	x := md.AddColumn("x", "")
	require.Equal(t, ColumnID(1), a)
	require.Equal(t, ColumnID(2), x)
	require.Equal(t, 2, md.NumColumns())
	require.Equal(t, "t.a", md.ColumnMeta(a).QualifiedAlias())
	require.Equal(t, "x", md.ColumnMeta(x).QualifiedAlias())
}

func TestRuleIDs(t *testing.T) {
	for r := InvalidRuleID + 1; r < NumRuleIDs; r++ {
		parsed, ok := RuleIDFromString(r.String())
		require.True(t, ok)
		require.Equal(t, r, parsed)
		require.NotEqual(t, r.IsRewrite(), r.IsExplore(), "%s", r)
	}
	require.True(t, EliminateFilter.IsRewrite())
	require.True(t, CommuteJoin.IsExplore())
	require.Less(t, NormalizeScalarFilter, EliminateFilter)
	_, ok := RuleIDFromString("NoSuchRule")
	require.False(t, ok)
}

func TestOperators(t *testing.T) {
	require.Equal(t, 2, JoinOp.Arity())
	require.Equal(t, 1, FilterOp.Arity())
	require.Equal(t, 0, ScanOp.Arity())
	require.Equal(t, FilterOp, RelOpFromString("Filter"))
	require.Equal(t, UnknownOp, RelOpFromString("Nope"))
	require.True(t, PatternOp.IsWildcard())
}

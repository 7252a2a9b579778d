// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plans

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
	"github.com/stretchr/testify/require"
)

func scanT() *opt.SExpr {
	return opt.NewLeaf(&Scan{
		Table:     1,
		TableName: "t",
		Columns:   Columns{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
	})
}

func scanU() *opt.SExpr {
	return opt.NewLeaf(&Scan{
		Table:     2,
		TableName: "u",
		Columns:   Columns{{ID: 3, Name: "x"}, {ID: 4, Name: "y"}},
	})
}

func aGt(n int64) scalar.Expr {
	return scalar.NewComparison(scalar.GT, scalar.NewColumnRef(1, "a"), scalar.NewConst(tree.NewDInt(n)))
}

func TestPlanString(t *testing.T) {
	lower := scalar.NewFuncCall("lower", scalar.NewColumnRef(2, "b"))
	testCases := []struct {
		plan     opt.PlanNode
		expected string
	}{
		{plan: &Scan{TableName: "t"}, expected: "Scan table=t"},
		{
			plan:     &Scan{TableName: "t", PushDownPredicates: []scalar.Expr{aGt(1)}, Limit: 10},
			expected: "Scan table=t pushdown=[a > 1] limit=10",
		},
		{plan: &Filter{Predicates: []scalar.Expr{aGt(1), aGt(2)}}, expected: "Filter predicates=[a > 1, a > 2]"},
		{plan: &Filter{IsHaving: true}, expected: "Filter predicates=[] having"},
		{
			plan:     &EvalScalar{Items: ScalarItems{{Scalar: lower, Col: 5, Alias: "lb"}}},
			expected: "EvalScalar items=[lower(b) AS lb]",
		},
		{plan: &Project{Columns: Columns{{ID: 2, Name: "b"}}}, expected: "Project columns=[b]"},
		{plan: &Join{Type: CrossJoin}, expected: "Join type=cross"},
		{plan: &Join{Type: InnerJoin, Conditions: []scalar.Expr{aGt(0)}}, expected: "Join type=inner on=[a > 0]"},
		{
			plan: &Aggregate{
				GroupBy: ScalarItems{{Scalar: scalar.NewColumnRef(2, "b"), Col: 2, Alias: "b"}},
				Aggregates: ScalarItems{{
					Scalar: &scalar.AggregateFunc{Name: "count", Args: []scalar.Expr{scalar.NewColumnRef(1, "a")}},
					Col:    5,
					Alias:  "cnt",
				}},
			},
			expected: "Aggregate group=[b] aggs=[count(a) AS cnt]",
		},
		{
			plan:     &Sort{Items: []SortItem{{Column: Column{ID: 1, Name: "a"}}, {Column: Column{ID: 2, Name: "b"}, Desc: true}}, Limit: 3},
			expected: "Sort keys=[a, b DESC] limit=3",
		},
		{plan: &Limit{Limit: 10, Offset: 5}, expected: "Limit limit=10 offset=5"},
		{plan: &Limit{Limit: NoLimit}, expected: "Limit"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, tc.plan.String())
	}
}

func TestPlanEqual(t *testing.T) {
	f1 := &Filter{Predicates: []scalar.Expr{aGt(1)}}
	require.True(t, f1.Equal(&Filter{Predicates: []scalar.Expr{aGt(1)}}))
	require.False(t, f1.Equal(&Filter{Predicates: []scalar.Expr{aGt(1)}, IsHaving: true}))
	require.False(t, f1.Equal(&Filter{Predicates: []scalar.Expr{aGt(2)}}))
	require.False(t, f1.Equal(&Limit{Limit: 1}))

	require.True(t, scanT().Equal(scanT()))
	require.False(t, scanT().Equal(scanU()))

	j1 := opt.NewBinary(&Join{Type: InnerJoin}, scanT(), scanU())
	j2 := opt.NewBinary(&Join{Type: InnerJoin}, scanU(), scanT())
	require.False(t, j1.Equal(j2))
	require.True(t, j1.Equal(opt.NewBinary(&Join{Type: InnerJoin}, scanT(), scanU())))
}

func TestDowncast(t *testing.T) {
	e := opt.NewUnary(&Filter{Predicates: []scalar.Expr{aGt(1)}}, scanT())
	f, err := AsFilter(e)
	require.NoError(t, err)
	require.Len(t, f.Predicates, 1)

	_, err = AsLimit(e)
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))
	require.Contains(t, err.Error(), "expected Limit plan, got Filter")
}

func TestOutputCols(t *testing.T) {
	lower := scalar.NewFuncCall("lower", scalar.NewColumnRef(2, "b"))
	eval := opt.NewUnary(&EvalScalar{Items: ScalarItems{{Scalar: lower, Col: 5, Alias: "lb"}}}, scanT())
	require.Equal(t, "[a, b, lb]", OutputCols(eval).String())

	join := opt.NewBinary(&Join{Type: InnerJoin}, eval, scanU())
	require.Equal(t, "[a, b, lb, x, y]", OutputCols(join).String())

	semi := opt.NewBinary(&Join{Type: SemiJoin}, scanT(), scanU())
	require.Equal(t, "[a, b]", OutputCols(semi).String())

	limit := opt.NewUnary(&Limit{Limit: 1}, opt.NewUnary(&Project{Columns: Columns{{ID: 4, Name: "y"}}}, scanU()))
	require.Equal(t, "[y]", OutputCols(limit).String())
	require.Equal(t, opt.ColList{4}, OutputCols(limit).IDs())

	col, ok := OutputCols(join).Find("u.x")
	require.True(t, ok)
	require.Equal(t, opt.ColumnID(3), col.ID)
	_, ok = OutputCols(join).Find("z")
	require.False(t, ok)
}

func TestFormatTree(t *testing.T) {
	e := opt.NewUnary(
		&Filter{Predicates: []scalar.Expr{aGt(1)}},
		opt.NewBinary(
			&Join{Type: CrossJoin},
			opt.NewUnary(&Limit{Limit: 5}, scanT()),
			scanU(),
		),
	)
	expected := "Filter predicates=[a > 1]\n" +
		"└── Join type=cross\n" +
		"    ├── Limit limit=5\n" +
		"    │   └── Scan table=t\n" +
		"    └── Scan table=u\n"
	require.Equal(t, expected, FormatTree(e))
	require.Equal(t, "Scan table=t\n", FormatTree(scanT()))
}

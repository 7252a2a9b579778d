// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rule_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/rule"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
	"github.com/stretchr/testify/require"
)

var (
	colA = scalar.NewColumnRef(1, "a")
	colB = scalar.NewColumnRef(2, "b")
	colX = scalar.NewColumnRef(3, "x")
	colY = scalar.NewColumnRef(4, "y")
)

func scanT() *opt.SExpr {
	return opt.NewLeaf(&plans.Scan{
		Table: 1, TableName: "t",
		Columns: plans.Columns{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
	})
}

func scanU() *opt.SExpr {
	return opt.NewLeaf(&plans.Scan{
		Table: 2, TableName: "u",
		Columns: plans.Columns{{ID: 3, Name: "x"}, {ID: 4, Name: "y"}},
	})
}

func gt(col scalar.Expr, n int64) scalar.Expr {
	return scalar.NewComparison(scalar.GT, col, scalar.NewConst(tree.NewDInt(n)))
}

func eq(l, r scalar.Expr) scalar.Expr {
	return scalar.NewComparison(scalar.EQ, l, r)
}

func filter(input *opt.SExpr, preds ...scalar.Expr) *opt.SExpr {
	return opt.NewUnary(&plans.Filter{Predicates: preds}, input)
}

// apply runs r on e and returns the candidates.
func apply(t *testing.T, r rule.Rule, e *opt.SExpr) []*opt.SExpr {
	t.Helper()
	require.True(t, opt.Matches(r.Pattern(), e), "%s does not match %s", r.ID(), e.Shape())
	var result rule.TransformResult
	require.NoError(t, r.Apply(e, &result))
	return result.Candidates()
}

func TestEliminateFilter(t *testing.T) {
	r := rule.NewEliminateFilter()
	require.Equal(t, opt.EliminateFilter, r.ID())
	require.Equal(t, "Filter(*)", r.Pattern().Shape())

	p, q := gt(colA, 1), eq(colB, scalar.NewConst(tree.NewDString("x")))

	t.Run("duplicates", func(t *testing.T) {
		input := scanT()
		res := apply(t, r, filter(input, p, q, gt(colA, 1)))
		require.Len(t, res, 1)
		f, err := plans.AsFilter(res[0])
		require.NoError(t, err)
		require.Equal(t, "[a > 1, b = 'x']", scalar.ListString(f.Predicates))
		require.Same(t, input, res[0].Children()[0])
	})

	t.Run("keeps having flag", func(t *testing.T) {
		e := opt.NewUnary(&plans.Filter{Predicates: []scalar.Expr{p, p}, IsHaving: true}, scanT())
		res := apply(t, r, e)
		require.Len(t, res, 1)
		require.Equal(t, "Filter predicates=[a > 1] having", res[0].Plan().String())
	})

	t.Run("empty", func(t *testing.T) {
		input := scanT()
		res := apply(t, r, filter(input))
		require.Len(t, res, 1)
		require.Same(t, input, res[0])
	})

	t.Run("no duplicates", func(t *testing.T) {
		require.Empty(t, apply(t, r, filter(scanT(), p, q)))
	})

	t.Run("payload mismatch", func(t *testing.T) {
		var result rule.TransformResult
		err := r.Apply(opt.NewUnary(&plans.Limit{Limit: 1}, scanT()), &result)
		require.Error(t, err)
		require.True(t, errors.HasAssertionFailure(err))
		require.Zero(t, result.Len())
	})
}

func TestNormalizeScalarFilter(t *testing.T) {
	r := rule.NewNormalizeScalarFilter()
	res := apply(t, r, filter(scanT(), &scalar.And{Left: gt(colA, 1), Right: gt(colB, 2)}, scalar.True))
	require.Len(t, res, 1)
	require.Equal(t, "Filter predicates=[a > 1, b > 2]", res[0].Plan().String())

	res = apply(t, r, filter(scanT(), scalar.True))
	require.Len(t, res, 1)
	require.Equal(t, "Filter predicates=[]", res[0].Plan().String())

	require.Empty(t, apply(t, r, filter(scanT(), &scalar.Or{Left: gt(colA, 1), Right: gt(colB, 2)})))
}

func TestMergeFilter(t *testing.T) {
	r := rule.NewMergeFilter()
	input := scanT()
	res := apply(t, r, filter(filter(input, gt(colB, 2)), gt(colA, 1)))
	require.Len(t, res, 1)
	require.Equal(t, "Filter predicates=[a > 1, b > 2]", res[0].Plan().String())
	require.Same(t, input, res[0].Children()[0])

	having := opt.NewUnary(&plans.Filter{Predicates: []scalar.Expr{gt(colA, 1)}, IsHaving: true},
		filter(input, gt(colB, 2)))
	require.Empty(t, apply(t, r, having))
}

func TestPushDownFilterEvalScalar(t *testing.T) {
	r := rule.NewPushDownFilterEvalScalar()
	computed := scalar.NewColumnRef(5, "c")
	eval := opt.NewUnary(&plans.EvalScalar{Items: plans.ScalarItems{
		{Scalar: scalar.NewFuncCall("abs", colA), Col: 5, Alias: "c"},
	}}, scanT())

	res := apply(t, r, filter(eval, gt(colA, 1), gt(computed, 2)))
	require.Len(t, res, 1)
	require.Equal(t, "Filter(EvalScalar(Filter(Scan)))", res[0].Shape())
	require.Equal(t, "Filter predicates=[c > 2]\n"+
		"└── EvalScalar items=[abs(a) AS c]\n"+
		"    └── Filter predicates=[a > 1]\n"+
		"        └── Scan table=t\n", plans.FormatTree(res[0]))

	res = apply(t, r, filter(eval, gt(colA, 1)))
	require.Equal(t, "EvalScalar(Filter(Scan))", res[0].Shape())

	require.Empty(t, apply(t, r, filter(eval, gt(computed, 2))))
}

func TestPushDownFilterJoin(t *testing.T) {
	r := rule.NewPushDownFilterJoin()

	t.Run("cross", func(t *testing.T) {
		join := opt.NewBinary(&plans.Join{Type: plans.CrossJoin}, scanT(), scanU())
		res := apply(t, r, filter(join, gt(colA, 1), gt(colY, 2), eq(colB, colX)))
		require.Len(t, res, 1)
		require.Equal(t, "Join type=inner on=[b = x]\n"+
			"├── Filter predicates=[a > 1]\n"+
			"│   └── Scan table=t\n"+
			"└── Filter predicates=[y > 2]\n"+
			"    └── Scan table=u\n", plans.FormatTree(res[0]))
	})

	t.Run("left", func(t *testing.T) {
		join := opt.NewBinary(&plans.Join{Type: plans.LeftJoin, Conditions: []scalar.Expr{eq(colB, colX)}},
			scanT(), scanU())
		res := apply(t, r, filter(join, gt(colA, 1), gt(colY, 2)))
		require.Len(t, res, 1)
		require.Equal(t, "Filter predicates=[y > 2]\n"+
			"└── Join type=left on=[b = x]\n"+
			"    ├── Filter predicates=[a > 1]\n"+
			"    │   └── Scan table=t\n"+
			"    └── Scan table=u\n", plans.FormatTree(res[0]))

		require.Empty(t, apply(t, r, filter(join, gt(colY, 2))))
	})
}

func TestPushDownFilterScan(t *testing.T) {
	r := rule.NewPushDownFilterScan()
	e := filter(scanT(), gt(colA, 1))
	res := apply(t, r, e)
	require.Len(t, res, 1)
	require.Same(t, e.Plan(), res[0].Plan())
	require.Equal(t, "Scan table=t pushdown=[a > 1]", res[0].Children()[0].Plan().String())

	// Once the scan has the predicate, the rule no longer fires.
	require.Empty(t, apply(t, r, res[0]))

	// Predicates pushed into a limited scan would apply before the limit.
	limited := opt.NewLeaf(&plans.Scan{
		Table: 1, TableName: "t",
		Columns: plans.Columns{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		Limit:   2,
	})
	require.Empty(t, apply(t, r, filter(limited, gt(colA, 1))))
}

func TestEvalScalarRules(t *testing.T) {
	empty := opt.NewUnary(&plans.EvalScalar{}, scanT())
	res := apply(t, rule.NewEliminateEvalScalar(), empty)
	require.Len(t, res, 1)
	require.Same(t, empty.Children()[0], res[0])

	inner := opt.NewUnary(&plans.EvalScalar{Items: plans.ScalarItems{
		{Scalar: scalar.NewFuncCall("abs", colA), Col: 5, Alias: "c"},
	}}, scanT())
	independent := opt.NewUnary(&plans.EvalScalar{Items: plans.ScalarItems{
		{Scalar: scalar.NewFuncCall("abs", colB), Col: 6, Alias: "d"},
	}}, inner)
	res = apply(t, rule.NewMergeEvalScalar(), independent)
	require.Len(t, res, 1)
	require.Equal(t, "EvalScalar items=[abs(a) AS c, abs(b) AS d]", res[0].Plan().String())
	require.Equal(t, "EvalScalar(Scan)", res[0].Shape())

	dependent := opt.NewUnary(&plans.EvalScalar{Items: plans.ScalarItems{
		{Scalar: scalar.NewFuncCall("abs", scalar.NewColumnRef(5, "c")), Col: 6, Alias: "d"},
	}}, inner)
	require.Empty(t, apply(t, rule.NewMergeEvalScalar(), dependent))
}

func TestLimitRules(t *testing.T) {
	sort := opt.NewUnary(&plans.Sort{Items: []plans.SortItem{{Column: plans.Column{ID: 1, Name: "a"}}}}, scanT())
	limit := opt.NewUnary(&plans.Limit{Limit: 10, Offset: 5}, sort)
	res := apply(t, rule.NewPushDownLimitSort(), limit)
	require.Len(t, res, 1)
	require.Equal(t, "Sort keys=[a] limit=15", res[0].Children()[0].Plan().String())
	require.Empty(t, apply(t, rule.NewPushDownLimitSort(), res[0]))
	require.Empty(t, apply(t, rule.NewPushDownLimitSort(),
		opt.NewUnary(&plans.Limit{Limit: plans.NoLimit, Offset: 5}, sort)))

	eval := opt.NewUnary(&plans.EvalScalar{Items: plans.ScalarItems{
		{Scalar: scalar.NewFuncCall("abs", colA), Col: 5, Alias: "c"},
	}}, scanT())
	res = apply(t, rule.NewPushDownLimitEvalScalar(), opt.NewUnary(&plans.Limit{Limit: 3}, eval))
	require.Equal(t, "EvalScalar(Limit(Scan))", res[0].Shape())
	require.Same(t, eval.Plan(), res[0].Plan())

	noop := opt.NewUnary(&plans.Limit{Limit: plans.NoLimit}, scanT())
	res = apply(t, rule.NewEliminateLimit(), noop)
	require.Same(t, noop.Children()[0], res[0])
	require.Empty(t, apply(t, rule.NewEliminateLimit(), limit))
}

func TestCommuteJoin(t *testing.T) {
	join := opt.NewBinary(&plans.Join{Type: plans.InnerJoin, Conditions: []scalar.Expr{eq(colB, colX)}},
		scanT(), scanU())
	res := apply(t, rule.NewCommuteJoin(), join)
	require.Len(t, res, 1)
	require.Equal(t, "Project columns=[a, b, x, y]\n"+
		"└── Join type=inner on=[b = x]\n"+
		"    ├── Scan table=u\n"+
		"    └── Scan table=t\n", plans.FormatTree(res[0]))
	require.True(t, plans.OutputCols(join).Equal(plans.OutputCols(res[0])))

	left := opt.NewBinary(&plans.Join{Type: plans.LeftJoin}, scanT(), scanU())
	require.Empty(t, apply(t, rule.NewCommuteJoin(), left))
}

func TestSet(t *testing.T) {
	def := rule.DefaultSet()
	require.False(t, def.Contains(opt.CommuteJoin))
	require.True(t, rule.AllRules().Contains(opt.CommuteJoin))
	require.Equal(t, int(opt.NumRuleIDs)-1, rule.AllRules().Len())

	var prev opt.RuleID
	for _, r := range def.Rules() {
		require.Greater(t, r.ID(), prev)
		require.True(t, r.Pattern().IsPattern())
		prev = r.ID()
	}

	without := def.Without(opt.MergeFilter, opt.EliminateLimit)
	require.Equal(t, def.Len()-2, without.Len())
	require.False(t, without.Contains(opt.MergeFilter))
	require.True(t, def.Contains(opt.MergeFilter))

	with, err := without.With(opt.CommuteJoin)
	require.NoError(t, err)
	require.True(t, with.Contains(opt.CommuteJoin))

	_, err = rule.NewSet(rule.NewEliminateFilter(), rule.NewEliminateFilter())
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate rule EliminateFilter")

	// Construction order does not matter.
	s := rule.MustNewSet(rule.NewMergeFilter(), rule.NewEliminateFilter())
	require.Equal(t, opt.EliminateFilter, s.Rules()[0].ID())

	ids, err := rule.ParseRuleIDs([]string{"MergeFilter", "CommuteJoin"})
	require.NoError(t, err)
	require.Equal(t, []opt.RuleID{opt.MergeFilter, opt.CommuteJoin}, ids)
	_, err = rule.ParseRuleIDs([]string{"Bogus"})
	require.Error(t, err)
}

func TestTransformResultReset(t *testing.T) {
	var result rule.TransformResult
	result.Add(scanT())
	result.Add(scanU())
	require.Equal(t, 2, result.Len())
	result.Reset()
	require.Zero(t, result.Len())
	require.Empty(t, result.Candidates())
}

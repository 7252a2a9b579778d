// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/planparse"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/rule"
	"github.com/fusequery/fusequery/pkg/sql/opt/testutils/refexec"
	"github.com/fusequery/fusequery/pkg/sql/opt/testutils/testcat"
	"github.com/fusequery/fusequery/pkg/sql/opt/xform"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
	"github.com/fusequery/fusequery/pkg/util/log"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func semanticsCatalog(t *testing.T) (*testcat.Catalog, *refexec.Evaluator) {
	tc := testcat.New()
	require.NoError(t, tc.ExecuteMultipleDDL(`
		CREATE TABLE t (a INT, b STRING) ROWS 6;
		CREATE TABLE u (x INT, y INT) ROWS 5
	`))
	d := func(v interface{}) tree.Datum {
		switch v := v.(type) {
		case int:
			return tree.NewDInt(int64(v))
		case string:
			return tree.NewDString(v)
		}
		return tree.DNull
	}
	data := map[string][]refexec.Row{
		"t": {
			{d(1), d("x")}, {d(2), d("y")}, {d(2), d("x")},
			{d(3), d(nil)}, {d(nil), d("z")}, {d(5), d("y")},
		},
		"u": {
			{d(1), d(10)}, {d(2), d(20)}, {d(2), d(21)}, {d(5), d(nil)}, {d(nil), d(30)},
		},
	}
	return tc, refexec.New(tc, data)
}

// checkSemantics optimizes the plan with the default rules and verifies that
// the result has the same rows as the original.
func checkSemantics(
	ctx context.Context, tc *testcat.Catalog, ev *refexec.Evaluator, text string,
) (before, after *refexec.Result, optimized *opt.SExpr, err error) {
	var md opt.Metadata
	root, err := planparse.Parse(ctx, tc, &md, text)
	if err != nil {
		return nil, nil, nil, err
	}
	if before, err = ev.Eval(ctx, root); err != nil {
		return nil, nil, nil, err
	}
	var o xform.Optimizer
	o.Init(rule.DefaultSet())
	if optimized, err = o.Optimize(ctx, root); err != nil {
		return nil, nil, nil, err
	}
	if after, err = ev.Eval(ctx, optimized); err != nil {
		return nil, nil, nil, err
	}
	return before, after, optimized, nil
}

func TestOptimizePreservesResults(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	tc, ev := semanticsCatalog(t)

	for _, text := range []string{
		"(Filter predicates=[a > 1 AND b = 'y', x = a, TRUE] (Join type=cross (Scan table=t) (Scan table=u)))",
		"(Filter predicates=[y > 10, a > 1, y > 10] (Join type=left on=[a = x] (Scan table=t) (Scan table=u)))",
		"(Filter predicates=[b <> 'x'] (Join type=anti on=[a = x] (Scan table=t) (Scan table=u)))",
		"(Filter predicates=[TRUE] (Filter predicates=[a > 1] (Filter predicates=[a > 1] (Scan table=t))))",
		"(Filter predicates=[c > 1, b = 'y'] (EvalScalar items=[abs(a) AS c] (Scan table=t)))",
		"(EvalScalar items=[upper(b) AS l] (EvalScalar items=[abs(a) AS c] (Scan table=t)))",
		"(EvalScalar items=[abs(c) AS d] (EvalScalar items=[abs(a) AS c] (Scan table=t)))",
		"(EvalScalar items=[] (Scan table=t))",
		"(Limit limit=2 offset=1 (Sort keys=[y DESC, x] (Scan table=u)))",
		"(Limit limit=3 (EvalScalar items=[abs(x) AS c] (Sort keys=[x] (Scan table=u))))",
		"(Limit (Sort keys=[a] (Scan table=t)))",
		"(Filter predicates=[n > 1] having (Filter predicates=[n < 3] having " +
			"(Aggregate group=[b] aggs=[count(*) AS n] (Filter predicates=[a > 0 AND a > 0] (Scan table=t)))))",
		"(Filter predicates=[a > 1] (Scan table=t limit=2))",
		"(Filter predicates=[a > 1, b = 'x'] (Scan table=t pushdown=[b = 'x'] limit=3))",
		"(Filter predicates=[a > 1] (Join type=inner on=[a = x] (Scan table=t limit=2) (Scan table=u)))",
		"(Filter predicates=[a > 1, y > 10] (Join type=cross (Scan table=t limit=3) (Scan table=u limit=2)))",
		"(Filter predicates=[y > 10] (Sort keys=[x] limit=2 (Scan table=u)))",
		"(Limit limit=3 (Sort keys=[y DESC] limit=2 (Scan table=u)))",
		"(Limit limit=1 offset=1 (EvalScalar items=[abs(a) AS c] (Scan table=t limit=4)))",
	} {
		t.Run(text, func(t *testing.T) {
			before, after, optimized, err := checkSemantics(ctx, tc, ev, text)
			require.NoError(t, err)
			require.True(t, before.SameRows(after), "optimized plan:\n%s\nbefore:\n%s\nafter:\n%s",
				plans.FormatTree(optimized), before, after)
		})
	}
}

// Randomized filters over every join type, with and without scan limits.
func TestOptimizePreservesResultsRandomized(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	tc, ev := semanticsCatalog(t)

	leftPreds := []string{"a > 1", "b = 'x'", "NOT (a = 2)", "a = 2 OR b = 'z'", "TRUE", "a > 1 AND b <> 'y'"}
	rightPreds := []string{"x = a", "y > 15", "y = 10 OR a = 5", "x < y"}
	joinTypes := []string{"inner", "cross", "left", "semi", "anti"}

	// A zero limit means the scan is unbounded.
	scan := func(table string, limit int) string {
		if limit == 0 {
			return fmt.Sprintf("(Scan table=%s)", table)
		}
		return fmt.Sprintf("(Scan table=%s limit=%d)", table, limit)
	}

	pick := func(pool []string, idx []int) string {
		preds := make([]string, len(idx))
		for i, n := range idx {
			preds[i] = pool[n%len(pool)]
		}
		return strings.Join(preds, ", ")
	}

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)
	properties.Property("optimized plans return the same rows", prop.ForAll(
		func(joinType int, outer, inner []int, leftLimit, rightLimit int) bool {
			typ := joinTypes[joinType]
			pool := append(append([]string(nil), leftPreds...), rightPreds...)
			if typ == "semi" || typ == "anti" {
				// The right columns are not visible above these joins.
				pool = leftPreds
			}
			on := " on=[a = x]"
			if typ == "cross" {
				on = ""
			}
			text := fmt.Sprintf("(Filter predicates=[%s] (Join type=%s%s (Filter predicates=[%s] %s) %s))",
				pick(pool, outer), typ, on, pick(leftPreds, inner), scan("t", leftLimit), scan("u", rightLimit))
			before, after, optimized, err := checkSemantics(ctx, tc, ev, text)
			if err != nil {
				t.Logf("%s: %v", text, err)
				return false
			}
			if !before.SameRows(after) {
				t.Logf("%s\noptimized plan:\n%s", text, plans.FormatTree(optimized))
				return false
			}
			return true
		},
		gen.IntRange(0, len(joinTypes)-1),
		gen.SliceOf(gen.IntRange(0, 9)),
		gen.SliceOf(gen.IntRange(0, 9)),
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
	))
	properties.TestingRun(t)
}

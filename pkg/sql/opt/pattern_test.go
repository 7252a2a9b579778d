// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt_test

import (
	"math/rand"
	"testing"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	join := opt.NewBinary(&plans.Join{}, scan("t"), scan("u"))
	filterJoin := opt.NewUnary(&plans.Filter{}, join)
	filterScan := opt.NewUnary(&plans.Filter{}, scan("t"))

	testCases := []struct {
		pattern   *opt.SExpr
		candidate *opt.SExpr
		expected  bool
	}{
		{pattern: opt.PatternLeaf(), candidate: filterJoin, expected: true},
		{pattern: opt.PatternLeaf(), candidate: scan("t"), expected: true},
		{pattern: opt.PatternNode(opt.FilterOp, opt.PatternLeaf()), candidate: filterJoin, expected: true},
		{pattern: opt.PatternNode(opt.FilterOp, opt.PatternLeaf()), candidate: join, expected: false},
		{
			pattern:   opt.PatternNode(opt.FilterOp, opt.PatternNode(opt.JoinOp, opt.PatternLeaf(), opt.PatternLeaf())),
			candidate: filterJoin,
			expected:  true,
		},
		{
			pattern:   opt.PatternNode(opt.FilterOp, opt.PatternNode(opt.JoinOp, opt.PatternLeaf(), opt.PatternLeaf())),
			candidate: filterScan,
			expected:  false,
		},
		{pattern: opt.PatternNode(opt.FilterOp, opt.PatternNode(opt.ScanOp)), candidate: filterScan, expected: true},
		{pattern: opt.PatternNode(opt.ScanOp), candidate: scan("t"), expected: true},
		{pattern: opt.PatternNode(opt.ScanOp), candidate: filterScan, expected: false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, opt.Matches(tc.pattern, tc.candidate),
			"pattern %s candidate %s", tc.pattern.Shape(), tc.candidate.Shape())
	}
}

// randomTree builds a random plan tree with at most the given depth.
func randomTree(rng *rand.Rand, depth int) *opt.SExpr {
	if depth == 0 {
		return scan("t")
	}
	switch rng.Intn(4) {
	case 0:
		return scan("t")
	case 1:
		return opt.NewUnary(&plans.Filter{}, randomTree(rng, depth-1))
	case 2:
		return opt.NewUnary(&plans.Limit{Limit: plans.NoLimit}, randomTree(rng, depth-1))
	default:
		return opt.NewBinary(&plans.Join{}, randomTree(rng, depth-1), randomTree(rng, depth-1))
	}
}

// patternOf returns a pattern that mirrors the shape of e. Each node is
// replaced by a wildcard with probability wildcardPct/100.
func patternOf(rng *rand.Rand, e *opt.SExpr, wildcardPct int) *opt.SExpr {
	if rng.Intn(100) < wildcardPct {
		return opt.PatternLeaf()
	}
	children := make([]*opt.SExpr, e.ChildCount())
	for i, c := range e.Children() {
		children[i] = patternOf(rng, c, wildcardPct)
	}
	return opt.PatternNode(e.Op(), children...)
}

func TestMatchesProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("exact-shape pattern matches its own tree", prop.ForAll(
		func(seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			e := randomTree(rng, 5)
			return opt.Matches(patternOf(rng, e, 0), e)
		},
		gen.Int64(),
	))

	properties.Property("wildcards never prevent a match", prop.ForAll(
		func(seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			e := randomTree(rng, 5)
			return opt.Matches(patternOf(rng, e, 30), e)
		},
		gen.Int64(),
	))

	properties.Property("wildcard-free patterns match iff shapes are equal", prop.ForAll(
		func(seed1, seed2 int64) bool {
			rng1 := rand.New(rand.NewSource(seed1))
			rng2 := rand.New(rand.NewSource(seed2))
			e1, e2 := randomTree(rng1, 3), randomTree(rng2, 3)
			return opt.Matches(patternOf(rng1, e1, 0), e2) == (e1.Shape() == e2.Shape())
		},
		gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/stretchr/testify/require"
)

func scan(name string) *opt.SExpr {
	return opt.NewLeaf(&plans.Scan{TableName: name})
}

func TestArity(t *testing.T) {
	catch := func(fn func()) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = opt.CatchOptimizerError(r)
			}
		}()
		fn()
		return nil
	}

	err := catch(func() { opt.NewLeaf(&plans.Filter{}) })
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))
	require.Contains(t, err.Error(), "Filter expects 1 children, got 0")

	err = catch(func() { opt.NewUnary(&plans.Join{}, scan("t")) })
	require.Contains(t, err.Error(), "Join expects 2 children, got 1")

	err = catch(func() { opt.NewBinary(&plans.Scan{}, scan("t"), scan("u")) })
	require.Contains(t, err.Error(), "Scan expects 0 children, got 2")

	err = catch(func() { opt.NewUnary(&plans.Limit{}, nil) })
	require.Contains(t, err.Error(), "child 0 is nil")

	require.NoError(t, catch(func() { opt.NewBinary(&plans.Join{}, scan("t"), scan("u")) }))
}

func TestCatchOptimizerErrorRuntime(t *testing.T) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = opt.CatchOptimizerError(r)
			}
		}()
		var s []int
		_ = s[3]
	}()
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))

	require.Panics(t, func() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					_ = opt.CatchOptimizerError(r)
				}
			}()
			panic("not an error")
		}()
	})
}

func TestChild(t *testing.T) {
	left, right := scan("t"), scan("u")
	join := opt.NewBinary(&plans.Join{}, left, right)

	require.Equal(t, 2, join.ChildCount())
	c, err := join.Child(0)
	require.NoError(t, err)
	require.Same(t, left, c)
	c, err = join.Child(1)
	require.NoError(t, err)
	require.Same(t, right, c)

	for _, i := range []int{-1, 2} {
		_, err = join.Child(i)
		require.Error(t, err)
		require.True(t, errors.HasAssertionFailure(err))
	}
	_, err = left.Child(0)
	require.Error(t, err)
}

func TestWithChildrenSharing(t *testing.T) {
	left, right := scan("t"), scan("u")
	join := opt.NewBinary(&plans.Join{}, left, right)

	require.Same(t, join, join.WithChildren(left, right))

	other := scan("v")
	replaced := join.WithChildren(left, other)
	require.NotSame(t, join, replaced)
	require.Same(t, join.Plan(), replaced.Plan())
	require.Same(t, left, replaced.Children()[0])
	require.Same(t, other, replaced.Children()[1])

	// The original is unchanged.
	require.Same(t, right, join.Children()[1])
}

func TestChildrenNotAliased(t *testing.T) {
	children := []*opt.SExpr{scan("t"), scan("u")}
	join := opt.NewBinary(&plans.Join{}, children[0], children[1])
	children[0] = scan("v")
	require.Equal(t, "Scan table=t", join.Children()[0].Plan().String())
}

func TestEqualAndShape(t *testing.T) {
	build := func() *opt.SExpr {
		return opt.NewUnary(&plans.Filter{},
			opt.NewBinary(&plans.Join{Type: plans.InnerJoin}, scan("t"), scan("u")))
	}
	a, b := build(), build()
	require.True(t, a.Equal(b))
	require.True(t, a.Equal(a))
	require.False(t, a.Equal(nil))
	require.False(t, a.Equal(opt.NewUnary(&plans.Filter{IsHaving: true}, a.Children()[0])))

	require.Equal(t, "Filter(Join(Scan,Scan))", a.Shape())
	require.Equal(t, 4, a.NodeCount())

	pattern := opt.PatternNode(opt.FilterOp, opt.PatternLeaf())
	require.Equal(t, "Filter(*)", pattern.Shape())
	require.True(t, pattern.IsPattern())
	require.False(t, a.IsPattern())
}

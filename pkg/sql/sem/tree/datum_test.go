// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree_test

import (
	"fmt"
	"testing"

	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b     tree.Datum
		expected int
	}{
		{tree.DBoolFalse, tree.DBoolTrue, -1},
		{tree.DBoolTrue, tree.DBoolFalse, 1},
		{tree.DBoolTrue, tree.MakeDBool(true), 0},
		{tree.DBoolFalse, tree.DBoolFalse, 0},
		{tree.NewDInt(1), tree.NewDInt(2), -1},
		{tree.NewDInt(-3), tree.NewDInt(-3), 0},
		{tree.NewDString("b"), tree.NewDString("a"), 1},

		// NULL sorts lowest; other kinds are ordered by kind.
		{tree.DNull, tree.DNull, 0},
		{tree.DNull, tree.DBoolFalse, -1},
		{tree.DBoolFalse, tree.DNull, 1},
		{tree.DBoolTrue, tree.NewDInt(0), -1},
		{tree.NewDInt(5), tree.NewDString("a"), -1},
		{tree.NewDString("a"), tree.DBoolTrue, 1},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s vs %s", tc.a, tc.b), func(t *testing.T) {
			require.Equal(t, tc.expected, tc.a.Compare(tc.b))
			require.Equal(t, -tc.expected, tc.b.Compare(tc.a))
		})
	}
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testcat_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/testutils/testcat"
	"github.com/stretchr/testify/require"
)

func TestExecuteDDL(t *testing.T) {
	ctx := context.Background()
	tc := testcat.New()

	out, err := tc.ExecuteDDL("CREATE TABLE t (a INT, b STRING) ROWS 1000")
	require.NoError(t, err)
	require.Equal(t, "TABLE t rows=1000\n"+
		"├── a int\n"+
		"└── b string\n", out)

	require.NoError(t, tc.ExecuteMultipleDDL("create table u (x int,\n y bool); CREATE TABLE v (k int);"))

	tab, err := tc.ResolveTable(ctx, "u")
	require.NoError(t, err)
	require.Equal(t, cat.TableID(54), tab.ID())
	require.Equal(t, 2, tab.ColumnCount())
	require.Equal(t, cat.Column{Name: "y", Type: "bool"}, tab.Column(1))
	require.Equal(t, -1.0, tab.RowCount())
	require.Equal(t, 1, cat.FindColumn(tab, "y"))
	require.Equal(t, -1, cat.FindColumn(tab, "z"))

	out, err = tc.ExecuteDDL("SHOW TABLE v")
	require.NoError(t, err)
	require.Equal(t, "TABLE v\n└── k int\n", out)

	_, err = tc.ExecuteDDL("DROP TABLE v")
	require.NoError(t, err)
	_, err = tc.ResolveTable(ctx, "v")
	require.True(t, errors.Is(err, cat.ErrTableNotFound))

	require.Len(t, tc.Tables(), 2)
	require.Equal(t, "t", tc.Tables()[0].Name())
}

func TestExecuteDDLErrors(t *testing.T) {
	tc := testcat.New()
	require.NoError(t, tc.ExecuteMultipleDDL("CREATE TABLE t (a INT)"))

	for _, tc2 := range []struct {
		sql string
		err string
	}{
		{sql: "CREATE TABLE t (b INT)", err: `table "t" already exists`},
		{sql: "CREATE TABLE w (a INT, a STRING)", err: `column "a" specified more than once in table "w"`},
		{sql: "CREATE TABLE w (a FLOAT)", err: `table "w": column "a": unsupported type FLOAT`},
		{sql: "CREATE TABLE w (a)", err: `table "w": invalid column definition "a"`},
		{sql: "DROP TABLE w", err: `table "w" does not exist`},
		{sql: "SELECT 1", err: "unsupported statement: SELECT 1"},
	} {
		t.Run(tc2.sql, func(t *testing.T) {
			_, err := tc.ExecuteDDL(tc2.sql)
			require.EqualError(t, err, tc2.err)
		})
	}
}

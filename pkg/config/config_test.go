// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fusequery/fusequery/pkg/config"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/xform"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
optimizer:
  max_substitutions: 50
  candidate_selection: cheapest
  disabled_rules: [MergeFilter, CommuteJoin]
log:
  verbosity: 2
  redactable: true
catalog:
  tables:
    - name: t
      columns:
        - {name: a, type: INT}
        - {name: b, type: string}
      rows: 100
    - name: u
      columns:
        - {name: x, type: bool}
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(fullConfig))
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Optimizer.MaxSubstitutions)
	require.Equal(t, xform.SelectCheapest, cfg.Selection())
	require.Equal(t, []string{"MergeFilter", "CommuteJoin"}, cfg.Optimizer.DisabledRules)
	require.Equal(t, int32(2), cfg.Log.Verbosity)
	require.True(t, cfg.Log.Redactable)
	require.Len(t, cfg.Catalog.Tables, 2)
	require.Equal(t, float64(100), cfg.Catalog.Tables[0].RowCount())
	require.Equal(t, float64(-1), cfg.Catalog.Tables[1].RowCount())
	require.Equal(t, "INT", cfg.Catalog.Tables[0].Columns[0].Type)
}

func TestParseDefaults(t *testing.T) {
	for _, doc := range []string{"", "log:\n  verbosity: 1\n"} {
		cfg, err := config.Parse([]byte(doc))
		require.NoError(t, err)
		require.Equal(t, xform.DefaultMaxSubstitutions, cfg.Optimizer.MaxSubstitutions)
		require.Equal(t, xform.SelectFirst, cfg.Selection())
		require.Empty(t, cfg.Optimizer.DisabledRules)
	}
	require.NoError(t, config.Default().Validate())
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		doc string
		err string
	}{
		{
			doc: "optimizer:\n  max_substitutions: 0\n",
			err: "optimizer.max_substitutions: must be positive, got 0",
		},
		{
			doc: "optimizer:\n  candidate_selection: best\n",
			err: `optimizer.candidate_selection: unknown candidate selection policy "best"`,
		},
		{
			doc: "optimizer:\n  disabled_rules: [MergeFilter, FoldConstants]\n",
			err: `optimizer.disabled_rules[1]: unknown rule "FoldConstants"`,
		},
		{
			doc: "log:\n  verbosity: -1\n",
			err: "log.verbosity: must not be negative, got -1",
		},
		{
			doc: "catalog:\n  tables:\n    - name: t\n",
			err: `catalog.tables[0].columns: table "t" has no columns`,
		},
		{
			doc: "catalog:\n  tables:\n    - name: t\n      columns: [{name: a, type: int}, {name: b, type: float}]\n",
			err: `catalog.tables[0].columns[1].type: unsupported type "float", expected one of int, string, bool`,
		},
		{
			doc: "catalog:\n  tables:\n    - name: t\n      columns: [{name: a, type: int}]\n" +
				"    - name: t\n      columns: [{name: a, type: int}]\n",
			err: `catalog.tables[1].name: duplicate table "t"`,
		},
		{
			doc: "catalog:\n  tables:\n    - name: t\n      columns: [{name: a, type: int}]\n      rows: -5\n",
			err: "catalog.tables[0].rows: must not be negative, got -5",
		},
		{
			doc: "optimizer:\n  bogus: 1\n",
			err: "field bogus not found",
		},
	} {
		t.Run(tc.err, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestRules(t *testing.T) {
	cfg := config.Default()
	rules := cfg.Rules()
	require.True(t, rules.Contains(opt.MergeFilter))
	require.False(t, rules.Contains(opt.CommuteJoin))

	cfg.Optimizer.DisabledRules = []string{"MergeFilter"}
	require.False(t, cfg.Rules().Contains(opt.MergeFilter))
	require.True(t, cfg.Rules().Contains(opt.EliminateFilter))

	cfg.Optimizer.CandidateSelection = string(xform.SelectCheapest)
	require.True(t, cfg.Rules().Contains(opt.CommuteJoin))
	require.False(t, cfg.Rules().Contains(opt.MergeFilter))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	path := filepath.Join(dir, "fusequery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0644))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Optimizer.MaxSubstitutions)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading config")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("optimizer:\n  max_substitutions: -1\n"), 0644))
	_, err = config.Load(bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.yaml: optimizer.max_substitutions")
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tables:
  - name: orders
    columns: [{name: id, type: int}, {name: note, type: string}]
    rows: 1000
`), 0644))
	c, err := config.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Tables, 1)
	require.Equal(t, "orders", c.Tables[0].Name)
	require.Len(t, c.Tables[0].Columns, 2)

	require.NoError(t, os.WriteFile(path, []byte("tables:\n  - name: orders\n"), 0644))
	_, err = config.LoadCatalog(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `tables[0].columns: table "orders" has no columns`)
}

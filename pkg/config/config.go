// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package config loads the settings of the plan rewriter from YAML. Values
// missing from a file keep their defaults.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/rule"
	"github.com/fusequery/fusequery/pkg/sql/opt/xform"
	"gopkg.in/yaml.v3"
)

// Config is the root of the configuration file.
type Config struct {
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Log       LogConfig       `yaml:"log"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// OptimizerConfig configures the rewrite driver.
type OptimizerConfig struct {
	MaxSubstitutions   int      `yaml:"max_substitutions"`
	CandidateSelection string   `yaml:"candidate_selection"`
	DisabledRules      []string `yaml:"disabled_rules"`
}

// LogConfig configures pkg/util/log.
type LogConfig struct {
	Verbosity  int32 `yaml:"verbosity"`
	Redactable bool  `yaml:"redactable"`
}

// CatalogConfig lists the tables known to the plan builder and the coster.
type CatalogConfig struct {
	Tables []TableConfig `yaml:"tables"`
}

// TableConfig describes one table. A nil Rows means the row count is
// unknown.
type TableConfig struct {
	Name    string         `yaml:"name"`
	Columns []ColumnConfig `yaml:"columns"`
	Rows    *float64       `yaml:"rows"`
}

// ColumnConfig describes one column of a table.
type ColumnConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ColumnTypes are the accepted column types.
var ColumnTypes = []string{"int", "string", "bool"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Optimizer: OptimizerConfig{
			MaxSubstitutions:   xform.DefaultMaxSubstitutions,
			CandidateSelection: string(xform.SelectFirst),
		},
	}
}

// Load reads the configuration file at path on top of the defaults. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	defer f.Close()
	if err := decode(f, cfg); err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	return cfg, nil
}

// Parse decodes a configuration document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := decode(bytes.NewReader(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCatalog reads a file holding only a catalog section, in the same
// format as the "catalog" key of the configuration file.
func LoadCatalog(path string) (*CatalogConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading catalog")
	}
	defer f.Close()
	var cat CatalogConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "loading catalog %s", path)
	}
	if err := cat.validate("tables"); err != nil {
		return nil, errors.Wrapf(err, "loading catalog %s", path)
	}
	return &cat, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	// An empty document leaves the defaults in place.
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return cfg.Validate()
}

// Validate checks the configuration. Errors name the offending key.
func (c *Config) Validate() error {
	if c.Optimizer.MaxSubstitutions <= 0 {
		return keyErrorf("optimizer.max_substitutions", "must be positive, got %d", c.Optimizer.MaxSubstitutions)
	}
	if _, err := xform.ParseSelectionPolicy(c.Optimizer.CandidateSelection); err != nil {
		return errors.Wrap(err, "optimizer.candidate_selection")
	}
	for i, name := range c.Optimizer.DisabledRules {
		if _, ok := opt.RuleIDFromString(name); !ok {
			return keyErrorf(fmt.Sprintf("optimizer.disabled_rules[%d]", i), "unknown rule %q", name)
		}
	}
	if c.Log.Verbosity < 0 {
		return keyErrorf("log.verbosity", "must not be negative, got %d", c.Log.Verbosity)
	}
	return c.Catalog.validate("catalog.tables")
}

func (c *CatalogConfig) validate(key string) error {
	seen := make(map[string]bool, len(c.Tables))
	for i, tab := range c.Tables {
		tabKey := fmt.Sprintf("%s[%d]", key, i)
		if tab.Name == "" {
			return keyErrorf(tabKey+".name", "required")
		}
		if seen[tab.Name] {
			return keyErrorf(tabKey+".name", "duplicate table %q", tab.Name)
		}
		seen[tab.Name] = true
		if len(tab.Columns) == 0 {
			return keyErrorf(tabKey+".columns", "table %q has no columns", tab.Name)
		}
		if tab.Rows != nil && *tab.Rows < 0 {
			return keyErrorf(tabKey+".rows", "must not be negative, got %g", *tab.Rows)
		}
		for j, col := range tab.Columns {
			colKey := fmt.Sprintf("%s.columns[%d]", tabKey, j)
			if col.Name == "" {
				return keyErrorf(colKey+".name", "required")
			}
			if !isColumnType(col.Type) {
				return keyErrorf(colKey+".type", "unsupported type %q, expected one of %s",
					col.Type, strings.Join(ColumnTypes, ", "))
			}
		}
	}
	return nil
}

func isColumnType(typ string) bool {
	for _, t := range ColumnTypes {
		if strings.EqualFold(t, typ) {
			return true
		}
	}
	return false
}

func keyErrorf(key, format string, args ...interface{}) error {
	return errors.Wrap(errors.Newf(format, args...), key)
}

// Rules returns the enabled rules. Exploration rules are only enabled with
// cheapest candidate selection.
func (c *Config) Rules() *rule.Set {
	var ids []opt.RuleID
	for _, name := range c.Optimizer.DisabledRules {
		if id, ok := opt.RuleIDFromString(name); ok {
			ids = append(ids, id)
		}
	}
	set := rule.DefaultSet()
	if c.Selection() == xform.SelectCheapest {
		set = rule.AllRules()
	}
	return set.Without(ids...)
}

// Selection returns the candidate selection policy. Validate must have
// succeeded.
func (c *Config) Selection() xform.SelectionPolicy {
	return xform.SelectionPolicy(c.Optimizer.CandidateSelection)
}

// RowCount returns the row count statistic of the table, or -1 if unknown.
func (t *TableConfig) RowCount() float64 {
	if t.Rows == nil {
		return -1
	}
	return *t.Rows
}

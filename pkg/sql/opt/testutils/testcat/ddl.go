// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testcat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
)

var (
	createTableRE = regexp.MustCompile(
		`(?is)^CREATE\s+TABLE\s+(\w+)\s*\((.*)\)\s*(?:ROWS\s+(\d+))?$`)
	dropTableRE = regexp.MustCompile(`(?is)^DROP\s+TABLE\s+(\w+)$`)
	showTableRE = regexp.MustCompile(`(?is)^SHOW\s+TABLE\s+(\w+)$`)
	columnDefRE = regexp.MustCompile(`^(\w+)\s+(\w+)$`)
)

// columnTypes are the column types accepted by CREATE TABLE.
var columnTypes = map[string]bool{"int": true, "string": true, "bool": true}

// ExecuteMultipleDDL applies each of the given semicolon-separated DDL
// statements to the test catalog.
func (tc *Catalog) ExecuteMultipleDDL(sql string) error {
	for _, stmt := range strings.Split(sql, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tc.ExecuteDDL(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteDDL parses the given DDL statement and creates objects in the test
// catalog. The supported statements are:
//
//	CREATE TABLE t (a INT, b STRING) [ROWS 1000]
//	DROP TABLE t
//	SHOW TABLE t
//
// CREATE TABLE and SHOW TABLE return the table description.
func (tc *Catalog) ExecuteDDL(sql string) (string, error) {
	sql = strings.TrimSuffix(strings.TrimSpace(sql), ";")

	if m := createTableRE.FindStringSubmatch(sql); m != nil {
		cols, err := parseColumnDefs(m[2])
		if err != nil {
			return "", errors.Wrapf(err, "table %q", m[1])
		}
		rows := -1.0
		if m[3] != "" {
			n, err := strconv.ParseInt(m[3], 10, 64)
			if err != nil {
				return "", errors.Wrapf(err, "table %q: invalid row count", m[1])
			}
			rows = float64(n)
		}
		tab, err := tc.AddTable(m[1], cols, rows)
		if err != nil {
			return "", err
		}
		return tab.String(), nil
	}

	if m := dropTableRE.FindStringSubmatch(sql); m != nil {
		return "", tc.DropTable(m[1])
	}

	if m := showTableRE.FindStringSubmatch(sql); m != nil {
		tab := tc.Table(m[1])
		if tab == nil {
			return "", cat.NewTableNotFoundError(m[1])
		}
		return tab.String(), nil
	}

	return "", errors.Newf("unsupported statement: %s", sql)
}

func parseColumnDefs(defs string) ([]cat.Column, error) {
	var cols []cat.Column
	for _, def := range strings.Split(defs, ",") {
		def = strings.TrimSpace(def)
		m := columnDefRE.FindStringSubmatch(def)
		if m == nil {
			return nil, errors.Newf("invalid column definition %q", def)
		}
		typ := strings.ToLower(m[2])
		if !columnTypes[typ] {
			return nil, errors.Newf("column %q: unsupported type %s", m[1], m[2])
		}
		cols = append(cols, cat.Column{Name: m[1], Type: typ})
	}
	return cols, nil
}

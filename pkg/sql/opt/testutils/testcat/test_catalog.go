// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package testcat provides an in-memory implementation of cat.Catalog, for
// tests and for running the optimizer without a metadata store.
package testcat

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/xlab/treeprint"
)

// firstTableID is the ID of the first table added to a catalog.
const firstTableID = 53

// Catalog implements the cat.Catalog interface for testing purposes. It is
// not safe for concurrent modification; concurrent lookups are fine once all
// tables are added.
type Catalog struct {
	tables  map[string]*Table
	counter int
}

var _ cat.Catalog = &Catalog{}

// New creates a new empty instance of the test catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// ResolveTable is part of the cat.Catalog interface.
func (tc *Catalog) ResolveTable(_ context.Context, name string) (cat.Table, error) {
	if tab, ok := tc.tables[name]; ok {
		return tab, nil
	}
	return nil, cat.NewTableNotFoundError(name)
}

// Table returns the table with the given name, or nil.
func (tc *Catalog) Table(name string) *Table {
	return tc.tables[name]
}

// Tables returns all the tables, ordered by ID.
func (tc *Catalog) Tables() []*Table {
	res := make([]*Table, 0, len(tc.tables))
	for _, tab := range tc.tables {
		res = append(res, tab)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].TabID < res[j].TabID })
	return res
}

// AddTable creates a table and adds it to the catalog. Column names must be
// unique within the table. A negative row count means the table has no
// statistics.
func (tc *Catalog) AddTable(name string, cols []cat.Column, rows float64) (*Table, error) {
	if name == "" {
		return nil, errors.New("table name must not be empty")
	}
	if _, ok := tc.tables[name]; ok {
		return nil, errors.Newf("table %q already exists", name)
	}
	if len(cols) == 0 {
		return nil, errors.Newf("table %q must have at least one column", name)
	}
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, ok := seen[c.Name]; ok {
			return nil, errors.Newf("column %q specified more than once in table %q", c.Name, name)
		}
		seen[c.Name] = struct{}{}
	}

	tc.counter++
	tab := &Table{
		TabID:   cat.TableID(firstTableID + tc.counter - 1),
		TabName: name,
		Columns: append([]cat.Column(nil), cols...),
		Rows:    rows,
	}
	tc.tables[name] = tab
	return tab, nil
}

// DropTable removes a table from the catalog.
func (tc *Catalog) DropTable(name string) error {
	if _, ok := tc.tables[name]; !ok {
		return cat.NewTableNotFoundError(name)
	}
	delete(tc.tables, name)
	return nil
}

// Table implements the cat.Table interface for testing purposes.
type Table struct {
	TabID   cat.TableID
	TabName string
	Columns []cat.Column

	// Rows is the row count statistic. Negative if unknown.
	Rows float64
}

var _ cat.Table = &Table{}

// ID is part of the cat.Table interface.
func (tt *Table) ID() cat.TableID { return tt.TabID }

// Name is part of the cat.Table interface.
func (tt *Table) Name() string { return tt.TabName }

// ColumnCount is part of the cat.Table interface.
func (tt *Table) ColumnCount() int { return len(tt.Columns) }

// Column is part of the cat.Table interface.
func (tt *Table) Column(i int) cat.Column { return tt.Columns[i] }

// RowCount is part of the cat.Table interface.
func (tt *Table) RowCount() float64 { return tt.Rows }

func (tt *Table) String() string {
	var sb strings.Builder
	sb.WriteString("TABLE ")
	sb.WriteString(tt.TabName)
	if tt.Rows >= 0 {
		sb.WriteString(" rows=")
		sb.WriteString(strconv.FormatFloat(tt.Rows, 'f', -1, 64))
	}
	tp := treeprint.NewWithRoot(sb.String())
	for _, c := range tt.Columns {
		tp.AddNode(c.Name + " " + c.Type)
	}
	return tp.String()
}

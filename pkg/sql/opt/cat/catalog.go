// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cat contains the interfaces the optimizer uses to look up database
// objects. The metadata store implements them; the optimizer only ever sees
// a Catalog handle that is passed to it explicitly, so tests can plug in an
// in-memory catalog.
package cat

import (
	"context"

	"github.com/cockroachdb/errors"
)

// TableID uniquely identifies a table within the catalog.
type TableID uint32

// SafeValue implements the redact.SafeValue interface.
func (TableID) SafeValue() {}

// Column describes one column of a table.
type Column struct {
	Name string

	// Type is the name of the column's type, for display only.
	Type string
}

// Table is a database table.
type Table interface {
	// ID returns the stable identifier of the table.
	ID() TableID

	// Name returns the unqualified name of the table.
	Name() string

	// ColumnCount returns the number of columns in the table.
	ColumnCount() int

	// Column returns the i-th column, with 0 <= i < ColumnCount().
	Column(i int) Column

	// RowCount returns the estimated number of rows in the table, from the
	// table's statistics.
	RowCount() float64
}

// Catalog resolves object names to database objects.
type Catalog interface {
	// ResolveTable returns the table with the given name. If no such table
	// exists, the error satisfies errors.Is(err, ErrTableNotFound).
	ResolveTable(ctx context.Context, name string) (Table, error)
}

// ErrTableNotFound is returned by Catalog implementations when a table name
// cannot be resolved.
var ErrTableNotFound = errors.New("table not found")

// NewTableNotFoundError returns an error marked as ErrTableNotFound.
func NewTableNotFoundError(name string) error {
	return errors.Mark(errors.Newf("table %q does not exist", name), ErrTableNotFound)
}

// FindColumn returns the ordinal of the column with the given name, or -1.
func FindColumn(tab Table, name string) int {
	for i, n := 0, tab.ColumnCount(); i < n; i++ {
		if tab.Column(i).Name == name {
			return i
		}
	}
	return -1
}

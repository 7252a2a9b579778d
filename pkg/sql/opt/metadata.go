// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import "fmt"

// ColumnMeta stores information about one column allocated by Metadata.
type ColumnMeta struct {
	ID ColumnID

	// Alias is the name used when printing references to the column.
	Alias string

	// Table is the name of the table the column was read from, if any.
	Table string
}

// QualifiedAlias returns "table.alias" for table columns and the alias for
// computed columns.
func (cm *ColumnMeta) QualifiedAlias() string {
	if cm.Table == "" {
		return cm.Alias
	}
	return fmt.Sprintf("%s.%s", cm.Table, cm.Alias)
}

// Metadata assigns unique IDs to the columns referenced by one plan. It is
// owned by whoever builds the plan and is never shared between queries. The
// optimizer itself does not need it: rules only compare IDs.
type Metadata struct {
	cols []ColumnMeta
}

// AddColumn allocates a new column and returns its ID.
func (md *Metadata) AddColumn(alias, table string) ColumnID {
	id := ColumnID(len(md.cols) + 1)
	md.cols = append(md.cols, ColumnMeta{ID: id, Alias: alias, Table: table})
	return id
}

// ColumnMeta returns the metadata of the given column. It panics if the column
// was not allocated by this Metadata.
func (md *Metadata) ColumnMeta(id ColumnID) *ColumnMeta {
	return &md.cols[id-1]
}

// NumColumns returns the number of columns allocated so far.
func (md *Metadata) NumColumns() int {
	return len(md.cols)
}

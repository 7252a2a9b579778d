// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Datum represents a SQL value. The optimizer only needs to compare, hash and
// print datums; evaluation belongs to the scalar function layer.
type Datum interface {
	fmt.Stringer

	// Compare returns -1, 0 or +1. NULL sorts before every other value.
	// Datums of different kinds are ordered by kind.
	Compare(other Datum) int

	// ResolvedType returns the name of the datum's type.
	ResolvedType() string
}

// DInt is the INT datum.
type DInt int64

// DString is the STRING datum.
type DString string

// DBool is the BOOL datum.
type DBool bool

// dNull is the NULL datum.
type dNull struct{}

// DNull is the NULL datum singleton.
var DNull Datum = dNull{}

// DBoolTrue and DBoolFalse are the two boolean datums.
var (
	DBoolTrue  = DBool(true)
	DBoolFalse = DBool(false)
)

// NewDInt returns a new INT datum.
func NewDInt(d int64) DInt { return DInt(d) }

// NewDString returns a new STRING datum.
func NewDString(d string) DString { return DString(d) }

// MakeDBool converts a Go bool to a DBool.
func MakeDBool(d bool) DBool { return DBool(d) }

func (d DInt) String() string { return strconv.FormatInt(int64(d), 10) }

// String quotes the value like a SQL string literal.
func (d DString) String() string {
	return "'" + strings.ReplaceAll(string(d), "'", "''") + "'"
}

func (d DBool) String() string {
	if d {
		return "true"
	}
	return "false"
}

func (dNull) String() string { return "NULL" }

// ResolvedType implements the Datum interface.
func (DInt) ResolvedType() string { return "int" }

// ResolvedType implements the Datum interface.
func (DString) ResolvedType() string { return "string" }

// ResolvedType implements the Datum interface.
func (DBool) ResolvedType() string { return "bool" }

// ResolvedType implements the Datum interface.
func (dNull) ResolvedType() string { return "unknown" }

func kindOrder(d Datum) int {
	switch d.(type) {
	case dNull:
		return 0
	case DBool:
		return 1
	case DInt:
		return 2
	case DString:
		return 3
	}
	return 4
}

func compareKinds(a, b Datum) int {
	ka, kb := kindOrder(a), kindOrder(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}

// Compare implements the Datum interface.
func (d DInt) Compare(other Datum) int {
	o, ok := other.(DInt)
	if !ok {
		return compareKinds(d, other)
	}
	switch {
	case d < o:
		return -1
	case d > o:
		return 1
	}
	return 0
}

// Compare implements the Datum interface.
func (d DString) Compare(other Datum) int {
	o, ok := other.(DString)
	if !ok {
		return compareKinds(d, other)
	}
	return strings.Compare(string(d), string(o))
}

// Compare implements the Datum interface.
func (d DBool) Compare(other Datum) int {
	o, ok := other.(DBool)
	if !ok {
		return compareKinds(d, other)
	}
	switch {
	case d == o:
		return 0
	case !bool(d):
		return -1
	}
	return 1
}

// Compare implements the Datum interface.
func (d dNull) Compare(other Datum) int {
	if other == DNull {
		return 0
	}
	return -1
}

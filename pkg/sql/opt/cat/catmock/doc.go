// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package catmock

//go:generate mockgen -package catmock -destination catalog_generated.go github.com/fusequery/fusequery/pkg/sql/opt/cat Catalog,Table

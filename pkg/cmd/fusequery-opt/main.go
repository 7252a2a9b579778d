// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// fusequery-opt reads logical plans and prints their optimized form.
package main

import "github.com/fusequery/fusequery/pkg/cli"

func main() {
	cli.Main()
}

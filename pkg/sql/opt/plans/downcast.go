// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plans

import (
	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
)

// The As* functions return the payload of a node as the expected variant.
// Rules call them on nodes that matched their pattern, so a mismatch is a
// programming error and is reported as an assertion failure.

func downcastError(e *opt.SExpr, expected opt.RelOp) error {
	return errors.AssertionFailedf("expected %s plan, got %s", expected, e.Op())
}

// AsScan returns the Scan payload of e.
func AsScan(e *opt.SExpr) (*Scan, error) {
	if p, ok := e.Plan().(*Scan); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.ScanOp)
}

// AsFilter returns the Filter payload of e.
func AsFilter(e *opt.SExpr) (*Filter, error) {
	if p, ok := e.Plan().(*Filter); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.FilterOp)
}

// AsEvalScalar returns the EvalScalar payload of e.
func AsEvalScalar(e *opt.SExpr) (*EvalScalar, error) {
	if p, ok := e.Plan().(*EvalScalar); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.EvalScalarOp)
}

// AsProject returns the Project payload of e.
func AsProject(e *opt.SExpr) (*Project, error) {
	if p, ok := e.Plan().(*Project); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.ProjectOp)
}

// AsJoin returns the Join payload of e.
func AsJoin(e *opt.SExpr) (*Join, error) {
	if p, ok := e.Plan().(*Join); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.JoinOp)
}

// AsAggregate returns the Aggregate payload of e.
func AsAggregate(e *opt.SExpr) (*Aggregate, error) {
	if p, ok := e.Plan().(*Aggregate); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.AggregateOp)
}

// AsSort returns the Sort payload of e.
func AsSort(e *opt.SExpr) (*Sort, error) {
	if p, ok := e.Plan().(*Sort); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.SortOp)
}

// AsLimit returns the Limit payload of e.
func AsLimit(e *opt.SExpr) (*Limit, error) {
	if p, ok := e.Plan().(*Limit); ok {
		return p, nil
	}
	return nil, downcastError(e, opt.LimitOp)
}

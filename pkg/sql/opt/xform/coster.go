// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"
	"math"

	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/util/log"
)

// Cost is the best-effort approximation of the actual cost of executing a
// plan. Costs are only meaningful relative to each other.
type Cost float64

// costEpsilon is the relative difference under which two costs are considered
// equal.
const costEpsilon = 1e-9

// Less returns true if c is lower than other by more than rounding error.
func (c Cost) Less(other Cost) bool {
	if c == other {
		return false
	}
	diff := float64(other - c)
	return diff > costEpsilon*math.Max(1, math.Abs(float64(other)))
}

// Coster estimates the cost of a plan.
type Coster interface {
	ComputeCost(e *opt.SExpr) Cost
}

const (
	// defaultRowCount is used for tables without statistics, or that the
	// catalog cannot resolve.
	defaultRowCount = 1000

	// filterSelectivity is the fraction of rows assumed to pass a predicate.
	filterSelectivity = 1.0 / 3

	cpuCostFactor     = 0.01
	seqIOCostFactor   = 1.0
	hashBuildFactor   = 2.0
	projectCostFactor = 0.001
)

// RowCountCoster is a simple cost model based on the number of rows flowing
// through each operator. Table row counts come from the catalog statistics.
// A RowCountCoster caches row counts and is not safe for concurrent use.
type RowCountCoster struct {
	ctx       context.Context
	catalog   cat.Catalog
	rowCounts map[string]float64
}

var _ Coster = &RowCountCoster{}

// NewRowCountCoster returns a coster that resolves tables through catalog.
func NewRowCountCoster(ctx context.Context, catalog cat.Catalog) *RowCountCoster {
	return &RowCountCoster{ctx: ctx, catalog: catalog, rowCounts: make(map[string]float64)}
}

// ComputeCost is part of the Coster interface.
func (c *RowCountCoster) ComputeCost(e *opt.SExpr) Cost {
	var cost Cost
	for _, child := range e.Children() {
		cost += c.ComputeCost(child)
	}
	switch p := e.Plan().(type) {
	case *plans.Scan:
		rows := c.tableRowCount(p.TableName)
		if p.Limit > 0 {
			rows = math.Min(rows, float64(p.Limit))
		}
		cost += Cost(rows * seqIOCostFactor)

	case *plans.Filter:
		cost += Cost(c.RowCount(e.Children()[0]) * cpuCostFactor * float64(len(p.Predicates)))

	case *plans.EvalScalar:
		cost += Cost(c.RowCount(e.Children()[0]) * cpuCostFactor * float64(len(p.Items)))

	case *plans.Project:
		cost += Cost(c.RowCount(e.Children()[0]) * projectCostFactor)

	case *plans.Join:
		left, right := c.RowCount(e.Children()[0]), c.RowCount(e.Children()[1])
		// Hash join: the right input is the build side.
		cost += Cost(right*hashBuildFactor + left + c.RowCount(e)*cpuCostFactor)

	case *plans.Aggregate:
		cost += Cost(c.RowCount(e.Children()[0]) * cpuCostFactor * 2)

	case *plans.Sort:
		n := c.RowCount(e.Children()[0])
		k := n
		if p.Limit > 0 {
			k = math.Min(n, float64(p.Limit))
		}
		cost += Cost(n * math.Log2(k+1) * cpuCostFactor)
	}
	return cost
}

// RowCount estimates the number of rows produced by e.
func (c *RowCountCoster) RowCount(e *opt.SExpr) float64 {
	switch p := e.Plan().(type) {
	case *plans.Scan:
		rows := c.tableRowCount(p.TableName) * math.Pow(filterSelectivity, float64(len(p.PushDownPredicates)))
		if p.Limit > 0 {
			rows = math.Min(rows, float64(p.Limit))
		}
		return rows

	case *plans.Filter:
		return c.RowCount(e.Children()[0]) * math.Pow(filterSelectivity, float64(len(p.Predicates)))

	case *plans.Join:
		left, right := c.RowCount(e.Children()[0]), c.RowCount(e.Children()[1])
		switch p.Type {
		case plans.SemiJoin, plans.AntiJoin:
			return left * 0.5
		case plans.LeftJoin:
			return math.Max(left, left*right*math.Pow(filterSelectivity, float64(len(p.Conditions))))
		}
		return left * right * math.Pow(filterSelectivity, float64(len(p.Conditions)))

	case *plans.Aggregate:
		if len(p.GroupBy) == 0 {
			return 1
		}
		return math.Max(1, c.RowCount(e.Children()[0])*0.1)

	case *plans.Sort:
		rows := c.RowCount(e.Children()[0])
		if p.Limit > 0 {
			rows = math.Min(rows, float64(p.Limit))
		}
		return rows

	case *plans.Limit:
		rows := math.Max(0, c.RowCount(e.Children()[0])-float64(p.Offset))
		if p.Limit != plans.NoLimit {
			rows = math.Min(rows, float64(p.Limit))
		}
		return rows
	}
	if e.ChildCount() > 0 {
		return c.RowCount(e.Children()[0])
	}
	return defaultRowCount
}

func (c *RowCountCoster) tableRowCount(name string) float64 {
	if rows, ok := c.rowCounts[name]; ok {
		return rows
	}
	rows := float64(defaultRowCount)
	if c.catalog != nil {
		tab, err := c.catalog.ResolveTable(c.ctx, name)
		if err != nil {
			log.VEventf(c.ctx, 1, "no statistics for table %s: %v", name, err)
		} else if rc := tab.RowCount(); rc > 0 {
			rows = rc
		}
	}
	c.rowCounts[name] = rows
	return rows
}

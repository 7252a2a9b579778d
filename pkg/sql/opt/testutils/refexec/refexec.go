// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package refexec is a naive row-at-a-time evaluator for logical plans. It
// is only meant to check that rewrites preserve the results of a plan on
// small data sets, so it favors simplicity over speed: joins are nested
// loops and every intermediate result is materialized.
package refexec

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
)

// Row is a table row, with values in table column order.
type Row []tree.Datum

// Result is the output of a plan: rows with values in Columns order.
type Result struct {
	Columns plans.Columns
	Rows    [][]tree.Datum
}

// SameRows returns true if both results have the same columns, compared by
// ID, and the same multiset of rows. Row order is ignored.
func (r *Result) SameRows(other *Result) bool {
	if !r.Columns.ToSet().Equals(other.Columns.ToSet()) || len(r.Rows) != len(other.Rows) {
		return false
	}
	pos := make(map[opt.ColumnID]int, len(other.Columns))
	for i, c := range other.Columns {
		pos[c.ID] = i
	}
	perm := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		perm[i] = pos[c.ID]
	}

	counts := make(map[string]int, len(r.Rows))
	for _, row := range r.Rows {
		counts[rowKey(row, nil)]++
	}
	for _, row := range other.Rows {
		k := rowKey(row, perm)
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}

func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(r.Columns.String())
	sb.WriteByte('\n')
	for _, row := range r.Rows {
		sb.WriteString(rowKey(row, nil))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// rowKey renders the row's values, reading them in perm order if perm is
// not nil.
func rowKey(row []tree.Datum, perm []int) string {
	var sb strings.Builder
	for i := range row {
		if i > 0 {
			sb.WriteString(", ")
		}
		d := row[i]
		if perm != nil {
			d = row[perm[i]]
		}
		sb.WriteString(d.ResolvedType())
		sb.WriteByte(':')
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Evaluator runs plans against in-memory tables. Tables are resolved through
// the catalog to map column names to positions.
type Evaluator struct {
	catalog cat.Catalog
	data    map[string][]Row
}

// New returns an evaluator over the given table contents, keyed by table
// name.
func New(catalog cat.Catalog, data map[string][]Row) *Evaluator {
	return &Evaluator{catalog: catalog, data: data}
}

// binding maps the columns in scope to their values for one row.
type binding map[opt.ColumnID]tree.Datum

// Eval runs the plan and returns its rows.
func (ev *Evaluator) Eval(ctx context.Context, e *opt.SExpr) (*Result, error) {
	rows, err := ev.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: plans.OutputCols(e)}
	for _, b := range rows {
		row := make([]tree.Datum, len(res.Columns))
		for i, c := range res.Columns {
			row[i] = b.get(c.ID)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func (b binding) get(col opt.ColumnID) tree.Datum {
	if d, ok := b[col]; ok {
		return d
	}
	return tree.DNull
}

func (b binding) with(extra binding) binding {
	res := make(binding, len(b)+len(extra))
	for k, v := range b {
		res[k] = v
	}
	for k, v := range extra {
		res[k] = v
	}
	return res
}

func (ev *Evaluator) eval(ctx context.Context, e *opt.SExpr) ([]binding, error) {
	var inputs [][]binding
	for _, c := range e.Children() {
		rows, err := ev.eval(ctx, c)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, rows)
	}

	switch p := e.Plan().(type) {
	case *plans.Scan:
		return ev.evalScan(ctx, p)

	case *plans.Filter:
		return filterRows(inputs[0], p.Predicates)

	case *plans.EvalScalar:
		res := make([]binding, 0, len(inputs[0]))
		for _, row := range inputs[0] {
			extra := make(binding, len(p.Items))
			for _, item := range p.Items {
				d, err := evalScalar(item.Scalar, row)
				if err != nil {
					return nil, err
				}
				extra[item.Col] = d
			}
			res = append(res, row.with(extra))
		}
		return res, nil

	case *plans.Project:
		res := make([]binding, 0, len(inputs[0]))
		for _, row := range inputs[0] {
			out := make(binding, len(p.Columns))
			for _, c := range p.Columns {
				out[c.ID] = row.get(c.ID)
			}
			res = append(res, out)
		}
		return res, nil

	case *plans.Join:
		return evalJoin(p, inputs[0], inputs[1], plans.OutputCols(e.Children()[1]))

	case *plans.Aggregate:
		return evalAggregate(p, inputs[0])

	case *plans.Sort:
		res := append([]binding(nil), inputs[0]...)
		sort.SliceStable(res, func(i, j int) bool {
			for _, item := range p.Items {
				cmp := res[i].get(item.ID).Compare(res[j].get(item.ID))
				if item.Desc {
					cmp = -cmp
				}
				if cmp != 0 {
					return cmp < 0
				}
			}
			return false
		})
		if p.Limit > 0 && int64(len(res)) > p.Limit {
			res = res[:p.Limit]
		}
		return res, nil

	case *plans.Limit:
		res := inputs[0]
		if p.Offset >= int64(len(res)) {
			return nil, nil
		}
		res = res[p.Offset:]
		if p.Limit != plans.NoLimit && int64(len(res)) > p.Limit {
			res = res[:p.Limit]
		}
		return res, nil
	}
	return nil, errors.AssertionFailedf("unsupported operator %s", e.Op())
}

func (ev *Evaluator) evalScan(ctx context.Context, scan *plans.Scan) ([]binding, error) {
	tab, err := ev.catalog.ResolveTable(ctx, scan.TableName)
	if err != nil {
		return nil, err
	}
	ords := make([]int, len(scan.Columns))
	for i, c := range scan.Columns {
		if ords[i] = cat.FindColumn(tab, c.Name); ords[i] < 0 {
			return nil, errors.Newf("column %q does not exist in table %q", c.Name, scan.TableName)
		}
	}
	var res []binding
	for _, row := range ev.data[scan.TableName] {
		b := make(binding, len(scan.Columns))
		for i, c := range scan.Columns {
			b[c.ID] = row[ords[i]]
		}
		res = append(res, b)
	}
	// Pushed-down predicates are evaluated before the limit, like the
	// storage layer would.
	res, err = filterRows(res, scan.PushDownPredicates)
	if err != nil {
		return nil, err
	}
	if scan.Limit > 0 && int64(len(res)) > scan.Limit {
		res = res[:scan.Limit]
	}
	return res, nil
}

func filterRows(rows []binding, preds []scalar.Expr) ([]binding, error) {
	if len(preds) == 0 {
		return rows, nil
	}
	var res []binding
	for _, row := range rows {
		ok, err := evalPredicates(preds, row)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, row)
		}
	}
	return res, nil
}

// evalPredicates returns true if every predicate is true. NULL counts as
// false.
func evalPredicates(preds []scalar.Expr, row binding) (bool, error) {
	for _, p := range preds {
		d, err := evalScalar(p, row)
		if err != nil {
			return false, err
		}
		if d != tree.DBoolTrue {
			return false, nil
		}
	}
	return true, nil
}

func evalJoin(p *plans.Join, left, right []binding, rightCols plans.Columns) ([]binding, error) {
	var res []binding
	for _, l := range left {
		matched := false
		for _, r := range right {
			row := l.with(r)
			ok, err := evalPredicates(p.Conditions, row)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			matched = true
			if p.Type == plans.SemiJoin || p.Type == plans.AntiJoin {
				break
			}
			res = append(res, row)
		}
		switch {
		case p.Type == plans.SemiJoin && matched, p.Type == plans.AntiJoin && !matched:
			res = append(res, l)
		case p.Type == plans.LeftJoin && !matched:
			nulls := make(binding, len(rightCols))
			for _, c := range rightCols {
				nulls[c.ID] = tree.DNull
			}
			res = append(res, l.with(nulls))
		}
	}
	return res, nil
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package refexec

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
)

// evalScalar computes e over one row, using SQL three-valued logic.
func evalScalar(e scalar.Expr, row binding) (tree.Datum, error) {
	switch t := e.(type) {
	case *scalar.ColumnRef:
		return row.get(t.Col), nil

	case *scalar.Const:
		return t.Value, nil

	case *scalar.Comparison:
		left, err := evalScalar(t.Left, row)
		if err != nil {
			return nil, err
		}
		right, err := evalScalar(t.Right, row)
		if err != nil {
			return nil, err
		}
		if left == tree.DNull || right == tree.DNull {
			return tree.DNull, nil
		}
		if left.ResolvedType() != right.ResolvedType() {
			return nil, errors.Newf("unsupported comparison: %s %s %s",
				left.ResolvedType(), t.Op, right.ResolvedType())
		}
		return tree.MakeDBool(compare(t.Op, left.Compare(right))), nil

	case *scalar.And:
		left, err := evalBool(t.Left, row)
		if err != nil {
			return nil, err
		}
		if left == tree.DBoolFalse {
			return left, nil
		}
		right, err := evalBool(t.Right, row)
		if err != nil {
			return nil, err
		}
		if right == tree.DBoolFalse {
			return right, nil
		}
		if left == tree.DNull || right == tree.DNull {
			return tree.DNull, nil
		}
		return tree.DBoolTrue, nil

	case *scalar.Or:
		left, err := evalBool(t.Left, row)
		if err != nil {
			return nil, err
		}
		if left == tree.DBoolTrue {
			return left, nil
		}
		right, err := evalBool(t.Right, row)
		if err != nil {
			return nil, err
		}
		if right == tree.DBoolTrue {
			return right, nil
		}
		if left == tree.DNull || right == tree.DNull {
			return tree.DNull, nil
		}
		return tree.DBoolFalse, nil

	case *scalar.Not:
		d, err := evalBool(t.Input, row)
		if err != nil || d == tree.DNull {
			return d, err
		}
		return tree.MakeDBool(d == tree.DBoolFalse), nil

	case *scalar.FuncCall:
		args := make([]tree.Datum, len(t.Args))
		for i, arg := range t.Args {
			d, err := evalScalar(arg, row)
			if err != nil {
				return nil, err
			}
			args[i] = d
		}
		return evalFunc(t.Name, args)

	case *scalar.AggregateFunc:
		return nil, errors.AssertionFailedf("aggregate %s evaluated outside of an aggregation", t)
	}
	return nil, errors.AssertionFailedf("unhandled scalar %T", e)
}

func evalBool(e scalar.Expr, row binding) (tree.Datum, error) {
	d, err := evalScalar(e, row)
	if err != nil {
		return nil, err
	}
	if _, ok := d.(tree.DBool); !ok && d != tree.DNull {
		return nil, errors.Newf("expected a boolean, found %s", d)
	}
	return d, nil
}

func compare(op scalar.ComparisonOp, cmp int) bool {
	switch op {
	case scalar.EQ:
		return cmp == 0
	case scalar.NE:
		return cmp != 0
	case scalar.LT:
		return cmp < 0
	case scalar.LE:
		return cmp <= 0
	case scalar.GT:
		return cmp > 0
	case scalar.GE:
		return cmp >= 0
	}
	panic(errors.AssertionFailedf("unhandled comparison %d", op))
}

// evalFunc calls a builtin scalar function. Every function returns NULL on a
// NULL argument.
func evalFunc(name string, args []tree.Datum) (tree.Datum, error) {
	if len(args) != 1 {
		return nil, errors.Newf("%s: expected 1 argument, found %d", name, len(args))
	}
	arg := args[0]
	if arg == tree.DNull {
		return tree.DNull, nil
	}
	switch name {
	case "abs":
		if i, ok := arg.(tree.DInt); ok {
			if i < 0 {
				i = -i
			}
			return i, nil
		}
	case "lower", "upper", "length":
		if s, ok := arg.(tree.DString); ok {
			switch name {
			case "lower":
				return tree.NewDString(strings.ToLower(string(s))), nil
			case "upper":
				return tree.NewDString(strings.ToUpper(string(s))), nil
			}
			return tree.NewDInt(int64(len(s))), nil
		}
	default:
		return nil, errors.Newf("unknown function %s", name)
	}
	return nil, errors.Newf("%s: unsupported argument type %s", name, arg.ResolvedType())
}

// evalAggregate groups rows by the group-by items and computes each
// aggregate per group. Groups are returned in order of first appearance. An
// aggregation with no grouping columns over no rows returns a single row.
func evalAggregate(p *plans.Aggregate, rows []binding) ([]binding, error) {
	type group struct {
		key  binding
		rows []binding
	}
	var groups []*group
	byKey := make(map[string]*group)
	for _, row := range rows {
		key := make(binding, len(p.GroupBy))
		vals := make([]tree.Datum, len(p.GroupBy))
		for i, item := range p.GroupBy {
			d, err := evalScalar(item.Scalar, row)
			if err != nil {
				return nil, err
			}
			key[item.Col] = d
			vals[i] = d
		}
		k := rowKey(vals, nil)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: key}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
	}
	if len(groups) == 0 && len(p.GroupBy) == 0 {
		groups = append(groups, &group{key: binding{}})
	}

	res := make([]binding, 0, len(groups))
	for _, g := range groups {
		out := make(binding, len(p.GroupBy)+len(p.Aggregates))
		for k, v := range g.key {
			out[k] = v
		}
		for _, item := range p.Aggregates {
			agg, ok := item.Scalar.(*scalar.AggregateFunc)
			if !ok {
				return nil, errors.AssertionFailedf("%s is not an aggregate function", item.Scalar)
			}
			d, err := evalAggregateFunc(agg, g.rows)
			if err != nil {
				return nil, err
			}
			out[item.Col] = d
		}
		res = append(res, out)
	}
	return res, nil
}

func evalAggregateFunc(agg *scalar.AggregateFunc, rows []binding) (tree.Datum, error) {
	if len(agg.Args) == 0 {
		if agg.Name != "count" {
			return nil, errors.Newf("%s: expected 1 argument", agg.Name)
		}
		return tree.NewDInt(int64(len(rows))), nil
	}
	if len(agg.Args) != 1 {
		return nil, errors.Newf("%s: expected 1 argument, found %d", agg.Name, len(agg.Args))
	}

	// NULL inputs are ignored by every aggregate.
	var vals []tree.Datum
	seen := make(map[string]bool)
	for _, row := range rows {
		d, err := evalScalar(agg.Args[0], row)
		if err != nil {
			return nil, err
		}
		if d == tree.DNull {
			continue
		}
		if agg.Distinct {
			k := d.ResolvedType() + ":" + d.String()
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		vals = append(vals, d)
	}

	switch agg.Name {
	case "count":
		return tree.NewDInt(int64(len(vals))), nil

	case "min", "max":
		if len(vals) == 0 {
			return tree.DNull, nil
		}
		res := vals[0]
		for _, d := range vals[1:] {
			cmp := d.Compare(res)
			if (agg.Name == "min" && cmp < 0) || (agg.Name == "max" && cmp > 0) {
				res = d
			}
		}
		return res, nil

	case "sum", "avg":
		if len(vals) == 0 {
			return tree.DNull, nil
		}
		var sum int64
		for _, d := range vals {
			i, ok := d.(tree.DInt)
			if !ok {
				return nil, errors.Newf("%s: unsupported argument type %s", agg.Name, d.ResolvedType())
			}
			sum += int64(i)
		}
		if agg.Name == "avg" {
			// Integer division is good enough to compare plans.
			return tree.NewDInt(sum / int64(len(vals))), nil
		}
		return tree.NewDInt(sum), nil
	}
	return nil, errors.Newf("unknown aggregate function %s", agg.Name)
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package planparse

import (
	"strconv"
	"strings"

	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
	"github.com/fusequery/fusequery/pkg/sql/sem/tree"
)

// aggregateFuncs are the aggregate function names.
var aggregateFuncs = map[string]bool{
	"count": true, "sum": true, "min": true, "max": true, "avg": true,
}

// parseScalarItem parses an item expression. Aggregate function calls are
// only allowed at the top level of the item, and only when allowAgg is set.
func (p *parser) parseScalarItem(scope plans.Columns, allowAgg bool) (scalar.Expr, error) {
	if allowAgg {
		if t := p.peek(); t.kind == tokIdent && aggregateFuncs[strings.ToLower(t.text)] &&
			p.peekN(1).kind == tokLParen {
			return p.parseAggregate(scope)
		}
	}
	return p.parseScalar(scope)
}

// parseScalar parses a scalar expression. Precedence, lowest first: OR, AND,
// NOT, comparisons.
func (p *parser) parseScalar(scope plans.Columns) (scalar.Expr, error) {
	return p.parseOr(scope)
}

func (p *parser) parseOr(scope plans.Columns) (scalar.Expr, error) {
	left, err := p.parseAnd(scope)
	if err != nil {
		return nil, err
	}
	for p.peek().isKeyword("OR") {
		p.advance()
		right, err := p.parseAnd(scope)
		if err != nil {
			return nil, err
		}
		left = &scalar.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd(scope plans.Columns) (scalar.Expr, error) {
	left, err := p.parseNot(scope)
	if err != nil {
		return nil, err
	}
	for p.peek().isKeyword("AND") {
		p.advance()
		right, err := p.parseNot(scope)
		if err != nil {
			return nil, err
		}
		left = &scalar.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot(scope plans.Columns) (scalar.Expr, error) {
	if p.peek().isKeyword("NOT") {
		p.advance()
		input, err := p.parseNot(scope)
		if err != nil {
			return nil, err
		}
		return &scalar.Not{Input: input}, nil
	}
	return p.parseComparison(scope)
}

func (p *parser) parseComparison(scope plans.Columns) (scalar.Expr, error) {
	left, err := p.parsePrimary(scope)
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokOp {
		return left, nil
	}
	op, ok := scalar.ComparisonOpFromString(t.text)
	if !ok {
		return nil, p.syntaxErrorf(t, "unknown operator %s", t.text)
	}
	p.advance()
	right, err := p.parsePrimary(scope)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp {
		return nil, p.syntaxErrorf(t, "comparisons cannot be chained")
	}
	return scalar.NewComparison(op, left, right), nil
}

func (p *parser) parsePrimary(scope plans.Columns) (scalar.Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.advance()
		e, err := p.parseScalar(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil

	case tokInt, tokMinus:
		return p.parseInt()

	case tokString:
		p.advance()
		return scalar.NewConst(tree.NewDString(t.text)), nil

	case tokIdent:
		switch {
		case t.isKeyword("TRUE"):
			p.advance()
			return scalar.True, nil
		case t.isKeyword("FALSE"):
			p.advance()
			return scalar.False, nil
		case t.isKeyword("NULL"):
			p.advance()
			return scalar.NewConst(tree.DNull), nil
		}
		if p.peekN(1).kind == tokLParen {
			if aggregateFuncs[strings.ToLower(t.text)] {
				return nil, p.syntaxErrorf(t, "aggregate function %s is not allowed here", t.text)
			}
			return p.parseFuncCall(scope)
		}
		return p.parseColumn(scope)
	}
	return nil, p.syntaxErrorf(t, "expected expression, found %s", t)
}

func (p *parser) parseInt() (scalar.Expr, error) {
	neg := false
	if p.peek().kind == tokMinus {
		p.advance()
		neg = true
	}
	t, err := p.expect(tokInt)
	if err != nil {
		return nil, err
	}
	text := t.text
	if neg {
		text = "-" + text
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.syntaxErrorf(t, "invalid integer %s", text)
	}
	return scalar.NewConst(tree.NewDInt(n)), nil
}

func (p *parser) parseArgs(scope plans.Columns, allowStar bool) ([]scalar.Expr, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var args []scalar.Expr
	if p.peek().kind == tokRParen {
		p.advance()
		return args, nil
	}
	if allowStar && p.peek().kind == tokStar {
		p.advance()
		_, err := p.expect(tokRParen)
		return args, err
	}
	for {
		arg, err := p.parseScalar(scope)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		t := p.advance()
		if t.kind == tokRParen {
			return args, nil
		}
		if t.kind != tokComma {
			return nil, p.syntaxErrorf(t, "expected ',' or ')', found %s", t)
		}
	}
}

func (p *parser) parseFuncCall(scope plans.Columns) (scalar.Expr, error) {
	name := p.advance()
	args, err := p.parseArgs(scope, false /* allowStar */)
	if err != nil {
		return nil, err
	}
	return scalar.NewFuncCall(strings.ToLower(name.text), args...), nil
}

func (p *parser) parseAggregate(scope plans.Columns) (scalar.Expr, error) {
	name := p.advance()
	agg := &scalar.AggregateFunc{Name: strings.ToLower(name.text)}
	if p.peekN(1).isKeyword("DISTINCT") {
		p.advance()
		p.advance()
		agg.Distinct = true
		arg, err := p.parseScalar(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		agg.Args = []scalar.Expr{arg}
		return agg, nil
	}
	var err error
	if agg.Args, err = p.parseArgs(scope, agg.Name == "count"); err != nil {
		return nil, err
	}
	return agg, nil
}

// parseColumn parses a possibly qualified column name and resolves it
// against scope.
func (p *parser) parseColumn(scope plans.Columns) (*scalar.ColumnRef, error) {
	t, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	table, name := "", t.text
	if p.peek().kind == tokDot {
		p.advance()
		col, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		table, name = t.text, col.text
	}

	var found *scalar.ColumnRef
	for _, c := range scope {
		if c.Name != name {
			continue
		}
		if table != "" && p.md.ColumnMeta(c.ID).Table != table {
			continue
		}
		if found != nil && found.Col != c.ID {
			return nil, p.errorf(t, "column reference %q is ambiguous", qualify(table, name))
		}
		found = scalar.NewColumnRef(c.ID, c.Name)
	}
	if found == nil {
		return nil, p.errorf(t, "column %q does not exist", qualify(table, name))
	}
	return found, nil
}

func qualify(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

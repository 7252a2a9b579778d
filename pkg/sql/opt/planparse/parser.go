// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package planparse reads logical plans written in a parenthesized text
// format, one operator per node:
//
//	(Filter predicates=[a > 1, b = 'x']
//	  (Join type=inner on=[a = x]
//	    (Scan table=t)
//	    (Scan table=u)))
//
// Each node is an operator name followed by attributes and children. The
// attributes of each operator are the ones printed by the operator's String
// method, so FormatPlan output can be read back. Tables are resolved through a
// cat.Catalog, and columns are allocated in an opt.Metadata. Column names in
// scalar expressions resolve against the output columns of the node's
// children and may be qualified with a table name.
package planparse

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/scalar"
)

// ErrSyntax marks the errors caused by malformed plan text, as opposed to
// name resolution errors.
var ErrSyntax = errors.New("plan syntax error")

// Parse reads a plan. Columns are allocated in md, which may already hold
// columns of other plans.
func Parse(ctx context.Context, catalog cat.Catalog, md *opt.Metadata, text string) (*opt.SExpr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, errors.Mark(err, ErrSyntax)
	}
	p := &parser{ctx: ctx, catalog: catalog, md: md, toks: toks}
	e, err := p.parsePlan()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.syntaxErrorf(t, "unexpected %s after plan", t)
	}
	return e, nil
}

type parser struct {
	ctx     context.Context
	catalog cat.Catalog
	md      *opt.Metadata
	toks    []token
	next    int
}

func (p *parser) peek() token {
	return p.toks[p.next]
}

// peekN returns the token n positions ahead, or the end of input.
func (p *parser) peekN(n int) token {
	if i := p.next + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() token {
	t := p.toks[p.next]
	if t.kind != tokEOF {
		p.next++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.advance()
	if t.kind != kind {
		return t, p.syntaxErrorf(t, "expected %s, found %s", kind, t)
	}
	return t, nil
}

func (p *parser) syntaxErrorf(t token, format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("%s: "+format, append([]interface{}{t.pos}, args...)...), ErrSyntax)
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return errors.Newf("%s: "+format, append([]interface{}{t.pos}, args...)...)
}

// attr is a key=value pair, or a bare flag when hasValue is false.
type attr struct {
	key      token
	hasValue bool
	// start is the index of the first token of the value.
	start int
}

// node is a parsed plan node before its attributes are interpreted.
type node struct {
	op       token
	attrs    []attr
	children []*opt.SExpr
}

// parsePlan parses "(Op attrs... children...)".
func (p *parser) parsePlan() (*opt.SExpr, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	op, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	n := &node{op: op}

	// Attributes are scanned first, but their values are interpreted after
	// the children are parsed, because column names resolve against the
	// children's output columns.
	for p.peek().kind == tokIdent {
		a := attr{key: p.advance()}
		if t := p.peek(); t.kind == tokOp && t.text == "=" {
			p.advance()
			a.hasValue = true
			a.start = p.next
			if err := p.skipValue(); err != nil {
				return nil, err
			}
		}
		n.attrs = append(n.attrs, a)
	}
	for p.peek().kind == tokLParen {
		child, err := p.parsePlan()
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	end := p.next
	defer func() { p.next = end }()
	return p.buildNode(n)
}

// skipValue skips an attribute value: a bracketed list or a single token.
func (p *parser) skipValue() error {
	t := p.advance()
	switch t.kind {
	case tokIdent, tokInt, tokString:
		return nil
	case tokMinus:
		_, err := p.expect(tokInt)
		return err
	case tokLBracket:
		depth := 1
		for depth > 0 {
			switch t := p.advance(); t.kind {
			case tokLBracket:
				depth++
			case tokRBracket:
				depth--
			case tokEOF:
				return p.syntaxErrorf(t, "unterminated list")
			}
		}
		return nil
	}
	return p.syntaxErrorf(t, "expected attribute value, found %s", t)
}

func (p *parser) buildNode(n *node) (*opt.SExpr, error) {
	op := opt.RelOpFromString(n.op.text)
	if op == opt.UnknownOp || op.IsWildcard() {
		return nil, p.syntaxErrorf(n.op, "unknown operator %s", n.op)
	}
	if arity := op.Arity(); arity != len(n.children) {
		return nil, p.syntaxErrorf(n.op, "%s expects %d children, got %d", op, arity, len(n.children))
	}

	var scope plans.Columns
	for _, c := range n.children {
		scope = append(scope, plans.OutputCols(c)...)
	}
	b := &nodeBuilder{parser: p, node: n, scope: scope, seen: make(map[string]bool)}

	var plan opt.PlanNode
	var err error
	switch op {
	case opt.ScanOp:
		plan, err = b.buildScan()
	case opt.FilterOp:
		plan, err = b.buildFilter()
	case opt.EvalScalarOp:
		plan, err = b.buildEvalScalar()
	case opt.ProjectOp:
		plan, err = b.buildProject()
	case opt.JoinOp:
		plan, err = b.buildJoin()
	case opt.AggregateOp:
		plan, err = b.buildAggregate()
	case opt.SortOp:
		plan, err = b.buildSort()
	case opt.LimitOp:
		plan, err = b.buildLimit()
	}
	if err != nil {
		return nil, err
	}
	if err := b.checkUnused(); err != nil {
		return nil, err
	}

	switch len(n.children) {
	case 0:
		return opt.NewLeaf(plan), nil
	case 1:
		return opt.NewUnary(plan, n.children[0]), nil
	}
	return opt.NewBinary(plan, n.children[0], n.children[1]), nil
}

// nodeBuilder interprets the attributes of one node.
type nodeBuilder struct {
	*parser
	node  *node
	scope plans.Columns
	seen  map[string]bool
}

// attr returns the attribute with the given key, positioning the parser at
// its value.
func (b *nodeBuilder) attr(key string) (attr, bool) {
	for _, a := range b.node.attrs {
		if a.key.text == key {
			b.seen[key] = true
			b.next = a.start
			return a, true
		}
	}
	return attr{}, false
}

func (b *nodeBuilder) flag(key string) (bool, error) {
	a, ok := b.attr(key)
	if ok && a.hasValue {
		return false, b.syntaxErrorf(a.key, "%s does not take a value", key)
	}
	return ok, nil
}

func (b *nodeBuilder) checkUnused() error {
	seen := make(map[string]bool)
	for _, a := range b.node.attrs {
		if !b.seen[a.key.text] {
			return b.syntaxErrorf(a.key, "unknown %s attribute %s", b.node.op.text, a.key.text)
		}
		if seen[a.key.text] {
			return b.syntaxErrorf(a.key, "duplicate attribute %s", a.key.text)
		}
		seen[a.key.text] = true
	}
	return nil
}

func (b *nodeBuilder) valueAttr(key string) (attr, bool, error) {
	a, ok := b.attr(key)
	if ok && !a.hasValue {
		return a, false, b.syntaxErrorf(a.key, "%s requires a value", key)
	}
	return a, ok, nil
}

func (b *nodeBuilder) intAttr(key string) (int64, bool, error) {
	a, ok, err := b.valueAttr(key)
	if !ok || err != nil {
		return 0, false, err
	}
	neg := false
	if b.peek().kind == tokMinus {
		b.advance()
		neg = true
	}
	t, err := b.expect(tokInt)
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return 0, false, b.syntaxErrorf(t, "invalid %s: %v", a.key.text, err)
	}
	if neg {
		n = -n
	}
	return n, true, nil
}

func (b *nodeBuilder) identAttr(key string) (token, bool, error) {
	_, ok, err := b.valueAttr(key)
	if !ok || err != nil {
		return token{}, false, err
	}
	t, err := b.expect(tokIdent)
	return t, err == nil, err
}

// listAttr parses a bracketed, comma-separated list, calling fn for each
// element.
func (b *nodeBuilder) listAttr(key string, fn func() error) (bool, error) {
	_, ok, err := b.valueAttr(key)
	if !ok || err != nil {
		return false, err
	}
	if _, err := b.expect(tokLBracket); err != nil {
		return false, err
	}
	if b.peek().kind == tokRBracket {
		b.advance()
		return true, nil
	}
	for {
		if err := fn(); err != nil {
			return false, err
		}
		t := b.advance()
		if t.kind == tokRBracket {
			return true, nil
		}
		if t.kind != tokComma {
			return false, b.syntaxErrorf(t, "expected ',' or ']', found %s", t)
		}
	}
}

func (b *nodeBuilder) scalarList(key string) ([]scalar.Expr, error) {
	var list []scalar.Expr
	_, err := b.listAttr(key, func() error {
		e, err := b.parseScalar(b.scope)
		if err != nil {
			return err
		}
		list = append(list, e)
		return nil
	})
	return list, err
}

// scalarItems parses "[expr AS alias, col, ...]". An item without an alias
// must be a column reference, which is passed through.
func (b *nodeBuilder) scalarItems(key string, allowAgg bool) (plans.ScalarItems, error) {
	var items plans.ScalarItems
	_, err := b.listAttr(key, func() error {
		start := b.peek()
		e, err := b.parseScalarItem(b.scope, allowAgg)
		if err != nil {
			return err
		}
		if t := b.peek(); t.isKeyword("AS") {
			b.advance()
			alias, err := b.expect(tokIdent)
			if err != nil {
				return err
			}
			col := b.md.AddColumn(alias.text, "")
			items = append(items, plans.ScalarItem{Scalar: e, Col: col, Alias: alias.text})
			return nil
		}
		ref, ok := e.(*scalar.ColumnRef)
		if !ok {
			return b.syntaxErrorf(start, "expression %s requires an alias", e)
		}
		items = append(items, plans.ScalarItem{Scalar: ref, Col: ref.Col, Alias: ref.Name})
		return nil
	})
	return items, err
}

func (b *nodeBuilder) buildScan() (opt.PlanNode, error) {
	name, ok, err := b.identAttr("table")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, b.syntaxErrorf(b.node.op, "Scan requires a table")
	}
	tab, err := b.catalog.ResolveTable(b.ctx, name.text)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name.pos)
	}

	scan := &plans.Scan{Table: tab.ID(), TableName: tab.Name()}
	var ordinals []int
	hasCols, err := b.listAttr("columns", func() error {
		t, err := b.expect(tokIdent)
		if err != nil {
			return err
		}
		ord := cat.FindColumn(tab, t.text)
		if ord < 0 {
			return b.errorf(t, "column %q does not exist in table %q", t.text, tab.Name())
		}
		ordinals = append(ordinals, ord)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !hasCols {
		for i := 0; i < tab.ColumnCount(); i++ {
			ordinals = append(ordinals, i)
		}
	}
	for _, ord := range ordinals {
		col := tab.Column(ord)
		id := b.md.AddColumn(col.Name, tab.Name())
		scan.Columns = append(scan.Columns, plans.Column{ID: id, Name: col.Name})
	}

	// Pushed-down predicates reference the scan's own columns.
	b.scope = scan.Columns
	if scan.PushDownPredicates, err = b.scalarList("pushdown"); err != nil {
		return nil, err
	}
	if scan.Limit, _, err = b.intAttr("limit"); err != nil {
		return nil, err
	}
	if scan.Limit < 0 {
		return nil, b.syntaxErrorf(b.node.op, "Scan limit must not be negative")
	}
	return scan, nil
}

func (b *nodeBuilder) buildFilter() (opt.PlanNode, error) {
	filter := &plans.Filter{}
	var err error
	if filter.Predicates, err = b.scalarList("predicates"); err != nil {
		return nil, err
	}
	if filter.IsHaving, err = b.flag("having"); err != nil {
		return nil, err
	}
	return filter, nil
}

func (b *nodeBuilder) buildEvalScalar() (opt.PlanNode, error) {
	items, err := b.scalarItems("items", false /* allowAgg */)
	if err != nil {
		return nil, err
	}
	return &plans.EvalScalar{Items: items}, nil
}

func (b *nodeBuilder) buildProject() (opt.PlanNode, error) {
	project := &plans.Project{}
	_, err := b.listAttr("columns", func() error {
		col, err := b.parseColumn(b.scope)
		if err != nil {
			return err
		}
		project.Columns = append(project.Columns, plans.Column{ID: col.Col, Name: col.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (b *nodeBuilder) buildJoin() (opt.PlanNode, error) {
	join := &plans.Join{Type: plans.InnerJoin}
	typ, ok, err := b.identAttr("type")
	if err != nil {
		return nil, err
	}
	if ok {
		if join.Type, ok = plans.JoinTypeFromString(strings.ToLower(typ.text)); !ok {
			return nil, b.syntaxErrorf(typ, "unknown join type %s", typ.text)
		}
	}
	if join.Conditions, err = b.scalarList("on"); err != nil {
		return nil, err
	}
	if join.Type == plans.CrossJoin && len(join.Conditions) > 0 {
		return nil, b.syntaxErrorf(b.node.op, "cross join cannot have conditions")
	}
	return join, nil
}

func (b *nodeBuilder) buildAggregate() (opt.PlanNode, error) {
	agg := &plans.Aggregate{}
	var err error
	if agg.GroupBy, err = b.scalarItems("group", false /* allowAgg */); err != nil {
		return nil, err
	}
	if agg.Aggregates, err = b.scalarItems("aggs", true /* allowAgg */); err != nil {
		return nil, err
	}
	for _, item := range agg.Aggregates {
		if _, ok := item.Scalar.(*scalar.AggregateFunc); !ok {
			return nil, b.syntaxErrorf(b.node.op, "%s is not an aggregate function", item.Scalar)
		}
	}
	return agg, nil
}

func (b *nodeBuilder) buildSort() (opt.PlanNode, error) {
	sort := &plans.Sort{}
	_, err := b.listAttr("keys", func() error {
		col, err := b.parseColumn(b.scope)
		if err != nil {
			return err
		}
		item := plans.SortItem{Column: plans.Column{ID: col.Col, Name: col.Name}}
		if t := b.peek(); t.isKeyword("DESC") {
			b.advance()
			item.Desc = true
		} else if t.isKeyword("ASC") {
			b.advance()
		}
		sort.Items = append(sort.Items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sort.Limit, _, err = b.intAttr("limit"); err != nil {
		return nil, err
	}
	if sort.Limit < 0 {
		return nil, b.syntaxErrorf(b.node.op, "Sort limit must not be negative")
	}
	return sort, nil
}

func (b *nodeBuilder) buildLimit() (opt.PlanNode, error) {
	limit := &plans.Limit{Limit: plans.NoLimit}
	n, ok, err := b.intAttr("limit")
	if err != nil {
		return nil, err
	}
	if ok {
		if n < 0 {
			return nil, b.syntaxErrorf(b.node.op, "limit must not be negative")
		}
		limit.Limit = n
	}
	if limit.Offset, _, err = b.intAttr("offset"); err != nil {
		return nil, err
	}
	if limit.Offset < 0 {
		return nil, b.syntaxErrorf(b.node.op, "offset must not be negative")
	}
	return limit, nil
}

package rel2sql

import (
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/dialect"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/plan"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// Converter translates one algebra tree into a SQL syntax tree for a target
// dialect. It accumulates per-query state, the aliases already used and the
// contexts of correlation variables, so one instance serves exactly one root
// translation and must not be shared between goroutines.
type Converter struct {
	dialect     *dialect.Dialect
	aliasSet    map[string]struct{}
	correlTable map[sql.CorrelationID]Context
	// fieldMap remaps a column name to a pre-built SQL expression, for
	// columns renamed by an enclosing correlation.
	fieldMap map[string]sqlast.Node
	anon     bool
	tracer   opentracing.Tracer
	log      *logrus.Entry
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for translation traces.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Converter) { c.log = log }
}

// WithTracer records a span per Translate call on the given tracer.
func WithTracer(tracer opentracing.Tracer) Option {
	return func(c *Converter) { c.tracer = tracer }
}

// Anonymous strips synthetic "expr$N" column aliases from the finished
// statement. Callers that do not care about output field names, such as the
// source query of an INSERT, read better without them.
func Anonymous() Option {
	return func(c *Converter) { c.anon = true }
}

// NewConverter creates a converter for one translation against d.
func NewConverter(d *dialect.Dialect, opts ...Option) *Converter {
	c := &Converter{
		dialect:     d,
		aliasSet:    make(map[string]struct{}),
		correlTable: make(map[sql.CorrelationID]Context),
		fieldMap:    make(map[string]sqlast.Node),
		log:         logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MapField remaps a column name to a pre-built SQL expression in every
// alias context of this translation.
func (c *Converter) MapField(name string, node sqlast.Node) {
	c.fieldMap[strings.ToLower(name)] = node
}

// Translate converts the tree rooted at node into a Result. Use the
// Result's AsStatement or AsQueryOrValues view to obtain the final SQL
// node.
func (c *Converter) Translate(node sql.Node) (*Result, error) {
	if c.tracer != nil {
		span := c.tracer.StartSpan("rel2sql.Translate")
		span.SetTag("dialect", c.dialect.Name)
		defer span.Finish()
	}
	return c.visit(node)
}

// TranslateStatement is a convenience over Translate returning the
// standalone statement node.
func (c *Converter) TranslateStatement(node sql.Node) (sqlast.Node, error) {
	r, err := c.Translate(node)
	if err != nil {
		return nil, err
	}
	return r.AsStatement(), nil
}

func (c *Converter) visit(node sql.Node) (*Result, error) {
	switch n := node.(type) {
	case *plan.Scan:
		return c.visitScan(n)
	case *plan.Filter:
		return c.visitFilter(n)
	case *plan.Project:
		return c.visitProject(n)
	case *plan.Aggregate:
		return c.visitAggregate(n)
	case *plan.Join:
		return c.visitJoin(n)
	case *plan.SetOp:
		return c.visitSetOp(n)
	case *plan.Sort:
		return c.visitSort(n)
	case *plan.Window:
		return c.visitWindow(n)
	case *plan.TableFunctionScan:
		return c.visitTableFunctionScan(n)
	case *plan.Values:
		return c.visitValues(n)
	default:
		return nil, sql.ErrUnsupportedNode.New(node)
	}
}

func (c *Converter) visitScan(s *plan.Scan) (*Result, error) {
	return c.result(sqlast.NewIdentifier(s.TableName()),
		newClauseSet(ClauseFrom), s, nil), nil
}

func (c *Converter) visitFilter(f *plan.Filter) (*Result, error) {
	if agg, ok := f.Child.(*plan.Aggregate); ok {
		x, err := c.visit(agg)
		if err != nil {
			return nil, err
		}
		b := x.Builder(f, ClauseHaving)
		cond, err := c.toSQL(b.context, f.Condition)
		if err != nil {
			return nil, err
		}
		if err := b.SetHaving(cond); err != nil {
			return nil, err
		}
		return b.Result(), nil
	}

	x, err := c.visit(f.Child)
	if err != nil {
		return nil, err
	}
	c.parseCorrelTable(f, x)

	if p, ok := f.Child.(*plan.Project); ok && p.ContainsOver() &&
		c.dialect.SupportsQualifyClause &&
		!expression.IsAnalytical(f.Condition) &&
		x.maxClause() == ClauseSelect {
		b := x.Builder(f, ClauseQualify)
		cond, err := c.toSQL(b.context, f.Condition)
		if err != nil {
			return nil, err
		}
		if err := b.SetQualify(cond); err != nil {
			return nil, err
		}
		return b.Result(), nil
	}

	b := x.Builder(f, ClauseWhere)
	cond, err := c.toSQL(b.context, f.Condition)
	if err != nil {
		return nil, err
	}
	if err := b.SetWhere(cond); err != nil {
		return nil, err
	}
	return b.Result(), nil
}

func (c *Converter) visitProject(p *plan.Project) (*Result, error) {
	x, err := c.visit(p.Child)
	if err != nil {
		return nil, err
	}
	c.parseCorrelTable(p, x)
	b := x.Builder(p, ClauseSelect)
	if !p.IsStar() {
		var selectList sqlast.NodeList
		for _, e := range p.Projections {
			node, err := c.toSQL(b.context, e)
			if err != nil {
				return nil, err
			}
			c.addSelect(&selectList, node, p.Schema())
		}
		b.SetSelect(selectList)
	}
	return b.Result(), nil
}

func (c *Converter) visitAggregate(a *plan.Aggregate) (*Result, error) {
	x, err := c.visit(a.Child)
	if err != nil {
		return nil, err
	}
	b := x.Builder(a, ClauseGroupBy)
	schema := a.Schema()
	var groupBy, selectList sqlast.NodeList
	for _, key := range a.GroupKeys {
		field, err := b.context.Field(key)
		if err != nil {
			return nil, err
		}
		groupBy = append(groupBy, field)
		c.addSelect(&selectList, field, schema)
	}
	for _, call := range a.Aggs {
		node, err := c.aggCallToSQL(b.context, call)
		if err != nil {
			return nil, err
		}
		c.addSelect(&selectList, node, schema)
	}
	b.SetSelect(selectList)
	if isDistinctAggregate(a) {
		// Grouping by every input column with no calls computes the
		// distinct rows of the input.
		b.SetDistinct()
	} else if len(groupBy) > 0 || len(a.Aggs) == 0 {
		if err := b.SetGroupBy(groupBy); err != nil {
			return nil, err
		}
	}
	return b.Result(), nil
}

func isDistinctAggregate(a *plan.Aggregate) bool {
	return len(a.Aggs) == 0 && len(a.GroupKeys) > 0 &&
		len(a.GroupKeys) == len(a.Child.Schema())
}

func (c *Converter) visitJoin(j *plan.Join) (*Result, error) {
	left, err := c.visit(j.Left)
	if err != nil {
		return nil, err
	}
	left = left.ResetAlias()
	right, err := c.visit(j.Right)
	if err != nil {
		return nil, err
	}
	right = right.ResetAlias()
	c.parseCorrelTable(j, left)

	cond, err := c.joinConditionToSQL(j, left, right)
	if err != nil {
		return nil, err
	}
	joinType := joinTypeToSQL(j.JoinType, j.Condition)
	node := &sqlast.Join{
		Left:  left.AsFrom(),
		Type:  joinType,
		Right: right.AsFrom(),
		On:    cond,
	}

	aliases := make([]aliasEntry, 0, len(left.aliases)+len(right.aliases))
	aliases = append(aliases, left.aliases...)
	aliases = append(aliases, right.aliases...)
	schema := make(sql.Schema, 0, len(left.schema)+len(right.schema))
	schema = append(schema, left.schema...)
	schema = append(schema, right.schema...)
	return &Result{
		conv:    c,
		node:    node,
		clauses: newClauseSet(ClauseFrom),
		schema:  schema,
		aliases: aliases,
	}, nil
}

func joinTypeToSQL(t plan.JoinType, condition sql.Expression) sqlast.JoinType {
	switch t {
	case plan.LeftJoin:
		return sqlast.LeftJoin
	case plan.RightJoin:
		return sqlast.RightJoin
	case plan.FullJoin:
		return sqlast.FullJoin
	case plan.CrossJoin:
		return sqlast.CrossJoin
	default:
		if condition == nil {
			return sqlast.CommaJoin
		}
		return sqlast.InnerJoin
	}
}

// joinConditionToSQL renders the ON predicate. A two-operand comparison
// whose sides are plain column refs on opposite join sides renders through
// the side contexts directly, flipping the comparison when the operands
// arrive right-side-first.
func (c *Converter) joinConditionToSQL(j *plan.Join, left, right *Result) (sqlast.Node, error) {
	if j.Condition == nil {
		return nil, nil
	}
	leftCount := len(j.Left.Schema())
	leftCtx := left.QualifiedContext()
	rightCtx := right.QualifiedContext()

	if call, ok := j.Condition.(*expression.Call); ok &&
		call.Op().IsComparison() && len(call.Children()) == 2 {
		a, aOK := call.Children()[0].(*expression.GetField)
		b, bOK := call.Children()[1].(*expression.GetField)
		if aOK && bOK && a.Index() >= leftCount && b.Index() < leftCount {
			lhs, err := leftCtx.Field(b.Index())
			if err != nil {
				return nil, err
			}
			rhs, err := rightCtx.Field(a.Index() - leftCount)
			if err != nil {
				return nil, err
			}
			return sqlast.NewCall(reverseComparison(call.Op()), lhs, rhs), nil
		}
	}
	return c.toSQL(NewJoinContext(leftCtx, rightCtx), j.Condition)
}

func reverseComparison(op *sqlast.Operator) *sqlast.Operator {
	switch op.Kind {
	case sqlast.KindLessThan:
		return sqlast.OpGreaterThan
	case sqlast.KindLessThanOrEqual:
		return sqlast.OpGreaterThanOrEqual
	case sqlast.KindGreaterThan:
		return sqlast.OpLessThan
	case sqlast.KindGreaterThanOrEqual:
		return sqlast.OpLessThanOrEqual
	default:
		return op
	}
}

func (c *Converter) visitSetOp(s *plan.SetOp) (*Result, error) {
	op, err := setOpOperator(s)
	if err != nil {
		return nil, err
	}
	operands := make([]sqlast.Node, 0, len(s.Children()))
	for _, input := range s.Children() {
		x, err := c.visit(input)
		if err != nil {
			return nil, err
		}
		operands = append(operands, x.AsQueryOrValues())
	}
	node := sqlast.NewCall(op, operands...)
	return c.result(node, newClauseSet(ClauseSetOp), s, nil), nil
}

func setOpOperator(s *plan.SetOp) (*sqlast.Operator, error) {
	switch s.Kind {
	case plan.Union:
		if s.All {
			return sqlast.OpUnionAll, nil
		}
		return sqlast.OpUnion, nil
	case plan.Intersect:
		if s.All {
			return sqlast.OpIntersectAll, nil
		}
		return sqlast.OpIntersect, nil
	case plan.Except:
		if s.All {
			return sqlast.OpExceptAll, nil
		}
		return sqlast.OpExcept, nil
	default:
		return nil, sql.ErrUnsupportedNode.New(s)
	}
}

func (c *Converter) visitSort(s *plan.Sort) (*Result, error) {
	x, err := c.visit(s.Child)
	if err != nil {
		return nil, err
	}
	clauses := []Clause{ClauseOrderBy}
	if s.Offset != nil {
		clauses = append(clauses, ClauseOffset)
	}
	if s.Fetch != nil {
		clauses = append(clauses, ClauseFetch)
	}
	b := x.Builder(s, clauses...)

	var orderBy sqlast.NodeList
	for _, field := range s.SortFields {
		if err := b.AddOrderItem(&orderBy, field); err != nil {
			return nil, err
		}
	}
	if len(orderBy) > 0 {
		if err := b.SetOrderBy(orderBy); err != nil {
			return nil, err
		}
	}
	if s.Offset != nil {
		offset, err := c.toSQL(b.context, s.Offset)
		if err != nil {
			return nil, err
		}
		if err := b.SetOffset(offset); err != nil {
			return nil, err
		}
	}
	if s.Fetch != nil {
		fetch, err := c.toSQL(b.context, s.Fetch)
		if err != nil {
			return nil, err
		}
		if err := b.SetFetch(fetch); err != nil {
			return nil, err
		}
	}
	return b.Result(), nil
}

func (c *Converter) visitWindow(w *plan.Window) (*Result, error) {
	x, err := c.visit(w.Child)
	if err != nil {
		return nil, err
	}
	c.parseCorrelTable(w, x)
	b := x.Builder(w, ClauseSelect)
	var selectList sqlast.NodeList
	for _, e := range w.SelectExprs {
		node, err := c.toSQL(b.context, e)
		if err != nil {
			return nil, err
		}
		c.addSelect(&selectList, node, w.Schema())
	}
	b.SetSelect(selectList)
	return b.Result(), nil
}

func (c *Converter) visitTableFunctionScan(t *plan.TableFunctionScan) (*Result, error) {
	inputs := make([]sqlast.Node, 0, len(t.Children()))
	for _, input := range t.Children() {
		x, err := c.visit(input)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, sqlast.NewCall(sqlast.OpCursor, x.AsStatement()))
	}
	ctx := NewTableFunctionScanContext(inputs)
	call, err := c.toSQL(ctx, t.Call)
	if err != nil {
		return nil, err
	}
	node := sqlast.NewCall(sqlast.OpTableFunction, call)
	return c.result(node, newClauseSet(ClauseFrom), t, nil), nil
}

func (c *Converter) visitValues(v *plan.Values) (*Result, error) {
	schema := v.Schema()
	if len(v.Tuples) == 0 {
		// An empty VALUES has no SQL spelling; a SELECT of nulls with
		// a false predicate produces the same empty row set.
		var selectList sqlast.NodeList
		for _, col := range schema {
			selectList = append(selectList, sqlast.As(sqlast.NewNull(), col.Name))
		}
		sel := &sqlast.Select{
			SelectList: selectList,
			Where: sqlast.NewCall(sqlast.OpEquals,
				sqlast.NewExactNumeric("1"), sqlast.NewExactNumeric("0")),
		}
		return c.result(sel, newClauseSet(ClauseSelect), v, nil), nil
	}

	rows := make([]sqlast.Node, 0, len(v.Tuples))
	for _, tuple := range v.Tuples {
		row := make([]sqlast.Node, 0, len(tuple))
		for _, lit := range tuple {
			node, err := c.literalToSQL(nil, lit)
			if err != nil {
				return nil, err
			}
			row = append(row, node)
		}
		rows = append(rows, sqlast.NewCall(sqlast.OpRow, row...))
	}
	values := sqlast.NewCall(sqlast.OpValues, rows...)
	node := sqlast.As(values, "t", schema.Names()...)
	return c.result(node, newClauseSet(ClauseSelect), v, nil), nil
}

// result builds the Result of one node, assigning it a FROM alias that is
// unique within the translated statement.
func (c *Converter) result(node sqlast.Node, clauses clauseSet, rel sql.Node, aliases []aliasEntry) *Result {
	alias := sqlast.GetAlias(node)
	suggested := alias
	if suggested == "" {
		suggested = tableNameOf(rel)
	}
	unique := c.uniquify(suggested)
	schema := adjustedSchema(rel, node)
	clash := schema.Contains(unique)

	d := c.dialect
	if len(aliases) > 0 &&
		(!d.HasImplicitTableAlias ||
			(!d.SupportsIdenticalTableAndColumnName && clash) ||
			len(aliases) > 1) {
		return &Result{
			conv:             c,
			node:             node,
			clauses:          clauses,
			neededAlias:      unique,
			schema:           schema,
			aliases:          aliases,
			tableColumnClash: clash,
		}
	}

	needed := ""
	if alias == "" || alias != unique || !d.HasImplicitTableAlias ||
		(!d.SupportsIdenticalTableAndColumnName && clash) {
		needed = unique
	}
	return &Result{
		conv:             c,
		node:             node,
		clauses:          clauses,
		neededAlias:      needed,
		schema:           schema,
		aliases:          []aliasEntry{{alias: unique, schema: schema}},
		tableColumnClash: clash,
	}
}

// wrapSelect wraps a FROM item in a SELECT statement with no other clauses.
func (c *Converter) wrapSelect(node sqlast.Node, tableColumnClash bool) *sqlast.Select {
	if c.requiresAlias(node, tableColumnClash) {
		node = sqlast.As(node, c.uniquify("t"))
	}
	return &sqlast.Select{From: node}
}

// requiresAlias reports whether node needs an alias to appear in a FROM
// clause of this dialect.
func (c *Converter) requiresAlias(node sqlast.Node, tableColumnClash bool) bool {
	if !c.dialect.RequiresAliasForFromItems {
		return false
	}
	switch n := node.(type) {
	case *sqlast.Identifier:
		return !c.dialect.HasImplicitTableAlias ||
			(!c.dialect.SupportsIdenticalTableAndColumnName && tableColumnClash)
	case *sqlast.Join:
		return false
	case *sqlast.Call:
		return n.Op != sqlast.OpAs
	default:
		return true
	}
}

// addSelect appends node to the select list, attaching an alias when the
// node's natural name differs from the output column name.
func (c *Converter) addSelect(selectList *sqlast.NodeList, node sqlast.Node, schema sql.Schema) {
	i := len(*selectList)
	if i < len(schema) {
		name := schema[i].Name
		if sqlast.GetAlias(node) != name {
			node = sqlast.As(node, name)
		}
	}
	*selectList = append(*selectList, node)
}

// addOrderItem appends one ordering expression, first emitting an emulation
// expression when the dialect cannot spell the requested null placement.
func (c *Converter) addOrderItem(list *sqlast.NodeList, node sqlast.Node, desc bool, nullOrdering expression.NullOrdering) {
	if nullOrdering != expression.NullsDefault {
		first := nullOrdering == expression.NullsFirst
		if emu := c.dialect.EmulateNullDirection(node, first, desc); emu != nil {
			*list = append(*list, emu)
			nullOrdering = expression.NullsDefault
		}
	}
	item := node
	if desc {
		item = sqlast.NewCall(sqlast.OpDescending, item)
	}
	if nullOrdering != expression.NullsDefault &&
		c.dialect.SupportsNullOrderingClause &&
		nullOrdering != c.dialect.DefaultNullDirection(desc) {
		op := sqlast.OpNullsLast
		if nullOrdering == expression.NullsFirst {
			op = sqlast.OpNullsFirst
		}
		item = sqlast.NewCall(op, item)
	}
	*list = append(*list, item)
}

// maybeStrip removes synthetic column aliases when the converter runs in
// anonymous mode.
func (c *Converter) maybeStrip(node sqlast.Node) sqlast.Node {
	if c.anon {
		sqlast.StripTrivialAliases(node)
	}
	return node
}

// parseCorrelTable registers the qualified context of x for every
// correlation variable referenced by the subqueries of rel, so correlated
// column references inside them resolve against the enclosing query.
func (c *Converter) parseCorrelTable(rel sql.Node, x *Result) {
	ids := make(map[sql.CorrelationID]struct{})
	for _, e := range nodeExpressions(rel) {
		collectCorrelationIDs(e, ids)
	}
	if len(ids) == 0 {
		return
	}
	ctx := x.QualifiedContext()
	for id := range ids {
		// The defining query registers before any nested scope sees the
		// variable; an id already bound keeps its outer context.
		if _, bound := c.correlTable[id]; !bound {
			c.correlTable[id] = ctx
		}
	}
}

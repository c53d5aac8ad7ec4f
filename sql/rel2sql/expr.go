package rel2sql

import (
	"github.com/spf13/cast"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/plan"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// toSQL translates a scalar expression into a SQL node, resolving field
// references through ctx.
func (c *Converter) toSQL(ctx Context, e sql.Expression) (sqlast.Node, error) {
	switch e := e.(type) {
	case *expression.GetField:
		return ctx.Field(e.Index())
	case *expression.Literal:
		return c.literalToSQL(ctx, e)
	case *expression.DynamicParam:
		return &sqlast.DynamicParam{Index: e.Index()}, nil
	case *expression.LocalRef:
		resolved, err := e.Resolve()
		if err != nil {
			return nil, err
		}
		return c.toSQL(ctx, resolved)
	case *expression.PatternFieldRef:
		return c.patternFieldRefToSQL(ctx, e)
	case *expression.FieldAccess:
		return c.fieldAccessToSQL(ctx, e)
	case *expression.Search:
		return c.sargToSQL(ctx, e)
	case *expression.Subquery:
		return c.subqueryToSQL(ctx, e)
	case *expression.Over:
		return c.overToSQL(ctx, e)
	case *expression.Call:
		return c.callToSQL(ctx, e)
	default:
		return nil, sql.ErrUnsupportedExpression.New(e.String())
	}
}

func (c *Converter) literalToSQL(ctx Context, l *expression.Literal) (sqlast.Node, error) {
	v := l.Value()
	if v == nil {
		return sqlast.NewNull(), nil
	}
	typ := l.Type()
	switch typ.Family() {
	case sql.CharacterFamily:
		// Inside row-pattern clauses a character literal names a pattern
		// variable, not a string value.
		if _, ok := ctx.(*MatchRecognizeContext); ok {
			return sqlast.NewIdentifier(cast.ToString(v)), nil
		}
		return sqlast.NewCharString(cast.ToString(v)), nil
	case sql.ExactNumericFamily:
		return sqlast.NewExactNumeric(cast.ToString(v)), nil
	case sql.ApproxNumericFamily:
		return sqlast.NewApproxNumeric(cast.ToString(v)), nil
	case sql.BooleanFamily:
		return sqlast.NewBoolean(cast.ToBool(v)), nil
	case sql.IntervalFamily:
		iv, ok := v.(expression.IntervalValue)
		if !ok {
			return nil, sql.ErrUnsupportedExpression.New(l.String())
		}
		return sqlast.NewInterval(iv.Negative, iv.Value, typ.IntervalQualifier), nil
	case sql.DateFamily:
		return c.dialect.DateLiteral(cast.ToString(v)), nil
	case sql.TimeFamily:
		return c.dialect.TimeLiteral(cast.ToString(v), typ.Precision), nil
	case sql.TimestampFamily:
		return c.dialect.TimestampLiteral(cast.ToString(v), typ.Precision), nil
	case sql.SymbolFamily:
		return sqlast.NewSymbol(cast.ToString(v)), nil
	case sql.NullFamily:
		return sqlast.NewNull(), nil
	case sql.RowFamily:
		fields, ok := v.([]*expression.Literal)
		if !ok {
			return nil, sql.ErrUnsupportedExpression.New(l.String())
		}
		operands := make([]sqlast.Node, 0, len(fields))
		for _, field := range fields {
			node, err := c.literalToSQL(ctx, field)
			if err != nil {
				return nil, err
			}
			operands = append(operands, node)
		}
		return sqlast.NewCall(sqlast.OpRow, operands...), nil
	case sql.SargFamily:
		return nil, sql.ErrSargAsLiteral.New(l.String())
	default:
		return nil, sql.ErrUnsupportedExpression.New(l.String())
	}
}

func (c *Converter) patternFieldRefToSQL(ctx Context, p *expression.PatternFieldRef) (sqlast.Node, error) {
	node, err := ctx.Field(p.Index())
	if err != nil {
		return nil, err
	}
	if id, ok := node.(*sqlast.Identifier); ok && len(id.Names) > 0 {
		return sqlast.NewIdentifier(p.Alpha(), id.Names[len(id.Names)-1]), nil
	}
	return node, nil
}

// fieldAccessToSQL flattens a chain of field accesses. When the chain is
// rooted at a correlation variable, the innermost access resolves through
// the context registered for that variable and the remaining names extend
// the resulting identifier.
func (c *Converter) fieldAccessToSQL(ctx Context, f *expression.FieldAccess) (sqlast.Node, error) {
	var chain []*expression.FieldAccess
	var root sql.Expression = f
	for {
		fa, ok := root.(*expression.FieldAccess)
		if !ok {
			break
		}
		chain = append(chain, fa)
		root = fa.Ref()
	}
	// chain[len(chain)-1] is the access closest to the root.
	innermost := chain[len(chain)-1]

	var base sqlast.Node
	if cv, ok := root.(*expression.CorrelVar); ok {
		correlCtx, found := c.correlTable[cv.ID()]
		if !found {
			return nil, sql.ErrCorrelationNotFound.New(cv.ID())
		}
		node, err := correlCtx.Field(innermost.FieldIndex())
		if err != nil {
			return nil, err
		}
		base = node
	} else {
		node, err := c.toSQL(ctx, root)
		if err != nil {
			return nil, err
		}
		if id, ok := node.(*sqlast.Identifier); ok {
			base = sqlast.NewIdentifier(append(append([]string{}, id.Names...), innermost.Field())...)
		} else {
			base = node
		}
	}

	for i := len(chain) - 2; i >= 0; i-- {
		id, ok := base.(*sqlast.Identifier)
		if !ok {
			return nil, sql.ErrUnsupportedExpression.New(f.String())
		}
		base = sqlast.NewIdentifier(append(append([]string{}, id.Names...), chain[i].Field())...)
	}
	return base, nil
}

func (c *Converter) subqueryToSQL(ctx Context, s *expression.Subquery) (sqlast.Node, error) {
	x, err := c.visit(s.Query())
	if err != nil {
		return nil, err
	}
	query := x.AsQueryOrValues()
	switch s.Kind() {
	case expression.ScalarSubquery:
		return sqlast.NewCall(sqlast.OpScalarQuery, query), nil
	case expression.ExistsSubquery:
		return sqlast.NewCall(sqlast.OpExists, query), nil
	case expression.InSubquery:
		operands := make([]sqlast.Node, 0, len(s.Operands()))
		for _, operand := range s.Operands() {
			node, err := c.toSQL(ctx, operand)
			if err != nil {
				return nil, err
			}
			operands = append(operands, node)
		}
		var lhs sqlast.Node
		if len(operands) == 1 {
			lhs = operands[0]
		} else {
			lhs = sqlast.NewCall(sqlast.OpRow, operands...)
		}
		return sqlast.NewCall(sqlast.OpIn, lhs, query), nil
	default:
		return nil, sql.ErrUnsupportedExpression.New(s.String())
	}
}

func (c *Converter) overToSQL(ctx Context, o *expression.Over) (sqlast.Node, error) {
	if !c.dialect.SupportsWindowFunctions {
		return nil, sql.ErrUnsupportedConstruct.New("OVER", c.dialect.Name)
	}
	agg := o.Agg()
	op := agg.Op()
	sum0 := op.Kind == sqlast.KindSum0
	if sum0 {
		op = sqlast.OpSum
	}
	op = c.dialect.SubstituteOperator(op)

	operands := make([]sqlast.Node, 0, len(agg.Children()))
	for _, arg := range agg.Children() {
		node, err := c.toSQL(ctx, arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, node)
	}
	call := sqlast.NewCall(op, operands...)
	call.Distinct = o.Distinct()

	window, err := c.windowToSQL(ctx, o.Window(), op.AllowsFraming)
	if err != nil {
		return nil, err
	}
	over := sqlast.NewCall(sqlast.OpOver, call, window)
	if sum0 {
		// The empty-window sum of the internal SUM0 operator is zero, not
		// null.
		return sqlast.NewCall(sqlast.OpCoalesce, over, sqlast.NewExactNumeric("0")), nil
	}
	return over, nil
}

func (c *Converter) windowToSQL(ctx Context, def *expression.WindowDef, allowsFraming bool) (*sqlast.Window, error) {
	window := &sqlast.Window{IsRows: def.IsRows}
	for _, e := range def.PartitionBy {
		node, err := c.toSQL(ctx, e)
		if err != nil {
			return nil, err
		}
		window.PartitionBy = append(window.PartitionBy, node)
	}
	for _, key := range def.OrderBy {
		node, err := c.toSQL(ctx, key.Expr)
		if err != nil {
			return nil, err
		}
		c.addOrderItem(&window.OrderBy, node,
			key.Direction == expression.Descending, key.NullOrdering)
	}
	if allowsFraming {
		lower, err := c.boundToSQL(ctx, def.Lower)
		if err != nil {
			return nil, err
		}
		upper, err := c.boundToSQL(ctx, def.Upper)
		if err != nil {
			return nil, err
		}
		window.Lower, window.Upper = lower, upper
	}
	return window, nil
}

func (c *Converter) boundToSQL(ctx Context, bound *expression.WindowBound) (*sqlast.Bound, error) {
	if bound == nil {
		return nil, nil
	}
	var kind sqlast.BoundKind
	switch bound.Type {
	case expression.CurrentRow:
		kind = sqlast.CurrentRow
	case expression.UnboundedPreceding:
		kind = sqlast.UnboundedPreceding
	case expression.UnboundedFollowing:
		kind = sqlast.UnboundedFollowing
	case expression.Preceding:
		kind = sqlast.Preceding
	case expression.Following:
		kind = sqlast.Following
	}
	var offset sqlast.Node
	if bound.Offset != nil {
		node, err := c.toSQL(ctx, bound.Offset)
		if err != nil {
			return nil, err
		}
		offset = node
	}
	return &sqlast.Bound{Kind: kind, Offset: offset}, nil
}

func (c *Converter) callToSQL(ctx Context, call *expression.Call) (sqlast.Node, error) {
	op := call.Op()
	args := call.Children()

	switch op.Kind {
	case sqlast.KindNot:
		return c.notToSQL(ctx, args[0])
	case sqlast.KindSum0:
		op = sqlast.OpSum
	case sqlast.KindCast:
		// A cast to cursor wraps a column reference for a table function
		// argument; the target engine sees the bare reference.
		if call.Type().ID == sql.Cursor {
			return c.toSQL(ctx, args[0])
		}
		operand, err := c.toSQL(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return sqlast.NewCall(sqlast.OpCast, operand,
			sqlast.NewSymbol(call.Type().String())), nil
	case sqlast.KindCase:
		return c.caseToSQL(ctx, args)
	}

	if op.IsComparison() && len(args) == 2 && c.dialect.SupportsImplicitTypeCoercion {
		args = stripCastFromString(args)
	}

	operands := make([]sqlast.Node, 0, len(args))
	for _, arg := range args {
		node, err := c.toSQL(ctx, arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, node)
	}
	return sqlast.NewCall(c.dialect.SubstituteOperator(op), operands...), nil
}

// notToSQL renders NOT applied to inner, collapsing double negation and
// using registered inverse operators such as NOT IN.
func (c *Converter) notToSQL(ctx Context, inner sql.Expression) (sqlast.Node, error) {
	if innerCall, ok := inner.(*expression.Call); ok {
		if innerCall.Kind() == sqlast.KindNot {
			return c.toSQL(ctx, innerCall.Children()[0])
		}
		if inverse, ok := sqlast.NotInverse(innerCall.Kind()); ok {
			operands := make([]sqlast.Node, 0, len(innerCall.Children()))
			for _, arg := range innerCall.Children() {
				node, err := c.toSQL(ctx, arg)
				if err != nil {
					return nil, err
				}
				operands = append(operands, node)
			}
			return sqlast.NewCall(inverse, operands...), nil
		}
	}
	operand, err := c.toSQL(ctx, inner)
	if err != nil {
		return nil, err
	}
	return sqlast.NewCall(sqlast.OpNot, operand), nil
}

// caseToSQL reconstructs the syntactic CASE form. An even operand count is
// the value form "CASE x WHEN ... END"; an odd count is the boolean form.
func (c *Converter) caseToSQL(ctx Context, args []sql.Expression) (sqlast.Node, error) {
	nodes := make([]sqlast.Node, 0, len(args))
	for _, arg := range args {
		node, err := c.toSQL(ctx, arg)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	caseExpr := &sqlast.Case{}
	rest := nodes
	if len(nodes)%2 == 0 {
		caseExpr.Value = nodes[0]
		rest = nodes[1:]
	}
	for len(rest) > 1 {
		caseExpr.Whens = append(caseExpr.Whens, rest[0])
		caseExpr.Thens = append(caseExpr.Thens, rest[1])
		rest = rest[2:]
	}
	if len(rest) == 1 {
		caseExpr.Else = rest[0]
	}
	return caseExpr, nil
}

// stripCastFromString drops a cast around a character literal on one side of
// a comparison. Engines with implicit coercion compare "c = '10'" the same
// way and read better without the cast.
func stripCastFromString(args []sql.Expression) []sql.Expression {
	stripped := make([]sql.Expression, len(args))
	copy(stripped, args)
	for i, arg := range args {
		call, ok := arg.(*expression.Call)
		if !ok || call.Kind() != sqlast.KindCast {
			continue
		}
		other := args[1-i]
		if _, otherCast := other.(*expression.Call); otherCast {
			continue
		}
		operand := call.Children()[0]
		if lit, ok := operand.(*expression.Literal); ok &&
			lit.Type().Family() == sql.CharacterFamily {
			stripped[i] = lit
		}
	}
	return stripped
}

// sargToSQL decomposes a range predicate into ordinary comparisons: points
// become equality or IN, intervals become comparison conjunctions, and the
// fragments are joined with OR. A null marker contributes a leading IS NULL.
func (c *Converter) sargToSQL(ctx Context, s *expression.Search) (sqlast.Node, error) {
	operand, err := c.toSQL(ctx, s.Operand())
	if err != nil {
		return nil, err
	}
	sarg := s.Sarg()

	var rangesNode sqlast.Node
	if sarg.IsPoints() {
		values := sarg.PointValues()
		literals := make([]sqlast.Node, 0, len(values))
		for _, v := range values {
			node, err := c.literalToSQL(ctx, expression.NewLiteral(v, s.LiteralType()))
			if err != nil {
				return nil, err
			}
			literals = append(literals, node)
		}
		if len(literals) == 1 {
			rangesNode = sqlast.NewCall(sqlast.OpEquals, operand, literals[0])
		} else {
			rangesNode = sqlast.NewCall(sqlast.OpIn, operand, sqlast.NodeList(literals))
		}
	} else {
		for _, r := range sarg.Ranges {
			fragment, err := c.rangeToSQL(ctx, operand, r, s.LiteralType())
			if err != nil {
				return nil, err
			}
			if rangesNode == nil {
				rangesNode = fragment
			} else {
				rangesNode = sqlast.NewCall(sqlast.OpOr, rangesNode, fragment)
			}
		}
	}

	if sarg.ContainsNull {
		isNull := sqlast.NewCall(sqlast.OpIsNull, operand)
		if rangesNode == nil {
			return isNull, nil
		}
		return sqlast.NewCall(sqlast.OpOr, isNull, rangesNode), nil
	}
	if rangesNode == nil {
		return sqlast.NewBoolean(false), nil
	}
	return rangesNode, nil
}

func (c *Converter) rangeToSQL(ctx Context, operand sqlast.Node, r expression.Range, litType sql.Type) (sqlast.Node, error) {
	if r.IsAll() {
		return sqlast.NewBoolean(true), nil
	}
	if r.IsPoint() {
		value, err := c.literalToSQL(ctx, expression.NewLiteral(r.Lower, litType))
		if err != nil {
			return nil, err
		}
		return sqlast.NewCall(sqlast.OpEquals, operand, value), nil
	}

	var lower, upper sqlast.Node
	if r.Lower != nil {
		value, err := c.literalToSQL(ctx, expression.NewLiteral(r.Lower, litType))
		if err != nil {
			return nil, err
		}
		op := sqlast.OpGreaterThanOrEqual
		if r.LowerOpen {
			op = sqlast.OpGreaterThan
		}
		lower = sqlast.NewCall(op, operand, value)
	}
	if r.Upper != nil {
		value, err := c.literalToSQL(ctx, expression.NewLiteral(r.Upper, litType))
		if err != nil {
			return nil, err
		}
		op := sqlast.OpLessThanOrEqual
		if r.UpperOpen {
			op = sqlast.OpLessThan
		}
		upper = sqlast.NewCall(op, operand, value)
	}
	switch {
	case lower != nil && upper != nil:
		return sqlast.NewCall(sqlast.OpAnd, lower, upper), nil
	case lower != nil:
		return lower, nil
	default:
		return upper, nil
	}
}

// aggCallToSQL renders one aggregate invocation, resolving argument
// ordinals through ctx. Engines without the FILTER clause get the filter
// folded into the arguments as CASE expressions.
func (c *Converter) aggCallToSQL(ctx Context, agg plan.AggCall) (sqlast.Node, error) {
	op := agg.Op
	if op.Kind == sqlast.KindSum0 {
		op = sqlast.OpSum
	}
	op = c.dialect.SubstituteOperator(op)

	operands := make([]sqlast.Node, 0, len(agg.Args))
	for _, arg := range agg.Args {
		node, err := ctx.Field(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, node)
	}
	if len(operands) == 0 && op.Kind == sqlast.KindCount {
		operands = append(operands, sqlast.StarIdentifier())
	}

	var filter sqlast.Node
	if agg.FilterArg >= 0 {
		cond, err := ctx.Field(agg.FilterArg)
		if err != nil {
			return nil, err
		}
		if c.dialect.SupportsAggregateFunctionFilter {
			filter = cond
		} else {
			operands = foldFilterIntoArgs(operands, cond)
		}
	}

	call := sqlast.NewCall(op, operands...)
	call.Distinct = agg.Distinct
	var node sqlast.Node = call

	if len(agg.WithinGroup) > 0 {
		var orderBy sqlast.NodeList
		for _, field := range agg.WithinGroup {
			key, err := ctx.Field(field.Ordinal)
			if err != nil {
				return nil, err
			}
			c.addOrderItem(&orderBy, key,
				field.Direction == expression.Descending, field.NullOrdering)
		}
		node = sqlast.NewCall(sqlast.OpWithinGroup, node, orderBy)
	}
	if filter != nil {
		node = sqlast.NewCall(sqlast.OpFilter, node, filter)
	}
	return node, nil
}

// foldFilterIntoArgs rewrites the arguments of a filtered aggregate as CASE
// expressions gated by the filter. "COUNT(*) FILTER (WHERE b)" becomes
// "COUNT(CASE WHEN b THEN 1 END)"; rows failing the filter contribute null
// and are ignored by the aggregate.
func foldFilterIntoArgs(operands []sqlast.Node, cond sqlast.Node) []sqlast.Node {
	if len(operands) == 1 {
		if id, ok := operands[0].(*sqlast.Identifier); ok && id.IsStar() {
			return []sqlast.Node{&sqlast.Case{
				Whens: sqlast.NodeList{cond},
				Thens: sqlast.NodeList{sqlast.NewExactNumeric("1")},
			}}
		}
	}
	folded := make([]sqlast.Node, len(operands))
	for i, operand := range operands {
		folded[i] = &sqlast.Case{
			Whens: sqlast.NodeList{cond},
			Thens: sqlast.NodeList{operand},
		}
	}
	return folded
}

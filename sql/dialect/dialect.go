// Package dialect describes what a target SQL engine can express. The
// translator queries these capability flags to decide between merging
// clauses, wrapping sub-queries and rewriting constructs; it never consults
// the target engine itself.
package dialect

import (
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// NullCollation is where an engine places nulls when no explicit null
// ordering is given.
type NullCollation byte

const (
	// NullsHigh sorts nulls as the highest values: last ascending, first
	// descending.
	NullsHigh NullCollation = iota
	// NullsLow sorts nulls as the lowest values.
	NullsLow
	// NullsAlwaysFirst places nulls first regardless of direction.
	NullsAlwaysFirst
	// NullsAlwaysLast places nulls last regardless of direction.
	NullsAlwaysLast
)

// Dialect is the capability descriptor of one target SQL variant. It is
// plain data: flags queried by the sub-query decision, substitution tables
// for operators, and factories for dialect-specific literal syntax.
type Dialect struct {
	Name string
	// QuoteChar quotes identifiers; 0 means standard double quotes.
	QuoteChar byte

	SupportsQualifyClause                 bool
	SupportsNestedAggregations            bool
	SupportsNestedAnalyticalFunctions     bool
	SupportsAggInGroupBy                  bool
	SupportsAnalyticalFunctionInAggregate bool
	SupportsAggregateFunctionFilter       bool
	SupportsImplicitTypeCoercion          bool
	SupportsWindowFunctions               bool
	SupportsNullOrderingClause            bool
	SupportsIdenticalTableAndColumnName   bool

	// HasImplicitTableAlias means "FROM emp" behaves as "FROM emp AS
	// emp", making an explicit alias redundant for plain tables.
	HasImplicitTableAlias bool
	// RequiresAliasForFromItems forces an alias on every FROM item.
	RequiresAliasForFromItems bool

	// GroupByAlias, HavingAlias and SortByAlias mark clauses that may
	// reference select-list aliases in this dialect.
	GroupByAlias bool
	HavingAlias  bool
	SortByAlias  bool

	NullCollation NullCollation

	// OperatorSubstitutions remaps an operator kind to a same-arity
	// dialect operator, such as IS TRUE on engines without it.
	OperatorSubstitutions map[sqlast.Kind]*sqlast.Operator
	// FuncSubstitutions remaps plain function names.
	FuncSubstitutions map[string]*sqlast.Operator

	// Literal factories let a dialect choose its own datetime literal
	// syntax. Nil falls back to standard literals.
	DateLiteralFunc      func(text string) sqlast.Node
	TimeLiteralFunc      func(text string, precision int) sqlast.Node
	TimestampLiteralFunc func(text string, precision int) sqlast.Node
}

// DefaultNullDirection is the null placement the engine applies for the
// given direction when none is written.
func (d *Dialect) DefaultNullDirection(desc bool) expression.NullOrdering {
	switch d.NullCollation {
	case NullsAlwaysFirst:
		return expression.NullsFirst
	case NullsAlwaysLast:
		return expression.NullsLast
	case NullsLow:
		if desc {
			return expression.NullsLast
		}
		return expression.NullsFirst
	default:
		if desc {
			return expression.NullsFirst
		}
		return expression.NullsLast
	}
}

// EmulateNullDirection returns an extra ordering expression that forces the
// requested null placement on engines without a NULLS FIRST/LAST clause, or
// nil when the engine default already matches or the clause is supported
// natively. The returned node sorts before the field itself.
func (d *Dialect) EmulateNullDirection(node sqlast.Node, nullsFirst, desc bool) sqlast.Node {
	if d.SupportsNullOrderingClause {
		return nil
	}
	if d.DefaultNullDirection(desc) == expression.NullsFirst == nullsFirst {
		return nil
	}
	isNull := sqlast.NewCall(sqlast.OpIsNull, node)
	if !nullsFirst {
		return sqlast.NewCall(sqlast.OpDescending, isNull)
	}
	return isNull
}

// SubstituteOperator returns the dialect operator for the given one, if a
// substitution is registered.
func (d *Dialect) SubstituteOperator(op *sqlast.Operator) *sqlast.Operator {
	if op.Kind == sqlast.KindOtherFunction {
		if sub, ok := d.FuncSubstitutions[op.Name]; ok {
			return sub
		}
		return op
	}
	if sub, ok := d.OperatorSubstitutions[op.Kind]; ok {
		return sub
	}
	return op
}

// DateLiteral renders a date literal in the dialect's syntax.
func (d *Dialect) DateLiteral(text string) sqlast.Node {
	if d.DateLiteralFunc != nil {
		return d.DateLiteralFunc(text)
	}
	return sqlast.NewDate(text)
}

// TimeLiteral renders a time literal in the dialect's syntax.
func (d *Dialect) TimeLiteral(text string, precision int) sqlast.Node {
	if d.TimeLiteralFunc != nil {
		return d.TimeLiteralFunc(text, precision)
	}
	return sqlast.NewTime(text, precision)
}

// TimestampLiteral renders a timestamp literal in the dialect's syntax.
func (d *Dialect) TimestampLiteral(text string, precision int) sqlast.Node {
	if d.TimestampLiteralFunc != nil {
		return d.TimestampLiteralFunc(text, precision)
	}
	return sqlast.NewTimestamp(text, precision)
}

package rel2sql

import (
	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/plan"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// Builder is a short-lived mutator over the SELECT being assembled for one
// algebra node. Clauses must have been declared when the builder was
// created; mutating an undeclared clause is a contract violation. A builder
// is consumed exactly once through Result.
type Builder struct {
	conv    *Converter
	rel     sql.Node
	clauses clauseSet
	sel     *sqlast.Select
	context Context
	aliases []aliasEntry
}

// Context returns the field-resolution context valid for the SELECT under
// construction.
func (b *Builder) Context() Context { return b.context }

// SetSelect sets the select list.
func (b *Builder) SetSelect(list sqlast.NodeList) {
	b.sel.SelectList = list
}

// SetDistinct marks the select as DISTINCT.
func (b *Builder) SetDistinct() {
	b.sel.Distinct = true
}

// SetWhere sets the WHERE predicate.
func (b *Builder) SetWhere(node sqlast.Node) error {
	if !b.clauses.has(ClauseWhere) {
		return sql.ErrClauseNotDeclared.New(ClauseWhere)
	}
	b.sel.Where = node
	return nil
}

// SetGroupBy sets the GROUP BY list.
func (b *Builder) SetGroupBy(list sqlast.NodeList) error {
	if !b.clauses.has(ClauseGroupBy) {
		return sql.ErrClauseNotDeclared.New(ClauseGroupBy)
	}
	b.sel.GroupBy = list
	return nil
}

// SetHaving sets the HAVING predicate.
func (b *Builder) SetHaving(node sqlast.Node) error {
	if !b.clauses.has(ClauseHaving) {
		return sql.ErrClauseNotDeclared.New(ClauseHaving)
	}
	b.sel.Having = node
	return nil
}

// SetQualify sets the QUALIFY predicate.
func (b *Builder) SetQualify(node sqlast.Node) error {
	if !b.clauses.has(ClauseQualify) {
		return sql.ErrClauseNotDeclared.New(ClauseQualify)
	}
	b.sel.Qualify = node
	return nil
}

// SetOrderBy sets the ORDER BY list.
func (b *Builder) SetOrderBy(list sqlast.NodeList) error {
	if !b.clauses.has(ClauseOrderBy) {
		return sql.ErrClauseNotDeclared.New(ClauseOrderBy)
	}
	b.sel.OrderBy = list
	return nil
}

// SetOffset sets the OFFSET row count.
func (b *Builder) SetOffset(node sqlast.Node) error {
	if !b.clauses.has(ClauseOffset) {
		return sql.ErrClauseNotDeclared.New(ClauseOffset)
	}
	b.sel.Offset = node
	return nil
}

// SetFetch sets the FETCH row count.
func (b *Builder) SetFetch(node sqlast.Node) error {
	if !b.clauses.has(ClauseFetch) {
		return sql.ErrClauseNotDeclared.New(ClauseFetch)
	}
	b.sel.Fetch = node
	return nil
}

// OrderField resolves an ORDER BY reference, preferring select-list
// resolution with the collision-to-ordinal fallback when the select list is
// fixed.
func (b *Builder) OrderField(ordinal int) (sqlast.Node, error) {
	if slc, ok := b.context.(*selectListContext); ok {
		return slc.orderField(ordinal)
	}
	return b.context.Field(ordinal)
}

// AddOrderItem appends the rendering of one sort field to list, emulating
// the requested null placement on dialects without NULLS FIRST/LAST.
func (b *Builder) AddOrderItem(list *sqlast.NodeList, field plan.SortField) error {
	node, err := b.OrderField(field.Ordinal)
	if err != nil {
		return err
	}
	b.conv.addOrderItem(list, node,
		field.Direction == expression.Descending, field.NullOrdering)
	return nil
}

// Result fixes the builder's SELECT into the Result of the node being
// implemented.
func (b *Builder) Result() *Result {
	return b.conv.result(b.sel, b.clauses, b.rel, b.aliases)
}

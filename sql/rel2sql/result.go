package rel2sql

import (
	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/plan"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// Result is the immutable outcome of translating one algebra node: the SQL
// node built for it, the clauses that node consumes, the alias it needs when
// used as a FROM item, and the row type exposed under that alias. Results
// chain one per algebra node and are discarded once the parent consumes
// them; only the root's Result survives translation.
type Result struct {
	conv        *Converter
	node        sqlast.Node
	clauses     clauseSet
	neededAlias string
	schema      sql.Schema
	aliases     []aliasEntry
	// tableColumnClash is set when the FROM table shares a name with one
	// of its columns, which some dialects cannot resolve.
	tableColumnClash bool
}

// Node returns the SQL node built so far.
func (r *Result) Node() sqlast.Node { return r.node }

// Schema returns the row type the result exposes.
func (r *Result) Schema() sql.Schema { return r.schema }

// AsFrom returns a node usable as a FROM item or a join arm, attaching the
// needed alias when one was assigned. When the node is already an AS call,
// such as a VALUES rendering, the alias operand is replaced instead.
func (r *Result) AsFrom() sqlast.Node {
	if r.neededAlias == "" {
		return r.node
	}
	if call, ok := r.node.(*sqlast.Call); ok && call.Op == sqlast.OpAs {
		operands := make([]sqlast.Node, len(call.Operands))
		copy(operands, call.Operands)
		operands[1] = sqlast.NewIdentifier(r.neededAlias)
		return sqlast.NewCall(sqlast.OpAs, operands...)
	}
	return sqlast.As(r.node, r.neededAlias)
}

// AsSelect converts the result into a SELECT statement, wrapping non-query
// nodes in "SELECT * FROM node".
func (r *Result) AsSelect() *sqlast.Select {
	if sel, ok := r.node.(*sqlast.Select); ok {
		return sel
	}
	d := r.conv.dialect
	if !d.HasImplicitTableAlias ||
		(!d.SupportsIdenticalTableAndColumnName && r.tableColumnClash) {
		return r.conv.wrapSelect(r.AsFrom(), r.tableColumnClash)
	}
	return r.conv.wrapSelect(r.node, r.tableColumnClash)
}

// subSelect wraps the result in a fresh SELECT over it as a FROM item.
func (r *Result) subSelect() *sqlast.Select {
	return r.conv.wrapSelect(r.AsFrom(), r.tableColumnClash)
}

// AsStatement converts the result into a standalone statement. Set
// operations stay as they are; everything else becomes a SELECT.
func (r *Result) AsStatement() sqlast.Node {
	if call, ok := r.node.(*sqlast.Call); ok && call.Op.IsSetOp() {
		return r.conv.maybeStrip(r.node)
	}
	return r.conv.maybeStrip(r.AsSelect())
}

// AsQueryOrValues converts the result into a query. Set operations and
// VALUES stay as they are; everything else becomes a SELECT.
func (r *Result) AsQueryOrValues() sqlast.Node {
	if call, ok := r.node.(*sqlast.Call); ok &&
		(call.Op.IsSetOp() || call.Op.Kind == sqlast.KindValues) {
		return r.conv.maybeStrip(r.node)
	}
	return r.conv.maybeStrip(r.AsSelect())
}

// QualifiedContext returns a context that always qualifies identifiers.
// Useful when the result is one arm of a join and the condition must
// disambiguate column names.
func (r *Result) QualifiedContext() Context {
	return NewAliasContext(r.conv, r.aliases, true)
}

// ResetAlias collapses the alias map to the needed alias, so a join arm
// that was re-aliased resolves its columns through the new name.
func (r *Result) ResetAlias() *Result {
	if r.neededAlias == "" {
		return r
	}
	r2 := *r
	r2.aliases = []aliasEntry{{alias: r.neededAlias, schema: r.schema}}
	return &r2
}

// maxClause returns the highest clause in use.
func (r *Result) maxClause() Clause { return r.clauses.max() }

// Builder starts implementing rel on top of this result, declaring the
// clauses rel intends to populate. When the declared clauses cannot legally
// extend the current SELECT, the result is first wrapped in a sub-query.
func (r *Result) Builder(rel sql.Node, clauses ...Clause) *Builder {
	declared := newClauseSet(clauses...)
	needNew := r.needNewSubQuery(rel, declared)
	r.conv.log.WithField("node", rel.String()).
		WithField("clauses", declared.String()).
		WithField("wrap", needNew).
		Debug("building clause set onto result")

	keepColumnAlias := false
	if _, ok := rel.(*plan.Sort); ok && r.conv.dialect.SortByAlias {
		keepColumnAlias = true
	}

	var sel *sqlast.Select
	resultClauses := declared
	if needNew {
		sel = r.subSelect()
	} else {
		sel = r.AsSelect()
		resultClauses = resultClauses.union(r.clauses)
	}

	var ctx Context
	var newAliases []aliasEntry
	if len(sel.SelectList) > 0 {
		aliasRef := (declared.has(ClauseHaving) && r.conv.dialect.HavingAlias) ||
			keepColumnAlias
		ctx = &selectListContext{sel: sel, aliasRef: aliasRef}
	} else {
		qualified := !r.conv.dialect.HasImplicitTableAlias || len(r.aliases) > 1
		if needNew && r.neededAlias != "" &&
			(len(r.aliases) != 1 || r.aliases[0].alias != r.neededAlias) {
			newAliases = []aliasEntry{{alias: r.neededAlias, schema: r.schema}}
			ctx = NewAliasContext(r.conv, newAliases, qualified)
		} else {
			ctx = NewAliasContext(r.conv, r.aliases, qualified)
		}
	}

	builderAliases := r.aliases
	if needNew && !containsAlias(r.aliases, r.neededAlias) {
		builderAliases = newAliases
	}
	return &Builder{
		conv:    r.conv,
		rel:     rel,
		clauses: resultClauses,
		sel:     sel,
		context: ctx,
		aliases: builderAliases,
	}
}

// aggregateOverProject reports whether rel is an aggregate directly over a
// projection, or a filter over such an aggregate.
func aggregateOverProject(rel sql.Node) bool {
	if f, ok := rel.(*plan.Filter); ok {
		agg, ok := f.Child.(*plan.Aggregate)
		if !ok {
			return false
		}
		_, ok = agg.Child.(*plan.Project)
		return ok
	}
	if agg, ok := rel.(*plan.Aggregate); ok {
		_, ok = agg.Child.(*plan.Project)
		return ok
	}
	return false
}

func containsAlias(entries []aliasEntry, alias string) bool {
	for _, e := range entries {
		if e.alias == alias {
			return true
		}
	}
	return false
}

// needNewSubQuery decides whether rel's declared clauses can extend the
// current SELECT or require wrapping it in a sub-query. The rules form a
// prioritized list evaluated in a fixed order; the first matching rule
// wins.
func (r *Result) needNewSubQuery(rel sql.Node, declared clauseSet) bool {
	if r.clauses.isEmpty() {
		return false
	}
	max := r.maxClause()
	d := r.conv.dialect

	// A filter over an analytic projection merges as QUALIFY when the
	// dialect has the clause and the predicate itself is not analytic.
	if f, ok := rel.(*plan.Filter); ok && d.SupportsQualifyClause {
		if p, ok := f.Child.(*plan.Project); ok && p.ContainsOver() &&
			!expression.IsAnalytical(f.Condition) && max == ClauseSelect {
			return false
		}
	}

	// Ordering rule: a clause evaluated before, or at the same
	// non-repeatable position as, one already fixed forces a wrap. An
	// aggregate over a projection is exempt: it merges by resolving its
	// argument ordinals through the select list, replacing it. The same
	// holds for HAVING layered onto such an aggregate.
	if !aggregateOverProject(rel) {
		for c := ClauseFrom; c <= ClauseOffset; c++ {
			if !declared.has(c) {
				continue
			}
			if max > c || (max == c && !c.mergeable()) {
				return true
			}
		}
	}

	// Capability overrides: merging is legal by ordering but the dialect
	// cannot express the merged form.
	switch rel := rel.(type) {
	case *plan.Project:
		if _, ok := rel.Child.(*plan.Aggregate); ok {
			if !d.SupportsAggInGroupBy && r.groupByReferencesAggregate(rel) {
				return true
			}
			if d.GroupByAlias && r.groupByAliasMissingFromProjection(rel) {
				return true
			}
		}
		if _, ok := rel.Child.(*plan.Project); ok {
			if !d.SupportsNestedAnalyticalFunctions && r.nestedAnalyticsIn(rel) {
				return true
			}
		}
		if declared.has(ClauseHaving) && d.HavingAlias && r.aliasUsedInHaving() {
			return true
		}
		if rel.ContainsOver() && max == ClauseSelect {
			// A windowed projection cannot fold into an existing
			// select list expression.
			return true
		}
	case *plan.Window:
		if max == ClauseSelect {
			return true
		}
	case *plan.Aggregate:
		if !d.SupportsNestedAggregations && r.nestedAggregations(rel) {
			return true
		}
		if d.GroupByAlias && rel.GroupKeyReferencesOver() {
			return true
		}
		if !d.SupportsAnalyticalFunctionInAggregate && r.analyticsInAggregateArgs(rel) {
			return true
		}
	case *plan.Sort:
		if setOp, ok := rel.Child.(*plan.SetOp); ok && setOp.Kind == plan.Intersect {
			return true
		}
	}
	return false
}

// groupByReferencesAggregate reports whether the projection's GROUP BY list
// names a column computed from an aggregate call of the underlying select
// list.
func (r *Result) groupByReferencesAggregate(p *plan.Project) bool {
	sel, ok := r.node.(*sqlast.Select)
	if !ok || len(sel.GroupBy) == 0 {
		return false
	}
	schema := p.Schema()
	aggNames := make(map[string]struct{})
	for i, e := range p.Projections {
		for _, ref := range expression.InputRefs(e) {
			if ref < len(sel.SelectList) && containsAggCall(sel.SelectList[ref]) {
				aggNames[schema[i].Name] = struct{}{}
			}
		}
	}
	for _, g := range sel.GroupBy {
		if id, ok := g.(*sqlast.Identifier); ok {
			if _, found := aggNames[id.Names[0]]; found {
				return true
			}
		}
	}
	return false
}

// groupByAliasMissingFromProjection reports whether a GROUP BY item names a
// select-list alias that the final projection drops. Once wrapped away the
// alias would become unresolvable on alias-resolving dialects.
func (r *Result) groupByAliasMissingFromProjection(p *plan.Project) bool {
	sel, ok := r.node.(*sqlast.Select)
	if !ok || len(sel.GroupBy) == 0 {
		return false
	}
	projected := make(map[string]struct{})
	for _, col := range p.Schema() {
		projected[col.Name] = struct{}{}
	}
	for _, g := range sel.GroupBy {
		id, ok := g.(*sqlast.Identifier)
		if !ok || !id.IsSimple() {
			continue
		}
		name := id.Simple()
		for _, item := range sel.SelectList {
			if sqlast.GetAlias(item) != name {
				continue
			}
			if call, ok := item.(*sqlast.Call); ok && call.Op == sqlast.OpAs {
				if _, found := projected[name]; !found {
					return true
				}
			}
		}
	}
	return false
}

// nestedAnalyticsIn reports whether an analytic projection expression reads
// a select-list item that already contains a windowed call.
func (r *Result) nestedAnalyticsIn(p *plan.Project) bool {
	sel, ok := r.node.(*sqlast.Select)
	if !ok || len(sel.SelectList) == 0 {
		return false
	}
	for _, e := range p.Projections {
		if !expression.IsAnalytical(e) {
			continue
		}
		for _, ref := range expression.InputRefs(e) {
			if ref < len(sel.SelectList) && containsOverCall(sel.SelectList[ref]) {
				return true
			}
		}
	}
	return false
}

// nestedAggregations reports whether an aggregate argument lands on a
// select-list item that already contains an aggregate call.
func (r *Result) nestedAggregations(agg *plan.Aggregate) bool {
	sel, ok := r.node.(*sqlast.Select)
	if !ok || len(sel.SelectList) == 0 {
		return false
	}
	for arg := range agg.ArgOrdinals() {
		if arg < len(sel.SelectList) && containsAggCall(sel.SelectList[arg]) {
			return true
		}
	}
	return false
}

// analyticsInAggregateArgs reports whether an aggregate argument lands on a
// select-list item containing a windowed call.
func (r *Result) analyticsInAggregateArgs(agg *plan.Aggregate) bool {
	sel, ok := r.node.(*sqlast.Select)
	if !ok || len(sel.SelectList) == 0 {
		return false
	}
	for arg := range agg.ArgOrdinals() {
		if arg < len(sel.SelectList) && containsOverCall(sel.SelectList[arg]) {
			return true
		}
	}
	return false
}

// aliasUsedInHaving reports whether the HAVING predicate references any
// select-list alias by name.
func (r *Result) aliasUsedInHaving() bool {
	sel, ok := r.node.(*sqlast.Select)
	if !ok || sel.Having == nil {
		return false
	}
	aliases := make(map[string]struct{})
	for _, item := range sel.SelectList {
		if call, ok := item.(*sqlast.Call); ok && call.Op == sqlast.OpAs {
			if alias := sqlast.GetAlias(item); alias != "" {
				aliases[alias] = struct{}{}
			}
		}
	}
	if len(aliases) == 0 {
		return false
	}
	return referencesAlias(sel.Having, aliases)
}

func referencesAlias(node sqlast.Node, aliases map[string]struct{}) bool {
	switch n := node.(type) {
	case *sqlast.Identifier:
		if n.IsSimple() {
			_, found := aliases[n.Simple()]
			return found
		}
	case *sqlast.Call:
		for _, operand := range n.Operands {
			if referencesAlias(operand, aliases) {
				return true
			}
		}
	case sqlast.NodeList:
		for _, item := range n {
			if referencesAlias(item, aliases) {
				return true
			}
		}
	}
	return false
}

// containsAggCall reports whether a SQL node contains an aggregate call
// anywhere in its tree.
func containsAggCall(node sqlast.Node) bool {
	call, ok := node.(*sqlast.Call)
	if !ok {
		return false
	}
	if call.Op.Aggregate {
		return true
	}
	for _, operand := range call.Operands {
		if containsAggCall(operand) {
			return true
		}
	}
	return false
}

// containsOverCall reports whether a SQL node contains a windowed call
// anywhere in its tree.
func containsOverCall(node sqlast.Node) bool {
	call, ok := node.(*sqlast.Call)
	if !ok {
		return false
	}
	if call.Op.Kind == sqlast.KindOver {
		return true
	}
	for _, operand := range call.Operands {
		if containsOverCall(operand) {
			return true
		}
	}
	return false
}

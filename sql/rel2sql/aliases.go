package rel2sql

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/plan"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// uniquify registers and returns an alias unique within the statement,
// appending a numeric suffix on collision. Comparison is case-insensitive,
// matching SQL identifier resolution.
func (c *Converter) uniquify(suggested string) string {
	if suggested == "" {
		suggested = "t"
	}
	candidate := suggested
	for i := 0; ; i++ {
		key := strings.ToLower(candidate)
		if _, taken := c.aliasSet[key]; !taken {
			c.aliasSet[key] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", suggested, i)
	}
}

// tableNameOf finds the table name a node ultimately reads from, looking
// through filters and projections. Nodes without a single underlying table
// fall back to "t".
func tableNameOf(rel sql.Node) string {
	for rel != nil {
		if t, ok := rel.(sql.Tableable); ok {
			return t.TableName()
		}
		switch n := rel.(type) {
		case *plan.Filter:
			rel = n.Child
		case *plan.Project:
			rel = n.Child
		default:
			return "t"
		}
	}
	return "t"
}

// adjustedSchema returns rel's row type with column names replaced by the
// names the SQL node actually exposes: select-list aliases, the field names
// of an aliased FROM item, or the first arm of a set operation.
func adjustedSchema(rel sql.Node, node sqlast.Node) sql.Schema {
	schema := rel.Schema()
	switch n := node.(type) {
	case *sqlast.Select:
		if len(n.SelectList) == 0 {
			return schema
		}
		adjusted := make(sql.Schema, len(schema))
		copy(adjusted, schema)
		for i, item := range n.SelectList {
			if i >= len(adjusted) {
				break
			}
			if alias := sqlast.GetAlias(item); alias != "" {
				adjusted[i].Name = alias
			}
		}
		return adjusted
	case *sqlast.Call:
		if n.Op == sqlast.OpAs && len(n.Operands) > 2 {
			adjusted := make(sql.Schema, len(schema))
			copy(adjusted, schema)
			for i, operand := range n.Operands[2:] {
				if i >= len(adjusted) {
					break
				}
				if id, ok := operand.(*sqlast.Identifier); ok && id.IsSimple() {
					adjusted[i].Name = id.Simple()
				}
			}
			return adjusted
		}
		if n.Op.IsSetOp() && len(n.Operands) > 0 {
			return adjustedSchema(rel, n.Operands[0])
		}
	}
	return schema
}

// nodeExpressions returns the scalar expressions carried directly by a node.
func nodeExpressions(rel sql.Node) []sql.Expression {
	switch n := rel.(type) {
	case *plan.Filter:
		return []sql.Expression{n.Condition}
	case *plan.Project:
		return n.Projections
	case *plan.Window:
		return n.SelectExprs
	case *plan.Join:
		if n.Condition == nil {
			return nil
		}
		return []sql.Expression{n.Condition}
	case *plan.TableFunctionScan:
		return []sql.Expression{n.Call}
	case *plan.Sort:
		var exprs []sql.Expression
		if n.Offset != nil {
			exprs = append(exprs, n.Offset)
		}
		if n.Fetch != nil {
			exprs = append(exprs, n.Fetch)
		}
		return exprs
	default:
		return nil
	}
}

// collectCorrelationIDs gathers the correlation variables referenced inside
// the subqueries of an expression. A correlation variable outside any
// subquery belongs to a query further out; the node introducing the subquery
// owns the registration.
func collectCorrelationIDs(e sql.Expression, ids map[sql.CorrelationID]struct{}) {
	if sq, ok := e.(*expression.Subquery); ok {
		collectNodeCorrelationIDs(sq.Query(), ids)
	}
	for _, child := range e.Children() {
		collectCorrelationIDs(child, ids)
	}
}

func collectNodeCorrelationIDs(rel sql.Node, ids map[sql.CorrelationID]struct{}) {
	for _, e := range nodeExpressions(rel) {
		collectAllCorrelationIDs(e, ids)
	}
	for _, child := range rel.Children() {
		collectNodeCorrelationIDs(child, ids)
	}
}

func collectAllCorrelationIDs(e sql.Expression, ids map[sql.CorrelationID]struct{}) {
	if cv, ok := e.(*expression.CorrelVar); ok {
		ids[cv.ID()] = struct{}{}
	}
	if sq, ok := e.(*expression.Subquery); ok {
		collectNodeCorrelationIDs(sq.Query(), ids)
	}
	for _, child := range e.Children() {
		collectAllCorrelationIDs(child, ids)
	}
}

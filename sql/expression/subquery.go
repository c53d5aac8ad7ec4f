package expression

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// SubqueryKind is the operator applied to a nested query.
type SubqueryKind byte

const (
	// InSubquery is "x IN (SELECT ...)".
	InSubquery SubqueryKind = iota
	// ExistsSubquery is "EXISTS (SELECT ...)".
	ExistsSubquery
	// ScalarSubquery is a nested query used as a scalar value.
	ScalarSubquery
)

func (k SubqueryKind) String() string {
	switch k {
	case InSubquery:
		return "IN"
	case ExistsSubquery:
		return "EXISTS"
	default:
		return "SCALAR_QUERY"
	}
}

// Subquery embeds an algebra tree as a scalar expression. For IN subqueries
// the operands are the left-hand expressions; more than one builds a row
// constructor.
type Subquery struct {
	kind     SubqueryKind
	query    sql.Node
	operands []sql.Expression
	typ      sql.Type
}

var _ sql.Expression = (*Subquery)(nil)

// NewSubquery creates a subquery expression.
func NewSubquery(kind SubqueryKind, query sql.Node, typ sql.Type, operands ...sql.Expression) *Subquery {
	return &Subquery{kind: kind, query: query, operands: operands, typ: typ}
}

// Kind returns the subquery operator.
func (s *Subquery) Kind() SubqueryKind { return s.kind }

// Query returns the nested algebra tree.
func (s *Subquery) Query() sql.Node { return s.query }

// Operands returns the left-hand operands of an IN subquery.
func (s *Subquery) Operands() []sql.Expression { return s.operands }

// Type implements the Expression interface.
func (s *Subquery) Type() sql.Type { return s.typ }

// Children implements the Expression interface.
func (s *Subquery) Children() []sql.Expression { return s.operands }

func (s *Subquery) String() string {
	return fmt.Sprintf("%s (%s)", s.kind, s.query)
}

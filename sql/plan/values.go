package plan

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
)

// Values produces a fixed list of literal rows.
type Values struct {
	Tuples [][]*expression.Literal
	schema sql.Schema
}

var _ sql.Node = (*Values)(nil)

// NewValues creates a literal-rows node.
func NewValues(schema sql.Schema, tuples [][]*expression.Literal) *Values {
	return &Values{Tuples: tuples, schema: schema}
}

// Schema implements the Node interface.
func (v *Values) Schema() sql.Schema { return v.schema }

// Children implements the Node interface.
func (*Values) Children() []sql.Node { return nil }

func (v *Values) String() string {
	return fmt.Sprintf("Values(%d rows)", len(v.Tuples))
}

package plan

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// Filter keeps the input rows for which Condition is true.
type Filter struct {
	UnaryNode
	Condition sql.Expression
}

var _ sql.Node = (*Filter)(nil)

// NewFilter creates a filter node.
func NewFilter(condition sql.Expression, child sql.Node) *Filter {
	return &Filter{UnaryNode: UnaryNode{Child: child}, Condition: condition}
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter(%s)", f.Condition)
}

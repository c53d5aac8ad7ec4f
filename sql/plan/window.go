package plan

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
)

// Window computes a mix of pass-through fields and windowed calls over the
// input, one output column per expression. It is a projection whose select
// list may contain Over expressions.
type Window struct {
	UnaryNode
	SelectExprs []sql.Expression
	schema      sql.Schema
}

var _ sql.Node = (*Window)(nil)

// NewWindow creates a window node. fieldNames follows the NewProject
// convention.
func NewWindow(selectExprs []sql.Expression, fieldNames []string, child sql.Node) *Window {
	schema := make(sql.Schema, len(selectExprs))
	for i, e := range selectExprs {
		name := ""
		if i < len(fieldNames) {
			name = fieldNames[i]
		}
		if name == "" {
			if f, ok := e.(*expression.GetField); ok && f.Name() != "" {
				name = f.Name()
			} else {
				name = fmt.Sprintf("expr$%d", i)
			}
		}
		schema[i] = sql.Column{Name: name, Type: e.Type()}
	}
	return &Window{
		UnaryNode:   UnaryNode{Child: child},
		SelectExprs: selectExprs,
		schema:      schema,
	}
}

// Schema implements the Node interface.
func (w *Window) Schema() sql.Schema { return w.schema }

func (w *Window) String() string {
	parts := make([]string, len(w.SelectExprs))
	for i, e := range w.SelectExprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Window(%s)", strings.Join(parts, ", "))
}

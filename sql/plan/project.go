package plan

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
)

// Project computes a new row from each input row. The output column names
// come from the field names supplied at construction; unnamed expressions
// get synthetic "expr$N" names, like the optimizers that feed this package
// produce.
type Project struct {
	UnaryNode
	Projections []sql.Expression
	schema      sql.Schema
}

var _ sql.Node = (*Project)(nil)

// NewProject creates a projection node. fieldNames must either be empty, in
// which case names are derived, or have one name per projection.
func NewProject(projections []sql.Expression, fieldNames []string, child sql.Node) *Project {
	schema := make(sql.Schema, len(projections))
	for i, p := range projections {
		name := ""
		if i < len(fieldNames) {
			name = fieldNames[i]
		}
		if name == "" {
			if f, ok := p.(*expression.GetField); ok && f.Name() != "" {
				name = f.Name()
			} else {
				name = fmt.Sprintf("expr$%d", i)
			}
		}
		schema[i] = sql.Column{Name: name, Type: p.Type()}
	}
	return &Project{
		UnaryNode:   UnaryNode{Child: child},
		Projections: projections,
		schema:      schema,
	}
}

// Schema implements the Node interface.
func (p *Project) Schema() sql.Schema { return p.schema }

// IsStar reports whether the projection passes every input field through,
// in order, under the same names.
func (p *Project) IsStar() bool {
	childSchema := p.Child.Schema()
	if len(p.Projections) != len(childSchema) {
		return false
	}
	for i, e := range p.Projections {
		f, ok := e.(*expression.GetField)
		if !ok || f.Index() != i {
			return false
		}
	}
	for i := range childSchema {
		if p.schema[i].Name != childSchema[i].Name {
			return false
		}
	}
	return true
}

// ContainsOver reports whether any projection contains a windowed call.
func (p *Project) ContainsOver() bool {
	for _, e := range p.Projections {
		if expression.IsAnalytical(e) {
			return true
		}
	}
	return false
}

func (p *Project) String() string {
	parts := make([]string, len(p.Projections))
	for i, e := range p.Projections {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Project(%s)", strings.Join(parts, ", "))
}
